package session

import "sync"

// MemoryStore is an in-process Store. It backs tests and environments
// where no keyring is available; the credential lasts for the process.
type MemoryStore struct {
	mu     sync.Mutex
	tokens TokenPair
	name   string
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) SetTokens(pair TokenPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = pair
	return nil
}

func (s *MemoryStore) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens.Access
}

func (s *MemoryStore) RefreshToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens.Refresh
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = TokenPair{}
	s.name = ""
	return nil
}

func (s *MemoryStore) SetDisplayName(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
	return nil
}

func (s *MemoryStore) DisplayName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name
}
