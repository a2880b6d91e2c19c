package session

import (
	"errors"
	"fmt"

	"github.com/99designs/keyring"
)

const serviceName = "contactadmin"

// Fixed item keys within the keyring service.
const (
	keyAccessToken  = "access-token"
	keyRefreshToken = "refresh-token"
	keyDisplayName  = "admin-name"
)

// KeyringStore persists the credential in the system keyring, falling
// back to an encrypted file backend where no OS keychain is available.
type KeyringStore struct {
	service string
	fileDir string
}

// NewKeyringStore creates a Store backed by the system keyring under the
// default service name.
func NewKeyringStore() *KeyringStore {
	return &KeyringStore{
		service: serviceName,
		fileDir: "~/.config/contactadmin/credentials",
	}
}

// NewKeyringStoreAt creates a keyring store with a custom service name
// and file-backend directory. Used by tests to isolate storage.
func NewKeyringStoreAt(service, fileDir string) *KeyringStore {
	return &KeyringStore{service: service, fileDir: fileDir}
}

// open returns a configured keyring instance.
func (s *KeyringStore) open() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: s.service,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  s.fileDir,
		FilePasswordFunc:         keyring.FixedStringPrompt(s.service + "-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// SetTokens stores the token pair, replacing any previous credential.
func (s *KeyringStore) SetTokens(pair TokenPair) error {
	ring, err := s.open()
	if err != nil {
		return err
	}
	if err := setItem(ring, keyAccessToken, pair.Access); err != nil {
		return err
	}
	return setItem(ring, keyRefreshToken, pair.Refresh)
}

// AccessToken returns the stored access token. Storage failures degrade
// to "" so callers treat an unreadable keyring as "not logged in".
func (s *KeyringStore) AccessToken() string {
	return s.get(keyAccessToken)
}

// RefreshToken returns the stored refresh token, or "".
func (s *KeyringStore) RefreshToken() string {
	return s.get(keyRefreshToken)
}

// Clear removes the credential and the cached display name.
func (s *KeyringStore) Clear() error {
	ring, err := s.open()
	if err != nil {
		return err
	}
	for _, key := range []string{keyAccessToken, keyRefreshToken, keyDisplayName} {
		if err := ring.Remove(key); err != nil &&
			!errors.Is(err, keyring.ErrKeyNotFound) {
			return fmt.Errorf("removing credential %q: %w", key, err)
		}
	}
	return nil
}

// SetDisplayName caches the admin's display name alongside the credential.
func (s *KeyringStore) SetDisplayName(name string) error {
	ring, err := s.open()
	if err != nil {
		return err
	}
	return setItem(ring, keyDisplayName, name)
}

// DisplayName returns the cached display name, or "".
func (s *KeyringStore) DisplayName() string {
	return s.get(keyDisplayName)
}

func (s *KeyringStore) get(key string) string {
	ring, err := s.open()
	if err != nil {
		return ""
	}
	item, err := ring.Get(key)
	if err != nil {
		return ""
	}
	return string(item.Data)
}

func setItem(ring keyring.Keyring, key, value string) error {
	err := ring.Set(keyring.Item{
		Key:  key,
		Data: []byte(value),
	})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", key, err)
	}
	return nil
}
