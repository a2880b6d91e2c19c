// Package session owns the persisted admin credential: the access/refresh
// token pair issued at login plus the cached display name shown in the
// console header. Exactly one credential is held at a time; token presence
// is the sole client-side admission check for admin views.
package session

// TokenPair is the credential returned by the token endpoint.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Store is the session capability injected into the API client and the
// auth service. Reads degrade to the zero value when the underlying
// storage is unavailable; writes report their error so a just-completed
// auth flow can surface it.
type Store interface {
	// SetTokens stores the credential, replacing any previous one.
	SetTokens(pair TokenPair) error

	// AccessToken returns the stored access token, or "" when no
	// credential is held or storage cannot be read.
	AccessToken() string

	// RefreshToken returns the stored refresh token, or "".
	RefreshToken() string

	// Clear removes the credential and the cached display name.
	Clear() error

	// SetDisplayName caches the admin's display name for the UI greeting.
	SetDisplayName(name string) error

	// DisplayName returns the cached display name, or "".
	DisplayName() string
}
