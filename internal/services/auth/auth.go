// Package auth stores Cloud DNS credentials in the OS keychain.
package auth

import (
	"errors"
	"fmt"
)

// ServiceName is the keychain service under which secrets are filed.
const ServiceName = "dnsm"

// Keychain entry names. Username and API key are stored separately so
// either can be rotated without retyping the other.
const (
	keyUsername = "clouddns-username"
	keyAPIKey   = "clouddns-apikey"
)

// ErrSecretNotFound indicates no secret is stored under the given name.
var ErrSecretNotFound = errors.New("secret not found")

// Store is the secret storage interface. The default implementation is
// backed by the OS keychain; tests use MockStore.
type Store interface {
	SetSecret(name string, value string) error
	GetSecret(name string) (string, error)
	DeleteSecret(name string) error
}

// DefaultStore returns the standard store backed by the OS keychain.
func DefaultStore() Store {
	return NewKeyringStore(ServiceName)
}

// Credentials is the pair needed to authorize against the Cloud DNS API.
type Credentials struct {
	Username string
	APIKey   string
}

// SaveCredentials writes both halves of the credentials to the store.
func SaveCredentials(store Store, creds Credentials) error {
	if err := store.SetSecret(keyUsername, creds.Username); err != nil {
		return fmt.Errorf("failed to store username: %w", err)
	}
	if err := store.SetSecret(keyAPIKey, creds.APIKey); err != nil {
		return fmt.Errorf("failed to store API key: %w", err)
	}
	return nil
}

// LoadCredentials reads the stored credentials. A missing entry is
// reported as ErrSecretNotFound so callers can suggest logging in.
func LoadCredentials(store Store) (*Credentials, error) {
	username, err := store.GetSecret(keyUsername)
	if err != nil {
		return nil, fmt.Errorf("username not found (run 'dnsm auth login'): %w", err)
	}
	apiKey, err := store.GetSecret(keyAPIKey)
	if err != nil {
		return nil, fmt.Errorf("API key not found (run 'dnsm auth login'): %w", err)
	}
	return &Credentials{Username: username, APIKey: apiKey}, nil
}

// DeleteCredentials removes both stored secrets. Missing entries are not
// an error; logout is idempotent.
func DeleteCredentials(store Store) error {
	for _, name := range []string{keyUsername, keyAPIKey} {
		if err := store.DeleteSecret(name); err != nil && !errors.Is(err, ErrSecretNotFound) {
			return err
		}
	}
	return nil
}
