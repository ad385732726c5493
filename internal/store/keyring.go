package store

import (
	"fmt"

	"github.com/zalando/go-keyring"
)

const serviceName = "aliaskit"

const tokenKey = "api-token"

// KeyringTokenStore persists the API token in the OS keyring
// (macOS Keychain, Windows Credential Manager, or Linux Secret Service).
type KeyringTokenStore struct{}

// NewKeyringTokenStore returns a new KeyringTokenStore.
func NewKeyringTokenStore() *KeyringTokenStore {
	return &KeyringTokenStore{}
}

// SaveToken stores the API token in the OS keyring.
func (k *KeyringTokenStore) SaveToken(token string) error {
	if err := keyring.Set(serviceName, tokenKey, token); err != nil {
		return fmt.Errorf("failed to save token to keyring: %w", err)
	}
	return nil
}

// LoadToken retrieves the API token from the OS keyring. A missing entry is
// returned as an error; callers fall back to the settings record.
func (k *KeyringTokenStore) LoadToken() (string, error) {
	token, err := keyring.Get(serviceName, tokenKey)
	if err != nil {
		return "", fmt.Errorf("failed to load token from keyring: %w", err)
	}
	return token, nil
}

// DeleteToken removes the API token from the OS keyring.
func (k *KeyringTokenStore) DeleteToken() error {
	if err := keyring.Delete(serviceName, tokenKey); err != nil {
		return fmt.Errorf("failed to delete token from keyring: %w", err)
	}
	return nil
}
