package auth

import (
	"os"
	"time"
)

// EnvironmentStore implements TokenStore using environment variables
// This is primarily for CI and one-off usage
type EnvironmentStore struct{}

// NewEnvironmentStore creates a new environment-based token store
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

// Store is not supported for environment variables
func (e *EnvironmentStore) Store(account *Account) error {
	return ErrStoreUnavailable
}

// Retrieve gets the token from environment variables
func (e *EnvironmentStore) Retrieve(name string) (*Account, error) {
	token := os.Getenv("IMGCHEST_TOKEN")
	if token == "" {
		return nil, ErrAccountNotFound
	}

	// The environment doesn't store an account name, so we use "default"
	// or the provided one
	if name == "" {
		name = "default"
	}

	return &Account{
		Name:         name,
		Token:        token,
		LastModified: time.Now(),
	}, nil
}

// List returns a single account if the environment token is set
func (e *EnvironmentStore) List() ([]*Account, error) {
	account, err := e.Retrieve("")
	if err != nil {
		return []*Account{}, nil
	}
	return []*Account{account}, nil
}

// Delete is not supported for environment variables
func (e *EnvironmentStore) Delete(name string) error {
	return ErrStoreUnavailable
}

// Exists checks if the environment token is set
func (e *EnvironmentStore) Exists(name string) bool {
	return os.Getenv("IMGCHEST_TOKEN") != ""
}
