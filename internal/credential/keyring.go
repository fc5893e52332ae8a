// Package credential stores the database auth token in the system
// keyring. The token is the only credential this app holds; the
// database URL itself lives in the config file.
package credential

import (
	"errors"
	"fmt"

	"github.com/99designs/keyring"
)

const (
	serviceName = "todoapp"
	tokenKey    = "database-auth-token"
)

// open configures the backends the CLI supports: the platform keychains,
// with an encrypted file as the fallback on headless systems.
func open() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/todo/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("todoapp-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// DatabaseToken returns the stored auth token, or "" when none is set.
func DatabaseToken() (string, error) {
	ring, err := open()
	if err != nil {
		return "", err
	}

	item, err := ring.Get(tokenKey)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading auth token: %w", err)
	}
	return string(item.Data), nil
}

// SetDatabaseToken stores the auth token, replacing any previous one.
func SetDatabaseToken(token string) error {
	ring, err := open()
	if err != nil {
		return err
	}

	err = ring.Set(keyring.Item{
		Key:   tokenKey,
		Label: "todo database auth token",
		Data:  []byte(token),
	})
	if err != nil {
		return fmt.Errorf("storing auth token: %w", err)
	}
	return nil
}

// ClearDatabaseToken removes the stored auth token. Clearing an absent
// token is not an error.
func ClearDatabaseToken() error {
	ring, err := open()
	if err != nil {
		return err
	}

	err = ring.Remove(tokenKey)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("removing auth token: %w", err)
	}
	return nil
}
