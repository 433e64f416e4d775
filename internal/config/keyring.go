package config

import (
	"fmt"

	"github.com/99designs/keyring"
)

const keyringService = "git-issue"

func openKeyring() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: keyringService,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/git-issue/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("git-issue-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// keyringToken looks up the API token for a backend from the system
// keyring under the same key git config would use.
func keyringToken(backend string) (string, error) {
	ring, err := openKeyring()
	if err != nil {
		return "", err
	}
	item, err := ring.Get("issue." + backend + ".token")
	if err != nil {
		return "", fmt.Errorf("getting token for %s: %w", backend, err)
	}
	return string(item.Data), nil
}

// StoreToken saves an API token for a backend in the system keyring.
func StoreToken(backend, token string) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}
	err = ring.Set(keyring.Item{
		Key:  "issue." + backend + ".token",
		Data: []byte(token),
	})
	if err != nil {
		return fmt.Errorf("storing token for %s: %w", backend, err)
	}
	return nil
}
