package cli

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// keyringService is the service name of keyring entries. Entries are keyed
// by profile name.
const keyringService = "multicard"

var errNoSecret = errors.New("no secret stored for profile")

func loadSecret(profile string) (string, error) {
	secret, err := keyring.Get(keyringService, profile)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", fmt.Errorf("%w %q (run 'multicard login')", errNoSecret, profile)
	}
	if err != nil {
		return "", fmt.Errorf("keyring error: %w", err)
	}
	return secret, nil
}

func saveSecret(profile, secret string) error {
	if err := keyring.Set(keyringService, profile, secret); err != nil {
		return fmt.Errorf("keyring error: %w", err)
	}
	return nil
}

// deleteSecret removes the stored secret. A missing entry is not an error.
func deleteSecret(profile string) error {
	err := keyring.Delete(keyringService, profile)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("keyring error: %w", err)
	}
	return nil
}
