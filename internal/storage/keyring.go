package storage

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const keyringService = "storefront-cli"

// Keyring stores values in the OS keychain/credential manager
type Keyring struct {
	service string
}

// NewKeyring returns a keyring store whose entries are namespaced by scope
func NewKeyring(scope string) *Keyring {
	return &Keyring{service: fmt.Sprintf("%s:%s", keyringService, scope)}
}

func (k *Keyring) Get(key string) (string, bool, error) {
	value, err := keyring.Get(k.service, key)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read %s from keyring: %w", key, err)
	}
	return value, true, nil
}

func (k *Keyring) Set(key, value string) error {
	if err := keyring.Set(k.service, key, value); err != nil {
		return fmt.Errorf("failed to save %s to keyring: %w", key, err)
	}
	return nil
}

func (k *Keyring) Remove(key string) error {
	if err := keyring.Delete(k.service, key); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil // Already removed
		}
		return fmt.Errorf("failed to remove %s from keyring: %w", key, err)
	}
	return nil
}
