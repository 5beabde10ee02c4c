package auth

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// KeyringStore keeps one token per provider under the ptrgen service entry.
type KeyringStore struct {
	serviceName string
}

func NewKeyringStore(serviceName string) *KeyringStore {
	if serviceName == "" {
		serviceName = ServiceName
	}
	return &KeyringStore{serviceName: serviceName}
}

// account is the keychain user for a provider, e.g. "netbox-api-token".
func account(provider string) string {
	return NormalizeProvider(provider) + "-api-token"
}

func (k *KeyringStore) SetToken(provider string, token string) error {
	if err := keyring.Set(k.serviceName, account(provider), token); err != nil {
		return fmt.Errorf("keychain: store %s token: %w", provider, err)
	}
	return nil
}

func (k *KeyringStore) GetToken(provider string) (string, error) {
	token, err := keyring.Get(k.serviceName, account(provider))
	switch {
	case err == nil:
		return token, nil
	case errors.Is(err, keyring.ErrNotFound):
		return "", ErrTokenNotFound
	default:
		return "", fmt.Errorf("keychain: read %s token: %w", provider, err)
	}
}

func (k *KeyringStore) DeleteToken(provider string) error {
	err := keyring.Delete(k.serviceName, account(provider))
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrTokenNotFound
	}
	return err
}
