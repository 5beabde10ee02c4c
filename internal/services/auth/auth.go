// Package auth stores inventory API tokens in the OS keychain.
package auth

import (
	"errors"
	"strings"

	"nathanbeddoewebdev/ptrgen/internal/util"
)

const ServiceName = "ptrgen"

var ErrTokenNotFound = errors.New("auth token not found")

type Store interface {
	SetToken(provider string, token string) error
	GetToken(provider string) (string, error)
	DeleteToken(provider string) error
}

// DefaultStore returns the standard auth store backed by the OS keychain.
func DefaultStore() Store {
	return NewKeyringStore(ServiceName)
}

// NormalizeProvider normalizes a provider name for consistent key lookup.
func NormalizeProvider(provider string) string {
	return util.NormalizeKey(provider)
}

// Source says where a resolved token came from.
type Source string

const (
	SourceEnvironment Source = "environment"
	SourceKeychain    Source = "keychain"
)

// ResolveToken returns envToken when it is set, otherwise the token stored
// for provider. ErrTokenNotFound is returned when neither exists.
func ResolveToken(store Store, provider, envToken string) (string, Source, error) {
	if t := strings.TrimSpace(envToken); t != "" {
		return t, SourceEnvironment, nil
	}
	if store == nil {
		return "", "", ErrTokenNotFound
	}
	token, err := store.GetToken(provider)
	if err != nil {
		return "", "", err
	}
	return token, SourceKeychain, nil
}
