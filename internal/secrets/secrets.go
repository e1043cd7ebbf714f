// Package secrets encrypts configuration values with Fernet tokens.
//
// An encrypted value is stored as "fernet:<token>"; anything without the
// prefix is treated as plain text.
package secrets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fernet/fernet-go"
)

// Prefix marks an encrypted configuration value.
const Prefix = "fernet:"

var (
	// ErrMissingKey is returned when an encrypted value is found but no key is configured.
	ErrMissingKey = errors.New("secret key is not configured")
	// ErrInvalidToken is returned when a token fails verification.
	ErrInvalidToken = errors.New("invalid or tampered secret")
)

// GenerateKey returns a new base64 encoded Fernet key.
func GenerateKey() (string, error) {
	var k fernet.Key
	if err := k.Generate(); err != nil {
		return "", fmt.Errorf("failed to generate key: %w", err)
	}
	return k.Encode(), nil
}

// IsEncrypted reports whether value carries the encryption prefix.
func IsEncrypted(value string) bool {
	return strings.HasPrefix(value, Prefix)
}

// Encrypt encrypts plaintext with key and returns the prefixed token.
func Encrypt(key, plaintext string) (string, error) {
	k, err := decodeKey(key)
	if err != nil {
		return "", err
	}

	tok, err := fernet.EncryptAndSign([]byte(plaintext), k)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt secret: %w", err)
	}
	return Prefix + string(tok), nil
}

// Decrypt returns the plaintext of a prefixed token. Values without the
// prefix are returned unchanged.
func Decrypt(key, value string) (string, error) {
	if !IsEncrypted(value) {
		return value, nil
	}

	k, err := decodeKey(key)
	if err != nil {
		return "", err
	}

	msg := fernet.VerifyAndDecrypt([]byte(strings.TrimPrefix(value, Prefix)), 0, []*fernet.Key{k})
	if msg == nil {
		return "", ErrInvalidToken
	}
	return string(msg), nil
}

func decodeKey(key string) (*fernet.Key, error) {
	if key == "" {
		return nil, ErrMissingKey
	}
	k, err := fernet.DecodeKey(key)
	if err != nil {
		return nil, fmt.Errorf("invalid secret key: %w", err)
	}
	return k, nil
}
