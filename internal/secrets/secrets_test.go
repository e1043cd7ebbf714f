package secrets_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/graham-screener/internal/secrets"
)

func TestEncryptDecrypt(t *testing.T) {
	key, err := secrets.GenerateKey()
	require.NoError(t, err)

	token, err := secrets.Encrypt(key, "my-api-key")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(token, secrets.Prefix))
	assert.NotContains(t, token, "my-api-key")

	plain, err := secrets.Decrypt(key, token)
	require.NoError(t, err)
	assert.Equal(t, "my-api-key", plain)
}

func TestDecrypt(t *testing.T) {
	key, err := secrets.GenerateKey()
	require.NoError(t, err)
	other, err := secrets.GenerateKey()
	require.NoError(t, err)

	token, err := secrets.Encrypt(key, "value")
	require.NoError(t, err)

	t.Run("plain values pass through", func(t *testing.T) {
		got, err := secrets.Decrypt("", "plain")
		require.NoError(t, err)
		assert.Equal(t, "plain", got)
	})

	t.Run("wrong key", func(t *testing.T) {
		_, err := secrets.Decrypt(other, token)
		assert.ErrorIs(t, err, secrets.ErrInvalidToken)
	})

	t.Run("missing key", func(t *testing.T) {
		_, err := secrets.Decrypt("", token)
		assert.ErrorIs(t, err, secrets.ErrMissingKey)
	})

	t.Run("malformed key", func(t *testing.T) {
		_, err := secrets.Decrypt("not-a-key", token)
		assert.Error(t, err)
	})

	t.Run("tampered token", func(t *testing.T) {
		_, err := secrets.Decrypt(key, token+"x")
		assert.ErrorIs(t, err, secrets.ErrInvalidToken)
	})
}
