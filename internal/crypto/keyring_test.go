package crypto

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestKeyring_EnvTakesPrecedence(t *testing.T) {
	keyring.MockInit()
	t.Setenv(EnvKey, "from-env")

	k := NewKeyring()
	require.NoError(t, k.SetKey("from-keyring"))

	key, err := k.GetKey()
	require.NoError(t, err)
	assert.Equal(t, "from-env", key)
}

func TestKeyring_SystemRoundTrip(t *testing.T) {
	keyring.MockInit()
	t.Setenv(EnvKey, "")

	k := NewKeyring()
	_, err := k.GetKey()
	assert.True(t, errors.Is(err, ErrNoKey))

	require.NoError(t, k.SetKey("secret"))
	key, err := k.GetKey()
	require.NoError(t, err)
	assert.Equal(t, "secret", key)
	assert.True(t, k.IsAvailable())

	require.NoError(t, k.DeleteKey())
	_, err = k.GetKey()
	assert.True(t, errors.Is(err, ErrNoKey))
}

func TestKeyring_RejectsEmptyPassword(t *testing.T) {
	keyring.MockInit()
	assert.Error(t, NewKeyring().SetKey(""))
}
