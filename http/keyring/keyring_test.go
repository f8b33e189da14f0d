package keyring_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/whisperbox/secrets"
	"github.com/whisperbox/secrets/http/keyring"
)

func TestNewKeyring(t *testing.T) {
	// Arrange + Act
	kr := keyring.NewKeyring(nil, nil)

	// Assert
	require.Nil(t, kr)

	// Arrange + Act
	kr = keyring.NewKeyring(secrets.SessionKey, secrets.CurrentUserKey, secrets.RequestIDKey, nil)

	// Assert
	require.Equal(t, secrets.SessionKey, kr.SessionKey())
	require.Equal(t, secrets.CurrentUserKey, kr.CurrentUserKey())
	require.Equal(t, secrets.RequestIDKey, kr.Key(secrets.RequestIDKey.Key()))
	require.Nil(t, kr.Key("nope"))
}
