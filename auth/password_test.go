package auth_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/whisperbox/secrets/auth"
)

func TestPassworderDerive(t *testing.T) {
	// Arrange
	p := auth.Passworder{}

	// Act
	salt, hash, err := p.Derive("keyboard cat")

	// Assert
	require.Nil(t, err)
	require.Len(t, salt, 16)
	require.Len(t, hash, 32)

	// Act, same password derives under a different salt
	salt2, hash2, err := p.Derive("keyboard cat")

	// Assert
	require.Nil(t, err)
	require.NotEqual(t, salt, salt2)
	require.NotEqual(t, hash, hash2)
}

func TestPassworderCompare(t *testing.T) {
	// Arrange
	p := auth.Passworder{}
	salt, hash, err := p.Derive("keyboard cat")
	require.Nil(t, err)

	// Act + Assert
	require.True(t, p.Compare(salt, hash, "keyboard cat"))
	require.False(t, p.Compare(salt, hash, "keyboard dog"))
	require.False(t, p.Compare(hash, salt, "keyboard cat"))
}
