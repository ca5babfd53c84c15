package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundtrip(t *testing.T) {
	token, err := GenerateAccessToken("test-secret", "64f000000000000000000001", "admin")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateAccessToken("test-secret", token)
	require.NoError(t, err)
	assert.Equal(t, "64f000000000000000000001", claims["sub"])
	assert.Equal(t, "admin", claims["role"])
}

func TestAccessTokenWrongSecret(t *testing.T) {
	token, err := GenerateAccessToken("test-secret", "id", "admin")
	require.NoError(t, err)

	_, err = ValidateAccessToken("other-secret", token)
	assert.Error(t, err)
}

func TestAccessTokenGarbage(t *testing.T) {
	_, err := ValidateAccessToken("test-secret", "not.a.token")
	assert.Error(t, err)
}
