package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken(7, "ana", "cashier")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token)
	require.NoError(t, err)

	assert.Equal(t, int64(7), claims.OperatorID)
	assert.Equal(t, "ana", claims.Username)
	assert.Equal(t, "cashier", claims.Role)
}

func TestValidateToken_Garbage(t *testing.T) {
	_, err := ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestValidateToken_TamperedSignature(t *testing.T) {
	token, err := GenerateAccessToken(7, "ana", "cashier")
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, err = ValidateToken(tampered)
	assert.Error(t, err)
}

func TestRefreshTokenCarriesOperatorID(t *testing.T) {
	token, err := GenerateRefreshToken(9)
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(9), claims.OperatorID)
	assert.Empty(t, claims.Username)
}
