package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("user-42", "admin", time.Hour)
	assert.NoError(t, err)

	sub, role, err := ExtractPrincipalFromToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-42", sub)
	assert.Equal(t, "admin", role)
}

func TestTokenMissingRole_DefaultsToUser(t *testing.T) {
	token, err := GenerateToken("user-42", "", time.Hour)
	assert.NoError(t, err)

	_, role, err := ExtractPrincipalFromToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "user", role)
}

func TestExpiredToken_Rejected(t *testing.T) {
	token, err := GenerateToken("user-42", "user", -time.Minute)
	assert.NoError(t, err)

	_, _, err = ExtractPrincipalFromToken(token)
	assert.Error(t, err)
}

func TestGarbageToken_Rejected(t *testing.T) {
	_, _, err := ExtractPrincipalFromToken("not.a.token")
	assert.Error(t, err)
}
