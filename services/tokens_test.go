package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	secret := []byte("test-secret")

	token, err := IssueToken(secret, 42, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := ParseToken(secret, token)
	require.NoError(t, err)
	assert.EqualValues(t, 42, userID)
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := IssueToken([]byte("right"), 1, time.Hour)
	require.NoError(t, err)

	_, err = ParseToken([]byte("wrong"), token)
	assert.Error(t, err)
}

func TestParseTokenExpired(t *testing.T) {
	secret := []byte("test-secret")

	past := time.Now().Add(-time.Hour)
	claims := jwt.RegisteredClaims{
		Subject:   "1",
		IssuedAt:  jwt.NewNumericDate(past),
		ExpiresAt: jwt.NewNumericDate(past.Add(time.Minute)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)

	_, err = ParseToken(secret, token)
	assert.Error(t, err)
}

func TestParseTokenGarbage(t *testing.T) {
	_, err := ParseToken([]byte("secret"), "not.a.token")
	assert.Error(t, err)
}
