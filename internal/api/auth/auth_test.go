package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	secret := []byte("secret")
	token, err := GenerateAccessToken("alice", 42, time.Now().Add(time.Hour), secret)
	require.NoError(t, err)

	claims, err := ParseAccessToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Name)
	assert.Equal(t, "42", claims.Subject)

	_, err = ParseAccessToken(token, []byte("other"))
	assert.Error(t, err)
}

func TestExpiredAccessToken(t *testing.T) {
	secret := []byte("secret")
	token, err := GenerateAccessToken("alice", 42, time.Now().Add(-time.Minute), secret)
	require.NoError(t, err)

	_, err = ParseAccessToken(token, secret)
	assert.Error(t, err)
}
