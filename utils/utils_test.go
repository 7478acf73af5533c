package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)

	token, err := issuer.GenerateJWT("64b7f0c2e1a2b3c4d5e6f708")
	require.NoError(t, err)

	claims, err := issuer.ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "64b7f0c2e1a2b3c4d5e6f708", claims.UserID)
	assert.Equal(t, "gharbari", claims.Issuer)
}

func TestTokenIssuer_Rejects(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	token, err := issuer.GenerateJWT("user")
	require.NoError(t, err)

	_, err = NewTokenIssuer("other", time.Hour).ValidateJWT(token)
	assert.Error(t, err)

	expired := NewTokenIssuer("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, err := expired.GenerateJWT("user")
	require.NoError(t, err)
	_, err = issuer.ValidateJWT(old)
	require.Error(t, err)
	assert.Equal(t, "token has expired", err.Error())

	_, err = issuer.ValidateJWT("not-a-token")
	assert.Error(t, err)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)
	assert.True(t, CheckPassword(hash, "correct horse"))
	assert.False(t, CheckPassword(hash, "wrong"))
}

func TestRandomToken(t *testing.T) {
	a, err := RandomToken()
	require.NoError(t, err)
	b, err := RandomToken()
	require.NoError(t, err)
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Beautiful House in Kathmandu":  "beautiful-house-in-kathmandu",
		"  Café   Crème -- Lalitpur!! ": "cafe-creme-lalitpur",
		"3BHK @ Baneshwor (New)":        "3bhk-baneshwor-new",
		"!!!":                           "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), in)
	}
}
