package auth_test

import (
	"testing"
	"time"

	"taskboard/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := auth.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, auth.VerifyPassword("correct horse battery staple", hash))
	assert.False(t, auth.VerifyPassword("wrong password", hash))
	assert.False(t, auth.VerifyPassword("", hash))
}

func TestHashPasswordSalted(t *testing.T) {
	first, err := auth.HashPassword("secret-pass")
	require.NoError(t, err)
	second, err := auth.HashPassword("secret-pass")
	require.NoError(t, err)

	// одинаковые пароли дают разные хеши
	assert.NotEqual(t, first, second)
}

func TestTokenIssueAndVerify(t *testing.T) {
	manager := auth.NewTokenManager("test-secret", time.Hour)

	token, err := manager.Issue("alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, err := manager.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)
}

func TestTokenExpired(t *testing.T) {
	manager := auth.NewTokenManager("test-secret", -time.Minute)

	token, err := manager.Issue("alice")
	require.NoError(t, err)

	_, err = manager.Verify(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestTokenWrongSecret(t *testing.T) {
	issuer := auth.NewTokenManager("secret-one", time.Hour)
	verifier := auth.NewTokenManager("secret-two", time.Hour)

	token, err := issuer.Issue("alice")
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestTokenMalformed(t *testing.T) {
	manager := auth.NewTokenManager("test-secret", time.Hour)

	for _, token := range []string{"", "garbage", "a.b.c", "eyJhbGciOiJIUzI1NiJ9"} {
		_, err := manager.Verify(token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken, "token=%q", token)
	}
}
