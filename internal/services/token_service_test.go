package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTokenService_IssueAndVerify(t *testing.T) {
	tokens := NewTokenService("test-secret", time.Hour)

	token, err := tokens.Issue(42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := tokens.Verify(token)
	require.NoError(t, err)
	require.Equal(t, uint64(42), userID)
}

func TestTokenService_Expired(t *testing.T) {
	tokens := NewTokenService("test-secret", -time.Minute)

	token, err := tokens.Issue(42)
	require.NoError(t, err)

	_, err = tokens.Verify(token)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenService_Garbage(t *testing.T) {
	tokens := NewTokenService("test-secret", time.Hour)

	_, err := tokens.Verify("not-a-token")
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenService_WrongSecret(t *testing.T) {
	issuer := NewTokenService("secret-one", time.Hour)
	verifier := NewTokenService("secret-two", time.Hour)

	token, err := issuer.Issue(42)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenService_TamperedSignature(t *testing.T) {
	tokens := NewTokenService("test-secret", time.Hour)

	token, err := tokens.Issue(42)
	require.NoError(t, err)

	_, err = tokens.Verify(token + "x")
	require.ErrorIs(t, err, ErrTokenInvalid)
}
