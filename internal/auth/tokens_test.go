package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIssuer() *TokenIssuer {
	issuer := NewTokenIssuer("test-secret", 30*time.Minute, 24*time.Hour)
	issuer.now = func() time.Time {
		return time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	}
	return issuer
}

func TestIssuePairRoundTrip(t *testing.T) {
	issuer := newTestIssuer()

	pair, err := issuer.IssuePair("drsmith")
	require.NoError(t, err)
	require.NotEmpty(t, pair.Access)
	require.NotEmpty(t, pair.Refresh)

	subject, err := issuer.VerifyAccess(pair.Access)
	require.NoError(t, err)
	assert.Equal(t, "drsmith", subject)
}

func TestRefreshMintsNewAccess(t *testing.T) {
	issuer := newTestIssuer()

	pair, err := issuer.IssuePair("drsmith")
	require.NoError(t, err)

	access, err := issuer.Refresh(pair.Refresh)
	require.NoError(t, err)
	subject, err := issuer.VerifyAccess(access)
	require.NoError(t, err)
	assert.Equal(t, "drsmith", subject)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	issuer := newTestIssuer()

	pair, err := issuer.IssuePair("drsmith")
	require.NoError(t, err)

	_, err = issuer.Refresh(pair.Access)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestVerifyAccessRejectsRefreshToken(t *testing.T) {
	issuer := newTestIssuer()

	pair, err := issuer.IssuePair("drsmith")
	require.NoError(t, err)

	_, err = issuer.VerifyAccess(pair.Refresh)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestVerifyAccessRejectsExpired(t *testing.T) {
	issuer := newTestIssuer()
	pair, err := issuer.IssuePair("drsmith")
	require.NoError(t, err)

	issuer.now = func() time.Time {
		return time.Date(2026, time.March, 10, 10, 0, 0, 0, time.UTC)
	}
	_, err = issuer.VerifyAccess(pair.Access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyAccessRejectsWrongSecret(t *testing.T) {
	issuer := newTestIssuer()
	pair, err := issuer.IssuePair("drsmith")
	require.NoError(t, err)

	other := NewTokenIssuer("other-secret", 30*time.Minute, 24*time.Hour)
	_, err = other.VerifyAccess(pair.Access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyAccessRejectsGarbage(t *testing.T) {
	issuer := newTestIssuer()
	_, err := issuer.VerifyAccess("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
