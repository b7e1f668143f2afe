package service_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShashkovS/ejapp/internal/auth/domain"
	"github.com/ShashkovS/ejapp/internal/auth/service"
	autherror "github.com/ShashkovS/ejapp/internal/errors"
)

func newTestTokenService(t *testing.T) *service.TokenService {
	t.Helper()
	ts, err := service.NewTokenService("test-secret-key", "HS256", 15*time.Minute, 30*24*time.Hour)
	require.NoError(t, err)
	return ts
}

func TestNewTokenService(t *testing.T) {
	t.Run("rejects unknown algorithm", func(t *testing.T) {
		_, err := service.NewTokenService("secret", "NOPE256", time.Minute, time.Hour)
		assert.Error(t, err)
	})

	t.Run("rejects non-HMAC algorithm", func(t *testing.T) {
		_, err := service.NewTokenService("secret", "RS256", time.Minute, time.Hour)
		assert.Error(t, err)
	})

	t.Run("accepts HS256", func(t *testing.T) {
		_, err := service.NewTokenService("secret", "HS256", time.Minute, time.Hour)
		assert.NoError(t, err)
	})
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	ts := newTestTokenService(t)

	for _, kind := range []domain.TokenKind{domain.KindAccess, domain.KindRefresh} {
		t.Run(string(kind), func(t *testing.T) {
			before := time.Now()
			encoded, err := ts.Encode("alice@example.com", kind, time.Hour)
			require.NoError(t, err)
			after := time.Now()

			claims, err := ts.Decode(encoded, kind)
			require.NoError(t, err)

			assert.Equal(t, "alice@example.com", claims.Subject)
			assert.Equal(t, kind, claims.Kind)
			assert.False(t, claims.IssuedAt.Before(before.Truncate(time.Second)))
			assert.False(t, claims.ExpiresAt.After(after.Add(time.Hour).Add(time.Second)))
		})
	}
}

func TestDecodeWrongKind(t *testing.T) {
	ts := newTestTokenService(t)

	accessToken, err := ts.Encode("alice@example.com", domain.KindAccess, time.Hour)
	require.NoError(t, err)
	refreshToken, err := ts.Encode("alice@example.com", domain.KindRefresh, time.Hour)
	require.NoError(t, err)

	_, err = ts.Decode(accessToken, domain.KindRefresh)
	assert.ErrorIs(t, err, autherror.ErrTokenWrongKind)

	_, err = ts.Decode(refreshToken, domain.KindAccess)
	assert.ErrorIs(t, err, autherror.ErrTokenWrongKind)
}

func TestDecodeExpired(t *testing.T) {
	ts := newTestTokenService(t)

	encoded, err := ts.Encode("alice@example.com", domain.KindAccess, -time.Second)
	require.NoError(t, err)

	_, err = ts.Decode(encoded, domain.KindAccess)
	assert.ErrorIs(t, err, autherror.ErrTokenExpired)
}

func TestDecodeTampered(t *testing.T) {
	ts := newTestTokenService(t)

	encoded, err := ts.Encode("alice@example.com", domain.KindAccess, time.Hour)
	require.NoError(t, err)

	parts := strings.Split(encoded, ".")
	require.Len(t, parts, 3)

	// Flip one character of the payload; the signature must stop matching.
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	claims, err := ts.Decode(tampered, domain.KindAccess)
	assert.Nil(t, claims)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, autherror.ErrTokenWrongKind)
}

func TestDecodeMalformed(t *testing.T) {
	ts := newTestTokenService(t)

	for _, tokenString := range []string{"", "garbage", "a.b", "a.b.c.d"} {
		_, err := ts.Decode(tokenString, domain.KindAccess)
		assert.ErrorIs(t, err, autherror.ErrTokenMalformed, "token %q", tokenString)
	}
}

func TestDecodeDifferentSecret(t *testing.T) {
	ts := newTestTokenService(t)
	other, err := service.NewTokenService("another-secret", "HS256", time.Minute, time.Hour)
	require.NoError(t, err)

	encoded, err := other.Encode("alice@example.com", domain.KindAccess, time.Hour)
	require.NoError(t, err)

	_, err = ts.Decode(encoded, domain.KindAccess)
	assert.ErrorIs(t, err, autherror.ErrTokenSignature)
}

func TestIssuePair(t *testing.T) {
	ts := newTestTokenService(t)

	pair, err := ts.IssuePair("alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, pair)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	access, err := ts.Decode(pair.AccessToken, domain.KindAccess)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", access.Subject)

	refresh, err := ts.Decode(pair.RefreshToken, domain.KindRefresh)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", refresh.Subject)

	// Refresh tokens outlive access tokens.
	assert.True(t, refresh.ExpiresAt.After(access.ExpiresAt))
}

func TestIssuePairDoesNotInvalidateOlderPairs(t *testing.T) {
	ts := newTestTokenService(t)

	first, err := ts.IssuePair("alice@example.com")
	require.NoError(t, err)
	second, err := ts.IssuePair("alice@example.com")
	require.NoError(t, err)

	// Stateless issuance: both pairs verify independently.
	_, err = ts.Decode(first.AccessToken, domain.KindAccess)
	assert.NoError(t, err)
	_, err = ts.Decode(second.AccessToken, domain.KindAccess)
	assert.NoError(t, err)
}
