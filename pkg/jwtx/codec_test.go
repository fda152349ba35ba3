package jwtx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pairingbuds/buds/pkg/jwtx"
)

const testIssuer = "buds-test"

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func TestAccessTokenRoundTrip(t *testing.T) {
	t.Parallel()

	codec := jwtx.NewCodec(testSecret, testIssuer)

	raw, err := codec.IssueAccess(42, 7, "admin", time.Minute)
	require.NoError(t, err)

	claims, err := codec.Verify(raw)
	require.NoError(t, err)

	id, err := claims.UserID()
	require.NoError(t, err)
	require.Equal(t, 42, id)
	require.Equal(t, jwtx.KindAccess, claims.Kind)
	require.Equal(t, "admin", claims.Role)
	require.EqualValues(t, 7, claims.Version)
	require.NotEmpty(t, claims.ID)
	require.Equal(t, time.Minute, claims.TTL())
}

func TestRefreshTokenOmitsRoleAndVersion(t *testing.T) {
	t.Parallel()

	codec := jwtx.NewCodec(testSecret, testIssuer)

	raw, err := codec.IssueRefresh(42, time.Hour)
	require.NoError(t, err)

	claims, err := codec.Verify(raw)
	require.NoError(t, err)
	require.Equal(t, jwtx.KindRefresh, claims.Kind)
	require.Empty(t, claims.Role)
	require.Zero(t, claims.Version)
}

func TestJTIsAreUnique(t *testing.T) {
	t.Parallel()

	codec := jwtx.NewCodec(testSecret, testIssuer)

	seen := map[string]bool{}
	for range 50 {
		raw, err := codec.IssueAccess(1, 1, "user", time.Minute)
		require.NoError(t, err)

		claims, err := codec.Verify(raw)
		require.NoError(t, err)
		require.False(t, seen[claims.ID], "duplicate jti %s", claims.ID)
		seen[claims.ID] = true
	}
}

func TestVerifyExpiredReturnsClaims(t *testing.T) {
	t.Parallel()

	codec := jwtx.NewCodec(testSecret, testIssuer)

	raw, err := codec.IssueAccess(42, 3, "user", -time.Minute)
	require.NoError(t, err)

	claims, err := codec.Verify(raw)
	require.ErrorIs(t, err, jwtx.ErrExpired)

	// The expired branch is recoverable, so the subject must survive.
	id, uerr := claims.UserID()
	require.NoError(t, uerr)
	require.Equal(t, 42, id)
}

func TestVerifyFailures(t *testing.T) {
	t.Parallel()

	codec := jwtx.NewCodec(testSecret, testIssuer)

	t.Run("malformed", func(t *testing.T) {
		_, err := codec.Verify("definitely-not-a-jwt")
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := codec.Verify("")
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := jwtx.NewCodec([]byte("another-secret-another-secret!!!"), testIssuer)
		raw, err := other.IssueAccess(1, 1, "user", time.Minute)
		require.NoError(t, err)

		_, err = codec.Verify(raw)
		require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	})

	t.Run("tampered payload", func(t *testing.T) {
		raw, err := codec.IssueAccess(1, 1, "user", time.Minute)
		require.NoError(t, err)

		parts := strings.Split(raw, ".")
		require.Len(t, parts, 3)
		parts[1] = "eyJzdWIiOiI5OTkifQ"

		_, err = codec.Verify(strings.Join(parts, "."))
		require.Error(t, err)
		require.NotErrorIs(t, err, jwtx.ErrExpired)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := jwtx.NewCodec(testSecret, "someone-else")
		raw, err := other.IssueAccess(1, 1, "user", time.Minute)
		require.NoError(t, err)

		_, err = codec.Verify(raw)
		require.ErrorIs(t, err, jwtx.ErrInvalidClaim)
	})
}
