package auth_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/dinehub/pkg/auth"
)

type stubResolver map[string]auth.Identity

func (s stubResolver) ResolveIdentity(_ context.Context, id string) (auth.Identity, error) {
	if ident, ok := s[id]; ok {
		return ident, nil
	}
	return auth.Identity{}, errors.New("not found")
}

func newIssuer(t *testing.T) *auth.Issuer {
	t.Helper()
	iss, err := auth.NewIssuer("test-secret", 30*24*time.Hour)
	require.NoError(t, err)
	return iss
}

func TestNewIssuerRejectsEmptySecret(t *testing.T) {
	_, err := auth.NewIssuer("", time.Hour)
	assert.ErrorIs(t, err, auth.ErrEmptySecret)

	_, err = auth.NewIssuer("x", 0)
	assert.Error(t, err)
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	iss := newIssuer(t)

	token, err := iss.Issue("u-1", auth.RoleAdmin)
	require.NoError(t, err)

	claims, err := iss.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, auth.RoleAdmin, claims.Role)
	assert.WithinDuration(t, time.Now().Add(30*24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	iss := newIssuer(t)
	past := iss.WithClock(func() time.Time { return time.Now().Add(-31 * 24 * time.Hour) })

	token, err := past.Issue("u-1", auth.RoleCustomer)
	require.NoError(t, err)

	_, err = iss.Verify(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestVerifyRejectsForeignSecret(t *testing.T) {
	other, err := auth.NewIssuer("other-secret", time.Hour)
	require.NoError(t, err)
	token, err := other.Issue("u-1", auth.RoleAdmin)
	require.NoError(t, err)

	_, err = newIssuer(t).Verify(token)
	assert.Error(t, err)
}

func TestVerifyRejectsUnsignedToken(t *testing.T) {
	claims := auth.Claims{
		UserID: "u-1",
		Role:   auth.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = newIssuer(t).Verify(token)
	assert.Error(t, err)
}

func TestGateAuthenticate(t *testing.T) {
	iss := newIssuer(t)
	alice := auth.Identity{ID: "u-1", Name: "Alice", Email: "alice@example.com", Role: auth.RoleAdmin}
	gate := auth.NewGate(iss, stubResolver{"u-1": alice})

	token, err := iss.Issue("u-1", auth.RoleAdmin)
	require.NoError(t, err)

	got, err := gate.Authenticate(context.Background(), "Bearer "+token)
	require.NoError(t, err)
	assert.Equal(t, alice, got)
}

func TestGateMissingCredential(t *testing.T) {
	gate := auth.NewGate(newIssuer(t), stubResolver{})

	for _, header := range []string{"", "Bearer", "Bearer   ", "Token abc", "bearer abc"} {
		_, err := gate.Authenticate(context.Background(), header)
		assert.ErrorIs(t, err, auth.ErrMissingCredential, "header %q", header)
	}
}

func TestGateInvalidCredential(t *testing.T) {
	iss := newIssuer(t)
	gate := auth.NewGate(iss, stubResolver{})

	_, err := gate.Authenticate(context.Background(), "Bearer not.a.jwt")
	assert.ErrorIs(t, err, auth.ErrInvalidCredential)

	// Valid signature but the user no longer exists.
	token, err := iss.Issue("ghost", auth.RoleCustomer)
	require.NoError(t, err)
	_, err = gate.Authenticate(context.Background(), "Bearer "+token)
	assert.ErrorIs(t, err, auth.ErrInvalidCredential)
}

func TestGateRejectsExpiredToken(t *testing.T) {
	iss := newIssuer(t)
	alice := auth.Identity{ID: "u-1", Name: "Alice", Email: "alice@example.com", Role: auth.RoleAdmin}
	gate := auth.NewGate(iss, stubResolver{"u-1": alice})

	past := iss.WithClock(func() time.Time { return time.Now().Add(-31 * 24 * time.Hour) })
	token, err := past.Issue("u-1", auth.RoleAdmin)
	require.NoError(t, err)

	_, err = gate.Authenticate(context.Background(), "Bearer "+token)
	assert.ErrorIs(t, err, auth.ErrInvalidCredential)
}

func TestGateRejectsEverySignatureByteFlip(t *testing.T) {
	iss := newIssuer(t)
	gate := auth.NewGate(iss, stubResolver{"u-1": {ID: "u-1", Role: auth.RoleCustomer}})

	token, err := iss.Issue("u-1", auth.RoleCustomer)
	require.NoError(t, err)

	sigStart := strings.LastIndexByte(token, '.') + 1
	for i := sigStart; i < len(token); i++ {
		b := []byte(token)
		// Move half way round the alphabet so the high bit of the sextet
		// changes; the low bits of the final character are padding.
		b[i] = b64url[(strings.IndexByte(b64url, b[i])+32)%64]
		_, err := gate.Authenticate(context.Background(), "Bearer "+string(b))
		assert.ErrorIs(t, err, auth.ErrInvalidCredential, "flipped byte %d", i)
	}
}

const b64url = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

func TestIdentityContext(t *testing.T) {
	_, ok := auth.IdentityFrom(context.Background())
	assert.False(t, ok)

	ctx := auth.WithIdentity(context.Background(), auth.Identity{ID: "u-9", Role: auth.RoleCustomer})
	id, ok := auth.IdentityFrom(ctx)
	require.True(t, ok)
	assert.Equal(t, "u-9", id.ID)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := auth.HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)
	assert.True(t, auth.CheckPassword(hash, "hunter22"))
	assert.False(t, auth.CheckPassword(hash, "hunter23"))
}

func TestPasswordTooLong(t *testing.T) {
	_, err := auth.HashPassword(strings.Repeat("x", 73))
	assert.ErrorIs(t, err, auth.ErrPasswordTooLong)
}
