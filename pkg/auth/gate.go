// Package auth issues and verifies bearer credentials and carries the
// resolved caller identity through a request context.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Roles understood by the role gate.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

var (
	// ErrMissingCredential means no usable "Bearer <token>" header was sent.
	ErrMissingCredential = errors.New("auth: missing credential")
	// ErrInvalidCredential means the token was bad, expired, or named an
	// identity that no longer exists.
	ErrInvalidCredential = errors.New("auth: invalid credential")
)

// Identity is the caller as seen by downstream handlers. It never carries
// the password hash.
type Identity struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// IdentityResolver looks up the live user record behind a token subject.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, userID string) (Identity, error)
}

// Gate turns an Authorization header into a resolved Identity.
type Gate struct {
	issuer   *Issuer
	resolver IdentityResolver
}

// NewGate builds a Gate verifying with issuer and resolving with resolver.
func NewGate(issuer *Issuer, resolver IdentityResolver) *Gate {
	return &Gate{issuer: issuer, resolver: resolver}
}

// Authenticate validates header and resolves the caller it names.
func (g *Gate) Authenticate(ctx context.Context, header string) (Identity, error) {
	raw, ok := BearerToken(header)
	if !ok {
		return Identity{}, ErrMissingCredential
	}

	claims, err := g.issuer.Verify(raw)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %w", ErrInvalidCredential, err)
	}

	id, err := g.resolver.ResolveIdentity(ctx, claims.UserID)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: resolve %s: %w", ErrInvalidCredential, claims.UserID, err)
	}

	return id, nil
}

// BearerToken extracts the token from a "Bearer <token>" header value.
func BearerToken(header string) (string, bool) {
	token, ok := strings.CutPrefix(strings.TrimSpace(header), "Bearer ")
	token = strings.TrimSpace(token)
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

// ─── Context ──────────────────────────────────────────────────────────────────

type ctxKey struct{}

// WithIdentity attaches id to ctx.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// IdentityFrom returns the identity attached by the auth middleware.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	if !ok || id.ID == "" {
		return Identity{}, false
	}
	return id, true
}
