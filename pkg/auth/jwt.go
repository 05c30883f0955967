package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims holds the typed JWT payload.
type Claims struct {
	UserID string `json:"id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Issuer mints and verifies HS256 bearer tokens. The signing key is fixed at
// construction and never re-read from the environment.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// ErrEmptySecret is returned by NewIssuer when no signing key is supplied.
var ErrEmptySecret = errors.New("auth: signing secret must not be empty")

// NewIssuer returns an Issuer signing with secret; tokens expire after ttl.
func NewIssuer(secret string, ttl time.Duration) (*Issuer, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("auth: token ttl must be positive, got %s", ttl)
	}
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// WithClock returns a copy of i that reads the current time from now.
func (i *Issuer) WithClock(now func() time.Time) *Issuer {
	cp := *i
	cp.now = now
	return &cp
}

// TTL reports the validity window of issued tokens.
func (i *Issuer) TTL() time.Duration { return i.ttl }

// Issue creates a signed token binding userID and role.
func (i *Issuer) Issue(userID, role string) (string, error) {
	now := i.now()
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// Verify parses raw and checks its signature and expiry. Only HMAC-signed
// tokens are accepted.
func (i *Issuer) Verify(raw string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, jwt.ErrTokenInvalidClaims
	}

	return claims, nil
}
