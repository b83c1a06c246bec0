// Package auth mints and validates the signed, stateless credentials used for
// member sessions and the admin area.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/linkdir/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// AdminAudience tags admin credentials so they are never accepted as member
// sessions and vice versa.
const AdminAudience = "admin"

// Claims carries the identity snapshot taken at sign-in. It is not refreshed
// when the user row changes later.
type Claims struct {
	jwt.RegisteredClaims
	UserID        string `json:"userId,omitempty"`
	Email         string `json:"email,omitempty"`
	EmailVerified bool   `json:"emailVerified,omitempty"`
}

// Issuer signs and checks HS256 tokens with a fixed lifetime.
type Issuer struct {
	secret   []byte
	ttl      time.Duration
	audience string
	now      func() time.Time
}

type Option func(*Issuer)

// WithAudience makes the issuer stamp and require the given audience.
func WithAudience(aud string) Option {
	return func(i *Issuer) { i.audience = aud }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(i *Issuer) { i.now = now }
}

func NewIssuer(secret []byte, ttl time.Duration, opts ...Option) *Issuer {
	i := &Issuer{secret: secret, ttl: ttl, now: time.Now}
	for _, o := range opts {
		o(i)
	}
	return i
}

// TTL is the lifetime given to every minted token.
func (i *Issuer) TTL() time.Duration { return i.ttl }

// Mint signs c with iat=now and exp=now+TTL and returns the token together
// with its expiry instant.
func (i *Issuer) Mint(c Claims) (string, time.Time, error) {
	now := i.now()
	c.IssuedAt = jwt.NewNumericDate(now)
	c.ExpiresAt = jwt.NewNumericDate(now.Add(i.ttl))
	if i.audience != "" {
		c.Audience = jwt.ClaimStrings{i.audience}
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return token, c.ExpiresAt.Time, nil
}

// Validate checks signature, algorithm, expiry and audience without touching
// any store. Every failure wraps common.ErrInvalidToken; an expired token
// additionally wraps common.ErrTokenExpired.
func (i *Issuer) Validate(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	}
	if i.audience != "" {
		opts = append(opts, jwt.WithAudience(i.audience))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", common.ErrInvalidToken, common.ErrTokenExpired)
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, common.ErrInvalidToken
	}
	if i.audience == "" && len(claims.Audience) > 0 {
		return nil, fmt.Errorf("%w: unexpected audience", common.ErrInvalidToken)
	}
	return claims, nil
}
