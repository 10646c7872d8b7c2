package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed    = errors.New("jwtx: malformed token")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrInvalidClaim = errors.New("jwtx: invalid claims")
	ErrScope        = errors.New("jwtx: scope mismatch")

	ErrUnsupportedAlg = errors.New("jwtx: unsupported algorithm")
	ErrEmptySecret    = errors.New("jwtx: empty secret")
)

// Codec signs and verifies HMAC tokens with one shared secret and one
// configured algorithm. Tokens whose header names any other algorithm are
// rejected, including "none" and the asymmetric families.
type Codec struct {
	key    []byte
	method *jwt.SigningMethodHMAC
	now    func() time.Time
}

// Option customises a Codec.
type Option func(*Codec)

// WithClock overrides the time source used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) { c.now = now }
}

// NewCodec builds a Codec for alg, which must be HS256, HS384 or HS512.
func NewCodec(secret []byte, alg string, opts ...Option) (*Codec, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}

	var method *jwt.SigningMethodHMAC
	switch alg {
	case jwt.SigningMethodHS256.Alg():
		method = jwt.SigningMethodHS256
	case jwt.SigningMethodHS384.Alg():
		method = jwt.SigningMethodHS384
	case jwt.SigningMethodHS512.Alg():
		method = jwt.SigningMethodHS512
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlg, alg)
	}

	c := &Codec{
		key:    append([]byte(nil), secret...),
		method: method,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Alg reports the configured signing algorithm.
func (c *Codec) Alg() string { return c.method.Alg() }

// Issue signs claims after checking their invariants.
func (c *Codec) Issue(claims Claims) (string, error) {
	if err := claims.Validate(); err != nil {
		return "", err
	}
	return jwt.NewWithClaims(c.method, claims).SignedString(c.key)
}

// Parse verifies the signature and claims of token. It fails with ErrExpired
// once exp has passed and with ErrMalformed for everything else.
func (c *Codec) Parse(token string) (Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)

	var claims Claims
	_, err := parser.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return c.key, nil
	})
	if err != nil {
		switch {
		// A broken payload is malformed even if it also happens to be expired.
		case errors.Is(err, ErrInvalidClaim):
			return Claims{}, fmt.Errorf("%w: %w", ErrMalformed, err)
		case errors.Is(err, jwt.ErrTokenExpired):
			return Claims{}, ErrExpired
		default:
			return Claims{}, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
	}

	return claims, nil
}

// ParseScoped is Parse plus a check that the token was minted for want.
func (c *Codec) ParseScoped(token string, want Scope) (Claims, error) {
	claims, err := c.Parse(token)
	if err != nil {
		return Claims{}, err
	}
	if claims.Scope != want {
		return Claims{}, fmt.Errorf("%w: got %s, want %s", ErrScope, claims.Scope, want)
	}
	return claims, nil
}
