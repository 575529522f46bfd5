// Package token decodes the bearer tokens issued by the loan API.
//
// The client normally does not hold the API's signing key, so tokens are
// parsed without signature verification and only their claims are read.
// When a secret is configured the HMAC signature is verified as well.
package token

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed   = errors.New("token is malformed")
	ErrExpired     = errors.New("token has expired")
	ErrMissingRole = errors.New("token has no string role claim")
	ErrSignature   = errors.New("token signature is invalid")
)

// Claims is the subset of token claims the client relies on
type Claims struct {
	Role      string
	Username  string
	ExpiresAt time.Time
}

// Decoder turns a raw token into Claims. The zero value parses unverified
// tokens against the wall clock.
type Decoder struct {
	secret []byte
	now    func() time.Time
}

// Option configures a Decoder
type Option func(*Decoder)

// WithSecret enables HMAC signature verification
func WithSecret(secret string) Option {
	return func(d *Decoder) {
		if secret != "" {
			d.secret = []byte(secret)
		}
	}
}

// WithClock overrides the clock used for expiry checks
func WithClock(now func() time.Time) Option {
	return func(d *Decoder) {
		d.now = now
	}
}

// NewDecoder creates a decoder
func NewDecoder(opts ...Option) *Decoder {
	d := &Decoder{now: time.Now}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decode extracts the claims from raw. It never panics; every failure is
// reported as one of the package errors.
func (d *Decoder) Decode(raw string) (*Claims, error) {
	if raw == "" {
		return nil, ErrMalformed
	}

	claims := jwt.MapClaims{}
	if d.secret != nil {
		_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrSignature
			}
			return d.secret, nil
		}, jwt.WithoutClaimsValidation())
		if err != nil {
			if errors.Is(err, jwt.ErrTokenMalformed) {
				return nil, ErrMalformed
			}
			return nil, ErrSignature
		}
	} else {
		if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
			return nil, ErrMalformed
		}
	}

	out := &Claims{}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return nil, ErrMalformed
	}
	if exp != nil {
		out.ExpiresAt = exp.Time
		if !d.clock().Before(exp.Time) {
			return nil, ErrExpired
		}
	}

	role, ok := claims["role"].(string)
	if !ok {
		return nil, ErrMissingRole
	}
	out.Role = role
	out.Username, _ = claims["username"].(string)

	return out, nil
}

func (d *Decoder) clock() time.Time {
	if d.now == nil {
		return time.Now()
	}
	return d.now()
}

// Fingerprint returns a short, log-safe identifier for a raw token
func Fingerprint(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])[:12]
}
