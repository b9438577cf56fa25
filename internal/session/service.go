package session

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ovaphlow/pitchfork/service-region-directory/pkg/utilities"
)

// DefaultTTL is the validity window of an admin session.
const DefaultTTL = 7 * 24 * time.Hour

var (
	ErrMalformed        = errors.New("token malformed")
	ErrSignatureInvalid = errors.New("token signature invalid")
	ErrExpired          = errors.New("token expired")
)

// Issuer signs and validates admin session tokens with an HMAC secret.
// It reads nothing from the environment; everything comes through NewIssuer.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type Option func(*Issuer)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(i *Issuer) { i.now = now }
}

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(i *Issuer) { i.ttl = ttl }
}

func NewIssuer(secret []byte, opts ...Option) (*Issuer, error) {
	if len(secret) == 0 {
		return nil, errors.New("session secret is empty")
	}
	i := &Issuer{secret: append([]byte(nil), secret...), ttl: DefaultTTL, now: time.Now}
	for _, o := range opts {
		o(i)
	}
	if i.ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive, got %s", i.ttl)
	}
	return i, nil
}

// Issue returns a signed token for the admin. Every call carries a fresh jti,
// so two tokens for the same admin never compare equal.
func (i *Issuer) Issue(adminID int64, username string) (string, error) {
	now := i.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(adminID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
			ID:        utilities.NewKSUID(),
		},
		AdminID:  adminID,
		Username: username,
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(i.secret)
}

// Validate checks signature and expiry and returns the embedded claims.
// Errors are ErrMalformed, ErrSignatureInvalid or ErrExpired.
func (i *Issuer) Validate(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
			return nil, fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpired
		default:
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	}
	return claims, nil
}
