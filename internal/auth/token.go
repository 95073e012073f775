package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretLength is the minimum HMAC key size accepted by NewTokenCodec.
const MinSecretLength = 32

var (
	// ErrInvalidToken is returned for every token that fails validation.
	// Callers cannot tell a bad signature from an expired or malformed token.
	ErrInvalidToken = errors.New("invalid token")
	// ErrWeakSecret indicates the signing secret is too short.
	ErrWeakSecret = errors.New("token secret must be at least 32 bytes")
)

// TokenCodec issues and validates HS256-signed bearer tokens.
// The key is copied at construction and never changes afterwards, so a
// codec is safe for concurrent use.
type TokenCodec struct {
	key    []byte
	ttl    time.Duration
	issuer string
}

// NewTokenCodec creates a codec with a fixed secret, lifetime and issuer.
func NewTokenCodec(secret []byte, ttl time.Duration, issuer string) (*TokenCodec, error) {
	if len(secret) < MinSecretLength {
		return nil, ErrWeakSecret
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token ttl must be positive, got %s", ttl)
	}

	key := make([]byte, len(secret))
	copy(key, secret)

	return &TokenCodec{key: key, ttl: ttl, issuer: issuer}, nil
}

// TTL returns the configured token lifetime.
func (c *TokenCodec) TTL() time.Duration {
	return c.ttl
}

// Issue signs a token for subject, valid from now until now+TTL.
func (c *TokenCodec) Issue(subject string, now time.Time) (string, time.Time, error) {
	if subject == "" {
		return "", time.Time{}, ErrInvalidToken
	}

	expiresAt := now.Add(c.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    c.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	// NumericDate has second precision; report what the token carries.
	return signed, claims.ExpiresAt.Time, nil
}

// Validate checks the signature, issuer and lifetime of token at now and
// returns its subject. The token is rejected once now >= expiry.
func (c *TokenCodec) Validate(token string, now time.Time) (string, error) {
	claims := &jwt.RegisteredClaims{}

	parsed, err := jwt.ParseWithClaims(token, claims, c.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(c.issuer),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}

func (c *TokenCodec) keyFunc(t *jwt.Token) (any, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, ErrInvalidToken
	}
	return c.key, nil
}
