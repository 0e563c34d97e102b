package api

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is the lifetime of tokens minted without an explicit TTL.
const DefaultTokenTTL = 24 * time.Hour

// ErrNoSecret is returned when a token is minted or checked without a
// configured signing secret.
var ErrNoSecret = errors.New("api: jwt secret not configured")

// IssueToken mints an HS256 bearer token for the mutating API routes.
//
// Parameters:
//   - secret: Signing secret (security.jwt.secret)
//   - issuer: Issuer claim; empty omits it
//   - subject: Who the token is for, recorded in request logs
//   - ttl: Token lifetime; zero means DefaultTokenTTL
//
// Returns:
//   - string: Signed token
//   - error: ErrNoSecret, or a signing failure
func IssueToken(secret, issuer, subject string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", ErrNoSecret
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// ParseToken verifies an HS256 token and returns its subject. The issuer
// is checked when issuer is not empty. Tokens without an expiry are
// rejected.
func ParseToken(secret, issuer, token string) (string, error) {
	if secret == "" {
		return "", ErrNoSecret
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	}, opts...)
	if err != nil {
		return "", fmt.Errorf("parsing token: %w", err)
	}
	return claims.Subject, nil
}
