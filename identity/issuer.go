package identity

import (
	"errors"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrRateLimited  = errors.New("anonymous session rate limit exceeded")
	ErrInvalidToken = errors.New("invalid session token")
)

type RateLimiter interface {
	// Allow reports whether an event may happen now.
	Allow() bool
}

// Claims of an anonymous session token. Subject carries the uid.
type Claims struct {
	Anonymous bool `json:"anonymous"`
	jwt.RegisteredClaims
}

type Issuer struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	limiter  RateLimiter
	clock    clock.Clock
}

func NewIssuer(secret, issuer, audience string, ttl time.Duration, limiter RateLimiter, clk clock.Clock) *Issuer {
	return &Issuer{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
		ttl:      ttl,
		limiter:  limiter,
		clock:    clk,
	}
}

// Issue signs a token for a fresh anonymous uid
func (i *Issuer) Issue() (string, *Claims, error) {
	if i.limiter != nil && !i.limiter.Allow() {
		return "", nil, ErrRateLimited
	}

	now := i.clock.Now()
	claims := &Claims{
		Anonymous: true,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   uuid.NewString(),
			Issuer:    i.issuer,
			Audience:  jwt.ClaimStrings{i.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign session token: %w", err)
	}
	return token, claims, nil
}

// Parse validates signature, issuer, audience and expiry of token
func (i *Issuer) Parse(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.issuer),
		jwt.WithAudience(i.audience),
		jwt.WithTimeFunc(i.clock.Now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
