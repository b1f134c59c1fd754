// Package jwtverifier authenticates bearer tokens: RS256 JWTs checked against a JWKS
// endpoint for issuer, audience and validity window.
package jwtverifier

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/singleflight"

	"github.com/isail-maritime/crew-rotation-api/internal/platform/config"
	clockport "github.com/isail-maritime/crew-rotation-api/internal/ports/out/clock"
)

// ErrUnauthorized wraps every verification failure.
var ErrUnauthorized = errors.New("unauthorized")

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Verifier is safe for concurrent use. Keys are cached and refreshed on a schedule, and
// on demand when a token names an unknown key id.
type Verifier struct {
	cfg    config.JWTConfig
	client *http.Client
	clock  clockport.Clock
	parser *jwt.Parser

	// fetches collapses concurrent refreshes into one request.
	fetches singleflight.Group

	mu        sync.RWMutex
	keys      keySet
	fetchedAt time.Time
}

func New(cfg config.JWTConfig) *Verifier {
	return NewWithOptions(cfg, nil, nil)
}

// NewWithOptions allows tests to inject the HTTP client and clock. Nil means default.
func NewWithOptions(cfg config.JWTConfig, httpClient *http.Client, clock clockport.Clock) *Verifier {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.HTTPTimeout}
	}
	if clock == nil {
		clock = systemClock{}
	}
	return &Verifier{
		cfg:    cfg,
		client: httpClient,
		clock:  clock,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
			jwt.WithIssuer(cfg.Issuer),
			jwt.WithAudience(cfg.Audience),
			jwt.WithExpirationRequired(),
			jwt.WithLeeway(cfg.ClockSkew),
			jwt.WithTimeFunc(clock.Now),
		),
	}
}

// Verify checks token and returns its `sub` claim.
func (v *Verifier) Verify(ctx context.Context, token string) (string, error) {
	var claims jwt.RegisteredClaims
	_, err := v.parser.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, errors.New("missing kid")
		}
		return v.key(ctx, kid)
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing sub", ErrUnauthorized)
	}
	return claims.Subject, nil
}

func (v *Verifier) key(ctx context.Context, kid string) (any, error) {
	if v.refreshDue(kid) {
		if err := v.refresh(ctx); err != nil {
			return nil, err
		}
	}
	v.mu.RLock()
	pub := v.keys[kid]
	v.mu.RUnlock()
	if pub == nil {
		return nil, fmt.Errorf("unknown kid %q", kid)
	}
	return pub, nil
}

// refreshDue reports whether the cache should be reloaded before looking up kid.
// The periodic interval picks up rotation even for cached kids; an unknown kid forces a
// reload no more often than the minimum refresh interval.
func (v *Verifier) refreshDue(kid string) bool {
	now := v.clock.Now()

	v.mu.RLock()
	defer v.mu.RUnlock()

	if v.fetchedAt.IsZero() {
		return true
	}
	age := now.Sub(v.fetchedAt)
	if v.cfg.JWKSRefreshInterval > 0 && age >= v.cfg.JWKSRefreshInterval {
		return true
	}
	if _, ok := v.keys[kid]; ok {
		return false
	}
	return v.cfg.JWKSMinRefreshInterval <= 0 || age >= v.cfg.JWKSMinRefreshInterval
}

func (v *Verifier) refresh(ctx context.Context) error {
	// The shared fetch must not die with the first caller's context.
	ch := v.fetches.DoChan("jwks", func() (any, error) {
		keys, err := fetchKeySet(context.WithoutCancel(ctx), v.client, v.cfg.JWKSURL)
		if err != nil {
			return nil, err
		}
		v.mu.Lock()
		v.keys = keys
		v.fetchedAt = v.clock.Now()
		v.mu.Unlock()
		return nil, nil
	})
	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}
