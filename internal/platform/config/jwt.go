package config

import (
	"errors"
	"time"
)

// JWTConfig configures JWT verification against a JWKS endpoint.
type JWTConfig struct {
	Issuer   string `yaml:"issuer"`
	Audience string `yaml:"audience"`
	JWKSURL  string `yaml:"jwksUrl" envconfig:"JWKS_URL" validate:"omitempty,url"`

	ClockSkew              time.Duration `yaml:"clockSkew" split_words:"true" validate:"min=0"`
	JWKSRefreshInterval    time.Duration `yaml:"jwksRefreshInterval" envconfig:"JWKS_REFRESH_INTERVAL"`
	JWKSMinRefreshInterval time.Duration `yaml:"jwksMinRefreshInterval" envconfig:"JWKS_MIN_REFRESH_INTERVAL"`

	HTTPTimeout time.Duration `yaml:"httpTimeout" split_words:"true"`
}

// DefaultJWTConfig returns the settings used when a deployment only provides the
// issuer, audience and JWKS URL.
func DefaultJWTConfig() JWTConfig {
	return JWTConfig{
		ClockSkew: 30 * time.Second,
		// Refresh periodically to pick up key rotation even if an old key is still cached.
		JWKSRefreshInterval: 5 * time.Minute,
		// Bound refresh frequency when a token presents an unknown kid.
		JWKSMinRefreshInterval: 10 * time.Second,
		HTTPTimeout:            5 * time.Second,
	}
}

func (c JWTConfig) requireEndpoints() error {
	if c.Issuer == "" || c.Audience == "" || c.JWKSURL == "" {
		return errors.New("jwt auth requires jwt.issuer, jwt.audience and jwt.jwksUrl (CREW_JWT_ISSUER, CREW_JWT_AUDIENCE, CREW_JWT_JWKS_URL)")
	}
	return nil
}
