// Package config loads service settings from an optional YAML file overlaid with
// CREW_* environment variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "crew"

const (
	AuthModeJWT = "jwt"
	AuthModeDev = "dev"

	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
)

type Config struct {
	Port            int           `yaml:"port" validate:"min=1,max=65535"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" split_words:"true" validate:"min=0"`

	AuthMode   string `yaml:"authMode" split_words:"true" validate:"oneof=jwt dev"`
	DevSubject string `yaml:"devSubject" split_words:"true"`
	// DevIssuer scopes dev subjects in storage.
	DevIssuer string `yaml:"devIssuer" split_words:"true"`

	StorageBackend string `yaml:"storageBackend" split_words:"true" validate:"oneof=memory postgres sqlite"`
	DatabaseURL    string `yaml:"databaseUrl" envconfig:"DATABASE_URL" validate:"required_if=StorageBackend postgres"`
	SQLitePath     string `yaml:"sqlitePath" envconfig:"SQLITE_PATH" validate:"required_if=StorageBackend sqlite"`

	LogLevel string `yaml:"logLevel" split_words:"true" validate:"oneof=debug info warn error"`

	// MatchWorkers bounds concurrent pair evaluation per match request.
	MatchWorkers int `yaml:"matchWorkers" split_words:"true" validate:"min=1,max=256"`
	SearchLimit  int `yaml:"searchLimit" split_words:"true" validate:"min=1,max=500"`

	JWT JWTConfig `yaml:"jwt"`
}

func Default() Config {
	return Config{
		Port:            8080,
		ShutdownTimeout: 10 * time.Second,
		AuthMode:        AuthModeJWT,
		DevIssuer:       "dev",
		StorageBackend:  StorageMemory,
		LogLevel:        "info",
		MatchWorkers:    4,
		SearchLimit:     50,
		JWT:             DefaultJWTConfig(),
	}
}

// Load builds the configuration from defaults, then the YAML file at path (if path is
// non-empty), then the environment. The result is validated.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return Config{}, fmt.Errorf("open config: %w", err)
		}
		defer f.Close()
		if err := decodeYAML(f, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("error processing environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decodeYAML(r io.Reader, cfg *Config) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	return dec.Decode(cfg)
}

func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.AuthMode == AuthModeJWT {
		if err := c.JWT.requireEndpoints(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
	}
	return nil
}
