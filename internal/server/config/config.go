// Package config handles configuration for the server component,
// including defaults, JSON overlay, environment and command-line flags.
package config

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/blogkeeper/internal/server/auth"
)

// DevSecretKey signs tokens when no key is configured. It is public, so
// Validate refuses it in production.
const DevSecretKey = "test-secret"

// EnvProduction is the Environment value that enables strict validation.
const EnvProduction = "production"

// MemoryDSN selects the in-process credential store instead of PostgreSQL.
const MemoryDSN = "memory"

var ErrInsecureSecret = errors.New("JWT_SECRET must be set to a non-default value in production")

// Config holds runtime settings for the blogkeeper server.
//
// Fields:
//   - EndpointAddrHTTP / EndpointAddrGRPC: bind addresses for the REST and gRPC listeners.
//   - DatabaseDSN: PostgreSQL DSN (pgx) or "memory".
//   - SecretKey: HMAC secret for signing session tokens (HS256).
//   - Environment: "development" or "production".
//   - CORSAllowedOrigins: browser origins allowed to call the REST API.
//   - Argon2: password hashing cost.
//   - ShutdownTimeout: grace period for in-flight HTTP requests.
type Config struct {
	EndpointAddrHTTP   string
	EndpointAddrGRPC   string
	DatabaseDSN        string
	SecretKey          string
	Environment        string
	CORSAllowedOrigins []string
	Argon2             auth.Argon2Params
	ShutdownTimeout    time.Duration
}

// LoadDefaults populates Config with development defaults.
// NOTE: These values are insecure for production and must be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8080"
	c.EndpointAddrGRPC = ":50051"
	c.DatabaseDSN = MemoryDSN
	c.SecretKey = DevSecretKey
	c.Environment = "development"
	c.CORSAllowedOrigins = []string{"http://localhost:3000"}
	c.Argon2 = auth.DefaultArgon2Params()
	c.ShutdownTimeout = 5 * time.Second
}

// IsProduction reports whether strict settings apply.
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// Validate rejects settings that must not reach production.
func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return ErrInsecureSecret
	}
	if c.IsProduction() && c.SecretKey == DevSecretKey {
		return ErrInsecureSecret
	}
	return nil
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment and finally command-line flags.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
