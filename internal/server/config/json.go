package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/blogkeeper/internal/flagx"
	"github.com/dmitrijs2005/blogkeeper/internal/timex"
)

// JsonConfig is the on-disk shape of the server configuration. Durations
// accept both "5s" strings and integer nanoseconds via timex.Duration.
// Zero values leave the corresponding Config field untouched.
type JsonConfig struct {
	EndpointAddrHTTP   string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC   string         `json:"endpoint_addr_grpc"`
	DatabaseDSN        string         `json:"database_dsn"`
	SecretKey          string         `json:"secret_key"`
	Environment        string         `json:"environment"`
	CORSAllowedOrigins []string       `json:"cors_allowed_origins"`
	ShutdownTimeout    timex.Duration `json:"shutdown_timeout"`
	Argon2             *struct {
		MemoryKiB   uint32 `json:"memory_kib"`
		Iterations  uint32 `json:"iterations"`
		Parallelism uint8  `json:"parallelism"`
	} `json:"argon2"`
}

// parseJson loads configuration values from the file named by -c or -config.
// If neither flag is present nothing is loaded. A file that cannot be read
// or parsed panics.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.Environment, c.Environment)
	if c.CORSAllowedOrigins != nil {
		config.CORSAllowedOrigins = c.CORSAllowedOrigins
	}
	if c.ShutdownTimeout.Duration > 0 {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	if a := c.Argon2; a != nil {
		if a.MemoryKiB > 0 {
			config.Argon2.MemoryKiB = a.MemoryKiB
		}
		if a.Iterations > 0 {
			config.Argon2.Iterations = a.Iterations
		}
		if a.Parallelism > 0 {
			config.Argon2.Parallelism = a.Parallelism
		}
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
