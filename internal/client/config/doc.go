// Package config loads runtime configuration for the blogkeeper CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the blogkeeper API
//	-d string   path of the local session database
//	-t int      request timeout (seconds)
//
// # JSON schema
//
//	{
//	  "server_url": "http://127.0.0.1:8080",
//	  "database_path": "session.db",
//	  "request_timeout": "10s"
//	}
//
// request_timeout accepts a duration string or integer nanoseconds.
package config
