// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"

	"github.com/lhwgwg/framework/internal/crypto"
)

// Supported values for [DB.Driver].
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// StructuredConfig is the top-level configuration container. It is
// populated by merging defaults, environment variables, command-line flags
// and an optional JSON file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds encryption and logging settings.
	App App `envPrefix:"APP_"`

	// Storage holds the relational database settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from defaults, environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level settings.
type App struct {
	// Key is the encryption key, either "base64:<raw key>" or a passphrase
	// that is stretched with KeySalt.
	// Env: APP_KEY
	Key string `env:"KEY"`

	// PreviousKeys are keys retired by a rotation. They are only used to
	// decrypt values written before the rotation.
	// Env: APP_PREVIOUS_KEYS (comma separated)
	PreviousKeys []string `env:"PREVIOUS_KEYS" envSeparator:","`

	// Cipher is one of crypto.SupportedCiphers.
	// Env: APP_CIPHER
	Cipher string `env:"CIPHER"`

	// KeySalt is required when Key is a passphrase.
	// Env: APP_KEY_SALT
	KeySalt string `env:"KEY_SALT"`

	// LogLevel is a zerolog level name ("debug", "info", ...).
	// Env: APP_LOG_LEVEL
	LogLevel string `env:"LOG_LEVEL"`
}

// Storage groups the configuration for storage backends.
type Storage struct {
	// DB holds the relational database connection settings.
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the relational database backend.
type DB struct {
	// Driver selects the backend: "postgres" or "sqlite3".
	// Env: STORAGE_DB_DRIVER
	Driver string `env:"DRIVER"`

	// DSN is the connection string, a postgres:// URL or an SQLite file
	// path (":memory:" for a throwaway database).
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`

	// Migrate applies embedded migrations on start when true.
	// Env: STORAGE_DB_MIGRATE
	Migrate bool `env:"MIGRATE"`

	// ConnectTimeout bounds the initial ping.
	// Env: STORAGE_DB_CONNECT_TIMEOUT
	ConnectTimeout time.Duration `env:"CONNECT_TIMEOUT"`
}

// defaults is the lowest-priority configuration layer.
func defaults() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			Cipher:   crypto.AES256CBC,
			LogLevel: "info",
		},
		Storage: Storage{
			DB: DB{
				Driver:         DriverSQLite,
				DSN:            "castctl.db",
				ConnectTimeout: 5 * time.Second,
			},
		},
	}
}

// GetStructuredConfig loads, merges, and validates the configuration from
// all available sources in the following priority order (later sources
// override non-zero fields of earlier ones):
//  1. Built-in defaults
//  2. Environment variables
//  3. Command-line flags parsed from args
//  4. JSON file (path resolved from sources 2 and 3)
//
// It returns the merged config, the positional arguments left after flag
// parsing, and an error if a source fails to load or validation fails. On a
// validation error the merged config is still returned.
func GetStructuredConfig(args []string) (*StructuredConfig, []string, error) {
	b := newConfigBuilder().
		withDefaults().
		withEnv().
		withFlags(args).
		withJSON()

	cfg, err := b.build()
	return cfg, b.args, err
}
