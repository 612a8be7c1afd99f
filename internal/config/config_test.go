// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnvVars(t *testing.T, vars map[string]string) {
	t.Helper()
	for k, v := range vars {
		t.Setenv(k, v)
	}
}

func writeTempJSONConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParseEnv(t *testing.T) {
	setEnvVars(t, map[string]string{
		"APP_KEY":                    "base64:abc",
		"APP_PREVIOUS_KEYS":          "base64:old1,base64:old2",
		"APP_CIPHER":                 "aes-128-gcm",
		"APP_KEY_SALT":               "pepper",
		"APP_LOG_LEVEL":              "warn",
		"STORAGE_DB_DRIVER":          "postgres",
		"STORAGE_DB_DATABASE_URI":    "postgres://localhost/casts",
		"STORAGE_DB_MIGRATE":         "true",
		"STORAGE_DB_CONNECT_TIMEOUT": "3s",
		"CONFIG":                     "/etc/castctl.json",
	})

	cfg := &StructuredConfig{}
	require.NoError(t, parseEnv(cfg))

	assert.Equal(t, "base64:abc", cfg.App.Key)
	assert.Equal(t, []string{"base64:old1", "base64:old2"}, cfg.App.PreviousKeys)
	assert.Equal(t, "aes-128-gcm", cfg.App.Cipher)
	assert.Equal(t, "pepper", cfg.App.KeySalt)
	assert.Equal(t, "warn", cfg.App.LogLevel)
	assert.Equal(t, "postgres", cfg.Storage.DB.Driver)
	assert.Equal(t, "postgres://localhost/casts", cfg.Storage.DB.DSN)
	assert.True(t, cfg.Storage.DB.Migrate)
	assert.Equal(t, 3*time.Second, cfg.Storage.DB.ConnectTimeout)
	assert.Equal(t, "/etc/castctl.json", cfg.JSONFilePath)
}

func TestParseEnv_InvalidBool(t *testing.T) {
	setEnvVars(t, map[string]string{"STORAGE_DB_MIGRATE": "maybe"})

	cfg := &StructuredConfig{}
	assert.Error(t, parseEnv(cfg))
}

func TestParseFlags(t *testing.T) {
	cfg, rest, err := ParseFlags([]string{
		"-k", "secret",
		"-previous-keys", "a, b,,",
		"-cipher", "aes-256-gcm",
		"-driver", "sqlite3",
		"-d", ":memory:",
		"-migrate",
		"-connect-timeout", "2s",
		"put", "secret", "value",
	})
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.App.Key)
	assert.Equal(t, []string{"a", "b"}, cfg.App.PreviousKeys)
	assert.Equal(t, "aes-256-gcm", cfg.App.Cipher)
	assert.Equal(t, ":memory:", cfg.Storage.DB.DSN)
	assert.True(t, cfg.Storage.DB.Migrate)
	assert.Equal(t, 2*time.Second, cfg.Storage.DB.ConnectTimeout)
	assert.Equal(t, []string{"put", "secret", "value"}, rest)
}

func TestParseFlags_Unknown(t *testing.T) {
	_, _, err := ParseFlags([]string{"-nope"})
	assert.Error(t, err)
}

func TestParseJSON(t *testing.T) {
	path := writeTempJSONConfig(t, `{
		"app": {"key": "from-json", "previous_keys": ["old"], "cipher": "aes-128-cbc"},
		"storage": {"db": {"driver": "postgres", "dsn": "postgres://db/casts", "migrate": true, "connect_timeout": "1m"}}
	}`)

	cfg, err := parseJSON(path)
	require.NoError(t, err)

	assert.Equal(t, "from-json", cfg.App.Key)
	assert.Equal(t, []string{"old"}, cfg.App.PreviousKeys)
	assert.Equal(t, "aes-128-cbc", cfg.App.Cipher)
	assert.Equal(t, "postgres", cfg.Storage.DB.Driver)
	assert.True(t, cfg.Storage.DB.Migrate)
	assert.Equal(t, time.Minute, cfg.Storage.DB.ConnectTimeout)
}

func TestParseJSON_Errors(t *testing.T) {
	_, err := parseJSON(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = parseJSON(writeTempJSONConfig(t, `{"storage":{"db":{"connect_timeout":"soon"}}}`))
	assert.Error(t, err)
}

func TestGetStructuredConfig_Defaults(t *testing.T) {
	cfg, rest, err := GetStructuredConfig([]string{"-k", "secret", "keygen"})
	require.NoError(t, err)

	assert.Equal(t, "aes-256-cbc", cfg.App.Cipher)
	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Equal(t, DriverSQLite, cfg.Storage.DB.Driver)
	assert.Equal(t, "castctl.db", cfg.Storage.DB.DSN)
	assert.Equal(t, 5*time.Second, cfg.Storage.DB.ConnectTimeout)
	assert.Equal(t, []string{"keygen"}, rest)
}

func TestGetStructuredConfig_Priority(t *testing.T) {
	path := writeTempJSONConfig(t, `{"app": {"cipher": "aes-128-gcm"}}`)
	setEnvVars(t, map[string]string{
		"APP_KEY":    "from-env",
		"APP_CIPHER": "aes-256-gcm",
		"CONFIG":     path,
	})

	cfg, _, err := GetStructuredConfig([]string{"-k", "from-flag"})
	require.NoError(t, err)

	assert.Equal(t, "from-flag", cfg.App.Key)
	assert.Equal(t, "aes-128-gcm", cfg.App.Cipher)
}

func TestGetStructuredConfig_MissingKey(t *testing.T) {
	t.Setenv("APP_KEY", "")

	cfg, _, err := GetStructuredConfig(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidAppConfigs)
	assert.ErrorIs(t, err, ErrMissingAppKey)
	require.NotNil(t, cfg)
	assert.Equal(t, "aes-256-cbc", cfg.App.Cipher)
}

func TestGetStructuredConfig_Invalid(t *testing.T) {
	_, _, err := GetStructuredConfig([]string{"-k", "x", "-cipher", "rot13"})
	assert.ErrorIs(t, err, ErrInvalidAppConfigs)
	assert.NotErrorIs(t, err, ErrMissingAppKey)

	_, _, err = GetStructuredConfig([]string{"-k", "x", "-driver", "mysql"})
	assert.ErrorIs(t, err, ErrInvalidStorageConfigs)
}

func TestGetStructuredConfig_SourceError(t *testing.T) {
	cfg, _, err := GetStructuredConfig([]string{"-c", filepath.Join(t.TempDir(), "missing.json")})
	assert.Error(t, err)
	assert.Nil(t, cfg)
}
