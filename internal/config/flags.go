package config

import (
	"flag"
	"fmt"
	"strings"
	"time"
)

// ParseFlags parses configuration flags from args and returns the config
// layer they describe along with the remaining positional arguments.
//
// Flags:
//
//	-k app key ("base64:..." or a passphrase)
//	-previous-keys comma separated retired keys
//	-cipher cipher name (e.g. "aes-256-gcm")
//	-key-salt salt for passphrase keys
//	-log-level log level (e.g. "debug")
//	-driver database driver ("postgres" or "sqlite3")
//	-d database DSN
//	-migrate apply migrations on start
//	-connect-timeout database ping timeout (e.g. "5s")
//	-c/-config json file path with configs
func ParseFlags(args []string) (*StructuredConfig, []string, error) {
	var (
		appKey         string
		previousKeys   string
		cipherName     string
		keySalt        string
		logLevel       string
		driver         string
		databaseDSN    string
		migrate        bool
		connectTimeout time.Duration
		jsonConfigPath string
	)

	fs := flag.NewFlagSet("castctl", flag.ContinueOnError)
	fs.StringVar(&appKey, "k", "", "App encryption key")
	fs.StringVar(&previousKeys, "previous-keys", "", "Comma separated retired keys")
	fs.StringVar(&cipherName, "cipher", "", "Cipher name")
	fs.StringVar(&keySalt, "key-salt", "", "Salt for passphrase keys")
	fs.StringVar(&logLevel, "log-level", "", "Log level")
	fs.StringVar(&driver, "driver", "", "Database driver")
	fs.StringVar(&databaseDSN, "d", "", "Database DSN")
	fs.BoolVar(&migrate, "migrate", false, "Apply migrations on start")
	fs.DurationVar(&connectTimeout, "connect-timeout", 0, "Database ping timeout (e.g., 5s)")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	if err := fs.Parse(args); err != nil {
		return nil, nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return &StructuredConfig{
		App: App{
			Key:          appKey,
			PreviousKeys: splitList(previousKeys),
			Cipher:       cipherName,
			KeySalt:      keySalt,
			LogLevel:     logLevel,
		},
		Storage: Storage{
			DB: DB{
				Driver:         driver,
				DSN:            databaseDSN,
				Migrate:        migrate,
				ConnectTimeout: connectTimeout,
			},
		},
		JSONFilePath: jsonConfigPath,
	}, fs.Args(), nil
}

// splitList splits a comma separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
