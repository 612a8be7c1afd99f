// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/lhwgwg/framework/internal/crypto"
)

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// A missing key is reported as ErrInvalidAppConfigs joined with
// ErrMissingAppKey, so key-less commands can still run.
func (cfg *StructuredConfig) validate() error {
	var errs []error

	if !slices.Contains(crypto.SupportedCiphers, cfg.App.Cipher) {
		errs = append(errs, fmt.Errorf("%w: unsupported cipher %q", ErrInvalidAppConfigs, cfg.App.Cipher))
	}

	if cfg.App.Key == "" {
		errs = append(errs, errors.Join(ErrInvalidAppConfigs, ErrMissingAppKey))
	}

	switch cfg.Storage.DB.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("%w: unsupported driver %q", ErrInvalidStorageConfigs, cfg.Storage.DB.Driver))
	}

	if cfg.Storage.DB.DSN == "" {
		errs = append(errs, fmt.Errorf("%w: empty DSN", ErrInvalidStorageConfigs))
	}

	return errors.Join(errs...)
}
