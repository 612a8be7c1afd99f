// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidAppConfigs indicates invalid application-level settings
	// (for example, an unknown cipher or a missing key).
	ErrInvalidAppConfigs = errors.New("invalid app configuration")

	// ErrMissingAppKey is joined with ErrInvalidAppConfigs when no key is
	// configured. Commands that do not encrypt may ignore it.
	ErrMissingAppKey = errors.New("app key is not set")

	// ErrInvalidStorageConfigs indicates invalid storage settings
	// (for example, an unknown driver or an empty DSN).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
)
