// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package service holds the use cases behind the castctl commands. Services
// translate textual input into record attributes and back, delegating
// persistence to the store package.
package service

import (
	"context"

	"github.com/lhwgwg/framework/models"
)

// CastService stores and reads encrypted attributes of a single table.
type CastService interface {
	// Put stores value in column of a new record and returns its id.
	// Structured columns take a JSON document.
	Put(ctx context.Context, column, value string) (int64, error)
	// Get returns every column of the record with the given id, decrypted
	// and rendered as text, in column order.
	Get(ctx context.Context, id int64) ([]models.Attribute, error)
}
