// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"

	"github.com/lhwgwg/framework/internal/model"
)

// RecordRepository persists [model.Record] values of any [model.Definition].
// Attribute values reach the database exactly as the record stores them,
// so encrypted columns are written and read as ciphertext.
type RecordRepository interface {
	// Create fills a new record of def with attrs and inserts it.
	Create(ctx context.Context, def *model.Definition, attrs map[string]any) (*model.Record, error)
	// Save inserts rec when it does not exist yet, otherwise updates its
	// dirty columns. A clean existing record is left untouched.
	Save(ctx context.Context, rec *model.Record) error
	// Find loads the record of def with primary key id.
	Find(ctx context.Context, def *model.Definition, id int64) (*model.Record, error)
	// Delete removes the record of def with primary key id.
	Delete(ctx context.Context, def *model.Definition, id int64) error
	// Has reports whether a row of def matches every stored value in
	// where. A nil value matches NULL.
	Has(ctx context.Context, def *model.Definition, where map[string]any) (bool, error)
}

// ErrorClassificator decides whether a failed database call may be retried.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
