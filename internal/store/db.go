// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"

	"github.com/lhwgwg/framework/internal/logger"
	"github.com/lhwgwg/framework/internal/model"
	"github.com/lhwgwg/framework/migrations"
)

const (
	maxAttempts = 3
	retryDelay  = 50 * time.Millisecond
)

// DB is a database handle bound to one driver. It carries the squirrel
// statement builder with the driver's placeholder format and the error
// classifier used to decide on retries.
type DB struct {
	*sql.DB
	driver             string
	builder            sq.StatementBuilderType
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

func newDB(conn *sql.DB, driver string, placeholder sq.PlaceholderFormat, classifier ErrorClassificator, log *logger.Logger) *DB {
	return &DB{
		DB:                 conn,
		driver:             driver,
		builder:            sq.StatementBuilder.PlaceholderFormat(placeholder),
		errorClassificator: classifier,
		logger:             log,
	}
}

// Driver returns the database/sql driver name.
func (db *DB) Driver() string {
	return db.driver
}

// Migrate applies the embedded migrations for the handle's driver.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB, db.driver)
}

// withRetry runs an idempotent statement until it succeeds, fails with an
// error the classifier does not consider retryable, or maxAttempts is
// reached.
func (db *DB) withRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	return db.retry(ctx, "*DB.withRetry", true, fn)
}

// withInsertRetry is withRetry for statements that must not run twice. It
// repeats fn only on [Retryable] errors, after which the server is known to
// have discarded the statement.
func (db *DB) withInsertRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	return db.retry(ctx, "*DB.withInsertRetry", false, fn)
}

func (db *DB) retry(ctx context.Context, caller string, idempotent bool, fn func(ctx context.Context) error) error {
	var lastErr error
	for attempt := range maxAttempts {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if !db.retryable(err, idempotent) {
			return err
		}

		lastErr = err
		logger.FromContext(ctx).Warn().Err(err).
			Str("func", caller).
			Int("attempt", attempt+1).
			Msg("retryable database error")

		if attempt < maxAttempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retryDelay * time.Duration(attempt+1)):
			}
		}
	}
	return lastErr
}

func (db *DB) retryable(err error, idempotent bool) bool {
	if db.errorClassificator == nil {
		return false
	}
	switch db.errorClassificator.Classify(err) {
	case Retryable:
		return true
	case RetryableIfIdempotent:
		return idempotent
	}
	return false
}

// translate maps driver errors with a domain meaning to the model's
// sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if postgresError(err) == pgerrcode.StringDataRightTruncationDataException {
		return fmt.Errorf("%w: %w", model.ErrValueTooLong, err)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrRecordNotFound
	}
	return err
}
