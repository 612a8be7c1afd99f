// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrorClassification tells [DB.withRetry] and [DB.withInsertRetry] whether a
// failed statement may run again.
type ErrorClassification int

const (
	// NonRetryable errors are returned to the caller at once. Unknown
	// errors, constraint violations and data exceptions land here.
	NonRetryable ErrorClassification = iota

	// Retryable errors guarantee the statement had no effect: the
	// transaction was rolled back or the connection was refused before the
	// statement ran. Every statement, inserts included, may be repeated.
	Retryable

	// RetryableIfIdempotent errors leave the outcome unknown. The
	// connection dropped while the statement was in flight, so the server
	// may have applied it. Only reads, updates and deletes are repeated;
	// an insert would risk a duplicate row.
	RetryableIfIdempotent
)

// PostgresErrorClassifier is the [ErrorClassificator] of PostgreSQL handles
// opened by [NewConnectPostgres]. The record repository consults it through
// [DB.withRetry] and [DB.withInsertRetry]; the truncation code it reports
// as non-retryable is turned into [model.ErrValueTooLong] by translate.
type PostgresErrorClassifier struct{}

// NewPostgresErrorClassifier returns a [PostgresErrorClassifier].
func NewPostgresErrorClassifier() *PostgresErrorClassifier {
	return &PostgresErrorClassifier{}
}

// Classify implements [ErrorClassificator]. Errors that do not wrap a
// *pgconn.PgError are [NonRetryable].
func (c *PostgresErrorClassifier) Classify(err error) ErrorClassification {
	var pgErr *pgconn.PgError
	if err == nil || !errors.As(err, &pgErr) {
		return NonRetryable
	}
	return ClassifyPgError(pgErr)
}

// ClassifyPgError classifies a server error by SQLSTATE, see
// https://www.postgresql.org/docs/current/errcodes-appendix.html.
//
//   - 40000, 40001, 40P01 (rollback, serialization failure, deadlock) and
//     57P03 (cannot connect now): [Retryable].
//   - 08000, 08003, 08006 (connection exceptions): [RetryableIfIdempotent].
//   - everything else, notably class 22 (data too long for an encrypted
//     column), class 23 and class 42: [NonRetryable].
func ClassifyPgError(pgErr *pgconn.PgError) ErrorClassification {
	switch pgErr.Code {
	case pgerrcode.TransactionRollback,
		pgerrcode.SerializationFailure,
		pgerrcode.DeadlockDetected,
		pgerrcode.CannotConnectNow:
		return Retryable

	case pgerrcode.ConnectionException,
		pgerrcode.ConnectionDoesNotExist,
		pgerrcode.ConnectionFailure:
		return RetryableIfIdempotent
	}

	// Class 22 includes StringDataRightTruncationDataException, which
	// translate maps to model.ErrValueTooLong.
	return NonRetryable
}
