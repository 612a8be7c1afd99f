// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/lhwgwg/framework/internal/cast"
	"github.com/lhwgwg/framework/internal/logger"
	"github.com/lhwgwg/framework/internal/mock"
	"github.com/lhwgwg/framework/internal/model"
	"github.com/lhwgwg/framework/models"
)

func newTestRecordRepo(t *testing.T) (*recordRepository, sqlmock.Sqlmock, *mock.MockEncrypter) {
	t.Helper()

	conn, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	enc := mock.NewMockEncrypter(gomock.NewController(t))
	l := logger.Nop()
	repo := &recordRepository{
		db:     newDB(conn, "postgres", sq.Dollar, NewPostgresErrorClassifier(), l),
		caster: cast.NewEncrypted(enc),
		logger: l,
	}
	return repo, sqlMock, enc
}

func pgError(code string) error {
	return &pgconn.PgError{Code: code}
}

func TestRecordRepository_Create(t *testing.T) {
	repo, sqlMock, enc := newTestRecordRepo(t)

	enc.EXPECT().EncryptString("this is a secret string").Return("encrypted-secret-string", nil)

	sqlMock.ExpectQuery(`INSERT INTO encrypted_casts \(secret\) VALUES \(\$1\) RETURNING id`).
		WithArgs("encrypted-secret-string").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	rec, err := repo.Create(context.Background(), models.EncryptedCasts, map[string]any{
		models.SecretColumn: "this is a secret string",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), rec.ID())
	assert.True(t, rec.Exists())
	assert.Empty(t, rec.Dirty())
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestRecordRepository_CreateWithoutAttributes(t *testing.T) {
	repo, sqlMock, _ := newTestRecordRepo(t)

	sqlMock.ExpectQuery(`INSERT INTO encrypted_casts DEFAULT VALUES RETURNING id`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))

	rec, err := repo.Create(context.Background(), models.EncryptedCasts, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(5), rec.ID())
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestRecordRepository_CreateEncryptionFailureWritesNothing(t *testing.T) {
	repo, sqlMock, enc := newTestRecordRepo(t)

	enc.EXPECT().EncryptString(`{"key1":"value1"}`).Return("", errors.New("kms unavailable"))

	_, err := repo.Create(context.Background(), models.EncryptedCasts, map[string]any{
		models.SecretJSONColumn: cast.NewOrderedMap().Set("key1", "value1"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, cast.ErrEncryptionFailed)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestRecordRepository_CreateTruncation(t *testing.T) {
	repo, sqlMock, enc := newTestRecordRepo(t)

	// no size declared, so only the database can reject the value
	def := model.NewDefinition("encrypted_casts", model.Encrypted("secret", cast.KindPlain, 0))

	enc.EXPECT().EncryptString("long").Return("very-long-ciphertext", nil)
	sqlMock.ExpectQuery("INSERT INTO encrypted_casts").
		WillReturnError(pgError(pgerrcode.StringDataRightTruncationDataException))

	_, err := repo.Create(context.Background(), def, map[string]any{"secret": "long"})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrValueTooLong)
	assert.ErrorIs(t, err, ErrExecutingStatement)
}

func TestRecordRepository_CreateRetriesDeadlock(t *testing.T) {
	repo, sqlMock, enc := newTestRecordRepo(t)

	enc.EXPECT().EncryptString("x").Return("ct-x", nil)

	sqlMock.ExpectQuery("INSERT INTO encrypted_casts").
		WillReturnError(pgError(pgerrcode.DeadlockDetected))
	sqlMock.ExpectQuery("INSERT INTO encrypted_casts").
		WithArgs("ct-x").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))

	rec, err := repo.Create(context.Background(), models.EncryptedCasts, map[string]any{models.SecretColumn: "x"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), rec.ID())
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestRecordRepository_CreateGivesUpOnUniqueViolation(t *testing.T) {
	repo, sqlMock, enc := newTestRecordRepo(t)

	enc.EXPECT().EncryptString("x").Return("ct-x", nil)
	sqlMock.ExpectQuery("INSERT INTO encrypted_casts").
		WillReturnError(pgError(pgerrcode.UniqueViolation))

	_, err := repo.Create(context.Background(), models.EncryptedCasts, map[string]any{models.SecretColumn: "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExecutingStatement)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestRecordRepository_CreateNotRepeatedAfterConnectionLoss(t *testing.T) {
	repo, sqlMock, enc := newTestRecordRepo(t)

	enc.EXPECT().EncryptString("x").Return("ct-x", nil)
	// the server may have committed the row before the connection dropped
	sqlMock.ExpectQuery("INSERT INTO encrypted_casts").
		WillReturnError(pgError(pgerrcode.ConnectionFailure))

	_, err := repo.Create(context.Background(), models.EncryptedCasts, map[string]any{models.SecretColumn: "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExecutingStatement)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestRecordRepository_FindRetriedAfterConnectionLoss(t *testing.T) {
	repo, sqlMock, _ := newTestRecordRepo(t)

	sqlMock.ExpectQuery("SELECT (.+) FROM encrypted_casts").
		WithArgs(1).
		WillReturnError(pgError(pgerrcode.ConnectionFailure))
	sqlMock.ExpectQuery("SELECT (.+) FROM encrypted_casts").
		WithArgs(1).
		WillReturnRows(findRows())

	rec, err := repo.Find(context.Background(), models.EncryptedCasts, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rec.ID())
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func findRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "secret", "secret_array", "secret_json", "secret_object", "secret_collection"}).
		AddRow(1, "encrypted-secret-string", nil, nil, "encrypted-secret-object-string", nil)
}

func TestRecordRepository_Find(t *testing.T) {
	repo, sqlMock, enc := newTestRecordRepo(t)

	sqlMock.ExpectQuery(`SELECT id, secret, secret_array, secret_json, secret_object, secret_collection FROM encrypted_casts WHERE id = \$1`).
		WithArgs(1).
		WillReturnRows(findRows())

	rec, err := repo.Find(context.Background(), models.EncryptedCasts, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rec.ID())
	assert.True(t, rec.Exists())
	assert.Equal(t, "encrypted-secret-string", rec.Raw(models.SecretColumn).String)

	enc.EXPECT().DecryptString("encrypted-secret-object-string").Return(`{"key1":"value1"}`, nil)
	obj, err := rec.Object(models.SecretObjectColumn)
	require.NoError(t, err)
	assert.Equal(t, "value1", obj.Get("key1"))

	// NULL reads as nil without touching the encrypter
	m, err := rec.Map(models.SecretArrayColumn)
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestRecordRepository_FindNotFound(t *testing.T) {
	repo, sqlMock, _ := newTestRecordRepo(t)

	sqlMock.ExpectQuery("SELECT (.+) FROM encrypted_casts").
		WithArgs(9).
		WillReturnRows(sqlmock.NewRows([]string{"id", "secret", "secret_array", "secret_json", "secret_object", "secret_collection"}))

	_, err := repo.Find(context.Background(), models.EncryptedCasts, 9)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestRecordRepository_SaveUpdatesDirtyColumns(t *testing.T) {
	repo, sqlMock, enc := newTestRecordRepo(t)

	sqlMock.ExpectQuery("SELECT (.+) FROM encrypted_casts").WithArgs(1).WillReturnRows(findRows())
	rec, err := repo.Find(context.Background(), models.EncryptedCasts, 1)
	require.NoError(t, err)

	// clean record: nothing to write
	require.NoError(t, repo.Save(context.Background(), rec))

	enc.EXPECT().EncryptString("rotated").Return("encrypted-rotated", nil)
	require.NoError(t, rec.Set(models.SecretColumn, "rotated"))

	sqlMock.ExpectExec(`UPDATE encrypted_casts SET secret = \$1 WHERE id = \$2`).
		WithArgs("encrypted-rotated", 1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Save(context.Background(), rec))
	assert.Empty(t, rec.Dirty())
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestRecordRepository_SaveNoRowsUpdated(t *testing.T) {
	repo, sqlMock, enc := newTestRecordRepo(t)

	rec := model.New(models.EncryptedCasts, repo.caster)
	rec.Hydrate(4, nil)

	enc.EXPECT().EncryptString("x").Return("ct-x", nil)
	require.NoError(t, rec.Set(models.SecretColumn, "x"))

	sqlMock.ExpectExec("UPDATE encrypted_casts").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Save(context.Background(), rec)
	assert.ErrorIs(t, err, ErrRecordNotSaved)
	assert.Equal(t, []string{models.SecretColumn}, rec.Dirty())
}

func TestRecordRepository_Delete(t *testing.T) {
	repo, sqlMock, _ := newTestRecordRepo(t)

	sqlMock.ExpectExec(`DELETE FROM encrypted_casts WHERE id = \$1`).
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	sqlMock.ExpectExec(`DELETE FROM encrypted_casts WHERE id = \$1`).
		WithArgs(2).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), models.EncryptedCasts, 1))
	assert.ErrorIs(t, repo.Delete(context.Background(), models.EncryptedCasts, 2), ErrRecordNotFound)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestRecordRepository_Has(t *testing.T) {
	repo, sqlMock, _ := newTestRecordRepo(t)

	sqlMock.ExpectQuery(`SELECT 1 FROM encrypted_casts WHERE secret = \$1 LIMIT 1`).
		WithArgs("encrypted-secret-string").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	sqlMock.ExpectQuery(`SELECT 1 FROM encrypted_casts WHERE secret_json IS NULL LIMIT 1`).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	ok, err := repo.Has(context.Background(), models.EncryptedCasts, map[string]any{models.SecretColumn: "encrypted-secret-string"})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Has(context.Background(), models.EncryptedCasts, map[string]any{models.SecretJSONColumn: nil})
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = repo.Has(context.Background(), models.EncryptedCasts, map[string]any{"nope": 1})
	assert.ErrorIs(t, err, model.ErrUnknownAttribute)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestRecordRepository_HasQueryError(t *testing.T) {
	repo, sqlMock, _ := newTestRecordRepo(t)

	sqlMock.ExpectQuery("SELECT 1 FROM encrypted_casts").WillReturnError(errors.New("connection reset"))

	_, err := repo.Has(context.Background(), models.EncryptedCasts, map[string]any{"id": 1})
	assert.ErrorIs(t, err, ErrExecutingQuery)
}
