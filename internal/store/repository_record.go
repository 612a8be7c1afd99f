// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lhwgwg/framework/internal/cast"
	"github.com/lhwgwg/framework/internal/logger"
	"github.com/lhwgwg/framework/internal/model"
)

// recordRepository is the database/sql implementation of [RecordRepository].
// It works for any definition; queries are built per call with squirrel.
type recordRepository struct {
	db     *DB
	caster *cast.Encrypted
	logger *logger.Logger
}

// NewRecordRepository constructs a [RecordRepository] backed by db. Records
// it creates or loads encrypt and decrypt through caster.
func NewRecordRepository(db *DB, caster *cast.Encrypted, logger *logger.Logger) RecordRepository {
	logger.Debug().Msg("creating record repository")
	return &recordRepository{
		db:     db,
		caster: caster,
		logger: logger,
	}
}

func (r *recordRepository) Create(ctx context.Context, def *model.Definition, attrs map[string]any) (*model.Record, error) {
	rec := model.New(def, r.caster)
	if err := rec.Fill(attrs); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*recordRepository.Create").Msg("error filling record")
		return nil, err
	}

	if err := r.Save(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *recordRepository) Save(ctx context.Context, rec *model.Record) error {
	if rec.Exists() {
		return r.update(ctx, rec)
	}
	return r.insert(ctx, rec)
}

func (r *recordRepository) insert(ctx context.Context, rec *model.Record) error {
	log := logger.FromContext(ctx)
	def := rec.Definition()

	columns := rec.Dirty()
	values := make([]any, 0, len(columns))
	for _, name := range columns {
		values = append(values, rec.Raw(name))
	}

	query, args, err := r.db.insertRecordQuery(def, columns, values)
	if err != nil {
		log.Err(err).Str("func", "*recordRepository.insert").Msg("error building insert query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var id int64
	err = r.db.withInsertRetry(ctx, func(ctx context.Context) error {
		return r.db.QueryRowContext(ctx, query, args...).Scan(&id)
	})
	if err != nil {
		log.Err(err).Str("func", "*recordRepository.insert").Str("table", def.Table).Msg("error inserting record")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, translate(err))
	}

	rec.MarkPersisted(id)
	log.Debug().Str("func", "*recordRepository.insert").Str("table", def.Table).Int64("id", id).Msg("record inserted")
	return nil
}

func (r *recordRepository) update(ctx context.Context, rec *model.Record) error {
	log := logger.FromContext(ctx)
	def := rec.Definition()

	dirty := rec.Dirty()
	if len(dirty) == 0 {
		return nil
	}

	set := make(map[string]any, len(dirty))
	for _, name := range dirty {
		set[name] = rec.Raw(name)
	}

	query, args, err := r.db.updateRecordQuery(def, rec.ID(), set)
	if err != nil {
		log.Err(err).Str("func", "*recordRepository.update").Msg("error building update query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var result sql.Result
	err = r.db.withRetry(ctx, func(ctx context.Context) error {
		var execErr error
		result, execErr = r.db.ExecContext(ctx, query, args...)
		return execErr
	})
	if err != nil {
		log.Err(err).Str("func", "*recordRepository.update").Str("table", def.Table).Msg("error updating record")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, translate(err))
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		log.Warn().Str("func", "*recordRepository.update").Int64("id", rec.ID()).Msg("no rows updated")
		return ErrRecordNotSaved
	}

	rec.MarkPersisted(rec.ID())
	return nil
}

func (r *recordRepository) Find(ctx context.Context, def *model.Definition, id int64) (*model.Record, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.db.selectRecordQuery(def, id)
	if err != nil {
		log.Err(err).Str("func", "*recordRepository.Find").Msg("error building select query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var (
		foundID int64
		values  = make([]sql.NullString, len(def.Columns))
		dest    = make([]any, 0, len(def.Columns)+1)
	)
	dest = append(dest, &foundID)
	for i := range values {
		dest = append(dest, &values[i])
	}

	err = r.db.withRetry(ctx, func(ctx context.Context) error {
		return r.db.QueryRowContext(ctx, query, args...).Scan(dest...)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s #%d", ErrRecordNotFound, def.Table, id)
	}
	if err != nil {
		log.Err(err).Str("func", "*recordRepository.Find").Str("table", def.Table).Msg("error scanning record")
		return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	raw := make(map[string]sql.NullString, len(def.Columns))
	for i, col := range def.Columns {
		raw[col.Name] = values[i]
	}

	rec := model.New(def, r.caster)
	rec.Hydrate(foundID, raw)
	return rec, nil
}

func (r *recordRepository) Delete(ctx context.Context, def *model.Definition, id int64) error {
	log := logger.FromContext(ctx)

	query, args, err := r.db.deleteRecordQuery(def, id)
	if err != nil {
		log.Err(err).Str("func", "*recordRepository.Delete").Msg("error building delete query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var result sql.Result
	err = r.db.withRetry(ctx, func(ctx context.Context) error {
		var execErr error
		result, execErr = r.db.ExecContext(ctx, query, args...)
		return execErr
	})
	if err != nil {
		log.Err(err).Str("func", "*recordRepository.Delete").Str("table", def.Table).Msg("error deleting record")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s #%d", ErrRecordNotFound, def.Table, id)
	}
	return nil
}

func (r *recordRepository) Has(ctx context.Context, def *model.Definition, where map[string]any) (bool, error) {
	log := logger.FromContext(ctx)

	for name := range where {
		if _, ok := def.Column(name); !ok && name != def.PrimaryKey {
			return false, fmt.Errorf("%w: %s.%s", model.ErrUnknownAttribute, def.Table, name)
		}
	}

	query, args, err := r.db.existsRecordQuery(def, where)
	if err != nil {
		log.Err(err).Str("func", "*recordRepository.Has").Msg("error building exists query")
		return false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var marker int
	err = r.db.withRetry(ctx, func(ctx context.Context) error {
		return r.db.QueryRowContext(ctx, query, args...).Scan(&marker)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		log.Err(err).Str("func", "*recordRepository.Has").Str("table", def.Table).Msg("error executing exists query")
		return false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return true, nil
}
