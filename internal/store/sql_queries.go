// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/lhwgwg/framework/internal/model"
)

// insertRecordQuery builds an INSERT of the given columns returning the new
// primary key. Both supported drivers understand RETURNING.
func (db *DB) insertRecordQuery(def *model.Definition, columns []string, values []any) (string, []any, error) {
	if len(columns) == 0 {
		return fmt.Sprintf("INSERT INTO %s DEFAULT VALUES RETURNING %s", def.Table, def.PrimaryKey), nil, nil
	}

	return db.builder.
		Insert(def.Table).
		Columns(columns...).
		Values(values...).
		Suffix("RETURNING " + def.PrimaryKey).
		ToSql()
}

func (db *DB) updateRecordQuery(def *model.Definition, id int64, set map[string]any) (string, []any, error) {
	return db.builder.
		Update(def.Table).
		SetMap(set).
		Where(sq.Eq{def.PrimaryKey: id}).
		ToSql()
}

// selectRecordQuery selects the primary key followed by every column in
// declaration order.
func (db *DB) selectRecordQuery(def *model.Definition, id int64) (string, []any, error) {
	columns := append([]string{def.PrimaryKey}, def.ColumnNames()...)

	return db.builder.
		Select(columns...).
		From(def.Table).
		Where(sq.Eq{def.PrimaryKey: id}).
		ToSql()
}

func (db *DB) deleteRecordQuery(def *model.Definition, id int64) (string, []any, error) {
	return db.builder.
		Delete(def.Table).
		Where(sq.Eq{def.PrimaryKey: id}).
		ToSql()
}

// existsRecordQuery selects a single marker row matching where. squirrel
// renders nil values as IS NULL.
func (db *DB) existsRecordQuery(def *model.Definition, where map[string]any) (string, []any, error) {
	eq := make(sq.Eq, len(where))
	for column, v := range where {
		if ns, ok := v.(sql.NullString); ok {
			if !ns.Valid {
				v = nil
			} else {
				v = ns.String
			}
		}
		eq[column] = v
	}

	return db.builder.
		Select("1").
		From(def.Table).
		Where(eq).
		Limit(1).
		ToSql()
}
