// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"

	"github.com/lhwgwg/framework/internal/cast"
	"github.com/lhwgwg/framework/internal/logger"
	"github.com/lhwgwg/framework/internal/model"
	"github.com/lhwgwg/framework/internal/store"
	"github.com/lhwgwg/framework/models"
)

// castService implements [CastService] on top of a [store.RecordRepository]
// for one table definition.
type castService struct {
	records store.RecordRepository
	def     *model.Definition

	logger *logger.Logger
}

// NewCastService constructs a [CastService] for def.
func NewCastService(records store.RecordRepository, def *model.Definition, logger *logger.Logger) CastService {
	return &castService{
		records: records,
		def:     def,
		logger:  logger,
	}
}

func (s *castService) Put(ctx context.Context, column, value string) (int64, error) {
	log := logger.FromContext(ctx)

	col, ok := s.def.Column(column)
	if !ok {
		return 0, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, s.def.Table, column)
	}

	v, err := parseValue(col, value)
	if err != nil {
		log.Err(err).Str("func", "*castService.Put").Str("column", column).Msg("invalid value")
		return 0, err
	}

	rec, err := s.records.Create(ctx, s.def, map[string]any{column: v})
	if err != nil {
		log.Err(err).Str("func", "*castService.Put").Str("column", column).Msg("error creating record")
		return 0, err
	}

	log.Info().Str("func", "*castService.Put").Str("table", s.def.Table).Int64("id", rec.ID()).Msg("record stored")
	return rec.ID(), nil
}

func (s *castService) Get(ctx context.Context, id int64) ([]models.Attribute, error) {
	log := logger.FromContext(ctx)

	rec, err := s.records.Find(ctx, s.def, id)
	if err != nil {
		log.Err(err).Str("func", "*castService.Get").Int64("id", id).Msg("error finding record")
		return nil, err
	}

	attrs := make([]models.Attribute, 0, len(s.def.Columns))
	for _, col := range s.def.Columns {
		v, err := rec.Get(col.Name)
		if err != nil {
			log.Err(err).Str("func", "*castService.Get").Str("column", col.Name).Msg("error reading attribute")
			return nil, err
		}

		attr, err := renderValue(col, v)
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, attr)
	}

	return attrs, nil
}

// parseValue turns command-line text into the in-memory value for col.
// Structured kinds expect JSON; the literal "null" clears the column.
func parseValue(col model.Column, value string) (any, error) {
	if value == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoValueProvided, col.Name)
	}
	if !col.Encrypted || !col.Kind.Structured() {
		return value, nil
	}

	v, err := cast.Deserialize(col.Kind, value)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrInvalidValue, col.Name, err)
	}
	return v, nil
}

func renderValue(col model.Column, v any) (models.Attribute, error) {
	attr := models.Attribute{Name: col.Name, Kind: col.Kind.String()}
	if !col.Encrypted {
		attr.Kind = "text"
	}

	switch {
	case v == nil:
		attr.Null = true
	case !col.Encrypted || !col.Kind.Structured():
		attr.Value = fmt.Sprint(v)
	default:
		text, err := cast.Serialize(col.Kind, v)
		if err != nil {
			return models.Attribute{}, fmt.Errorf("rendering %s: %w", col.Name, err)
		}
		attr.Value = text
	}

	return attr, nil
}
