// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"

	"github.com/lhwgwg/framework/internal/cast"
	"github.com/lhwgwg/framework/internal/config"
	"github.com/lhwgwg/framework/internal/logger"
)

// Storages bundles the open database handle with the repositories built on
// top of it.
type Storages struct {
	DB               *DB
	RecordRepository RecordRepository
}

// NewStorages connects to the database described by cfg, applies migrations
// when cfg.Migrate is set and wires the repositories. The returned Storages
// must be closed by the caller.
func NewStorages(ctx context.Context, cfg config.DB, caster *cast.Encrypted, log *logger.Logger) (*Storages, error) {
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	var (
		db  *DB
		err error
	)
	switch cfg.Driver {
	case config.DriverPostgres:
		db, err = NewConnectPostgres(ctx, cfg, log)
	case config.DriverSQLite:
		db, err = NewConnectSQLite(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if cfg.Migrate {
		if err = db.Migrate(); err != nil {
			log.Err(err).Str("func", "NewStorages").Msg("error applying migrations")
			db.Close()
			return nil, err
		}
		log.Info().Str("func", "NewStorages").Str("driver", cfg.Driver).Msg("migrations applied")
	}

	return &Storages{
		DB:               db,
		RecordRepository: NewRecordRepository(db, caster, log),
	}, nil
}

// Close releases the database handle.
func (s *Storages) Close() error {
	return s.DB.Close()
}
