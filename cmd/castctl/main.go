// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Command castctl stores and reads encrypted attributes of the
// encrypted_casts table.
//
// Usage:
//
//	castctl [flags] keygen
//	castctl [flags] put <column> <value>
//	castctl [flags] get <id>
//	castctl version
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/lhwgwg/framework/internal/cast"
	"github.com/lhwgwg/framework/internal/config"
	"github.com/lhwgwg/framework/internal/crypto"
	"github.com/lhwgwg/framework/internal/logger"
	"github.com/lhwgwg/framework/internal/service"
	"github.com/lhwgwg/framework/internal/store"
	"github.com/lhwgwg/framework/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

var errUsage = errors.New("usage: castctl [flags] keygen | put <column> <value> | get <id> | version")

func main() {
	log := logger.NewLogger("castctl")

	if err := run(context.Background(), os.Args[1:], os.Stdout, log); err != nil {
		log.Error().Err(err).Msg("castctl failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer, log *logger.Logger) error {
	cfg, rest, err := config.GetStructuredConfig(args)
	if cfg == nil {
		return err
	}
	if len(rest) == 0 {
		return errUsage
	}

	command := rest[0]
	if err != nil && !(keyless(command) && errors.Is(err, config.ErrMissingAppKey)) {
		return err
	}

	if err := logger.SetLevel(cfg.App.LogLevel); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	ctx, _ = log.WithTraceID(ctx)
	logger.FromContext(ctx).Debug().Str("command", command).Str("driver", cfg.Storage.DB.Driver).Msg("received configs")

	switch command {
	case "version":
		_, err := fmt.Fprint(out, models.NewAppBuildInfo(buildVersion, buildDate, buildCommit))
		return err

	case "keygen":
		key, err := crypto.GenerateKey(cfg.App.Cipher)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, key)
		return err

	case "put":
		if len(rest) != 3 {
			return errUsage
		}
		return withServices(ctx, cfg, log, func(services *service.Services) error {
			id, err := services.CastService.Put(ctx, rest[1], rest[2])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(out, id)
			return err
		})

	case "get":
		if len(rest) != 2 {
			return errUsage
		}
		id, err := strconv.ParseInt(rest[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id %q: %w", rest[1], err)
		}
		return withServices(ctx, cfg, log, func(services *service.Services) error {
			attrs, err := services.CastService.Get(ctx, id)
			if err != nil {
				return err
			}
			for _, attr := range attrs {
				if _, err := fmt.Fprintln(out, attr); err != nil {
					return err
				}
			}
			return nil
		})
	}

	return errUsage
}

func keyless(command string) bool {
	return command == "keygen" || command == "version"
}

// withServices builds the encrypter and storages from cfg, runs fn and
// closes the storages.
func withServices(ctx context.Context, cfg *config.StructuredConfig, log *logger.Logger, fn func(*service.Services) error) error {
	key, err := crypto.ParseKey(cfg.App.Key, cfg.App.KeySalt, cfg.App.Cipher)
	if err != nil {
		return err
	}
	previous, err := crypto.ParseKeys(cfg.App.PreviousKeys, cfg.App.KeySalt, cfg.App.Cipher)
	if err != nil {
		return err
	}

	enc, err := crypto.NewEncrypter(key, cfg.App.Cipher, previous...)
	if err != nil {
		return err
	}

	storages, err := store.NewStorages(ctx, cfg.Storage.DB, cast.NewEncrypted(enc), log)
	if err != nil {
		return fmt.Errorf("error creating storages: %w", err)
	}
	defer storages.Close()

	return fn(service.NewServices(storages, log))
}
