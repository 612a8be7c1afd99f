package service

import (
	"github.com/lhwgwg/framework/internal/logger"
	"github.com/lhwgwg/framework/internal/store"
	"github.com/lhwgwg/framework/models"
)

type Services struct {
	CastService CastService
}

func NewServices(storages *store.Storages, logger *logger.Logger) *Services {
	return &Services{
		CastService: NewCastService(storages.RecordRepository, models.EncryptedCasts, logger),
	}
}
