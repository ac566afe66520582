package service

import (
	"time"

	"go.uber.org/zap"

	"github.com/libris/library-service/internal/repository"
)

type AuthConfig struct {
	Key      []byte
	TokenTTL time.Duration
}

type Service struct {
	log  *zap.Logger
	repo repository.Repository
	auth AuthConfig
}

func NewService(repo repository.Repository, authCfg AuthConfig, log *zap.Logger) *Service {
	return &Service{
		log:  log,
		repo: repo,
		auth: authCfg,
	}
}
