package http

import (
	"github.com/BinGess/Ocean-backend/internal/logger"
	"github.com/BinGess/Ocean-backend/internal/service"
)

// Handler owns the REST API surface. Every route method hangs off it and
// delegates to the service layer.
type Handler struct {
	services *service.Services
	version  string

	logger *logger.Logger
}

func NewHandler(services *service.Services, version string, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services: services,
		version:  version,
		logger:   logger,
	}
}
