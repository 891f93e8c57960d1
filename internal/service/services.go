package service

import (
	"github.com/BinGess/Ocean-backend/internal/config"
	"github.com/BinGess/Ocean-backend/internal/logger"
	"github.com/BinGess/Ocean-backend/internal/store"
)

// Services bundles all business-logic services behind one value for
// injection into the transport layer.
type Services struct {
	SyncService    SyncService
	AuthService    AuthService
	RecordsService RecordsService
	AIService      AIService
}

// NewServices wires every service onto the shared repositories, the audit
// recorder and the upstream AI client.
func NewServices(repositories *store.Repositories, audit AuditRecorder, aiClient AIClient, cfg *config.StructuredConfig, logger *logger.Logger) *Services {
	return &Services{
		SyncService:    NewSyncService(repositories.RecordRepository, audit, logger),
		AuthService:    NewAuthService(repositories.UserRepository, repositories.DeviceRepository, repositories.RefreshTokenRepository, cfg.App, logger),
		RecordsService: NewRecordsService(repositories.RecordRepository, logger),
		AIService:      NewAIService(aiClient, repositories.AIAPILogRepository, logger),
	}
}
