package store

import "github.com/BinGess/Ocean-backend/internal/logger"

// Repositories bundles all repository implementations behind one value for
// dependency injection into the service layer.
type Repositories struct {
	RecordRepository       RecordRepository
	UserRepository         UserRepository
	DeviceRepository       DeviceRepository
	RefreshTokenRepository RefreshTokenRepository
	SyncLogRepository      SyncLogRepository
	AIAPILogRepository     AIAPILogRepository
}

// NewRepositories wires every repository onto the shared database
// connection.
func NewRepositories(db *DB, log *logger.Logger) *Repositories {
	return &Repositories{
		RecordRepository:       NewRecordRepository(db, log),
		UserRepository:         NewUserRepository(db, log),
		DeviceRepository:       NewDeviceRepository(db, log),
		RefreshTokenRepository: NewRefreshTokenRepository(db, log),
		SyncLogRepository:      NewSyncLogRepository(db, log),
		AIAPILogRepository:     NewAIAPILogRepository(db, log),
	}
}
