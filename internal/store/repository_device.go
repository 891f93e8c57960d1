package store

import (
	"context"
	"fmt"
	"time"

	"github.com/BinGess/Ocean-backend/internal/logger"
	"github.com/BinGess/Ocean-backend/internal/utils"
	"github.com/BinGess/Ocean-backend/models"
)

const (
	upsertDevice = `INSERT INTO devices (id, user_id, device_id, device_name, platform, os_version, app_version, fcm_token, last_active_at, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
	ON CONFLICT (user_id, device_id) DO UPDATE SET
		device_name    = COALESCE(EXCLUDED.device_name, devices.device_name),
		platform       = COALESCE(EXCLUDED.platform, devices.platform),
		os_version     = COALESCE(EXCLUDED.os_version, devices.os_version),
		app_version    = COALESCE(EXCLUDED.app_version, devices.app_version),
		fcm_token      = COALESCE(EXCLUDED.fcm_token, devices.fcm_token),
		last_active_at = EXCLUDED.last_active_at;`

	listDevicesByUser = `SELECT id, user_id, device_id, device_name, platform, os_version, app_version, fcm_token, last_active_at, created_at
	FROM devices
	WHERE user_id = $1
	ORDER BY last_active_at DESC;`
)

// deviceRepository is the SQL-backed implementation of [DeviceRepository].
type deviceRepository struct {
	*DB
	logger *logger.Logger
}

// NewDeviceRepository constructs a [DeviceRepository] backed by the provided
// database connection and logger.
func NewDeviceRepository(db *DB, logger *logger.Logger) DeviceRepository {
	return &deviceRepository{
		DB:     db,
		logger: logger,
	}
}

// Upsert registers the device or refreshes its descriptor and activity time
// when the same (user_id, device_id) pair is already known.
func (r *deviceRepository) Upsert(ctx context.Context, device *models.Device) error {
	log := logger.FromContext(ctx)

	if device.ID == "" {
		device.ID = utils.NewUUID()
	}
	device.LastActiveAt = time.Now().UTC()

	_, err := r.DB.ExecContext(ctx, upsertDevice,
		device.ID,
		device.UserID,
		device.DeviceID,
		device.DeviceName,
		device.Platform,
		device.OSVersion,
		device.AppVersion,
		device.FCMToken,
		device.LastActiveAt,
	)
	if err != nil {
		log.Err(err).
			Str("func", "deviceRepository.Upsert").
			Str("device_id", device.DeviceID).
			Msg("error upserting device")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// ListByUser returns all devices of the account, most recently active first.
func (r *deviceRepository) ListByUser(ctx context.Context, userID string) ([]models.Device, error) {
	log := logger.FromContext(ctx)

	rows, err := r.DB.QueryContext(ctx, listDevicesByUser, userID)
	if err != nil {
		log.Err(err).
			Str("func", "deviceRepository.ListByUser").
			Str("user_id", userID).
			Msg("error listing devices")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	devices := make([]models.Device, 0, 8)

	for rows.Next() {
		var device models.Device
		scanErr := rows.Scan(
			&device.ID,
			&device.UserID,
			&device.DeviceID,
			&device.DeviceName,
			&device.Platform,
			&device.OSVersion,
			&device.AppVersion,
			&device.FCMToken,
			&device.LastActiveAt,
			&device.CreatedAt,
		)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "deviceRepository.ListByUser").
				Str("user_id", userID).
				Msg("error scanning device row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		devices = append(devices, device)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "deviceRepository.ListByUser").
			Str("user_id", userID).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return devices, nil
}
