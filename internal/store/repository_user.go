package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"

	"github.com/BinGess/Ocean-backend/internal/logger"
	"github.com/BinGess/Ocean-backend/internal/utils"
	"github.com/BinGess/Ocean-backend/models"
)

const (
	createUser = `INSERT INTO users (id, phone, email, username, password_hash, login_attempts, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, 0, $6, $6);`

	findUserByIdentifier = `SELECT id, phone, email, username, password_hash, login_attempts, locked_until, last_login_at, created_at, deleted_at
	FROM users
	WHERE deleted_at IS NULL AND (phone = $1 OR email = $1 OR username = $1);`

	findUserByID = `SELECT id, phone, email, username, password_hash, login_attempts, locked_until, last_login_at, created_at, deleted_at
	FROM users
	WHERE deleted_at IS NULL AND id = $1;`

	updateUserLoginState = `UPDATE users
	SET login_attempts = $1, locked_until = $2, last_login_at = COALESCE($3, last_login_at), updated_at = $4
	WHERE id = $5;`
)

// userRepository is the SQL-backed implementation of [UserRepository].
// It handles account creation and lookup against the "users" table.
type userRepository struct {
	*DB
	logger *logger.Logger
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// database connection and logger.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		DB:     db,
		logger: logger,
	}
}

// CreateUser persists a new account. The repository assigns ID and
// CreatedAt and writes them back into user.
//
// A PostgreSQL unique_violation (23505) on phone, email or username is
// reported as [ErrUserAlreadyExists].
func (r *userRepository) CreateUser(ctx context.Context, user *models.User) error {
	log := logger.FromContext(ctx)

	user.ID = utils.NewUUID()
	user.CreatedAt = time.Now().UTC()

	_, err := r.DB.ExecContext(ctx, createUser,
		user.ID,
		user.Phone,
		user.Email,
		user.Username,
		user.PasswordHash,
		user.CreatedAt,
	)
	if err != nil {
		log.Err(err).Str("func", "userRepository.CreateUser").Msg("error inserting user")

		switch postgresError(err) {
		case pgerrcode.UniqueViolation:
			return ErrUserAlreadyExists
		default:
			return fmt.Errorf("unexpected DB error: %w", err)
		}
	}

	return nil
}

// FindByIdentifier retrieves the account whose phone, email or username
// matches identifier.
func (r *userRepository) FindByIdentifier(ctx context.Context, identifier string) (models.User, error) {
	return r.findUser(ctx, "userRepository.FindByIdentifier", findUserByIdentifier, identifier)
}

// FindByID retrieves the account with the given id.
func (r *userRepository) FindByID(ctx context.Context, id string) (models.User, error) {
	return r.findUser(ctx, "userRepository.FindByID", findUserByID, id)
}

func (r *userRepository) findUser(ctx context.Context, caller, query string, arg any) (models.User, error) {
	log := logger.FromContext(ctx)

	var user models.User
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Phone,
		&user.Email,
		&user.Username,
		&user.PasswordHash,
		&user.LoginAttempts,
		&user.LockedUntil,
		&user.LastLoginAt,
		&user.CreatedAt,
		&user.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		log.Err(err).Str("func", caller).Msg("error scanning user row")
		return models.User{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return user, nil
}

// UpdateLoginState persists the failed-attempt counter and lockout state.
// lastLoginAt is only written when non-nil so a failed attempt does not
// clear the previous successful login time.
func (r *userRepository) UpdateLoginState(ctx context.Context, userID string, attempts int, lockedUntil, lastLoginAt *time.Time) error {
	log := logger.FromContext(ctx)

	result, err := r.DB.ExecContext(ctx, updateUserLoginState, attempts, lockedUntil, lastLoginAt, time.Now().UTC(), userID)
	if err != nil {
		log.Err(err).
			Str("func", "userRepository.UpdateLoginState").
			Str("user_id", userID).
			Msg("error updating login state")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}
