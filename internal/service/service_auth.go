package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BinGess/Ocean-backend/internal/config"
	"github.com/BinGess/Ocean-backend/internal/logger"
	"github.com/BinGess/Ocean-backend/internal/store"
	"github.com/BinGess/Ocean-backend/internal/utils"
	"github.com/BinGess/Ocean-backend/models"
)

const (
	minPasswordLength = 8

	// after maxLoginAttempts consecutive failures the account is locked
	// for loginLockDuration
	maxLoginAttempts  = 5
	loginLockDuration = time.Minute
)

// authService is the concrete implementation of [AuthService].
//
// Access tokens are short-lived signed JWTs; refresh tokens are long-lived
// JWTs signed with a separate key and additionally persisted as SHA-256
// hashes so they can be revoked server-side. Refresh is rotating: each use
// revokes the presented token and issues a new pair.
type authService struct {
	users   store.UserRepository
	devices store.DeviceRepository
	tokens  store.RefreshTokenRepository

	tokenSignKey    string
	refreshSignKey  string
	tokenIssuer     string
	tokenDuration   time.Duration
	refreshDuration time.Duration

	logger *logger.Logger
}

// NewAuthService constructs an [AuthService] wired to the given repositories
// and populated with security parameters from cfg.
//
// The returned service is safe for concurrent use; all state is read-only
// after construction.
func NewAuthService(users store.UserRepository, devices store.DeviceRepository, tokens store.RefreshTokenRepository, cfg config.App, logger *logger.Logger) AuthService {
	return &authService{
		users:           users,
		devices:         devices,
		tokens:          tokens,
		tokenSignKey:    cfg.TokenSignKey,
		refreshSignKey:  cfg.RefreshSignKey,
		tokenIssuer:     cfg.TokenIssuer,
		tokenDuration:   cfg.TokenDuration,
		refreshDuration: cfg.RefreshDuration,
		logger:          logger,
	}
}

// Register creates a new account together with its first device and issues
// an initial token pair.
//
// Returns [ErrInvalidDataProvided] when neither phone nor email is supplied,
// the password is too short, or the device id is missing;
// [store.ErrUserAlreadyExists] (wrapped) when the identifier is taken.
func (a *authService) Register(ctx context.Context, req models.RegisterRequest) (models.AuthResponse, error) {
	log := logger.FromContext(ctx)

	if (req.Phone == nil || *req.Phone == "") && (req.Email == nil || *req.Email == "") {
		return models.AuthResponse{}, fmt.Errorf("%w: phone or email is required", ErrInvalidDataProvided)
	}
	if len(req.Password) < minPasswordLength {
		return models.AuthResponse{}, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidDataProvided, minPasswordLength)
	}
	if req.DeviceInfo.DeviceID == "" {
		return models.AuthResponse{}, fmt.Errorf("%w: deviceId is required", ErrInvalidDataProvided)
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		log.Err(err).Str("func", "authService.Register").Msg("failed to hash password")
		return models.AuthResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Phone:        req.Phone,
		Email:        req.Email,
		PasswordHash: passwordHash,
	}
	if err = a.users.CreateUser(ctx, &user); err != nil {
		log.Err(err).Str("func", "authService.Register").Msg("user creation ended with error")
		return models.AuthResponse{}, fmt.Errorf("user creation ended with error: %w", err)
	}

	if err = a.registerDevice(ctx, user.ID, req.DeviceInfo); err != nil {
		return models.AuthResponse{}, err
	}

	tokens, err := a.issueTokenPair(ctx, user.ID, req.DeviceInfo.DeviceID)
	if err != nil {
		return models.AuthResponse{}, err
	}

	log.Info().
		Str("func", "authService.Register").
		Str("user_id", user.ID).
		Msg("user registered")

	return models.AuthResponse{User: user, Tokens: tokens}, nil
}

// Login authenticates by phone, email or username.
//
// Failed attempts are counted; after 5 consecutive failures the account is
// briefly locked and [ErrAccountLocked] is returned until the lock
// expires. Unknown identifiers and wrong passwords are both reported as
// [ErrInvalidCredentials].
func (a *authService) Login(ctx context.Context, req models.LoginRequest) (models.AuthResponse, error) {
	log := logger.FromContext(ctx)

	if req.Identifier == "" || req.Password == "" {
		return models.AuthResponse{}, fmt.Errorf("%w: identifier and password are required", ErrInvalidDataProvided)
	}
	if req.DeviceInfo.DeviceID == "" {
		return models.AuthResponse{}, fmt.Errorf("%w: deviceId is required", ErrInvalidDataProvided)
	}

	user, err := a.users.FindByIdentifier(ctx, req.Identifier)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return models.AuthResponse{}, ErrInvalidCredentials
		}
		log.Err(err).Str("func", "authService.Login").Msg("user lookup failed")
		return models.AuthResponse{}, fmt.Errorf("user lookup failed: %w", err)
	}

	now := time.Now().UTC()

	if user.LockedUntil != nil && user.LockedUntil.After(now) {
		log.Warn().
			Str("func", "authService.Login").
			Str("user_id", user.ID).
			Time("locked_until", *user.LockedUntil).
			Msg("login attempt on locked account")
		return models.AuthResponse{}, ErrAccountLocked
	}

	if !utils.ComparePassword(req.Password, user.PasswordHash) {
		attempts := user.LoginAttempts + 1
		var lockedUntil *time.Time
		if attempts >= maxLoginAttempts {
			deadline := now.Add(loginLockDuration)
			lockedUntil = &deadline
			attempts = 0
		}

		if stateErr := a.users.UpdateLoginState(ctx, user.ID, attempts, lockedUntil, nil); stateErr != nil {
			log.Err(stateErr).Str("func", "authService.Login").Msg("failed to persist login attempts")
		}

		if lockedUntil != nil {
			return models.AuthResponse{}, ErrAccountLocked
		}
		return models.AuthResponse{}, ErrInvalidCredentials
	}

	if err = a.users.UpdateLoginState(ctx, user.ID, 0, nil, &now); err != nil {
		log.Err(err).Str("func", "authService.Login").Msg("failed to reset login attempts")
	}

	if err = a.registerDevice(ctx, user.ID, req.DeviceInfo); err != nil {
		return models.AuthResponse{}, err
	}

	tokens, err := a.issueTokenPair(ctx, user.ID, req.DeviceInfo.DeviceID)
	if err != nil {
		return models.AuthResponse{}, err
	}

	log.Info().
		Str("func", "authService.Login").
		Str("user_id", user.ID).
		Msg("user logged in")

	return models.AuthResponse{User: user, Tokens: tokens}, nil
}

// Refresh exchanges a valid refresh token for a fresh pair, revoking the
// presented token (rotation). An unknown, expired or revoked token yields
// [ErrInvalidToken].
func (a *authService) Refresh(ctx context.Context, req models.RefreshRequest) (models.TokenPair, error) {
	log := logger.FromContext(ctx)

	if req.RefreshToken == "" {
		return models.TokenPair{}, fmt.Errorf("%w: refreshToken is required", ErrInvalidDataProvided)
	}

	if _, err := utils.ValidateAndParseJWTToken(req.RefreshToken, a.refreshSignKey, a.tokenIssuer); err != nil {
		log.Warn().Str("func", "authService.Refresh").Msg("refresh token failed signature validation")
		return models.TokenPair{}, ErrInvalidToken
	}

	stored, err := a.tokens.FindActiveByHash(ctx, utils.HashToken(req.RefreshToken))
	if err != nil {
		if errors.Is(err, store.ErrTokenNotFound) {
			return models.TokenPair{}, ErrInvalidToken
		}
		log.Err(err).Str("func", "authService.Refresh").Msg("refresh token lookup failed")
		return models.TokenPair{}, fmt.Errorf("refresh token lookup failed: %w", err)
	}

	if err = a.tokens.Revoke(ctx, stored.ID); err != nil {
		log.Err(err).Str("func", "authService.Refresh").Msg("failed to revoke used refresh token")
		return models.TokenPair{}, fmt.Errorf("failed to revoke used refresh token: %w", err)
	}

	return a.issueTokenPair(ctx, stored.UserID, stored.DeviceID)
}

// Logout revokes every active refresh token of the device.
func (a *authService) Logout(ctx context.Context, userID, deviceID string) error {
	log := logger.FromContext(ctx)

	if err := a.tokens.RevokeAllForDevice(ctx, userID, deviceID); err != nil {
		log.Err(err).
			Str("func", "authService.Logout").
			Str("user_id", userID).
			Msg("failed to revoke device tokens")
		return fmt.Errorf("failed to revoke device tokens: %w", err)
	}

	return nil
}

// Devices lists the account's registered devices.
func (a *authService) Devices(ctx context.Context, userID string) ([]models.Device, error) {
	return a.devices.ListByUser(ctx, userID)
}

// ParseToken validates an access token string and extracts the user and
// device ids.
func (a *authService) ParseToken(_ context.Context, tokenString string) (models.Token, error) {
	token, err := utils.ValidateAndParseJWTToken(tokenString, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		return models.Token{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return token, nil
}

func (a *authService) registerDevice(ctx context.Context, userID string, info models.DeviceInfo) error {
	log := logger.FromContext(ctx)

	device := models.Device{
		UserID:     userID,
		DeviceID:   info.DeviceID,
		DeviceName: info.DeviceName,
		Platform:   info.Platform,
		OSVersion:  info.OSVersion,
		AppVersion: info.AppVersion,
		FCMToken:   info.FCMToken,
	}
	if err := a.devices.Upsert(ctx, &device); err != nil {
		log.Err(err).
			Str("func", "authService.registerDevice").
			Str("user_id", userID).
			Msg("failed to upsert device")
		return fmt.Errorf("failed to upsert device: %w", err)
	}

	return nil
}

func (a *authService) issueTokenPair(ctx context.Context, userID, deviceID string) (models.TokenPair, error) {
	log := logger.FromContext(ctx)

	access, err := utils.GenerateJWTToken(a.tokenIssuer, userID, deviceID, a.tokenDuration, a.tokenSignKey)
	if err != nil {
		log.Err(err).Str("func", "authService.issueTokenPair").Msg("failed to generate access token")
		return models.TokenPair{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	refresh, err := utils.GenerateJWTToken(a.tokenIssuer, userID, deviceID, a.refreshDuration, a.refreshSignKey)
	if err != nil {
		log.Err(err).Str("func", "authService.issueTokenPair").Msg("failed to generate refresh token")
		return models.TokenPair{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	stored := models.RefreshToken{
		UserID:    userID,
		DeviceID:  deviceID,
		TokenHash: utils.HashToken(refresh.SignedString),
		ExpiresAt: time.Now().UTC().Add(a.refreshDuration),
	}
	if err = a.tokens.Save(ctx, &stored); err != nil {
		log.Err(err).Str("func", "authService.issueTokenPair").Msg("failed to persist refresh token")
		return models.TokenPair{}, fmt.Errorf("failed to persist refresh token: %w", err)
	}

	return models.TokenPair{
		AccessToken:  access.SignedString,
		RefreshToken: refresh.SignedString,
		ExpiresIn:    int64(a.tokenDuration.Seconds()),
	}, nil
}
