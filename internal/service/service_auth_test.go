package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/BinGess/Ocean-backend/internal/config"
	"github.com/BinGess/Ocean-backend/internal/logger"
	"github.com/BinGess/Ocean-backend/internal/mock"
	"github.com/BinGess/Ocean-backend/internal/store"
	"github.com/BinGess/Ocean-backend/internal/utils"
	"github.com/BinGess/Ocean-backend/models"
)

const (
	testIssuer     = "ocean-backend"
	testSignKey    = "test-access-sign-key"
	testRefreshKey = "test-refresh-sign-key"
)

type authMocks struct {
	users   *mock.MockUserRepository
	devices *mock.MockDeviceRepository
	tokens  *mock.MockRefreshTokenRepository
}

func newTestAuthService(t *testing.T) (AuthService, authMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	mocks := authMocks{
		users:   mock.NewMockUserRepository(ctrl),
		devices: mock.NewMockDeviceRepository(ctrl),
		tokens:  mock.NewMockRefreshTokenRepository(ctrl),
	}

	cfg := config.App{
		TokenSignKey:    testSignKey,
		RefreshSignKey:  testRefreshKey,
		TokenIssuer:     testIssuer,
		TokenDuration:   time.Hour,
		RefreshDuration: 24 * time.Hour,
	}

	return NewAuthService(mocks.users, mocks.devices, mocks.tokens, cfg, logger.Nop()), mocks
}

func strPtr(s string) *string { return &s }

func testDeviceInfo() models.DeviceInfo {
	return models.DeviceInfo{DeviceID: "phone-a", Platform: strPtr("ios")}
}

func hashedUser(t *testing.T, password string) models.User {
	t.Helper()

	hash, err := utils.HashPassword(password)
	require.NoError(t, err)

	return models.User{
		ID:           "user-1",
		Email:        strPtr("mara@example.com"),
		PasswordHash: hash,
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  models.RegisterRequest
	}{
		{
			name: "neither phone nor email",
			req:  models.RegisterRequest{Password: "long-enough-pass", DeviceInfo: testDeviceInfo()},
		},
		{
			name: "short password",
			req:  models.RegisterRequest{Email: strPtr("a@b.c"), Password: "short", DeviceInfo: testDeviceInfo()},
		},
		{
			name: "missing device id",
			req:  models.RegisterRequest{Email: strPtr("a@b.c"), Password: "long-enough-pass"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth, _ := newTestAuthService(t)

			_, err := auth.Register(context.Background(), tt.req)
			require.ErrorIs(t, err, ErrInvalidDataProvided)
		})
	}
}

func TestAuthService_Register_Success(t *testing.T) {
	auth, mocks := newTestAuthService(t)

	mocks.users.EXPECT().
		CreateUser(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, user *models.User) error {
			require.NotNil(t, user.Email)
			assert.NotEqual(t, "long-enough-pass", user.PasswordHash, "password must be stored hashed")
			user.ID = "user-1"
			return nil
		})
	mocks.devices.EXPECT().
		Upsert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, device *models.Device) error {
			assert.Equal(t, "user-1", device.UserID)
			assert.Equal(t, "phone-a", device.DeviceID)
			return nil
		})
	mocks.tokens.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, token *models.RefreshToken) error {
			assert.Equal(t, "user-1", token.UserID)
			assert.Equal(t, "phone-a", token.DeviceID)
			assert.Len(t, token.TokenHash, 64, "sha-256 hex digest")
			return nil
		})

	resp, err := auth.Register(context.Background(), models.RegisterRequest{
		Email:      strPtr("mara@example.com"),
		Password:   "long-enough-pass",
		DeviceInfo: testDeviceInfo(),
	})
	require.NoError(t, err)

	assert.Equal(t, "user-1", resp.User.ID)
	assert.NotEmpty(t, resp.Tokens.AccessToken)
	assert.NotEmpty(t, resp.Tokens.RefreshToken)
	assert.Equal(t, int64(3600), resp.Tokens.ExpiresIn)
}

func TestAuthService_Register_DuplicateIdentifier(t *testing.T) {
	auth, mocks := newTestAuthService(t)

	mocks.users.EXPECT().
		CreateUser(gomock.Any(), gomock.Any()).
		Return(store.ErrUserAlreadyExists)

	_, err := auth.Register(context.Background(), models.RegisterRequest{
		Email:      strPtr("mara@example.com"),
		Password:   "long-enough-pass",
		DeviceInfo: testDeviceInfo(),
	})
	require.ErrorIs(t, err, store.ErrUserAlreadyExists)
}

func TestAuthService_Login_UnknownIdentifierHidden(t *testing.T) {
	auth, mocks := newTestAuthService(t)

	mocks.users.EXPECT().
		FindByIdentifier(gomock.Any(), "ghost@example.com").
		Return(models.User{}, store.ErrUserNotFound)

	_, err := auth.Login(context.Background(), models.LoginRequest{
		Identifier: "ghost@example.com",
		Password:   "whatever-pass",
		DeviceInfo: testDeviceInfo(),
	})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_WrongPasswordCountsAttempt(t *testing.T) {
	auth, mocks := newTestAuthService(t)

	user := hashedUser(t, "correct-password")
	user.LoginAttempts = 2

	mocks.users.EXPECT().
		FindByIdentifier(gomock.Any(), "mara@example.com").
		Return(user, nil)
	mocks.users.EXPECT().
		UpdateLoginState(gomock.Any(), "user-1", 3, gomock.Nil(), gomock.Nil()).
		Return(nil)

	_, err := auth.Login(context.Background(), models.LoginRequest{
		Identifier: "mara@example.com",
		Password:   "wrong-password",
		DeviceInfo: testDeviceInfo(),
	})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_FifthFailureLocksAccount(t *testing.T) {
	auth, mocks := newTestAuthService(t)

	user := hashedUser(t, "correct-password")
	user.LoginAttempts = 4

	mocks.users.EXPECT().
		FindByIdentifier(gomock.Any(), "mara@example.com").
		Return(user, nil)
	mocks.users.EXPECT().
		UpdateLoginState(gomock.Any(), "user-1", 0, gomock.Any(), gomock.Nil()).
		DoAndReturn(func(_ context.Context, _ string, attempts int, lockedUntil, _ *time.Time) error {
			require.NotNil(t, lockedUntil)
			assert.WithinDuration(t, time.Now().UTC().Add(loginLockDuration), *lockedUntil, 10*time.Second)
			return nil
		})

	_, err := auth.Login(context.Background(), models.LoginRequest{
		Identifier: "mara@example.com",
		Password:   "wrong-password",
		DeviceInfo: testDeviceInfo(),
	})
	require.ErrorIs(t, err, ErrAccountLocked)
}

func TestAuthService_Login_LockedAccountRejected(t *testing.T) {
	auth, mocks := newTestAuthService(t)

	user := hashedUser(t, "correct-password")
	lockedUntil := time.Now().UTC().Add(10 * time.Minute)
	user.LockedUntil = &lockedUntil

	mocks.users.EXPECT().
		FindByIdentifier(gomock.Any(), "mara@example.com").
		Return(user, nil)

	_, err := auth.Login(context.Background(), models.LoginRequest{
		Identifier: "mara@example.com",
		Password:   "correct-password",
		DeviceInfo: testDeviceInfo(),
	})
	require.ErrorIs(t, err, ErrAccountLocked, "even the right password is rejected while locked")
}

func TestAuthService_Login_SuccessResetsAttempts(t *testing.T) {
	auth, mocks := newTestAuthService(t)

	user := hashedUser(t, "correct-password")
	user.LoginAttempts = 3
	expired := time.Now().UTC().Add(-time.Minute)
	user.LockedUntil = &expired

	mocks.users.EXPECT().
		FindByIdentifier(gomock.Any(), "mara@example.com").
		Return(user, nil)
	mocks.users.EXPECT().
		UpdateLoginState(gomock.Any(), "user-1", 0, gomock.Nil(), gomock.Not(gomock.Nil())).
		Return(nil)
	mocks.devices.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(nil)
	mocks.tokens.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)

	resp, err := auth.Login(context.Background(), models.LoginRequest{
		Identifier: "mara@example.com",
		Password:   "correct-password",
		DeviceInfo: testDeviceInfo(),
	})
	require.NoError(t, err)

	assert.Equal(t, "user-1", resp.User.ID)
	assert.NotEmpty(t, resp.Tokens.AccessToken)
	assert.NotEmpty(t, resp.Tokens.RefreshToken)
}

func TestAuthService_Refresh_RotatesToken(t *testing.T) {
	auth, mocks := newTestAuthService(t)

	refresh, err := utils.GenerateJWTToken(testIssuer, "user-1", "phone-a", time.Hour, testRefreshKey)
	require.NoError(t, err)

	stored := models.RefreshToken{
		ID:       "token-1",
		UserID:   "user-1",
		DeviceID: "phone-a",
	}

	mocks.tokens.EXPECT().
		FindActiveByHash(gomock.Any(), utils.HashToken(refresh.SignedString)).
		Return(stored, nil)
	mocks.tokens.EXPECT().Revoke(gomock.Any(), "token-1").Return(nil)
	mocks.tokens.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)

	pair, err := auth.Refresh(context.Background(), models.RefreshRequest{RefreshToken: refresh.SignedString})
	require.NoError(t, err)

	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
}

func TestAuthService_Refresh_BadSignature(t *testing.T) {
	auth, _ := newTestAuthService(t)

	forged, err := utils.GenerateJWTToken(testIssuer, "user-1", "phone-a", time.Hour, "some-other-key")
	require.NoError(t, err)

	_, err = auth.Refresh(context.Background(), models.RefreshRequest{RefreshToken: forged.SignedString})
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_Refresh_RevokedOrUnknownToken(t *testing.T) {
	auth, mocks := newTestAuthService(t)

	refresh, err := utils.GenerateJWTToken(testIssuer, "user-1", "phone-a", time.Hour, testRefreshKey)
	require.NoError(t, err)

	mocks.tokens.EXPECT().
		FindActiveByHash(gomock.Any(), gomock.Any()).
		Return(models.RefreshToken{}, store.ErrTokenNotFound)

	_, err = auth.Refresh(context.Background(), models.RefreshRequest{RefreshToken: refresh.SignedString})
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_Logout(t *testing.T) {
	auth, mocks := newTestAuthService(t)

	mocks.tokens.EXPECT().
		RevokeAllForDevice(gomock.Any(), "user-1", "phone-a").
		Return(nil)

	require.NoError(t, auth.Logout(context.Background(), "user-1", "phone-a"))
}

func TestAuthService_ParseToken(t *testing.T) {
	auth, _ := newTestAuthService(t)

	access, err := utils.GenerateJWTToken(testIssuer, "user-1", "phone-a", time.Hour, testSignKey)
	require.NoError(t, err)

	token, err := auth.ParseToken(context.Background(), access.SignedString)
	require.NoError(t, err)
	assert.Equal(t, "user-1", token.UserID)
	assert.Equal(t, "phone-a", token.DeviceID)

	_, err = auth.ParseToken(context.Background(), access.SignedString+"tampered")
	require.ErrorIs(t, err, ErrInvalidToken)
}
