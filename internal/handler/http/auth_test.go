package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/BinGess/Ocean-backend/internal/mock"
	"github.com/BinGess/Ocean-backend/internal/service"
	"github.com/BinGess/Ocean-backend/internal/store"
	"github.com/BinGess/Ocean-backend/models"
)

func TestRegister(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{"success", nil, http.StatusCreated},
		{"invalid data", service.ErrInvalidDataProvided, http.StatusBadRequest},
		{"duplicate identifier", store.ErrUserAlreadyExists, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authSvc := mock.NewMockAuthService(gomock.NewController(t))
			authSvc.EXPECT().
				Register(gomock.Any(), gomock.Any()).
				Return(models.AuthResponse{User: models.User{ID: "user-1"}}, tt.serviceErr)

			h := newHandlerWithAuthService(authSvc)

			req := jsonRequest(t, http.MethodPost, "/api/v1/auth/register", models.RegisterRequest{})
			rr := httptest.NewRecorder()
			h.register(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}

func TestRegister_InvalidJSON(t *testing.T) {
	h := newHandlerWithAuthService(mock.NewMockAuthService(gomock.NewController(t)))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader([]byte("{")))
	rr := httptest.NewRecorder()
	h.register(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{"success", nil, http.StatusOK},
		{"invalid credentials", service.ErrInvalidCredentials, http.StatusUnauthorized},
		{"locked account", service.ErrAccountLocked, http.StatusLocked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authSvc := mock.NewMockAuthService(gomock.NewController(t))
			authSvc.EXPECT().
				Login(gomock.Any(), gomock.Any()).
				Return(models.AuthResponse{User: models.User{ID: "user-1"}}, tt.serviceErr)

			h := newHandlerWithAuthService(authSvc)

			req := jsonRequest(t, http.MethodPost, "/api/v1/auth/login", models.LoginRequest{})
			rr := httptest.NewRecorder()
			h.login(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}

func TestRefresh(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		authSvc := mock.NewMockAuthService(gomock.NewController(t))
		authSvc.EXPECT().
			Refresh(gomock.Any(), models.RefreshRequest{RefreshToken: "old"}).
			Return(models.TokenPair{AccessToken: "new-access", RefreshToken: "new-refresh"}, nil)

		h := newHandlerWithAuthService(authSvc)

		req := jsonRequest(t, http.MethodPost, "/api/v1/auth/refresh", models.RefreshRequest{RefreshToken: "old"})
		rr := httptest.NewRecorder()
		h.refresh(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		var pair models.TokenPair
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &pair))
		assert.Equal(t, "new-access", pair.AccessToken)
	})

	t.Run("invalid token", func(t *testing.T) {
		authSvc := mock.NewMockAuthService(gomock.NewController(t))
		authSvc.EXPECT().
			Refresh(gomock.Any(), gomock.Any()).
			Return(models.TokenPair{}, service.ErrInvalidToken)

		h := newHandlerWithAuthService(authSvc)

		req := jsonRequest(t, http.MethodPost, "/api/v1/auth/refresh", models.RefreshRequest{RefreshToken: "bogus"})
		rr := httptest.NewRecorder()
		h.refresh(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestLogout(t *testing.T) {
	t.Run("revokes device tokens", func(t *testing.T) {
		authSvc := mock.NewMockAuthService(gomock.NewController(t))
		authSvc.EXPECT().
			Logout(gomock.Any(), "user-1", "phone-a").
			Return(nil)

		h := newHandlerWithAuthService(authSvc)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
		req = req.WithContext(withIdentity(req.Context(), "user-1", "phone-a"))

		rr := httptest.NewRecorder()
		h.logout(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
	})

	t.Run("requires device identification", func(t *testing.T) {
		h := newHandlerWithAuthService(mock.NewMockAuthService(gomock.NewController(t)))

		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
		req = req.WithContext(withIdentity(req.Context(), "user-1", ""))

		rr := httptest.NewRecorder()
		h.logout(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestLogoutDevice(t *testing.T) {
	authSvc := mock.NewMockAuthService(gomock.NewController(t))
	authSvc.EXPECT().
		Logout(gomock.Any(), "user-1", "tablet-b").
		Return(nil)

	h := newHandlerWithAuthService(authSvc)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/auth/devices/tablet-b", nil)
	req = req.WithContext(withIdentity(req.Context(), "user-1", "phone-a"))
	req = withURLParam(req, "id", "tablet-b")

	rr := httptest.NewRecorder()
	h.logoutDevice(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestDevices(t *testing.T) {
	authSvc := mock.NewMockAuthService(gomock.NewController(t))
	authSvc.EXPECT().
		Devices(gomock.Any(), "user-1").
		Return([]models.Device{{ID: "dev-1", DeviceID: "phone-a"}}, nil)

	h := newHandlerWithAuthService(authSvc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/devices", nil)
	req = req.WithContext(withIdentity(req.Context(), "user-1", ""))

	rr := httptest.NewRecorder()
	h.devices(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var devices []models.Device
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &devices))
	require.Len(t, devices, 1)
	assert.Equal(t, "phone-a", devices[0].DeviceID)
}
