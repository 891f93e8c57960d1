package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/BinGess/Ocean-backend/internal/logger"
	"github.com/BinGess/Ocean-backend/internal/mock"
	"github.com/BinGess/Ocean-backend/internal/service"
	"github.com/BinGess/Ocean-backend/internal/utils"
	"github.com/BinGess/Ocean-backend/models"
)

func newHandlerWithSyncService(sync service.SyncService) *Handler {
	return &Handler{
		services: &service.Services{SyncService: sync},
		logger:   logger.Nop(),
	}
}

func withIdentity(ctx context.Context, userID, deviceID string) context.Context {
	ctx = context.WithValue(ctx, utils.UserIDCtxKey, userID)
	if deviceID != "" {
		ctx = context.WithValue(ctx, utils.DeviceIDCtxKey, deviceID)
	}
	return ctx
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	return httptest.NewRequest(method, target, bytes.NewReader(payload))
}

func TestSyncPull(t *testing.T) {
	ctrl := gomock.NewController(t)
	syncSvc := mock.NewMockSyncService(ctrl)
	h := newHandlerWithSyncService(syncSvc)

	watermark := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	expected := models.PullResponse{
		Changes: models.PullChanges{
			Records: &models.RecordDelta{
				Created: []models.Record{{ID: "rec-1", Version: 1}},
				Updated: []models.Record{},
				Deleted: []string{"rec-2"},
			},
		},
		SyncTimestamp: watermark.Add(time.Hour),
	}

	syncSvc.EXPECT().
		Pull(gomock.Any(), "user-1", gomock.Any(), models.PullRequest{LastSyncTimestamp: watermark}).
		DoAndReturn(func(_ context.Context, _ string, deviceID *string, _ models.PullRequest) (models.PullResponse, error) {
			require.NotNil(t, deviceID)
			assert.Equal(t, "phone-a", *deviceID)
			return expected, nil
		})

	req := jsonRequest(t, http.MethodPost, "/api/v1/sync/pull", models.PullRequest{LastSyncTimestamp: watermark})
	req = req.WithContext(withIdentity(req.Context(), "user-1", "phone-a"))

	rr := httptest.NewRecorder()
	h.syncPull(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp models.PullResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotNil(t, resp.Changes.Records)
	assert.Equal(t, []string{"rec-2"}, resp.Changes.Records.Deleted)
	assert.False(t, resp.HasMore)
}

func TestSyncPull_InvalidJSON(t *testing.T) {
	h := newHandlerWithSyncService(mock.NewMockSyncService(gomock.NewController(t)))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sync/pull", bytes.NewReader([]byte("{not json")))
	req = req.WithContext(withIdentity(req.Context(), "user-1", ""))

	rr := httptest.NewRecorder()
	h.syncPull(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSyncPush_BodyDeviceIDFallback(t *testing.T) {
	ctrl := gomock.NewController(t)
	syncSvc := mock.NewMockSyncService(ctrl)
	h := newHandlerWithSyncService(syncSvc)

	syncSvc.EXPECT().
		Push(gomock.Any(), "user-1", gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, deviceID *string, _ models.PushRequest) (models.PushResponse, error) {
			require.NotNil(t, deviceID)
			assert.Equal(t, "from-body", *deviceID)
			return models.PushResponse{}, nil
		})

	req := jsonRequest(t, http.MethodPost, "/api/v1/sync/push", models.PushRequest{DeviceID: "from-body"})
	req = req.WithContext(withIdentity(req.Context(), "user-1", ""))

	rr := httptest.NewRecorder()
	h.syncPush(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestSyncPush_HeaderDeviceIDWins(t *testing.T) {
	ctrl := gomock.NewController(t)
	syncSvc := mock.NewMockSyncService(ctrl)
	h := newHandlerWithSyncService(syncSvc)

	syncSvc.EXPECT().
		Push(gomock.Any(), "user-1", gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, deviceID *string, _ models.PushRequest) (models.PushResponse, error) {
			require.NotNil(t, deviceID)
			assert.Equal(t, "from-header", *deviceID)
			return models.PushResponse{}, nil
		})

	req := jsonRequest(t, http.MethodPost, "/api/v1/sync/push", models.PushRequest{DeviceID: "from-body"})
	req = req.WithContext(withIdentity(req.Context(), "user-1", "from-header"))

	rr := httptest.NewRecorder()
	h.syncPush(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestSyncPush_ConflictsReturnedWith200(t *testing.T) {
	ctrl := gomock.NewController(t)
	syncSvc := mock.NewMockSyncService(ctrl)
	h := newHandlerWithSyncService(syncSvc)

	syncSvc.EXPECT().
		Push(gomock.Any(), "user-1", gomock.Any(), gomock.Any()).
		Return(models.PushResponse{
			Conflicts: []models.Conflict{
				{EntityType: models.EntityTypeRecord, EntityID: "rec-1", ClientVersion: 2, ServerVersion: 5},
			},
		}, nil)

	req := jsonRequest(t, http.MethodPost, "/api/v1/sync/push", models.PushRequest{})
	req = req.WithContext(withIdentity(req.Context(), "user-1", ""))

	rr := httptest.NewRecorder()
	h.syncPush(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, "conflicts are response data, not an HTTP error")

	var resp models.PushResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Conflicts, 1)
	assert.Equal(t, int64(5), resp.Conflicts[0].ServerVersion)
}

func TestResolveConflict_ValidationStatuses(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{"client wins rejected", service.ErrClientWinsNotSupported, http.StatusBadRequest},
		{"unknown resolution", service.ErrValidationUnknownResolution, http.StatusBadRequest},
		{"missing merged data", service.ErrValidationMergedDataMissing, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			syncSvc := mock.NewMockSyncService(ctrl)
			h := newHandlerWithSyncService(syncSvc)

			syncSvc.EXPECT().
				ResolveConflict(gomock.Any(), "user-1", gomock.Any(), gomock.Any()).
				Return(models.ResolveConflictResponse{}, tt.serviceErr)

			req := jsonRequest(t, http.MethodPost, "/api/v1/sync/resolve-conflict", models.ResolveConflictRequest{})
			req = req.WithContext(withIdentity(req.Context(), "user-1", ""))

			rr := httptest.NewRecorder()
			h.resolveConflict(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}

func TestBulkMigrate(t *testing.T) {
	ctrl := gomock.NewController(t)
	syncSvc := mock.NewMockSyncService(ctrl)
	h := newHandlerWithSyncService(syncSvc)

	syncSvc.EXPECT().
		BulkMigrate(gomock.Any(), "user-1", gomock.Any(), gomock.Any()).
		Return(models.BulkMigrateResponse{TotalProcessed: 2, TotalErrors: 1}, nil)

	req := jsonRequest(t, http.MethodPost, "/api/v1/sync/bulk-migrate", models.BulkMigrateRequest{})
	req = req.WithContext(withIdentity(req.Context(), "user-1", ""))

	rr := httptest.NewRecorder()
	h.bulkMigrate(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp models.BulkMigrateResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.TotalProcessed)
	assert.Equal(t, 1, resp.TotalErrors)
}
