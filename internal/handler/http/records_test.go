package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/BinGess/Ocean-backend/internal/logger"
	"github.com/BinGess/Ocean-backend/internal/mock"
	"github.com/BinGess/Ocean-backend/internal/service"
	"github.com/BinGess/Ocean-backend/internal/store"
	"github.com/BinGess/Ocean-backend/models"
)

func newHandlerWithRecordsService(records service.RecordsService) *Handler {
	return &Handler{
		services: &service.Services{RecordsService: records},
		logger:   logger.Nop(),
	}
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, routeCtx))
}

func TestCreateRecord(t *testing.T) {
	ctrl := gomock.NewController(t)
	recordsSvc := mock.NewMockRecordsService(ctrl)
	h := newHandlerWithRecordsService(recordsSvc)

	recordsSvc.EXPECT().
		Create(gomock.Any(), "user-1", gomock.Any(), gomock.Any()).
		Return(models.Record{ID: "rec-1", Version: 1}, nil)

	req := jsonRequest(t, http.MethodPost, "/api/v1/records", models.RecordFields{
		Type:          models.RecordTypeQuickNote,
		Transcription: "hello",
	})
	req = req.WithContext(withIdentity(req.Context(), "user-1", "phone-a"))

	rr := httptest.NewRecorder()
	h.createRecord(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)

	var created models.Record
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, "rec-1", created.ID)
	assert.Equal(t, int64(1), created.Version)
}

func TestGetRecord_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	recordsSvc := mock.NewMockRecordsService(ctrl)
	h := newHandlerWithRecordsService(recordsSvc)

	recordsSvc.EXPECT().
		Get(gomock.Any(), "user-1", "rec-gone").
		Return(models.Record{}, store.ErrRecordNotFound)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/records/rec-gone", nil)
	req = req.WithContext(withIdentity(req.Context(), "user-1", ""))
	req = withURLParam(req, "id", "rec-gone")

	rr := httptest.NewRecorder()
	h.getRecord(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestUpdateRecord_VersionConflict(t *testing.T) {
	ctrl := gomock.NewController(t)
	recordsSvc := mock.NewMockRecordsService(ctrl)
	h := newHandlerWithRecordsService(recordsSvc)

	recordsSvc.EXPECT().
		Update(gomock.Any(), "user-1", "rec-1", gomock.Any(), gomock.Any()).
		Return(models.Record{}, store.ErrVersionConflict)

	req := jsonRequest(t, http.MethodPatch, "/api/v1/records/rec-1", models.RecordPatch{Version: 2})
	req = req.WithContext(withIdentity(req.Context(), "user-1", ""))
	req = withURLParam(req, "id", "rec-1")

	rr := httptest.NewRecorder()
	h.updateRecord(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestDeleteRecord(t *testing.T) {
	ctrl := gomock.NewController(t)
	recordsSvc := mock.NewMockRecordsService(ctrl)
	h := newHandlerWithRecordsService(recordsSvc)

	recordsSvc.EXPECT().
		Delete(gomock.Any(), "user-1", "rec-1", gomock.Any()).
		Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/records/rec-1", nil)
	req = req.WithContext(withIdentity(req.Context(), "user-1", ""))
	req = withURLParam(req, "id", "rec-1")

	rr := httptest.NewRecorder()
	h.deleteRecord(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestRecentRecords(t *testing.T) {
	ctrl := gomock.NewController(t)
	recordsSvc := mock.NewMockRecordsService(ctrl)
	h := newHandlerWithRecordsService(recordsSvc)

	recordsSvc.EXPECT().
		List(gomock.Any(), "user-1", models.RecordQuery{Limit: defaultRecentLimit}).
		Return([]models.Record{{ID: "rec-1"}, {ID: "rec-2"}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/records/recent", nil)
	req = req.WithContext(withIdentity(req.Context(), "user-1", ""))

	rr := httptest.NewRecorder()
	h.recentRecords(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var records []models.Record
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &records))
	assert.Len(t, records, 2)
}

func TestRecordsByIDs(t *testing.T) {
	ctrl := gomock.NewController(t)
	recordsSvc := mock.NewMockRecordsService(ctrl)
	h := newHandlerWithRecordsService(recordsSvc)

	recordsSvc.EXPECT().
		ByIDs(gomock.Any(), "user-1", []string{"rec-1", "rec-2"}).
		Return([]models.Record{{ID: "rec-1"}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/records/by-ids?ids=rec-1,rec-2", nil)
	req = req.WithContext(withIdentity(req.Context(), "user-1", ""))

	rr := httptest.NewRecorder()
	h.recordsByIDs(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var records []models.Record
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "rec-1", records[0].ID)
}

func TestRecordsByIDs_NoIDs(t *testing.T) {
	ctrl := gomock.NewController(t)
	recordsSvc := mock.NewMockRecordsService(ctrl)
	h := newHandlerWithRecordsService(recordsSvc)

	recordsSvc.EXPECT().
		ByIDs(gomock.Any(), "user-1", nil).
		Return(nil, service.ErrInvalidDataProvided)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/records/by-ids", nil)
	req = req.WithContext(withIdentity(req.Context(), "user-1", ""))

	rr := httptest.NewRecorder()
	h.recordsByIDs(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func Test_parseRecordQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/records?type=journal&moods=calm,tired&startDate=2026-03-01T00:00:00Z&limit=500&offset=20", nil)

	query, err := parseRecordQuery(req)
	require.NoError(t, err)

	assert.Equal(t, models.RecordTypeJournal, query.Type)
	assert.Equal(t, []string{"calm", "tired"}, query.Moods)
	require.NotNil(t, query.StartDate)
	assert.Nil(t, query.EndDate)
	assert.Equal(t, maxListLimit, query.Limit, "limit is capped")
	assert.Equal(t, 20, query.Offset)
}

func Test_parseRecordQuery_BadDate(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/records?startDate=yesterday", nil)

	_, err := parseRecordQuery(req)
	require.Error(t, err)
}
