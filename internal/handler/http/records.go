package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/BinGess/Ocean-backend/internal/logger"
	"github.com/BinGess/Ocean-backend/internal/utils"
	"github.com/BinGess/Ocean-backend/models"
)

const (
	defaultListLimit   = 50
	maxListLimit       = 200
	defaultRecentLimit = 10
)

func (h *Handler) createRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, deviceID, ok := identityFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var fields models.RecordFields
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	record, err := h.services.RecordsService.Create(ctx, userID, deviceID, fields)
	if err != nil {
		log.Err(err).Msg("failed to create record")
		http.Error(w, http.StatusText(statusFromError(err)), statusFromError(err))
		return
	}

	_, _ = utils.WriteJSON(w, record, http.StatusCreated)
}

func (h *Handler) getRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, _, ok := identityFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	record, err := h.services.RecordsService.Get(ctx, userID, chi.URLParam(r, "id"))
	if err != nil {
		log.Err(err).Msg("failed to load record")
		http.Error(w, http.StatusText(statusFromError(err)), statusFromError(err))
		return
	}

	_, _ = utils.WriteJSON(w, record, http.StatusOK)
}

func (h *Handler) listRecords(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, _, ok := identityFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	query, err := parseRecordQuery(r)
	if err != nil {
		log.Err(err).Msg("invalid list query")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	records, err := h.services.RecordsService.List(ctx, userID, query)
	if err != nil {
		log.Err(err).Msg("failed to list records")
		http.Error(w, http.StatusText(statusFromError(err)), statusFromError(err))
		return
	}

	_, _ = utils.WriteJSON(w, records, http.StatusOK)
}

func (h *Handler) recentRecords(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, _, ok := identityFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	query := models.RecordQuery{Limit: defaultRecentLimit}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= maxListLimit {
			query.Limit = parsed
		}
	}

	records, err := h.services.RecordsService.List(ctx, userID, query)
	if err != nil {
		log.Err(err).Msg("failed to list recent records")
		http.Error(w, http.StatusText(statusFromError(err)), statusFromError(err))
		return
	}

	_, _ = utils.WriteJSON(w, records, http.StatusOK)
}

func (h *Handler) recordsByIDs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, _, ok := identityFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var ids []string
	if raw := r.URL.Query().Get("ids"); raw != "" {
		ids = strings.Split(raw, ",")
	}

	records, err := h.services.RecordsService.ByIDs(ctx, userID, ids)
	if err != nil {
		log.Err(err).Msg("failed to load records by ids")
		http.Error(w, http.StatusText(statusFromError(err)), statusFromError(err))
		return
	}

	_, _ = utils.WriteJSON(w, records, http.StatusOK)
}

func (h *Handler) searchRecords(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, _, ok := identityFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	limit, offset := parsePagination(r)
	records, err := h.services.RecordsService.Search(ctx, userID, r.URL.Query().Get("q"), limit, offset)
	if err != nil {
		log.Err(err).Msg("search failed")
		http.Error(w, http.StatusText(statusFromError(err)), statusFromError(err))
		return
	}

	_, _ = utils.WriteJSON(w, records, http.StatusOK)
}

func (h *Handler) updateRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, deviceID, ok := identityFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var patch models.RecordPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	record, err := h.services.RecordsService.Update(ctx, userID, chi.URLParam(r, "id"), patch, deviceID)
	if err != nil {
		log.Err(err).Msg("failed to update record")
		http.Error(w, http.StatusText(statusFromError(err)), statusFromError(err))
		return
	}

	_, _ = utils.WriteJSON(w, record, http.StatusOK)
}

func (h *Handler) deleteRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, deviceID, ok := identityFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	if err := h.services.RecordsService.Delete(ctx, userID, chi.URLParam(r, "id"), deviceID); err != nil {
		log.Err(err).Msg("failed to delete record")
		http.Error(w, http.StatusText(statusFromError(err)), statusFromError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func parseRecordQuery(r *http.Request) (models.RecordQuery, error) {
	values := r.URL.Query()

	query := models.RecordQuery{
		Type:      values.Get("type"),
		WeekRange: values.Get("weekRange"),
	}
	query.Limit, query.Offset = parsePagination(r)

	if raw := values.Get("startDate"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return models.RecordQuery{}, err
		}
		query.StartDate = &parsed
	}
	if raw := values.Get("endDate"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return models.RecordQuery{}, err
		}
		query.EndDate = &parsed
	}

	if raw := values.Get("moods"); raw != "" {
		query.Moods = strings.Split(raw, ",")
	}
	if raw := values.Get("needs"); raw != "" {
		query.Needs = strings.Split(raw, ",")
	}

	return query, nil
}

func parsePagination(r *http.Request) (limit, offset int) {
	limit = defaultListLimit

	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	if raw := r.URL.Query().Get("offset"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			offset = parsed
		}
	}

	return limit, offset
}
