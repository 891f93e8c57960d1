package http

import (
	"encoding/json"
	"net/http"

	"github.com/BinGess/Ocean-backend/internal/logger"
	"github.com/BinGess/Ocean-backend/internal/utils"
	"github.com/BinGess/Ocean-backend/models"
)

func (h *Handler) syncPull(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, deviceID, ok := identityFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var req models.PullRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	resp, err := h.services.SyncService.Pull(ctx, userID, deviceID, req)
	if err != nil {
		log.Err(err).Msg("pull failed")
		http.Error(w, http.StatusText(statusFromError(err)), statusFromError(err))
		return
	}

	_, _ = utils.WriteJSON(w, resp, http.StatusOK)
}

func (h *Handler) syncPush(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, deviceID, ok := identityFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var req models.PushRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	// body-level device id is a fallback for clients that cannot set headers
	if deviceID == nil && req.DeviceID != "" {
		deviceID = &req.DeviceID
	}

	resp, err := h.services.SyncService.Push(ctx, userID, deviceID, req)
	if err != nil {
		log.Err(err).Msg("push failed")
		http.Error(w, http.StatusText(statusFromError(err)), statusFromError(err))
		return
	}

	_, _ = utils.WriteJSON(w, resp, http.StatusOK)
}

func (h *Handler) resolveConflict(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, deviceID, ok := identityFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var req models.ResolveConflictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	resp, err := h.services.SyncService.ResolveConflict(ctx, userID, deviceID, req)
	if err != nil {
		log.Err(err).Msg("conflict resolution failed")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	_, _ = utils.WriteJSON(w, resp, http.StatusOK)
}

func (h *Handler) bulkMigrate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, deviceID, ok := identityFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var req models.BulkMigrateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	resp, err := h.services.SyncService.BulkMigrate(ctx, userID, deviceID, req)
	if err != nil {
		log.Err(err).Msg("bulk migrate failed")
		http.Error(w, http.StatusText(statusFromError(err)), statusFromError(err))
		return
	}

	_, _ = utils.WriteJSON(w, resp, http.StatusOK)
}
