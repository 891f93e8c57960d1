package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/BinGess/Ocean-backend/internal/adapter"
	"github.com/BinGess/Ocean-backend/internal/logger"
	"github.com/BinGess/Ocean-backend/internal/service"
	"github.com/BinGess/Ocean-backend/internal/utils"
	"github.com/BinGess/Ocean-backend/models"
)

func (h *Handler) analyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, _, ok := identityFromContext(ctx)
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var req models.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	resp, err := h.services.AIService.Analyze(ctx, userID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDataProvided):
			log.Err(err).Msg("invalid data provided")
			http.Error(w, "invalid data provided", http.StatusBadRequest)
			return
		case errors.Is(err, adapter.ErrUpstreamUnavailable), errors.Is(err, adapter.ErrUpstreamRejected):
			log.Err(err).Msg("upstream analysis provider failed")
			http.Error(w, "analysis provider unavailable", http.StatusBadGateway)
			return
		default:
			log.Err(err).Msg("analysis failed")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
	}

	_, _ = utils.WriteJSON(w, resp, http.StatusOK)
}
