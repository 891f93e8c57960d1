package http

import (
	"net/http"

	"github.com/BinGess/Ocean-backend/internal/utils"
)

type versionResponse struct {
	Version string `json:"version"`
}

func (h *Handler) getVersion(w http.ResponseWriter, _ *http.Request) {
	_, _ = utils.WriteJSON(w, versionResponse{Version: h.version}, http.StatusOK)
}
