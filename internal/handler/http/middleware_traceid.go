package http

import (
	"net/http"

	"github.com/google/uuid"
)

// traceIDHeader is echoed back on every response. Clients may supply their
// own value to correlate a request chain across retries.
const traceIDHeader = "X-Trace-ID"

// withTraceID tags the request-scoped logger with a trace id and mirrors
// the id into the response headers. Requests arriving without one get a
// server-minted uuid.
func (h *Handler) withTraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(traceIDHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}
		w.Header().Set(traceIDHeader, traceID)

		scoped := h.logger.With().Str("trace_id", traceID).Logger()
		next.ServeHTTP(w, r.WithContext(scoped.WithContext(r.Context())))
	})
}
