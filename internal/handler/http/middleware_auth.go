// Package http implements the HTTP transport layer of the application.
// It provides middleware, route handlers, and request/response utilities
// for the REST API. Authentication, logging, tracing, and compression
// concerns are all handled at this layer before requests are forwarded to
// the service layer.
package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/BinGess/Ocean-backend/internal/logger"
	"github.com/BinGess/Ocean-backend/internal/service"
	"github.com/BinGess/Ocean-backend/internal/utils"
)

// deviceIDHeader lets a client identify the calling device explicitly.
// When present it overrides the deviceId claim of the access token.
const deviceIDHeader = "X-Device-Id"

// auth is an HTTP middleware that enforces JWT-based authentication.
//
// It inspects the incoming "Authorization" header, extracts the bearer token,
// validates it via [service.AuthService.ParseToken], and on success stores
// the authenticated user's id under [utils.UserIDCtxKey] and the calling
// device's id under [utils.DeviceIDCtxKey] before delegating to the next
// handler.
//
// Requests are rejected with HTTP 401 Unauthorized when the header is
// absent, malformed, or the token is expired or otherwise invalid.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Err(ErrEmptyAuthorizationHeader).Send()
			http.Error(w, ErrEmptyAuthorizationHeader.Error(), http.StatusUnauthorized)
			return
		}

		tokenString, err := getTokenFromAuthHeader(authHeader)
		if err != nil {
			log.Err(err).Send()
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		ctx := r.Context()
		token, err := h.services.AuthService.ParseToken(ctx, tokenString)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrTokenIsExpired):
				log.Err(err).Msg("token expired")
				http.Error(w, service.ErrTokenIsExpired.Error(), http.StatusUnauthorized)
				return
			default:
				log.Err(err).Msg("error occurred during parsing token")
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
		}

		ctx = context.WithValue(ctx, utils.UserIDCtxKey, token.UserID)

		deviceID := r.Header.Get(deviceIDHeader)
		if deviceID == "" {
			deviceID = token.DeviceID
		}
		if deviceID != "" {
			ctx = context.WithValue(ctx, utils.DeviceIDCtxKey, deviceID)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// getTokenFromAuthHeader extracts the bearer token string from a raw
// "Authorization" HTTP header value of the standard form
// "Authorization: <scheme> <token>".
func getTokenFromAuthHeader(authHeader string) (string, error) {
	parts := strings.Split(authHeader, " ")
	if len(parts) < 2 {
		return "", ErrInvalidAuthorizationHeader
	}

	tokenString := parts[1]
	if tokenString == "" {
		return "", ErrEmptyToken
	}

	return tokenString, nil
}

// identityFromContext returns the authenticated user id and the optional
// device id attribution for the current request.
func identityFromContext(ctx context.Context) (string, *string, bool) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return "", nil, false
	}

	if deviceID, found := utils.GetDeviceIDFromContext(ctx); found {
		return userID, &deviceID, true
	}
	return userID, nil, true
}
