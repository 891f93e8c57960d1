package http

import (
	"errors"
	"net/http"

	"github.com/BinGess/Ocean-backend/internal/service"
	"github.com/BinGess/Ocean-backend/internal/store"
)

var errorStatusMap = map[error]int{
	service.ErrInvalidDataProvided:          http.StatusBadRequest,
	service.ErrValidationUnknownEntityType:  http.StatusBadRequest,
	service.ErrValidationUnknownResolution:  http.StatusBadRequest,
	service.ErrValidationMergedDataMissing:  http.StatusBadRequest,
	service.ErrClientWinsNotSupported:       http.StatusBadRequest,
	service.ErrValidationUnknownRecordType:  http.StatusBadRequest,
	service.ErrValidationEmptyTranscription: http.StatusBadRequest,

	service.ErrInvalidCredentials: http.StatusUnauthorized,
	service.ErrTokenIsExpired:     http.StatusUnauthorized,
	service.ErrInvalidToken:       http.StatusUnauthorized,
	service.ErrAccountLocked:      http.StatusLocked,

	store.ErrUserAlreadyExists: http.StatusConflict,
	store.ErrUserNotFound:      http.StatusNotFound,
	store.ErrRecordNotFound:    http.StatusNotFound,
	store.ErrTokenNotFound:     http.StatusUnauthorized,
	store.ErrVersionConflict:   http.StatusConflict,

	store.ErrBuildingSQLQuery:     http.StatusInternalServerError,
	store.ErrExecutingQuery:       http.StatusInternalServerError,
	store.ErrBeginningTransaction: http.StatusInternalServerError,
	store.ErrCommitingTransaction: http.StatusInternalServerError,
	store.ErrPreparingStatement:   http.StatusInternalServerError,
	store.ErrExecutingStatement:   http.StatusInternalServerError,
	store.ErrScanningRow:          http.StatusInternalServerError,
	store.ErrScanningRows:         http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}
