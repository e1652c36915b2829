package handler

import (
	"context"
	"errors"
	"net/http"

	"mgnrega-api/internal/apperror"
	"mgnrega-api/internal/catalog"
	"mgnrega-api/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// kindStatus maps failure kinds to HTTP status codes.
var kindStatus = map[apperror.Kind]int{
	apperror.KindInvalidInput:        http.StatusBadRequest,
	apperror.KindNoAddressData:       http.StatusNotFound,
	apperror.KindTimeout:             http.StatusGatewayTimeout,
	apperror.KindProviderUnreachable: http.StatusBadGateway,
	apperror.KindProviderError:       http.StatusBadGateway,
	apperror.KindSummaryFetchFailed:  http.StatusBadGateway,
	apperror.KindSeriesFetchFailed:   http.StatusBadGateway,
	apperror.KindBothFetchesFailed:   http.StatusBadGateway,
	apperror.KindDeviceUnavailable:   http.StatusUnprocessableEntity,
	apperror.KindPermissionDenied:    http.StatusUnprocessableEntity,
	apperror.KindPositionUnavailable: http.StatusUnprocessableEntity,
}

// isNotFound reports whether the backend said the district does not exist.
func isNotFound(err error) bool {
	if errors.Is(err, repository.ErrNotFound) {
		return true
	}
	var statusErr *catalog.StatusError
	return errors.As(err, &statusErr) && statusErr.Code == http.StatusNotFound
}

// statusOf picks the HTTP status for err.
func statusOf(err error) (int, string) {
	if isNotFound(err) {
		return http.StatusNotFound, "not_found"
	}
	if errors.Is(err, repository.ErrAmbiguous) {
		return http.StatusConflict, "ambiguous_district"
	}
	kind := apperror.KindOf(err)
	if status, ok := kindStatus[kind]; ok {
		return status, string(kind)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout, string(apperror.KindTimeout)
	}
	return http.StatusInternalServerError, "internal"
}

// respondError writes err as an ErrorResponse. Internal failures are logged but not echoed.
func respondError(c *gin.Context, err error) {
	status, kind := statusOf(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal server error"
	}

	l := zerolog.Ctx(c.Request.Context())
	if status >= http.StatusInternalServerError {
		l.Error().Err(err).Str("kind", kind).Msg("request failed")
	} else {
		l.Debug().Err(err).Str("kind", kind).Msg("request failed")
	}

	_ = c.Error(err)
	c.JSON(status, ErrorResponse{Error: msg, Kind: kind})
}
