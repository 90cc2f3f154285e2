package errorhandler

import (
	"context"
	"errors"
	"net/http"

	"github.com/cinebook/cinebook-gateway/internal/pkg/backend"
	"github.com/cinebook/cinebook-gateway/internal/pkg/logger"
	"github.com/cinebook/cinebook-gateway/internal/pkg/response"
)

// HandleError logs err and sends a formatted error response
func HandleError(ctx context.Context, w http.ResponseWriter, status int, code, message string, err error) {
	event := logger.FromContext(ctx).Error().
		Str("error_code", code).
		Int("status_code", status)
	if err != nil {
		event = event.Err(err)
	}
	event.Msg(message)

	response.Error(w, status, code, message)
}

// LogValidationError logs field errors at warn level
func LogValidationError(ctx context.Context, fieldErrors map[string]string) {
	logger.FromContext(ctx).Warn().
		Interface("validation_errors", fieldErrors).
		Msg("Validation error")
}

// LogExternalServiceError logs errors from external service calls
func LogExternalServiceError(ctx context.Context, service, endpoint string, statusCode int, err error) {
	logger.FromContext(ctx).Error().
		Str("external_service", service).
		Str("endpoint", endpoint).
		Int("status_code", statusCode).
		Err(err).
		Msg("External service error")
}

// Upstream translates a booking-backend failure into a gateway response.
// Backend 4xx answers keep their status and their detail text verbatim;
// 5xx answers and transport failures become 502 (504 on timeout).
func Upstream(ctx context.Context, w http.ResponseWriter, endpoint string, err error) {
	UpstreamWithDetails(ctx, w, endpoint, err, nil)
}

// UpstreamWithDetails is Upstream with extra details attached to the error body.
func UpstreamWithDetails(ctx context.Context, w http.ResponseWriter, endpoint string, err error, details map[string]string) {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		LogExternalServiceError(ctx, "booking-backend", endpoint, apiErr.Status, err)
		if apiErr.Status >= 400 && apiErr.Status < 500 {
			response.ErrorWithDetails(w, apiErr.Status, codeFor(apiErr.Status), apiErr.Detail, details)
			return
		}
		response.ErrorWithDetails(w, http.StatusBadGateway, "UPSTREAM_ERROR", apiErr.Detail, details)
		return
	}

	var te *backend.TransportError
	if errors.As(err, &te) {
		LogExternalServiceError(ctx, "booking-backend", endpoint, 0, err)
		if te.Kind == "timeout" {
			response.ErrorWithDetails(w, http.StatusGatewayTimeout, "UPSTREAM_TIMEOUT", "The booking service took too long to respond, please try again", details)
			return
		}
		response.ErrorWithDetails(w, http.StatusBadGateway, "UPSTREAM_ERROR", "The booking service is unreachable, please try again", details)
		return
	}

	HandleError(ctx, w, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred", err)
}

func codeFor(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "BAD_REQUEST"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusConflict:
		return "CONFLICT"
	case http.StatusUnprocessableEntity:
		return "VALIDATION_ERROR"
	default:
		return "UPSTREAM_REJECTED"
	}
}
