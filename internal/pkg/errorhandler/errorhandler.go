package errorhandler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/quizhub/quizhub-api/internal/pkg/response"
)

// HandleError logs an error with request context and sends a formatted
// error response carrying the underlying error text.
func HandleError(ctx context.Context, w http.ResponseWriter, status int, code, message string, err error) {
	event := log.Error().
		Str("request_id", getRequestID(ctx)).
		Str("error_code", code).
		Str("error_message", message).
		Int("status_code", status)

	if err != nil {
		event.Err(err)
	}

	event.Msg("Request error")

	response.ErrorWithError(w, status, code, message, err)
}

// HandlePanicError logs a recovered panic with its stack trace and sends
// a 500 response.
func HandlePanicError(ctx context.Context, w http.ResponseWriter, panicErr interface{}, stackTrace string) {
	log.Error().
		Str("request_id", getRequestID(ctx)).
		Interface("panic_error", panicErr).
		Str("panic_stack", stackTrace).
		Msg("Request panic error")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)

	resp := response.Response{
		Success: false,
		Error: &response.ErrorInfo{
			Code:    "PANIC_ERROR",
			Message: "Internal server panic",
		},
	}

	json.NewEncoder(w).Encode(resp)
}

// LogExternalServiceError logs a failed call to an external service
func LogExternalServiceError(ctx context.Context, service string, endpoint string, statusCode int, err error, body string) {
	log.Error().
		Str("request_id", getRequestID(ctx)).
		Str("external_service", service).
		Str("endpoint", endpoint).
		Int("status_code", statusCode).
		Err(err).
		Str("response_body", truncateString(body, 1000)).
		Msg("External service error")
}

func getRequestID(ctx context.Context) string {
	if reqID := ctx.Value("request_id"); reqID != nil {
		if id, ok := reqID.(string); ok {
			return id
		}
	}
	return "unknown"
}

func truncateString(s string, maxLen int) string {
	if len(s) > maxLen {
		return s[:maxLen] + "...<truncated>"
	}
	return s
}
