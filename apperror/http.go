package apperror

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/samber/oops"
)

// WriteJSON serializes `data` to JSON and writes it with the given `status`.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Avoid writing nil, which would result in a "null" response body
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode response", "error", err)
		}
	}
}

// WriteError converts any error into a standardized ErrorResponse.
// Errors that are not already *AppError become a generic InternalError so their text
// never reaches the client. 5xx errors are logged server-side with full detail.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := FromError(err)
	if !ok {
		appErr = NewInternalError("an unexpected error occurred", err)
	}

	if appErr.IsServerError() {
		LogError(r, appErr)
	}

	WriteJSON(w, appErr.StatusCode(), appErr.ToResponse())
}

// LogError logs a server-side failure with the request id and, when the chain
// carries an oops error, its code and context.
func LogError(r *http.Request, appErr *AppError) {
	attrs := []any{
		"method", r.Method,
		"path", r.URL.Path,
		"status", appErr.StatusCode(),
		"error", appErr.Error(),
	}
	if reqID := middleware.GetReqID(r.Context()); reqID != "" {
		attrs = append(attrs, "request_id", reqID)
	}
	if oopsErr, ok := oops.AsOops(appErr.Err); ok {
		if code := oopsErr.Code(); code != nil {
			attrs = append(attrs, "code", code)
		}
		if ctx := oopsErr.Context(); len(ctx) > 0 {
			attrs = append(attrs, "context", ctx)
		}
	}
	slog.ErrorContext(r.Context(), appErr.Message, attrs...)
}
