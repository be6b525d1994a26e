package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/nameready/nameready/internal/domain"
)

// ErrorResponse writes an error response to the client. It maps domain error
// codes to HTTP status codes; internal detail is logged server-side only and
// never leaks into the response body.
func ErrorResponse(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	code := domain.ErrorCode(err)
	message := domain.ErrorMessage(err)
	status := ErrorCodeToHTTPStatus(code)

	logError(logger, r, err, code, status)

	writeJSON(w, status, CheckResponse{
		Success: false,
		Error:   message,
	})
}

// ErrorCodeToHTTPStatus maps domain error codes to HTTP status codes.
// Configuration and upstream failures never reach this layer as errors (the
// checker folds them into results), so anything but a validation or
// rate-limit error is a server fault.
func ErrorCodeToHTTPStatus(code string) int {
	switch code {
	case domain.EINVALID:
		return http.StatusBadRequest // 400
	case domain.ERATELIMIT:
		return http.StatusTooManyRequests // 429
	default:
		return http.StatusInternalServerError // 500
	}
}

func logError(logger *slog.Logger, r *http.Request, err error, code string, status int) {
	attrs := []any{
		"error", err.Error(),
		"code", code,
		"status", status,
		"method", r.Method,
		"path", r.URL.Path,
	}

	if status >= 500 {
		logger.Error("request error", attrs...)
	} else {
		logger.Info("request error", attrs...)
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
