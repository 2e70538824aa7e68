// Package respond provides utilities for sending HTTP responses in JSON format.
// It includes error handling with sanitization to prevent leaking sensitive information.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
)

// safeFragments mark error messages that may be shown to users as-is.
var safeFragments = []string{
	"required",
	"invalid",
	"not found",
	"not a valid pdf",
	"only pdf files",
	"too large",
	"too short",
	"too long",
	"out of range",
	"must be",
	"must not",
	"cannot be",
}

// JSON writes a JSON response with the given status code and data.
func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			// Log the error but cannot send error response as headers already sent
			slog.Default().Error("failed to encode JSON response",
				slog.Int("status_code", code),
				slog.Any("error", err))
		}
	}
}

// Error writes a JSON error response with the given status code and error message.
func Error(w http.ResponseWriter, code int, err error) {
	JSON(w, code, map[string]string{"error": err.Error()})
}

// Message writes a {"message": msg} body.
func Message(w http.ResponseWriter, code int, msg string) {
	JSON(w, code, map[string]string{"message": msg})
}

// IsSafe reports whether err may be returned to users verbatim with status code.
// Errors on 5xx responses are never safe.
func IsSafe(code int, err error) bool {
	if err == nil || code >= 500 {
		return false
	}
	lowerMsg := strings.ToLower(err.Error())
	for _, safe := range safeFragments {
		if strings.Contains(lowerMsg, safe) {
			return true
		}
	}
	return false
}

// SafeError sanitizes error messages before returning them to users.
// Internal errors (e.g., database errors) are returned as "internal server error",
// with details logged for debugging. Safe errors (validation errors) are returned as-is.
func SafeError(w http.ResponseWriter, code int, err error) {
	if err == nil {
		return
	}
	if IsSafe(code, err) {
		JSON(w, code, map[string]string{"error": err.Error()})
		return
	}
	// 内部エラーはログに出力し、汎用メッセージを返す
	logInternal(code, err)
	JSON(w, code, map[string]string{"error": "internal server error"})
}

// SafeMessage is SafeError for endpoints answering with {"message": ...}.
// Unsafe errors are logged and replaced by fallback. An *AppError in the chain
// decides both the status code and the message.
func SafeMessage(w http.ResponseWriter, code int, err error, fallback string) {
	if err == nil {
		return
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.Err != nil {
			slog.Default().Error("application error",
				slog.String("status", http.StatusText(appErr.Code)),
				slog.Int("code", appErr.Code),
				slog.String("user_message", appErr.UserMsg),
				slog.Any("error", SanitizeError(appErr.Err)))
		}
		Message(w, appErr.Code, appErr.UserMsg)
		return
	}

	if IsSafe(code, err) {
		Message(w, code, err.Error())
		return
	}
	logInternal(code, err)
	Message(w, code, fallback)
}

func logInternal(code int, err error) {
	// 機密情報をマスクしてログ出力
	slog.Default().Error("internal server error",
		slog.String("status", http.StatusText(code)),
		slog.Int("code", code),
		slog.Any("error", SanitizeError(err)))
}

// AppError is an error type that carries a user-facing message.
type AppError struct {
	UserMsg string // Message to display to users
	Err     error  // Internal error (logged for debugging)
	Code    int    // HTTP status code
}

// Error returns the error message, implementing the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.UserMsg
}

// Unwrap returns the underlying error, implementing the errors.Unwrap interface.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError with the given parameters.
func NewAppError(code int, userMsg string, err error) *AppError {
	return &AppError{Code: code, UserMsg: userMsg, Err: err}
}
