package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
)

// StatusError is implemented by errors that know their HTTP status and the message that is safe to show to clients.
type StatusError interface {
	error
	HTTPStatus() int
	PublicMessage() string
}

const internalErrorMessage = "Internal Server Error"

func RespondJSON(w http.ResponseWriter, logger *slog.Logger, status int, payload any) {
	// Handle nil payload
	if payload == nil {
		w.WriteHeader(status)
		return
	}

	response, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Error encoding response to JSON", "error", err)
		http.Error(w, internalErrorMessage, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(response)
}

func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, message string) {
	RespondJSON(w, logger, status, map[string]string{"error": message})
}

// RespondErr renders err as {"error": message}. Errors implementing StatusError choose their own status and
// message; anything else becomes a 500 with a generic message and the cause is only logged.
func RespondErr(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var se StatusError
	if errors.As(err, &se) && se.HTTPStatus() < http.StatusInternalServerError {
		logger.WarnContext(r.Context(), "Request failed", "status", se.HTTPStatus(), "error", err)
		RespondError(w, logger, se.HTTPStatus(), se.PublicMessage())
		return
	}
	logger.ErrorContext(r.Context(), "Unhandled error", "error", err)
	RespondError(w, logger, http.StatusInternalServerError, internalErrorMessage)
}

// DecodeJSON decodes the request body into dst, reading at most maxBytes.
func DecodeJSON(w http.ResponseWriter, r *http.Request, maxBytes int64, dst any) error {
	if maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

// NotFound renders unknown routes as a JSON 404.
func NotFound(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		RespondError(w, logger, http.StatusNotFound, http.StatusText(http.StatusNotFound))
	}
}

// MethodNotAllowed renders a known route hit with an unsupported method as a JSON 405.
func MethodNotAllowed(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		RespondError(w, logger, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
	}
}
