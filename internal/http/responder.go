package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/goutamiuppu/calendar-assistant/internal/application"
)

var (
	errBadRequestBody     = errors.New("invalid request body")
	errInvalidEmployeeID  = errors.New("invalid employee id")
	errMissingOwnerID     = errors.New("missing required parameter: ownerId")
	errInvalidDuration    = errors.New("invalid value for parameter: durationMinutes")
	errMissingEmployeeIDs = errors.New("missing required parameter: employee1Id or employee2Id")
)

// errorResponse is the structured failure payload shared by every endpoint.
type errorResponse struct {
	Timestamp string            `json:"timestamp"`
	Status    int               `json:"status"`
	Error     string            `json:"error"`
	Message   string            `json:"message"`
	Details   map[string]string `json:"details,omitempty"`
}

type responder struct {
	logger *slog.Logger
	now    func() time.Time
}

func newResponder(logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger, now: time.Now}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	r.writeErrorDetails(ctx, w, status, err, nil)
}

func (r responder) writeErrorDetails(ctx context.Context, w http.ResponseWriter, status int, err error, details map[string]string) {
	message := http.StatusText(status)
	if err != nil {
		if msg := clientMessage(err); msg != "" {
			message = msg
		}
		r.loggerFor(ctx).ErrorContext(ctx, "request failed", "status", status, "error", err)
	}

	r.writeJSON(ctx, w, status, errorResponse{
		Timestamp: r.now().Format(time.RFC3339),
		Status:    status,
		Error:     http.StatusText(status),
		Message:   message,
		Details:   details,
	})
}

// handleServiceError maps application failures onto the external error
// surface. Missing employee records fold into the bad-request class alongside
// validation failures; only genuinely unexpected errors become 500s, with a
// generic message so internals never leak.
func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		r.writeError(ctx, w, http.StatusInternalServerError, errors.New("unknown error"))
		return
	}

	var vErr *application.ValidationError
	switch {
	case errors.As(err, &vErr):
		details := vErr.FieldErrors
		if len(details) == 0 {
			details = nil
		}
		r.writeErrorDetails(ctx, w, http.StatusBadRequest, errors.New("validation failed"), details)
	case errors.Is(err, application.ErrNotFound):
		r.writeError(ctx, w, http.StatusBadRequest, err)
	default:
		r.loggerFor(ctx).ErrorContext(ctx, "unexpected service error", "error", err)
		r.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{
			Timestamp: r.now().Format(time.RFC3339),
			Status:    http.StatusInternalServerError,
			Error:     http.StatusText(http.StatusInternalServerError),
			Message:   "An unexpected error occurred. Please try again later.",
		})
	}
}

// clientMessage renders an error for response bodies. Wrapped sentinel text
// stays internal: "owner not found with id x: application: not found" becomes
// "owner not found with id x".
func clientMessage(err error) string {
	msg := strings.TrimSpace(err.Error())
	sentinel := application.ErrNotFound.Error()
	if msg == sentinel {
		return "not found"
	}
	return strings.TrimSuffix(msg, ": "+sentinel)
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := LoggerFromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}
