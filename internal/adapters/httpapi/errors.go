package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/nullable"

	"github.com/isail-maritime/crew-rotation-api/internal/app/assignments"
	"github.com/isail-maritime/crew-rotation-api/internal/app/matches"
	"github.com/isail-maritime/crew-rotation-api/internal/app/users"
)

// ErrorBody is the payload of every non-2xx JSON response.
type ErrorBody struct {
	Code      string                            `json:"code"`
	Message   string                            `json:"message"`
	Details   nullable.Nullable[map[string]any] `json:"details,omitempty"`
	RequestId nullable.Nullable[string]         `json:"requestId,omitempty"`
}

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

func newErrorResponse(ctx context.Context, code string, message string, details map[string]any) ErrorResponse {
	var er ErrorResponse
	er.Error.Code = code
	er.Error.Message = message
	if details != nil {
		er.Error.Details = nullable.NewNullableWithValue(details)
	}
	if rid := middleware.GetReqID(ctx); rid != "" {
		er.Error.RequestId = nullable.NewNullableWithValue(rid)
	}
	return er
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code string, message string, details map[string]any) {
	writeJSON(w, status, newErrorResponse(r.Context(), code, message, details))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeAppError maps service errors onto the error envelope. Anything that is not an
// application error is logged and reported as a 500.
func writeAppError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var (
		ue *users.Error
		ae *assignments.Error
		me *matches.Error
	)
	switch {
	case errors.As(err, &ue):
		writeError(w, r, ue.Status, ue.Code, ue.Message, ue.Details)
	case errors.As(err, &ae):
		writeError(w, r, ae.Status, ae.Code, ae.Message, ae.Details)
	case errors.As(err, &me):
		writeError(w, r, me.Status, me.Code, me.Message, me.Details)
	default:
		logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()),
			"error", err)
		writeError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "internal error", nil)
	}
}

func writeUnauthorized(w http.ResponseWriter, r *http.Request, message string) {
	writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", message, nil)
}

func writeValidation(w http.ResponseWriter, r *http.Request, message string, details map[string]any) {
	writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", message, details)
}
