package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"eps-portal/internal/apperrors"
	"eps-portal/internal/models"
	"eps-portal/internal/validation"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(data)
}

// writeError maps err onto a status code and a {"detail": ...} body. Server
// faults are logged at error level, client errors at debug.
func writeError(w http.ResponseWriter, r *http.Request, logr *zap.Logger, err error) {
	status := apperrors.HTTPStatus(err)

	fields := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		logr.Error("request failed", fields...)
	} else {
		logr.Debug("request rejected", fields...)
	}

	var verr *validation.RequestValidationError
	if errors.As(err, &verr) {
		writeJSON(w, status, models.ErrorResponse{Detail: verr.Fields})
		return
	}
	writeJSON(w, status, models.ErrorResponse{Detail: err.Error()})
}

// decodeAndValidate reads a JSON body into dst and runs its validate tags.
func decodeAndValidate(r *http.Request, dst any) error {
	if r.Body == nil {
		return fmt.Errorf("%w: request body is required", apperrors.ErrValidation)
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", apperrors.ErrValidation, err)
	}
	return validation.Struct(dst)
}

func pathInt64(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer, got %q", apperrors.ErrValidation, name, raw)
	}
	return id, nil
}

func pathUUID(r *http.Request, name string) (string, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %s must be a UUID, got %q", apperrors.ErrValidation, name, raw)
	}
	return id.String(), nil
}
