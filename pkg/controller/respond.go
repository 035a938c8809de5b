package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"contractscanner/pkg/logger"
	"contractscanner/pkg/serrors"

	"go.uber.org/zap"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// WriteJSON encodes v with the given status code.
func WriteJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn(ctx, "could not encode response", zap.Error(err))
	}
}

// WriteError maps the kind of err to a status code and writes an ErrorBody.
// Errors without a known kind are reported as internal errors without details.
func WriteError(ctx context.Context, w http.ResponseWriter, err error) {
	status, kind := StatusOf(err)
	body := ErrorBody{Error: serrors.MessageOf(err), Kind: kind}
	if status == http.StatusInternalServerError {
		logger.Error(ctx, "request failed", zap.Error(err))
		body.Error = http.StatusText(status)
	}

	WriteJSON(ctx, w, status, body)
}

// StatusOf returns the HTTP status and kind name for err.
func StatusOf(err error) (int, string) {
	var se *serrors.Error
	if !errors.As(err, &se) || se.Kind() == nil {
		return http.StatusInternalServerError, ""
	}

	kind := se.Kind()
	switch kind {
	case serrors.ErrValidation:
		return http.StatusBadRequest, kind.Error()
	case serrors.ErrNotFound:
		return http.StatusNotFound, kind.Error()
	case serrors.ErrUnauthorized:
		return http.StatusUnauthorized, kind.Error()
	case serrors.ErrTransport, serrors.ErrUpstream:
		return http.StatusBadGateway, kind.Error()
	default:
		return http.StatusInternalServerError, ""
	}
}
