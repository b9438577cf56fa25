// Package httpx holds the JSON request/response helpers shared by handlers.
package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-region-directory/internal/apperr"
)

const maxBodyBytes = 1 << 20

// ErrorBody is the shape of every error response.
type ErrorBody struct {
	Error string `json:"error"`
}

// OK is the acknowledgement body used by write endpoints.
type OK struct {
	OK bool  `json:"ok"`
	ID int64 `json:"id,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps err to a status through apperr. Internal errors are logged
// with their cause and answered with fallback so no detail leaks.
func WriteError(w http.ResponseWriter, logger *zap.SugaredLogger, err error, fallback string) {
	var ae *apperr.Error
	if errors.As(err, &ae) && ae.Kind != apperr.KindInternal {
		if ae.Cause != nil {
			logger.Debugw("request rejected", "kind", ae.Kind.String(), "err", ae.Cause)
		}
		WriteJSON(w, ae.Kind.Status(), ErrorBody{Error: ae.Message})
		return
	}
	logger.Errorw(fallback, "err", err)
	WriteJSON(w, http.StatusInternalServerError, ErrorBody{Error: fallback})
}

// DecodeJSON reads exactly one JSON value into dst, rejecting unknown fields
// and bodies over 1 MiB. Failures come back as validation errors.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.Validation("Missing fields")
		}
		return &apperr.Error{Kind: apperr.KindValidation, Message: "invalid payload", Cause: err}
	}
	if dec.More() {
		return apperr.Validation("invalid payload")
	}
	return nil
}
