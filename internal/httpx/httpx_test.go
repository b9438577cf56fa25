package httpx

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-region-directory/internal/apperr"
)

func TestWriteError(t *testing.T) {
	logger := zap.NewNop().Sugar()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"validation", apperr.Validation("Missing fields"), http.StatusBadRequest, "Missing fields"},
		{"conflict", apperr.Conflict("Create failed (maybe duplicate key?)", errors.New("unique")), http.StatusBadRequest, "Create failed (maybe duplicate key?)"},
		{"unauthorized", apperr.Unauthorized("invalid token"), http.StatusUnauthorized, "invalid token"},
		{"not found", apperr.NotFound("region not found"), http.StatusNotFound, "region not found"},
		{"internal hides cause", apperr.Internal("select", errors.New("dial tcp: refused")), http.StatusInternalServerError, "Failed to fetch regions"},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, "Failed to fetch regions"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(w, logger, tt.err, "Failed to fetch regions")
			assert.Equal(t, tt.wantStatus, w.Code)
			var body ErrorBody
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			assert.Equal(t, tt.wantMsg, body.Error)
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		City string `json:"city"`
	}

	t.Run("valid", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"city":"Tyre"}`))
		var p payload
		require.NoError(t, DecodeJSON(r, &p))
		assert.Equal(t, "Tyre", p.City)
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"city":"Tyre","admin":true}`))
		var p payload
		err := DecodeJSON(r, &p)
		assert.True(t, apperr.Is(err, apperr.KindValidation))
	})

	t.Run("empty body", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", http.NoBody)
		var p payload
		err := DecodeJSON(r, &p)
		assert.True(t, apperr.Is(err, apperr.KindValidation))
	})

	t.Run("trailing value rejected", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"city":"a"}{"city":"b"}`))
		var p payload
		assert.Error(t, DecodeJSON(r, &p))
	})

	t.Run("oversized body", func(t *testing.T) {
		big := `{"city":"` + strings.Repeat("x", maxBodyBytes) + `"}`
		r := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(big))
		var p payload
		assert.Error(t, DecodeJSON(r, &p))
	})
}
