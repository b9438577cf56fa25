package admin

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-region-directory/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-region-directory/internal/httpx"
	"github.com/ovaphlow/pitchfork/service-region-directory/internal/metrics"
	"github.com/ovaphlow/pitchfork/service-region-directory/internal/session"
)

// Handler exposes the admin login endpoint.
type Handler struct {
	store  *CredentialStore
	issuer *session.Issuer
	logger *zap.SugaredLogger
}

func NewHandler(store *CredentialStore, issuer *session.Issuer, logger *zap.SugaredLogger) *Handler {
	return &Handler{store: store, issuer: issuer, logger: logger}
}

// LoginRequest login payload.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the session token.
type LoginResponse struct {
	Token string `json:"token"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.logger.Debugw("invalid login payload", "err", err)
		httpx.WriteError(w, h.logger, err, "Login failed")
		return
	}
	username := req.Username
	if username == "" || req.Password == "" {
		httpx.WriteError(w, h.logger, apperr.Validation("Missing fields"), "Login failed")
		return
	}

	a, result, err := h.store.VerifyAndUpgrade(r.Context(), username, req.Password)
	if err != nil {
		metrics.AdminLoginsTotal.WithLabelValues("error").Inc()
		httpx.WriteError(w, h.logger, err, "Login failed")
		return
	}
	metrics.AdminLoginsTotal.WithLabelValues(result.String()).Inc()
	if result != Valid {
		h.logger.Infow("admin login rejected", "username", username, "result", result.String())
		httpx.WriteError(w, h.logger, apperr.Unauthorized("Invalid credentials"), "Login failed")
		return
	}

	token, err := h.issuer.Issue(a.ID, a.Username)
	if err != nil {
		httpx.WriteError(w, h.logger, err, "Login failed")
		return
	}
	h.logger.Infow("admin logged in", "admin_id", a.ID)
	httpx.WriteJSON(w, http.StatusOK, LoginResponse{Token: token})
}
