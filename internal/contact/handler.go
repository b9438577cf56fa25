package contact

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-region-directory/internal/contact/entity"
	"github.com/ovaphlow/pitchfork/service-region-directory/internal/httpx"
)

type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(svc *Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var in entity.MessageInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.WriteError(w, h.logger, err, "Failed to send message")
		return
	}
	id, err := h.svc.Submit(r.Context(), in)
	if err != nil {
		httpx.WriteError(w, h.logger, err, "Failed to send message")
		return
	}
	h.logger.Infow("contact message received", "id", id)
	httpx.WriteJSON(w, http.StatusOK, httpx.OK{OK: true, ID: id})
}

// List is admin only; the router mounts it behind the session gate.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.svc.List(r.Context())
	if err != nil {
		httpx.WriteError(w, h.logger, err, "Failed to fetch messages")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, msgs)
}
