package favorite

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-region-directory/internal/httpx"
)

// ClientIDHeader scopes every favorites request.
const ClientIDHeader = "x-client-id"

type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(svc *Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

type AddRequest struct {
	City string `json:"city"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	favs, err := h.svc.List(r.Context(), r.Header.Get(ClientIDHeader))
	if err != nil {
		httpx.WriteError(w, h.logger, err, "Failed to fetch favorites")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, favs)
}

func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	var req AddRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, h.logger, err, "Failed to save favorite")
		return
	}
	if err := h.svc.Add(r.Context(), r.Header.Get(ClientIDHeader), req.City); err != nil {
		httpx.WriteError(w, h.logger, err, "Failed to save favorite")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, httpx.OK{OK: true})
}

func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Remove(r.Context(), r.Header.Get(ClientIDHeader), r.URL.Query().Get("city")); err != nil {
		httpx.WriteError(w, h.logger, err, "Failed to remove favorite")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, httpx.OK{OK: true})
}
