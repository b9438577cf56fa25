package region

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-region-directory/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-region-directory/internal/httpx"
	"github.com/ovaphlow/pitchfork/service-region-directory/internal/region/entity"
	"github.com/ovaphlow/pitchfork/service-region-directory/internal/session"
)

// Handler exposes the public region list and the admin CRUD endpoints.
type Handler struct {
	dir    *Directory
	logger *zap.SugaredLogger
}

func NewHandler(dir *Directory, logger *zap.SugaredLogger) *Handler {
	return &Handler{dir: dir, logger: logger}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	regions, err := h.dir.List(r.Context())
	if err != nil {
		httpx.WriteError(w, h.logger, err, "Failed to fetch regions")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, regions)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in entity.RegionInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.WriteError(w, h.logger, err, "Create failed")
		return
	}
	reg, err := h.dir.Create(r.Context(), in)
	if err != nil {
		httpx.WriteError(w, h.logger, err, "Create failed")
		return
	}
	h.logger.Infow("region created", "id", reg.ID, "key", reg.Key, "admin_id", adminID(r))
	httpx.WriteJSON(w, http.StatusOK, reg)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var in entity.RegionInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.WriteError(w, h.logger, err, "Update failed")
		return
	}
	reg, err := h.dir.Update(r.Context(), id, in)
	if err != nil {
		httpx.WriteError(w, h.logger, err, "Update failed")
		return
	}
	h.logger.Infow("region updated", "id", reg.ID, "admin_id", adminID(r))
	httpx.WriteJSON(w, http.StatusOK, reg)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if err := h.dir.Delete(r.Context(), id); err != nil {
		httpx.WriteError(w, h.logger, err, "Delete failed")
		return
	}
	h.logger.Infow("region deleted", "id", id, "admin_id", adminID(r))
	httpx.WriteJSON(w, http.StatusOK, httpx.OK{OK: true})
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.WriteError(w, h.logger, apperr.Validation("Invalid id"), "Invalid id")
		return 0, false
	}
	return id, true
}

func adminID(r *http.Request) int64 {
	if c := session.ClaimsFromContext(r.Context()); c != nil {
		return c.AdminID
	}
	return 0
}
