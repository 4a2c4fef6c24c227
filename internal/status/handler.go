package status

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/teampulse/attendance-points/internal/auth"
	"github.com/teampulse/attendance-points/internal/points"
	"github.com/teampulse/attendance-points/internal/transport"
	"github.com/teampulse/attendance-points/pkg/logger"
)

type ServiceAPI interface {
	Submit(ctx context.Context, category points.Category, dto SubmitStatusDTO) ([]*Record, error)
	List(category points.Category) ([]*Record, error)
	ListByUser(category points.Category, userID int64) ([]*Record, error)
	UpdateStatus(category points.Category, id int64, dto UpdateStatusDTO) (*Record, error)
	Delete(id int64) error
}

// Handler serves one category's routes; the router mounts one instance per
// category under /breaks, /meetings and /projects.
type Handler struct {
	*transport.BaseHandler
	Service  ServiceAPI
	Category points.Category
}

func NewHandler(service ServiceAPI, category points.Category) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.L()),
		Service:     service,
		Category:    category,
	}
}

// Submit applies a batch of statuses for today, all-or-nothing.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var dto SubmitStatusDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	records, err := h.Service.Submit(r.Context(), h.Category, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, records)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.Service.List(h.Category)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, records)
}

// ListOwn returns the caller's own records for the category.
func (h *Handler) ListOwn(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.UserFromContext(r.Context())
	if !ok || caller == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	records, err := h.Service.ListByUser(h.Category, caller.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, records)
}

func (h *Handler) ListByUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r)
	if !ok {
		return
	}

	records, err := h.Service.ListByUser(h.Category, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, records)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r)
	if !ok {
		return
	}

	var dto UpdateStatusDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	record, err := h.Service.UpdateStatus(h.Category, id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, record)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r)
	if !ok {
		return
	}

	if err := h.Service.Delete(id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "record deleted successfully"})
}

func (h *Handler) idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		h.WriteError(w, http.StatusBadRequest, "invalid record ID")
		return 0, false
	}
	return id, true
}
