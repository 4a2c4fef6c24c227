package attendance

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/teampulse/attendance-points/internal/auth"
	"github.com/teampulse/attendance-points/internal/transport"
	"github.com/teampulse/attendance-points/pkg/logger"
)

type ServiceAPI interface {
	CheckIn(ctx context.Context, userID int64, dto CheckinDTO) (*Record, error)
	CheckOut(ctx context.Context, userID int64, dto CheckoutDTO) (*Record, error)
	ListAll() ([]*Record, error)
	ListByDate(day time.Time) ([]*Record, error)
	ListByUser(userID int64) ([]*Record, error)
	ListByUserAndDate(userID int64, day time.Time) ([]*Record, error)
	Update(id int64, dto UpdateAttendanceDTO) (*Record, error)
	DeleteByUserAndDate(userID int64, day time.Time) (int64, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.L()),
		Service:     service,
	}
}

// CheckIn opens a session for the authenticated caller.
func (h *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.UserFromContext(r.Context())
	if !ok || caller == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CheckinDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, err := h.Service.CheckIn(r.Context(), caller.ID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, rec)
}

// CheckOut closes the caller's open session.
func (h *Handler) CheckOut(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.UserFromContext(r.Context())
	if !ok || caller == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CheckoutDTO
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	rec, err := h.Service.CheckOut(r.Context(), caller.ID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, rec)
}

// ListOwn returns the caller's attendance history.
func (h *Handler) ListOwn(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.UserFromContext(r.Context())
	if !ok || caller == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	records, err := h.Service.ListByUser(caller.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, records)
}

// List is the admin listing. Optional query params `user_id` and `date`
// (YYYY-MM-DD) narrow the result.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userStr := r.URL.Query().Get("user_id")
	dateStr := r.URL.Query().Get("date")

	var (
		userID int64
		day    time.Time
		err    error
	)

	if userStr != "" {
		userID, err = strconv.ParseInt(userStr, 10, 64)
		if err != nil || userID <= 0 {
			h.WriteError(w, http.StatusBadRequest, "invalid user ID")
			return
		}
	}
	if dateStr != "" {
		day, err = time.Parse("2006-01-02", dateStr)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
	}

	var records []*Record
	switch {
	case userID > 0 && dateStr != "":
		records, err = h.Service.ListByUserAndDate(userID, day)
	case userID > 0:
		records, err = h.Service.ListByUser(userID)
	case dateStr != "":
		records, err = h.Service.ListByDate(day)
	default:
		records, err = h.Service.ListAll()
	}
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, records)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		h.WriteError(w, http.StatusBadRequest, "invalid record ID")
		return
	}

	var dto UpdateAttendanceDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, err := h.Service.Update(id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, rec)
}

// Delete removes all of a user's records on one calendar day.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	var dto DeleteAttendanceDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := dto.Validate(); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	day, err := time.Parse("2006-01-02", dto.Date)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	deleted, err := h.Service.DeleteByUserAndDate(dto.UserID, day)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "attendance records deleted",
		"deleted": deleted,
	})
}
