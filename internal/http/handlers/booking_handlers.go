package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/diagnosis/luxstay-rentals/internal/domain"
	"github.com/diagnosis/luxstay-rentals/internal/http/response"
	"github.com/diagnosis/luxstay-rentals/internal/service"
)

const dateLayout = "2006-01-02"

// Handlers is the thin caller-facing surface over the booking engine.
// Authentication happens upstream at the gateway, which injects the
// verified tenant id as X-Tenant-ID.
type Handlers struct {
	bookings service.BookingService
}

func New(bookings service.BookingService) *Handlers {
	return &Handlers{bookings: bookings}
}

func (h *Handlers) Routes(r chi.Router) {
	r.Route("/tenant/bookings", func(r chi.Router) {
		r.Post("/", h.CreateBooking)
		r.Post("/bulk", h.CreateBulkBookings)
		r.Get("/", h.ListBookings)
		r.Get("/{id}", h.GetBooking)
		r.Delete("/{id}", h.CancelBooking)
	})

	r.Route("/internal/bookings", func(r chi.Router) {
		r.Post("/{id}/confirm", h.ConfirmBooking)
		r.Post("/{id}/complete", h.CompleteBooking)
	})
}

type createBookingReq struct {
	PropertyID uuid.UUID `json:"property_id"`
	StartDate  string    `json:"start_date"`
	EndDate    string    `json:"end_date"`
}

type bulkBookingReq struct {
	Requests []createBookingReq `json:"requests"`
}

type bulkResultDTO struct {
	Success bool            `json:"success"`
	Booking *domain.Booking `json:"booking,omitempty"`
	Error   string          `json:"error,omitempty"`
}

func tenantID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.Header.Get("X-Tenant-ID"))
	return id, err == nil
}

func parseDates(startDate, endDate string) (time.Time, time.Time, error) {
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return time.Time{}, time.Time{}, domain.Validationf("invalid start_date %q, want YYYY-MM-DD", startDate)
	}
	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		return time.Time{}, time.Time{}, domain.Validationf("invalid end_date %q, want YYYY-MM-DD", endDate)
	}
	return start, end, nil
}

func (h *Handlers) CreateBooking(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(r)
	if !ok {
		response.BadRequest(w, "missing or invalid X-Tenant-ID header")
		return
	}

	var req createBookingReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	start, end, err := parseDates(req.StartDate, req.EndDate)
	if err != nil {
		response.WriteDomainError(w, r, err)
		return
	}

	booking, err := h.bookings.CreateBooking(r.Context(), req.PropertyID, tenant, start, end)
	if err != nil {
		response.WriteDomainError(w, r, err)
		return
	}
	response.JSON(w, http.StatusCreated, booking)
}

func (h *Handlers) CreateBulkBookings(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(r)
	if !ok {
		response.BadRequest(w, "missing or invalid X-Tenant-ID header")
		return
	}

	var req bulkBookingReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if len(req.Requests) == 0 {
		response.BadRequest(w, "requests must not be empty")
		return
	}

	requests := make([]service.BookingRequest, 0, len(req.Requests))
	for _, item := range req.Requests {
		start, end, err := parseDates(item.StartDate, item.EndDate)
		if err != nil {
			response.WriteDomainError(w, r, err)
			return
		}
		requests = append(requests, service.BookingRequest{
			PropertyID: item.PropertyID,
			StartDate:  start,
			EndDate:    end,
		})
	}

	results := h.bookings.ProcessBulkBookings(r.Context(), requests, tenant)

	dtos := make([]bulkResultDTO, len(results))
	for i, res := range results {
		dtos[i] = bulkResultDTO{Success: res.Success, Booking: res.Booking}
		if res.Err != nil {
			dtos[i].Error = res.Err.Error()
		}
	}
	response.JSON(w, http.StatusMultiStatus, dtos)
}

func (h *Handlers) GetBooking(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid booking id")
		return
	}

	booking, err := h.bookings.GetBooking(r.Context(), id)
	if err != nil {
		response.WriteDomainError(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, booking)
}

func (h *Handlers) ListBookings(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(r)
	if !ok {
		response.BadRequest(w, "missing or invalid X-Tenant-ID header")
		return
	}

	limit := queryInt(r, "limit", 20)
	offset := queryInt(r, "offset", 0)

	var status *domain.BookingStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		parsed, ok := domain.ParseBookingStatus(raw)
		if !ok {
			response.BadRequest(w, "invalid status filter")
			return
		}
		status = &parsed
	}

	bookings, err := h.bookings.ListBookingsByTenant(r.Context(), tenant, limit, offset, status)
	if err != nil {
		response.WriteDomainError(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, bookings)
}

func (h *Handlers) CancelBooking(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantID(r)
	if !ok {
		response.BadRequest(w, "missing or invalid X-Tenant-ID header")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid booking id")
		return
	}

	booking, err := h.bookings.CancelBooking(r.Context(), id, tenant)
	if err != nil {
		response.WriteDomainError(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, booking)
}

func (h *Handlers) ConfirmBooking(w http.ResponseWriter, r *http.Request) {
	h.statusChange(w, r, h.bookings.ConfirmBooking)
}

func (h *Handlers) CompleteBooking(w http.ResponseWriter, r *http.Request) {
	h.statusChange(w, r, h.bookings.CompleteBooking)
}

func (h *Handlers) statusChange(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id uuid.UUID) (*domain.Booking, error)) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid booking id")
		return
	}

	booking, err := fn(r.Context(), id)
	if err != nil {
		response.WriteDomainError(w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, booking)
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
