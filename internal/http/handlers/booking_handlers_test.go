package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/diagnosis/luxstay-rentals/internal/domain"
	"github.com/diagnosis/luxstay-rentals/internal/service"
)

// stubService returns canned results so handler tests only exercise the
// HTTP surface: header handling, parsing, and error-to-status mapping.
type stubService struct {
	booking *domain.Booking
	err     error
	results []service.BulkResult
}

func (s *stubService) CreateBooking(_ context.Context, propertyID, tenantID uuid.UUID, _, _ time.Time) (*domain.Booking, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.booking, nil
}

func (s *stubService) CancelBooking(_ context.Context, _, _ uuid.UUID) (*domain.Booking, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.booking, nil
}

func (s *stubService) ConfirmBooking(_ context.Context, _ uuid.UUID) (*domain.Booking, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.booking, nil
}

func (s *stubService) CompleteBooking(_ context.Context, _ uuid.UUID) (*domain.Booking, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.booking, nil
}

func (s *stubService) GetBooking(_ context.Context, _ uuid.UUID) (*domain.Booking, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.booking, nil
}

func (s *stubService) ListBookingsByTenant(_ context.Context, _ uuid.UUID, _, _ int, _ *domain.BookingStatus) ([]domain.Booking, error) {
	if s.err != nil {
		return nil, s.err
	}
	return nil, nil
}

func (s *stubService) ProcessBulkBookings(_ context.Context, requests []service.BookingRequest, _ uuid.UUID) []service.BulkResult {
	return s.results
}

var _ service.BookingService = (*stubService)(nil)

func newRouter(svc service.BookingService) http.Handler {
	r := chi.NewRouter()
	New(svc).Routes(r)
	return r
}

func createBody(t *testing.T) *bytes.Buffer {
	t.Helper()
	body, err := json.Marshal(map[string]string{
		"property_id": uuid.NewString(),
		"start_date":  "2026-09-10",
		"end_date":    "2026-09-13",
	})
	if err != nil {
		t.Fatal(err)
	}
	return bytes.NewBuffer(body)
}

func TestCreateBookingCreated(t *testing.T) {
	svc := &stubService{booking: &domain.Booking{ID: uuid.New(), Status: domain.BookingPending}}
	router := newRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/tenant/bookings", createBody(t))
	req.Header.Set("X-Tenant-ID", uuid.NewString())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body %s", rec.Code, rec.Body)
	}
	var got domain.Booking
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Status != domain.BookingPending {
		t.Errorf("status = %s, want pending", got.Status)
	}
}

func TestCreateBookingMissingTenantHeader(t *testing.T) {
	router := newRouter(&stubService{})

	req := httptest.NewRequest(http.MethodPost, "/tenant/bookings", createBody(t))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCreateBookingBadDate(t *testing.T) {
	router := newRouter(&stubService{})

	body, _ := json.Marshal(map[string]string{
		"property_id": uuid.NewString(),
		"start_date":  "September 10",
		"end_date":    "2026-09-13",
	})
	req := httptest.NewRequest(http.MethodPost, "/tenant/bookings", bytes.NewBuffer(body))
	req.Header.Set("X-Tenant-ID", uuid.NewString())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"conflict", domain.Conflictf("dates taken"), http.StatusConflict},
		{"not found", &domain.NotFoundError{Resource: "booking", ID: "x"}, http.StatusNotFound},
		{"booking error", domain.Bookingf("bad transition"), http.StatusBadRequest},
		{"validation", domain.Validationf("bad range"), http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newRouter(&stubService{err: tc.err})

			req := httptest.NewRequest(http.MethodPost, "/tenant/bookings", createBody(t))
			req.Header.Set("X-Tenant-ID", uuid.NewString())
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}

func TestCancelBookingOK(t *testing.T) {
	id := uuid.New()
	svc := &stubService{booking: &domain.Booking{ID: id, Status: domain.BookingCancelled}}
	router := newRouter(svc)

	req := httptest.NewRequest(http.MethodDelete, "/tenant/bookings/"+id.String(), nil)
	req.Header.Set("X-Tenant-ID", uuid.NewString())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestCancelBookingInvalidID(t *testing.T) {
	router := newRouter(&stubService{})

	req := httptest.NewRequest(http.MethodDelete, "/tenant/bookings/not-a-uuid", nil)
	req.Header.Set("X-Tenant-ID", uuid.NewString())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestBulkBookingsMultiStatus(t *testing.T) {
	svc := &stubService{results: []service.BulkResult{
		{Success: true, Booking: &domain.Booking{ID: uuid.New()}},
		{Err: domain.Conflictf("dates taken")},
	}}
	router := newRouter(svc)

	body, _ := json.Marshal(map[string]any{
		"requests": []map[string]string{
			{"property_id": uuid.NewString(), "start_date": "2026-09-10", "end_date": "2026-09-12"},
			{"property_id": uuid.NewString(), "start_date": "2026-09-10", "end_date": "2026-09-12"},
		},
	})
	req := httptest.NewRequest(http.MethodPost, "/tenant/bookings/bulk", bytes.NewBuffer(body))
	req.Header.Set("X-Tenant-ID", uuid.NewString())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusMultiStatus {
		t.Fatalf("status = %d, want 207", rec.Code)
	}

	var dtos []struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &dtos); err != nil {
		t.Fatal(err)
	}
	if len(dtos) != 2 || !dtos[0].Success || dtos[1].Success || dtos[1].Error == "" {
		t.Errorf("unexpected results %+v", dtos)
	}
}

func TestConfirmBookingInternalRoute(t *testing.T) {
	id := uuid.New()
	svc := &stubService{booking: &domain.Booking{ID: id, Status: domain.BookingConfirmed}}
	router := newRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/internal/bookings/"+id.String()+"/confirm", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}
