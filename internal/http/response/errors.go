package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/diagnosis/luxstay-rentals/internal/domain"
	"github.com/diagnosis/luxstay-rentals/pkg/logger"
)

// ErrorResponse represents a structured JSON error response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// Common error codes
const (
	CodeInvalidInput  = "INVALID_INPUT"
	CodeNotFound      = "NOT_FOUND"
	CodeConflict      = "CONFLICT"
	CodeBookingError  = "BOOKING_ERROR"
	CodeInternalError = "INTERNAL_ERROR"
)

// WriteError writes a structured JSON error response
func WriteError(w http.ResponseWriter, statusCode int, message, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(ErrorResponse{Error: message, Code: code}); err != nil {
		logger.Error("failed to encode error response", "error", err)
	}
}

// WriteDomainError maps the booking error taxonomy onto HTTP statuses:
// conflict 409, not found 404, booking/validation 400, anything else 500.
func WriteDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		conflictErr   *domain.ConflictError
		notFoundErr   *domain.NotFoundError
		bookingErr    *domain.BookingError
		validationErr *domain.ValidationError
	)

	switch {
	case errors.As(err, &conflictErr):
		WriteError(w, http.StatusConflict, conflictErr.Error(), CodeConflict)
	case errors.As(err, &notFoundErr):
		WriteError(w, http.StatusNotFound, notFoundErr.Error(), CodeNotFound)
	case errors.As(err, &bookingErr):
		WriteError(w, http.StatusBadRequest, bookingErr.Error(), CodeBookingError)
	case errors.As(err, &validationErr):
		WriteError(w, http.StatusBadRequest, validationErr.Error(), CodeInvalidInput)
	default:
		logger.ErrorContext(r.Context(), "Unhandled request error", "error", err, "path", r.URL.Path)
		WriteError(w, http.StatusInternalServerError, "internal error", CodeInternalError)
	}
}

func BadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message, CodeInvalidInput)
}

func JSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}
