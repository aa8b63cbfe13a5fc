package handler // handler defines the HTTP handlers of the booking service

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"mesaYaBooking/internal/booking"
	"mesaYaBooking/internal/model"
	"mesaYaBooking/internal/service"
)

// getUserID extracts the authenticated user id placed in the context by the
// JWT middleware and converts it to uint64.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// getActor builds the service actor from the JWT claims in the context.
func getActor(c echo.Context) (service.Actor, error) {
	userID, err := getUserID(c)
	if err != nil {
		return service.Actor{}, err
	}
	role, _ := c.Get("role").(string)
	return service.Actor{UserID: userID, Role: role}, nil
}

// paramID parses a positive numeric path parameter.
func paramID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil && id != 0
}

// parseDate parses a YYYY-MM-DD query value as a restaurant-local date.
func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", s, time.Local)
}

// errorCode maps engine errors to the machine-checkable codes the UI keys
// on.  Every rejection has a distinct code; nothing is reported as a
// generic failure.
func errorCode(err error) (int, string) {
	switch {
	case errors.Is(err, booking.ErrInvalidTimeRange):
		return http.StatusBadRequest, "invalid_time_range"
	case errors.Is(err, booking.ErrDurationOutOfPolicy):
		return http.StatusBadRequest, "duration_out_of_policy"
	case errors.Is(err, booking.ErrGuestCountOutOfPolicy):
		return http.StatusBadRequest, "guest_count_out_of_policy"
	case errors.Is(err, booking.ErrLeadTimeOutOfPolicy):
		return http.StatusBadRequest, "lead_time_out_of_policy"
	case errors.Is(err, booking.ErrTableConflict):
		return http.StatusConflict, "table_conflict"
	case errors.Is(err, booking.ErrUserLimitExceeded):
		return http.StatusConflict, "user_limit_exceeded"
	case errors.Is(err, booking.ErrIllegalTransition):
		return http.StatusConflict, "illegal_status_transition"
	case errors.Is(err, service.ErrCustomerIdentity):
		return http.StatusBadRequest, "customer_identity_required"
	case errors.Is(err, service.ErrTableCapacityExceeded):
		return http.StatusBadRequest, "table_capacity_exceeded"
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "not_found"
	}
	return http.StatusInternalServerError, "internal_error"
}

// respondError writes the uniform error body for an engine error.
func respondError(c echo.Context, err error) error {
	status, code := errorCode(err)
	body := echo.Map{"error": code}
	if status != http.StatusInternalServerError {
		body["message"] = err.Error()
	}
	return c.JSON(status, body)
}

// reservationView is the JSON projection of a reservation returned to both
// customers and owners.
type reservationView struct {
	ID                uint64  `json:"id"`
	RestaurantID      uint64  `json:"restaurant_id"`
	TableID           *uint64 `json:"table_id,omitempty"`
	Date              string  `json:"date"`
	StartTime         string  `json:"start_time"`
	EndTime           string  `json:"end_time"`
	Guests            int     `json:"guests"`
	Status            string  `json:"status"`
	NeedsConfirmation bool    `json:"needs_confirmation"`
	CustomerName      *string `json:"customer_name,omitempty"`
	Notes             *string `json:"notes,omitempty"`
	CreatedAt         string  `json:"created_at"`
}

func toView(r *model.Reservation) reservationView {
	return reservationView{
		ID:                r.ID,
		RestaurantID:      r.RestaurantID,
		TableID:           r.TableID,
		Date:              r.ReservationDate.Format("2006-01-02"),
		StartTime:         r.StartTime.String(),
		EndTime:           r.EndTime.String(),
		Guests:            r.NumberOfGuests,
		Status:            string(r.Status),
		NeedsConfirmation: r.NeedsConfirmation,
		CustomerName:      r.CustomerName,
		Notes:             r.Notes,
		CreatedAt:         r.CreatedAt.Format(time.RFC3339),
	}
}

func toViews(rs []model.Reservation) []reservationView {
	out := make([]reservationView, 0, len(rs))
	for i := range rs {
		out = append(out, toView(&rs[i]))
	}
	return out
}
