package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"mesaYaBooking/internal/model"
	"mesaYaBooking/internal/service"
)

// OwnerReservationHandler serves the staff-side endpoints: the day sheet,
// lifecycle transitions (approve, complete, no-show, cancel) and binding
// waitlist reservations to tables.  Routes using it sit behind the OWNER
// role gate; restaurant ownership is enforced by the service.
type OwnerReservationHandler struct {
	Svc *service.ReservationService
}

// NewOwnerReservationHandler constructs the handler.  The service must be
// non-nil.
func NewOwnerReservationHandler(svc *service.ReservationService) *OwnerReservationHandler {
	if svc == nil {
		panic("nil service passed to NewOwnerReservationHandler")
	}
	return &OwnerReservationHandler{Svc: svc}
}

// DaySheet handles GET /v1/owner/restaurants/:id/reservations?date=.  It
// lists every reservation of the restaurant for the date, any status,
// ordered by start time.
func (h *OwnerReservationHandler) DaySheet(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	restaurantID, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid restaurant id"})
	}
	date, err := parseDate(c.QueryParam("date"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, expected YYYY-MM-DD"})
	}
	items, err := h.Svc.DaySheet(c.Request().Context(), restaurantID, date, actor)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": toViews(items)})
}

// UpdateStatus handles PATCH /v1/owner/reservations/:id/status with body
// {"status": "..."}.  Illegal lifecycle transitions are rejected with
// illegal_status_transition and have no effect.
func (h *OwnerReservationHandler) UpdateStatus(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil || body.Status == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status is required"})
	}
	to := model.ReservationStatus(body.Status)
	switch to {
	case model.StatusPending, model.StatusConfirmed, model.StatusCancelled, model.StatusCompleted, model.StatusNoShow:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
	}
	res, err := h.Svc.UpdateStatus(c.Request().Context(), id, to, actor)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reservation": toView(res)})
}

// AssignTable handles POST /v1/owner/reservations/:id/table with body
// {"table_id": n}, binding a waitlist reservation to a table through the
// same atomic overlap check as creation.
func (h *OwnerReservationHandler) AssignTable(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	var body struct {
		TableID uint64 `json:"table_id"`
	}
	if err := c.Bind(&body); err != nil || body.TableID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "table_id is required"})
	}
	res, err := h.Svc.AssignTable(c.Request().Context(), id, body.TableID, actor)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reservation": toView(res)})
}
