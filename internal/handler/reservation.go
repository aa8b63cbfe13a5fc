package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"mesaYaBooking/internal/model"
	"mesaYaBooking/internal/service"
)

// ReservationHandler serves the customer-facing booking endpoints: creating
// reservations (guest or account), advisory availability checks, the
// availability map, listing own reservations and cancelling.  JWT
// authentication is optional on the public endpoints; when a valid bearer
// token is present the middleware has placed user_id/role in the context.
type ReservationHandler struct {
	Svc *service.ReservationService
}

// NewReservationHandler constructs the handler.  The service must be
// non-nil.
func NewReservationHandler(svc *service.ReservationService) *ReservationHandler {
	if svc == nil {
		panic("nil service passed to NewReservationHandler")
	}
	return &ReservationHandler{Svc: svc}
}

// createReservationRequest is the booking request body.  Times use "HH:MM";
// the date uses "YYYY-MM-DD", restaurant-local.
type createReservationRequest struct {
	TableID       *uint64          `json:"table_id"`
	Date          string           `json:"date"`
	StartTime     model.TimeOfDay  `json:"start_time"`
	EndTime       model.TimeOfDay  `json:"end_time"`
	Guests        int              `json:"guests"`
	CustomerName  *string          `json:"customer_name"`
	CustomerEmail *string          `json:"customer_email"`
	CustomerPhone *string          `json:"customer_phone"`
	Notes         *string          `json:"notes"`
}

// CreateReservation handles POST /v1/restaurants/:id/reservations.  Logged
// in customers book on their account; anonymous guests supply contact
// details and receive a one-time manage token for later cancellation.
// Responds 201 with the stored reservation, or a machine-checkable
// rejection reason.
func (h *ReservationHandler) CreateReservation(c echo.Context) error {
	restaurantID, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid restaurant id"})
	}
	var body createReservationRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	date, err := parseDate(body.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, expected YYYY-MM-DD"})
	}

	in := service.CreateReservationInput{
		RestaurantID:  restaurantID,
		TableID:       body.TableID,
		CustomerName:  body.CustomerName,
		CustomerEmail: body.CustomerEmail,
		CustomerPhone: body.CustomerPhone,
		Date:          date,
		Start:         body.StartTime,
		End:           body.EndTime,
		Guests:        body.Guests,
		Notes:         body.Notes,
	}
	if userID, err := getUserID(c); err == nil {
		in.UserID = &userID
	}

	res, manageToken, err := h.Svc.CreateReservation(c.Request().Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	resp := echo.Map{"reservation": toView(res)}
	if manageToken != "" {
		// Shown exactly once; only its hash is stored.
		resp["manage_token"] = manageToken
	}
	return c.JSON(http.StatusCreated, resp)
}

// CheckAvailability handles
// GET /v1/restaurants/:id/tables/:tableId/check?date=&start=&end=&guests=.
// Advisory only: the answer can be stale by the time the booking commits,
// so the UI uses it for fast feedback and CreateReservation remains the
// authority.
func (h *ReservationHandler) CheckAvailability(c echo.Context) error {
	restaurantID, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid restaurant id"})
	}
	tableID, ok := paramID(c, "tableId")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table id"})
	}
	date, err := parseDate(c.QueryParam("date"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, expected YYYY-MM-DD"})
	}
	start, err := model.ParseTimeOfDay(c.QueryParam("start"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid start, expected HH:MM"})
	}
	end, err := model.ParseTimeOfDay(c.QueryParam("end"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid end, expected HH:MM"})
	}
	guests := 0
	if g := c.QueryParam("guests"); g != "" {
		guests, err = strconv.Atoi(g)
		if err != nil || guests < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid guests"})
		}
	}

	available, reason, err := h.Svc.CheckAvailability(c.Request().Context(), restaurantID, tableID, date, start, end, guests)
	if err != nil {
		return respondError(c, err)
	}
	resp := echo.Map{"available": available}
	if reason != nil {
		_, code := errorCode(reason)
		resp["reason"] = code
	}
	return c.JSON(http.StatusOK, resp)
}

// GetAvailabilityMap handles
// GET /v1/restaurants/:id/tables/:tableId/availability?date=.  Returns the
// ordered free/occupied segments of the table's operating day.
func (h *ReservationHandler) GetAvailabilityMap(c echo.Context) error {
	restaurantID, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid restaurant id"})
	}
	tableID, ok := paramID(c, "tableId")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table id"})
	}
	date, err := parseDate(c.QueryParam("date"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, expected YYYY-MM-DD"})
	}
	day, err := h.Svc.GetAvailabilityMap(c.Request().Context(), restaurantID, tableID, date)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, day)
}

// ListTables handles GET /v1/restaurants/:id/tables, the public table list
// clients pick from before probing availability.
func (h *ReservationHandler) ListTables(c echo.Context) error {
	restaurantID, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid restaurant id"})
	}
	tables, err := h.Svc.ListTables(c.Request().Context(), restaurantID)
	if err != nil {
		return respondError(c, err)
	}
	items := make([]echo.Map, 0, len(tables))
	for _, t := range tables {
		items = append(items, echo.Map{
			"id":        t.ID,
			"name":      t.Name,
			"capacity":  t.Capacity,
			"is_active": t.IsActive,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ListMyReservations handles GET /v1/my-reservations for authenticated
// customers.
func (h *ReservationHandler) ListMyReservations(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Svc.ListForUser(c.Request().Context(), actor)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": toViews(items)})
}

// CancelReservation handles DELETE /v1/reservations/:id for authenticated
// users.  Customers cancel their own bookings; owners may cancel any
// booking at their restaurant.  Cancellation is a status change, never a
// row deletion.
func (h *ReservationHandler) CancelReservation(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	res, err := h.Svc.Cancel(c.Request().Context(), id, actor)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reservation": toView(res)})
}

// CancelByToken handles POST /v1/reservations/:id/cancel for guests, who
// authorize with the manage token issued at booking time.
func (h *ReservationHandler) CancelByToken(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	var body struct {
		ManageToken string `json:"manage_token"`
	}
	if err := c.Bind(&body); err != nil || body.ManageToken == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "manage_token is required"})
	}
	res, err := h.Svc.CancelByToken(c.Request().Context(), id, body.ManageToken)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reservation": toView(res)})
}
