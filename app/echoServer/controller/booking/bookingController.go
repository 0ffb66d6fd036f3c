package booking

import (
	"log/slog"
	"net/http"
	"strconv"

	"staybook/app/echoServer/controller"
	"staybook/app/echoServer/jwtx"
	"staybook/model"
	bs "staybook/service/booking"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc       bs.Service
	Completer bs.Completer
	V         *validator.Validate
	Log       *slog.Logger
}

func (h *Controller) principal(c echo.Context) (model.Principal, error) {
	p, err := jwtx.PrincipalFromContext(c)
	if err != nil {
		return p, echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return p, nil
}

func pathID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}

// POST /v1/bookings
func (h *Controller) Create(c echo.Context) error {
	p, err := h.principal(c)
	if err != nil {
		return err
	}
	if p.Role != model.RoleCustomer {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "only customers can create bookings", "code": bs.ErrUnauthorized})
	}

	var req CreateBookingReq
	if err := c.Bind(&req); err != nil {
		return controller.BadRequest(c, "invalid JSON")
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"code":    bs.ErrBadInput,
			"errors":  err.Error(),
		})
	}
	in, err := parseDate("check_in", req.CheckIn)
	if err != nil {
		return controller.WriteError(c, h.Log, "booking create", err)
	}
	out, err := parseDate("check_out", req.CheckOut)
	if err != nil {
		return controller.WriteError(c, h.Log, "booking create", err)
	}

	b, err := h.Svc.Create(c.Request().Context(), bs.CreateReq{
		PropertyID:      req.PropertyID,
		CustomerID:      p.UserID,
		CheckIn:         in,
		CheckOut:        out,
		Guests:          req.Guests,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		return controller.WriteError(c, h.Log, "booking create", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Booking request created successfully",
		"data":    b,
	})
}

// GET /v1/bookings
func (h *Controller) List(c echo.Context) error {
	p, err := h.principal(c)
	if err != nil {
		return err
	}
	f, err := filterFromQuery(c)
	if err != nil {
		return controller.WriteError(c, h.Log, "booking list", err)
	}
	rows, err := h.Svc.List(c.Request().Context(), p, f)
	if err != nil {
		return controller.WriteError(c, h.Log, "booking list", err)
	}
	if rows == nil {
		rows = []model.BookingRow{}
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows, "count": len(rows)})
}

// GET /v1/bookings/:id
func (h *Controller) Detail(c echo.Context) error {
	p, err := h.principal(c)
	if err != nil {
		return err
	}
	id, ok := pathID(c)
	if !ok {
		return controller.BadRequest(c, "invalid id")
	}
	row, err := h.Svc.Get(c.Request().Context(), p, id)
	if err != nil {
		return controller.WriteError(c, h.Log, "booking detail", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": row})
}

// POST /v1/bookings/:id/respond
func (h *Controller) Respond(c echo.Context) error {
	p, err := h.principal(c)
	if err != nil {
		return err
	}
	id, ok := pathID(c)
	if !ok {
		return controller.BadRequest(c, "invalid id")
	}
	var req RespondReq
	if err := c.Bind(&req); err != nil {
		return controller.BadRequest(c, "invalid JSON")
	}
	if err := h.V.Struct(req); err != nil {
		return controller.BadRequest(c, "action is required")
	}

	b, err := h.Svc.Respond(c.Request().Context(), bs.RespondReq{
		BookingID:       id,
		OwnerID:         p.UserID,
		Action:          req.Action,
		RejectionReason: req.RejectionReason,
	})
	if err != nil {
		return controller.WriteError(c, h.Log, "booking respond", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Booking " + string(b.Status) + " successfully",
		"data":    b,
	})
}

// POST /v1/bookings/:id/cancel
func (h *Controller) Cancel(c echo.Context) error {
	p, err := h.principal(c)
	if err != nil {
		return err
	}
	id, ok := pathID(c)
	if !ok {
		return controller.BadRequest(c, "invalid id")
	}
	b, err := h.Svc.Cancel(c.Request().Context(), id, p.UserID)
	if err != nil {
		return controller.WriteError(c, h.Log, "booking cancel", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Booking cancelled successfully", "data": b})
}

// PATCH /v1/bookings/:id/modify
func (h *Controller) Modify(c echo.Context) error {
	p, err := h.principal(c)
	if err != nil {
		return err
	}
	id, ok := pathID(c)
	if !ok {
		return controller.BadRequest(c, "invalid id")
	}
	var req ModifyBookingReq
	if err := c.Bind(&req); err != nil {
		return controller.BadRequest(c, "invalid JSON")
	}
	if err := h.V.Struct(req); err != nil {
		return controller.BadRequest(c, "guests must be at least 1")
	}
	in, err := parseOptDate("check_in", req.CheckIn)
	if err != nil {
		return controller.WriteError(c, h.Log, "booking modify", err)
	}
	out, err := parseOptDate("check_out", req.CheckOut)
	if err != nil {
		return controller.WriteError(c, h.Log, "booking modify", err)
	}

	res, err := h.Svc.Modify(c.Request().Context(), bs.ModifyReq{
		BookingID:  id,
		CustomerID: p.UserID,
		CheckIn:    in,
		CheckOut:   out,
		Guests:     req.Guests,
	})
	if err != nil {
		return controller.WriteError(c, h.Log, "booking modify", err)
	}
	return c.JSON(http.StatusOK, ModifyResp{
		Message: "Booking modified successfully",
		Data:    res.Booking,
		Changes: res.Changes,
	})
}

// GET /v1/bookings/check-availability?property_id&check_in&check_out
func (h *Controller) CheckAvailability(c echo.Context) error {
	pid, ok := queryID(c.QueryParam("property_id"))
	if !ok || pid == 0 {
		return controller.BadRequest(c, "property_id, check_in and check_out are required")
	}
	in, err := parseDate("check_in", c.QueryParam("check_in"))
	if err != nil {
		return controller.WriteError(c, h.Log, "check availability", err)
	}
	out, err := parseDate("check_out", c.QueryParam("check_out"))
	if err != nil {
		return controller.WriteError(c, h.Log, "check availability", err)
	}

	res, err := h.Svc.CheckAvailability(c.Request().Context(), pid, in, out)
	if err != nil {
		return controller.WriteError(c, h.Log, "check availability", err)
	}
	return c.JSON(http.StatusOK, res)
}

// GET /v1/bookings/calendar?property_id&start_date&end_date
func (h *Controller) Calendar(c echo.Context) error {
	p, err := h.principal(c)
	if err != nil {
		return err
	}
	pid, ok := queryID(c.QueryParam("property_id"))
	if !ok {
		return controller.BadRequest(c, "invalid property_id")
	}
	start, err := queryDate("start_date", c.QueryParam("start_date"))
	if err != nil {
		return controller.WriteError(c, h.Log, "booking calendar", err)
	}
	end, err := queryDate("end_date", c.QueryParam("end_date"))
	if err != nil {
		return controller.WriteError(c, h.Log, "booking calendar", err)
	}

	cal, err := h.Svc.Calendar(c.Request().Context(), p, bs.CalendarQuery{PropertyID: pid, Start: start, End: end})
	if err != nil {
		return controller.WriteError(c, h.Log, "booking calendar", err)
	}
	return c.JSON(http.StatusOK, cal)
}

// POST /v1/admin/bookings/complete
func (h *Controller) CompleteDue(c echo.Context) error {
	p, err := h.principal(c)
	if err != nil {
		return err
	}
	if !p.IsAdmin() {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden", "code": bs.ErrUnauthorized})
	}
	n, err := h.Completer.CompleteDue(c.Request().Context())
	if err != nil {
		return controller.WriteError(c, h.Log, "complete due bookings", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"completed": n})
}

// filterFromQuery reads status, property_id, start_date and end_date.
func filterFromQuery(c echo.Context) (model.BookingFilter, error) {
	var f model.BookingFilter
	if s := c.QueryParam("status"); s != "" {
		st, ok := model.ParseBookingStatus(s)
		if !ok {
			return f, bs.BadInput("unknown status %q", s)
		}
		f.Status = st
	}
	pid, ok := queryID(c.QueryParam("property_id"))
	if !ok {
		return f, bs.BadInput("invalid property_id")
	}
	f.PropertyID = pid

	var err error
	if f.CheckInGTE, err = queryDate("start_date", c.QueryParam("start_date")); err != nil {
		return f, err
	}
	if f.CheckOutLTE, err = queryDate("end_date", c.QueryParam("end_date")); err != nil {
		return f, err
	}
	return f, nil
}
