package property

import (
	"log/slog"
	"net/http"

	"staybook/app/echoServer/controller"
	"staybook/model"
	bs "staybook/service/booking"

	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc bs.Service
	Log *slog.Logger
}

// GET /v1/properties/available?check_in&check_out
func (h *Controller) Available(c echo.Context) error {
	rawIn, rawOut := c.QueryParam("check_in"), c.QueryParam("check_out")
	if rawIn == "" || rawOut == "" {
		return controller.BadRequest(c, "check_in and check_out are required")
	}
	in, err := model.ParseDate(rawIn)
	if err != nil {
		return controller.WriteError(c, h.Log, "available properties", bs.InvalidDateFormat("check_in", rawIn))
	}
	out, err := model.ParseDate(rawOut)
	if err != nil {
		return controller.WriteError(c, h.Log, "available properties", bs.InvalidDateFormat("check_out", rawOut))
	}

	props, err := h.Svc.AvailableProperties(c.Request().Context(), in, out)
	if err != nil {
		return controller.WriteError(c, h.Log, "available properties", err)
	}
	if props == nil {
		props = []model.Property{}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"check_in":  in,
		"check_out": out,
		"data":      props,
		"count":     len(props),
	})
}
