package booking

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"staybook/app/echoServer/controller"
	"staybook/model"

	"github.com/labstack/echo/v4"
)

var exportHeader = []string{
	"ID", "Property Title", "Property Location", "Customer",
	"Check In", "Check Out", "Guests", "Status",
	"Total Price", "Currency", "Nights", "Created At",
}

// GET /v1/bookings/export?format=csv|json&status&start_date&end_date
func (h *Controller) Export(c echo.Context) error {
	p, err := h.principal(c)
	if err != nil {
		return err
	}
	format := c.QueryParam("format")
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "json" {
		return controller.BadRequest(c, "format must be csv or json")
	}
	f, err := filterFromQuery(c)
	if err != nil {
		return controller.WriteError(c, h.Log, "booking export", err)
	}
	rows, err := h.Svc.List(c.Request().Context(), p, f)
	if err != nil {
		return controller.WriteError(c, h.Log, "booking export", err)
	}

	name := "bookings_export_" + time.Now().UTC().Format("20060102_150405")
	if format == "json" {
		if rows == nil {
			rows = []model.BookingRow{}
		}
		c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name+".json"))
		return c.JSON(http.StatusOK, echo.Map{"data": rows, "count": len(rows)})
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	res.Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name+".csv"))
	res.WriteHeader(http.StatusOK)
	return writeCSV(res, rows)
}

func writeCSV(w http.ResponseWriter, rows []model.BookingRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			strconv.FormatInt(r.ID, 10),
			r.PropertyTitle,
			r.PropertyLocation,
			r.CustomerName,
			r.CheckIn.String(),
			r.CheckOut.String(),
			strconv.Itoa(r.Guests),
			string(r.Status),
			r.TotalPrice.StringFixed(2),
			r.Currency,
			strconv.Itoa(r.Nights()),
			r.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
