// app/echoServer/controller/errors.go
package controller

import (
	"log/slog"
	"net/http"

	bs "staybook/service/booking"

	"github.com/labstack/echo/v4"
)

// Status maps a booking error code to its HTTP status.
func Status(code bs.ErrCode) int {
	switch code {
	case bs.ErrInvalidDateRange, bs.ErrInvalidDateFormat, bs.ErrCapacityExceeded, bs.ErrBadInput, bs.ErrInvalidState:
		return http.StatusBadRequest
	case bs.ErrPropertyNotApproved:
		return http.StatusUnprocessableEntity
	case bs.ErrPropertyNotAvailable:
		return http.StatusConflict
	case bs.ErrUnauthorized:
		return http.StatusForbidden
	case bs.ErrNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// WriteError renders err as {"message","code"} and logs anything unexpected.
func WriteError(c echo.Context, log *slog.Logger, op string, err error) error {
	code := bs.Code(err)
	if code == "" {
		log.Error(op,
			"err", err,
			"req_id", c.Response().Header().Get(echo.HeaderXRequestID),
			"method", c.Request().Method,
			"path", c.Path(),
		)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}

	body := echo.Map{"message": bs.Message(err), "code": code}
	if code == bs.ErrPropertyNotAvailable {
		body["conflict_count"] = bs.Conflicts(err)
	}
	return c.JSON(Status(code), body)
}

func BadRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"message": msg, "code": bs.ErrBadInput})
}
