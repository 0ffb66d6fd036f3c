package echoServer

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"staybook/app/echoServer/controller/booking"
	"staybook/app/echoServer/controller/property"
	"staybook/model"
	bs "staybook/service/booking"
	"staybook/util/jwt"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

const secret = "test_secret"

type svcStub struct {
	bs.Service
	seen model.Principal
}

func (s *svcStub) List(_ context.Context, p model.Principal, _ model.BookingFilter) ([]model.BookingRow, error) {
	s.seen = p
	return nil, nil
}

func (s *svcStub) CheckAvailability(_ context.Context, pid int64, in, out model.Date) (*bs.Availability, error) {
	return &bs.Availability{PropertyID: pid, CheckIn: in, CheckOut: out, IsAvailable: true}, nil
}

func newServer(svc bs.Service) *echo.Echo {
	log := slog.New(slog.NewJSONHandler(io.Discard, nil))
	e := echo.New()
	RegisterMiddlewares(e, log)
	Register(e, C{
		Booking:   &booking.Controller{Svc: svc, V: validator.New(), Log: log},
		Property:  &property.Controller{Svc: svc, Log: log},
		JWTSecret: secret,
	})
	return e
}

func do(e *echo.Echo, method, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRoutes_RequireToken(t *testing.T) {
	svc := &svcStub{}
	e := newServer(svc)

	rec := do(e, http.MethodGet, "/v1/bookings", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	bad, err := jwt.Issue("other_secret", model.Principal{UserID: 4, Role: model.RoleCustomer}, time.Hour)
	require.NoError(t, err)
	rec = do(e, http.MethodGet, "/v1/bookings", bad)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	expired, err := jwt.Issue(secret, model.Principal{UserID: 4, Role: model.RoleCustomer}, -time.Minute)
	require.NoError(t, err)
	rec = do(e, http.MethodGet, "/v1/bookings", expired)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRoutes_PrincipalFromClaims(t *testing.T) {
	svc := &svcStub{}
	e := newServer(svc)

	tok, err := jwt.Issue(secret, model.Principal{UserID: 4, Role: model.RoleOwner}, time.Hour)
	require.NoError(t, err)
	rec := do(e, http.MethodGet, "/v1/bookings", tok)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, model.Principal{UserID: 4, Role: model.RoleOwner}, svc.seen)
	require.JSONEq(t, `{"count":0,"data":[]}`, rec.Body.String())
	require.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestRoutes_UnknownRoleRejected(t *testing.T) {
	e := newServer(&svcStub{})
	tok, err := jwt.Issue(secret, model.Principal{UserID: 4, Role: "guest"}, time.Hour)
	require.NoError(t, err)
	rec := do(e, http.MethodGet, "/v1/bookings", tok)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRoutes_AvailabilityIsPublic(t *testing.T) {
	e := newServer(&svcStub{})
	rec := do(e, http.MethodGet, "/v1/bookings/check-availability?property_id=1&check_in=2025-06-10&check_out=2025-06-12", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"is_available":true`)
}
