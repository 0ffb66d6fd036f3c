package echoServer

import (
	"staybook/app/echoServer/controller/booking"
	"staybook/app/echoServer/controller/property"
	"staybook/app/echoServer/jwtx"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

type C struct {
	Booking   *booking.Controller
	Property  *property.Controller
	JWTSecret string
}

func Register(e *echo.Echo, c C) {
	// Public
	pub := e.Group("/v1")
	pub.GET("/bookings/check-availability", c.Booking.CheckAvailability)
	pub.GET("/properties/available", c.Property.Available)

	// Auth
	auth := e.Group("/v1")
	auth.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(c.JWTSecret),

		NewClaimsFunc: func(c echo.Context) jwt.Claims { return jwt.MapClaims{} },
		TokenLookup:   "header:Authorization:Bearer ",
	}))
	auth.Use(jwtx.Middleware())

	// Bookings
	auth.POST("/bookings", c.Booking.Create)
	auth.GET("/bookings", c.Booking.List)
	auth.GET("/bookings/calendar", c.Booking.Calendar)
	auth.GET("/bookings/export", c.Booking.Export)
	auth.GET("/bookings/:id", c.Booking.Detail)
	auth.POST("/bookings/:id/respond", c.Booking.Respond)
	auth.POST("/bookings/:id/cancel", c.Booking.Cancel)
	auth.PATCH("/bookings/:id/modify", c.Booking.Modify)

	// Admin
	auth.POST("/admin/bookings/complete", c.Booking.CompleteDue)
}
