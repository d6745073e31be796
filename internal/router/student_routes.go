package router

import (
	"github.com/labstack/echo/v4"

	"github.com/unitravel/tour-booking-api/internal/handler"
	"github.com/unitravel/tour-booking-api/internal/middleware"
)

// RegisterStudent registers student-scoped endpoints under /v1.  All
// routes require a valid JWT and the STUDENT role.  Students can book
// tour dates, cancel their bookings, request travel packages,
// acknowledge admin decisions and submit payments.
func RegisterStudent(e *echo.Echo, b *handler.StudentBookingHandler, p *handler.StudentPackageHandler, pay *handler.StudentPaymentHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("STUDENT"),
	)

	// ---- Study tour bookings ----
	g.POST("/bookings", b.Create)
	g.GET("/bookings", b.List)
	g.GET("/bookings/history", b.History)
	g.GET("/bookings/:id", b.Detail)
	g.POST("/bookings/:id/cancel", b.Cancel)

	// ---- Travel package bookings ----
	g.POST("/package-bookings", p.Create)
	g.GET("/package-bookings", p.List)
	// Explicit acknowledge is the only thing that marks decisions seen.
	g.POST("/package-bookings/acknowledge", p.Acknowledge)
	g.POST("/package-bookings/:id/cancel", p.Cancel)

	// ---- Payments ----
	g.POST("/package-bookings/:id/payment", pay.Submit)
	g.GET("/package-bookings/:id/payment", pay.View)
}
