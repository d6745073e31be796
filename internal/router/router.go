package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/unitravel/tour-booking-api/internal/handler"
	"github.com/unitravel/tour-booking-api/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies
// the necessary middleware.  Unauthenticated operations live under
// /v1/auth, while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Rotating refresh: exchanges the refresh token for a new pair.
	g.POST("/refresh", a.Refresh)
	// Non-rotating variant: new access token, same refresh token.
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout works with either a bearer token (revoke all sessions) or a
	// refresh_token in the body (revoke one), so no JWT middleware here.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("ADMIN", "STUDENT"))
	auth.GET("/me", a.Me)
}

// RegisterPublic registers unauthenticated browse endpoints: tours with
// dates and inclusions, slot availability, travel packages, tourist
// spots and the contact form.  These routes apply no JWT or role
// middleware.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, contact *handler.ContactHandler) {
	e.GET("/v1/tours", p.ListTours)
	e.GET("/v1/tours/:id", p.TourDetail)
	// Remaining-capacity query for one date, without the full record.
	e.GET("/v1/tour-dates/:id/slots", p.DateSlots)
	e.GET("/v1/packages", p.ListPackages)
	e.GET("/v1/spots", p.ListSpots)
	e.GET("/v1/spots/:id", p.SpotDetail)
	e.POST("/v1/contact", contact.Submit)
}
