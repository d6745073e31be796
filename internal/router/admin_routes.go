package router

import (
	"github.com/labstack/echo/v4"

	"github.com/unitravel/tour-booking-api/internal/handler"
	"github.com/unitravel/tour-booking-api/internal/middleware"
)

// RegisterAdmin registers ADMIN-scoped endpoints under /v1/admin.
// All routes require a valid JWT and the ADMIN role.
func RegisterAdmin(
	e *echo.Echo,
	tours *handler.AdminTourHandler,
	bookings *handler.AdminBookingHandler,
	packages *handler.AdminPackageHandler,
	payments *handler.AdminPaymentHandler,
	spots *handler.AdminSpotHandler,
	messages *handler.AdminMessageHandler,
	jwtSecret string,
) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	)

	// ---- Dashboard ----
	g.GET("/dashboard", tours.Dashboard)

	// ---- Tours ----
	g.GET("/tours", tours.ListTours)
	g.POST("/tours", tours.CreateTour)
	g.PUT("/tours/:id", tours.UpdateTour)
	g.PATCH("/tours/:id", tours.UpdateTour)
	g.DELETE("/tours/:id", tours.DeleteTour)

	// ---- Tour dates (capacity units) ----
	g.POST("/tours/:id/dates", tours.CreateDate)
	g.PUT("/tour-dates/:id", tours.UpdateDate)
	g.PATCH("/tour-dates/:id", tours.UpdateDate)
	g.DELETE("/tour-dates/:id", tours.DeleteDate)

	// ---- Inclusions ----
	g.POST("/tours/:id/inclusions", tours.AddInclusion)
	g.DELETE("/inclusions/:id", tours.DeleteInclusion)

	// ---- Tour bookings ----
	g.GET("/bookings", bookings.List)
	g.PATCH("/bookings/:id/status", bookings.UpdateStatus)
	g.DELETE("/bookings/:id", bookings.Delete)
	g.POST("/bookings/approve-all", bookings.ApproveAll)
	g.POST("/bookings/restore-all", bookings.RestoreAll)

	// ---- Travel packages ----
	g.GET("/packages", packages.ListPackages)
	g.POST("/packages", packages.CreatePackage)
	g.PUT("/packages/:id", packages.UpdatePackage)
	g.PATCH("/packages/:id", packages.UpdatePackage)
	g.DELETE("/packages/:id", packages.DeletePackage)

	// ---- Package bookings ----
	g.GET("/package-bookings", packages.ListBookings)
	g.PATCH("/package-bookings/:id/status", packages.Decide)

	// ---- Payments ----
	g.GET("/payments", payments.List)
	g.PATCH("/payments/:id", payments.Review)

	// ---- Tourist spots ----
	g.POST("/spots", spots.Create)
	g.PUT("/spots/:id", spots.Update)
	g.PATCH("/spots/:id", spots.Update)
	g.DELETE("/spots/:id", spots.Delete)

	// ---- Contact messages ----
	g.GET("/messages", messages.List)
	g.PATCH("/messages/:id", messages.SetStatus)
	g.DELETE("/messages/:id", messages.Delete)
}
