// Package handler exposes HTTP handlers for both authenticated and
// public endpoints.  This file defines the public browsing API: routes
// that let unauthenticated visitors browse tours, travel packages and
// tourist spots.  Sensitive or internal fields are filtered from the
// responses.
package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/unitravel/tour-booking-api/internal/model"
	"github.com/unitravel/tour-booking-api/internal/repository"
)

// PublicHandler aggregates repositories needed for unauthenticated
// browsing.  It produces sanitized responses suitable for public
// consumption.
type PublicHandler struct {
	Tours    *repository.TourRepo
	Dates    *repository.TourDateRepo
	Packages *repository.PackageRepo
	Spots    *repository.SpotRepo
}

func NewPublicHandler(tours *repository.TourRepo, dates *repository.TourDateRepo, packages *repository.PackageRepo, spots *repository.SpotRepo) *PublicHandler {
	if tours == nil || dates == nil || packages == nil || spots == nil {
		panic("nil repository passed to NewPublicHandler")
	}
	return &PublicHandler{Tours: tours, Dates: dates, Packages: packages, Spots: spots}
}

// PublicTour is a tour exposed via the public API.
type PublicTour struct {
	ID              uint64          `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	OriginalPrice   decimal.Decimal `json:"original_price"`
	DiscountedPrice decimal.Decimal `json:"discounted_price"`
	DiscountPercent int             `json:"discount_percent"`
	MaxStudents     int             `json:"max_students"`
}

// PublicTourDate is one bookable date with its remaining capacity.
type PublicTourDate struct {
	ID             uint64 `json:"id"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
	Capacity       int    `json:"capacity"`
	AvailableSlots int    `json:"available_slots"`
}

// PublicInclusion is a tour inclusion bullet point.
type PublicInclusion struct {
	ID        uint64 `json:"id"`
	Name      string `json:"name"`
	IconClass string `json:"icon_class,omitempty"`
}

// PublicPackage is a travel package exposed via the public API.
type PublicPackage struct {
	ID          uint64          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

// PublicSpot is a tourist spot guide entry.
type PublicSpot struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url,omitempty"`
	Highlights  string `json:"highlights,omitempty"`
	TravelInfo  string `json:"travel_info,omitempty"`
	BestTime    string `json:"best_time,omitempty"`
	SafetyInfo  string `json:"safety_info,omitempty"`
}

func publicTour(t model.Tour) PublicTour {
	return PublicTour{
		ID:              t.ID,
		Name:            t.Name,
		Description:     t.Description,
		OriginalPrice:   t.OriginalPrice,
		DiscountedPrice: t.DiscountedPrice,
		DiscountPercent: t.DiscountPercent,
		MaxStudents:     t.MaxStudents,
	}
}

func publicDate(d model.TourDate) PublicTourDate {
	return PublicTourDate{
		ID:             d.ID,
		StartDate:      d.StartDate.Format("2006-01-02"),
		EndDate:        d.EndDate.Format("2006-01-02"),
		Capacity:       d.Capacity,
		AvailableSlots: d.AvailableSlots,
	}
}

func publicSpot(s model.TouristSpot) PublicSpot {
	return PublicSpot{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		ImageURL:    s.ImageURL,
		Highlights:  s.Highlights,
		TravelInfo:  s.TravelInfo,
		BestTime:    s.BestTime,
		SafetyInfo:  s.SafetyInfo,
	}
}

// ListTours handles GET /v1/tours.  Only active tours are shown.
func (h *PublicHandler) ListTours(c echo.Context) error {
	tours, err := h.Tours.ListActive(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]PublicTour, 0, len(tours))
	for _, t := range tours {
		out = append(out, publicTour(t))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// TourDetail handles GET /v1/tours/:id.  It returns the tour together
// with its bookable dates and inclusion bullet points.
func (h *PublicHandler) TourDetail(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tour id"})
	}
	ctx := c.Request().Context()
	tour, err := h.Tours.GetActiveByID(ctx, id)
	if err != nil {
		return jsonError(c, err)
	}
	dates, err := h.Dates.ListByTour(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	inclusions, err := h.Tours.Inclusions(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	outDates := make([]PublicTourDate, 0, len(dates))
	for _, d := range dates {
		outDates = append(outDates, publicDate(d))
	}
	outIncs := make([]PublicInclusion, 0, len(inclusions))
	for _, inc := range inclusions {
		outIncs = append(outIncs, PublicInclusion{ID: inc.ID, Name: inc.Name, IconClass: inc.IconClass})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"tour":       publicTour(tour),
		"dates":      outDates,
		"inclusions": outIncs,
	})
}

// DateSlots handles GET /v1/tour-dates/:id/slots.  It answers how many
// seats remain on a date without exposing the whole record.
func (h *PublicHandler) DateSlots(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tour date id"})
	}
	n, err := h.Dates.SlotsRemaining(c.Request().Context(), id)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"tour_date_id": id, "available_slots": n})
}

// ListPackages handles GET /v1/packages.
func (h *PublicHandler) ListPackages(c echo.Context) error {
	packages, err := h.Packages.ListActive(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]PublicPackage, 0, len(packages))
	for _, p := range packages {
		out = append(out, PublicPackage{ID: p.ID, Name: p.Name, Description: p.Description, Price: p.Price})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// ListSpots handles GET /v1/spots.
func (h *PublicHandler) ListSpots(c echo.Context) error {
	spots, err := h.Spots.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]PublicSpot, 0, len(spots))
	for _, s := range spots {
		out = append(out, publicSpot(s))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// SpotDetail handles GET /v1/spots/:id.
func (h *PublicHandler) SpotDetail(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid spot id"})
	}
	spot, err := h.Spots.GetByID(c.Request().Context(), id)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, publicSpot(spot))
}
