package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/unitravel/tour-booking-api/internal/model"
	"github.com/unitravel/tour-booking-api/internal/repository"
)

// AdminTourHandler serves the tour inventory management endpoints:
// tours, their dates (the capacity units) and inclusion bullet points.
type AdminTourHandler struct {
	Tours    *repository.TourRepo
	Dates    *repository.TourDateRepo
	Bookings *repository.BookingRepo
}

func NewAdminTourHandler(tours *repository.TourRepo, dates *repository.TourDateRepo, bookings *repository.BookingRepo) *AdminTourHandler {
	if tours == nil || dates == nil || bookings == nil {
		panic("nil repository passed to NewAdminTourHandler")
	}
	return &AdminTourHandler{Tours: tours, Dates: dates, Bookings: bookings}
}

type tourReq struct {
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	OriginalPrice   decimal.Decimal `json:"original_price"`
	DiscountedPrice decimal.Decimal `json:"discounted_price"`
	DiscountPercent int             `json:"discount_percent"`
	MaxStudents     int             `json:"max_students"`
	IsActive        bool            `json:"is_active"`
}

func (r *tourReq) validate() string {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return "name required"
	}
	if !r.OriginalPrice.IsPositive() {
		return "original_price must be positive"
	}
	if r.DiscountedPrice.IsNegative() || r.DiscountedPrice.GreaterThan(r.OriginalPrice) {
		return "discounted_price must be between 0 and original_price"
	}
	return ""
}

// ListTours handles GET /v1/admin/tours and includes inactive tours.
func (h *AdminTourHandler) ListTours(c echo.Context) error {
	tours, err := h.Tours.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"tours": tours})
}

// CreateTour handles POST /v1/admin/tours.
func (h *AdminTourHandler) CreateTour(c echo.Context) error {
	var req tourReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	id, err := h.Tours.Create(c.Request().Context(), &model.Tour{
		Name:            req.Name,
		Description:     req.Description,
		OriginalPrice:   req.OriginalPrice,
		DiscountedPrice: req.DiscountedPrice,
		DiscountPercent: req.DiscountPercent,
		MaxStudents:     req.MaxStudents,
		IsActive:        req.IsActive,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// UpdateTour handles PUT /v1/admin/tours/:id.
func (h *AdminTourHandler) UpdateTour(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tour id"})
	}
	var req tourReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	err := h.Tours.Update(c.Request().Context(), &model.Tour{
		ID:              id,
		Name:            req.Name,
		Description:     req.Description,
		OriginalPrice:   req.OriginalPrice,
		DiscountedPrice: req.DiscountedPrice,
		DiscountPercent: req.DiscountPercent,
		MaxStudents:     req.MaxStudents,
		IsActive:        req.IsActive,
	})
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id})
}

// DeleteTour handles DELETE /v1/admin/tours/:id.  Dates, inclusions and
// bookings cascade away with it.
func (h *AdminTourHandler) DeleteTour(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tour id"})
	}
	if err := h.Tours.Delete(c.Request().Context(), id); err != nil {
		return jsonError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type dateReq struct {
	StartDate   string `json:"start_date"` // YYYY-MM-DD
	EndDate     string `json:"end_date"`
	Capacity    int    `json:"capacity"`
	IsAvailable bool   `json:"is_available"`
}

func parseDateRange(req dateReq) (start, end time.Time, msg string) {
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return start, end, "start_date must be YYYY-MM-DD"
	}
	end, err = time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return start, end, "end_date must be YYYY-MM-DD"
	}
	if end.Before(start) {
		return start, end, "end_date before start_date"
	}
	return start, end, ""
}

// CreateDate handles POST /v1/admin/tours/:id/dates.  The new date
// starts with available_slots equal to its capacity.
func (h *AdminTourHandler) CreateDate(c echo.Context) error {
	tourID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tour id"})
	}
	var req dateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Capacity <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "capacity must be positive"})
	}
	start, end, msg := parseDateRange(req)
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	ctx := c.Request().Context()
	if _, err := h.Tours.GetByID(ctx, tourID); err != nil {
		return jsonError(c, err)
	}
	id, err := h.Dates.Create(ctx, &model.TourDate{
		TourID:      tourID,
		StartDate:   start,
		EndDate:     end,
		Capacity:    req.Capacity,
		IsAvailable: req.IsAvailable,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// UpdateDate handles PUT /v1/admin/tour-dates/:id.  Capacity changes
// shift available_slots by the same delta, floored at zero, so already
// reserved slots are never resurrected.
func (h *AdminTourHandler) UpdateDate(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tour date id"})
	}
	var req dateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Capacity <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "capacity must be positive"})
	}
	start, end, msg := parseDateRange(req)
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	err := h.Dates.Update(c.Request().Context(), &model.TourDate{
		ID:          id,
		StartDate:   start,
		EndDate:     end,
		Capacity:    req.Capacity,
		IsAvailable: req.IsAvailable,
	})
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id})
}

// DeleteDate handles DELETE /v1/admin/tour-dates/:id.
func (h *AdminTourHandler) DeleteDate(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tour date id"})
	}
	if err := h.Dates.Delete(c.Request().Context(), id); err != nil {
		return jsonError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type inclusionReq struct {
	Name      string `json:"name"`
	IconClass string `json:"icon_class"`
}

// AddInclusion handles POST /v1/admin/tours/:id/inclusions.
func (h *AdminTourHandler) AddInclusion(c echo.Context) error {
	tourID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tour id"})
	}
	var req inclusionReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	ctx := c.Request().Context()
	if _, err := h.Tours.GetByID(ctx, tourID); err != nil {
		return jsonError(c, err)
	}
	id, err := h.Tours.AddInclusion(ctx, tourID, strings.TrimSpace(req.Name), strings.TrimSpace(req.IconClass))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// DeleteInclusion handles DELETE /v1/admin/inclusions/:id.
func (h *AdminTourHandler) DeleteInclusion(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid inclusion id"})
	}
	if err := h.Tours.DeleteInclusion(c.Request().Context(), id); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Dashboard handles GET /v1/admin/dashboard.  It aggregates booking
// status counts and confirmed revenue for the landing view.
func (h *AdminTourHandler) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()
	counts, err := h.Bookings.StatusCounts(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	revenue, err := h.Tours.ConfirmedRevenue(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"booking_counts":    counts,
		"confirmed_revenue": revenue,
	})
}
