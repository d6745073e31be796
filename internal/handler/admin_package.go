package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/unitravel/tour-booking-api/internal/lifecycle"
	"github.com/unitravel/tour-booking-api/internal/model"
	"github.com/unitravel/tour-booking-api/internal/queue"
	"github.com/unitravel/tour-booking-api/internal/repository"
)

// AdminPackageHandler serves travel package management and package
// booking decisions.
type AdminPackageHandler struct {
	Packages *repository.PackageRepo
	Bookings *repository.PackageBookingRepo
	rules    lifecycle.Rules
}

func NewAdminPackageHandler(packages *repository.PackageRepo, bookings *repository.PackageBookingRepo) *AdminPackageHandler {
	if packages == nil || bookings == nil {
		panic("nil repository passed to NewAdminPackageHandler")
	}
	return &AdminPackageHandler{Packages: packages, Bookings: bookings, rules: lifecycle.PackageRules()}
}

type packageReq struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	IsActive    bool            `json:"is_active"`
}

func (r *packageReq) validate() string {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return "name required"
	}
	if !r.Price.IsPositive() {
		return "price must be positive"
	}
	return ""
}

// ListPackages handles GET /v1/admin/packages and includes inactive
// packages.
func (h *AdminPackageHandler) ListPackages(c echo.Context) error {
	packages, err := h.Packages.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"packages": packages})
}

// CreatePackage handles POST /v1/admin/packages.
func (h *AdminPackageHandler) CreatePackage(c echo.Context) error {
	var req packageReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	id, err := h.Packages.Create(c.Request().Context(), &model.TravelPackage{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		IsActive:    req.IsActive,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// UpdatePackage handles PUT /v1/admin/packages/:id.
func (h *AdminPackageHandler) UpdatePackage(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid package id"})
	}
	var req packageReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	err := h.Packages.Update(c.Request().Context(), &model.TravelPackage{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		IsActive:    req.IsActive,
	})
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id})
}

// DeletePackage handles DELETE /v1/admin/packages/:id.
func (h *AdminPackageHandler) DeletePackage(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid package id"})
	}
	if err := h.Packages.Delete(c.Request().Context(), id); err != nil {
		return jsonError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListBookings handles GET /v1/admin/package-bookings with an optional
// status filter.
func (h *AdminPackageHandler) ListBookings(c echo.Context) error {
	status := strings.TrimSpace(c.QueryParam("status"))
	if status != "" && !h.rules.Valid(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
	}
	details, err := h.Bookings.ListAdmin(c.Request().Context(), status)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": details})
}

type decideReq struct {
	Status string `json:"status"` // approved | rejected
}

// Decide handles PATCH /v1/admin/package-bookings/:id/status.  Approve
// and reject clear the requester's notified flag in the same statement
// as the status rewrite, so the student sees exactly one unseen update
// per decision.
func (h *AdminPackageHandler) Decide(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req decideReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Status = strings.ToLower(strings.TrimSpace(req.Status))
	if !h.rules.Valid(req.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
	}

	ctx := c.Request().Context()
	tx, err := h.Bookings.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	booking, err := h.Bookings.GetByIDTx(ctx, tx, id)
	if err != nil {
		return jsonError(c, err)
	}
	if _, err := h.rules.Transition(booking.Status, req.Status, lifecycle.ActorAdmin); err != nil {
		return jsonError(c, err)
	}
	clear := h.rules.ClearsNotified(req.Status)
	if err := h.Bookings.UpdateStatusTx(ctx, tx, booking.ID, req.Status, clear); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	publishStatus(queue.BookingStatusEvent{
		BookingID:   booking.ID,
		BookingKind: "package",
		UserID:      booking.UserID,
		ItemID:      booking.PackageID,
		FromStatus:  booking.Status,
		ToStatus:    req.Status,
		TotalPrice:  booking.TotalPrice.String(),
		ChangedAt:   time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusOK, echo.Map{"id": booking.ID, "status": req.Status})
}
