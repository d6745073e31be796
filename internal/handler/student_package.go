package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/unitravel/tour-booking-api/internal/lifecycle"
	"github.com/unitravel/tour-booking-api/internal/model"
	"github.com/unitravel/tour-booking-api/internal/queue"
	"github.com/unitravel/tour-booking-api/internal/repository"
)

// StudentPackageHandler serves the travel package booking endpoints for
// the authenticated student.  Package bookings carry no slot ledger;
// their lifecycle is a pure status machine plus the notified flag, which
// only an explicit acknowledge call ever sets.
type StudentPackageHandler struct {
	Packages *repository.PackageRepo
	Bookings *repository.PackageBookingRepo
	rules    lifecycle.Rules
}

func NewStudentPackageHandler(packages *repository.PackageRepo, bookings *repository.PackageBookingRepo) *StudentPackageHandler {
	if packages == nil || bookings == nil {
		panic("nil repository passed to NewStudentPackageHandler")
	}
	return &StudentPackageHandler{Packages: packages, Bookings: bookings, rules: lifecycle.PackageRules()}
}

type createPackageBookingReq struct {
	PackageID uint64 `json:"package_id"`
	Quantity  int    `json:"quantity"`
	Notes     string `json:"notes"`
}

// Create handles POST /v1/package-bookings.  The total price is the
// package price times the traveller count, computed server side.
func (h *StudentPackageHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createPackageBookingReq
	if err := c.Bind(&req); err != nil || req.PackageID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "package_id required"})
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}

	ctx := c.Request().Context()
	pkg, err := h.Packages.GetActiveByID(ctx, req.PackageID)
	if err != nil {
		return jsonError(c, err)
	}

	if _, err := h.rules.Transition(lifecycle.StatusNone, h.rules.Initial, lifecycle.ActorRequester); err != nil {
		return jsonError(c, err)
	}

	booking := model.PackageBooking{
		UserID:     userID,
		PackageID:  pkg.ID,
		Status:     h.rules.Initial,
		Quantity:   req.Quantity,
		TotalPrice: pkg.Price.Mul(decimalFromInt(req.Quantity)),
		Notes:      strings.TrimSpace(req.Notes),
	}
	if err := h.Bookings.Create(ctx, &booking); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	publishStatus(queue.BookingStatusEvent{
		BookingID:   booking.ID,
		BookingKind: "package",
		UserID:      userID,
		ItemID:      pkg.ID,
		ItemName:    pkg.Name,
		FromStatus:  lifecycle.StatusNone,
		ToStatus:    booking.Status,
		TotalPrice:  booking.TotalPrice.String(),
		ChangedAt:   time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, echo.Map{
		"id":          booking.ID,
		"status":      booking.Status,
		"total_price": booking.TotalPrice,
	})
}

// List handles GET /v1/package-bookings.  Listing never marks decisions
// as seen; the client calls Acknowledge for that.
func (h *StudentPackageHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	details, err := h.Bookings.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": details})
}

// Acknowledge handles POST /v1/package-bookings/acknowledge.  It marks
// all of the student's decided bookings as seen and reports how many
// were affected.
func (h *StudentPackageHandler) Acknowledge(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	n, err := h.Bookings.AcknowledgeByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"acknowledged": n})
}

// Cancel handles POST /v1/package-bookings/:id/cancel.  Students may
// only cancel while the booking is still pending.
func (h *StudentPackageHandler) Cancel(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
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
	if booking.UserID != userID {
		return jsonError(c, repository.ErrForbidden)
	}
	if _, err := h.rules.Transition(booking.Status, model.PackageCancelled, lifecycle.ActorRequester); err != nil {
		return jsonError(c, err)
	}
	if err := h.Bookings.UpdateStatusTx(ctx, tx, booking.ID, model.PackageCancelled, false); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	publishStatus(queue.BookingStatusEvent{
		BookingID:   booking.ID,
		BookingKind: "package",
		UserID:      userID,
		ItemID:      booking.PackageID,
		FromStatus:  booking.Status,
		ToStatus:    model.PackageCancelled,
		TotalPrice:  booking.TotalPrice.String(),
		ChangedAt:   time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusOK, echo.Map{"id": booking.ID, "status": model.PackageCancelled})
}
