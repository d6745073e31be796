package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/unitravel/tour-booking-api/internal/lifecycle"
	"github.com/unitravel/tour-booking-api/internal/model"
	"github.com/unitravel/tour-booking-api/internal/queue"
	"github.com/unitravel/tour-booking-api/internal/repository"
)

// AdminBookingHandler serves the study tour booking management
// endpoints.  Status rewrites run through the same lifecycle rules as
// the student paths, with the administrator actor.
type AdminBookingHandler struct {
	Bookings *repository.BookingRepo
	Dates    *repository.TourDateRepo
	rules    lifecycle.Rules
}

func NewAdminBookingHandler(bookings *repository.BookingRepo, dates *repository.TourDateRepo) *AdminBookingHandler {
	if bookings == nil || dates == nil {
		panic("nil repository passed to NewAdminBookingHandler")
	}
	return &AdminBookingHandler{Bookings: bookings, Dates: dates, rules: lifecycle.TourRules()}
}

// List handles GET /v1/admin/bookings.  Supports search over student
// name, email, student number and tour name, a status filter and
// pagination, and always returns the per-status totals for the
// dashboard header.
func (h *AdminBookingHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	perPage, _ := strconv.Atoi(c.QueryParam("per_page"))
	filter := repository.AdminFilter{
		Search:  strings.TrimSpace(c.QueryParam("search")),
		Status:  strings.TrimSpace(c.QueryParam("status")),
		Page:    page,
		PerPage: perPage,
	}
	if filter.Status != "" && !h.rules.Valid(filter.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
	}

	ctx := c.Request().Context()
	details, total, err := h.Bookings.ListAdmin(ctx, filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	counts, err := h.Bookings.StatusCounts(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"bookings": details,
		"total":    total,
		"counts":   counts,
	})
}

type updateStatusReq struct {
	Status     string `json:"status"`
	AdminNotes string `json:"admin_notes"`
}

// UpdateStatus handles PATCH /v1/admin/bookings/:id/status.  The ledger
// effect decided by the rules is applied in the same transaction as the
// status rewrite.  Restoring a cancelled booking takes a slot when one
// is left but proceeds regardless, so an over-restored date can go
// oversold rather than blocking the administrator.
func (h *AdminBookingHandler) UpdateStatus(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req updateStatusReq
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

	effect, err := h.rules.Transition(booking.Status, req.Status, lifecycle.ActorAdmin)
	if err != nil {
		return jsonError(c, err)
	}
	switch effect {
	case lifecycle.EffectRelease:
		if err := h.Dates.ReleaseTx(ctx, tx, booking.TourDateID); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
	case lifecycle.EffectReserveIfAvailable:
		if err := h.Dates.ReserveTx(ctx, tx, booking.TourDateID); err != nil && !errors.Is(err, repository.ErrNoCapacity) {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
	}
	if err := h.Bookings.UpdateStatusTx(ctx, tx, booking.ID, req.Status); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if notes := strings.TrimSpace(req.AdminNotes); notes != "" {
		if err := h.Bookings.SetAdminNotesTx(ctx, tx, booking.ID, notes); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	publishStatus(queue.BookingStatusEvent{
		BookingID:   booking.ID,
		BookingKind: "tour",
		UserID:      booking.UserID,
		ItemID:      booking.TourID,
		FromStatus:  booking.Status,
		ToStatus:    req.Status,
		TotalPrice:  booking.TotalPrice.String(),
		ChangedAt:   time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusOK, echo.Map{"id": booking.ID, "status": req.Status})
}

// Delete handles DELETE /v1/admin/bookings/:id.  Deleting a booking that
// still holds a slot releases it in the same transaction so the ledger
// invariant survives.
func (h *AdminBookingHandler) Delete(c echo.Context) error {
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
	if h.rules.Active(booking.Status) {
		if err := h.Dates.ReleaseTx(ctx, tx, booking.TourDateID); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
	}
	if err := h.Bookings.DeleteTx(ctx, tx, booking.ID); err != nil {
		return jsonError(c, err)
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true
	return c.NoContent(http.StatusNoContent)
}

// ApproveAll handles POST /v1/admin/bookings/approve-all.  Confirming a
// pending booking has no ledger effect, so the whole batch is one
// UPDATE in one transaction: all or nothing.
func (h *AdminBookingHandler) ApproveAll(c echo.Context) error {
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

	n, err := h.Bookings.ApproveAllPendingTx(ctx, tx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true
	return c.JSON(http.StatusOK, echo.Map{"approved": n})
}

// RestoreAll handles POST /v1/admin/bookings/restore-all.  Every
// cancelled booking that can still get a slot goes back to pending;
// dates with no capacity left are skipped and reported, and the whole
// batch commits as one transaction.
func (h *AdminBookingHandler) RestoreAll(c echo.Context) error {
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

	refs, err := h.Bookings.ListCancelledTx(ctx, tx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	restored := make([]uint64, 0, len(refs))
	skipped := make([]uint64, 0)
	for _, ref := range refs {
		if err := h.Dates.ReserveTx(ctx, tx, ref.TourDateID); err != nil {
			if errors.Is(err, repository.ErrNoCapacity) {
				skipped = append(skipped, ref.ID)
				continue
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		if err := h.Bookings.UpdateStatusTx(ctx, tx, ref.ID, model.BookingPending); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		restored = append(restored, ref.ID)
	}

	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true
	return c.JSON(http.StatusOK, echo.Map{
		"restored": len(restored),
		"skipped":  skipped,
	})
}
