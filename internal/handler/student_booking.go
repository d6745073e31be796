package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/unitravel/tour-booking-api/internal/lifecycle"
	"github.com/unitravel/tour-booking-api/internal/model"
	"github.com/unitravel/tour-booking-api/internal/queue"
	"github.com/unitravel/tour-booking-api/internal/repository"
	queue_publisher "github.com/unitravel/tour-booking-api/internal/service"
)

// StudentBookingHandler serves the study tour booking endpoints for the
// authenticated student.  Every status change runs through the tour
// lifecycle rules, and the decided ledger effect is applied inside the
// same transaction that rewrites the booking row.
type StudentBookingHandler struct {
	Tours    *repository.TourRepo
	Dates    *repository.TourDateRepo
	Bookings *repository.BookingRepo
	rules    lifecycle.Rules
}

func NewStudentBookingHandler(tours *repository.TourRepo, dates *repository.TourDateRepo, bookings *repository.BookingRepo) *StudentBookingHandler {
	if tours == nil || dates == nil || bookings == nil {
		panic("nil repository passed to NewStudentBookingHandler")
	}
	return &StudentBookingHandler{Tours: tours, Dates: dates, Bookings: bookings, rules: lifecycle.TourRules()}
}

// publishStatus fires a booking.status event without blocking the
// request; broker failures are logged by the publisher and ignored.
func publishStatus(ev queue.BookingStatusEvent) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = queue_publisher.PublishBookingStatus(ctx, ev)
	}()
}

type createBookingReq struct {
	TourDateID          uint64 `json:"tour_date_id"`
	SpecialRequirements string `json:"special_requirements"`
}

// Create handles POST /v1/bookings.  The duplicate guard, the slot
// decrement and the booking insert all run in one transaction so two
// concurrent requests can never both take the last slot or double-book
// the same student on one date.
func (h *StudentBookingHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createBookingReq
	if err := c.Bind(&req); err != nil || req.TourDateID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tour_date_id required"})
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

	date, err := h.Dates.GetAvailableByIDTx(ctx, tx, req.TourDateID)
	if err != nil {
		return jsonError(c, err)
	}
	tour, err := h.Tours.GetActiveByID(ctx, date.TourID)
	if err != nil {
		return jsonError(c, err)
	}

	exists, err := h.Bookings.HasActiveTx(ctx, tx, userID, date.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if exists {
		return jsonError(c, repository.ErrDuplicateBooking)
	}

	effect, err := h.rules.Transition(lifecycle.StatusNone, h.rules.Initial, lifecycle.ActorRequester)
	if err != nil {
		return jsonError(c, err)
	}
	if effect == lifecycle.EffectReserve {
		if err := h.Dates.ReserveTx(ctx, tx, date.ID); err != nil {
			return jsonError(c, err)
		}
	}

	booking := model.TourBooking{
		UserID:              userID,
		TourID:              tour.ID,
		TourDateID:          date.ID,
		Status:              h.rules.Initial,
		TotalPrice:          tour.DiscountedPrice,
		SpecialRequirements: strings.TrimSpace(req.SpecialRequirements),
	}
	if err := h.Bookings.CreateTx(ctx, tx, &booking); err != nil {
		return jsonError(c, err)
	}

	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	publishStatus(queue.BookingStatusEvent{
		BookingID:   booking.ID,
		BookingKind: "tour",
		UserID:      userID,
		ItemID:      tour.ID,
		ItemName:    tour.Name,
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

// List handles GET /v1/bookings and returns the student's bookings with
// tour details, newest first.
func (h *StudentBookingHandler) List(c echo.Context) error {
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

// Detail handles GET /v1/bookings/:id for the owning student.
func (h *StudentBookingHandler) Detail(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	detail, err := h.Bookings.GetDetailForUser(c.Request().Context(), id, userID)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, detail)
}

// Cancel handles POST /v1/bookings/:id/cancel.  The released slot and
// the status rewrite land in the same transaction.
func (h *StudentBookingHandler) Cancel(c echo.Context) error {
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

	effect, err := h.rules.Transition(booking.Status, model.BookingCancelled, lifecycle.ActorRequester)
	if err != nil {
		return jsonError(c, err)
	}
	if effect == lifecycle.EffectRelease {
		if err := h.Dates.ReleaseTx(ctx, tx, booking.TourDateID); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
	}
	if err := h.Bookings.UpdateStatusTx(ctx, tx, booking.ID, model.BookingCancelled); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	publishStatus(queue.BookingStatusEvent{
		BookingID:   booking.ID,
		BookingKind: "tour",
		UserID:      userID,
		ItemID:      booking.TourID,
		FromStatus:  booking.Status,
		ToStatus:    model.BookingCancelled,
		TotalPrice:  booking.TotalPrice.String(),
		ChangedAt:   time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusOK, echo.Map{"id": booking.ID, "status": model.BookingCancelled})
}

// History handles GET /v1/bookings/history.  It returns every booking of
// the student together with per-status counts and the total spent on
// non-cancelled bookings.
func (h *StudentBookingHandler) History(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()
	details, err := h.Bookings.ListByUser(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	total, err := h.Bookings.TotalSpentByUser(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	counts := map[string]int{}
	for _, d := range details {
		counts[d.Status]++
	}
	return c.JSON(http.StatusOK, echo.Map{
		"bookings":    details,
		"counts":      counts,
		"total_spent": total,
	})
}
