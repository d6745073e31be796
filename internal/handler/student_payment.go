package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/unitravel/tour-booking-api/internal/lifecycle"
	"github.com/unitravel/tour-booking-api/internal/model"
	"github.com/unitravel/tour-booking-api/internal/repository"
)

// StudentPaymentHandler serves payment submission and viewing for the
// authenticated student.  A payment may only be submitted against an
// approved package booking; resubmission overwrites the previous claim
// and forces it back to pending.
type StudentPaymentHandler struct {
	Bookings *repository.PackageBookingRepo
	Payments *repository.PaymentRepo
}

func NewStudentPaymentHandler(bookings *repository.PackageBookingRepo, payments *repository.PaymentRepo) *StudentPaymentHandler {
	if bookings == nil || payments == nil {
		panic("nil repository passed to NewStudentPaymentHandler")
	}
	return &StudentPaymentHandler{Bookings: bookings, Payments: payments}
}

type submitPaymentReq struct {
	Amount         decimal.Decimal `json:"amount"`
	ReferenceToken string          `json:"reference_token"`
}

// Submit handles POST /v1/package-bookings/:id/payment.  The booking
// lock, the validation and the upsert share one transaction so a
// concurrent admin decision cannot interleave with the claim.
func (h *StudentPaymentHandler) Submit(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req submitPaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.ReferenceToken = strings.TrimSpace(req.ReferenceToken)

	ctx := c.Request().Context()
	tx, err := h.Payments.DB().BeginTx(ctx, nil)
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
	if err := lifecycle.ValidatePayment(booking.Status, req.Amount, req.ReferenceToken); err != nil {
		return jsonError(c, err)
	}

	payment := model.Payment{
		BookingID:      booking.ID,
		Amount:         req.Amount,
		ReferenceToken: req.ReferenceToken,
	}
	if err := h.Payments.UpsertTx(ctx, tx, &payment); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	return c.JSON(http.StatusCreated, echo.Map{
		"booking_id": booking.ID,
		"status":     model.PaymentPending,
	})
}

// View handles GET /v1/package-bookings/:id/payment for the owning
// student.
func (h *StudentPaymentHandler) View(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	ctx := c.Request().Context()
	booking, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		return jsonError(c, err)
	}
	if booking.UserID != userID {
		return jsonError(c, repository.ErrForbidden)
	}
	payment, err := h.Payments.GetByBooking(ctx, booking.ID)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"booking_id":      payment.BookingID,
		"amount":          payment.Amount,
		"reference_token": payment.ReferenceToken,
		"status":          payment.Status,
		"admin_notes":     payment.AdminNotes,
		"created_at":      payment.CreatedAt,
		"updated_at":      payment.UpdatedAt,
	})
}
