package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/unitravel/tour-booking-api/internal/model"
	"github.com/unitravel/tour-booking-api/internal/queue"
	"github.com/unitravel/tour-booking-api/internal/repository"
)

// AdminPaymentHandler serves the payment verification queue.
type AdminPaymentHandler struct {
	Payments *repository.PaymentRepo
}

func NewAdminPaymentHandler(payments *repository.PaymentRepo) *AdminPaymentHandler {
	if payments == nil {
		panic("nil repository passed to NewAdminPaymentHandler")
	}
	return &AdminPaymentHandler{Payments: payments}
}

// List handles GET /v1/admin/payments with an optional status filter,
// oldest first so the verification queue drains in submission order.
func (h *AdminPaymentHandler) List(c echo.Context) error {
	status := strings.TrimSpace(c.QueryParam("status"))
	switch status {
	case "", model.PaymentPending, model.PaymentVerified, model.PaymentRejected:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
	}
	reviews, err := h.Payments.ListForReview(c.Request().Context(), status)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"payments": reviews})
}

type reviewReq struct {
	Status     string `json:"status"` // verified | rejected
	AdminNotes string `json:"admin_notes"`
}

// Review handles PATCH /v1/admin/payments/:id.  Only the two terminal
// verdicts are accepted; a pending payment stays pending until an
// administrator decides.
func (h *AdminPaymentHandler) Review(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment id"})
	}
	var req reviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Status = strings.ToLower(strings.TrimSpace(req.Status))
	if req.Status != model.PaymentVerified && req.Status != model.PaymentRejected {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be verified or rejected"})
	}

	ctx := c.Request().Context()
	detail, err := h.Payments.GetDetailByID(ctx, id)
	if err != nil {
		return jsonError(c, err)
	}
	if err := h.Payments.SetStatus(ctx, id, req.Status, strings.TrimSpace(req.AdminNotes)); err != nil {
		return jsonError(c, err)
	}

	publishStatus(queue.BookingStatusEvent{
		BookingID:   detail.BookingID,
		BookingKind: "payment",
		UserID:      detail.UserID,
		ItemID:      detail.PackageID,
		ItemName:    detail.PackageName,
		FromStatus:  detail.Status,
		ToStatus:    req.Status,
		TotalPrice:  detail.Amount.String(),
		ChangedAt:   time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusOK, echo.Map{"id": id, "status": req.Status})
}
