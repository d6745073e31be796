package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/unitravel/tour-booking-api/internal/model"
	"github.com/unitravel/tour-booking-api/internal/repository"
)

// AdminMessageHandler serves the contact message inbox.
type AdminMessageHandler struct {
	Messages *repository.MessageRepo
}

func NewAdminMessageHandler(messages *repository.MessageRepo) *AdminMessageHandler {
	if messages == nil {
		panic("nil repository passed to NewAdminMessageHandler")
	}
	return &AdminMessageHandler{Messages: messages}
}

// List handles GET /v1/admin/messages with an optional status filter.
func (h *AdminMessageHandler) List(c echo.Context) error {
	status := strings.TrimSpace(c.QueryParam("status"))
	switch status {
	case "", model.MessageUnread, model.MessageRead, model.MessageReplied:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
	}
	msgs, err := h.Messages.List(c.Request().Context(), status)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"messages": msgs})
}

type messageStatusReq struct {
	Status string `json:"status"`
}

// SetStatus handles PATCH /v1/admin/messages/:id.
func (h *AdminMessageHandler) SetStatus(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid message id"})
	}
	var req messageStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Status = strings.ToLower(strings.TrimSpace(req.Status))
	switch req.Status {
	case model.MessageUnread, model.MessageRead, model.MessageReplied:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
	}
	if err := h.Messages.SetStatus(c.Request().Context(), id, req.Status); err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "status": req.Status})
}

// Delete handles DELETE /v1/admin/messages/:id.
func (h *AdminMessageHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid message id"})
	}
	if err := h.Messages.Delete(c.Request().Context(), id); err != nil {
		return jsonError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
