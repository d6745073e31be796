package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/unitravel/tour-booking-api/internal/model"
	"github.com/unitravel/tour-booking-api/internal/repository"
)

// ContactHandler serves the public contact form.  It keeps the JWT
// secret so a presented token can link the message to an account even
// though the route itself requires no authentication.
type ContactHandler struct {
	Messages  *repository.MessageRepo
	jwtSecret string
}

func NewContactHandler(messages *repository.MessageRepo, jwtSecret string) *ContactHandler {
	if messages == nil {
		panic("nil repository passed to NewContactHandler")
	}
	return &ContactHandler{Messages: messages, jwtSecret: jwtSecret}
}

type contactReq struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
}

// Submit handles POST /v1/contact.  The endpoint works for anonymous
// visitors; when the caller carries a valid token the message is linked
// to their account.
func (h *ContactHandler) Submit(c echo.Context) error {
	var req contactReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Subject = strings.ToLower(strings.TrimSpace(req.Subject))
	req.Message = strings.TrimSpace(req.Message)

	if req.FirstName == "" || req.Email == "" || req.Message == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "first_name, email and message are required"})
	}
	if !model.MessageSubjects[req.Subject] {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown subject"})
	}

	msg := model.ContactMessage{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     strings.TrimSpace(req.Phone),
		Subject:   req.Subject,
		Message:   req.Message,
	}
	// Link to the account when a valid token was presented.
	if uid, ok := bearerUserID(c, h.jwtSecret); ok {
		msg.UserID = &uid
	}

	id, err := h.Messages.Create(c.Request().Context(), &msg)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}
