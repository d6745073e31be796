package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/unitravel/tour-booking-api/internal/model"
	"github.com/unitravel/tour-booking-api/internal/repository"
)

// AdminSpotHandler serves tourist spot management.
type AdminSpotHandler struct {
	Spots *repository.SpotRepo
}

func NewAdminSpotHandler(spots *repository.SpotRepo) *AdminSpotHandler {
	if spots == nil {
		panic("nil repository passed to NewAdminSpotHandler")
	}
	return &AdminSpotHandler{Spots: spots}
}

type spotReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	Highlights  string `json:"highlights"`
	TravelInfo  string `json:"travel_info"`
	BestTime    string `json:"best_time"`
	SafetyInfo  string `json:"safety_info"`
}

// Create handles POST /v1/admin/spots.
func (h *AdminSpotHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req spotReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	id, err := h.Spots.Create(c.Request().Context(), &model.TouristSpot{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Highlights:  req.Highlights,
		TravelInfo:  req.TravelInfo,
		BestTime:    req.BestTime,
		SafetyInfo:  req.SafetyInfo,
		CreatedBy:   userID,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// Update handles PUT /v1/admin/spots/:id.
func (h *AdminSpotHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid spot id"})
	}
	var req spotReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}
	err := h.Spots.Update(c.Request().Context(), &model.TouristSpot{
		ID:          id,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Highlights:  req.Highlights,
		TravelInfo:  req.TravelInfo,
		BestTime:    req.BestTime,
		SafetyInfo:  req.SafetyInfo,
	})
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id})
}

// Delete handles DELETE /v1/admin/spots/:id.
func (h *AdminSpotHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid spot id"})
	}
	if err := h.Spots.Delete(c.Request().Context(), id); err != nil {
		return jsonError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
