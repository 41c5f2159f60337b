package trips

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-tripweaver/internal/app/handlers"
	"github.com/FACorreiaa/go-tripweaver/internal/app/middleware"
)

type Handler struct {
	service *Service
	logger  *zap.Logger
}

func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// List godoc
// @Summary List saved itineraries
// @Tags itineraries
// @Produce json
// @Param q query string false "Title search term"
// @Success 200 {array} models.ItinerarySummary
// @Failure 401 {object} map[string]string
// @Router /api/itineraries [get]
func (h *Handler) List(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)
	summaries, err := h.service.List(c.Request.Context(), userID, c.Query("q"))
	if err != nil {
		handlers.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, summaries)
}

// Get godoc
// @Summary Fetch a stored itinerary
// @Tags itineraries
// @Produce json
// @Param id path string true "Itinerary ID"
// @Success 200 {object} models.StoredItinerary
// @Failure 404 {object} map[string]string
// @Router /api/itineraries/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)
	itineraryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid itinerary ID"})
		return
	}

	stored, err := h.service.Load(c.Request.Context(), userID, itineraryID)
	if err != nil {
		handlers.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, stored)
}

// Delete godoc
// @Summary Delete a stored itinerary
// @Tags itineraries
// @Produce json
// @Param id path string true "Itinerary ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/itineraries/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)
	itineraryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid itinerary ID"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), userID, itineraryID); err != nil {
		handlers.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
