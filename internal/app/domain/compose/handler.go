package compose

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-tripweaver/internal/app/domain/notebook"
	"github.com/FACorreiaa/go-tripweaver/internal/app/handlers"
	"github.com/FACorreiaa/go-tripweaver/internal/app/middleware"
)

type Handler struct {
	service  *Service
	sessions *notebook.Manager
	logger   *zap.Logger
}

func NewHandler(service *Service, sessions *notebook.Manager, logger *zap.Logger) *Handler {
	return &Handler{service: service, sessions: sessions, logger: logger}
}

// Generate godoc
// @Summary Generate an itinerary for a destination
// @Description Runs the full pipeline: LLM completion, parsing, place
// @Description enrichment and driving routes. The result is loaded into the
// @Description user's notebook session, which auto-saves it.
// @Tags compose
// @Accept json
// @Produce json
// @Param request body GenerateRequest true "Trip parameters"
// @Success 200 {object} GeneratedItinerary
// @Failure 400 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /api/itineraries/generate [post]
func (h *Handler) Generate(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	result, err := h.service.Generate(c.Request.Context(), &req)
	if err != nil {
		handlers.RespondError(c, h.logger, err)
		return
	}

	// Project the generated document into the notebook session so edits and
	// the debounced auto-save pick up from here.
	session := h.sessions.Get(userID)
	session.ClearItinerary()
	session.SetMetadata(result.Itinerary.Title, result.Metadata)
	session.SetDirections(result.Directions)
	session.SetEditorData(result.EditorData)

	c.JSON(http.StatusOK, result)
}
