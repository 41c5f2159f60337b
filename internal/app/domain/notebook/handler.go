package notebook

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-tripweaver/internal/app/handlers"
	"github.com/FACorreiaa/go-tripweaver/internal/app/middleware"
	"github.com/FACorreiaa/go-tripweaver/internal/app/models"
)

// Handler exposes the per-user notebook session over HTTP. Every endpoint
// operates on the authenticated user's session.
type Handler struct {
	sessions *Manager
	logger   *zap.Logger
}

func NewHandler(sessions *Manager, logger *zap.Logger) *Handler {
	return &Handler{sessions: sessions, logger: logger}
}

func (h *Handler) session(c *gin.Context) (*Session, bool) {
	userID := middleware.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return nil, false
	}
	return h.sessions.Get(userID), true
}

// GetState godoc
// @Summary Current notebook session state
// @Tags notebook
// @Produce json
// @Success 200 {object} State
// @Router /api/notebook [get]
func (h *Handler) GetState(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, session.Snapshot())
}

// LoadItinerary godoc
// @Summary Load a stored itinerary into the session
// @Tags notebook
// @Produce json
// @Param id path string true "Itinerary ID"
// @Success 200 {object} State
// @Failure 404 {object} map[string]string
// @Router /api/notebook/load/{id} [post]
func (h *Handler) LoadItinerary(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	itineraryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid itinerary ID"})
		return
	}

	if err := session.Load(c.Request.Context(), itineraryID); err != nil {
		handlers.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, session.Snapshot())
}

// UpdateEditorData godoc
// @Summary Apply a user edit to the notebook document
// @Description Replaces the block document, reprojects the structured
// @Description itinerary and schedules a debounced auto-save.
// @Tags notebook
// @Accept json
// @Produce json
// @Param document body models.BlockDocument true "Block document"
// @Success 200 {object} State
// @Failure 400 {object} map[string]string
// @Router /api/notebook/editor-data [put]
func (h *Handler) UpdateEditorData(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var doc models.BlockDocument
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	session.UpdateEditorData(&doc)
	c.JSON(http.StatusOK, session.Snapshot())
}

// SetDirections godoc
// @Summary Replace the session's directions data
// @Tags notebook
// @Accept json
// @Produce json
// @Success 200 {object} State
// @Router /api/notebook/directions [put]
func (h *Handler) SetDirections(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var routes models.RouteData
	if err := c.ShouldBindJSON(&routes); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	session.SetDirections(&routes)
	c.JSON(http.StatusOK, session.Snapshot())
}

type metadataRequest struct {
	Title    string               `json:"title"`
	Metadata *models.TripMetadata `json:"metadata"`
}

// SetMetadata godoc
// @Summary Update the session's title and trip metadata
// @Tags notebook
// @Accept json
// @Produce json
// @Success 200 {object} State
// @Router /api/notebook/metadata [put]
func (h *Handler) SetMetadata(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req metadataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	session.SetMetadata(req.Title, req.Metadata)
	c.JSON(http.StatusOK, session.Snapshot())
}

type selectPlaceRequest struct {
	UID string `json:"uid"`
}

// SelectPlace godoc
// @Summary Select a place in the notebook
// @Description Selection is transient UI state; it never dirties the session.
// @Tags notebook
// @Accept json
// @Produce json
// @Success 200 {object} State
// @Router /api/notebook/select-place [post]
func (h *Handler) SelectPlace(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req selectPlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	session.SelectPlace(req.UID)
	c.JSON(http.StatusOK, session.Snapshot())
}

// Save godoc
// @Summary Persist the session immediately
// @Description Manual save and the retry path after a failed auto-save.
// @Tags notebook
// @Produce json
// @Success 200 {object} State
// @Failure 502 {object} map[string]string
// @Router /api/notebook/save [post]
func (h *Handler) Save(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	if err := session.Flush(c.Request.Context()); err != nil {
		handlers.RespondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, session.Snapshot())
}

// Clear godoc
// @Summary Reset the notebook session
// @Tags notebook
// @Produce json
// @Success 200 {object} State
// @Router /api/notebook [delete]
func (h *Handler) Clear(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	session.ClearItinerary()
	c.JSON(http.StatusOK, session.Snapshot())
}
