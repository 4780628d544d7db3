package audios

import (
	"errors"
	"net/http"
	"strings"

	"portfolio-app/internal/app/http/middleware"
	"portfolio-app/internal/domain/audio"
	"portfolio-app/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type Handler struct {
	audios store.AudioStore
	log    zerolog.Logger
}

func NewHandler(audios store.AudioStore, log zerolog.Logger) *Handler {
	return &Handler{audios: audios, log: log.With().Str("component", "audios-api").Logger()}
}

func (h *Handler) fail(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Audio not found"})
	case errors.Is(err, store.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "An audio with this title already exists"})
	case errors.Is(err, audio.ErrInvalidPatch), errors.Is(err, audio.ErrInvalidKind):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg(fallback)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// ------------------------------
// GET /audios?tag=
// ------------------------------
func (h *Handler) List(c *gin.Context) {
	viewer := middleware.Viewer(c)
	list, err := h.audios.ListAudios(c.Request.Context(), strings.TrimSpace(c.Query("tag")), !viewer.CanSeeDrafts())
	if err != nil {
		h.fail(c, err, "Failed to load audios")
		return
	}
	if list == nil {
		list = []audio.Audio{}
	}
	c.JSON(http.StatusOK, gin.H{"data": list})
}

// ------------------------------
// GET /audios/:id
// ------------------------------
func (h *Handler) Get(c *gin.Context) {
	a, err := h.audios.GetAudio(c.Request.Context(), c.Param("id"))
	if err == nil && !a.Published && !middleware.Viewer(c).CanSeeDrafts() {
		err = store.ErrNotFound
	}
	if err != nil {
		h.fail(c, err, "Failed to load audio")
		return
	}
	c.JSON(http.StatusOK, a)
}

// ------------------------------
// POST /audios
// ------------------------------
func (h *Handler) Create(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var body CreateAudioRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a := body.toAudio(userID)
	if a.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}

	if err := h.audios.CreateAudio(c.Request.Context(), &a); err != nil {
		h.fail(c, err, "Failed to create audio")
		return
	}
	c.JSON(http.StatusCreated, a)
}

// ------------------------------
// PUT /audios/:id
// ------------------------------
func (h *Handler) Update(c *gin.Context) {
	var body UpdateAudioRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if body.empty() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
		return
	}

	patch := body.toPatch()
	if err := patch.Validate(); err != nil {
		h.fail(c, err, "Invalid audio")
		return
	}

	a, err := h.audios.UpdateAudio(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		h.fail(c, err, "Failed to update audio")
		return
	}
	c.JSON(http.StatusOK, a)
}

// ------------------------------
// DELETE /audios/:id
// ------------------------------
func (h *Handler) Delete(c *gin.Context) {
	if err := h.audios.DeleteAudio(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err, "Failed to delete audio")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
