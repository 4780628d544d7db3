package works

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"portfolio-app/internal/app/http/middleware"
	"portfolio-app/internal/domain/audio"
	"portfolio-app/internal/domain/works"
	"portfolio-app/internal/gallery"
	"portfolio-app/internal/pipeline"
	"portfolio-app/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const maxUploadBytes = 10 << 20

// Runner is the part of the metadata pipeline the handlers drive.
type Runner interface {
	Run(ctx context.Context, req pipeline.Request) (pipeline.Result, error)
	Upload(ctx context.Context, req pipeline.UploadRequest) (pipeline.Result, error)
}

type Handler struct {
	svc      *gallery.Service
	related  *gallery.Resolver
	pipeline Runner
	links    store.LinkStore
	log      zerolog.Logger
}

func NewHandler(svc *gallery.Service, related *gallery.Resolver, runner Runner, links store.LinkStore, log zerolog.Logger) *Handler {
	return &Handler{
		svc:      svc,
		related:  related,
		pipeline: runner,
		links:    links,
		log:      log.With().Str("component", "artworks-api").Logger(),
	}
}

func mustUserID(c *gin.Context) (uint, bool) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return 0, false
	}
	return userID, true
}

// ------------------------------
// GET /artworks
// ------------------------------
func (h *Handler) List(c *gin.Context) {
	page, err := h.svc.List(c.Request.Context(), listParams(c))
	if err != nil {
		writeError(c, err, "Failed to load artworks")
		return
	}
	if page.Items == nil {
		page.Items = []works.Artwork{}
	}
	c.JSON(http.StatusOK, page)
}

// ------------------------------
// GET /artworks/:id
// ------------------------------
func (h *Handler) Get(c *gin.Context) {
	a, err := h.svc.Get(c.Request.Context(), c.Param("id"), middleware.Viewer(c))
	if err != nil {
		writeError(c, err, "Failed to load artwork")
		return
	}
	c.JSON(http.StatusOK, a)
}

// ------------------------------
// GET /artworks/slug/:slug
// ------------------------------
func (h *Handler) GetBySlug(c *gin.Context) {
	a, err := h.svc.GetBySlug(c.Request.Context(), works.NormalizeSlug(c.Param("slug")), middleware.Viewer(c))
	if err != nil {
		writeError(c, err, "Failed to load artwork")
		return
	}
	c.JSON(http.StatusOK, a)
}

// ------------------------------
// GET /artworks/:id/related
// ------------------------------
func (h *Handler) Related(c *gin.Context) {
	ctx := c.Request.Context()
	viewer := middleware.Viewer(c)

	a, err := h.svc.Get(ctx, c.Param("id"), viewer)
	if err != nil {
		writeError(c, err, "Failed to load artwork")
		return
	}
	related, err := h.related.Related(ctx, a.ID, a.Kind, viewer)
	if err != nil {
		h.log.Error().Err(err).Str("artwork_id", a.ID).Msg("related lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch related artworks"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": related})
}

// ------------------------------
// GET /artworks/:id/theme
// ------------------------------
func (h *Handler) Theme(c *gin.Context) {
	swatches, err := h.svc.Theme(c.Request.Context(), c.Param("id"), middleware.Viewer(c))
	if err != nil {
		writeError(c, err, "Failed to load artwork theme")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": swatches})
}

// ------------------------------
// GET /artworks/:id/audios
// ------------------------------
func (h *Handler) Audios(c *gin.Context) {
	ctx := c.Request.Context()
	viewer := middleware.Viewer(c)

	a, err := h.svc.Get(ctx, c.Param("id"), viewer)
	if err != nil {
		writeError(c, err, "Failed to load artwork")
		return
	}
	list, err := h.links.ListArtworkAudios(ctx, a.ID, !viewer.CanSeeDrafts())
	if err != nil {
		writeError(c, err, "Failed to load artwork audios")
		return
	}
	if list == nil {
		list = []audio.Audio{}
	}
	c.JSON(http.StatusOK, gin.H{"data": list})
}

// ------------------------------
// POST /artworks/upload
// ------------------------------
func (h *Handler) Upload(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if fh.Size > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Image exceeds the 10MB upload limit"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file"})
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file"})
		return
	}
	if len(data) > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Image exceeds the 10MB upload limit"})
		return
	}

	var parentID *string
	if p := strings.TrimSpace(c.PostForm("parentId")); p != "" {
		parentID = &p
	}

	res, err := h.pipeline.Upload(c.Request.Context(), pipeline.UploadRequest{
		RequestID:    c.GetString("request_id"),
		Filename:     fh.Filename,
		Data:         data,
		Title:        strings.TrimSpace(c.PostForm("title")),
		Kind:         works.Kind(strings.TrimSpace(c.PostForm("type"))),
		OwnerID:      userID,
		Instructions: c.PostForm("information"),
		ParentID:     parentID,
	})
	writePipelineResult(c, res, err, http.StatusCreated)
}

// ------------------------------
// POST /artworks/:id/regenerate
// ------------------------------
func (h *Handler) Regenerate(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var body RegenerateRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	res, err := h.pipeline.Run(c.Request.Context(), pipeline.Request{
		RequestID:    c.GetString("request_id"),
		ExistingID:   c.Param("id"),
		Title:        strings.TrimSpace(body.Title),
		OwnerID:      userID,
		Instructions: body.Information,
	})
	writePipelineResult(c, res, err, http.StatusOK)
}

// ------------------------------
// POST /artworks
// ------------------------------
func (h *Handler) Create(c *gin.Context) {
	if _, ok := mustUserID(c); !ok {
		return
	}

	var body CreateArtworkRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	in, err := body.toNewArtwork()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	a, err := h.svc.Create(c.Request.Context(), in, middleware.Viewer(c))
	if err != nil {
		writeError(c, err, "Failed to create artwork")
		return
	}
	c.JSON(http.StatusCreated, a)
}

// ------------------------------
// PUT /artworks/:id
// ------------------------------
func (h *Handler) Update(c *gin.Context) {
	var body UpdateArtworkRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patch := body.toPatch()
	if patch.Empty() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
		return
	}

	a, err := h.svc.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		writeError(c, err, "Failed to update artwork")
		return
	}
	c.JSON(http.StatusOK, a)
}

// ------------------------------
// DELETE /artworks/:id
// ------------------------------
func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err, "Failed to delete artwork")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// ------------------------------
// POST /artworks/:id/publish
// ------------------------------
func (h *Handler) Publish(c *gin.Context) {
	h.setPublished(c, true)
}

// ------------------------------
// POST /artworks/:id/unpublish
// ------------------------------
func (h *Handler) Unpublish(c *gin.Context) {
	h.setPublished(c, false)
}

func (h *Handler) setPublished(c *gin.Context, published bool) {
	a, err := h.svc.SetPublished(c.Request.Context(), c.Param("id"), published)
	if err != nil {
		writeError(c, err, "Failed to change publish state")
		return
	}
	status := "unpublished"
	if published {
		status = "published"
	}
	c.JSON(http.StatusOK, gin.H{"status": status, "data": a})
}

// ------------------------------
// POST /artworks/:id/audios/:audioId
// ------------------------------
func (h *Handler) LinkAudio(c *gin.Context) {
	if err := h.links.LinkAudio(c.Request.Context(), c.Param("id"), c.Param("audioId")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Artwork or audio not found"})
			return
		}
		writeError(c, err, "Failed to link audio")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "linked"})
}

// ------------------------------
// DELETE /artworks/:id/audios/:audioId
// ------------------------------
func (h *Handler) UnlinkAudio(c *gin.Context) {
	if err := h.links.UnlinkAudio(c.Request.Context(), c.Param("id"), c.Param("audioId")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Link not found"})
			return
		}
		writeError(c, err, "Failed to unlink audio")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "unlinked"})
}
