package works

import (
	"context"
	"errors"
	"net/http"

	"portfolio-app/internal/domain/works"
	"portfolio-app/internal/gallery"
	"portfolio-app/internal/pipeline"
	"portfolio-app/internal/store"

	"github.com/gin-gonic/gin"
)

func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Artwork not found"})
	case errors.Is(err, store.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "An artwork with this title already exists"})
	case errors.Is(err, works.ErrInvalidDerivation),
		errors.Is(err, works.ErrInvalidPatch),
		errors.Is(err, works.ErrInvalidKind),
		errors.Is(err, gallery.ErrInvalidArtwork):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// writePipelineResult renders the tagged {status, message, data} shape.
func writePipelineResult(c *gin.Context, res pipeline.Result, err error, okStatus int) {
	if err != nil {
		_ = c.Error(err)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			c.JSON(http.StatusServiceUnavailable, pipeline.Result{
				Status:  pipeline.StatusError,
				Message: "Request cancelled before the artwork was saved",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, pipeline.Result{
			Status:  pipeline.StatusError,
			Message: "Failed to generate and save artwork metadata",
		})
		return
	}

	if res.OK() {
		c.JSON(okStatus, res)
		return
	}

	_ = c.Error(res.Err)
	status := http.StatusBadGateway
	switch {
	case errors.Is(res.Err, pipeline.ErrInvalidRequest):
		status = http.StatusBadRequest
	case errors.Is(res.Err, pipeline.ErrBusy), errors.Is(res.Err, store.ErrConflict):
		status = http.StatusConflict
	case errors.Is(res.Err, pipeline.ErrPersistence):
		status = http.StatusInternalServerError
	}
	c.JSON(status, res)
}
