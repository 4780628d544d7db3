package routes

import (
	audiosapi "portfolio-app/internal/api/audios"
	authapi "portfolio-app/internal/api/auth"
	worksapi "portfolio-app/internal/api/works"
	"portfolio-app/internal/app/http/middleware"
	"portfolio-app/internal/domain/users"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Auth     *authapi.Handler
	Artworks *worksapi.Handler
	Audios   *audiosapi.Handler
}

func RegisterRoutes(r *gin.Engine, h Handlers) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/auth/google", h.Auth.GoogleStart)
	r.GET("/auth/google/callback", h.Auth.GoogleCallback)

	// Public, a valid token upgrades the viewer to the owner
	public := r.Group("/")
	public.Use(middleware.OptionalAuth(), middleware.SanitizeAndCleanInputMiddleware())

	public.POST("/login", h.Auth.Login)

	public.GET("/artworks", h.Artworks.List)
	public.GET("/artworks/slug/:slug", h.Artworks.GetBySlug)
	public.GET("/artworks/:id", h.Artworks.Get)
	public.GET("/artworks/:id/related", h.Artworks.Related)
	public.GET("/artworks/:id/theme", h.Artworks.Theme)
	public.GET("/artworks/:id/audios", h.Artworks.Audios)

	public.GET("/audios", h.Audios.List)
	public.GET("/audios/:id", h.Audios.Get)

	// Authenticated
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware())
	auth.GET("/me", h.Auth.Me)
	auth.POST("/change-password", h.Auth.ChangePassword)

	// Owner edit mode
	owner := r.Group("/")
	owner.Use(middleware.AuthMiddleware(), middleware.RequireRole(users.RoleOwner), middleware.SanitizeAndCleanInputMiddleware())

	owner.POST("/artworks/upload", h.Artworks.Upload)
	owner.POST("/artworks/:id/regenerate", h.Artworks.Regenerate)

	owner.POST("/artworks", h.Artworks.Create)
	owner.PUT("/artworks/:id", h.Artworks.Update)
	owner.DELETE("/artworks/:id", h.Artworks.Delete)

	owner.POST("/artworks/:id/publish", h.Artworks.Publish)
	owner.POST("/artworks/:id/unpublish", h.Artworks.Unpublish)

	owner.POST("/artworks/:id/audios/:audioId", h.Artworks.LinkAudio)
	owner.DELETE("/artworks/:id/audios/:audioId", h.Artworks.UnlinkAudio)

	owner.POST("/audios", h.Audios.Create)
	owner.PUT("/audios/:id", h.Audios.Update)
	owner.DELETE("/audios/:id", h.Audios.Delete)
}
