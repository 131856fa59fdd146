package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes sets up the API endpoints and the static preview mount.
func RegisterRoutes(router *gin.Engine, h *Handler, outputRoot string) {

	// --- Project lifecycle ---
	projectGroup := router.Group("/project")
	{
		projectGroup.POST("/generate", h.GenerateSite)
		projectGroup.GET("/:id/files", h.GetProjectFiles)
		projectGroup.DELETE("/:id", h.DeleteProject)
	}

	// --- Static preview ---
	// Serves the generated sites; index.html is the directory index, so
	// /sites/<id>/ is a project's preview URL.
	router.Static("/sites", outputRoot)

	// --- Simple health check ---
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
