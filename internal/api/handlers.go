// Package api exposes the generation pipeline over HTTP and serves the
// generated sites for preview.
package api

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"promptsite/internal/ai"
	"promptsite/internal/extract"
	"promptsite/internal/sanitize"
	"promptsite/internal/site"
)

// SiteGenerator is the slice of ai.Generator the handlers need.
type SiteGenerator interface {
	Generate(ctx context.Context, prompt string) (*ai.Result, error)
}

// Handler holds dependencies for the API endpoints.
type Handler struct {
	generator  SiteGenerator
	outputRoot string
	logger     *zap.Logger
}

func NewHandler(generator SiteGenerator, outputRoot string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		generator:  generator,
		outputRoot: outputRoot,
		logger:     logger,
	}
}

type GenerateRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

type GenerateResponse struct {
	ProjectID   string             `json:"projectId"`
	PreviewPath string             `json:"previewPath"`
	Strategy    string             `json:"strategy"`
	Findings    []sanitize.Finding `json:"findings"`
}

// POST /project/generate
func (h *Handler) GenerateSite(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	res, err := h.generator.Generate(c.Request.Context(), req.Prompt)
	if err != nil {
		var unparseable *extract.UnparseableError
		if errors.As(err, &unparseable) {
			h.logger.Warn("model output unparseable", zap.String("preview", unparseable.Preview))
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":      "model output could not be parsed into site files",
				"rawPreview": unparseable.Preview,
			})
			return
		}
		h.logger.Error("generation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "generation failed"})
		return
	}

	findings := res.Findings
	if findings == nil {
		findings = []sanitize.Finding{}
	}
	c.JSON(http.StatusCreated, GenerateResponse{
		ProjectID:   res.ProjectID,
		PreviewPath: "/sites/" + res.ProjectID + "/",
		Strategy:    res.Strategy,
		Findings:    findings,
	})
}

// GET /project/:id/files
func (h *Handler) GetProjectFiles(c *gin.Context) {
	dir, ok := h.projectDir(c)
	if !ok {
		return
	}
	if _, err := os.Stat(dir); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		return
	}

	files := gin.H{}
	for _, name := range []string{site.IndexFile, site.StylesFile, site.ScriptFile} {
		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			h.logger.Error("reading project file", zap.String("file", name), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not read project files"})
			return
		}
		files[name] = string(content)
	}
	c.JSON(http.StatusOK, files)
}

// DELETE /project/:id
func (h *Handler) DeleteProject(c *gin.Context) {
	dir, ok := h.projectDir(c)
	if !ok {
		return
	}
	if err := site.Clear(dir); err != nil {
		h.logger.Error("clearing project", zap.String("dir", dir), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete project"})
		return
	}
	if err := os.Remove(dir); err != nil && !os.IsNotExist(err) {
		h.logger.Warn("removing project dir", zap.String("dir", dir), zap.Error(err))
	}
	c.Status(http.StatusNoContent)
}

// projectDir validates the :id path parameter (project IDs are UUIDs, which
// also rules out path traversal) and resolves it under the output root.
func (h *Handler) projectDir(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project id"})
		return "", false
	}
	return filepath.Join(h.outputRoot, id), true
}
