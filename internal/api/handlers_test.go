package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"promptsite/internal/ai"
	"promptsite/internal/extract"
	"promptsite/internal/sanitize"
	"promptsite/internal/site"
)

type stubGenerator struct {
	result *ai.Result
	err    error
}

func (s *stubGenerator) Generate(ctx context.Context, prompt string) (*ai.Result, error) {
	return s.result, s.err
}

func newTestRouter(t *testing.T, gen SiteGenerator, outputRoot string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	RegisterRoutes(router, NewHandler(gen, outputRoot, zap.NewNop()), outputRoot)
	return router
}

func doJSON(router *gin.Engine, method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestGenerateSiteSuccess(t *testing.T) {
	projectID := uuid.New().String()
	gen := &stubGenerator{result: &ai.Result{
		ProjectID: projectID,
		Dir:       filepath.Join("out", projectID),
		Strategy:  "json",
		Findings:  []sanitize.Finding{{Category: sanitize.CategoryFetch, Rule: "fetch-call"}},
	}}
	router := newTestRouter(t, gen, t.TempDir())

	rec := doJSON(router, http.MethodPost, "/project/generate", []byte(`{"prompt":"a blog"}`))

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp GenerateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, projectID, resp.ProjectID)
	assert.Equal(t, "/sites/"+projectID+"/", resp.PreviewPath)
	assert.Equal(t, "json", resp.Strategy)
	require.Len(t, resp.Findings, 1)
}

func TestGenerateSiteMissingPrompt(t *testing.T) {
	router := newTestRouter(t, &stubGenerator{}, t.TempDir())

	rec := doJSON(router, http.MethodPost, "/project/generate", []byte(`{}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateSiteUnparseable(t *testing.T) {
	gen := &stubGenerator{err: &extract.UnparseableError{Preview: "gibberish from the model"}}
	router := newTestRouter(t, gen, t.TempDir())

	rec := doJSON(router, http.MethodPost, "/project/generate", []byte(`{"prompt":"a blog"}`))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "gibberish from the model")
}

func TestGenerateSiteInternalError(t *testing.T) {
	gen := &stubGenerator{err: assert.AnError}
	router := newTestRouter(t, gen, t.TempDir())

	rec := doJSON(router, http.MethodPost, "/project/generate", []byte(`{"prompt":"a blog"}`))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGetProjectFiles(t *testing.T) {
	root := t.TempDir()
	projectID := uuid.New().String()
	dir := filepath.Join(root, projectID)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for name, content := range map[string]string{
		site.IndexFile:  "<html>x</html>",
		site.StylesFile: "body{}",
		site.ScriptFile: "run()",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	router := newTestRouter(t, &stubGenerator{}, root)

	rec := doJSON(router, http.MethodGet, "/project/"+projectID+"/files", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var files map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &files))
	assert.Equal(t, "<html>x</html>", files[site.IndexFile])
	assert.Equal(t, "body{}", files[site.StylesFile])
	assert.Equal(t, "run()", files[site.ScriptFile])
}

func TestGetProjectFilesNotFound(t *testing.T) {
	router := newTestRouter(t, &stubGenerator{}, t.TempDir())

	rec := doJSON(router, http.MethodGet, "/project/"+uuid.New().String()+"/files", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetProjectFilesInvalidID(t *testing.T) {
	router := newTestRouter(t, &stubGenerator{}, t.TempDir())

	rec := doJSON(router, http.MethodGet, "/project/..%2F..%2Fetc/files", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteProject(t *testing.T) {
	root := t.TempDir()
	projectID := uuid.New().String()
	dir := filepath.Join(root, projectID)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, site.IndexFile), []byte("x"), 0o644))
	router := newTestRouter(t, &stubGenerator{}, root)

	rec := doJSON(router, http.MethodDelete, "/project/"+projectID, nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.NoDirExists(t, dir)
}

func TestDeleteProjectMissingIsNoop(t *testing.T) {
	router := newTestRouter(t, &stubGenerator{}, t.TempDir())

	rec := doJSON(router, http.MethodDelete, "/project/"+uuid.New().String(), nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t, &stubGenerator{}, t.TempDir())

	rec := doJSON(router, http.MethodGet, "/health", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}
