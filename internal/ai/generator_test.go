package ai

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"promptsite/internal/extract"
	"promptsite/internal/sanitize"
	"promptsite/internal/site"
)

// stubClient returns queued responses in order; a response with a non-nil
// err simulates a failed model call.
type stubClient struct {
	responses []stubResponse
	calls     int
}

type stubResponse struct {
	text string
	err  error
}

func (s *stubClient) Name() string { return "stub" }

func (s *stubClient) Complete(ctx context.Context, system, user string) (string, error) {
	if s.calls >= len(s.responses) {
		return "", errors.New("stub client: no responses left")
	}
	resp := s.responses[s.calls]
	s.calls++
	return resp.text, resp.err
}

func newTestGenerator(t *testing.T, client Client, cfg GeneratorConfig) *Generator {
	t.Helper()
	sanitizer, err := sanitize.New(sanitize.DefaultConfig())
	require.NoError(t, err)
	return NewGenerator(
		client,
		extract.NewParser(zap.NewNop()),
		sanitizer,
		site.NewWriter(zap.NewNop()),
		cfg,
		zap.NewNop(),
	)
}

func TestGenerateWritesProject(t *testing.T) {
	root := t.TempDir()
	client := &stubClient{responses: []stubResponse{
		{text: `{"html":"<h1>Todo</h1>","css":"h1{color:red}","js":"fetch('/remote'); render()"}`},
	}}
	g := newTestGenerator(t, client, GeneratorConfig{OutputRoot: root})

	res, err := g.Generate(context.Background(), "a to-do list website")
	require.NoError(t, err)

	assert.NotEmpty(t, res.ProjectID)
	assert.Equal(t, filepath.Join(root, res.ProjectID), res.Dir)
	assert.Equal(t, "json", res.Strategy)
	require.Len(t, res.Findings, 1)
	assert.Equal(t, sanitize.CategoryFetch, res.Findings[0].Category)

	script, err := os.ReadFile(filepath.Join(res.Dir, site.ScriptFile))
	require.NoError(t, err)
	assert.NotContains(t, string(script), "fetch(")
	assert.Contains(t, string(script), "render()")

	index, err := os.ReadFile(filepath.Join(res.Dir, site.IndexFile))
	require.NoError(t, err)
	assert.Contains(t, string(index), "<h1>Todo</h1>")
}

func TestGenerateRetriesTransientFailure(t *testing.T) {
	client := &stubClient{responses: []stubResponse{
		{err: errors.New("429 rate limit exceeded")},
		{text: `{"html":"<p>ok</p>","css":"","js":""}`},
	}}
	g := newTestGenerator(t, client, GeneratorConfig{
		OutputRoot:   t.TempDir(),
		MaxAttempts:  3,
		RetryBackoff: time.Millisecond,
	})

	res, err := g.Generate(context.Background(), "site")
	require.NoError(t, err)
	assert.Equal(t, 2, client.calls)
	assert.Equal(t, "json", res.Strategy)
}

func TestGenerateDoesNotRetryFatalError(t *testing.T) {
	client := &stubClient{responses: []stubResponse{
		{err: errors.New("401 invalid api key")},
	}}
	g := newTestGenerator(t, client, GeneratorConfig{
		OutputRoot:   t.TempDir(),
		MaxAttempts:  3,
		RetryBackoff: time.Millisecond,
	})

	_, err := g.Generate(context.Background(), "site")
	require.Error(t, err)
	assert.Equal(t, 1, client.calls)
}

func TestGenerateExhaustsAttempts(t *testing.T) {
	client := &stubClient{responses: []stubResponse{
		{err: errors.New("503 service unavailable")},
		{err: errors.New("503 service unavailable")},
	}}
	g := newTestGenerator(t, client, GeneratorConfig{
		OutputRoot:   t.TempDir(),
		MaxAttempts:  2,
		RetryBackoff: time.Millisecond,
	})

	_, err := g.Generate(context.Background(), "site")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.Equal(t, 2, client.calls)
}

func TestGenerateSurfacesUnparseableOutput(t *testing.T) {
	client := &stubClient{responses: []stubResponse{
		{text: "sorry, I cannot help with that"},
	}}
	g := newTestGenerator(t, client, GeneratorConfig{OutputRoot: t.TempDir()})

	_, err := g.Generate(context.Background(), "site")
	var unparseable *extract.UnparseableError
	require.ErrorAs(t, err, &unparseable)
	assert.Contains(t, unparseable.Preview, "sorry")
}

func TestGenerateToExplicitDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	client := &stubClient{responses: []stubResponse{
		{text: `{"html":"<p>x</p>","css":"","js":""}`},
	}}
	g := newTestGenerator(t, client, GeneratorConfig{OutputRoot: t.TempDir()})

	res, err := g.GenerateTo(context.Background(), "site", dir)
	require.NoError(t, err)
	assert.Equal(t, dir, res.Dir)
	assert.FileExists(t, filepath.Join(dir, site.IndexFile))
}
