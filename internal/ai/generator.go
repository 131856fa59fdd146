package ai

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"promptsite/internal/ai/prompts"
	"promptsite/internal/extract"
	"promptsite/internal/sanitize"
	"promptsite/internal/site"
	"promptsite/internal/utils"
)

const (
	defaultMaxAttempts  = 3
	defaultRetryBackoff = 5 * time.Second
)

// GeneratorConfig holds the caller-level policy around the model call plus
// the root directory generated projects land in.
type GeneratorConfig struct {
	OutputRoot   string
	MaxAttempts  int
	RetryBackoff time.Duration
}

// Result describes one completed generation run.
type Result struct {
	ProjectID string
	Dir       string
	// Strategy names the extraction tier that recovered the artifacts.
	Strategy string
	Findings []sanitize.Finding
	Elapsed  time.Duration
}

// Generator runs the full pipeline: render the meta-prompt, call the model
// with retry, parse, sanitize, write.
type Generator struct {
	client    Client
	parser    *extract.Parser
	sanitizer *sanitize.Sanitizer
	writer    *site.Writer
	cfg       GeneratorConfig
	logger    *zap.Logger
}

func NewGenerator(client Client, parser *extract.Parser, sanitizer *sanitize.Sanitizer, writer *site.Writer, cfg GeneratorConfig, logger *zap.Logger) *Generator {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = defaultRetryBackoff
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		client:    client,
		parser:    parser,
		sanitizer: sanitizer,
		writer:    writer,
		cfg:       cfg,
		logger:    logger,
	}
}

// Generate runs one generation into a fresh project directory under the
// output root and returns its ID.
func (g *Generator) Generate(ctx context.Context, prompt string) (*Result, error) {
	projectID := uuid.New().String()
	res, err := g.GenerateTo(ctx, prompt, filepath.Join(g.cfg.OutputRoot, projectID))
	if err != nil {
		return nil, err
	}
	res.ProjectID = projectID
	return res, nil
}

// GenerateTo runs one generation into an explicit destination directory.
// Parse and write errors propagate wrapped, so callers can still reach
// *extract.UnparseableError and *site.WriteError with errors.As.
func (g *Generator) GenerateTo(ctx context.Context, prompt, dir string) (*Result, error) {
	start := time.Now()
	g.logger.Info("generating site",
		zap.String("provider", g.client.Name()),
		zap.String("dir", dir))

	raw, err := g.complete(ctx, prompts.SystemInstruction(), prompts.SitePrompt(prompt))
	if err != nil {
		return nil, fmt.Errorf("model call: %w", err)
	}
	g.logger.Debug("model output received", zap.Int("bytes", len(raw)))

	parsed, err := g.parser.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse model output: %w", err)
	}
	g.logger.Info("extracted artifacts", zap.String("strategy", parsed.Strategy))

	script, report := g.sanitizer.Sanitize(parsed.Script)
	if !report.Clean() {
		g.logger.Warn("sanitizer removed unsafe constructs",
			zap.Int("findings", len(report.Findings)))
	}

	if err := g.writer.Write(dir, parsed.Artifact.WithScript(script)); err != nil {
		return nil, fmt.Errorf("write artifacts: %w", err)
	}

	return &Result{
		Dir:      dir,
		Strategy: parsed.Strategy,
		Findings: report.Findings,
		Elapsed:  time.Since(start),
	}, nil
}

// complete calls the model, retrying transient failures up to the
// configured attempt budget with a fixed, context-aware backoff.
func (g *Generator) complete(ctx context.Context, system, user string) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= g.cfg.MaxAttempts; attempt++ {
		out, err := g.client.Complete(ctx, system, user)
		if err == nil {
			return out, nil
		}
		lastErr = err
		if attempt == g.cfg.MaxAttempts || !utils.ShouldRetry(err) {
			break
		}
		g.logger.Warn("model call failed, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("backoff", g.cfg.RetryBackoff),
			zap.Error(err))
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(g.cfg.RetryBackoff):
		}
	}
	return "", lastErr
}
