package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"promptsite/internal/extract"
	"promptsite/internal/site"
)

var (
	serveAfter bool
	cleanFirst bool
)

var generateCmd = &cobra.Command{
	Use:   "generate \"a to-do list website\"",
	Short: "Generate a site from a prompt and preview it",
	Long: `One-shot generation: sends the prompt to the configured model, writes
index.html, styles.css, and app.js into the output directory, and serves the
result locally until interrupted. When the model output cannot be parsed, a
fallback page showing the raw output is written instead and the command exits
non-zero.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().BoolVar(&serveAfter, "serve", true, "serve the generated site after writing it")
	generateCmd.Flags().BoolVar(&cleanFirst, "clean", false, "clear the output directory before generating")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	prompt := strings.Join(args, " ")
	generator, writer, err := buildPipeline()
	if err != nil {
		return err
	}

	if cleanFirst {
		if err := site.Clear(cfg.OutputDir); err != nil {
			return fmt.Errorf("clearing output directory: %w", err)
		}
	}

	res, err := generator.GenerateTo(cmd.Context(), prompt, cfg.OutputDir)
	if err != nil {
		var unparseable *extract.UnparseableError
		if errors.As(err, &unparseable) {
			if writeErr := writer.WriteFallback(cfg.OutputDir, unparseable.Preview); writeErr != nil {
				logger.Warn("could not write fallback page", zap.Error(writeErr))
			}
			fmt.Fprintf(os.Stderr, "Could not extract site files from the model output.\n")
			fmt.Fprintf(os.Stderr, "A fallback page with the raw output was written to %s\n", cfg.OutputDir)
		}
		return err
	}

	fmt.Printf("Generated site in %s (strategy: %s, %.2fs)\n",
		res.Dir, res.Strategy, res.Elapsed.Seconds())
	if len(res.Findings) > 0 {
		fmt.Printf("Sanitizer removed %d unsafe construct(s):\n", len(res.Findings))
		for _, f := range res.Findings {
			fmt.Printf("  [%s] %s\n", f.Category, f.Rule)
		}
	}

	if !serveAfter {
		return nil
	}
	return servePreview(cmd.Context(), res.Dir)
}

// servePreview serves dir over HTTP until the command is interrupted.
func servePreview(ctx context.Context, dir string) error {
	server := &http.Server{
		Addr:        cfg.ServerAddress,
		Handler:     http.FileServer(http.Dir(dir)),
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		fmt.Printf("Serving %s at http://localhost%s/ (Ctrl+C to stop)\n", dir, cfg.ServerAddress)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("preview server listen error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
