package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"promptsite/config"
	"promptsite/internal/ai"
	"promptsite/internal/extract"
	"promptsite/internal/sanitize"
	"promptsite/internal/site"
)

var (
	// Global flags
	cfgPath string
	verbose bool

	logger *zap.Logger
	cfg    config.Config
)

var rootCmd = &cobra.Command{
	Use:   "promptsite",
	Short: "promptsite - natural-language website generator with local preview",
	Long: `promptsite asks a code-generation model (Gemini or OpenAI) for an
HTML/CSS/JS implementation of a described website, recovers the three source
files from the model's possibly-malformed reply, strips network-calling
constructs from the script, and serves the result locally for preview.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load .env before viper reads the environment.
		if err := godotenv.Load(); err != nil {
			if !os.IsNotExist(err) {
				log.Printf("Warning: error loading .env file: %v", err)
			}
		} else {
			log.Println("Loaded environment variables from .env file.")
		}

		zapCfg := zap.NewProductionConfig()
		if verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		cfg, err = config.LoadConfig(cfgPath)
		if err != nil {
			return fmt.Errorf("cannot load config: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", ".", "directory to search for config.yaml")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(generateCmd)
}

// buildPipeline wires the model client, parser, sanitizer, and writer into
// a ready generator.
func buildPipeline() (*ai.Generator, *site.Writer, error) {
	var client ai.Client
	switch cfg.LLMProvider {
	case "gemini":
		client = ai.NewGeminiClient(ai.GeminiConfig{
			APIKey:          cfg.GeminiKey(),
			Model:           cfg.LLMModel,
			MaxOutputTokens: cfg.LLMMaxOutputTokens,
		})
	case "openai":
		client = ai.NewOpenAIClient(cfg.OpenAIKey, cfg.LLMModel)
	default:
		return nil, nil, fmt.Errorf("unknown LLM_PROVIDER %q", cfg.LLMProvider)
	}

	sanitizer, err := sanitize.New(sanitize.Config{
		Fetch:          cfg.SanitizeFetch,
		XHR:            cfg.SanitizeXHR,
		Inject:         cfg.SanitizeInject,
		Eval:           cfg.SanitizeEval,
		CustomPatterns: cfg.CustomPatterns(),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("invalid sanitizer config: %w", err)
	}

	writer := site.NewWriter(logger)
	generator := ai.NewGenerator(
		client,
		extract.NewParser(logger),
		sanitizer,
		writer,
		ai.GeneratorConfig{
			OutputRoot:   cfg.OutputDir,
			MaxAttempts:  cfg.LLMMaxAttempts,
			RetryBackoff: cfg.LLMRetryBackoff,
		},
		logger,
	)
	return generator, writer, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
