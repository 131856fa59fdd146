package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// Mapstructure tags map environment variables and config file keys.
type Config struct {
	// Server configuration
	ServerAddress string `mapstructure:"SERVER_ADDRESS"` // e.g., ":8080"

	// Model provider configuration
	LLMProvider        string        `mapstructure:"LLM_PROVIDER"`   // "gemini" or "openai"
	GeminiAPIKey       string        `mapstructure:"GEMINI_API_KEY"` // falls back to GOOGLE_API_KEY
	GoogleAPIKey       string        `mapstructure:"GOOGLE_API_KEY"`
	OpenAIKey          string        `mapstructure:"OPENAI_API_KEY"`
	LLMModel           string        `mapstructure:"LLM_MODEL"` // empty = provider default
	LLMMaxAttempts     int           `mapstructure:"LLM_MAX_ATTEMPTS"`
	LLMRetryBackoff    time.Duration `mapstructure:"LLM_RETRY_BACKOFF"`
	LLMMaxOutputTokens int           `mapstructure:"LLM_MAX_OUTPUT_TOKENS"`

	// Output configuration
	OutputDir string `mapstructure:"OUTPUT_DIR"` // root for generated projects

	// Sanitizer configuration
	SanitizeFetch          bool   `mapstructure:"SANITIZE_FETCH"`
	SanitizeXHR            bool   `mapstructure:"SANITIZE_XHR"`
	SanitizeInject         bool   `mapstructure:"SANITIZE_INJECT"`
	SanitizeEval           bool   `mapstructure:"SANITIZE_EVAL"`
	SanitizeCustomPatterns string `mapstructure:"SANITIZE_CUSTOM_PATTERNS"` // comma-separated regexes
}

// GeminiKey resolves the Gemini credential, preferring GEMINI_API_KEY over
// GOOGLE_API_KEY.
func (c Config) GeminiKey() string {
	if c.GeminiAPIKey != "" {
		return c.GeminiAPIKey
	}
	return c.GoogleAPIKey
}

// CustomPatterns splits the comma-separated custom sanitizer patterns,
// dropping empties.
func (c Config) CustomPatterns() []string {
	if strings.TrimSpace(c.SanitizeCustomPatterns) == "" {
		return nil
	}
	var patterns []string
	for _, p := range strings.Split(c.SanitizeCustomPatterns, ",") {
		if p = strings.TrimSpace(p); p != "" {
			patterns = append(patterns, p)
		}
	}
	return patterns
}

// LoadConfig reads configuration from file and environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)     // Path to look for the config file in
	viper.SetConfigName("config") // Name of config file (without extension)
	viper.SetConfigType("yaml")

	viper.SetDefault("SERVER_ADDRESS", ":8080")
	viper.SetDefault("LLM_PROVIDER", "gemini")
	viper.SetDefault("GEMINI_API_KEY", "")
	viper.SetDefault("GOOGLE_API_KEY", "")
	viper.SetDefault("OPENAI_API_KEY", "")
	viper.SetDefault("LLM_MODEL", "")
	viper.SetDefault("LLM_MAX_ATTEMPTS", 3)
	viper.SetDefault("LLM_RETRY_BACKOFF", 5*time.Second)
	viper.SetDefault("LLM_MAX_OUTPUT_TOKENS", 4096)
	viper.SetDefault("OUTPUT_DIR", "out")
	viper.SetDefault("SANITIZE_FETCH", true)
	viper.SetDefault("SANITIZE_XHR", true)
	viper.SetDefault("SANITIZE_INJECT", true)
	viper.SetDefault("SANITIZE_EVAL", true)
	viper.SetDefault("SANITIZE_CUSTOM_PATTERNS", "")

	viper.AutomaticEnv() // Read environment variables that match keys

	err = viper.ReadInConfig()
	if err != nil {
		// Config file is optional; env vars and defaults may be enough.
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("Config file ('config.yaml') not found in specified path, relying on environment variables and defaults.")
		} else {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		log.Printf("Using configuration file: %s", viper.ConfigFileUsed())
	}

	err = viper.Unmarshal(&config)
	if err != nil {
		return Config{}, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	// Soft validation: warn on a missing credential, the run may still be a
	// dry test against a stub.
	switch config.LLMProvider {
	case "gemini":
		if config.GeminiKey() == "" {
			log.Println("WARN: GEMINI_API_KEY is not set.")
		}
	case "openai":
		if config.OpenAIKey == "" {
			log.Println("WARN: OPENAI_API_KEY is not set.")
		}
	default:
		log.Printf("WARN: unknown LLM_PROVIDER %q (expected \"gemini\" or \"openai\").", config.LLMProvider)
	}

	return
}
