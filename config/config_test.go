package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, "gemini", cfg.LLMProvider)
	assert.Equal(t, 3, cfg.LLMMaxAttempts)
	assert.Equal(t, 5*time.Second, cfg.LLMRetryBackoff)
	assert.Equal(t, 4096, cfg.LLMMaxOutputTokens)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.True(t, cfg.SanitizeFetch)
	assert.True(t, cfg.SanitizeXHR)
	assert.True(t, cfg.SanitizeInject)
	assert.True(t, cfg.SanitizeEval)
	assert.Nil(t, cfg.CustomPatterns())
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", ":9999")
	t.Setenv("LLM_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OUTPUT_DIR", "/tmp/sites")
	t.Setenv("SANITIZE_EVAL", "false")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.ServerAddress)
	assert.Equal(t, "openai", cfg.LLMProvider)
	assert.Equal(t, "sk-test", cfg.OpenAIKey)
	assert.Equal(t, "/tmp/sites", cfg.OutputDir)
	assert.False(t, cfg.SanitizeEval)
}

func TestGeminiKeyFallback(t *testing.T) {
	cfg := Config{GoogleAPIKey: "google-key"}
	assert.Equal(t, "google-key", cfg.GeminiKey())

	cfg.GeminiAPIKey = "gemini-key"
	assert.Equal(t, "gemini-key", cfg.GeminiKey())
}

func TestCustomPatternsSplit(t *testing.T) {
	cfg := Config{SanitizeCustomPatterns: ` foo\( , , bar\. `}
	assert.Equal(t, []string{`foo\(`, `bar\.`}, cfg.CustomPatterns())
}
