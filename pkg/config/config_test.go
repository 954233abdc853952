package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFileDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "primary", cfg.AIProvider)
	assert.True(t, cfg.AIFallback)
	assert.Equal(t, DefaultCacheCapacity, cfg.RouterCacheCapacity)
	assert.Equal(t, DefaultHandlerTimeout, cfg.HandlerTimeout)
	assert.Equal(t, DefaultLLMTimeout, cfg.LLMTimeout)
	assert.True(t, cfg.EnableSemanticRouting)
	assert.True(t, cfg.EnableLLMRouting)
	assert.Equal(t, DefaultSemanticThreshold, cfg.SemanticThreshold)
	assert.NotEmpty(t, cfg.FundDBPath)
}

func TestLoadFileValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api_keys:
  anthropic: file-key
ai:
  provider: dual
  fallback: false
router:
  cache_capacity: 64
  handler_timeout_seconds: 5
  enable_llm_routing: false
  semantic_similarity_threshold: 0.8
store:
  db_path: /tmp/funds.db
`), 0644))

	t.Setenv("ANTHROPIC_API_KEY", "")
	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "file-key", cfg.AnthropicAPIKey)
	assert.Equal(t, "dual", cfg.AIProvider)
	assert.False(t, cfg.AIFallback)
	assert.Equal(t, 64, cfg.RouterCacheCapacity)
	assert.Equal(t, 5*time.Second, cfg.HandlerTimeout)
	assert.False(t, cfg.EnableLLMRouting)
	assert.Equal(t, 0.8, cfg.SemanticThreshold)
	assert.Equal(t, "/tmp/funds.db", cfg.FundDBPath)
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api_keys:
  anthropic: file-key
ai:
  provider: dual
router:
  cache_capacity: 64
`), 0644))

	t.Setenv("ANTHROPIC_API_KEY", "env-key")
	t.Setenv("AI_PROVIDER", "secondary")
	t.Setenv("ROUTER_CACHE_CAPACITY", "256")
	t.Setenv("HANDLER_TIMEOUT_SECONDS", "3")
	t.Setenv("ENABLE_SEMANTIC_ROUTING", "false")
	t.Setenv("SEMANTIC_SIMILARITY_THRESHOLD", "0.9")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.AnthropicAPIKey)
	assert.Equal(t, "secondary", cfg.AIProvider)
	assert.Equal(t, 256, cfg.RouterCacheCapacity)
	assert.Equal(t, 3*time.Second, cfg.HandlerTimeout)
	assert.False(t, cfg.EnableSemanticRouting)
	assert.Equal(t, 0.9, cfg.SemanticThreshold)
}

func TestInvalidProviderRejected(t *testing.T) {
	t.Setenv("AI_PROVIDER", "quantum")
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestInvalidEnvValuesFallBack(t *testing.T) {
	t.Setenv("ROUTER_CACHE_CAPACITY", "not-a-number")
	t.Setenv("AI_FALLBACK", "maybe")

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultCacheCapacity, cfg.RouterCacheCapacity)
	assert.True(t, cfg.AIFallback)
}

func TestHasBackend(t *testing.T) {
	cfg := &Config{AnthropicAPIKey: "x"}
	assert.True(t, cfg.HasBackend("anthropic"))
	assert.False(t, cfg.HasBackend("openai"))
	assert.False(t, cfg.HasBackend("unknown"))
}
