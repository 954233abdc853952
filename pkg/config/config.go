// Package config loads runtime configuration from an optional yaml
// file with environment variables taking precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults for the tunable knobs.
const (
	DefaultCacheCapacity     = 1024
	DefaultHandlerTimeout    = 10 * time.Second
	DefaultLLMTimeout        = 30 * time.Second
	DefaultSemanticThreshold = 0.5
)

// Config holds the resolved application configuration.
type Config struct {
	AnthropicAPIKey string
	OpenAIAPIKey    string
	GoogleAPIKey    string

	AnthropicModel string
	OpenAIModel    string
	GoogleModel    string
	EmbeddingModel string

	// AIProvider is one of "primary", "secondary", "dual".
	AIProvider string
	AIFallback bool

	RouterCacheCapacity int
	HandlerTimeout      time.Duration
	LLMTimeout          time.Duration

	EnableSemanticRouting bool
	EnableLLMRouting      bool
	SemanticThreshold     float64

	FundDBPath string
	ConfigDir  string
}

// FileConfig is the structure of ~/.fonrouter/config.yaml.
type FileConfig struct {
	APIKeys struct {
		Anthropic string `yaml:"anthropic"`
		OpenAI    string `yaml:"openai"`
		Google    string `yaml:"google"`
	} `yaml:"api_keys"`
	Models struct {
		Anthropic string `yaml:"anthropic"`
		OpenAI    string `yaml:"openai"`
		Google    string `yaml:"google"`
		Embedding string `yaml:"embedding"`
	} `yaml:"models"`
	AI struct {
		Provider string `yaml:"provider"`
		Fallback *bool  `yaml:"fallback"`
	} `yaml:"ai"`
	Router struct {
		CacheCapacity         *int     `yaml:"cache_capacity"`
		HandlerTimeoutSeconds *int     `yaml:"handler_timeout_seconds"`
		LLMTimeoutSeconds     *int     `yaml:"llm_timeout_seconds"`
		EnableSemantic        *bool    `yaml:"enable_semantic_routing"`
		EnableLLM             *bool    `yaml:"enable_llm_routing"`
		SemanticThreshold     *float64 `yaml:"semantic_similarity_threshold"`
	} `yaml:"router"`
	Store struct {
		DBPath string `yaml:"db_path"`
	} `yaml:"store"`
}

// Load reads the config file (if present) and applies environment
// overrides.
func Load() (*Config, error) {
	configDir, err := configDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}
	return loadFrom(filepath.Join(configDir, "config.yaml"), configDir)
}

// LoadFile loads configuration from an explicit yaml path.
func LoadFile(path string) (*Config, error) {
	return loadFrom(path, filepath.Dir(path))
}

func loadFrom(path, configDir string) (*Config, error) {
	file := readFileConfig(path)

	cfg := &Config{
		AnthropicAPIKey: envOr("ANTHROPIC_API_KEY", file.APIKeys.Anthropic),
		OpenAIAPIKey:    envOr("OPENAI_API_KEY", file.APIKeys.OpenAI),
		GoogleAPIKey:    envOr("GOOGLE_API_KEY", file.APIKeys.Google),

		AnthropicModel: envOr("ANTHROPIC_MODEL", file.Models.Anthropic),
		OpenAIModel:    envOr("OPENAI_MODEL", file.Models.OpenAI),
		GoogleModel:    envOr("GOOGLE_MODEL", file.Models.Google),
		EmbeddingModel: envOr("EMBEDDING_MODEL", file.Models.Embedding),

		AIProvider: strings.ToLower(envOr("AI_PROVIDER", orDefault(file.AI.Provider, "primary"))),
		AIFallback: envBool("AI_FALLBACK", boolOr(file.AI.Fallback, true)),

		RouterCacheCapacity: envInt("ROUTER_CACHE_CAPACITY", intOr(file.Router.CacheCapacity, DefaultCacheCapacity)),
		HandlerTimeout:      time.Duration(envInt("HANDLER_TIMEOUT_SECONDS", intOr(file.Router.HandlerTimeoutSeconds, int(DefaultHandlerTimeout/time.Second)))) * time.Second,
		LLMTimeout:          time.Duration(envInt("LLM_TIMEOUT_SECONDS", intOr(file.Router.LLMTimeoutSeconds, int(DefaultLLMTimeout/time.Second)))) * time.Second,

		EnableSemanticRouting: envBool("ENABLE_SEMANTIC_ROUTING", boolOr(file.Router.EnableSemantic, true)),
		EnableLLMRouting:      envBool("ENABLE_LLM_ROUTING", boolOr(file.Router.EnableLLM, true)),
		SemanticThreshold:     envFloat("SEMANTIC_SIMILARITY_THRESHOLD", floatOr(file.Router.SemanticThreshold, DefaultSemanticThreshold)),

		FundDBPath: envOr("FUND_DB_PATH", orDefault(file.Store.DBPath, filepath.Join(configDir, "funds.db"))),
		ConfigDir:  configDir,
	}

	switch cfg.AIProvider {
	case "primary", "secondary", "dual":
	default:
		return nil, fmt.Errorf("invalid AI_PROVIDER %q (want primary, secondary or dual)", cfg.AIProvider)
	}
	return cfg, nil
}

// HasBackend reports whether the API key for a backend is configured.
func (c *Config) HasBackend(name string) bool {
	switch name {
	case "anthropic":
		return c.AnthropicAPIKey != ""
	case "openai":
		return c.OpenAIAPIKey != ""
	case "google":
		return c.GoogleAPIKey != ""
	default:
		return false
	}
}

func readFileConfig(path string) *FileConfig {
	cfg := &FileConfig{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}
	_ = yaml.Unmarshal(data, cfg)
	return cfg
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".fonrouter")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func envBool(name string, fallback bool) bool {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envInt(name string, fallback int) int {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envFloat(name string, fallback float64) float64 {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func orDefault(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

func boolOr(v *bool, fallback bool) bool {
	if v != nil {
		return *v
	}
	return fallback
}

func intOr(v *int, fallback int) int {
	if v != nil {
		return *v
	}
	return fallback
}

func floatOr(v *float64, fallback float64) float64 {
	if v != nil {
		return *v
	}
	return fallback
}
