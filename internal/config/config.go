// Package config loads autodoc configuration from YAML with environment
// overrides. Configuration is resolved once at startup into an explicit
// object handed to the pipeline, never read as ambient global state.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all autodoc configuration.
type Config struct {
	LLM       LLMConfig       `yaml:"llm"`
	Search    SearchConfig    `yaml:"search"`
	Execution ExecutionConfig `yaml:"execution"`
	Prompts   PromptsConfig   `yaml:"prompts"`
	Output    OutputConfig    `yaml:"output"`
	History   HistoryConfig   `yaml:"history"`
}

// LLMConfig configures the model client.
type LLMConfig struct {
	APIKey          string  `yaml:"api_key"`
	Model           string  `yaml:"model"`
	BaseURL         string  `yaml:"base_url"`
	Timeout         string  `yaml:"timeout"`
	Temperature     float64 `yaml:"temperature"`
	MaxOutputTokens int     `yaml:"max_output_tokens"`
}

// SearchConfig configures the library search tool.
type SearchConfig struct {
	TavilyAPIKey string `yaml:"tavily_api_key"`
	MaxResults   int    `yaml:"max_results"`
	CacheTTL     string `yaml:"cache_ttl"`
}

// ExecutionConfig configures the code execution tool.
type ExecutionConfig struct {
	PythonBinary string `yaml:"python_binary"`
	Timeout      string `yaml:"timeout"`
}

// PromptsConfig points at an optional prompt template file.
type PromptsConfig struct {
	Path string `yaml:"path"`
}

// OutputConfig names the files the Final stage writes.
type OutputConfig struct {
	CodeFile     string `yaml:"code_file"`
	AnalysisFile string `yaml:"analysis_file"`
	DiagramFile  string `yaml:"diagram_file"`
}

// HistoryConfig configures the optional run-history journal.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			Model:           "gemini-2.5-flash",
			Timeout:         "5m",
			Temperature:     0.3,
			MaxOutputTokens: 8192,
		},
		Search: SearchConfig{
			MaxResults: 2,
			CacheTTL:   "30m",
		},
		Execution: ExecutionConfig{
			PythonBinary: "python3",
			Timeout:      "30s",
		},
		Output: OutputConfig{
			AnalysisFile: "analysis.txt",
			DiagramFile:  "workflow_diagram.mmd",
		},
		History: HistoryConfig{
			Path: "autodoc_history.db",
		},
	}
}

// Load reads configuration from path (when non-empty) over the defaults,
// then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides fills API keys from the environment when unset.
// GEMINI_API_KEY wins over GOOGLE_API_KEY for the model key.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.LLM.APIKey = key
	} else if key := os.Getenv("GOOGLE_API_KEY"); key != "" && c.LLM.APIKey == "" {
		c.LLM.APIKey = key
	}
	if key := os.Getenv("TAVILY_API_KEY"); key != "" {
		c.Search.TavilyAPIKey = key
	}
}

// Validate reports fatal configuration errors. The run must not start when
// validation fails.
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return fmt.Errorf("LLM API key not configured (set GEMINI_API_KEY or llm.api_key)")
	}
	if c.LLM.Model == "" {
		return fmt.Errorf("llm.model must not be empty")
	}
	if _, err := parseDuration(c.LLM.Timeout, 0); err != nil {
		return fmt.Errorf("invalid llm.timeout: %w", err)
	}
	if _, err := parseDuration(c.Search.CacheTTL, 0); err != nil {
		return fmt.Errorf("invalid search.cache_ttl: %w", err)
	}
	if _, err := parseDuration(c.Execution.Timeout, 0); err != nil {
		return fmt.Errorf("invalid execution.timeout: %w", err)
	}
	return nil
}

// LLMTimeout returns the parsed model call timeout.
func (c *Config) LLMTimeout() time.Duration {
	d, _ := parseDuration(c.LLM.Timeout, 5*time.Minute)
	return d
}

// SearchCacheTTL returns the parsed search cache TTL.
func (c *Config) SearchCacheTTL() time.Duration {
	d, _ := parseDuration(c.Search.CacheTTL, 30*time.Minute)
	return d
}

// ExecutionTimeout returns the parsed per-execution timeout.
func (c *Config) ExecutionTimeout() time.Duration {
	d, _ := parseDuration(c.Execution.Timeout, 30*time.Second)
	return d
}

func parseDuration(value string, fallback time.Duration) (time.Duration, error) {
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback, err
	}
	return d, nil
}
