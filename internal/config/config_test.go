package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearKeyEnv(t *testing.T) {
	t.Helper()
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("TAVILY_API_KEY", "")
	os.Unsetenv("GEMINI_API_KEY")
	os.Unsetenv("GOOGLE_API_KEY")
	os.Unsetenv("TAVILY_API_KEY")
}

func TestLoad_Defaults(t *testing.T) {
	clearKeyEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.LLM.Model != "gemini-2.5-flash" {
		t.Fatalf("Model = %q", cfg.LLM.Model)
	}
	if cfg.LLMTimeout() != 5*time.Minute {
		t.Fatalf("LLMTimeout() = %v", cfg.LLMTimeout())
	}
	if cfg.SearchCacheTTL() != 30*time.Minute {
		t.Fatalf("SearchCacheTTL() = %v", cfg.SearchCacheTTL())
	}
	if cfg.ExecutionTimeout() != 30*time.Second {
		t.Fatalf("ExecutionTimeout() = %v", cfg.ExecutionTimeout())
	}
	if cfg.Output.AnalysisFile != "analysis.txt" {
		t.Fatalf("AnalysisFile = %q", cfg.Output.AnalysisFile)
	}
	if cfg.History.Enabled {
		t.Fatal("history should be off by default")
	}
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	clearKeyEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `llm:
  api_key: file-key
  model: gemini-2.0-pro
  timeout: 2m
search:
  max_results: 5
output:
  code_file: out.py
history:
  enabled: true
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.LLM.APIKey != "file-key" {
		t.Fatalf("APIKey = %q", cfg.LLM.APIKey)
	}
	if cfg.LLM.Model != "gemini-2.0-pro" {
		t.Fatalf("Model = %q", cfg.LLM.Model)
	}
	if cfg.LLMTimeout() != 2*time.Minute {
		t.Fatalf("LLMTimeout() = %v", cfg.LLMTimeout())
	}
	if cfg.Search.MaxResults != 5 {
		t.Fatalf("MaxResults = %d", cfg.Search.MaxResults)
	}
	// Unset keys keep their defaults.
	if cfg.Execution.PythonBinary != "python3" {
		t.Fatalf("PythonBinary = %q", cfg.Execution.PythonBinary)
	}
	if !cfg.History.Enabled {
		t.Fatal("history.enabled not applied")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("missing config file accepted")
	}
}

func TestEnvOverrides(t *testing.T) {
	clearKeyEnv(t)
	t.Setenv("GEMINI_API_KEY", "env-gemini")
	t.Setenv("TAVILY_API_KEY", "env-tavily")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.LLM.APIKey != "env-gemini" {
		t.Fatalf("APIKey = %q, want env-gemini", cfg.LLM.APIKey)
	}
	if cfg.Search.TavilyAPIKey != "env-tavily" {
		t.Fatalf("TavilyAPIKey = %q", cfg.Search.TavilyAPIKey)
	}
}

func TestEnvOverrides_GeminiWinsOverGoogle(t *testing.T) {
	clearKeyEnv(t)
	t.Setenv("GEMINI_API_KEY", "gem")
	t.Setenv("GOOGLE_API_KEY", "goo")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.LLM.APIKey != "gem" {
		t.Fatalf("APIKey = %q, want GEMINI_API_KEY value", cfg.LLM.APIKey)
	}
}

func TestEnvOverrides_GoogleFallback(t *testing.T) {
	clearKeyEnv(t)
	t.Setenv("GOOGLE_API_KEY", "goo")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.LLM.APIKey != "goo" {
		t.Fatalf("APIKey = %q, want GOOGLE_API_KEY value", cfg.LLM.APIKey)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.LLM.APIKey = "key"

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	noKey := Default()
	if err := noKey.Validate(); err == nil {
		t.Fatal("missing API key accepted")
	}

	badTimeout := Default()
	badTimeout.LLM.APIKey = "key"
	badTimeout.LLM.Timeout = "five minutes"
	if err := badTimeout.Validate(); err == nil {
		t.Fatal("unparseable timeout accepted")
	}

	noModel := Default()
	noModel.LLM.APIKey = "key"
	noModel.LLM.Model = ""
	if err := noModel.Validate(); err == nil {
		t.Fatal("empty model accepted")
	}
}
