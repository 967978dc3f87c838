package main

import (
	"testing"
	"time"

	"autodoc/internal/config"
)

func TestCodeOutputPath(t *testing.T) {
	cfg := config.Default()

	codeOut = ""
	if got := codeOutputPath(cfg, "script.py"); got != "documented.py" {
		t.Fatalf("codeOutputPath() = %q, want documented.py", got)
	}

	cfg.Output.CodeFile = "custom.py"
	if got := codeOutputPath(cfg, "script.py"); got != "custom.py" {
		t.Fatalf("codeOutputPath() = %q, want config value", got)
	}

	codeOut = "flag.py"
	defer func() { codeOut = "" }()
	if got := codeOutputPath(cfg, "script.py"); got != "flag.py" {
		t.Fatalf("codeOutputPath() = %q, want flag value", got)
	}
}

func TestReportOutputPath(t *testing.T) {
	cfg := config.Default()

	reportOut = ""
	if got := reportOutputPath(cfg); got != "analysis.txt" {
		t.Fatalf("reportOutputPath() = %q, want analysis.txt", got)
	}

	reportOut = "report.txt"
	defer func() { reportOut = "" }()
	if got := reportOutputPath(cfg); got != "report.txt" {
		t.Fatalf("reportOutputPath() = %q, want flag value", got)
	}
}

func TestLoadConfig_TimeoutFlag(t *testing.T) {
	llmTimeout = "90s"
	defer func() { llmTimeout = "" }()

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.LLM.Timeout != "90s" {
		t.Fatalf("LLM.Timeout = %q, want flag value", cfg.LLM.Timeout)
	}
	if cfg.LLMTimeout() != 90*time.Second {
		t.Fatalf("LLMTimeout() = %v, want 90s", cfg.LLMTimeout())
	}
}

func TestBuildRegistry(t *testing.T) {
	registry := buildRegistry(config.Default())

	if registry.Get("search_library_info") == nil {
		t.Fatal("search tool not registered")
	}
	if registry.Get("execute_code") == nil {
		t.Fatal("execution tool not registered")
	}
}
