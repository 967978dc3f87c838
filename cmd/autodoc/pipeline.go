package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"autodoc/internal/config"
	"autodoc/internal/history"
	"autodoc/internal/inspect"
	"autodoc/internal/llm"
	"autodoc/internal/prompt"
	"autodoc/internal/report"
	"autodoc/internal/tools"
	"autodoc/internal/tools/exec"
	"autodoc/internal/tools/research"
	"autodoc/internal/workflow"
)

// buildPipeline assembles the workflow from configuration.
func buildPipeline(cfg *config.Config, inputPath string) (*workflow.Pipeline, *report.Writer, error) {
	prompts, err := loadPrompts(cfg)
	if err != nil {
		return nil, nil, err
	}

	client := llm.NewGeminiClientWithConfig(llm.GeminiConfig{
		APIKey:          cfg.LLM.APIKey,
		BaseURL:         cfg.LLM.BaseURL,
		Model:           cfg.LLM.Model,
		Timeout:         cfg.LLMTimeout(),
		Temperature:     cfg.LLM.Temperature,
		MaxOutputTokens: cfg.LLM.MaxOutputTokens,
	}, logger)

	writer := report.NewWriter(codeOutputPath(cfg, inputPath), reportOutputPath(cfg))

	pipe := workflow.New(client, buildRegistry(cfg), inspect.DefaultSet(), prompts, writer, logger)
	return pipe, writer, nil
}

// loadPrompts returns the configured prompt store, or the built-in
// defaults when no prompt file is set.
func loadPrompts(cfg *config.Config) (*prompt.Store, error) {
	if cfg.Prompts.Path != "" {
		return prompt.LoadStore(cfg.Prompts.Path)
	}
	return prompt.NewStore(), nil
}

// buildRegistry registers the search and execution tools.
func buildRegistry(cfg *config.Config) *tools.Registry {
	registry := tools.NewRegistry()

	searchOpts := research.Options{
		TavilyAPIKey: cfg.Search.TavilyAPIKey,
		MaxResults:   cfg.Search.MaxResults,
		CacheTTL:     cfg.SearchCacheTTL(),
	}
	registry.MustRegister(research.LibraryInfoTool(research.NewSearcher(searchOpts), searchOpts))

	goRunner := exec.NewGoRunner()
	goRunner.Timeout = cfg.ExecutionTimeout()
	runners := exec.Runners{
		"python": &exec.PythonRunner{Binary: cfg.Execution.PythonBinary, Timeout: cfg.ExecutionTimeout()},
		"go":     goRunner,
	}
	registry.MustRegister(exec.CodeTool(runners))

	return registry
}

// recordRun appends a run summary to the history journal. Journal failures
// are logged, never fatal: the workflow result stands on its own.
func recordRun(ctx context.Context, cfg *config.Config, state *workflow.State, source []byte, started time.Time) {
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		logger.Warn("history journal unavailable", zap.Error(err))
		return
	}
	defer store.Close()

	sum := sha256.Sum256(source)
	run := history.Run{
		ID:          uuid.NewString(),
		StartedAt:   started,
		FinishedAt:  time.Now(),
		InputSHA256: hex.EncodeToString(sum[:]),
		Language:    state.Language,
		Status:      string(state.Status),
		Libraries:   len(state.LibrariesFound),
		Issues:      len(state.IssuesFound),
		Tests:       len(state.TestResults),
	}
	if err := store.Record(ctx, run); err != nil {
		logger.Warn("failed to record run", zap.Error(err))
	}
}
