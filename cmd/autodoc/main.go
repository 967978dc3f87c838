// autodoc sends source code through a fixed research → document → analyze
// workflow backed by an LLM and writes the documented code plus an
// analysis report.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"autodoc/internal/config"
	"autodoc/internal/history"
	"autodoc/internal/workflow"
)

var (
	// Global flags
	verbose    bool
	configPath string
	apiKey     string
	llmTimeout string

	// run flags
	codeOut   string
	reportOut string

	// history flags
	historyLimit int

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "autodoc",
	Short: "autodoc - self-documenting code analysis",
	Long: `autodoc runs source code through a fixed four-stage workflow:

  1. Research: extract imports, detect existing documentation, study the
     code with a web search tool available
  2. Document: generate docstrings and comments (skipped when the code is
     already documented)
  3. Analyze: execute the code against test scenarios and collect issues
  4. Final: write the documented code and an analysis report

Outputs overwrite the previous run's files.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zapConfig := zap.NewProductionConfig()
		if verbose {
			zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapConfig.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// runCmd executes the workflow once for a source file.
var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run the documentation workflow on a source file",
	Args:  cobra.ExactArgs(1),
	RunE:  runWorkflow,
}

// watchCmd re-runs the workflow whenever the source file changes.
var watchCmd = &cobra.Command{
	Use:   "watch [file]",
	Short: "Re-run the workflow whenever the file changes",
	Args:  cobra.ExactArgs(1),
	RunE:  watchWorkflow,
}

// diagramCmd dumps the stage graph in mermaid syntax.
var diagramCmd = &cobra.Command{
	Use:   "diagram",
	Short: "Write the workflow stage graph as a mermaid diagram",
	RunE:  writeDiagram,
}

// historyCmd lists recent runs from the journal.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent runs from the history journal",
	RunE:  showHistory,
}

func main() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "Gemini API key (overrides config and environment)")
	rootCmd.PersistentFlags().StringVar(&llmTimeout, "timeout", "", "model call timeout, e.g. 2m (overrides config)")

	runCmd.Flags().StringVar(&codeOut, "code-out", "", "path for the documented code file")
	runCmd.Flags().StringVar(&reportOut, "report-out", "", "path for the analysis report file")
	watchCmd.Flags().StringVar(&codeOut, "code-out", "", "path for the documented code file")
	watchCmd.Flags().StringVar(&reportOut, "report-out", "", "path for the analysis report file")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "number of runs to list")

	rootCmd.AddCommand(runCmd, watchCmd, diagramCmd, historyCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig resolves configuration for a command invocation.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if apiKey != "" {
		cfg.LLM.APIKey = apiKey
	}
	if llmTimeout != "" {
		cfg.LLM.Timeout = llmTimeout
	}
	return cfg, nil
}

// runWorkflow executes a single run and prints the summary.
func runWorkflow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	return runOnce(cmd.Context(), cfg, args[0])
}

// runOnce assembles the pipeline and processes one file.
func runOnce(ctx context.Context, cfg *config.Config, path string) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read input %s: %w", path, err)
	}

	pipe, writer, err := buildPipeline(cfg, path)
	if err != nil {
		return err
	}

	started := time.Now()
	state, runErr := pipe.Run(ctx, path, string(source))

	if cfg.History.Enabled && state != nil {
		recordRun(ctx, cfg, state, source, started)
	}
	if runErr != nil {
		return runErr
	}

	printSummary(state, writer.CodePath, writer.AnalysisPath)
	return nil
}

// watchWorkflow re-runs the pipeline on every change to the watched file.
func watchWorkflow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	return watchLoop(cmd.Context(), cfg, args[0])
}

// writeDiagram writes the stage graph in mermaid syntax.
func writeDiagram(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	path := cfg.Output.DiagramFile
	if err := os.WriteFile(path, []byte(workflow.Mermaid()), 0o644); err != nil {
		return fmt.Errorf("failed to write diagram %s: %w", path, err)
	}
	fmt.Printf("Workflow diagram saved as %s\n", path)
	return nil
}

// showHistory lists recent runs from the journal.
func showHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.Recent(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded")
		return nil
	}

	for _, run := range runs {
		fmt.Printf("%s  %-9s  %-6s  libs=%d issues=%d tests=%d  %s\n",
			run.StartedAt.Format("2006-01-02 15:04:05"),
			run.Status, run.Language,
			run.Libraries, run.Issues, run.Tests,
			run.ID)
	}
	return nil
}

// codeOutputPath resolves the documented-code destination: flag, then
// config, then "documented" plus the input's extension.
func codeOutputPath(cfg *config.Config, inputPath string) string {
	if codeOut != "" {
		return codeOut
	}
	if cfg.Output.CodeFile != "" {
		return cfg.Output.CodeFile
	}
	return "documented" + filepath.Ext(inputPath)
}

// reportOutputPath resolves the analysis report destination.
func reportOutputPath(cfg *config.Config) string {
	if reportOut != "" {
		return reportOut
	}
	return cfg.Output.AnalysisFile
}

// printSummary emits the human-readable completion summary.
func printSummary(state *workflow.State, codePath, analysisPath string) {
	fmt.Println(strings.Repeat("=", 50))
	fmt.Println("WORKFLOW SUMMARY")
	fmt.Println(strings.Repeat("=", 50))
	fmt.Printf("Status:    %s\n", state.Status)
	fmt.Printf("Libraries: %d\n", len(state.LibrariesFound))
	fmt.Printf("Issues:    %d\n", len(state.IssuesFound))
	fmt.Printf("Tests:     %d\n", len(state.TestResults))
	fmt.Println("Output files:")
	fmt.Printf("  - %s: documented code\n", codePath)
	fmt.Printf("  - %s: analysis results\n", analysisPath)
}
