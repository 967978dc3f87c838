// Package report persists the final workflow state: the documented code
// file and the structured analysis file.
package report

import (
	"fmt"
	"os"
	"strings"
	"time"

	"autodoc/internal/workflow"
)

// Writer writes the two output files. Both are overwritten on each run;
// there is no append or versioning semantics.
type Writer struct {
	// CodePath receives the documented code.
	CodePath string

	// AnalysisPath receives the analysis report.
	AnalysisPath string

	// Now supplies the report timestamp. Injectable so that runs with
	// deterministic inputs produce byte-identical files.
	Now func() time.Time
}

// NewWriter creates a writer using the wall clock.
func NewWriter(codePath, analysisPath string) *Writer {
	return &Writer{CodePath: codePath, AnalysisPath: analysisPath, Now: time.Now}
}

// WriteCode writes the documented code (or the original source if no
// documented version exists) to the code file.
func (w *Writer) WriteCode(state *workflow.State) error {
	if err := os.WriteFile(w.CodePath, []byte(state.CodeForAnalysis()), 0o644); err != nil {
		return fmt.Errorf("failed to write code file %s: %w", w.CodePath, err)
	}
	return nil
}

// WriteAnalysis renders and writes the analysis report.
func (w *Writer) WriteAnalysis(state *workflow.State) error {
	now := time.Now
	if w.Now != nil {
		now = w.Now
	}
	content := RenderAnalysis(state, now())
	if err := os.WriteFile(w.AnalysisPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write analysis file %s: %w", w.AnalysisPath, err)
	}
	return nil
}

// RenderAnalysis renders the analysis report. Libraries, issues, and test
// results appear in the order they were produced.
func RenderAnalysis(state *workflow.State, generatedAt time.Time) string {
	var sb strings.Builder

	sb.WriteString("# Code Analysis Results\n")
	sb.WriteString(fmt.Sprintf("Generated on: %s\n\n", generatedAt.Format("2006-01-02 15:04:05")))

	sb.WriteString("## Libraries Used\n")
	if len(state.LibrariesFound) > 0 {
		for _, lib := range state.LibrariesFound {
			sb.WriteString(fmt.Sprintf("- %s\n", lib))
		}
	} else {
		sb.WriteString("- No libraries identified\n")
	}
	sb.WriteString("\n")

	sb.WriteString("## Issues and Recommendations\n")
	if len(state.IssuesFound) > 0 {
		for i, issue := range state.IssuesFound {
			sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, issue))
		}
	} else {
		sb.WriteString("- No critical issues identified\n")
	}
	sb.WriteString("\n")

	sb.WriteString("## Test Results and I/O Behavior\n")
	if len(state.TestResults) > 0 {
		for i, result := range state.TestResults {
			sb.WriteString(fmt.Sprintf("### Test %d: %s\n%s\n\n", i+1, result.Scenario, result.Output))
		}
	} else {
		sb.WriteString("- No test results captured\n\n")
	}

	sb.WriteString("## Usage Guidelines\n")
	sb.WriteString("1. Review the documented code output\n")
	sb.WriteString("2. Address any issues or recommendations listed above\n")
	sb.WriteString("3. Test the code with various input scenarios\n")
	sb.WriteString("4. Validate functionality before production use\n")

	return sb.String()
}
