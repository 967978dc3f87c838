// Package workflow implements the four-stage documentation pipeline:
// Research → [Document] → Analyze → Final, with a single conditional edge
// after Research on whether the code is already documented.
package workflow

// Status is the terminal disposition of a run.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// TestResult is one scenario/output pair captured by the Analyze stage.
type TestResult struct {
	Scenario string `json:"scenario"`
	Output   string `json:"output"`
}

// State is the single mutable record threaded through all stages. It is
// created fresh per run, owned by the pipeline, and discarded after the
// Final stage writes its files.
type State struct {
	// SourceCode is the input program text; immutable after initialization.
	SourceCode string

	// Language is the detected input language ("python", "go").
	Language string

	// LibrariesFound lists imported libraries in discovery order.
	// Set once by Research.
	LibrariesFound []string

	// DocumentationPresent is set once by Research and drives the single
	// routing decision.
	DocumentationPresent bool

	// DocumentedCode is set exactly once: by Document, or by pass-through
	// from SourceCode when Document is skipped.
	DocumentedCode string

	// IssuesFound and TestResults are set by Analyze, in production order.
	IssuesFound []string
	TestResults []TestResult

	// Status is set by Final, or to failed by the pipeline on any stage
	// error.
	Status Status
}

// NewState creates the per-run record.
func NewState(sourceCode, language string) *State {
	return &State{
		SourceCode: sourceCode,
		Language:   language,
		Status:     StatusPending,
	}
}

// CodeForAnalysis returns the documented code when available, the original
// source otherwise.
func (s *State) CodeForAnalysis() string {
	if s.DocumentedCode != "" {
		return s.DocumentedCode
	}
	return s.SourceCode
}
