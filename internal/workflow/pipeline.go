package workflow

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"autodoc/internal/inspect"
	"autodoc/internal/llm"
	"autodoc/internal/prompt"
	"autodoc/internal/tools"
)

// OutputWriter persists the final state. Implemented by report.Writer;
// tests substitute in-memory fakes.
type OutputWriter interface {
	WriteCode(state *State) error
	WriteAnalysis(state *State) error
}

// Pipeline owns one run of the documentation workflow. Stages execute
// strictly sequentially; the state record is passed by reference through
// each stage in turn.
type Pipeline struct {
	client     llm.Client
	registry   *tools.Registry
	inspectors *inspect.Set
	prompts    *prompt.Store
	writer     OutputWriter
	logger     *zap.Logger
}

// New assembles a pipeline from its collaborators.
func New(client llm.Client, registry *tools.Registry, inspectors *inspect.Set, prompts *prompt.Store, writer OutputWriter, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		client:     client,
		registry:   registry,
		inspectors: inspectors,
		prompts:    prompts,
		writer:     writer,
		logger:     logger,
	}
}

// Run executes the workflow for one source file. Any stage failure marks
// the state failed and stops the run; stages are never retried. The
// returned state is valid even when an error is returned.
func (p *Pipeline) Run(ctx context.Context, filename, sourceCode string) (*State, error) {
	inspector, err := p.inspectors.ForFile(filename)
	if err != nil {
		return nil, err
	}

	state := NewState(sourceCode, inspector.Language())

	for node := NodeResearch; node != NodeDone; {
		p.logger.Info("stage start", zap.Stringer("stage", node))

		var stageErr error
		switch node {
		case NodeResearch:
			stageErr = p.research(ctx, inspector, state)
		case NodeDocument:
			stageErr = p.document(ctx, state)
		case NodeAnalyze:
			stageErr = p.analyze(ctx, state)
		case NodeFinal:
			stageErr = p.finalize(state)
		}
		if stageErr != nil {
			state.Status = StatusFailed
			return state, fmt.Errorf("%s stage: %w", node, stageErr)
		}

		node = next(node, state)
	}

	return state, nil
}

// research extracts libraries and the documentation flag from the source,
// then has the model study the code with the search tool available.
func (p *Pipeline) research(ctx context.Context, inspector inspect.Inspector, state *State) error {
	source := []byte(state.SourceCode)

	imports, err := inspector.Imports(source)
	if err != nil {
		return err
	}
	documented, err := inspector.HasDocumentation(source)
	if err != nil {
		return err
	}

	system, err := p.prompts.Get(prompt.Research)
	if err != nil {
		return err
	}
	user := fmt.Sprintf("Analyze this %s code:\n\n%s", state.Language, state.SourceCode)

	notes, err := p.runToolLoop(ctx, system, user, p.registry.ByCategory(tools.CategoryResearch))
	if err != nil {
		return err
	}

	state.LibrariesFound = imports
	state.DocumentationPresent = documented
	if documented {
		// Document is skipped; the source passes through unchanged.
		state.DocumentedCode = state.SourceCode
	}

	p.logger.Info("research complete",
		zap.Strings("libraries", imports),
		zap.Bool("documentation_present", documented),
		zap.Int("notes_len", len(notes)))
	return nil
}

// document asks the model for a documented version of the source.
// Single non-agentic call; no tools.
func (p *Pipeline) document(ctx context.Context, state *State) error {
	system, err := p.prompts.Get(prompt.Document)
	if err != nil {
		return err
	}

	user := fmt.Sprintf(`Code to document:
%s

Libraries used: %s

Please add comprehensive documentation including:
- Detailed docstrings for all functions and classes
- Inline comments explaining complex logic
- Comments for important variables and calculations
- Warning comments for potential issues`,
		state.SourceCode, strings.Join(state.LibrariesFound, ", "))

	output, err := p.client.CompleteWithSystem(ctx, system, user)
	if err != nil {
		return err
	}

	state.DocumentedCode = stripCodeFence(output)
	p.logger.Info("documentation complete", zap.Int("documented_len", len(state.DocumentedCode)))
	return nil
}

// analyze has the model run the code through the execution tool and
// collects issues and test results from its reply. Runtime failures of the
// analyzed code arrive as tool output and become findings, never errors.
func (p *Pipeline) analyze(ctx context.Context, state *State) error {
	system, err := p.prompts.Get(prompt.Analyze)
	if err != nil {
		return err
	}
	user := fmt.Sprintf(`Analyze and test this %s code:

%s

Execute the code and try different test scenarios. Document any issues and the input/output behavior.`,
		state.Language, state.CodeForAnalysis())

	text, err := p.runToolLoop(ctx, system, user, p.registry.ByCategory(tools.CategoryExecution))
	if err != nil {
		return err
	}

	issues, results := parseAnalysis(text)
	state.IssuesFound = issues
	state.TestResults = results

	p.logger.Info("analysis complete",
		zap.Int("issues", len(issues)),
		zap.Int("test_results", len(results)))
	return nil
}

// finalize writes both output files and marks the run completed. A failed
// write leaves the state failed with no further writes attempted.
func (p *Pipeline) finalize(state *State) error {
	if err := p.writer.WriteCode(state); err != nil {
		return err
	}
	if err := p.writer.WriteAnalysis(state); err != nil {
		return err
	}
	state.Status = StatusCompleted
	p.logger.Info("workflow completed")
	return nil
}
