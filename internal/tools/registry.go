package tools

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"autodoc/internal/llm"
)

// Registry holds all available tools and provides lookup by name and
// category. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]*Tool
}

// NewRegistry creates a new empty tool registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]*Tool)}
}

// Register adds a tool to the registry.
// Returns an error if a tool with the same name already exists.
func (r *Registry) Register(tool *Tool) error {
	if err := tool.Validate(); err != nil {
		return fmt.Errorf("invalid tool: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[tool.Name]; exists {
		return fmt.Errorf("%w: %s", ErrToolRegistered, tool.Name)
	}
	r.tools[tool.Name] = tool
	return nil
}

// MustRegister registers a tool and panics on error.
// Use this for static tool registration at startup.
func (r *Registry) MustRegister(tool *Tool) {
	if err := r.Register(tool); err != nil {
		panic(fmt.Sprintf("failed to register tool %s: %v", tool.Name, err))
	}
}

// Get returns a tool by name, or nil if not found.
func (r *Registry) Get(name string) *Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tools[name]
}

// ByCategory returns all tools in a category, sorted by name.
func (r *Registry) ByCategory(category Category) []*Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*Tool
	for _, tool := range r.tools {
		if tool.Category == category {
			result = append(result, tool)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// Count returns the number of registered tools.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Definitions converts a set of tools to model-facing definitions.
func Definitions(set []*Tool) []llm.ToolDefinition {
	defs := make([]llm.ToolDefinition, len(set))
	for i, tool := range set {
		defs[i] = tool.Definition()
	}
	return defs
}

// Invoke executes a tool call requested by the model. Unknown tools and
// execution failures are reported back to the model as error results rather
// than failing the run.
func (r *Registry) Invoke(ctx context.Context, call llm.ToolCall) llm.ToolResult {
	tool := r.Get(call.Name)
	if tool == nil {
		return llm.ToolResult{
			Name:    call.Name,
			Content: fmt.Sprintf("%v: %s", ErrToolNotFound, call.Name),
			IsError: true,
		}
	}

	output, err := tool.Execute(ctx, call.Input)
	if err != nil {
		return llm.ToolResult{Name: call.Name, Content: err.Error(), IsError: true}
	}
	return llm.ToolResult{Name: call.Name, Content: output}
}
