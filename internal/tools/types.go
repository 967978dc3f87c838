// Package tools defines the tool capabilities the model client can be
// augmented with. Stages select tools from a Registry and hand their
// definitions to the LLM for function calling.
package tools

import (
	"context"

	"autodoc/internal/llm"
)

// Category classifies tools by workflow stage.
type Category string

const (
	// CategoryResearch covers library lookup and web search.
	CategoryResearch Category = "research"

	// CategoryExecution covers running analyzed code.
	CategoryExecution Category = "execution"

	// CategoryGeneral is for tools usable by any stage.
	CategoryGeneral Category = "general"
)

// Property describes a single parameter for the tool's JSON schema.
type Property struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Default     any    `json:"default,omitempty"`
	Enum        []any  `json:"enum,omitempty"`
}

// Schema defines the JSON schema for tool arguments.
type Schema struct {
	Required   []string            `json:"required"`
	Properties map[string]Property `json:"properties"`
}

// ExecuteFunc is the signature for tool execution.
type ExecuteFunc func(ctx context.Context, args map[string]any) (string, error)

// Tool is a single capability the model may invoke.
type Tool struct {
	// Name is the unique identifier, as exposed to the model.
	Name string

	// Description explains what the tool does, for function declarations.
	Description string

	// Category classifies the tool for stage filtering.
	Category Category

	// Execute runs the tool with the given arguments.
	Execute ExecuteFunc

	// Schema defines the expected arguments.
	Schema Schema
}

// Validate checks if the tool definition is valid.
func (t *Tool) Validate() error {
	if t.Name == "" {
		return ErrToolNameEmpty
	}
	if t.Execute == nil {
		return ErrToolExecuteNil
	}
	return nil
}

// Definition converts the tool into the model client's wire format.
func (t *Tool) Definition() llm.ToolDefinition {
	properties := make(map[string]interface{}, len(t.Schema.Properties))
	for name, prop := range t.Schema.Properties {
		p := map[string]interface{}{
			"type":        prop.Type,
			"description": prop.Description,
		}
		if len(prop.Enum) > 0 {
			p["enum"] = prop.Enum
		}
		properties[name] = p
	}
	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(t.Schema.Required) > 0 {
		schema["required"] = t.Schema.Required
	}
	return llm.ToolDefinition{
		Name:        t.Name,
		Description: t.Description,
		InputSchema: schema,
	}
}
