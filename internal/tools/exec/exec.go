// Package exec provides the code-execution capability used by the Analyze
// stage. Python runs in a subprocess; Go runs in a sandboxed interpreter.
package exec

import (
	"context"
	"fmt"
	"strings"

	"autodoc/internal/tools"
)

// Runner executes source code in some language and reports the outcome as
// text. Implementations must surface runtime failures of the executed code
// in the returned string, reserving the error for infrastructure problems.
type Runner interface {
	Run(ctx context.Context, source string) (string, error)
}

// Runners maps a language name to its runner.
type Runners map[string]Runner

// DefaultRunners returns the supported language runners.
func DefaultRunners() Runners {
	return Runners{
		"python": NewPythonRunner(),
		"go":     NewGoRunner(),
	}
}

// CodeTool returns the execute_code tool dispatching on language.
func CodeTool(runners Runners) *tools.Tool {
	languages := make([]any, 0, len(runners))
	for lang := range runners {
		languages = append(languages, lang)
	}

	return &tools.Tool{
		Name:        "execute_code",
		Description: "Execute code and return its output",
		Category:    tools.CategoryExecution,
		Schema: tools.Schema{
			Required: []string{"code", "language"},
			Properties: map[string]tools.Property{
				"code": {
					Type:        "string",
					Description: "Source code to execute",
				},
				"language": {
					Type:        "string",
					Description: "Language of the code",
					Enum:        languages,
				},
			},
		},
		Execute: func(ctx context.Context, args map[string]any) (string, error) {
			code, _ := args["code"].(string)
			if strings.TrimSpace(code) == "" {
				return "", fmt.Errorf("code is required")
			}
			language, _ := args["language"].(string)
			language = strings.ToLower(strings.TrimSpace(language))

			runner, ok := runners[language]
			if !ok {
				return "", fmt.Errorf("unsupported language: %q", language)
			}
			return runner.Run(ctx, code)
		},
	}
}
