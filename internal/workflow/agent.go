package workflow

import (
	"context"

	"go.uber.org/zap"

	"autodoc/internal/llm"
	"autodoc/internal/tools"
)

// maxToolRounds bounds how many tool-call rounds a stage may take before
// the loop returns whatever text the model produced last.
const maxToolRounds = 8

// runToolLoop drives a tool-augmented completion: it sends the prompt with
// the stage's tool definitions, executes any tool calls the model makes,
// feeds the results back, and repeats until the model answers with text.
// Tool failures are reported back to the model as error results; only model
// API failures abort the loop.
func (p *Pipeline) runToolLoop(ctx context.Context, systemPrompt, userPrompt string, set []*tools.Tool) (string, error) {
	defs := tools.Definitions(set)

	resp, err := p.client.CompleteWithTools(ctx, systemPrompt, userPrompt, defs)
	if err != nil {
		return "", err
	}

	history := []llm.Turn{{Role: "user", Text: userPrompt}}

	for round := 0; round < maxToolRounds; round++ {
		if len(resp.ToolCalls) == 0 {
			return resp.Text, nil
		}

		history = append(history, llm.Turn{Role: "model", Text: resp.Text, ToolCalls: resp.ToolCalls})

		results := make([]llm.ToolResult, 0, len(resp.ToolCalls))
		for _, call := range resp.ToolCalls {
			result := p.registry.Invoke(ctx, call)
			if result.IsError {
				p.logger.Warn("tool call failed",
					zap.String("tool", call.Name),
					zap.String("error", result.Content))
			} else {
				p.logger.Debug("tool call succeeded",
					zap.String("tool", call.Name),
					zap.Int("output_len", len(result.Content)))
			}
			results = append(results, result)
		}

		resp, err = p.client.CompleteWithToolResults(ctx, systemPrompt, history, results, defs)
		if err != nil {
			return "", err
		}
		history = append(history, llm.Turn{Role: "function", ToolResults: results})
	}

	p.logger.Warn("tool loop exhausted rounds", zap.Int("rounds", maxToolRounds))
	return resp.Text, nil
}
