// Package llm provides the model client used by the documentation workflow.
// The only implementation talks to the Gemini REST API; tests substitute a
// deterministic stub via the Client interface.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Client defines the interface for LLM completions.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
	CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	// CompleteWithTools sends a prompt with tool definitions. The model may
	// answer with text, tool calls, or both.
	CompleteWithTools(ctx context.Context, systemPrompt, userPrompt string, tools []ToolDefinition) (*ToolResponse, error)
	// CompleteWithToolResults continues a tool-calling conversation with the
	// results of the previous turn's tool calls.
	CompleteWithToolResults(ctx context.Context, systemPrompt string, history []Turn, results []ToolResult, tools []ToolDefinition) (*ToolResponse, error)
}

// Turn is one prior message in a tool-calling conversation. Role "function"
// turns carry tool results from an earlier round.
type Turn struct {
	Role        string
	Text        string
	ToolCalls   []ToolCall
	ToolResults []ToolResult
}

// GeminiConfig holds configuration for the Gemini client.
type GeminiConfig struct {
	APIKey          string
	BaseURL         string
	Model           string
	Timeout         time.Duration
	Temperature     float64
	MaxOutputTokens int
}

// DefaultGeminiConfig returns sensible defaults.
func DefaultGeminiConfig(apiKey string) GeminiConfig {
	return GeminiConfig{
		APIKey:          apiKey,
		BaseURL:         "https://generativelanguage.googleapis.com/v1beta",
		Model:           "gemini-2.5-flash",
		Timeout:         5 * time.Minute,
		Temperature:     0.3,
		MaxOutputTokens: 8192,
	}
}

// GeminiClient implements Client against the Gemini REST API.
type GeminiClient struct {
	apiKey          string
	baseURL         string
	model           string
	temperature     float64
	maxOutputTokens int
	httpClient      *http.Client
	logger          *zap.Logger

	mu          sync.Mutex
	lastRequest time.Time
}

// NewGeminiClient creates a Gemini client with default config.
func NewGeminiClient(apiKey string, logger *zap.Logger) *GeminiClient {
	return NewGeminiClientWithConfig(DefaultGeminiConfig(apiKey), logger)
}

// NewGeminiClientWithConfig creates a Gemini client with custom config.
func NewGeminiClientWithConfig(config GeminiConfig, logger *zap.Logger) *GeminiClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	model := strings.TrimSpace(config.Model)
	if model == "" {
		model = "gemini-2.5-flash"
	}
	if config.BaseURL == "" {
		config.BaseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	if config.MaxOutputTokens <= 0 {
		config.MaxOutputTokens = 8192
	}
	if config.Timeout <= 0 {
		config.Timeout = 5 * time.Minute
	}
	return &GeminiClient{
		apiKey:          config.APIKey,
		baseURL:         config.BaseURL,
		model:           model,
		temperature:     config.Temperature,
		maxOutputTokens: config.MaxOutputTokens,
		httpClient:      &http.Client{Timeout: config.Timeout},
		logger:          logger,
	}
}

// Model returns the model name used for completions.
func (c *GeminiClient) Model() string {
	return c.model
}

// Complete sends a prompt and returns the completion.
func (c *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	return c.CompleteWithSystem(ctx, "", prompt)
}

// CompleteWithSystem sends a prompt with a system instruction.
func (c *GeminiClient) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: userPrompt}}},
		},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     c.temperature,
			MaxOutputTokens: c.maxOutputTokens,
		},
	}
	if systemPrompt != "" {
		reqBody.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: systemPrompt}}}
	}

	resp, err := c.generate(ctx, reqBody)
	if err != nil {
		return "", err
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no completion returned")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return strings.TrimSpace(sb.String()), nil
}

// CompleteWithTools sends a prompt with function declarations.
func (c *GeminiClient) CompleteWithTools(ctx context.Context, systemPrompt, userPrompt string, tools []ToolDefinition) (*ToolResponse, error) {
	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: userPrompt}}},
		},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     c.temperature,
			MaxOutputTokens: c.maxOutputTokens,
		},
	}
	if systemPrompt != "" {
		reqBody.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: systemPrompt}}}
	}
	if decls := toDeclarations(tools); len(decls) > 0 {
		reqBody.Tools = []geminiTool{{FunctionDeclarations: decls}}
	}

	resp, err := c.generate(ctx, reqBody)
	if err != nil {
		return nil, err
	}
	return parseToolResponse(resp)
}

// CompleteWithToolResults continues a tool conversation with function
// responses. The full prior history is replayed because the Gemini API is
// stateless.
func (c *GeminiClient) CompleteWithToolResults(ctx context.Context, systemPrompt string, history []Turn, results []ToolResult, tools []ToolDefinition) (*ToolResponse, error) {
	contents := make([]geminiContent, 0, len(history)+1)
	for _, turn := range history {
		content := geminiContent{Role: turn.Role}
		if turn.Text != "" {
			content.Parts = append(content.Parts, geminiPart{Text: turn.Text})
		}
		for _, call := range turn.ToolCalls {
			content.Parts = append(content.Parts, geminiPart{
				FunctionCall: &geminiFunctionCall{Name: call.Name, Args: call.Input},
			})
		}
		for _, tr := range turn.ToolResults {
			content.Parts = append(content.Parts, resultPart(tr))
		}
		contents = append(contents, content)
	}

	resultParts := make([]geminiPart, 0, len(results))
	for _, tr := range results {
		resultParts = append(resultParts, resultPart(tr))
	}
	contents = append(contents, geminiContent{Role: "function", Parts: resultParts})

	reqBody := geminiRequest{
		Contents: contents,
		GenerationConfig: geminiGenerationConfig{
			Temperature:     c.temperature,
			MaxOutputTokens: c.maxOutputTokens,
		},
	}
	if systemPrompt != "" {
		reqBody.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: systemPrompt}}}
	}
	if decls := toDeclarations(tools); len(decls) > 0 {
		reqBody.Tools = []geminiTool{{FunctionDeclarations: decls}}
	}

	resp, err := c.generate(ctx, reqBody)
	if err != nil {
		return nil, err
	}
	return parseToolResponse(resp)
}

// generate performs one generateContent call with rate limiting and a retry
// loop for 429 responses.
func (c *GeminiClient) generate(ctx context.Context, reqBody geminiRequest) (*geminiResponse, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("API key not configured")
	}

	// Auto-apply timeout if context has no deadline
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.httpClient.Timeout)
		defer cancel()
	}

	// Rate limiting: at least 100ms between requests
	c.mu.Lock()
	elapsed := time.Since(c.lastRequest)
	if elapsed < 100*time.Millisecond {
		time.Sleep(100*time.Millisecond - elapsed)
	}
	c.lastRequest = time.Now()
	c.mu.Unlock()

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	start := time.Now()

	maxRetries := 3
	var lastErr error

	for i := 0; i <= maxRetries; i++ {
		if i > 0 {
			// Exponential backoff: 1s, 2s, 4s
			time.Sleep(time.Duration(1<<uint(i-1)) * time.Second)
		}

		req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(jsonData))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("request failed: %w", err)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("failed to read response: %w", err)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			lastErr = fmt.Errorf("rate limit exceeded (429)")
			continue
		}

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
		}

		var geminiResp geminiResponse
		if err := json.Unmarshal(body, &geminiResp); err != nil {
			return nil, fmt.Errorf("failed to parse response: %w", err)
		}

		if geminiResp.Error != nil {
			return nil, fmt.Errorf("API error: %s", geminiResp.Error.Message)
		}

		c.logger.Debug("gemini completion",
			zap.String("model", c.model),
			zap.Duration("elapsed", time.Since(start)),
			zap.Int("total_tokens", geminiResp.UsageMetadata.TotalTokenCount))

		return &geminiResp, nil
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

// resultPart converts a tool result into a functionResponse part.
func resultPart(tr ToolResult) geminiPart {
	return geminiPart{
		FunctionResponse: &geminiFunctionResponse{
			Name: tr.Name,
			Response: map[string]interface{}{
				"content":  tr.Content,
				"is_error": tr.IsError,
			},
		},
	}
}

// toDeclarations converts tool definitions to the Gemini wire format.
func toDeclarations(tools []ToolDefinition) []geminiFunctionDeclaration {
	decls := make([]geminiFunctionDeclaration, len(tools))
	for i, t := range tools {
		decls[i] = geminiFunctionDeclaration{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  t.InputSchema,
		}
	}
	return decls
}

// parseToolResponse splits a response into text and tool calls.
func parseToolResponse(resp *geminiResponse) (*ToolResponse, error) {
	if len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("no completion returned")
	}

	result := &ToolResponse{StopReason: resp.Candidates[0].FinishReason}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			sb.WriteString(part.Text)
		}
		if part.FunctionCall != nil {
			result.ToolCalls = append(result.ToolCalls, ToolCall{
				Name:  part.FunctionCall.Name,
				Input: part.FunctionCall.Args,
			})
		}
	}
	result.Text = strings.TrimSpace(sb.String())
	return result, nil
}
