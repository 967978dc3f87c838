package workflow

import (
	"encoding/json"
	"strings"
)

// stripCodeFence extracts the code body from a fenced markdown reply.
// Returns the input trimmed when no fence is present.
func stripCodeFence(reply string) string {
	trimmed := strings.TrimSpace(reply)

	idx := strings.Index(trimmed, "```")
	if idx < 0 {
		return trimmed
	}

	rest := trimmed[idx+3:]
	// Drop the language tag on the opening fence
	if nl := strings.Index(rest, "\n"); nl >= 0 {
		rest = rest[nl+1:]
	}
	if end := strings.Index(rest, "```"); end >= 0 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest)
}

// extractJSON returns the substring between the first '{' and the last '}'.
func extractJSON(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		return text[start : end+1]
	}
	return text
}

// analysisReply is the JSON shape the analyze prompt asks for.
type analysisReply struct {
	Issues []string     `json:"issues"`
	Tests  []TestResult `json:"tests"`
}

// issueKeywords flag lines worth reporting when the model ignores the JSON
// instruction and replies with prose.
var issueKeywords = []string{"error", "issue", "problem", "fail", "exception", "warning"}

// parseAnalysis extracts issues and test results from the analyze reply.
// It prefers the structured JSON form; otherwise the full reply becomes a
// single test result and issues are scraped from keyword lines. An empty
// reply yields empty results, which is a valid outcome.
func parseAnalysis(text string) ([]string, []TestResult) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	var reply analysisReply
	if err := json.Unmarshal([]byte(extractJSON(text)), &reply); err == nil {
		if reply.Issues != nil || reply.Tests != nil {
			return reply.Issues, reply.Tests
		}
	}

	results := []TestResult{{Scenario: "analysis", Output: text}}

	var issues []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len(line) <= 10 {
			continue
		}
		lower := strings.ToLower(line)
		for _, keyword := range issueKeywords {
			if strings.Contains(lower, keyword) {
				issues = append(issues, line)
				break
			}
		}
	}

	return issues, results
}
