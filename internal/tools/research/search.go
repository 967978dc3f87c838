// Package research provides the search capability used by the Research
// stage to look up unfamiliar libraries.
package research

import (
	"context"
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"autodoc/internal/tools"
)

// SearchResult represents a single search result.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Searcher abstracts the search backend so tests can stub it.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]SearchResult, error)
}

// Options configures the search tool.
type Options struct {
	// TavilyAPIKey selects the Tavily backend when non-empty;
	// otherwise DuckDuckGo HTML search is used.
	TavilyAPIKey string

	// MaxResults bounds results per query (default 2, matching the
	// research prompt's brevity; capped at 10).
	MaxResults int

	// CacheTTL bounds how long results are reused (default 30m).
	CacheTTL time.Duration
}

// NewSearcher builds the backend selected by the options.
func NewSearcher(opts Options) Searcher {
	if opts.TavilyAPIKey != "" {
		return NewTavilyClient(opts.TavilyAPIKey)
	}
	return NewDuckDuckGoClient()
}

// LibraryInfoTool returns the search_library_info tool backed by the given
// searcher. Results are cached per library to avoid redundant API calls
// within and across stages.
func LibraryInfoTool(searcher Searcher, opts Options) *tools.Tool {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = 2
	}
	if maxResults > 10 {
		maxResults = 10
	}
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	cache := gocache.New(ttl, 2*ttl)

	return &tools.Tool{
		Name:        "search_library_info",
		Description: "Search for library documentation and usage examples",
		Category:    tools.CategoryResearch,
		Schema: tools.Schema{
			Required: []string{"library_name"},
			Properties: map[string]tools.Property{
				"library_name": {
					Type:        "string",
					Description: "Name of the library to research",
				},
			},
		},
		Execute: func(ctx context.Context, args map[string]any) (string, error) {
			library, _ := args["library_name"].(string)
			library = strings.TrimSpace(library)
			if library == "" {
				return "", fmt.Errorf("library_name is required")
			}

			if cached, ok := cache.Get(library); ok {
				return cached.(string), nil
			}

			query := fmt.Sprintf("%s library documentation examples", library)
			results, err := searcher.Search(ctx, query, maxResults)
			if err != nil {
				return "", fmt.Errorf("search failed: %w", err)
			}

			formatted := FormatResults(library, results)
			cache.Set(library, formatted, gocache.DefaultExpiration)
			return formatted, nil
		},
	}
}

// FormatResults renders search results for the model.
func FormatResults(query string, results []SearchResult) string {
	if len(results) == 0 {
		return "No results found for: " + query
	}

	var sb strings.Builder
	for i, result := range results {
		if i > 0 {
			sb.WriteString("\n---\n")
		}
		sb.WriteString(fmt.Sprintf("Source: %s\n", result.URL))
		snippet := result.Snippet
		if len(snippet) > 400 {
			snippet = snippet[:400] + "..."
		}
		sb.WriteString(fmt.Sprintf("Title: %s\nContent: %s\n", result.Title, snippet))
	}
	return sb.String()
}
