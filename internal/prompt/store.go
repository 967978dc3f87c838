// Package prompt holds the three stage prompts and their YAML loader.
package prompt

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Template names.
const (
	Research = "research_prompt"
	Document = "document_prompt"
	Analyze  = "analyze_prompt"
)

// Store provides lookup of stage prompts by name.
type Store struct {
	templates map[string]string
}

// storeFile is the on-disk YAML shape: a flat key-value mapping.
type storeFile struct {
	Research string `yaml:"research_prompt"`
	Document string `yaml:"document_prompt"`
	Analyze  string `yaml:"analyze_prompt"`
}

// NewStore returns a store holding the built-in prompts.
func NewStore() *Store {
	return &Store{templates: map[string]string{
		Research: defaultResearchPrompt,
		Document: defaultDocumentPrompt,
		Analyze:  defaultAnalyzePrompt,
	}}
}

// LoadStore reads prompts from a YAML file. All three keys must be present;
// a missing key is a fatal configuration error.
func LoadStore(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", path, err)
	}

	var file storeFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", path, err)
	}

	templates := map[string]string{
		Research: file.Research,
		Document: file.Document,
		Analyze:  file.Analyze,
	}
	for name, text := range templates {
		if text == "" {
			return nil, fmt.Errorf("prompt file %s: missing key %q", path, name)
		}
	}
	return &Store{templates: templates}, nil
}

// Get returns the template with the given name.
func (s *Store) Get(name string) (string, error) {
	text, ok := s.templates[name]
	if !ok || text == "" {
		return "", fmt.Errorf("unknown prompt %q", name)
	}
	return text, nil
}
