// Package inspect extracts facts from the input source before any model
// call: which libraries it imports and whether documentation is already
// present. Both drive the Research stage deterministically, the way the
// original AST pass did, leaving the model to narrative analysis only.
package inspect

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Inspector parses source files of one language.
type Inspector interface {
	// Language returns the canonical language name ("python", "go").
	Language() string

	// Extensions returns the file extensions the inspector accepts.
	Extensions() []string

	// Imports returns imported libraries in source order, deduplicated.
	Imports(content []byte) ([]string, error)

	// HasDocumentation reports whether the source carries a documentation
	// marker: a docstring or any comment.
	HasDocumentation(content []byte) (bool, error)
}

// Set routes files to inspectors by extension.
type Set struct {
	byExtension map[string]Inspector
}

// NewSet builds a set from the given inspectors.
func NewSet(inspectors ...Inspector) *Set {
	s := &Set{byExtension: make(map[string]Inspector)}
	for _, ins := range inspectors {
		for _, ext := range ins.Extensions() {
			s.byExtension[ext] = ins
		}
	}
	return s
}

// DefaultSet returns inspectors for the supported languages.
func DefaultSet() *Set {
	return NewSet(NewPythonInspector(), NewGoInspector())
}

// ForFile returns the inspector for the file's extension.
func (s *Set) ForFile(path string) (Inspector, error) {
	ext := strings.ToLower(filepath.Ext(path))
	ins, ok := s.byExtension[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported source file extension %q", ext)
	}
	return ins, nil
}

// appendUnique appends value if not already present, preserving order.
func appendUnique(list []string, value string) []string {
	for _, existing := range list {
		if existing == value {
			return list
		}
	}
	return append(list, value)
}
