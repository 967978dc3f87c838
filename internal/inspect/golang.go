package inspect

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
)

// GoInspector parses Go source with tree-sitter.
type GoInspector struct {
	parser *sitter.Parser
}

// NewGoInspector creates a Go inspector.
func NewGoInspector() *GoInspector {
	parser := sitter.NewParser()
	parser.SetLanguage(golang.GetLanguage())
	return &GoInspector{parser: parser}
}

// Language returns "go".
func (g *GoInspector) Language() string { return "go" }

// Extensions returns [".go"].
func (g *GoInspector) Extensions() []string { return []string{".go"} }

// Imports extracts import paths in source order.
func (g *GoInspector) Imports(content []byte) ([]string, error) {
	tree, err := g.parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return nil, fmt.Errorf("go parse failed: %w", err)
	}
	defer tree.Close()

	getText := func(n *sitter.Node) string {
		return string(content[n.StartByte():n.EndByte()])
	}

	var imports []string
	var walk func(*sitter.Node)
	walk = func(n *sitter.Node) {
		if n.Type() == "import_declaration" {
			var collect func(*sitter.Node)
			collect = func(spec *sitter.Node) {
				if spec.Type() == "import_spec" {
					if pathNode := spec.ChildByFieldName("path"); pathNode != nil {
						imports = appendUnique(imports, strings.Trim(getText(pathNode), "\""))
					}
					return
				}
				for i := 0; i < int(spec.NamedChildCount()); i++ {
					collect(spec.NamedChild(i))
				}
			}
			collect(n)
			return
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i))
		}
	}

	walk(tree.RootNode())
	return imports, nil
}

// HasDocumentation reports true when the source contains any comment.
// In Go the doc convention is comments, so one marker suffices.
func (g *GoInspector) HasDocumentation(content []byte) (bool, error) {
	tree, err := g.parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return false, fmt.Errorf("go parse failed: %w", err)
	}
	defer tree.Close()

	found := false
	var walk func(*sitter.Node)
	walk = func(n *sitter.Node) {
		if found {
			return
		}
		if n.Type() == "comment" {
			found = true
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}

	walk(tree.RootNode())
	return found, nil
}
