package inspect

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// PythonInspector parses Python source with tree-sitter.
type PythonInspector struct {
	parser *sitter.Parser
}

// NewPythonInspector creates a Python inspector.
func NewPythonInspector() *PythonInspector {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())
	return &PythonInspector{parser: parser}
}

// Language returns "python".
func (p *PythonInspector) Language() string { return "python" }

// Extensions returns [".py", ".pyw"].
func (p *PythonInspector) Extensions() []string { return []string{".py", ".pyw"} }

// Imports extracts imported modules in source order.
// `import a.b` yields "a.b"; `from m import x` yields "m.x".
func (p *PythonInspector) Imports(content []byte) ([]string, error) {
	tree, err := p.parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return nil, fmt.Errorf("python parse failed: %w", err)
	}
	defer tree.Close()

	getText := func(n *sitter.Node) string {
		return string(content[n.StartByte():n.EndByte()])
	}

	var imports []string
	var walk func(*sitter.Node)
	walk = func(n *sitter.Node) {
		switch n.Type() {
		case "import_statement":
			// import a, b.c as d
			for i := 0; i < int(n.NamedChildCount()); i++ {
				child := n.NamedChild(i)
				switch child.Type() {
				case "dotted_name":
					imports = appendUnique(imports, getText(child))
				case "aliased_import":
					if name := child.ChildByFieldName("name"); name != nil {
						imports = appendUnique(imports, getText(name))
					}
				}
			}
			return

		case "import_from_statement":
			// from m import x, y as z
			module := ""
			moduleStart := uint32(0)
			if moduleNode := n.ChildByFieldName("module_name"); moduleNode != nil {
				module = getText(moduleNode)
				moduleStart = moduleNode.StartByte()
			}
			for i := 0; i < int(n.NamedChildCount()); i++ {
				child := n.NamedChild(i)
				if module != "" && child.StartByte() == moduleStart {
					continue
				}
				var name string
				switch child.Type() {
				case "dotted_name":
					name = getText(child)
				case "aliased_import":
					if inner := child.ChildByFieldName("name"); inner != nil {
						name = getText(inner)
					}
				case "wildcard_import":
					name = "*"
				default:
					continue
				}
				imports = appendUnique(imports, module+"."+name)
			}
			return
		}

		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i))
		}
	}

	walk(tree.RootNode())
	return imports, nil
}

// HasDocumentation reports true when the source contains a comment or a
// module, class, or function docstring.
func (p *PythonInspector) HasDocumentation(content []byte) (bool, error) {
	tree, err := p.parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return false, fmt.Errorf("python parse failed: %w", err)
	}
	defer tree.Close()

	found := false
	var walk func(*sitter.Node)
	walk = func(n *sitter.Node) {
		if found {
			return
		}
		switch n.Type() {
		case "comment":
			found = true
			return
		case "module", "block":
			// A docstring is a bare string as the first statement of a
			// module, class, or function body.
			if first := n.NamedChild(0); first != nil && first.Type() == "expression_statement" {
				if inner := first.NamedChild(0); inner != nil && inner.Type() == "string" {
					found = true
					return
				}
			}
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i))
		}
	}

	walk(tree.RootNode())
	return found, nil
}
