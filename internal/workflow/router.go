package workflow

// Node identifies one stage of the pipeline.
type Node int

const (
	NodeResearch Node = iota
	NodeDocument
	NodeAnalyze
	NodeFinal
	// NodeDone is the post-terminal marker; the run ends when reached.
	NodeDone
)

// String returns the stage name.
func (n Node) String() string {
	switch n {
	case NodeResearch:
		return "research"
	case NodeDocument:
		return "document"
	case NodeAnalyze:
		return "analyze"
	case NodeFinal:
		return "final"
	default:
		return "done"
	}
}

// next returns the node following current. The only conditional edge is
// Research → Document/Analyze, decided on DocumentationPresent; every other
// edge is unconditional and there are no loop-back edges.
func next(current Node, state *State) Node {
	switch current {
	case NodeResearch:
		if state.DocumentationPresent {
			return NodeAnalyze
		}
		return NodeDocument
	case NodeDocument:
		return NodeAnalyze
	case NodeAnalyze:
		return NodeFinal
	default:
		return NodeDone
	}
}

// Mermaid renders the stage graph in mermaid syntax.
func Mermaid() string {
	return `graph TD
    start([start]) --> research
    research -->|needs documentation| document
    research -->|already documented| analyze
    document --> analyze
    analyze --> final
    final --> finish([end])
`
}
