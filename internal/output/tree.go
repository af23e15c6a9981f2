package output

import "fmt"

// Node is one labelled tree node.
type Node struct {
	Label    string
	Children []Node
	// Limit caps the children shown. When positive and exceeded, the first
	// Limit children are followed by a final "and N more..." line.
	Limit int
}

// Visible returns the children as rendered, truncation applied.
func (n Node) Visible() []Node {
	if n.Limit <= 0 || len(n.Children) <= n.Limit {
		return n.Children
	}
	shown := make([]Node, 0, n.Limit+1)
	shown = append(shown, n.Children[:n.Limit]...)
	shown = append(shown, Node{Label: fmt.Sprintf("and %d more...", len(n.Children)-n.Limit)})
	return shown
}

// Render draws each root as its own tree, separated by a blank line.
func Render(w *Writer, roots []Node) error {
	for i, root := range roots {
		if i > 0 {
			w.Blank()
		}
		renderNode(w.Root(), root)
	}
	return w.Err()
}

func renderNode(c Cursor, n Node) {
	c.WriteLine(n.Label)
	children := n.Visible()
	c.Children(len(children), func(i int, child Cursor) {
		renderNode(child, children[i])
	})
}
