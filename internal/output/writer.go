package output

import (
	"io"
	"strings"
)

// DefaultIndent is the width of one tree level in columns.
const DefaultIndent = 4

const (
	symbolDown  = "│"
	symbolTee   = "├"
	symbolEll   = "└"
	symbolRight = "─"
)

// Writer draws tree lines to an underlying io.Writer. The first write error
// is kept and every later write becomes a no-op.
type Writer struct {
	out    io.Writer
	indent int
	err    error
}

// NewWriter creates a Writer. An indent below 2 falls back to DefaultIndent.
func NewWriter(out io.Writer, indent int) *Writer {
	if indent < 2 {
		indent = DefaultIndent
	}
	return &Writer{out: out, indent: indent}
}

// Root returns the depth-0 cursor.
func (w *Writer) Root() Cursor {
	return Cursor{w: w}
}

// Blank writes an empty line.
func (w *Writer) Blank() {
	w.write("\n")
}

// Err returns the first write error, if any.
func (w *Writer) Err() error {
	return w.err
}

func (w *Writer) write(s string) {
	if w.err != nil {
		return
	}
	_, w.err = io.WriteString(w.out, s)
}

// Cursor is a position in the tree. Cursors are values; a parent is never
// changed by deriving its children.
type Cursor struct {
	w     *Writer
	depth int
	last  bool
	// ancestors holds the last flag of each ancestor at depth >= 1,
	// outermost first.
	ancestors []bool
}

// Depth returns the nesting level; the root is 0.
func (c Cursor) Depth() int { return c.depth }

// Last reports whether the cursor is the final sibling at its level.
func (c Cursor) Last() bool { return c.last }

// Children derives one cursor per child and calls fn for each in order.
func (c Cursor) Children(n int, fn func(i int, child Cursor)) {
	var ancestors []bool
	if c.depth >= 1 {
		ancestors = make([]bool, len(c.ancestors)+1)
		copy(ancestors, c.ancestors)
		ancestors[len(c.ancestors)] = c.last
	}
	for i := 0; i < n; i++ {
		fn(i, Cursor{
			w:         c.w,
			depth:     c.depth + 1,
			last:      i == n-1,
			ancestors: ancestors,
		})
	}
}

// WriteLine writes label at the cursor's position. Root lines have no
// connector.
func (c Cursor) WriteLine(label string) {
	if c.depth == 0 {
		c.w.write(label + "\n")
		return
	}

	indent := c.w.indent
	var b strings.Builder
	for _, last := range c.ancestors {
		if last {
			b.WriteString(strings.Repeat(" ", indent))
		} else {
			b.WriteString(symbolDown)
			b.WriteString(strings.Repeat(" ", indent-1))
		}
	}
	if c.last {
		b.WriteString(symbolEll)
	} else {
		b.WriteString(symbolTee)
	}
	b.WriteString(strings.Repeat(symbolRight, indent-2))
	b.WriteString(" ")
	b.WriteString(label)
	b.WriteString("\n")

	c.w.write(b.String())
}
