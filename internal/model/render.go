package model

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

const (
	nameWidth  = 68
	indentUnit = "  "
)

// Render writes an indented text view of the tree: one line per concept,
// names left-aligned in a 68-column field and values right-aligned in a
// 12-column field. Zero leaves are skipped, as is any subtree whose
// children are all zero leaves. Structural concepts without a value print
// their name only.
func (c *Concept) Render(w io.Writer) error {
	if _, err := io.WriteString(w, "\n"); err != nil {
		return err
	}
	return c.render(w, 0)
}

func (c *Concept) render(w io.Writer, depth int) error {
	if !c.IsLeaf() && c.allChildrenZeroLeaves() {
		return nil
	}

	label := strings.Repeat(indentUnit, depth) + c.Name()
	var err error
	switch {
	case c.IsStructural() && c.Value == 0:
		_, err = fmt.Fprintf(w, "%-*.*s\n", nameWidth, nameWidth, label)
	case !(c.IsLeaf() && c.Value == 0):
		_, err = fmt.Fprintf(w, "%-*.*s%12d\n", nameWidth, nameWidth, label, c.Value)
	}
	if err != nil {
		return err
	}

	for _, child := range c.children {
		if err := child.render(w, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (c *Concept) allChildrenZeroLeaves() bool {
	for _, child := range c.children {
		if !child.IsLeaf() || child.Value != 0 {
			return false
		}
	}
	return true
}

func (c *Concept) String() string {
	var buf bytes.Buffer
	_ = c.Render(&buf)
	return buf.String()
}
