package sdmx

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Element is one XML element with its namespace-qualified name, attributes,
// child elements and the character data found directly inside it.
type Element struct {
	Name     xml.Name
	Attrs    []xml.Attr
	Children []*Element
	Text     string
}

// Document is a parsed XML document.
type Document struct {
	Root *Element
}

// Parse reads a whole XML document. Element names carry namespace URIs,
// not prefixes.
func Parse(r io.Reader) (*Document, error) {
	dec := xml.NewDecoder(r)

	var root *Element
	var stack []*Element
	var text [][]byte

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing XML: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := &Element{Name: t.Name, Attrs: t.Copy().Attr}
			if len(stack) == 0 {
				if root != nil {
					return nil, errors.New("parsing XML: multiple root elements")
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, el)
			}
			stack = append(stack, el)
			text = append(text, nil)
		case xml.EndElement:
			n := len(stack) - 1
			stack[n].Text = string(text[n])
			stack = stack[:n]
			text = text[:n]
		case xml.CharData:
			if len(stack) > 0 {
				text[len(text)-1] = append(text[len(text)-1], t...)
			}
		}
	}

	if root == nil {
		return nil, errors.New("parsing XML: no root element")
	}
	return &Document{Root: root}, nil
}

// Is reports whether the element has the given namespace and local name.
func (e *Element) Is(space, local string) bool {
	return e.Name.Space == space && e.Name.Local == local
}

// Attr returns the value of an unqualified attribute.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name.Space == "" && a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// Descendants returns e and every element below it matching space and
// local, in document order.
func (e *Element) Descendants(space, local string) []*Element {
	var out []*Element
	var visit func(*Element)
	visit = func(el *Element) {
		if el.Is(space, local) {
			out = append(out, el)
		}
		for _, c := range el.Children {
			visit(c)
		}
	}
	visit(e)
	return out
}

// FirstText returns the trimmed text of the first matching descendant.
func (e *Element) FirstText(space, local string) (string, bool) {
	found := e.Descendants(space, local)
	if len(found) == 0 {
		return "", false
	}
	return strings.TrimSpace(found[0].Text), true
}
