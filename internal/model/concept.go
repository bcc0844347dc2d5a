package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"strings"
)

// PathSeparator separates the segments of a concept path.
const PathSeparator = "/"

// UndefinedSeriesName marks structural concepts that group other concepts
// but were not created from a data series of their own.
const UndefinedSeriesName = "UNDEFINED"

var (
	// ErrConceptNotFound is returned when a path has no matching concept.
	ErrConceptNotFound = errors.New("concept not found")
	// ErrOutsideTree is returned when a path does not belong under a tree's root.
	ErrOutsideTree = errors.New("path outside concept tree")
)

// Concept is a node in an accounting concept tree.
//
// Leaves carry the published values; intermediate concepts group leaves or
// other intermediate concepts. Every non-root concept's Path is its parent's
// Path followed by PathSeparator and its own name.
type Concept struct {
	Path       string
	SeriesName string
	Value      int64

	children []*Concept
	// index maps every path of the tree to its node. All nodes of a tree
	// share it once built; Clone starts without one.
	index map[string]*Concept
}

// NewConcept creates a childless concept with a zero value.
func NewConcept(path, series string) *Concept {
	return &Concept{Path: path, SeriesName: series}
}

// Name returns the last segment of the concept path.
func (c *Concept) Name() string {
	if i := strings.LastIndex(c.Path, PathSeparator); i >= 0 {
		return c.Path[i+1:]
	}
	return c.Path
}

// IsLeaf reports whether the concept has no children.
func (c *Concept) IsLeaf() bool {
	return len(c.children) == 0
}

// IsStructural reports whether the concept was created only to group others.
func (c *Concept) IsStructural() bool {
	return c.SeriesName == UndefinedSeriesName
}

// Children returns the direct children in insertion order.
func (c *Concept) Children() []*Concept {
	return c.children
}

// Insert adds the concept at path below c, creating any missing intermediate
// concepts with UndefinedSeriesName. Each distinct prefix gets exactly one
// node. Inserting c's own path is a no-op.
func (c *Concept) Insert(path, series string) error {
	if path == c.Path {
		return nil
	}
	if !c.contains(path) {
		return fmt.Errorf("inserting %q under %q: %w", path, c.Path, ErrOutsideTree)
	}

	idx := c.lookup()
	parent := c
	for i := len(c.Path) + 1; i < len(path); i++ {
		if path[i] != PathSeparator[0] {
			continue
		}
		sub := path[:i]
		node, ok := idx[sub]
		if !ok {
			node = NewConcept(sub, UndefinedSeriesName)
			node.index = idx
			parent.children = append(parent.children, node)
			idx[sub] = node
		}
		parent = node
	}

	if node, ok := idx[path]; ok {
		// A deeper path created this node first; it now gets its own series.
		node.SeriesName = series
		return nil
	}
	node := NewConcept(path, series)
	node.index = idx
	parent.children = append(parent.children, node)
	idx[path] = node
	return nil
}

// Find returns the concept at path, which may be c itself.
func (c *Concept) Find(path string) (*Concept, bool) {
	if path == c.Path {
		return c, true
	}
	if !c.contains(path) {
		return nil, false
	}
	node, ok := c.lookup()[path]
	return node, ok
}

// SetValue sets the value of the concept at path. The root's own path
// updates c directly.
func (c *Concept) SetValue(path string, value int64) error {
	if path == c.Path {
		c.Value = value
		return nil
	}
	node, ok := c.Find(path)
	if !ok {
		return fmt.Errorf("updating %q in %q: %w", path, c.Path, ErrConceptNotFound)
	}
	node.Value = value
	return nil
}

// Clone returns a deep copy of the tree rooted at c.
func (c *Concept) Clone() *Concept {
	cp := &Concept{
		Path:       c.Path,
		SeriesName: c.SeriesName,
		Value:      c.Value,
	}
	if len(c.children) > 0 {
		cp.children = make([]*Concept, len(c.children))
		for i, child := range c.children {
			cp.children[i] = child.Clone()
		}
	}
	return cp
}

// All iterates over the tree depth first, visiting c before its children.
func (c *Concept) All() iter.Seq[*Concept] {
	return func(yield func(*Concept) bool) {
		c.walk(yield)
	}
}

func (c *Concept) walk(yield func(*Concept) bool) bool {
	if !yield(c) {
		return false
	}
	for _, child := range c.children {
		if !child.walk(yield) {
			return false
		}
	}
	return true
}

// Leaves returns the leaf concepts in depth-first order.
func (c *Concept) Leaves() []*Concept {
	var leaves []*Concept
	for node := range c.All() {
		if node.IsLeaf() {
			leaves = append(leaves, node)
		}
	}
	return leaves
}

func (c *Concept) contains(path string) bool {
	prefix := c.Path + PathSeparator
	return strings.HasPrefix(path, prefix) && len(path) > len(prefix)
}

// lookup returns the shared index, building it over the subtree at c and
// handing it to every node of that subtree when none exists yet.
func (c *Concept) lookup() map[string]*Concept {
	if c.index != nil {
		return c.index
	}
	idx := make(map[string]*Concept)
	for node := range c.All() {
		idx[node.Path] = node
		node.index = idx
	}
	return idx
}

type conceptJSON struct {
	Path       string     `json:"path"`
	SeriesName string     `json:"series_name"`
	Value      int64      `json:"value"`
	Children   []*Concept `json:"children"`
}

// MarshalJSON encodes the concept together with its subtree.
func (c *Concept) MarshalJSON() ([]byte, error) {
	children := c.children
	if children == nil {
		children = []*Concept{}
	}
	return json.Marshal(conceptJSON{
		Path:       c.Path,
		SeriesName: c.SeriesName,
		Value:      c.Value,
		Children:   children,
	})
}
