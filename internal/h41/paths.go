package h41

import (
	"maps"
	"slices"
)

// pathIndex collects the path of every series of a tree before the tree is
// built, so that each path is inserted once.
type pathIndex struct {
	series map[string]string
}

func newPathIndex() *pathIndex {
	return &pathIndex{series: make(map[string]string)}
}

// add records series under path and returns the series it replaced, if any.
func (x *pathIndex) add(path, series string) (string, bool) {
	prev, dup := x.series[path]
	x.series[path] = series
	return prev, dup && prev != series
}

func (x *pathIndex) get(path string) (string, bool) {
	s, ok := x.series[path]
	return s, ok
}

func (x *pathIndex) len() int {
	return len(x.series)
}

// paths returns every path in byte order, parents before their children.
func (x *pathIndex) paths() []string {
	return slices.Sorted(maps.Keys(x.series))
}
