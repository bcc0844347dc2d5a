package h41

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/cleared-dev/fedsheet/internal/model"
)

// Entry maps one selected series to its concept path.
type Entry struct {
	Type       model.ConceptType
	Series     string
	Path       string
	Annotation string
}

// category is the selected and normalized series of one tree together with
// the zero-valued tree they describe.
type category struct {
	rules    *CategoryRules
	series   []Series
	paths    []string
	template *model.Concept
}

// entries returns the series of the category with their paths.
func (c *category) entries() []Entry {
	out := make([]Entry, len(c.series))
	for i, s := range c.series {
		out[i] = Entry{Type: s.Type, Series: s.Name, Path: c.paths[i], Annotation: s.Annotation}
	}
	return out
}

// buildCategory normalizes the annotation of every series and builds the
// template tree from the resulting paths.
func buildCategory(rules *CategoryRules, series []Series, log logrus.FieldLogger) (*category, error) {
	c := &category{rules: rules, series: series, paths: make([]string, len(series))}
	idx := newPathIndex()
	for i, s := range series {
		path := rules.Normalize(s.Annotation)
		c.paths[i] = path
		if prev, dup := idx.add(path, s.Name); dup {
			log.WithFields(logrus.Fields{
				"path":     path,
				"series":   s.Name,
				"replaces": prev,
			}).Warn("two series share a concept path")
		}
	}

	root := rules.Type.RootPath()
	rootSeries := rules.RootSeries
	if s, ok := idx.get(root); ok {
		rootSeries = s
	}
	tree := model.NewConcept(root, rootSeries)
	for _, path := range idx.paths() {
		code, _ := idx.get(path)
		if err := tree.Insert(path, code); err != nil {
			return nil, &ParseError{Series: code, Element: "AnnotationText", Err: err}
		}
	}
	c.template = tree

	log.WithFields(logrus.Fields{
		"category": rules.Type,
		"series":   len(series),
		"paths":    idx.len(),
	}).Debug("built concept tree")
	return c, nil
}

// buildTemplate assembles the three category trees into a balance sheet.
func buildTemplate(cats map[model.ConceptType]*category) (*model.BalanceSheet, error) {
	trees := make([]*model.Concept, 0, 3)
	for _, ct := range model.ConceptTypes() {
		c, ok := cats[ct]
		if !ok {
			return nil, fmt.Errorf("building template: no %s tree", ct)
		}
		trees = append(trees, c.template)
	}
	return model.NewBalanceSheet(trees[0], trees[1], trees[2]), nil
}
