package h41

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/cleared-dev/fedsheet/internal/model"
	"github.com/cleared-dev/fedsheet/internal/sdmx"
)

// Release is a parsed H.4.1 data file.
type Release struct {
	// Template is the zero-valued balance sheet every snapshot was cloned from.
	Template     *model.BalanceSheet
	Observations *model.ObservationMap
	// Entries lists the selected series with their concept paths, in
	// presentation order of the trees and document order within a tree.
	Entries []Entry
	Stats   Stats
}

// Parser reads H.4.1 data files according to a set of Rules.
type Parser struct {
	rules *Rules
	log   *logrus.Logger
}

// NewParser returns a parser for rules. Nil rules mean DefaultRules and a
// nil logger a fresh logrus logger.
func NewParser(rules *Rules, log *logrus.Logger) (*Parser, error) {
	if rules == nil {
		rules = DefaultRules()
	}
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logrus.New()
	}
	return &Parser{rules: rules, log: log}, nil
}

// Rules returns the rules the parser applies.
func (p *Parser) Rules() *Rules {
	return p.rules
}

// ParseFile parses the data file at path.
func (p *Parser) ParseFile(path string) (*Release, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening data file: %w", err)
	}
	defer f.Close()

	rel, err := p.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return rel, nil
}

// Parse reads a whole data document from r.
func (p *Parser) Parse(r io.Reader) (*Release, error) {
	doc, err := sdmx.Parse(r)
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	return p.ParseDocument(doc)
}

// ParseDocument builds the dated balance sheets of doc. On error nothing
// is returned.
func (p *Parser) ParseDocument(doc *sdmx.Document) (*Release, error) {
	log := p.log.WithField("component", "h41")
	stats := Stats{Series: make(map[model.ConceptType]int)}

	cats := make(map[model.ConceptType]*category, 3)
	var entries []Entry
	for _, ct := range model.ConceptTypes() {
		rules, _ := p.rules.Category(ct)
		series, err := p.rules.SelectSeries(doc, ct)
		if err != nil {
			return nil, err
		}
		c, err := buildCategory(rules, series, log)
		if err != nil {
			return nil, err
		}
		cats[ct] = c
		entries = append(entries, c.entries()...)
		stats.Series[ct] = len(series)
		for range c.template.All() {
			stats.Concepts++
		}
	}

	template, err := buildTemplate(cats)
	if err != nil {
		return nil, err
	}

	obs := model.NewObservationMap()
	for _, ct := range model.ConceptTypes() {
		if err := p.rules.aggregate(cats[ct], template, obs, &stats, log); err != nil {
			return nil, err
		}
	}
	stats.Dates = obs.Len()

	log.WithFields(logrus.Fields{
		"assets":       stats.Series[model.ConceptTypeAssets],
		"liabilities":  stats.Series[model.ConceptTypeLiabilities],
		"capital":      stats.Series[model.ConceptTypeCapital],
		"dates":        stats.Dates,
		"observations": stats.Observations,
		"zeroed":       stats.Inactive + stats.Unparsable,
	}).Info("parsed H.4.1 release")

	return &Release{
		Template:     template,
		Observations: obs,
		Entries:      entries,
		Stats:        stats,
	}, nil
}
