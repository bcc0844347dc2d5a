package catalog

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/samber/lo"

	"github.com/cleared-dev/fedsheet/internal/h41"
)

// File is the name of the catalog within an output directory.
const File = "series-catalog.csv"

// Service provides in-memory lookup over the series catalog.
type Service struct {
	series []Series
	byCode map[string]Series
}

// NewService creates a Service from a slice of series.
func NewService(series []Series) *Service {
	return &Service{series: series, byCode: lo.KeyBy(series, func(s Series) string { return s.Code })}
}

// FromEntries builds the catalog of a parsed release.
func FromEntries(entries []h41.Entry) *Service {
	return NewService(lo.Map(entries, func(e h41.Entry, _ int) Series {
		return Series{Code: e.Series, Type: e.Type, Path: e.Path, Annotation: e.Annotation}
	}))
}

// Load reads series-catalog.csv from dir and returns a Service.
func Load(dir string) (*Service, error) {
	f, err := os.Open(filepath.Join(dir, File))
	if err != nil {
		return nil, fmt.Errorf("opening series catalog: %w", err)
	}
	defer f.Close()

	series, err := ReadSeries(f)
	if err != nil {
		return nil, fmt.Errorf("reading series catalog: %w", err)
	}
	return NewService(series), nil
}

// All returns all series.
func (s *Service) All() []Series {
	return s.series
}

// Get returns a series by code.
func (s *Service) Get(code string) (Series, bool) {
	ser, ok := s.byCode[code]
	return ser, ok
}

// Exists reports whether a series code is catalogued.
func (s *Service) Exists(code string) bool {
	_, ok := s.byCode[code]
	return ok
}

// Diff compares a catalog with the one it replaces and returns the codes
// that appear only in s and only in prev, in catalog order.
func (s *Service) Diff(prev *Service) (added, removed []string) {
	for _, ser := range s.series {
		if !prev.Exists(ser.Code) {
			added = append(added, ser.Code)
		}
	}
	for _, ser := range prev.series {
		if !s.Exists(ser.Code) {
			removed = append(removed, ser.Code)
		}
	}
	return added, removed
}

// Bytes renders the catalog as series-catalog.csv content.
func (s *Service) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteSeries(&buf, s.series); err != nil {
		return nil, fmt.Errorf("writing series catalog: %w", err)
	}
	return buf.Bytes(), nil
}
