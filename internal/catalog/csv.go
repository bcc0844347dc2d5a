package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/cleared-dev/fedsheet/internal/model"
)

// Series is one row of the series catalog.
type Series struct {
	Code       string
	Type       model.ConceptType
	Path       string
	Annotation string
}

const (
	numFields     = 4
	colCode       = 0
	colType       = 1
	colPath       = 2
	colAnnotation = 3
)

// ReadSeries reads series-catalog.csv.
func ReadSeries(r io.Reader) ([]Series, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading series catalog CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var series []Series
	for i, rec := range records[1:] {
		s, err := UnmarshalSeries(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		series = append(series, s)
	}
	return series, nil
}

// WriteSeries writes series-catalog.csv.
func WriteSeries(w io.Writer, series []Series) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"series", "category", "path", "annotation"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, s := range series {
		if err := cw.Write(MarshalSeries(s)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalSeries converts a Series to a CSV row.
func MarshalSeries(s Series) []string {
	row := make([]string, numFields)
	row[colCode] = s.Code
	row[colType] = string(s.Type)
	row[colPath] = s.Path
	row[colAnnotation] = s.Annotation
	return row
}

// UnmarshalSeries converts a CSV row to a Series.
func UnmarshalSeries(record []string) (Series, error) {
	if len(record) != numFields {
		return Series{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}
	if record[colCode] == "" {
		return Series{}, errors.New("empty series code")
	}

	ct, err := model.ParseConceptType(record[colType])
	if err != nil {
		return Series{}, fmt.Errorf("parsing category: %w", err)
	}

	return Series{
		Code:       record[colCode],
		Type:       ct,
		Path:       record[colPath],
		Annotation: record[colAnnotation],
	}, nil
}
