package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/samber/lo"

	"github.com/cleared-dev/fedsheet/internal/model"
)

// JSONFile is the name of the JSON export.
const JSONFile = "observations.json"

// ErrNoObservations is returned when there is nothing to export.
var ErrNoObservations = errors.New("no observations to export")

// CSVFile returns the name of the CSV export of one tree.
func CSVFile(ct model.ConceptType) string {
	return string(ct) + ".csv"
}

// WriteJSON writes obs as an object keyed by date, each holding the three
// trees.
func WriteJSON(w io.Writer, obs *model.ObservationMap) error {
	if obs.Len() == 0 {
		return ErrNoObservations
	}
	if err := json.NewEncoder(w).Encode(obs); err != nil {
		return fmt.Errorf("encoding observations: %w", err)
	}
	return nil
}

// WriteCSV writes one row per date with the leaves of the ct tree as
// columns, in depth-first order.
func WriteCSV(w io.Writer, obs *model.ObservationMap, ct model.ConceptType, unit Unit) error {
	_, first, ok := obs.First()
	if !ok {
		return ErrNoObservations
	}
	if first.Concept(ct) == nil {
		return fmt.Errorf("writing %q CSV: %w", ct, model.ErrUnknownConceptType)
	}

	header := lo.Map(first.Concept(ct).Leaves(), func(c *model.Concept, _ int) string {
		return c.Name()
	})

	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{"date"}, header...)); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for date, bs := range obs.All() {
		leaves := bs.Concept(ct).Leaves()
		if len(leaves) != len(header) {
			return fmt.Errorf("%s: %d %s leaves, header has %d", date.Format(model.DateFormat), len(leaves), ct, len(header))
		}
		row := make([]string, 0, len(leaves)+1)
		row = append(row, date.Format(model.DateFormat))
		for _, leaf := range leaves {
			row = append(row, unit.Format(leaf.Value))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing %s row: %w", date.Format(model.DateFormat), err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// File is a rendered file that WriteDir writes alongside the exports.
type File struct {
	Name string
	Data []byte
}

// WriteDir writes the JSON export, one CSV per tree and any extra files into
// dir and returns the paths written. Every file is rendered before any is
// written, so a rendering failure leaves dir untouched.
func WriteDir(dir string, obs *model.ObservationMap, unit Unit, extra ...File) ([]string, error) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, obs); err != nil {
		return nil, err
	}
	files := []File{{Name: JSONFile, Data: buf.Bytes()}}

	for _, ct := range model.ConceptTypes() {
		var b bytes.Buffer
		if err := WriteCSV(&b, obs, ct, unit); err != nil {
			return nil, err
		}
		files = append(files, File{Name: CSVFile(ct), Data: b.Bytes()})
	}
	files = append(files, extra...)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output dir: %w", err)
	}
	written := make([]string, 0, len(files))
	for _, f := range files {
		path := filepath.Join(dir, f.Name)
		if err := os.WriteFile(path, f.Data, 0o644); err != nil {
			return written, fmt.Errorf("writing %s: %w", f.Name, err)
		}
		written = append(written, path)
	}
	return written, nil
}
