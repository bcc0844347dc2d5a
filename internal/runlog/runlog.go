package runlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Entry is one row in the run log.
type Entry struct {
	RunID      string
	Timestamp  time.Time
	Command    string
	Source     string
	FirstDate  string
	LatestDate string
	Dates      int
	Zeroed     int
	CommitHash string
}

// Header is the CSV header for run-log.csv.
const Header = "run_id,timestamp,command,source,first_date,latest_date,dates,zeroed,commit_hash"

const (
	numFields     = 9
	logDir        = "logs"
	logFile       = "logs/run-log.csv"
	colRunID      = 0
	colTimestamp  = 1
	colCommand    = 2
	colSource     = 3
	colFirstDate  = 4
	colLatestDate = 5
	colDates      = 6
	colZeroed     = 7
	colCommitHash = 8
)

// NewEntry starts an entry for command with a fresh run id.
func NewEntry(command, source string, now time.Time) Entry {
	return Entry{
		RunID:     uuid.NewString(),
		Timestamp: now.UTC(),
		Command:   command,
		Source:    source,
	}
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colRunID] = e.RunID
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colCommand] = e.Command
	row[colSource] = e.Source
	row[colFirstDate] = e.FirstDate
	row[colLatestDate] = e.LatestDate
	row[colDates] = strconv.Itoa(e.Dates)
	row[colZeroed] = strconv.Itoa(e.Zeroed)
	row[colCommitHash] = e.CommitHash
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	if _, err := uuid.Parse(record[colRunID]); err != nil {
		return Entry{}, fmt.Errorf("parsing run_id %q: %w", record[colRunID], err)
	}
	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}
	dates, err := strconv.Atoi(record[colDates])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing dates %q: %w", record[colDates], err)
	}
	zeroed, err := strconv.Atoi(record[colZeroed])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing zeroed %q: %w", record[colZeroed], err)
	}

	return Entry{
		RunID:      record[colRunID],
		Timestamp:  ts,
		Command:    record[colCommand],
		Source:     record[colSource],
		FirstDate:  record[colFirstDate],
		LatestDate: record[colLatestDate],
		Dates:      dates,
		Zeroed:     zeroed,
		CommitHash: record[colCommitHash],
	}, nil
}

// Path returns the run log location below root.
func Path(root string) string {
	return filepath.Join(root, logFile)
}

// Append writes entries to <root>/logs/run-log.csv, creating the file and
// header if needed.
func Append(root string, entries []Entry) error {
	dir := filepath.Join(root, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := Path(root)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Read returns all entries from <root>/logs/run-log.csv.
// Returns an empty slice if the file does not exist.
func Read(root string) ([]Entry, error) {
	f, err := os.Open(Path(root))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading run log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
