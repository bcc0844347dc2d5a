package model

import (
	"encoding/json"
	"iter"
	"slices"
	"time"
)

// DateFormat is the layout of observation dates.
const DateFormat = "2006-01-02"

// ObservationMap holds one balance sheet per observation date, iterated in
// ascending date order.
type ObservationMap struct {
	dates  []string
	sheets map[string]*BalanceSheet
}

// NewObservationMap creates an empty map.
func NewObservationMap() *ObservationMap {
	return &ObservationMap{sheets: make(map[string]*BalanceSheet)}
}

// Len returns the number of dates.
func (m *ObservationMap) Len() int {
	return len(m.dates)
}

// Get returns the balance sheet observed on date.
func (m *ObservationMap) Get(date time.Time) (*BalanceSheet, bool) {
	bs, ok := m.sheets[date.Format(DateFormat)]
	return bs, ok
}

// GetOrInsert returns the balance sheet for date, storing a clone of
// template first if the date has not been seen yet.
func (m *ObservationMap) GetOrInsert(date time.Time, template *BalanceSheet) *BalanceSheet {
	key := date.Format(DateFormat)
	if bs, ok := m.sheets[key]; ok {
		return bs
	}
	if m.sheets == nil {
		m.sheets = make(map[string]*BalanceSheet)
	}
	bs := template.Clone()
	m.sheets[key] = bs
	i, _ := slices.BinarySearch(m.dates, key)
	m.dates = slices.Insert(m.dates, i, key)
	return bs
}

// Dates returns the observation dates in ascending order.
func (m *ObservationMap) Dates() []time.Time {
	out := make([]time.Time, 0, len(m.dates))
	for _, key := range m.dates {
		out = append(out, mustParseDate(key))
	}
	return out
}

// All iterates over the balance sheets in ascending date order.
func (m *ObservationMap) All() iter.Seq2[time.Time, *BalanceSheet] {
	return func(yield func(time.Time, *BalanceSheet) bool) {
		for _, key := range m.dates {
			if !yield(mustParseDate(key), m.sheets[key]) {
				return
			}
		}
	}
}

// First returns the earliest balance sheet.
func (m *ObservationMap) First() (time.Time, *BalanceSheet, bool) {
	if len(m.dates) == 0 {
		return time.Time{}, nil, false
	}
	key := m.dates[0]
	return mustParseDate(key), m.sheets[key], true
}

// Latest returns the most recent balance sheet.
func (m *ObservationMap) Latest() (time.Time, *BalanceSheet, bool) {
	if len(m.dates) == 0 {
		return time.Time{}, nil, false
	}
	key := m.dates[len(m.dates)-1]
	return mustParseDate(key), m.sheets[key], true
}

// MarshalJSON encodes the map as an object keyed by ISO date.
func (m *ObservationMap) MarshalJSON() ([]byte, error) {
	// encoding/json sorts map keys, which for ISO dates is chronological.
	return json.Marshal(m.sheets)
}

// Keys are produced by Format(DateFormat), so parsing them cannot fail.
func mustParseDate(key string) time.Time {
	t, err := time.Parse(DateFormat, key)
	if err != nil {
		panic(err)
	}
	return t
}
