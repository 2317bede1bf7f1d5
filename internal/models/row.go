package models

import (
	"strconv"
	"strings"
)

// RowNumberField is the column identifying a row within a scenario sheet.
const RowNumberField = "CSVFileRowNumber"

// ScenarioRow is one raw test case read from a sheet. Keys keep the sheet's
// header order and empty cells are absent rather than empty strings.
type ScenarioRow struct {
	keys   []string
	values map[string]string
}

func NewScenarioRow(keys []string, values map[string]string) ScenarioRow {
	r := ScenarioRow{
		keys:   make([]string, 0, len(keys)),
		values: make(map[string]string, len(values)),
	}
	for _, k := range keys {
		v, ok := values[k]
		if !ok {
			continue
		}
		if _, dup := r.values[k]; dup {
			continue
		}
		r.keys = append(r.keys, k)
		r.values[k] = v
	}
	return r
}

// Get returns the value of a field and whether the field was present.
func (r ScenarioRow) Get(name string) (string, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Value returns the field value or "" when absent.
func (r ScenarioRow) Value(name string) string {
	return r.values[name]
}

func (r ScenarioRow) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

func (r ScenarioRow) Len() int {
	return len(r.keys)
}

// Map returns a copy of the row as a plain map.
func (r ScenarioRow) Map() map[string]string {
	out := make(map[string]string, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

// RowNumber parses the row number field. Spreadsheets may store it as a
// float ("1.0"), so fractional forms with a zero fraction are accepted.
func (r ScenarioRow) RowNumber() (int, bool) {
	raw, ok := r.values[RowNumberField]
	if !ok {
		return 0, false
	}
	raw = strings.TrimSpace(raw)
	if n, err := strconv.Atoi(raw); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}
