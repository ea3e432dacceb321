// ABOUTME: Offline nutrition table keyed by lowercased food name.
// ABOUTME: Exact case-insensitive match only; used when network sources come up empty.
package nutrition

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// TableRecord is one entry of the local nutrition table.
// EnergyKcal wins over Kcal when both are present.
type TableRecord struct {
	EnergyKcal *float64 `json:"energy_kcal,omitempty"`
	Kcal       *float64 `json:"kcal,omitempty"`
	ProteinG   float64  `json:"protein_g"`
	CarbsG     float64  `json:"carbs_g"`
	FatG       float64  `json:"fat_g"`
}

// LocalTable is an in-memory nutrition table.
type LocalTable struct {
	records map[string]TableRecord
}

// NewLocalTable builds a table from records, lowercasing keys.
func NewLocalTable(records map[string]TableRecord) *LocalTable {
	t := &LocalTable{records: make(map[string]TableRecord, len(records))}
	for k, v := range records {
		t.records[strings.ToLower(k)] = v
	}
	return t
}

// LoadTable reads a JSON document mapping food name to TableRecord.
func LoadTable(path string) (*LocalTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records map[string]TableRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse nutrition table: %w", err)
	}
	return NewLocalTable(records), nil
}

// Len returns the number of foods in the table.
func (t *LocalTable) Len() int { return len(t.records) }

// Name returns the provenance tag.
func (t *LocalTable) Name() string { return SourceLocalTable }

// AcceptsZeroCalories marks exact table hits as genuine, even at 0 kcal.
func (t *LocalTable) AcceptsZeroCalories() bool { return true }

// Offline reports that the table needs no network.
func (t *LocalTable) Offline() bool { return true }

// Resolve returns the record whose key equals the lowercased query.
func (t *LocalTable) Resolve(_ context.Context, query string) (*Result, error) {
	rec, ok := t.records[strings.ToLower(query)]
	if !ok {
		return nil, sourceErr(t.Name(), ErrNoMatch, "")
	}

	var kcal float64
	switch {
	case rec.EnergyKcal != nil:
		kcal = *rec.EnergyKcal
	case rec.Kcal != nil:
		kcal = *rec.Kcal
	}
	return &Result{
		Calories: kcal,
		ProteinG: rec.ProteinG,
		CarbsG:   rec.CarbsG,
		FatG:     rec.FatG,
		Source:   t.Name(),
	}, nil
}
