package core

import (
	"sync/atomic"

	"coolingcore/pkg/domain"
)

// headerRows offsets a zero-based data row index onto the 1-based display
// row of the source file, accounting for the header line.
const headerRows = 2

// Dataset is an immutable collection of validated rate records keyed by
// building type. Build a new one to change it; readers never observe a
// partially built dataset.
type Dataset struct {
	records map[string]domain.RateRecord
	order   []string
}

// BuildDataset validates every raw row in source order. Failing rows are
// reported with their display row number and skipped; the load itself only
// fails when nothing validates (see Catalog.Replace). The first occurrence
// of a building type wins; later duplicates are reported as failures so
// the outcome stays deterministic and visible.
func BuildDataset(rows []map[string]string) (*Dataset, []domain.RowError) {
	ds := &Dataset{records: make(map[string]domain.RateRecord, len(rows))}
	var failures []domain.RowError
	for i, row := range rows {
		rec, err := ValidateRow(row)
		if err == nil {
			if _, dup := ds.records[rec.BuildingType]; dup {
				err = domain.DuplicateBuildingTypeError{BuildingType: rec.BuildingType}
			}
		}
		if err != nil {
			failures = append(failures, domain.RowError{Row: i + headerRows, Err: err})
			continue
		}
		ds.records[rec.BuildingType] = rec
		ds.order = append(ds.order, rec.BuildingType)
	}
	return ds, failures
}

// Lookup returns the record for an exact building-type match.
func (d *Dataset) Lookup(buildingType string) (domain.RateRecord, bool) {
	if d == nil {
		return domain.RateRecord{}, false
	}
	rec, ok := d.records[buildingType]
	return rec, ok
}

// BuildingTypes returns the known building types in source order.
func (d *Dataset) BuildingTypes() []string {
	if d == nil {
		return nil
	}
	return append([]string(nil), d.order...)
}

// Len returns the number of validated records.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.records)
}

// Catalog holds the process's current Dataset behind an atomic pointer.
// Readers always see a complete snapshot; Replace swaps wholesale. The
// zero Catalog is empty and usable.
type Catalog struct {
	current atomic.Pointer[Dataset]
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog { return &Catalog{} }

// Dataset returns the current snapshot, or nil before any successful load.
// The returned dataset stays valid (and unchanged) across later replaces.
func (c *Catalog) Dataset() *Dataset {
	return c.current.Load()
}

// Replace validates rows and swaps in the resulting dataset, discarding
// the previous one entirely. An override in which zero rows validate keeps
// the previous dataset untouched and reports NoValidRowsError: one bad
// upload must not blank the working dataset. Row failures accompany both
// outcomes.
func (c *Catalog) Replace(rows []map[string]string) ([]domain.RowError, error) {
	ds, failures := BuildDataset(rows)
	if ds.Len() == 0 {
		return failures, domain.NoValidRowsError{Rows: len(rows)}
	}
	c.current.Store(ds)
	return failures, nil
}
