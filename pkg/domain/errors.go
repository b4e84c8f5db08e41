package domain

import "fmt"

// InvalidTierError reports a tier spelling ParseTier does not recognize.
type InvalidTierError struct {
	Value string
}

func (e InvalidTierError) Error() string {
	return fmt.Sprintf("invalid load tier %q", e.Value)
}

// MissingBuildingTypeError rejects a reference row whose building-type
// cell is empty after normalization.
type MissingBuildingTypeError struct{}

func (MissingBuildingTypeError) Error() string {
	return "building type is required"
}

// FieldError rejects a reference row whose cell is present but cannot be
// coerced to a number. An absent cell is a valid missing optional and
// never produces a FieldError.
type FieldError struct {
	Column string
	Value  string
	Reason string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("column %s: value %q %s", e.Column, e.Value, e.Reason)
}

// DuplicateBuildingTypeError rejects a row that repeats a building type
// already loaded earlier in the same dataset.
type DuplicateBuildingTypeError struct {
	BuildingType string
}

func (e DuplicateBuildingTypeError) Error() string {
	return fmt.Sprintf("duplicate building type %q", e.BuildingType)
}

// RowError associates a validation failure with its 1-based display row
// in the source file (data row index + 2, accounting for the header).
type RowError struct {
	Row int
	Err error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

// Unwrap exposes the underlying validation failure.
func (e RowError) Unwrap() error { return e.Err }

// NoValidRowsError reports a dataset load in which every row failed
// validation. On an override this means the prior dataset was kept.
type NoValidRowsError struct {
	Rows int
}

func (e NoValidRowsError) Error() string {
	return fmt.Sprintf("no valid rows in dataset (%d rows rejected)", e.Rows)
}

// UnknownBuildingTypeError reports a computation request for a building
// type the dataset does not contain.
type UnknownBuildingTypeError struct {
	BuildingType string
}

func (e UnknownBuildingTypeError) Error() string {
	return fmt.Sprintf("unknown building type %q", e.BuildingType)
}

// IncompleteRatesError reports a tier whose rate set is missing at least
// one of the three consumed rates.
type IncompleteRatesError struct {
	BuildingType string
	Tier         Tier
	Missing      []string
}

func (e IncompleteRatesError) Error() string {
	return fmt.Sprintf("building type %q has incomplete %s rates: missing %v", e.BuildingType, e.Tier, e.Missing)
}

// InvalidRateError reports a present but unusable rate (zero or negative),
// which would otherwise divide to infinity or flip signs.
type InvalidRateError struct {
	BuildingType string
	Tier         Tier
	Rate         string
	Value        float64
}

func (e InvalidRateError) Error() string {
	return fmt.Sprintf("building type %q has invalid %s %s rate %v", e.BuildingType, e.Tier, e.Rate, e.Value)
}

// NotFoundError reports a missing (owner, project name) key.
type NotFoundError struct {
	Owner string
	Name  string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("project %q not found for owner %q", e.Name, e.Owner)
}

// LegacyUnsupportedError reports a stored record written under the legacy
// schema: it can be listed in summary form but lacks the selection state a
// full load needs.
type LegacyUnsupportedError struct {
	Owner string
	Name  string
}

func (e LegacyUnsupportedError) Error() string {
	return fmt.Sprintf("project %q for owner %q uses the legacy schema and cannot be restored", e.Name, e.Owner)
}

// StoreUnavailableError wraps a transport failure from the project store.
// The core does not retry; callers decide on backoff.
type StoreUnavailableError struct {
	Op  string
	Err error
}

func (e StoreUnavailableError) Error() string {
	return fmt.Sprintf("project store unavailable during %s: %v", e.Op, e.Err)
}

// Unwrap exposes the adapter's original error.
func (e StoreUnavailableError) Unwrap() error { return e.Err }
