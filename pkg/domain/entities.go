// Package domain defines the core value types, persistence records, and
// error taxonomy used by coolingcore.
package domain

// Tier identifies one of the three design-rate severity levels a reference
// row tabulates for every quantity.
type Tier string

// Canonical tier identifiers, ordered lowest to highest design load.
const (
	// TierLow selects the low design rates.
	TierLow Tier = "low"
	// TierAvg selects the average design rates.
	TierAvg Tier = "avg"
	// TierHigh selects the high design rates.
	TierHigh Tier = "high"
)

// Tiers returns all tiers in canonical low/avg/high order.
func Tiers() []Tier {
	return []Tier{TierLow, TierAvg, TierHigh}
}

// Valid reports whether the tier is one of the three canonical values.
func (t Tier) Valid() bool {
	switch t {
	case TierLow, TierAvg, TierHigh:
		return true
	}
	return false
}

// DisplayName returns the human-facing tier label.
func (t Tier) DisplayName() string {
	switch t {
	case TierLow:
		return "Low"
	case TierAvg:
		return "Average"
	case TierHigh:
		return "High"
	}
	return string(t)
}

// ParseTier maps canonical and display spellings onto a Tier.
func ParseTier(s string) (Tier, error) {
	switch s {
	case "low", "Low":
		return TierLow, nil
	case "avg", "Avg", "average", "Average":
		return TierAvg, nil
	case "high", "High":
		return TierHigh, nil
	}
	return "", InvalidTierError{Value: s}
}

// RateRecord is one building type's validated design rates. Every rate is
// optional; a nil pointer means the reference row left the cell blank.
// Supply and internal-CFM rates are carried for future air-side sizing but
// are not consumed by the calculator.
type RateRecord struct {
	BuildingType string `json:"building_type"`

	RefrigLow  *float64 `json:"refrig_low,omitempty"`
	RefrigAvg  *float64 `json:"refrig_avg,omitempty"`
	RefrigHigh *float64 `json:"refrig_high,omitempty"`

	OccupancyLow  *float64 `json:"occupancy_low,omitempty"`
	OccupancyAvg  *float64 `json:"occupancy_avg,omitempty"`
	OccupancyHigh *float64 `json:"occupancy_high,omitempty"`

	ElectricalLow  *float64 `json:"electrical_low,omitempty"`
	ElectricalAvg  *float64 `json:"electrical_avg,omitempty"`
	ElectricalHigh *float64 `json:"electrical_high,omitempty"`

	SupplyESWLow  *float64 `json:"supply_esw_low,omitempty"`
	SupplyESWAvg  *float64 `json:"supply_esw_avg,omitempty"`
	SupplyESWHigh *float64 `json:"supply_esw_high,omitempty"`

	SupplyNorthLow  *float64 `json:"supply_north_low,omitempty"`
	SupplyNorthAvg  *float64 `json:"supply_north_avg,omitempty"`
	SupplyNorthHigh *float64 `json:"supply_north_high,omitempty"`

	InternalCFMLow  *float64 `json:"internal_cfm_low,omitempty"`
	InternalCFMAvg  *float64 `json:"internal_cfm_avg,omitempty"`
	InternalCFMHigh *float64 `json:"internal_cfm_high,omitempty"`
}

// TierRates returns the refrigeration, occupancy, and electrical rate
// pointers for the requested tier. The switch is exhaustive over the three
// canonical tiers; any other value yields all nils.
func (r RateRecord) TierRates(t Tier) (refrig, occupancy, electrical *float64) {
	switch t {
	case TierLow:
		return r.RefrigLow, r.OccupancyLow, r.ElectricalLow
	case TierAvg:
		return r.RefrigAvg, r.OccupancyAvg, r.ElectricalAvg
	case TierHigh:
		return r.RefrigHigh, r.OccupancyHigh, r.ElectricalHigh
	}
	return nil, nil, nil
}

// DesignParams records the three rates a Result was derived from, kept
// alongside the output for auditability.
type DesignParams struct {
	// Refrig is the refrigeration rate in ft² per ton.
	Refrig float64 `json:"refrig"`
	// Occupancy is the occupancy rate in ft² per person.
	Occupancy float64 `json:"occupancy"`
	// Electrical is the plug/light rate in W per ft².
	Electrical float64 `json:"electrical"`
}

// Result is one computed load estimate for a single tier.
type Result struct {
	Tonnage        float64      `json:"tonnage"`
	TotalOccupancy float64      `json:"total_occupancy"`
	ElectricalKW   float64      `json:"electrical_kw"`
	DesignParams   DesignParams `json:"design_params"`
}

// RangeResults holds the estimates for all three tiers. It is only ever
// produced complete; a tier that cannot be computed fails the whole set.
type RangeResults struct {
	Low  Result `json:"low"`
	Avg  Result `json:"avg"`
	High Result `json:"high"`
}

// ByTier returns the result for the requested tier.
func (r RangeResults) ByTier(t Tier) Result {
	switch t {
	case TierLow:
		return r.Low
	case TierHigh:
		return r.High
	}
	return r.Avg
}

// DefaultSquareFootage is the area suggested to callers that need a
// starting value before any user input exists.
const DefaultSquareFootage = 7500

// Selection captures the input state a saved project restores: the
// multi-selection of building types, the active one, and the area.
type Selection struct {
	BuildingTypes []string
	Current       string
	SquareFootage int
}

// ProjectConfig is a named, owned, persisted snapshot of a selection and
// its computed results. CreatedAt is fixed at first save for a given
// (owner, project name) key; UpdatedAt moves on every save.
type ProjectConfig struct {
	ProjectName           string       `json:"project_name"`
	SelectedBuildingTypes []string     `json:"selected_building_types"`
	CurrentBuildingType   string       `json:"current_building_type"`
	SquareFootage         int          `json:"square_footage"`
	RangeResults          RangeResults `json:"range_results"`
	CreatedAt             string       `json:"created_at"`
	UpdatedAt             string       `json:"updated_at"`
}

// Clone returns a deep copy safe to hand across goroutines.
func (c ProjectConfig) Clone() ProjectConfig {
	cp := c
	cp.SelectedBuildingTypes = append([]string(nil), c.SelectedBuildingTypes...)
	return cp
}

// ProjectSummary is the listing view of a stored project. Current-schema
// records expose building type, area, and average tonnage; legacy records
// expose only their flat result figures.
type ProjectSummary struct {
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at,omitempty"`
	Legacy    bool   `json:"legacy"`

	BuildingType  string  `json:"building_type,omitempty"`
	SquareFootage int     `json:"square_footage,omitempty"`
	AvgTonnage    float64 `json:"avg_tonnage,omitempty"`

	Tonnage        float64 `json:"tonnage,omitempty"`
	TotalOccupancy float64 `json:"total_occupancy,omitempty"`
	ElectricalKW   float64 `json:"electrical_kw,omitempty"`
}
