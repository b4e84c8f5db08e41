package core

import (
	"fmt"

	"coolingcore/pkg/domain"
)

// Compute derives the load estimate for one building type, area, and tier:
//
//	tonnage      = area / refrigeration rate
//	occupancy    = area / occupancy rate
//	electrical   = area * electrical rate / 1000
//
// No rounding is applied; presentation owns that. A zero area yields an
// all-zero Result. A zero or negative rate in the reference data fails
// with InvalidRateError rather than dividing toward infinity.
func Compute(ds *Dataset, buildingType string, area float64, tier domain.Tier) (domain.Result, error) {
	if !tier.Valid() {
		return domain.Result{}, domain.InvalidTierError{Value: string(tier)}
	}
	if area < 0 {
		return domain.Result{}, fmt.Errorf("area must be non-negative, got %v", area)
	}
	rec, ok := ds.Lookup(buildingType)
	if !ok {
		return domain.Result{}, domain.UnknownBuildingTypeError{BuildingType: buildingType}
	}

	refrig, occupancy, electrical := rec.TierRates(tier)
	var missing []string
	if refrig == nil {
		missing = append(missing, "refrig")
	}
	if occupancy == nil {
		missing = append(missing, "occupancy")
	}
	if electrical == nil {
		missing = append(missing, "electrical")
	}
	if len(missing) > 0 {
		return domain.Result{}, domain.IncompleteRatesError{BuildingType: buildingType, Tier: tier, Missing: missing}
	}
	for _, rate := range []struct {
		name  string
		value float64
	}{
		{"refrig", *refrig},
		{"occupancy", *occupancy},
		{"electrical", *electrical},
	} {
		if rate.value <= 0 {
			return domain.Result{}, domain.InvalidRateError{BuildingType: buildingType, Tier: tier, Rate: rate.name, Value: rate.value}
		}
	}

	return domain.Result{
		Tonnage:        area / *refrig,
		TotalOccupancy: area / *occupancy,
		ElectricalKW:   area * *electrical / 1000,
		DesignParams: domain.DesignParams{
			Refrig:     *refrig,
			Occupancy:  *occupancy,
			Electrical: *electrical,
		},
	}, nil
}

// ComputeRange computes all three tiers as a single atomic outcome. Any
// tier failure propagates unchanged and no partial RangeResults is ever
// produced.
func ComputeRange(ds *Dataset, buildingType string, area float64) (domain.RangeResults, error) {
	var out domain.RangeResults
	for _, tier := range domain.Tiers() {
		res, err := Compute(ds, buildingType, area, tier)
		if err != nil {
			return domain.RangeResults{}, err
		}
		switch tier {
		case domain.TierLow:
			out.Low = res
		case domain.TierAvg:
			out.Avg = res
		case domain.TierHigh:
			out.High = res
		}
	}
	return out, nil
}
