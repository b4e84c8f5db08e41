package core

import (
	"strconv"
	"strings"

	"coolingcore/pkg/domain"
)

// Recognized reference-data column names. These are the external file
// contract and are matched exactly, case and punctuation included.
const (
	ColBuildingType = "Building Type"

	ColRefrigerationLow  = "Refrigeration_Low"
	ColRefrigerationAvg  = "Refrigeration_Avg"
	ColRefrigerationHigh = "Refrigeration_High"

	ColOccupancyLow  = "Occupancy_Low"
	ColOccupancyAvg  = "Occupancy_Avg"
	ColOccupancyHigh = "Occupancy_High"

	ColElectricalLow  = "Electrical_Low"
	ColElectricalAvg  = "Electrical_Avg"
	ColElectricalHigh = "Electrical_High"

	ColSupplyESWLow  = "Supply_ESW_Low"
	ColSupplyESWAvg  = "Supply_ESW_Avg"
	ColSupplyESWHigh = "Supply_ESW_High"

	ColSupplyNorthLow  = "Supply_North_Low"
	ColSupplyNorthAvg  = "Supply_North_Avg"
	ColSupplyNorthHigh = "Supply_North_High"

	ColInternalCFMLow  = "InternalCFM_Low"
	ColInternalCFMAvg  = "InternalCFM_Avg"
	ColInternalCFMHigh = "InternalCFM_High"
)

// rateColumns maps every numeric column onto its RateRecord field.
var rateColumns = []struct {
	column string
	assign func(*domain.RateRecord, *float64)
}{
	{ColRefrigerationLow, func(r *domain.RateRecord, v *float64) { r.RefrigLow = v }},
	{ColRefrigerationAvg, func(r *domain.RateRecord, v *float64) { r.RefrigAvg = v }},
	{ColRefrigerationHigh, func(r *domain.RateRecord, v *float64) { r.RefrigHigh = v }},
	{ColOccupancyLow, func(r *domain.RateRecord, v *float64) { r.OccupancyLow = v }},
	{ColOccupancyAvg, func(r *domain.RateRecord, v *float64) { r.OccupancyAvg = v }},
	{ColOccupancyHigh, func(r *domain.RateRecord, v *float64) { r.OccupancyHigh = v }},
	{ColElectricalLow, func(r *domain.RateRecord, v *float64) { r.ElectricalLow = v }},
	{ColElectricalAvg, func(r *domain.RateRecord, v *float64) { r.ElectricalAvg = v }},
	{ColElectricalHigh, func(r *domain.RateRecord, v *float64) { r.ElectricalHigh = v }},
	{ColSupplyESWLow, func(r *domain.RateRecord, v *float64) { r.SupplyESWLow = v }},
	{ColSupplyESWAvg, func(r *domain.RateRecord, v *float64) { r.SupplyESWAvg = v }},
	{ColSupplyESWHigh, func(r *domain.RateRecord, v *float64) { r.SupplyESWHigh = v }},
	{ColSupplyNorthLow, func(r *domain.RateRecord, v *float64) { r.SupplyNorthLow = v }},
	{ColSupplyNorthAvg, func(r *domain.RateRecord, v *float64) { r.SupplyNorthAvg = v }},
	{ColSupplyNorthHigh, func(r *domain.RateRecord, v *float64) { r.SupplyNorthHigh = v }},
	{ColInternalCFMLow, func(r *domain.RateRecord, v *float64) { r.InternalCFMLow = v }},
	{ColInternalCFMAvg, func(r *domain.RateRecord, v *float64) { r.InternalCFMAvg = v }},
	{ColInternalCFMHigh, func(r *domain.RateRecord, v *float64) { r.InternalCFMHigh = v }},
}

// RateColumns returns the recognized column names in canonical order,
// building type first.
func RateColumns() []string {
	out := make([]string, 0, len(rateColumns)+1)
	out = append(out, ColBuildingType)
	for _, rc := range rateColumns {
		out = append(out, rc.column)
	}
	return out
}

// normalizeCell trims a raw cell and reports whether a value is present.
// Empty and NaN-like text (the artifacts of exporting sparse spreadsheets)
// count as absent, not as zero.
func normalizeCell(raw string) (string, bool) {
	v := strings.TrimSpace(raw)
	if v == "" || strings.EqualFold(v, "nan") {
		return "", false
	}
	return v, true
}

// ValidateRow parses one raw reference row into a typed RateRecord.
//
// Blank and NaN-like cells become absent fields. A cell that is present
// but not numeric fails the whole row; fields are not individually dropped
// once provided and malformed. A row whose normalized building type is
// empty is rejected. ValidateRow is pure; collecting failures is the
// caller's job.
func ValidateRow(row map[string]string) (domain.RateRecord, error) {
	var rec domain.RateRecord

	bt, ok := normalizeCell(row[ColBuildingType])
	if !ok {
		return domain.RateRecord{}, domain.MissingBuildingTypeError{}
	}
	rec.BuildingType = bt

	for _, rc := range rateColumns {
		cell, present := normalizeCell(row[rc.column])
		if !present {
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return domain.RateRecord{}, domain.FieldError{
				Column: rc.column,
				Value:  cell,
				Reason: "is present but not numeric",
			}
		}
		rc.assign(&rec, &v)
	}
	return rec, nil
}
