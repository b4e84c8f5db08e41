package core

import (
	"errors"
	"testing"

	"coolingcore/pkg/domain"
)

func officeRow() map[string]string {
	return map[string]string{
		ColBuildingType:      "Office",
		ColRefrigerationLow:  "350",
		ColRefrigerationAvg:  "300",
		ColRefrigerationHigh: "250",
		ColOccupancyLow:      "250",
		ColOccupancyAvg:      "200",
		ColOccupancyHigh:     "150",
		ColElectricalLow:     "1.0",
		ColElectricalAvg:     "1.5",
		ColElectricalHigh:    "2.0",
	}
}

func TestValidateRowParsesNumericColumns(t *testing.T) {
	rec, err := ValidateRow(officeRow())
	if err != nil {
		t.Fatalf("ValidateRow: %v", err)
	}
	if rec.BuildingType != "Office" {
		t.Fatalf("building type = %q, want Office", rec.BuildingType)
	}
	if rec.RefrigAvg == nil || *rec.RefrigAvg != 300 {
		t.Fatalf("refrig avg = %v, want 300", rec.RefrigAvg)
	}
	if rec.ElectricalHigh == nil || *rec.ElectricalHigh != 2 {
		t.Fatalf("electrical high = %v, want 2", rec.ElectricalHigh)
	}
	if rec.SupplyESWLow != nil {
		t.Fatalf("absent column should stay nil, got %v", *rec.SupplyESWLow)
	}
}

func TestValidateRowTrimsAndNormalizesBuildingType(t *testing.T) {
	row := officeRow()
	row[ColBuildingType] = "  Office  "
	rec, err := ValidateRow(row)
	if err != nil {
		t.Fatalf("ValidateRow: %v", err)
	}
	if rec.BuildingType != "Office" {
		t.Fatalf("building type = %q, want trimmed Office", rec.BuildingType)
	}
}

func TestValidateRowTreatsBlankAndNaNCellsAsAbsent(t *testing.T) {
	row := officeRow()
	row[ColRefrigerationLow] = ""
	row[ColOccupancyLow] = "   "
	row[ColElectricalLow] = "NaN"
	row[ColSupplyESWAvg] = "nan"
	rec, err := ValidateRow(row)
	if err != nil {
		t.Fatalf("ValidateRow: %v", err)
	}
	if rec.RefrigLow != nil || rec.OccupancyLow != nil || rec.ElectricalLow != nil || rec.SupplyESWAvg != nil {
		t.Fatalf("blank and NaN cells should be absent, got %+v", rec)
	}
	if rec.RefrigAvg == nil {
		t.Fatalf("unrelated columns should still parse")
	}
}

func TestValidateRowRejectsMissingBuildingType(t *testing.T) {
	for _, bt := range []string{"", "   ", "nan"} {
		row := officeRow()
		row[ColBuildingType] = bt
		_, err := ValidateRow(row)
		var missing domain.MissingBuildingTypeError
		if !errors.As(err, &missing) {
			t.Fatalf("building type %q: error = %v, want MissingBuildingTypeError", bt, err)
		}
	}
}

func TestValidateRowRejectsPresentNonNumericCell(t *testing.T) {
	row := officeRow()
	row[ColOccupancyAvg] = "lots"
	_, err := ValidateRow(row)
	var field domain.FieldError
	if !errors.As(err, &field) {
		t.Fatalf("error = %v, want FieldError", err)
	}
	if field.Column != ColOccupancyAvg || field.Value != "lots" {
		t.Fatalf("FieldError = %+v, want column %s value lots", field, ColOccupancyAvg)
	}
}

func TestValidateRowFailsWholeRowOnBadCell(t *testing.T) {
	// A malformed present cell must not degrade into a partial record.
	row := officeRow()
	row[ColRefrigerationHigh] = "2,50"
	rec, err := ValidateRow(row)
	if err == nil {
		t.Fatalf("expected row failure, got record %+v", rec)
	}
	if rec.BuildingType != "" {
		t.Fatalf("failed row should yield zero record, got %+v", rec)
	}
}

func TestRateColumnsOrder(t *testing.T) {
	cols := RateColumns()
	if len(cols) != 19 {
		t.Fatalf("expected 19 recognized columns, got %d", len(cols))
	}
	if cols[0] != ColBuildingType {
		t.Fatalf("first column = %q, want %q", cols[0], ColBuildingType)
	}
	if cols[1] != ColRefrigerationLow || cols[len(cols)-1] != ColInternalCFMHigh {
		t.Fatalf("unexpected column order: %v", cols)
	}
}
