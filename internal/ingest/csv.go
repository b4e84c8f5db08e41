// Package ingest decodes the tabular reference-data file boundary into
// raw rows for validation. It knows the file format, not the schema:
// column recognition and typing belong to the validator.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
)

// ParseCSV reads a header-plus-rows CSV stream into ordered raw rows,
// each keyed by the header's column names. Ragged rows are tolerated:
// cells past the end of a short row are simply absent. Duplicate header
// columns keep the first occurrence, matching positional readers.
func ParseCSV(r io.Reader) ([]map[string]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("dataset is empty: missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	var rows []map[string]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(rows)+2, err)
		}
		row := make(map[string]string, len(header))
		for i, column := range header {
			if _, dup := row[column]; dup {
				continue
			}
			if i < len(record) {
				row[column] = record[i]
			} else {
				row[column] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
