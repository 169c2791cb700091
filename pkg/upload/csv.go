// Package upload is the thin file-format adapter the specification
// places outside the core: it turns raw uploaded bytes into
// internal/tabular.Row values. The core never parses a file format
// directly — it only ever sees rows.
package upload

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/campusforge/ttcore/internal/tabular"
)

// CSVParser reads comma-separated uploads, treating the first line as
// the header row.
type CSVParser struct{}

// ParseRows turns CSV bytes into tabular.Row values keyed by header.
func (CSVParser) ParseRows(data []byte) ([]tabular.Row, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	var rows []tabular.Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv record: %w", err)
		}
		row := make(tabular.Row, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
