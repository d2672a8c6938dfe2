package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// WriteCSV writes a header row then one record per row: comma-separated,
// UTF-8, no index column.
func WriteCSV(w io.Writer, rows []Row) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Headers); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range rows {
		if err := writer.Write(r.record()); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// CSVBytes renders rows as an in-memory CSV document.
func CSVBytes(rows []Row) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteCSVFile writes the CSV export to path.
func WriteCSVFile(path string, rows []Row) error {
	data, err := CSVBytes(rows)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
