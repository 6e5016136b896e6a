// Package export serialises listings into downloadable formats.
package export

import (
	"encoding/csv"
	"io"
	"strconv"
)

// WriteCSV emits a header row followed by the given records.
func WriteCSV(w io.Writer, header []string, records [][]string) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(header); err != nil {
		return err
	}
	for _, record := range records {
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// FormatPrice renders a monetary value with two fractional digits.
func FormatPrice(value float64) string {
	return strconv.FormatFloat(value, 'f', 2, 64)
}
