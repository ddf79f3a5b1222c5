// Package common holds the export side of the pipeline: writing normalized
// rows back out as CSV or XLSX.
package common

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/statement-csv/internal/logging"
	"fjacquet/statement-csv/internal/models"

	"github.com/gocarina/gocsv"
)

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts "csv" or "xlsx" in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatXLSX:
		return f, nil
	}
	return "", fmt.Errorf("unsupported export format %q (want csv or xlsx)", s)
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Extension returns the file extension of f, with the dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// exportRow is the on-disk layout. Tag order is the exported column order.
type exportRow struct {
	Date            string `csv:"Date"`
	Description     string `csv:"Transaction Description"`
	Debit           string `csv:"Debit"`
	Credit          string `csv:"Credit"`
	Currency        string `csv:"Currency"`
	CardName        string `csv:"Card Name"`
	TransactionType string `csv:"Transaction Type"`
	Location        string `csv:"Location"`
}

func toExportRows(rows []models.NormalizedRow) []exportRow {
	out := make([]exportRow, len(rows))
	for i, r := range rows {
		rec := r.Record()
		out[i] = exportRow{
			Date:            rec[0],
			Description:     rec[1],
			Debit:           rec[2],
			Credit:          rec[3],
			Currency:        rec[4],
			CardName:        rec[5],
			TransactionType: rec[6],
			Location:        rec[7],
		}
	}
	return out
}

// WriteCSV writes a header and one line per row. Fields containing the
// delimiter or a quote are quoted with inner quotes doubled; null amounts
// are empty cells.
func WriteCSV(w io.Writer, rows []models.NormalizedRow) error {
	csvWriter := csv.NewWriter(w)
	if err := gocsv.MarshalCSV(toExportRows(rows), gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	return nil
}

// Write exports rows to w in format f.
func Write(w io.Writer, rows []models.NormalizedRow, f Format) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, rows)
	case FormatXLSX:
		return WriteXLSX(w, rows)
	}
	return fmt.Errorf("unsupported export format %q", f)
}

// WriteFile exports rows to path, creating its directory when needed.
func WriteFile(path string, rows []models.NormalizedRow, f Format, logger logging.Logger) error {
	if logger == nil {
		logger = logging.Default()
	}
	logger.Info("Writing statement",
		logging.F(logging.FieldOutputFile, path),
		logging.F(logging.FieldFormat, string(f)),
		logging.F(logging.FieldCount, len(rows)))

	if err := os.MkdirAll(filepath.Dir(path), models.PermissionDirectory); err != nil {
		logger.WithError(err).Error("Failed to create directory")
		return fmt.Errorf("error creating directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, models.PermissionFile)
	if err != nil {
		logger.WithError(err).Error("Failed to create output file")
		return fmt.Errorf("error creating output file: %w", err)
	}

	if err := Write(file, rows, f); err != nil {
		_ = file.Close()
		logger.WithError(err).Error("Failed to write statement")
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("error closing output file: %w", err)
	}
	return nil
}
