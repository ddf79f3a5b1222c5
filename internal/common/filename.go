package common

import (
	"path/filepath"
	"strings"

	"fjacquet/statement-csv/internal/parsererror"
)

// InputExtension is the only statement extension accepted as input.
const InputExtension = ".csv"

// ValidateInputName rejects anything that is not a .csv file name. The
// pipeline itself never looks at extensions; callers check before reading.
func ValidateInputName(name string) error {
	if strings.EqualFold(filepath.Ext(name), InputExtension) {
		return nil
	}
	return &parsererror.InvalidFormatError{
		FilePath:       name,
		ExpectedFormat: "CSV",
		Msg:            "file must have a .csv extension",
	}
}

// WithExtension swaps the extension of name for the one of f, so
// "HDFC-Output.csv" becomes "HDFC-Output.xlsx". An empty name stays empty.
func WithExtension(name string, f Format) string {
	if name == "" {
		return ""
	}
	return strings.TrimSuffix(name, filepath.Ext(name)) + f.Extension()
}
