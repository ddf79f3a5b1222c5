// Package common contains shared functionality for command handlers
package common

import (
	"errors"
	"path/filepath"
	"strings"

	export "fjacquet/statement-csv/internal/common"
	"fjacquet/statement-csv/internal/logging"
	"fjacquet/statement-csv/internal/models"
)

// ErrMissingInput is returned when a command runs without -i.
var ErrMissingInput = errors.New("input file is required (use -i)")

// FileStandardizer is the part of the standardization service commands use.
type FileStandardizer interface {
	StandardizeFile(path string) (*models.StandardizationResult, error)
}

// StandardizeInput checks the input name and runs the file through svc.
func StandardizeInput(svc FileStandardizer, inputFile string, log logging.Logger) (*models.StandardizationResult, error) {
	if inputFile == "" {
		return nil, ErrMissingInput
	}
	if err := export.ValidateInputName(inputFile); err != nil {
		return nil, err
	}

	log.Debug("Standardizing statement", logging.F(logging.FieldFile, inputFile))
	return svc.StandardizeFile(inputFile)
}

// OutputPath decides where the export goes. An explicit output wins;
// otherwise the derived filename is placed in outputDir, or next to the
// input when outputDir is empty. A derived path equal to the input gets an
// "-output" suffix so the input is never overwritten.
func OutputPath(output, outputDir, inputFile, derived string, f export.Format) string {
	if output != "" {
		return output
	}
	name := export.WithExtension(derived, f)
	if name == "" {
		name = "statement-output" + f.Extension()
	}
	if outputDir == "" {
		outputDir = filepath.Dir(inputFile)
	}
	path := filepath.Join(outputDir, name)
	if inputFile != "" && filepath.Clean(path) == filepath.Clean(inputFile) {
		ext := filepath.Ext(path)
		path = strings.TrimSuffix(path, ext) + "-output" + ext
	}
	return path
}
