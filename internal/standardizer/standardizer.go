// Package standardizer is the entry point of the normalization pipeline. It
// reads a statement, runs the section-aware processor over it and derives
// the name the normalized file should be saved under.
package standardizer

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"runtime/debug"
	"strings"
	"time"

	"fjacquet/statement-csv/internal/csvreader"
	"fjacquet/statement-csv/internal/logging"
	"fjacquet/statement-csv/internal/models"
	"fjacquet/statement-csv/internal/parsererror"
	"fjacquet/statement-csv/internal/section"

	"github.com/google/uuid"
)

var (
	bankPrefix  = regexp.MustCompile(`^[A-Za-z]+`)
	inputMarker = regexp.MustCompile(`(?i)input`)
)

// RowProcessor turns a grid into normalized rows. *section.Processor is the
// production implementation.
type RowProcessor interface {
	Process(grid csvreader.Grid, bank string) ([]models.NormalizedRow, section.Stats)
}

// Service runs standardizations. It holds no per-run state, so one Service
// can serve concurrent callers.
type Service struct {
	processor RowProcessor
	logger    logging.Logger
	newRunID  func() string
}

// NewService creates a Service.
//
// Parameters:
//   - processor: the row processor, usually a *section.Processor
//   - logger: destination for run summaries and failure details; nil uses
//     the default logger
func NewService(processor RowProcessor, logger logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		processor: processor,
		logger:    logger,
		newRunID:  uuid.NewString,
	}
}

// Standardize reads r and normalizes the statement it contains.
//
// Parameters:
//   - filename: the name the statement was uploaded or stored under; it
//     supplies the bank hint and the output filename
//   - r: the raw statement content
//
// Returns:
//   - *models.StandardizationResult: rows in source order plus the derived
//     output filename
//   - error: a *parsererror.ReadError when r fails, otherwise
//     parsererror.ErrStandardizationFailed for any failure of the pipeline.
//     The underlying detail is logged, never returned.
func (s *Service) Standardize(filename string, r io.Reader) (result *models.StandardizationResult, err error) {
	runID := s.newRunID()
	logger := s.logger.WithFields(
		logging.F(logging.FieldRunID, runID),
		logging.F(logging.FieldFile, filename))
	start := time.Now()

	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("Standardization panicked",
				logging.F("panic", fmt.Sprint(rec)),
				logging.F("stack", string(debug.Stack())))
			result, err = nil, parsererror.ErrStandardizationFailed
		}
	}()

	if s.processor == nil {
		logger.Error("Standardization attempted without a row processor")
		return nil, parsererror.ErrStandardizationFailed
	}
	if r == nil {
		return nil, &parsererror.ReadError{Source: filename, Err: fmt.Errorf("no content")}
	}

	grid, err := csvreader.Read(filename, r)
	if err != nil {
		logger.WithError(err).Warn("Failed to read statement")
		return nil, err
	}

	base := filename
	if base != "" {
		base = filepath.Base(filename)
	}
	bank := BankHint(base)
	rows, stats := s.processor.Process(grid, bank)

	result = &models.StandardizationResult{
		Rows:     rows,
		Filename: OutputFilename(base),
		Bank:     bank,
		RunID:    runID,
	}

	logger.Info("Statement standardized",
		logging.F(logging.FieldBank, bank),
		logging.F(logging.FieldCount, len(rows)),
		logging.F(logging.FieldDropped, stats.Dropped),
		logging.F(logging.FieldOutputFile, result.Filename),
		logging.F(logging.FieldDuration, time.Since(start).Milliseconds()))
	return result, nil
}

// StandardizeBytes is Standardize over an in-memory upload.
func (s *Service) StandardizeBytes(filename string, content []byte) (*models.StandardizationResult, error) {
	return s.Standardize(filename, bytes.NewReader(content))
}

// StandardizeFile opens path and standardizes it. A file that cannot be
// opened is a read failure.
func (s *Service) StandardizeFile(path string) (*models.StandardizationResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &parsererror.ReadError{Source: path, Err: err}
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			s.logger.Warn("Failed to close input file",
				logging.F(logging.FieldFile, path),
				logging.F("error", closeErr.Error()))
		}
	}()
	return s.Standardize(path, f)
}

// BankHint returns the leading run of ASCII letters of filename, upper-cased
// ("HDFC-Input-Case1.csv" gives "HDFC"), or "" when it starts otherwise.
func BankHint(filename string) string {
	return strings.ToUpper(bankPrefix.FindString(filename))
}

// OutputFilename replaces the first case-insensitive "input" in filename
// with "Output". Names without it are returned unchanged.
func OutputFilename(filename string) string {
	loc := inputMarker.FindStringIndex(filename)
	if loc == nil {
		return filename
	}
	return filename[:loc[0]] + "Output" + filename[loc[1]:]
}
