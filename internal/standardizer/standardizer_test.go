package standardizer

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"fjacquet/statement-csv/internal/csvreader"
	"fjacquet/statement-csv/internal/logging"
	"fjacquet/statement-csv/internal/models"
	"fjacquet/statement-csv/internal/parsererror"
	"fjacquet/statement-csv/internal/section"
	"fjacquet/statement-csv/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const multiSection = `Domestic
Date,Debit,Credit,Description
01-01-2020,100,,Coffee Shop Delhi
Ritu
International
Date,Debit,Credit,Description
02-02-2020,,50,Hotel London
`

func newTestService(logger logging.Logger) *Service {
	processor := section.NewProcessor(section.Config{
		Cardholders: []string{"Rahul", "Ritu"},
		Reference:   store.MustDefault(),
	}, logger)
	return NewService(processor, logger)
}

type panickingProcessor struct{}

func (panickingProcessor) Process(csvreader.Grid, string) ([]models.NormalizedRow, section.Stats) {
	panic("index out of range")
}

type recordingProcessor struct {
	bank string
	grid csvreader.Grid
}

func (p *recordingProcessor) Process(grid csvreader.Grid, bank string) ([]models.NormalizedRow, section.Stats) {
	p.bank, p.grid = bank, grid
	return nil, section.Stats{}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("connection reset")
}

func TestStandardize_EndToEnd(t *testing.T) {
	logger := logging.NewMockLogger()
	svc := newTestService(logger)

	result, err := svc.Standardize("HDFC-Input-Case1.csv", strings.NewReader(multiSection))
	require.NoError(t, err)

	assert.Equal(t, "HDFC-Output-Case1.csv", result.Filename)
	assert.Equal(t, "HDFC", result.Bank)
	assert.NotEmpty(t, result.RunID)
	require.Len(t, result.Rows, 2)
	assert.Equal(t, "Rahul", result.Rows[0].CardName)
	assert.Equal(t, "Ritu", result.Rows[1].CardName)
	assert.Equal(t, models.International, result.Rows[1].TransactionType)

	infos := logger.EntriesByLevel("INFO")
	require.Len(t, infos, 1)
	count, ok := infos[0].FieldValue(logging.FieldCount)
	require.True(t, ok)
	assert.Equal(t, 2, count)
	runID, _ := infos[0].FieldValue(logging.FieldRunID)
	assert.Equal(t, result.RunID, runID)
}

func TestStandardize_PassesBankHintFromBaseName(t *testing.T) {
	p := &recordingProcessor{}
	svc := NewService(p, logging.NewMockLogger())

	result, err := svc.StandardizeBytes(filepath.Join("uploads", "input", "icici_input.csv"), []byte("a,b\n"))
	require.NoError(t, err)

	assert.Equal(t, "ICICI", p.bank)
	assert.Equal(t, csvreader.Grid{{"a", "b"}}, p.grid)
	assert.Equal(t, "icici_Output.csv", result.Filename)
	assert.Empty(t, result.Rows)
}

func TestStandardize_ReadFailure(t *testing.T) {
	logger := logging.NewMockLogger()
	svc := newTestService(logger)

	result, err := svc.Standardize("statement.csv", failingReader{})
	assert.Nil(t, result)
	require.Error(t, err)

	assert.ErrorIs(t, err, parsererror.ErrReadFailed)
	assert.NotErrorIs(t, err, parsererror.ErrStandardizationFailed)
	var readErr *parsererror.ReadError
	assert.ErrorAs(t, err, &readErr)
	assert.Len(t, logger.EntriesByLevel("WARN"), 1)
}

func TestStandardize_NilReader(t *testing.T) {
	_, err := newTestService(logging.NewMockLogger()).Standardize("x.csv", nil)
	assert.ErrorIs(t, err, parsererror.ErrReadFailed)
}

func TestStandardize_PanicBecomesGenericFailure(t *testing.T) {
	logger := logging.NewMockLogger()
	svc := NewService(panickingProcessor{}, logger)

	result, err := svc.Standardize("HDFC.csv", strings.NewReader("a,b\n"))

	assert.Nil(t, result)
	assert.Equal(t, parsererror.ErrStandardizationFailed, err)
	assert.EqualError(t, err, "failed to standardize statement")
	assert.NotContains(t, err.Error(), "index out of range")

	errs := logger.EntriesByLevel("ERROR")
	require.Len(t, errs, 1)
	detail, _ := errs[0].FieldValue("panic")
	assert.Equal(t, "index out of range", detail)
}

func TestStandardize_NoProcessor(t *testing.T) {
	svc := NewService(nil, logging.NewMockLogger())

	_, err := svc.Standardize("a.csv", strings.NewReader("x"))
	assert.ErrorIs(t, err, parsererror.ErrStandardizationFailed)
}

func TestStandardize_Concurrent(t *testing.T) {
	svc := newTestService(logging.NewMockLogger())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := svc.StandardizeBytes("AXIS-Input.csv", []byte(multiSection))
			if assert.NoError(t, err) {
				assert.Len(t, result.Rows, 2)
			}
		}()
	}
	wg.Wait()
}

func TestStandardizeFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "IDFC-Input.csv")
	require.NoError(t, os.WriteFile(path, []byte(multiSection), 0600))
	svc := newTestService(logging.NewMockLogger())

	result, err := svc.StandardizeFile(path)
	require.NoError(t, err)
	assert.Equal(t, "IDFC-Output.csv", result.Filename)
	assert.Len(t, result.Rows, 2)

	_, err = svc.StandardizeFile(filepath.Join(dir, "missing.csv"))
	assert.ErrorIs(t, err, parsererror.ErrReadFailed)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestBankHint(t *testing.T) {
	tests := map[string]string{
		"HDFC-Input-Case1.csv": "HDFC",
		"icici_statement.csv":  "ICICI",
		"Axis2024.csv":         "AXIS",
		"2024-idfc.csv":        "",
		"":                     "",
		"écu.csv":              "",
	}
	for in, want := range tests {
		assert.Equal(t, want, BankHint(in), in)
	}
}

func TestOutputFilename(t *testing.T) {
	tests := map[string]string{
		"HDFC-Input-Case1.csv": "HDFC-Output-Case1.csv",
		"hdfc-input.csv":       "hdfc-Output.csv",
		"INPUT-input.csv":      "Output-input.csv",
		"statement.csv":        "statement.csv",
		"MyInputs.csv":         "MyOutputs.csv",
	}
	for in, want := range tests {
		assert.Equal(t, want, OutputFilename(in), in)
	}
}
