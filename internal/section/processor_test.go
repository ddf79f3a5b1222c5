package section

import (
	"testing"
	"time"

	"fjacquet/statement-csv/internal/csvreader"
	"fjacquet/statement-csv/internal/logging"
	"fjacquet/statement-csv/internal/models"
	"fjacquet/statement-csv/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow() time.Time {
	return time.Date(2024, time.March, 9, 10, 0, 0, 0, time.UTC)
}

func newTestProcessor(logger logging.Logger) *Processor {
	return NewProcessor(Config{
		Cardholders: []string{"Rahul", "Ritu"},
		Reference:   store.MustDefault(),
		Now:         fixedNow,
	}, logger)
}

func assertAmount(t *testing.T, expected string, got decimal.NullDecimal) {
	t.Helper()
	require.True(t, got.Valid, "expected %s, got null", expected)
	assert.True(t, decimal.RequireFromString(expected).Equal(got.Decimal),
		"expected %s, got %s", expected, got.Decimal)
}

func TestProcess_MultiSectionScenario(t *testing.T) {
	grid := csvreader.Grid{
		{"Domestic"},
		{"Date", "Debit", "Credit", "Description"},
		{"01-01-2020", "100", "", "Coffee Shop Delhi"},
		{"Ritu"},
		{"International"},
		{"Date", "Debit", "Credit", "Description"},
		{"02-02-2020", "", "50", "Hotel London"},
	}

	rows, stats := newTestProcessor(logging.NewMockLogger()).Process(grid, "")
	require.Len(t, rows, 2)

	first := rows[0]
	assert.Equal(t, "01-01-2020", first.Date)
	assert.Equal(t, "Coffee Shop Delhi", first.Description)
	assertAmount(t, "100", first.Debit)
	assert.False(t, first.Credit.Valid)
	assert.Equal(t, "Rahul", first.CardName)
	assert.Equal(t, models.Domestic, first.TransactionType)
	assert.Equal(t, models.INR, first.Currency)
	assert.Equal(t, "DELHI", first.Location)

	second := rows[1]
	assert.Equal(t, "02-02-2020", second.Date)
	assert.False(t, second.Debit.Valid)
	assertAmount(t, "50", second.Credit)
	assert.Equal(t, "Ritu", second.CardName)
	assert.Equal(t, models.International, second.TransactionType)
	assert.Equal(t, models.USD, second.Currency)
	assert.Equal(t, "LONDON", second.Location)

	assert.Equal(t, Stats{Rows: 2, Banners: 2, Headers: 2}, stats)
}

func TestProcess_DropsUnusableRows(t *testing.T) {
	grid := csvreader.Grid{
		{"Date", "Description", "Debit", "Credit"},
		{"01-01-2020", "no amounts", "", ""},
		{"", "no date", "10", ""},
		{"03-01-2020", "kept", "", "1,000.00"},
		{"Total", "", "", ""},
	}
	logger := logging.NewMockLogger()

	rows, stats := newTestProcessor(logger).Process(grid, "")

	require.Len(t, rows, 1)
	assert.Equal(t, "kept", rows[0].Description)
	assertAmount(t, "1000", rows[0].Credit)
	assert.Equal(t, 3, stats.Dropped)
	assert.Len(t, logger.EntriesByLevel("DEBUG"), 1+3+1, "header, three drops and the summary")
}

func TestProcess_NormalizesFields(t *testing.T) {
	grid := csvreader.Grid{
		{"International Transactions"},
		{"Txn Date", "Particulars", "Debit", "Credit"},
		{"1/2/2020", "AMAZON EU EURO PURCHASE PARIS", "₹1,234.50", ""},
		{"15-03-22", "Refund GBP 991122", "", "$20"},
		{"7", "Netflix USD", "499", ""},
		{"31.12.2023", "Store pound 42", "abc", "5"},
	}

	rows, _ := newTestProcessor(logging.NewMockLogger()).Process(grid, "HDFC")
	require.Len(t, rows, 4)

	assert.Equal(t, "01-02-2020", rows[0].Date)
	assertAmount(t, "1234.5", rows[0].Debit)
	assert.Equal(t, models.EUR, rows[0].Currency)
	assert.Equal(t, "PARIS", rows[0].Location)

	assert.Equal(t, "15-03-2022", rows[1].Date)
	assertAmount(t, "20", rows[1].Credit)
	assert.Equal(t, models.POUND, rows[1].Currency)
	assert.Equal(t, "GBP", rows[1].Location)

	assert.Equal(t, "07-03-2024", rows[2].Date)
	assert.Equal(t, models.USD, rows[2].Currency)

	assert.Equal(t, "31-12-2023", rows[3].Date)
	assert.False(t, rows[3].Debit.Valid, "unparseable amount becomes null")
	assertAmount(t, "5", rows[3].Credit)
	assert.Equal(t, models.POUND, rows[3].Currency)
}

func TestProcess_AddressColumnIsNotAnAmount(t *testing.T) {
	grid := csvreader.Grid{
		{"Date", "Merchant Address", "Debit", "Credit", "Description"},
		{"01-01-2020", "MG Road", "100", "", "Coffee"},
		{"02-01-2020", "MG Road", "", "", "Pending"},
	}

	rows, stats := newTestProcessor(logging.NewMockLogger()).Process(grid, "")

	require.Len(t, rows, 1)
	assert.Equal(t, "Coffee", rows[0].Description)
	assertAmount(t, "100", rows[0].Debit)
	assert.False(t, rows[0].Credit.Valid)
	assert.Equal(t, 1, stats.Dropped)
}

func TestProcess_FirstParseableAmountCandidate(t *testing.T) {
	grid := csvreader.Grid{
		{"Date", "Details", "Debit", "Withdrawal Amt"},
		{"01-01-2024", "ATM", "n/a", "75.00"},
		{"02-01-2024", "Cheque", "12", "99"},
		{"03-01-2024", "Bad", "n/a", "void"},
	}
	logger := logging.NewMockLogger()

	rows, _ := newTestProcessor(logger).Process(grid, "HDFC")
	require.Len(t, rows, 3)

	assertAmount(t, "75", rows[0].Debit)
	assertAmount(t, "12", rows[1].Debit)
	assert.False(t, rows[2].Debit.Valid)
	assert.True(t, logger.HasEntry("DEBUG", "Unparseable amount, leaving it empty"))
}

func TestProcess_HeaderWithoutAmountColumn(t *testing.T) {
	grid := csvreader.Grid{
		{"Date", "Description"},
		{"01-01-2024", "Nothing to read"},
	}
	logger := logging.NewMockLogger()

	rows, stats := newTestProcessor(logger).Process(grid, "")

	assert.Empty(t, rows)
	assert.Equal(t, 1, stats.Dropped)
	assert.True(t, logger.HasEntry("DEBUG", "Column header has no amount column"))
}

func TestProcess_ColumnOverrides(t *testing.T) {
	grid := csvreader.Grid{
		{"Date", "Description", "Debit", "Type", "Card Holder", "Currency", "City"},
		{"01-01-2024", "Uber trip", "10", "", "RITU SHARMA", "", ""},
		{"02-01-2024", "Hotel stay", "20", "", "", "EUR", "Lisbon"},
		{"03-01-2024", "Lunch Mumbai", "30", "", "xxxx-1234", "CHF", ""},
	}
	// "Type" matches no keyword, so the section stays Domestic and the
	// currency column decides.
	rows, _ := newTestProcessor(logging.NewMockLogger()).Process(grid, "")
	require.Len(t, rows, 3)

	assert.Equal(t, "Ritu", rows[0].CardName)
	assert.Equal(t, models.INR, rows[0].Currency)

	assert.Equal(t, "Rahul", rows[1].CardName)
	assert.Equal(t, models.EUR, rows[1].Currency)
	assert.Equal(t, "Lisbon", rows[1].Location)

	assert.Equal(t, "Rahul", rows[2].CardName, "unknown card cell keeps the running cardholder")
	assert.Equal(t, models.INR, rows[2].Currency, "unknown code falls back to resolution")
	assert.Equal(t, "MUMBAI", rows[2].Location)
}

// Upper-case type cells: a cell containing "International" verbatim would be
// read as a section banner.
func TestProcess_TypeColumnOverridesSection(t *testing.T) {
	grid := csvreader.Grid{
		{"Date", "Description", "Debit", "DOMESTIC/INTERNATIONAL"},
		{"01-01-2024", "Hotel dollar", "10", "INTERNATIONAL"},
		{"02-01-2024", "Chai", "1", "domestic"},
		{"03-01-2024", "Chai", "1", ""},
	}

	rows, stats := newTestProcessor(logging.NewMockLogger()).Process(grid, "")
	require.Len(t, rows, 3)
	assert.Zero(t, stats.Banners)

	assert.Equal(t, models.International, rows[0].TransactionType)
	assert.Equal(t, models.USD, rows[0].Currency)
	assert.Equal(t, models.Domestic, rows[1].TransactionType)
	assert.Equal(t, models.Domestic, rows[2].TransactionType)
}

func TestProcess_PreambleAndBankHint(t *testing.T) {
	grid := csvreader.Grid{
		{"ICICI Bank Statement"},
		{"Account", "XXXX1234"},
		{"S No.", "Transaction Date", "Transaction Remarks", "Withdrawal Amount (INR )", "Deposit Amount (INR )"},
		{"1", "04/03/2024", "UPI SWIGGY BANGALORE", "250.00", ""},
		{"2", "05/03/2024", "SALARY CREDIT", "", "50,000.00"},
	}

	rows, stats := newTestProcessor(logging.NewMockLogger()).Process(grid, "ICICI")
	require.Len(t, rows, 2)
	assert.Equal(t, 3, stats.Headers)

	assert.Equal(t, "04-03-2024", rows[0].Date)
	assert.Equal(t, "UPI SWIGGY BANGALORE", rows[0].Description)
	assertAmount(t, "250", rows[0].Debit)
	assert.False(t, rows[0].Credit.Valid)
	assert.Equal(t, "BANGALORE", rows[0].Location)

	assert.False(t, rows[1].Debit.Valid)
	assertAmount(t, "50000", rows[1].Credit)
}

func TestProcess_ConfiguredDefaultCardholder(t *testing.T) {
	p := NewProcessor(Config{
		Cardholders:       []string{"Anita", "Vikram"},
		DefaultCardholder: "Vikram",
	}, nil)
	grid := csvreader.Grid{
		{"Date", "Debit"},
		{"01-01-2024", "1"},
		{"Anita"},
		{"02-01-2024", "2"},
		{"Rahul"},
		{"03-01-2024", "3"},
	}

	rows, _ := p.Process(grid, "")
	require.Len(t, rows, 3)
	assert.Equal(t, "Vikram", rows[0].CardName)
	assert.Equal(t, "Anita", rows[1].CardName)
	assert.Equal(t, "Anita", rows[2].CardName)
}

func TestProcess_NoHeaderFound(t *testing.T) {
	grid := csvreader.Grid{{"foo", "bar"}, {"1", "2"}}

	rows, stats := newTestProcessor(nil).Process(grid, "")
	assert.Empty(t, rows)
	assert.Equal(t, 2, stats.Headers)
}

func TestProcess_IndependentRuns(t *testing.T) {
	p := newTestProcessor(logging.NewMockLogger())
	first := csvreader.Grid{{"International"}, {"Ritu"}, {"Date", "Debit"}, {"01-01-2024", "1"}}
	second := csvreader.Grid{{"Date", "Debit"}, {"01-01-2024", "1"}}

	p.Process(first, "")
	rows, _ := p.Process(second, "")

	require.Len(t, rows, 1)
	assert.Equal(t, models.Domestic, rows[0].TransactionType)
	assert.Equal(t, "Rahul", rows[0].CardName)
}
