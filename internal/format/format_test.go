package format

import (
	"testing"

	"fjacquet/statement-csv/internal/models"
	"fjacquet/statement-csv/internal/store"

	"github.com/stretchr/testify/assert"
)

func newTestIdentifier() *Identifier {
	return NewIdentifier([]string{"Rahul", "Ritu"}, store.MustDefault())
}

func TestIdentify_GenericHeader(t *testing.T) {
	m := newTestIdentifier().Identify(
		[]string{"Date", "Transaction Description", "Debit", "Credit"}, "")

	assert.Equal(t, 0, m.Date)
	assert.Equal(t, 1, m.Description)
	assert.Equal(t, []int{2}, m.Debit)
	assert.Equal(t, []int{3}, m.Credit)
	assert.Empty(t, m.TransactionType)
	assert.Empty(t, m.CardName)
	assert.Equal(t, Unset, m.Currency)
	assert.Equal(t, Unset, m.Location)
	assert.True(t, m.HasDate())
	assert.True(t, m.HasAmount())
}

func TestIdentifyGeneric_KeywordPriority(t *testing.T) {
	tests := []struct {
		name   string
		header []string
		check  func(t *testing.T, m ColumnMap)
	}{
		{
			name:   "case insensitive",
			header: []string{"TXN DATE", "PARTICULARS", "DR", "CR"},
			check: func(t *testing.T, m ColumnMap) {
				assert.Equal(t, 0, m.Date)
				assert.Equal(t, 1, m.Description)
				assert.Equal(t, []int{2}, m.Debit)
				assert.Equal(t, []int{3}, m.Credit)
			},
		},
		{
			name:   "first date wins",
			header: []string{"Value Date", "Posting Date", "Details", "Amount"},
			check: func(t *testing.T, m ColumnMap) {
				assert.Equal(t, 0, m.Date)
				assert.Equal(t, 2, m.Description)
				assert.Equal(t, []int{3}, m.Debit)
				assert.Empty(t, m.Credit)
			},
		},
		{
			name:   "description beats credit for descr",
			header: []string{"Date", "Description"},
			check: func(t *testing.T, m ColumnMap) {
				assert.Equal(t, 1, m.Description)
				assert.Empty(t, m.Credit)
			},
		},
		{
			name:   "repeated amount columns are all candidates",
			header: []string{"Date", "Details", "Amount (INR)", "Amount (Foreign)", "Deposit"},
			check: func(t *testing.T, m ColumnMap) {
				assert.Equal(t, []int{2, 3}, m.Debit)
				assert.Equal(t, []int{4}, m.Credit)
			},
		},
		{
			name:   "type, cardholder, currency and location columns",
			header: []string{"Date", "Details", "Debit", "Domestic/International", "Card Holder", "Rahul", "Currency", "City"},
			check: func(t *testing.T, m ColumnMap) {
				assert.Equal(t, []int{3}, m.TransactionType)
				assert.Equal(t, []int{4, 5}, m.CardName)
				assert.Equal(t, 6, m.Currency)
				assert.Equal(t, 7, m.Location)
			},
		},
		{
			name:   "description fallback to transaction column",
			header: []string{"Transaction Date", "Transaction Remarks", "Debit"},
			check: func(t *testing.T, m ColumnMap) {
				assert.Equal(t, 0, m.Date)
				assert.Equal(t, 1, m.Description)
			},
		},
		{
			name:   "nothing found",
			header: []string{"Foo", "", "Bar"},
			check: func(t *testing.T, m ColumnMap) {
				assert.Equal(t, NewColumnMap(), m)
				assert.False(t, m.HasDate())
				assert.False(t, m.HasAmount())
			},
		},
	}

	id := newTestIdentifier()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, id.identifyGeneric(tt.header))
		})
	}
}

func TestIdentify_HeaderPatterns(t *testing.T) {
	tests := []struct {
		name   string
		header []string
		check  func(t *testing.T, m ColumnMap)
	}{
		{
			name:   "address column is not an amount",
			header: []string{"Date", "Merchant Address", "Debit", "Credit", "Description"},
			check: func(t *testing.T, m ColumnMap) {
				assert.Equal(t, 0, m.Date)
				assert.Equal(t, []int{2}, m.Debit)
				assert.Equal(t, []int{3}, m.Credit)
				assert.Equal(t, 4, m.Description)
			},
		},
		{
			name:   "amount and cr are not matched without a bank rule",
			header: []string{"Txn Date", "Particulars", "Amount", "Cr"},
			check: func(t *testing.T, m ColumnMap) {
				assert.Equal(t, 0, m.Date)
				assert.Equal(t, 1, m.Description)
				assert.False(t, m.HasAmount())
			},
		},
		{
			name:   "first match per field",
			header: []string{"Value Date", "Posting Date", "Debit", "Debit Alt", "Details", "Narrative Details"},
			check: func(t *testing.T, m ColumnMap) {
				assert.Equal(t, 0, m.Date)
				assert.Equal(t, []int{2}, m.Debit)
				assert.Equal(t, 4, m.Description)
			},
		},
		{
			name:   "description skips the date column",
			header: []string{"Transaction Date", "Transaction Remarks", "Debit"},
			check: func(t *testing.T, m ColumnMap) {
				assert.Equal(t, 0, m.Date)
				assert.Equal(t, 1, m.Description)
			},
		},
		{
			name:   "keyword pass fills the remaining fields",
			header: []string{"Date", "Details", "Debit", "Domestic/International", "Card Holder", "Currency", "City"},
			check: func(t *testing.T, m ColumnMap) {
				assert.Equal(t, []int{3}, m.TransactionType)
				assert.Equal(t, []int{4}, m.CardName)
				assert.Equal(t, 5, m.Currency)
				assert.Equal(t, 6, m.Location)
			},
		},
	}

	id := newTestIdentifier()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, id.Identify(tt.header, ""))
		})
	}
}

func TestIdentify_ICICIOverride(t *testing.T) {
	header := []string{
		"S No.", "Value Date", "Transaction Date", "Cheque Number",
		"Transaction Remarks", "Withdrawal Amount (INR )", "Deposit Amount (INR )", "Balance (INR )",
	}
	id := newTestIdentifier()

	generic := id.identifyGeneric(header)
	assert.Equal(t, []int{5, 6}, generic.Debit, "generic pass treats every amount column as debit")
	assert.Empty(t, generic.Credit)

	m := id.Identify(header, "ICICI")
	assert.Equal(t, 1, m.Date)
	assert.Equal(t, 4, m.Description)
	assert.Equal(t, []int{5}, m.Debit)
	assert.Equal(t, []int{6}, m.Credit)
}

func TestIdentify_ICICIParticulars(t *testing.T) {
	m := newTestIdentifier().Identify(
		[]string{"Txn Date", "Withdrawal Amount", "Deposit Amount", "Particulars"}, "ICICI")

	assert.Equal(t, 0, m.Date)
	assert.Equal(t, 3, m.Description)
	assert.Equal(t, []int{1}, m.Debit)
	assert.Equal(t, []int{2}, m.Credit)
}

func TestIdentify_BankHintIsCaseInsensitive(t *testing.T) {
	header := []string{"Date", "Withdrawal Amount", "Deposit Amount"}

	m := newTestIdentifier().Identify(header, "icici")
	assert.Equal(t, []int{1}, m.Debit)
	assert.Equal(t, []int{2}, m.Credit)
}

func TestIdentify_UnknownBankUsesGenericPass(t *testing.T) {
	header := []string{"Date", "Withdrawal Amount", "Deposit Amount"}
	id := newTestIdentifier()

	assert.Equal(t, id.Identify(header, ""), id.Identify(header, "SBI"))
}

func TestIdentify_BankRulesAugment(t *testing.T) {
	ref := &models.Reference{Banks: []models.BankProfile{{
		Bank: "HDFC",
		Rules: []models.HeaderRule{
			{Phrase: "narration", Role: store.RoleDescription},
			{Phrase: "paid out", Role: store.RoleDebit},
			{Phrase: "value dt", Role: store.RoleDate},
		},
	}}}
	id := NewIdentifier(nil, ref)

	m := id.Identify([]string{"Value Dt", "Narration", "Paid Out", "Debit", "Credit"}, "HDFC")

	assert.Equal(t, 0, m.Date)
	assert.Equal(t, 1, m.Description)
	assert.Equal(t, []int{3, 2}, m.Debit, "generic candidates are kept, bank matches are appended")
	assert.Equal(t, []int{4}, m.Credit)
}

func TestIdentify_ConfiguredCardholders(t *testing.T) {
	id := NewIdentifier([]string{" Anita "}, nil)

	m := id.Identify([]string{"Date", "Anita", "Rahul"}, "")
	assert.Equal(t, []int{1}, m.CardName)

	m = NewIdentifier(nil, nil).Identify([]string{"Date", "ritu"}, "")
	assert.Equal(t, []int{1}, m.CardName)
}

func TestWithout(t *testing.T) {
	set := []int{1, 2, 3}
	out := without(set, 2)

	assert.Equal(t, []int{1, 3}, out)
	assert.Equal(t, []int{1, 2, 3}, set)
	assert.Equal(t, []int{1, 3}, without(out, 7))
}

func TestColumnMap_String(t *testing.T) {
	m := NewColumnMap()
	m.Debit = []int{2}

	assert.Contains(t, m.String(), "debit=[2]")
	assert.Contains(t, m.String(), "date=-1")
}
