package models

import (
	"github.com/shopspring/decimal"
)

// NormalizedRow is one transaction in the uniform output schema.
type NormalizedRow struct {
	Date            string              `json:"date"`
	Description     string              `json:"description"`
	Debit           decimal.NullDecimal `json:"debit"`
	Credit          decimal.NullDecimal `json:"credit"`
	Currency        Currency            `json:"currency"`
	CardName        string              `json:"cardName"`
	TransactionType TransactionType     `json:"transactionType"`
	Location        string              `json:"location"`
}

// Record renders the row in ExportHeader order. Null amounts become empty
// cells.
func (r NormalizedRow) Record() []string {
	return []string{
		r.Date,
		r.Description,
		AmountString(r.Debit),
		AmountString(r.Credit),
		string(r.Currency),
		r.CardName,
		string(r.TransactionType),
		r.Location,
	}
}

// StandardizationResult is what one pipeline run hands back to its caller.
type StandardizationResult struct {
	Rows     []NormalizedRow `json:"rows"`
	Filename string          `json:"filename"`
	Bank     string          `json:"bank,omitempty"`
	RunID    string          `json:"runId,omitempty"`
}

// AmountString formats a nullable amount the way exports expect: the shortest
// decimal representation, or "" when null.
func AmountString(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}

// NewAmount wraps a decimal as a valid NullDecimal.
func NewAmount(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}
