package models

import (
	"fmt"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money is an amount tagged with one of the output currencies.
type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency Currency        `json:"currency"`
}

// NewMoney creates a Money value.
func NewMoney(amount decimal.Decimal, currency Currency) Money {
	return Money{Amount: amount, Currency: currency}
}

// ZeroMoney returns a zero amount in currency.
func ZeroMoney(currency Currency) Money {
	return Money{Amount: decimal.Zero, Currency: currency}
}

// Add sums two values of the same currency.
func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("cannot add different currencies: %s and %s", m.Currency, other.Currency)
	}
	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}, nil
}

// Display renders the amount with the currency's symbol and grouping, e.g.
// "₹1,234.50" or "£12.00".
func (m Money) Display() string {
	cur := gomoney.GetCurrency(m.Currency.ISOCode())
	if cur == nil {
		return m.String()
	}
	minor := m.Amount.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return gomoney.New(minor, cur.Code).Display()
}

// String returns "1234.50 INR".
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Amount.StringFixed(2), m.Currency)
}

// DisplayAmount formats a nullable amount for display, or "" when null.
func DisplayAmount(d decimal.NullDecimal, currency Currency) string {
	if !d.Valid {
		return ""
	}
	return NewMoney(d.Decimal, currency).Display()
}

// CurrencyTotals holds the debit and credit sums of one currency.
type CurrencyTotals struct {
	Currency Currency `json:"currency"`
	Debit    Money    `json:"debit"`
	Credit   Money    `json:"credit"`
	Count    int      `json:"count"`
}

// Totals sums debits and credits per currency, in KnownCurrencies order
// followed by any other currency in first-seen order.
func Totals(rows []NormalizedRow) []CurrencyTotals {
	byCurrency := make(map[Currency]*CurrencyTotals)
	var order []Currency

	for _, r := range rows {
		t, ok := byCurrency[r.Currency]
		if !ok {
			t = &CurrencyTotals{
				Currency: r.Currency,
				Debit:    ZeroMoney(r.Currency),
				Credit:   ZeroMoney(r.Currency),
			}
			byCurrency[r.Currency] = t
			order = append(order, r.Currency)
		}
		t.Count++
		if r.Debit.Valid {
			t.Debit, _ = t.Debit.Add(NewMoney(r.Debit.Decimal, r.Currency))
		}
		if r.Credit.Valid {
			t.Credit, _ = t.Credit.Add(NewMoney(r.Credit.Decimal, r.Currency))
		}
	}

	out := make([]CurrencyTotals, 0, len(byCurrency))
	seen := make(map[Currency]bool)
	for _, c := range KnownCurrencies {
		if t, ok := byCurrency[c]; ok {
			out = append(out, *t)
			seen[c] = true
		}
	}
	for _, c := range order {
		if !seen[c] {
			out = append(out, *byCurrency[c])
		}
	}
	return out
}
