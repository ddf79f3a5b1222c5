// Package currencyutils parses statement amounts and decides which currency a
// transaction was made in.
package currencyutils

import (
	"fmt"
	"regexp"
	"strings"

	"fjacquet/statement-csv/internal/models"

	"github.com/shopspring/decimal"
)

// amountNoise is everything stripped before an amount is parsed.
var amountNoise = regexp.MustCompile(`[₹$€£,\s]`)

// StandardizeAmount removes currency symbols, thousands separators and
// whitespace.
func StandardizeAmount(amountStr string) string {
	return amountNoise.ReplaceAllString(amountStr, "")
}

// ParseAmountStrict parses an amount, reporting why it failed. Empty input is
// an error here; ParseAmount turns it into null.
func ParseAmountStrict(amountStr string) (decimal.Decimal, error) {
	cleaned := StandardizeAmount(amountStr)
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}
	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
	}
	return amount.Abs(), nil
}

// ParseAmount returns the non-negative amount in amountStr, or null when the
// cell is empty or not a number.
func ParseAmount(amountStr string) decimal.NullDecimal {
	amount, err := ParseAmountStrict(amountStr)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return models.NewAmount(amount)
}

// DefaultRules are used when no reference data overrides them.
var DefaultRules = []models.CurrencyRule{
	{Currency: models.USD, Keywords: []string{"usd", "dollar"}},
	{Currency: models.EUR, Keywords: []string{"eur", "euro"}},
	{Currency: models.POUND, Keywords: []string{"gbp", "pound"}},
}

// Resolver picks the currency of a row.
type Resolver struct {
	rules    []models.CurrencyRule
	fallback models.Currency
}

// NewResolver builds a Resolver. Keywords are matched case-insensitively in
// rule order. An empty fallback means USD.
func NewResolver(rules []models.CurrencyRule, fallback models.Currency) *Resolver {
	if len(rules) == 0 {
		rules = DefaultRules
	}
	if fallback == "" {
		fallback = models.USD
	}
	lowered := make([]models.CurrencyRule, len(rules))
	for i, r := range rules {
		kws := make([]string, 0, len(r.Keywords))
		for _, k := range r.Keywords {
			if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
				kws = append(kws, k)
			}
		}
		lowered[i] = models.CurrencyRule{Currency: r.Currency, Keywords: kws}
	}
	return &Resolver{rules: lowered, fallback: fallback}
}

// Resolve returns INR for domestic rows. International rows get the first
// currency whose keyword appears in the description, else the fallback.
func (r *Resolver) Resolve(txType models.TransactionType, description string) models.Currency {
	if txType != models.International {
		return models.INR
	}
	desc := strings.ToLower(description)
	for _, rule := range r.rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(desc, kw) {
				return rule.Currency
			}
		}
	}
	return r.fallback
}

// FromCode reads an explicit currency cell ("USD", "gbp", "₹", ...).
func FromCode(cell string) (models.Currency, bool) {
	switch strings.ToUpper(strings.TrimSpace(cell)) {
	case "INR", "RS", "RS.", "₹":
		return models.INR, true
	case "USD", "$":
		return models.USD, true
	case "EUR", "€":
		return models.EUR, true
	case "GBP", "POUND", "£":
		return models.POUND, true
	}
	return "", false
}
