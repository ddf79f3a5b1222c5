package models

// TransactionType classifies a statement row by where it was spent.
type TransactionType string

const (
	Domestic      TransactionType = "Domestic"
	International TransactionType = "International"
)

// Currency is the output currency vocabulary. POUND is kept as the label the
// exported files have always used; ISOCode maps it to GBP.
type Currency string

const (
	INR   Currency = "INR"
	USD   Currency = "USD"
	EUR   Currency = "EUR"
	POUND Currency = "POUND"
)

// KnownCurrencies lists the vocabulary in display order.
var KnownCurrencies = []Currency{INR, USD, EUR, POUND}

// ISOCode returns the ISO 4217 code for c.
func (c Currency) ISOCode() string {
	if c == POUND {
		return "GBP"
	}
	return string(c)
}

// ExportHeader is the fixed column order of exported statements.
var ExportHeader = []string{
	"Date",
	"Transaction Description",
	"Debit",
	"Credit",
	"Currency",
	"Card Name",
	"Transaction Type",
	"Location",
}

// File permissions
const (
	PermissionFile      = 0644
	PermissionDirectory = 0750
)
