package models

// CurrencyRule maps description keywords to a currency for international
// transactions.
type CurrencyRule struct {
	Currency Currency `yaml:"currency" json:"currency"`
	Keywords []string `yaml:"keywords" json:"keywords"`
}

// City is a known location with the spellings that identify it.
type City struct {
	Name    string   `yaml:"name" json:"name"`
	Aliases []string `yaml:"aliases" json:"aliases"`
}

// HeaderRule assigns a column role to any header cell containing Phrase.
type HeaderRule struct {
	Phrase string `yaml:"phrase" json:"phrase"`
	Role   string `yaml:"role" json:"role"`
}

// BankProfile groups the header rules of one issuer.
type BankProfile struct {
	Bank  string       `yaml:"bank" json:"bank"`
	Rules []HeaderRule `yaml:"rules" json:"rules"`
}

// Reference is the read-only lookup data shared by every pipeline run.
type Reference struct {
	Currencies     []CurrencyRule `yaml:"currencies" json:"currencies"`
	DefaultForeign Currency       `yaml:"default_foreign_currency" json:"defaultForeignCurrency"`
	Cities         []City         `yaml:"cities" json:"cities"`
	Banks          []BankProfile  `yaml:"banks" json:"banks"`
}
