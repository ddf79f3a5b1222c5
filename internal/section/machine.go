// Package section walks a statement grid whose transaction type and
// cardholder are declared by banner rows rather than per-row columns.
package section

import (
	"strings"

	"fjacquet/statement-csv/internal/csvreader"
	"fjacquet/statement-csv/internal/format"
	"fjacquet/statement-csv/internal/models"
)

// State is where the machine is within the current block.
type State int

const (
	// AwaitingHeader: a header candidate had no date column, so the next
	// row is tried as a header too.
	AwaitingHeader State = iota
	// AwaitingColumnHeader: a banner (or the start of the file) was seen,
	// the next non-banner row is the column header.
	AwaitingColumnHeader
	// Consuming: data rows under the current column map.
	Consuming
)

func (s State) String() string {
	switch s {
	case AwaitingHeader:
		return "AwaitingHeader"
	case AwaitingColumnHeader:
		return "AwaitingColumnHeader"
	case Consuming:
		return "Consuming"
	}
	return "Unknown"
}

// RowKind is the classification of one row. Classification order is the
// declaration order; the first kind that applies wins.
type RowKind int

const (
	RowBlank RowKind = iota
	RowBanner
	RowCardholder
	RowHeader
	RowData
)

func (k RowKind) String() string {
	switch k {
	case RowBlank:
		return "blank"
	case RowBanner:
		return "banner"
	case RowCardholder:
		return "cardholder"
	case RowHeader:
		return "header"
	case RowData:
		return "data"
	}
	return "unknown"
}

// Banner markers are matched case-sensitively, as statements print them.
const (
	domesticMarker      = "Domestic"
	internationalMarker = "International"
)

// Classify decides what row is given the machine state. value carries the
// banner cell or the cardholder name for those kinds.
func Classify(row []string, state State, cardholders []string) (kind RowKind, value string) {
	if isBlank(row) {
		return RowBlank, ""
	}
	for _, cell := range row {
		if strings.Contains(cell, domesticMarker) || strings.Contains(cell, internationalMarker) {
			return RowBanner, cell
		}
	}
	for _, cell := range row {
		trimmed := strings.TrimSpace(cell)
		for _, name := range cardholders {
			if trimmed == name {
				return RowCardholder, name
			}
		}
	}
	if state == AwaitingColumnHeader || state == AwaitingHeader {
		return RowHeader, ""
	}
	return RowData, ""
}

// Transition is the outcome of one Step.
type Transition struct {
	Kind RowKind
	From State
	To   State
	// Emit is set for data rows that carry a date and at least one amount.
	Emit bool
}

// Machine holds the running context of one standardization run. It is not
// safe for concurrent use; each run creates its own.
type Machine struct {
	identifier  *format.Identifier
	cardholders []string
	bank        string

	state      State
	txType     models.TransactionType
	cardHolder string
	columns    format.ColumnMap
}

// NewMachine starts in AwaitingColumnHeader with a Domestic section and
// defaultCardholder as the running cardholder.
func NewMachine(identifier *format.Identifier, cardholders []string, defaultCardholder, bank string) *Machine {
	return &Machine{
		identifier:  identifier,
		cardholders: cardholders,
		bank:        bank,
		state:       AwaitingColumnHeader,
		txType:      models.Domestic,
		cardHolder:  defaultCardholder,
		columns:     format.NewColumnMap(),
	}
}

// Step applies one row to the machine.
func (m *Machine) Step(row []string) Transition {
	kind, value := Classify(row, m.state, m.cardholders)
	t := Transition{Kind: kind, From: m.state}

	switch kind {
	case RowBanner:
		if strings.Contains(value, internationalMarker) {
			m.txType = models.International
		} else {
			m.txType = models.Domestic
		}
		m.state = AwaitingColumnHeader
	case RowCardholder:
		m.cardHolder = value
	case RowHeader:
		m.columns = m.identifier.Identify(row, m.bank)
		if m.columns.HasDate() {
			m.state = Consuming
		} else {
			m.state = AwaitingHeader
		}
	case RowData:
		t.Emit = m.usable(row)
	}

	t.To = m.state
	return t
}

// State returns the current state.
func (m *Machine) State() State { return m.state }

// TransactionType returns the running section type.
func (m *Machine) TransactionType() models.TransactionType { return m.txType }

// CardHolder returns the running cardholder.
func (m *Machine) CardHolder() string { return m.cardHolder }

// Columns returns the column map of the current block.
func (m *Machine) Columns() format.ColumnMap { return m.columns }

func (m *Machine) usable(row []string) bool {
	if strings.TrimSpace(csvreader.CellAt(row, m.columns.Date)) == "" {
		return false
	}
	return FirstNonEmpty(row, m.columns.Debit) != "" || FirstNonEmpty(row, m.columns.Credit) != ""
}

// FirstNonEmpty returns the first non-blank cell among candidates.
func FirstNonEmpty(row []string, candidates []int) string {
	for _, idx := range candidates {
		if v := strings.TrimSpace(csvreader.CellAt(row, idx)); v != "" {
			return v
		}
	}
	return ""
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
