// Package format infers which column of a statement header carries which
// field. Matching is by case-insensitive substring, so "Txn Date", "DATE"
// and "Posting date" all map to the date column.
package format

import (
	"fmt"
	"regexp"
	"strings"

	"fjacquet/statement-csv/internal/models"
	"fjacquet/statement-csv/internal/store"
)

// Unset marks a single-index field that no header cell matched.
const Unset = -1

// ColumnMap locates the fields of one header block. Candidate sets keep
// header order; readers use the first non-empty cell among them.
type ColumnMap struct {
	Date            int
	Description     int
	Debit           []int
	Credit          []int
	TransactionType []int
	CardName        []int
	Currency        int
	Location        int
}

// NewColumnMap returns a map with every field unset.
func NewColumnMap() ColumnMap {
	return ColumnMap{
		Date:        Unset,
		Description: Unset,
		Currency:    Unset,
		Location:    Unset,
	}
}

// HasDate reports whether a date column was found.
func (m ColumnMap) HasDate() bool {
	return m.Date != Unset
}

// HasAmount reports whether any debit or credit column was found.
func (m ColumnMap) HasAmount() bool {
	return len(m.Debit) > 0 || len(m.Credit) > 0
}

func (m ColumnMap) String() string {
	return fmt.Sprintf("date=%d description=%d debit=%v credit=%v type=%v card=%v currency=%d location=%d",
		m.Date, m.Description, m.Debit, m.Credit, m.TransactionType, m.CardName, m.Currency, m.Location)
}

var (
	descriptionKeywords = []string{"description", "transactions", "details", "particulars"}
	debitKeywords       = []string{"debit", "dr", "withdrawal", "amount"}
	creditKeywords      = []string{"credit", "cr", "deposit"}
	typeKeywords        = []string{"domestic", "international"}
	currencyKeywords    = []string{"currency"}
	locationKeywords    = []string{"location", "city"}
)

// Column-header rows inside a section are read with these narrower patterns;
// broad keywords such as "dr" would claim cells like "Merchant Address".
var (
	sectionDate        = regexp.MustCompile(`(?i)date`)
	sectionDebit       = regexp.MustCompile(`(?i)debit`)
	sectionCredit      = regexp.MustCompile(`(?i)credit`)
	sectionDescription = regexp.MustCompile(`(?i)description|details|particulars|transaction`)
)

// descriptionFallback names a column used as description when no header
// says so explicitly, e.g. "Transaction Remarks".
const descriptionFallback = "transaction"

// DefaultCardholders are the identities recognised when none are configured.
var DefaultCardholders = []string{"Rahul", "Ritu"}

// Identifier builds ColumnMaps. It holds only read-only lookup data and is
// safe for concurrent use.
type Identifier struct {
	cardKeywords []string
	reference    *models.Reference
}

// NewIdentifier creates an Identifier for the given cardholder names and bank
// rules. Nil reference means no bank-specific rules.
func NewIdentifier(cardholders []string, reference *models.Reference) *Identifier {
	if len(cardholders) == 0 {
		cardholders = DefaultCardholders
	}
	keywords := make([]string, 0, len(cardholders)+1)
	for _, name := range cardholders {
		if name = strings.ToLower(strings.TrimSpace(name)); name != "" {
			keywords = append(keywords, name)
		}
	}
	keywords = append(keywords, "card")
	return &Identifier{cardKeywords: keywords, reference: reference}
}

type role int

const (
	roleNone role = iota
	roleDate
	roleDescription
	roleDebit
	roleCredit
	roleType
	roleCard
	roleCurrency
	roleLocation
)

// identifyGeneric runs the broad keyword pass. Identify takes only the
// type, card, currency and location columns from it.
func (id *Identifier) identifyGeneric(header []string) ColumnMap {
	m := NewColumnMap()
	claimed := make([]bool, len(header))

	for i, cell := range header {
		lower := strings.ToLower(strings.TrimSpace(cell))
		if lower == "" {
			continue
		}
		switch id.classify(lower) {
		case roleDate:
			m.Date = first(m.Date, i)
		case roleDescription:
			m.Description = first(m.Description, i)
		case roleDebit:
			m.Debit = append(m.Debit, i)
		case roleCredit:
			m.Credit = append(m.Credit, i)
		case roleType:
			m.TransactionType = append(m.TransactionType, i)
		case roleCard:
			m.CardName = append(m.CardName, i)
		case roleCurrency:
			m.Currency = first(m.Currency, i)
		case roleLocation:
			m.Location = first(m.Location, i)
		default:
			continue
		}
		claimed[i] = true
	}

	if m.Description == Unset {
		for i, cell := range header {
			if !claimed[i] && strings.Contains(strings.ToLower(cell), descriptionFallback) {
				m.Description = i
				break
			}
		}
	}
	return m
}

// Identify maps a column-header row to a ColumnMap. Date, debit and credit
// take the first cell matching their pattern; description takes the first
// matching cell not already claimed by those three. Type, card, currency and
// location come from the keyword pass over the remaining cells. bank selects
// additional header rules ("ICICI", "HDFC", ...) applied last; an unknown or
// empty bank adds none. Fields that cannot be located stay unset.
func (id *Identifier) Identify(header []string, bank string) ColumnMap {
	m := NewColumnMap()
	claimed := make([]bool, len(header))

	pick := func(re *regexp.Regexp) int {
		for i, cell := range header {
			if !claimed[i] && re.MatchString(cell) {
				claimed[i] = true
				return i
			}
		}
		return Unset
	}

	m.Date = pick(sectionDate)
	if i := pick(sectionDebit); i != Unset {
		m.Debit = []int{i}
	}
	if i := pick(sectionCredit); i != Unset {
		m.Credit = []int{i}
	}
	m.Description = pick(sectionDescription)

	generic := id.identifyGeneric(header)
	free := func(i int) bool { return i != Unset && !claimed[i] }
	for _, i := range generic.TransactionType {
		if free(i) {
			m.TransactionType = append(m.TransactionType, i)
		}
	}
	for _, i := range generic.CardName {
		if free(i) {
			m.CardName = append(m.CardName, i)
		}
	}
	if free(generic.Currency) {
		m.Currency = generic.Currency
	}
	if free(generic.Location) {
		m.Location = generic.Location
	}

	if id.reference != nil {
		applyBankRules(&m, header, store.BankRules(id.reference, bank))
	}
	return m
}

func (id *Identifier) classify(lower string) role {
	switch {
	case strings.Contains(lower, "date"):
		return roleDate
	case containsAny(lower, descriptionKeywords):
		return roleDescription
	case containsAny(lower, debitKeywords):
		return roleDebit
	case containsAny(lower, creditKeywords):
		return roleCredit
	case containsAny(lower, typeKeywords):
		return roleType
	case containsAny(lower, id.cardKeywords):
		return roleCard
	case containsAny(lower, currencyKeywords):
		return roleCurrency
	case containsAny(lower, locationKeywords):
		return roleLocation
	}
	return roleNone
}

var ruleRoles = map[string]role{
	store.RoleDate:        roleDate,
	store.RoleDescription: roleDescription,
	store.RoleDebit:       roleDebit,
	store.RoleCredit:      roleCredit,
}

// applyBankRules adds every cell matching a rule phrase to the rule's field.
// The cell then belongs to that field alone, so it is withdrawn from every
// other field. Single-index fields take the first matching cell.
func applyBankRules(m *ColumnMap, header []string, rules []models.HeaderRule) {
	for _, rule := range rules {
		phrase := strings.ToLower(strings.TrimSpace(rule.Phrase))
		target, ok := ruleRoles[strings.ToLower(rule.Role)]
		if phrase == "" || !ok {
			continue
		}
		for i, cell := range header {
			if !strings.Contains(strings.ToLower(cell), phrase) {
				continue
			}
			release(m, i, target)
			switch target {
			case roleDebit:
				m.Debit = appendUnique(m.Debit, i)
			case roleCredit:
				m.Credit = appendUnique(m.Credit, i)
			case roleDescription:
				m.Description = i
			case roleDate:
				m.Date = i
			}
			if target == roleDescription || target == roleDate {
				break
			}
		}
	}
}

// release removes column i from every field except keep.
func release(m *ColumnMap, i int, keep role) {
	if keep != roleDebit {
		m.Debit = without(m.Debit, i)
	}
	if keep != roleCredit {
		m.Credit = without(m.Credit, i)
	}
	m.TransactionType = without(m.TransactionType, i)
	m.CardName = without(m.CardName, i)
	if keep != roleDescription && m.Description == i {
		m.Description = Unset
	}
	if keep != roleDate && m.Date == i {
		m.Date = Unset
	}
	if m.Currency == i {
		m.Currency = Unset
	}
	if m.Location == i {
		m.Location = Unset
	}
}

func first(current, candidate int) int {
	if current == Unset {
		return candidate
	}
	return current
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func appendUnique(set []int, i int) []int {
	for _, v := range set {
		if v == i {
			return set
		}
	}
	return append(set, i)
}

func without(set []int, i int) []int {
	for k, v := range set {
		if v == i {
			return append(set[:k:k], set[k+1:]...)
		}
	}
	return set
}
