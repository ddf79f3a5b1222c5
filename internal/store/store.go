// Package store loads the reference data used by the normalization pipeline:
// known cities, currency keywords and bank-specific header rules.
package store

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/statement-csv/internal/logging"
	"fjacquet/statement-csv/internal/models"

	"gopkg.in/yaml.v3"
)

//go:embed reference.yaml
var embeddedReference []byte

// ReferenceLoader is implemented by anything that can supply reference data.
type ReferenceLoader interface {
	Load() (*models.Reference, error)
}

// ReferenceStore reads reference data from the embedded defaults, optionally
// overridden section by section by a YAML file.
type ReferenceStore struct {
	File   string
	logger logging.Logger
}

// NewReferenceStore creates a store. An empty file means embedded data only.
func NewReferenceStore(file string, logger logging.Logger) *ReferenceStore {
	if logger == nil {
		logger = logging.Default()
	}
	return &ReferenceStore{File: file, logger: logger}
}

// Default parses the embedded reference data.
func Default() (*models.Reference, error) {
	ref, err := parseReference(embeddedReference)
	if err != nil {
		return nil, fmt.Errorf("error parsing embedded reference data: %w", err)
	}
	return ref, nil
}

// MustDefault is Default for package initialization and tests. The embedded
// file is part of the binary, so a failure here is a build defect.
func MustDefault() *models.Reference {
	ref, err := Default()
	if err != nil {
		panic(err)
	}
	return ref
}

// FindConfigFile looks for filename as given, then under ./config and
// finally under the user's ~/.config/statement-csv directory.
func (s *ReferenceStore) FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(homeDir, ".config", "statement-csv", filename))
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}
	return "", os.ErrNotExist
}

// Load returns the embedded reference data with any section defined in the
// configured file replacing its embedded counterpart. A configured file that
// cannot be found is an error: silently ignoring it would hide typos.
func (s *ReferenceStore) Load() (*models.Reference, error) {
	ref, err := Default()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(s.File) == "" {
		s.logger.Debug("Using embedded reference data",
			logging.F(logging.FieldCount, len(ref.Cities)))
		return ref, nil
	}

	path, err := s.FindConfigFile(s.File)
	if err != nil {
		return nil, fmt.Errorf("reference file not found: %s: %w", s.File, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading reference file: %w", err)
	}

	override, err := parseReference(data)
	if err != nil {
		return nil, fmt.Errorf("error parsing reference file %s: %w", path, err)
	}

	merged := Merge(ref, override)
	s.logger.Info("Loaded reference data",
		logging.F(logging.FieldFile, path),
		logging.F(logging.FieldCount, len(merged.Cities)))
	return merged, nil
}

// Merge overlays the non-empty sections of override onto base. Neither
// argument is modified.
func Merge(base, override *models.Reference) *models.Reference {
	out := *base
	if override == nil {
		return &out
	}
	if len(override.Currencies) > 0 {
		out.Currencies = override.Currencies
	}
	if override.DefaultForeign != "" {
		out.DefaultForeign = override.DefaultForeign
	}
	if len(override.Cities) > 0 {
		out.Cities = override.Cities
	}
	if len(override.Banks) > 0 {
		out.Banks = override.Banks
	}
	return &out
}

// BankRules returns the header rules registered for bank, matched
// case-insensitively, or nil.
func BankRules(ref *models.Reference, bank string) []models.HeaderRule {
	if ref == nil || bank == "" {
		return nil
	}
	for _, b := range ref.Banks {
		if strings.EqualFold(b.Bank, bank) {
			return b.Rules
		}
	}
	return nil
}

func parseReference(data []byte) (*models.Reference, error) {
	var ref models.Reference
	if err := yaml.Unmarshal(data, &ref); err != nil {
		return nil, err
	}
	if err := validate(&ref); err != nil {
		return nil, err
	}
	return &ref, nil
}

var knownRoles = map[string]bool{
	RoleDate:        true,
	RoleDescription: true,
	RoleDebit:       true,
	RoleCredit:      true,
}

// Header rule roles.
const (
	RoleDate        = "date"
	RoleDescription = "description"
	RoleDebit       = "debit"
	RoleCredit      = "credit"
)

func validate(ref *models.Reference) error {
	for _, rule := range ref.Currencies {
		if !isKnownCurrency(rule.Currency) {
			return fmt.Errorf("unknown currency %q in currency rules", rule.Currency)
		}
	}
	if ref.DefaultForeign != "" && !isKnownCurrency(ref.DefaultForeign) {
		return fmt.Errorf("unknown default foreign currency %q", ref.DefaultForeign)
	}
	for _, bank := range ref.Banks {
		if strings.TrimSpace(bank.Bank) == "" {
			return fmt.Errorf("bank profile without a name")
		}
		for _, rule := range bank.Rules {
			if strings.TrimSpace(rule.Phrase) == "" {
				return fmt.Errorf("bank %s: empty header phrase", bank.Bank)
			}
			if !knownRoles[strings.ToLower(rule.Role)] {
				return fmt.Errorf("bank %s: unknown role %q", bank.Bank, rule.Role)
			}
		}
	}
	return nil
}

func isKnownCurrency(c models.Currency) bool {
	for _, known := range models.KnownCurrencies {
		if c == known {
			return true
		}
	}
	return false
}
