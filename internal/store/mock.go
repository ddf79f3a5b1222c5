package store

import (
	"fjacquet/statement-csv/internal/models"
)

// MockReferenceStore is a ReferenceLoader for tests.
type MockReferenceStore struct {
	Reference *models.Reference
	LoadError error
}

// Load returns the configured reference, or the embedded data when none is
// set.
func (m *MockReferenceStore) Load() (*models.Reference, error) {
	if m.LoadError != nil {
		return nil, m.LoadError
	}
	if m.Reference == nil {
		return Default()
	}
	return m.Reference, nil
}
