package mocks

import (
	"github.com/tasknest/tasknest-api/internal/service/auth"
)

// MockPasswordVerifier implements auth.PasswordVerifier for testing.
type MockPasswordVerifier struct {
	// CompareFn allows customizing Compare behavior
	CompareFn func(hashedPassword, password string) error

	// CompareError is returned by the default implementation when set
	CompareError error
}

// Ensure MockPasswordVerifier implements auth.PasswordVerifier
var _ auth.PasswordVerifier = (*MockPasswordVerifier)(nil)

// Compare implements the PasswordVerifier interface.
func (m *MockPasswordVerifier) Compare(hashedPassword, password string) error {
	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	return m.CompareError
}
