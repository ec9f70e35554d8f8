package iocache

import (
	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/schema"
	"github.com/stretchr/testify/mock"
)

// MockProgressStore is a mock implementation of ProgressStore for testing.
type MockProgressStore struct {
	mock.Mock
}

var _ contract.ProgressStore = &MockProgressStore{} // Compile-time check

// Get implements the ProgressStore interface.
func (m *MockProgressStore) Get(key string) (string, error) {
	args := m.Called(key)
	return args.String(0), args.Error(1)
}

// Set implements the ProgressStore interface.
func (m *MockProgressStore) Set(key, value string) error {
	args := m.Called(key, value)
	return args.Error(0)
}

// Has implements the ProgressStore interface.
func (m *MockProgressStore) Has(key string) (bool, error) {
	args := m.Called(key)
	return args.Bool(0), args.Error(1)
}

// Keys implements the ProgressStore interface.
func (m *MockProgressStore) Keys(prefix string) ([]string, error) {
	args := m.Called(prefix)
	keys, _ := args.Get(0).([]string)
	return keys, args.Error(1)
}

// Reset implements the ProgressStore interface.
func (m *MockProgressStore) Reset() error {
	args := m.Called()
	return args.Error(0)
}

// GetStatus implements the ProgressStore interface.
func (m *MockProgressStore) GetStatus() (schema.ProgressStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.ProgressStatus), args.Error(1)
}

// Close implements the ProgressStore interface.
func (m *MockProgressStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
