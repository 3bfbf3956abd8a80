package content

import (
	"context"
	"fmt"
	"sync"

	apperrors "github.com/openlens/trustfeed/internal/errors"
)

// MockService is an in-memory content service for tests.
type MockService struct {
	mu      sync.RWMutex
	records map[string]*Record
	errs    map[string]error
	fetches map[string]int
}

// NewMockService creates an empty mock.
func NewMockService() *MockService {
	return &MockService{
		records: map[string]*Record{},
		errs:    map[string]error{},
		fetches: map[string]int{},
	}
}

// Put registers a record under its cid.
func (m *MockService) Put(record *Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[record.Cid] = record
}

// Fail makes future fetches of cid return err.
func (m *MockService) Fail(cid string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[cid] = err
}

// FetchCount returns how many times cid was fetched.
func (m *MockService) FetchCount(cid string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fetches[cid]
}

// Fetch implements Service.
func (m *MockService) Fetch(_ context.Context, cid string) (*Record, error) {
	if err := ValidateCid(cid); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetches[cid]++
	if err, ok := m.errs[cid]; ok {
		return nil, err
	}
	record, ok := m.records[cid]
	if !ok {
		return nil, apperrors.FetchError(fmt.Sprintf("record %s not found", cid), nil)
	}
	return record, nil
}
