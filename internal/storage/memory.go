package storage

import (
	"context"
	"sync"

	"github.com/rohmanhakim/geo-analyzer/internal/report"
	"github.com/rohmanhakim/geo-analyzer/pkg/failure"
)

// MemoryStore is an in-memory ResultStore guarded by an RWMutex.
// Results live only as long as the process.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]report.AnalysisResult
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]report.AnalysisResult),
	}
}

func (m *MemoryStore) Lookup(ctx context.Context, key string) (report.AnalysisResult, bool, failure.ClassifiedError) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result, ok := m.data[key]
	return result, ok, nil
}

// Store overwrites any previous result under the same normalized URL.
func (m *MemoryStore) Store(ctx context.Context, result report.AnalysisResult) failure.ClassifiedError {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[result.NormalizedURL()] = result
	return nil
}

// Size returns the number of stored results.
func (m *MemoryStore) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.data)
}
