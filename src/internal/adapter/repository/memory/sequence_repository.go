package memory

import (
	"context"
	"sync"

	"github.com/SrCloock/Asientos-Contables-ADIS-sub000/src/internal/domain"
)

// SequenceRepository is a mutex-serialized in-process counter per scope.
// Used by tests and by the memory storage driver.
type SequenceRepository struct {
	mu       sync.Mutex
	counters map[domain.SequenceScope]int64
}

func NewSequenceRepository() *SequenceRepository {
	return &SequenceRepository{counters: make(map[domain.SequenceScope]int64)}
}

func (r *SequenceRepository) Next(_ context.Context, scope domain.SequenceScope) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.counters[scope]++
	return r.counters[scope], nil
}

func (r *SequenceRepository) Peek(_ context.Context, scope domain.SequenceScope) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.counters[scope] + 1, nil
}
