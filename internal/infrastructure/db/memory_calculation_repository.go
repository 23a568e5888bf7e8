package db

import (
	"context"
	"fmt"
	"sync"

	"github.com/damon-houk/emission-decay/internal/domain/entity"
	"github.com/damon-houk/emission-decay/internal/domain/repository"
)

// MemoryCalculationRepository keeps calculations in process memory.
// It is used when no storage path is configured.
type MemoryCalculationRepository struct {
	mu    sync.RWMutex
	calcs map[string]entity.Calculation
}

// NewMemoryCalculationRepository creates an empty in-memory repository
func NewMemoryCalculationRepository() *MemoryCalculationRepository {
	return &MemoryCalculationRepository{calcs: make(map[string]entity.Calculation)}
}

// Store saves a copy of calc under its ID, replacing any earlier entry
func (r *MemoryCalculationRepository) Store(ctx context.Context, calc *entity.Calculation) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calcs[calc.ID] = *calc
	return calc.ID, nil
}

// FindByID returns a copy of the calculation with the given ID
func (r *MemoryCalculationRepository) FindByID(ctx context.Context, id string) (*entity.Calculation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	calc, ok := r.calcs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", repository.ErrNotFound, id)
	}
	return &calc, nil
}

// List returns every stored calculation, oldest first
func (r *MemoryCalculationRepository) List(ctx context.Context) ([]*entity.Calculation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	calcs := make([]*entity.Calculation, 0, len(r.calcs))
	for _, c := range r.calcs {
		c := c
		calcs = append(calcs, &c)
	}

	sortByCreatedAt(calcs)
	return calcs, nil
}
