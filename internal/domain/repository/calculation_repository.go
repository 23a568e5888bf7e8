// Package repository defines storage contracts for the decay domain
package repository

import (
	"context"
	"errors"

	"github.com/damon-houk/emission-decay/internal/domain/entity"
)

// ErrNotFound is returned when a calculation does not exist
var ErrNotFound = errors.New("calculation not found")

// CalculationRepository defines the interface for calculation storage
type CalculationRepository interface {
	// Store saves a calculation and returns its ID
	Store(ctx context.Context, calc *entity.Calculation) (string, error)

	// FindByID retrieves a calculation by its unique identifier
	FindByID(ctx context.Context, id string) (*entity.Calculation, error)

	// List returns every stored calculation ordered by creation time
	List(ctx context.Context) ([]*entity.Calculation, error)
}

// QuoteCache memoises quotes keyed by their inputs
type QuoteCache interface {
	Get(ctx context.Context, key string) (*entity.Quote, bool)
	Put(ctx context.Context, key string, quote *entity.Quote) error
}
