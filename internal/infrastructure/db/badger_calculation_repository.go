package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/damon-houk/emission-decay/internal/domain/entity"
	"github.com/damon-houk/emission-decay/internal/domain/repository"
	"github.com/dgraph-io/badger/v3"
)

const calculationPrefix = "calc:"

// BadgerCalculationRepository implements the calculation repository interface using BadgerDB
type BadgerCalculationRepository struct {
	db *badger.DB
}

// NewBadgerCalculationRepository creates a new BadgerDB calculation repository
func NewBadgerCalculationRepository(db *badger.DB) *BadgerCalculationRepository {
	return &BadgerCalculationRepository{db: db}
}

// OpenBadger opens a badger database at path with badger's own logging disabled
func OpenBadger(path string, syncWrites bool) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil).WithSyncWrites(syncWrites)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger at %s: %w", path, err)
	}
	return db, nil
}

// Store saves a calculation and returns its ID
func (r *BadgerCalculationRepository) Store(ctx context.Context, calc *entity.Calculation) (string, error) {
	data, err := json.Marshal(calc)
	if err != nil {
		return "", fmt.Errorf("failed to marshal calculation: %w", err)
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(calculationPrefix+calc.ID), data)
	})
	if err != nil {
		return "", fmt.Errorf("failed to store calculation: %w", err)
	}

	return calc.ID, nil
}

// FindByID retrieves a calculation by its unique identifier
func (r *BadgerCalculationRepository) FindByID(ctx context.Context, id string) (*entity.Calculation, error) {
	var calc entity.Calculation

	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(calculationPrefix + id))
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &calc)
		})
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", repository.ErrNotFound, id)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to retrieve calculation: %w", err)
	}

	return &calc, nil
}

// List returns every stored calculation ordered by creation time
func (r *BadgerCalculationRepository) List(ctx context.Context) ([]*entity.Calculation, error) {
	calcs := make([]*entity.Calculation, 0)

	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(calculationPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var calc entity.Calculation
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &calc)
			})
			if err != nil {
				return err
			}
			calcs = append(calcs, &calc)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list calculations: %w", err)
	}

	sortByCreatedAt(calcs)
	return calcs, nil
}

func sortByCreatedAt(calcs []*entity.Calculation) {
	sort.SliceStable(calcs, func(i, j int) bool {
		return calcs[i].CreatedAt.Before(calcs[j].CreatedAt)
	})
}
