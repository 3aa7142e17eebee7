package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/pvptracker/internal/game/inventory"
)

// ItemStatsRepository reads and writes the item_stats table. It implements
// inventory.Provider.
type ItemStatsRepository struct {
	db *pgxpool.Pool
}

// NewItemStatsRepository creates an ItemStatsRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewItemStatsRepository(db *pgxpool.Pool) *ItemStatsRepository {
	return &ItemStatsRepository{db: db}
}

// Get returns the stored entry for a canonical item id.
//
// Postcondition: Returns inventory.ErrItemStatsNotFound when no row exists.
func (r *ItemStatsRepository) Get(ctx context.Context, itemID int) (*inventory.ItemStats, error) {
	var (
		name    string
		bonuses []int32
	)
	err := r.db.QueryRow(ctx,
		`SELECT name, bonuses FROM item_stats WHERE item_id = $1`, itemID,
	).Scan(&name, &bonuses)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, inventory.ErrItemStatsNotFound
		}
		return nil, fmt.Errorf("querying item stats %d: %w", itemID, err)
	}

	s := &inventory.ItemStats{ID: itemID, Name: name, Bonuses: make([]int, len(bonuses))}
	for i, b := range bonuses {
		s.Bonuses[i] = int(b)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("item stats %d: %w", itemID, err)
	}
	return s, nil
}

// Lookup implements inventory.Provider.
func (r *ItemStatsRepository) Lookup(ctx context.Context, itemID int) (inventory.BonusVector, bool, error) {
	s, err := r.Get(ctx, itemID)
	if err != nil {
		if errors.Is(err, inventory.ErrItemStatsNotFound) {
			return inventory.BonusVector{}, false, nil
		}
		return inventory.BonusVector{}, false, err
	}
	return s.Vector(), true, nil
}

// UpsertAll inserts or replaces every entry in one transaction.
//
// Precondition: every entry passes Validate.
// Postcondition: Returns the number of rows written, or an error with nothing written.
func (r *ItemStatsRepository) UpsertAll(ctx context.Context, items []*inventory.ItemStats) (int, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	batch := &pgx.Batch{}
	for _, s := range items {
		if err := s.Validate(); err != nil {
			return 0, fmt.Errorf("item stats %d: %w", s.ID, err)
		}
		batch.Queue(`
			INSERT INTO item_stats (item_id, name, bonuses, updated_at)
			VALUES ($1, $2, $3, NOW())
			ON CONFLICT (item_id) DO UPDATE
			SET name = EXCLUDED.name, bonuses = EXCLUDED.bonuses, updated_at = NOW()`,
			s.ID, s.Name, toInt32s(s.Bonuses),
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return 0, fmt.Errorf("upserting item stats: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing item stats: %w", err)
	}
	return len(items), nil
}

// Count returns the number of stored entries.
func (r *ItemStatsRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM item_stats`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting item stats: %w", err)
	}
	return n, nil
}

func toInt32s(in []int) []int32 {
	out := make([]int32, len(in))
	for i, v := range in {
		out[i] = int32(v)
	}
	return out
}
