package inventory

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/cory-johannsen/pvptracker/internal/observability"
)

// ErrItemStatsNotFound may be returned by providers that prefer an error to
// a false found flag. The resolver treats it as a plain miss.
var ErrItemStatsNotFound = errors.New("item stats not found")

// Provider supplies live per-item bonus contributions.
//
// Implementations return (v, true, nil) on a hit and (zero, false, nil) on a miss.
// Thread-safety is the implementation's concern.
type Provider interface {
	Lookup(ctx context.Context, itemID int) (BonusVector, bool, error)
}

// MapProvider is an in-memory Provider.
type MapProvider map[int]BonusVector

// Lookup implements Provider.
func (m MapProvider) Lookup(_ context.Context, itemID int) (BonusVector, bool, error) {
	v, ok := m[itemID]
	return v, ok, nil
}

// Resolver aggregates equipped items into a BonusVector.
type Resolver struct {
	provider Provider
	static   *Catalog
	logger   *zap.Logger
}

// NewResolver creates a Resolver that consults provider first and the static
// override catalog second.
//
// Precondition: provider may be nil (static catalog only); logger may be nil.
func NewResolver(provider Provider, logger *zap.Logger) *Resolver {
	return &Resolver{provider: provider, static: StaticCatalog(), logger: observability.OrNop(logger)}
}

// Resolve sums the bonus contributions of every non-empty slot in equipment,
// seeded with BaselineBonuses.
//
// Unknown items contribute nothing; Resolve never fails. Slot values that do
// not encode an item (see DecodeSlot) are skipped and arrays of any length,
// including nil, are accepted.
//
// Postcondition: Resolve(nil) == BaselineBonuses().
func (r *Resolver) Resolve(ctx context.Context, equipment []int) BonusVector {
	total := BaselineBonuses()
	for slot, raw := range equipment {
		id, isItem := DecodeSlot(raw)
		if !isItem {
			continue
		}
		v, ok := r.lookup(ctx, id)
		if !ok {
			r.logger.Debug("item stats unavailable",
				zap.Int("slot", slot),
				zap.Int("item_id", id),
			)
			continue
		}
		total = total.Add(v)
	}
	return total
}

func (r *Resolver) lookup(ctx context.Context, id int) (BonusVector, bool) {
	if r.provider != nil {
		v, ok, err := r.provider.Lookup(ctx, id)
		switch {
		case err != nil && !errors.Is(err, ErrItemStatsNotFound):
			r.logger.Warn("item stats provider failed",
				zap.Int("item_id", id),
				zap.Error(err),
			)
		case ok:
			return v, true
		}
	}
	return r.static.Lookup(id)
}
