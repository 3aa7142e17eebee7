package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/pvptracker/internal/game/inventory"
	pgstore "github.com/cory-johannsen/pvptracker/internal/storage/postgres"
	"github.com/cory-johannsen/pvptracker/internal/testutil"
)

func newRepo(t *testing.T) *pgstore.ItemStatsRepository {
	t.Helper()
	testutil.SkipWithoutContainers(t)
	pc := testutil.NewPostgresContainer(t)
	pc.ApplyMigrations(t)
	return pgstore.NewItemStatsRepository(pc.Pool)
}

func whip() *inventory.ItemStats {
	return &inventory.ItemStats{
		ID:      4151,
		Name:    "Abyssal whip",
		Bonuses: []int{0, 82, 0, 0, 0, 0, 0, 0, 0, 0, 82, 0, 0, 0},
	}
}

func TestItemStatsRepository(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	t.Run("lookup miss", func(t *testing.T) {
		v, ok, err := repo.Lookup(ctx, 4151)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, inventory.BonusVector{}, v)

		_, err = repo.Get(ctx, 4151)
		assert.ErrorIs(t, err, inventory.ErrItemStatsNotFound)
	})

	t.Run("upsert then lookup", func(t *testing.T) {
		n, err := repo.UpsertAll(ctx, []*inventory.ItemStats{whip()})
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		v, ok, err := repo.Lookup(ctx, 4151)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, 82, v[inventory.SlashAttack])
		assert.Equal(t, 82, v[inventory.StrengthBonus])
	})

	t.Run("upsert replaces", func(t *testing.T) {
		w := whip()
		w.Name = "Abyssal whip (lms)"
		w.Bonuses[inventory.StrengthBonus] = 70
		_, err := repo.UpsertAll(ctx, []*inventory.ItemStats{w})
		require.NoError(t, err)

		got, err := repo.Get(ctx, 4151)
		require.NoError(t, err)
		assert.Equal(t, "Abyssal whip (lms)", got.Name)
		assert.Equal(t, 70, got.Bonuses[inventory.StrengthBonus])

		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("invalid entry writes nothing", func(t *testing.T) {
		bad := &inventory.ItemStats{ID: 9999, Name: "short", Bonuses: []int{1, 2}}
		_, err := repo.UpsertAll(ctx, []*inventory.ItemStats{whip(), bad})
		assert.Error(t, err)

		_, err = repo.Get(ctx, 9999)
		assert.ErrorIs(t, err, inventory.ErrItemStatsNotFound)
	})

	t.Run("resolver prefers live stats", func(t *testing.T) {
		r := inventory.NewResolver(repo, nil)
		got := r.Resolve(ctx, []int{4151 + inventory.ItemOffset})
		assert.Equal(t, inventory.BaselineStrength+70, got[inventory.StrengthBonus])
	})
}
