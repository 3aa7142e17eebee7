package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/pvptracker/internal/config"
	"github.com/cory-johannsen/pvptracker/internal/game/combat"
	"github.com/cory-johannsen/pvptracker/internal/game/inventory"
)

func TestParseEquipment(t *testing.T) {
	ids, err := parseEquipment("")
	require.NoError(t, err)
	assert.Nil(t, ids)

	ids, err = parseEquipment(" 10828, ,6570,1727 ,0,-1")
	require.NoError(t, err)
	assert.Equal(t, []int{10828, 0, 6570, 1727, 0, -1}, ids)

	_, err = parseEquipment("1,whip")
	assert.Error(t, err)
}

func TestBuildProvider_StaticSource(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	provider, closeFn, err := buildProvider(context.Background(), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer closeFn()
	assert.Nil(t, provider)

	cfg.ItemStats.Cache = true
	provider, closeFn2, err := buildProvider(context.Background(), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer closeFn2()
	assert.Nil(t, provider)
}

func TestBuildEstimator_RejectsInvalidRuleset(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	e, err := buildEstimator(cfg.Ruleset, nil, zaptest.NewLogger(t))
	require.NoError(t, err)
	b, ok := e.EstimateAnimation(context.Background(), []int{0, 0, 0, 1215 + inventory.ItemOffset}, nil, 1062, true)
	require.True(t, ok)
	assert.Equal(t, inventory.RuleDamageAmplifier, b.Rule)

	cfg.Ruleset.PietyStrength = 0
	_, err = buildEstimator(cfg.Ruleset, nil, zaptest.NewLogger(t))
	assert.Error(t, err)
}

func TestFormatBreakdown(t *testing.T) {
	out := formatBreakdown(combat.Breakdown{Style: combat.SpecialStab, UsingSpecial: true, WeaponID: 1215, MaxHit: 80, Accuracy: 0.5, AverageHit: 20})
	assert.Contains(t, out, "style:       special_stab")
	assert.Contains(t, out, "Dragon dagger")
	assert.Contains(t, out, "max hit:     80")
	assert.Contains(t, out, "accuracy:    0.5000")
}
