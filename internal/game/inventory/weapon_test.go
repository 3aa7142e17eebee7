package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/pvptracker/internal/game/inventory"
)

func TestWeaponProfiles_AllValid(t *testing.T) {
	profiles := inventory.WeaponProfiles()
	require.NotEmpty(t, profiles)
	seen := make(map[int]bool)
	for _, p := range profiles {
		assert.NoError(t, p.Validate(), p.Name)
		assert.False(t, seen[p.ID], "duplicate id %d", p.ID)
		seen[p.ID] = true
		assert.True(t, p.HasSpecialRule(), "%s has no special rule", p.Name)
	}
}

func TestLookupWeapon_TakesCanonicalID(t *testing.T) {
	p := inventory.LookupWeapon(1215)
	assert.Equal(t, 1215, p.ID)
	assert.Equal(t, inventory.RuleDamageAmplifier, p.Rule)

	assert.Equal(t, inventory.UnarmedProfile, inventory.LookupWeapon(1215+inventory.ItemOffset))
}

func TestLookupWeapon_EveryProfileReachable(t *testing.T) {
	for _, p := range inventory.WeaponProfiles() {
		assert.Equal(t, p, inventory.LookupWeapon(p.ID), p.Name)
		id, ok := inventory.DecodeSlot(p.ID + inventory.ItemOffset)
		require.True(t, ok)
		assert.Equal(t, p, inventory.LookupWeapon(id), p.Name)
	}
}

func TestWeaponProfile_MinHitRoundsFractionDown(t *testing.T) {
	assert.Equal(t, 9.0, inventory.LookupWeapon(22613).MinHit(48))
	assert.Equal(t, 12.0, inventory.LookupWeapon(22622).MinHit(50))
	assert.Equal(t, 16.0, inventory.LookupWeapon(11235).MinHit(49))
}

func TestLookupWeapon_UnknownIsUnarmed(t *testing.T) {
	assert.Equal(t, inventory.UnarmedProfile, inventory.LookupWeapon(4151))
	assert.Equal(t, inventory.UnarmedProfile, inventory.LookupWeapon(0))
	assert.Equal(t, inventory.UnarmedProfile, inventory.LookupWeapon(-3))
}

func TestWeaponProfile_Rules(t *testing.T) {
	cases := map[int]inventory.SpecialRule{
		1215:  inventory.RuleDamageAmplifier,
		5698:  inventory.RuleDamageAmplifier,
		11802: inventory.RuleDamageAmplifier,
		20368: inventory.RuleDamageAmplifier,
		22613: inventory.RuleMinimumHit,
		22622: inventory.RuleMinimumHit,
		11235: inventory.RuleMinimumHit,
		13652: inventory.RuleMultiHit,
		11785: inventory.RuleAccuracyOnly,
		19481: inventory.RuleDamageAmplifier,
		19478: inventory.RuleDamageAmplifier,
	}
	for id, rule := range cases {
		assert.Equal(t, rule, inventory.LookupWeapon(id).Rule, "weapon %d", id)
	}
}

func TestWeaponProfile_DragonDagger(t *testing.T) {
	p := inventory.LookupWeapon(1215)
	assert.Equal(t, 1.0, p.DamageAmplifier(false))
	assert.Equal(t, 2.3, p.DamageAmplifier(true))
	assert.Equal(t, 1.0, p.AccuracyMultiplier(false))
	assert.Equal(t, 1.25, p.AccuracyMultiplier(true))
	assert.Equal(t, 1.0, p.FinalModifier(true))
}

func TestWeaponProfile_DarkBowAppliesBaseAmplifierOutsideSpecial(t *testing.T) {
	p := inventory.LookupWeapon(11235)
	assert.Equal(t, 2.0, p.DamageAmplifier(false))
	assert.Equal(t, 3.0, p.DamageAmplifier(true))
	assert.Equal(t, 16.0, p.MinHit(85))
	assert.True(t, p.MinHitScalesWithAccuracy)
}

func TestWeaponProfile_VestaOverridesDefence(t *testing.T) {
	p := inventory.LookupWeapon(22613)
	assert.True(t, p.OverridesDefence(true))
	assert.False(t, p.OverridesDefence(false))
	assert.Equal(t, inventory.StabAttack, p.SpecDefenceStyle)
	assert.InDelta(t, 10.0, p.MinHit(50), 1e-9)
	assert.False(t, inventory.LookupWeapon(22622).OverridesDefence(true))
}

func TestWeaponProfile_Validate_Rejects(t *testing.T) {
	p := inventory.UnarmedProfile
	p.Name = ""
	assert.Error(t, p.Validate())

	p = inventory.UnarmedProfile
	p.SpecDamageAmplifier = 0
	assert.Error(t, p.Validate())

	p = inventory.UnarmedProfile
	p.Rule = inventory.RuleMinimumHit
	assert.Error(t, p.Validate())

	p = inventory.UnarmedProfile
	p.SpecDefenceStyle = inventory.StrengthBonus
	assert.Error(t, p.Validate())
}

func TestSpecialRule_String(t *testing.T) {
	assert.Equal(t, "minimum_hit", inventory.RuleMinimumHit.String())
	assert.Equal(t, "SpecialRule(42)", inventory.SpecialRule(42).String())
}

func TestPropertyUnarmedProfile_SpecialIsNeutral(t *testing.T) {
	p := inventory.UnarmedProfile
	rapid.Check(t, func(t *rapid.T) {
		special := rapid.Bool().Draw(t, "special")
		if p.DamageAmplifier(special) != 1 || p.AccuracyMultiplier(special) != 1 || p.FinalModifier(special) != 1 {
			t.Fatalf("unarmed profile altered math with special=%v", special)
		}
		if p.OverridesDefence(special) {
			t.Fatal("unarmed profile must not override defence")
		}
	})
}
