package inventory

import (
	"errors"
	"fmt"
	"math"
)

// SpecialRule selects how a weapon's special attack alters the damage math.
type SpecialRule int

const (
	// RuleNone marks weapons whose special attack is modelled as a regular attack.
	RuleNone SpecialRule = iota
	// RuleDamageAmplifier scales max hit (and possibly accuracy) under special.
	RuleDamageAmplifier
	// RuleMinimumHit clamps low rolls up to a weapon-defined floor under special.
	RuleMinimumHit
	// RuleMultiHit replaces the average hit with a cascading multi-hit expectation.
	RuleMultiHit
	// RuleAccuracyOnly scales accuracy only.
	RuleAccuracyOnly
)

// String returns the lower-case rule name.
func (r SpecialRule) String() string {
	switch r {
	case RuleNone:
		return "none"
	case RuleDamageAmplifier:
		return "damage_amplifier"
	case RuleMinimumHit:
		return "minimum_hit"
	case RuleMultiHit:
		return "multi_hit"
	case RuleAccuracyOnly:
		return "accuracy_only"
	default:
		return fmt.Sprintf("SpecialRule(%d)", int(r))
	}
}

// WeaponProfile holds the per-weapon constants consumed by the calculator.
// Multipliers equal to 1 have no effect.
type WeaponProfile struct {
	ID   int
	Name string
	Rule SpecialRule

	// BaseDamageAmplifier scales max hit on every attack.
	BaseDamageAmplifier float64
	// SpecDamageAmplifier replaces BaseDamageAmplifier under special.
	SpecDamageAmplifier float64
	// SpecAccuracyMultiplier scales the attacker roll under special.
	SpecAccuracyMultiplier float64
	// SpecFinalModifier scales the default average hit under special.
	SpecFinalModifier float64

	// MinHitFlat and the whole-hit part of MinHitFraction (of max hit) add up
	// to the minimum-hit floor.
	MinHitFlat     float64
	MinHitFraction float64
	// MinHitScalesWithAccuracy divides the floor by the hit chance.
	MinHitScalesWithAccuracy bool

	// SpecDefenceStyle, when >= 0, is the attack index whose defence the
	// target rolls under special, scaled by SpecDefenceScale.
	SpecDefenceStyle int
	SpecDefenceScale float64
}

// HasSpecialRule reports whether the profile alters special-attack math.
func (p WeaponProfile) HasSpecialRule() bool {
	return p.Rule != RuleNone
}

// DamageAmplifier returns the max-hit amplifier for a regular or special attack.
func (p WeaponProfile) DamageAmplifier(usingSpecial bool) float64 {
	if usingSpecial && p.Rule != RuleNone {
		return p.SpecDamageAmplifier
	}
	return p.BaseDamageAmplifier
}

// AccuracyMultiplier returns the attacker-roll multiplier.
func (p WeaponProfile) AccuracyMultiplier(usingSpecial bool) float64 {
	if usingSpecial && p.Rule != RuleNone {
		return p.SpecAccuracyMultiplier
	}
	return 1
}

// FinalModifier returns the average-hit modifier of the default branch.
func (p WeaponProfile) FinalModifier(usingSpecial bool) float64 {
	if usingSpecial && p.Rule != RuleNone {
		return p.SpecFinalModifier
	}
	return 1
}

// MinHit returns the minimum-hit floor for maxHit. The fractional part is
// rounded down to a whole hit.
func (p WeaponProfile) MinHit(maxHit int) float64 {
	return p.MinHitFlat + math.Floor(p.MinHitFraction*float64(maxHit))
}

// OverridesDefence reports whether the target defends with SpecDefenceStyle.
func (p WeaponProfile) OverridesDefence(usingSpecial bool) bool {
	return usingSpecial && p.Rule != RuleNone && p.SpecDefenceStyle >= 0
}

// Validate checks that the WeaponProfile satisfies its invariants.
//
// Postcondition: returns nil iff all multipliers are positive and rule-specific fields are consistent.
func (p *WeaponProfile) Validate() error {
	var errs []error
	if p.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	if p.BaseDamageAmplifier <= 0 || p.SpecDamageAmplifier <= 0 {
		errs = append(errs, errors.New("damage amplifiers must be > 0"))
	}
	if p.SpecAccuracyMultiplier <= 0 || p.SpecFinalModifier <= 0 {
		errs = append(errs, errors.New("accuracy and final modifiers must be > 0"))
	}
	if p.Rule == RuleMinimumHit && p.MinHitFlat <= 0 && p.MinHitFraction <= 0 {
		errs = append(errs, errors.New("minimum-hit weapon must define a floor"))
	}
	if p.SpecDefenceStyle > RangedAttack {
		errs = append(errs, fmt.Errorf("SpecDefenceStyle out of range: %d", p.SpecDefenceStyle))
	}
	if p.SpecDefenceStyle >= 0 && p.SpecDefenceScale <= 0 {
		errs = append(errs, errors.New("SpecDefenceScale must be > 0 when SpecDefenceStyle is set"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("weapon profile %d validation failed: %v", p.ID, errs)
	}
	return nil
}

// UnarmedProfile is the profile of any weapon without catalog entry.
var UnarmedProfile = newProfile(0, "Unarmed", RuleNone)

func newProfile(id int, name string, rule SpecialRule) WeaponProfile {
	return WeaponProfile{
		ID:                     id,
		Name:                   name,
		Rule:                   rule,
		BaseDamageAmplifier:    1,
		SpecDamageAmplifier:    1,
		SpecAccuracyMultiplier: 1,
		SpecFinalModifier:      1,
		SpecDefenceStyle:       -1,
		SpecDefenceScale:       1,
	}
}

func dragonDagger(id int, name string) WeaponProfile {
	p := newProfile(id, name, RuleDamageAmplifier)
	p.SpecDamageAmplifier = 2.3
	p.SpecAccuracyMultiplier = 1.25
	return p
}

func armadylGodsword(id int, name string) WeaponProfile {
	p := newProfile(id, name, RuleDamageAmplifier)
	p.SpecDamageAmplifier = 1.1
	p.SpecAccuracyMultiplier = 2
	p.SpecFinalModifier = 1.25
	return p
}

func ballista(id int, name string) WeaponProfile {
	p := newProfile(id, name, RuleDamageAmplifier)
	p.SpecDamageAmplifier = 1.25
	p.SpecAccuracyMultiplier = 1.25
	return p
}

func weaponProfiles() []WeaponProfile {
	vls := newProfile(22613, "Vesta's longsword", RuleMinimumHit)
	vls.SpecDamageAmplifier = 1.2
	vls.MinHitFraction = 0.2
	vls.SpecDefenceStyle = StabAttack
	vls.SpecDefenceScale = 0.25

	swh := newProfile(22622, "Statius's warhammer", RuleMinimumHit)
	swh.SpecDamageAmplifier = 1.25
	swh.MinHitFraction = 0.25

	dbow := newProfile(11235, "Dark bow", RuleMinimumHit)
	dbow.BaseDamageAmplifier = 2
	dbow.SpecDamageAmplifier = 3
	dbow.MinHitFlat = 16
	dbow.MinHitScalesWithAccuracy = true

	claws := newProfile(13652, "Dragon claws", RuleMultiHit)

	acb := newProfile(11785, "Armadyl crossbow", RuleAccuracyOnly)
	acb.SpecAccuracyMultiplier = 2

	return []WeaponProfile{
		dragonDagger(1215, "Dragon dagger"),
		dragonDagger(1231, "Dragon dagger(p)"),
		dragonDagger(5680, "Dragon dagger(p+)"),
		dragonDagger(5698, "Dragon dagger(p++)"),
		armadylGodsword(11802, "Armadyl godsword"),
		armadylGodsword(20368, "Armadyl godsword (or)"),
		vls,
		swh,
		dbow,
		claws,
		acb,
		ballista(19481, "Heavy ballista"),
		ballista(19478, "Light ballista"),
	}
}

var weaponCatalog = buildWeaponCatalog(weaponProfiles())

func buildWeaponCatalog(profiles []WeaponProfile) map[int]WeaponProfile {
	m := make(map[int]WeaponProfile, len(profiles))
	for _, p := range profiles {
		if err := p.Validate(); err != nil {
			panic(err)
		}
		if _, exists := m[p.ID]; exists {
			panic(fmt.Sprintf("inventory: weapon id %d registered twice", p.ID))
		}
		m[p.ID] = p
	}
	return m
}

// LookupWeapon returns the profile of a canonical item id (see DecodeSlot).
// Unknown weapons resolve to UnarmedProfile.
func LookupWeapon(id int) WeaponProfile {
	if p, ok := weaponCatalog[id]; ok {
		return p
	}
	return UnarmedProfile
}

// WeaponProfiles returns a copy of every catalog entry.
func WeaponProfiles() []WeaponProfile {
	out := make([]WeaponProfile, 0, len(weaponCatalog))
	for _, p := range weaponCatalog {
		out = append(out, p)
	}
	return out
}
