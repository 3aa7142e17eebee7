package combat

import (
	"errors"
	"fmt"
	"math"

	"github.com/cory-johannsen/pvptracker/internal/config"
)

const (
	// levelBonus is added to every effective level.
	levelBonus = 8
	// aggressiveStanceBonus is the extra strength granted by the assumed stance.
	aggressiveStanceBonus = 3
)

// Ruleset is the fixed competitive setup assumed for both combatants:
// boosted levels, active prayers, and the ammunition every ranged attack uses.
type Ruleset struct {
	AttackLevel   int
	StrengthLevel int
	DefenceLevel  int
	RangedLevel   int
	MagicLevel    int

	PietyAttack    float64
	PietyStrength  float64
	PietyDefence   float64
	RigourAttack   float64
	RigourStrength float64
	AuguryAttack   float64
	AuguryDefence  float64

	// AmmoDamageAmplifier and AmmoAccuracyAmplifier model diamond-bolt-equivalent
	// ammunition on every ranged attack.
	AmmoDamageAmplifier   float64
	AmmoAccuracyAmplifier float64
}

// DefaultRuleset returns the ruleset of a maxed, fully boosted combatant.
func DefaultRuleset() Ruleset {
	return Ruleset{
		AttackLevel:           118,
		StrengthLevel:         118,
		DefenceLevel:          75,
		RangedLevel:           112,
		MagicLevel:            99,
		PietyAttack:           1.20,
		PietyStrength:         1.23,
		PietyDefence:          1.25,
		RigourAttack:          1.20,
		RigourStrength:        1.23,
		AuguryAttack:          1.25,
		AuguryDefence:         1.25,
		AmmoDamageAmplifier:   1.015,
		AmmoAccuracyAmplifier: 1.1,
	}
}

// NewRuleset converts configuration into a Ruleset.
func NewRuleset(cfg config.RulesetConfig) Ruleset {
	return Ruleset{
		AttackLevel:           cfg.AttackLevel,
		StrengthLevel:         cfg.StrengthLevel,
		DefenceLevel:          cfg.DefenceLevel,
		RangedLevel:           cfg.RangedLevel,
		MagicLevel:            cfg.MagicLevel,
		PietyAttack:           cfg.PietyAttack,
		PietyStrength:         cfg.PietyStrength,
		PietyDefence:          cfg.PietyDefence,
		RigourAttack:          cfg.RigourAttack,
		RigourStrength:        cfg.RigourStrength,
		AuguryAttack:          cfg.AuguryAttack,
		AuguryDefence:         cfg.AuguryDefence,
		AmmoDamageAmplifier:   cfg.AmmoDamageAmplifier,
		AmmoAccuracyAmplifier: cfg.AmmoAccuracyAmplifier,
	}
}

// Validate checks that every level and multiplier is positive.
//
// Postcondition: returns nil iff the ruleset can drive the calculator.
func (r Ruleset) Validate() error {
	var errs []error
	for name, level := range map[string]int{
		"attack": r.AttackLevel, "strength": r.StrengthLevel, "defence": r.DefenceLevel,
		"ranged": r.RangedLevel, "magic": r.MagicLevel,
	} {
		if level < 1 {
			errs = append(errs, fmt.Errorf("%s level must be >= 1, got %d", name, level))
		}
	}
	for name, m := range map[string]float64{
		"piety attack": r.PietyAttack, "piety strength": r.PietyStrength, "piety defence": r.PietyDefence,
		"rigour attack": r.RigourAttack, "rigour strength": r.RigourStrength,
		"augury attack": r.AuguryAttack, "augury defence": r.AuguryDefence,
		"ammo damage": r.AmmoDamageAmplifier, "ammo accuracy": r.AmmoAccuracyAmplifier,
	} {
		if m <= 0 {
			errs = append(errs, fmt.Errorf("%s multiplier must be > 0, got %g", name, m))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("ruleset validation failed: %w", errors.Join(errs...))
	}
	return nil
}

// effectiveLevel returns floor(level * prayer) + offset.
func effectiveLevel(level int, prayer float64, offset int) int {
	return int(math.Floor(float64(level)*prayer)) + offset
}

func (r Ruleset) meleeAttackLevel() int {
	return effectiveLevel(r.AttackLevel, r.PietyAttack, levelBonus)
}

func (r Ruleset) meleeStrengthLevel() int {
	return effectiveLevel(r.StrengthLevel, r.PietyStrength, levelBonus+aggressiveStanceBonus)
}

func (r Ruleset) defenceLevel() int {
	return effectiveLevel(r.DefenceLevel, r.PietyDefence, levelBonus)
}

func (r Ruleset) rangedAttackLevel() int {
	return effectiveLevel(r.RangedLevel, r.RigourAttack, levelBonus)
}

func (r Ruleset) rangedStrengthLevel() int {
	return effectiveLevel(r.RangedLevel, r.RigourStrength, levelBonus)
}

func (r Ruleset) magicAttackLevel() int {
	return effectiveLevel(r.MagicLevel, r.AuguryAttack, levelBonus)
}

// magicDefenceLevel blends 70% boosted magic with 30% boosted defence.
func (r Ruleset) magicDefenceLevel() int {
	magic := effectiveLevel(r.MagicLevel, r.AuguryDefence, 0)
	defence := effectiveLevel(r.DefenceLevel, r.PietyDefence, 0)
	return (7*magic+3*defence)/10 + levelBonus
}
