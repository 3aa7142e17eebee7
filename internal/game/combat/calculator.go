package combat

import (
	"math"

	"go.uber.org/zap"

	"github.com/cory-johannsen/pvptracker/internal/game/inventory"
	"github.com/cory-johannsen/pvptracker/internal/observability"
)

const (
	// failedPrayerModifier scales an attack that the defender's prayer blocked.
	failedPrayerModifier = 0.6

	blitzBaseDamage   = 26
	barrageBaseDamage = 30

	multiHitHigherMultiplier = 2.0
	multiHitLowerMultiplier  = 1.5
)

// Breakdown holds the intermediate and final values of one estimate.
type Breakdown struct {
	Style        AttackStyle
	UsingSpecial bool
	WeaponID     int
	Rule         inventory.SpecialRule
	MaxHit       int
	// Accuracy is the hit chance in [0, 1].
	Accuracy float64
	// AverageHit is the estimated damage of the attack.
	AverageHit int
}

// Calculator estimates the damage of a single attack under a fixed Ruleset.
// It holds no mutable state and is safe for concurrent use.
type Calculator struct {
	rules  Ruleset
	logger *zap.Logger
}

// NewCalculator creates a Calculator.
//
// Precondition: rules must pass Validate; logger may be nil.
func NewCalculator(rules Ruleset, logger *zap.Logger) *Calculator {
	return &Calculator{rules: rules, logger: observability.OrNop(logger)}
}

// ComputeDamage returns the expected damage of one attack. weaponID is a
// canonical item id, already decoded from its equipment slot value.
//
// Postcondition: result >= 0; identical inputs always yield identical results.
func (c *Calculator) ComputeDamage(attacker, defender inventory.BonusVector, weaponID int, style AttackStyle, success bool) int {
	return c.Breakdown(attacker, defender, weaponID, style, success).AverageHit
}

// Breakdown runs the full pipeline: special resolution, max hit, accuracy,
// then average hit. weaponID is canonical, as for ComputeDamage. StyleNone
// yields a Breakdown carrying only the style and weapon id.
func (c *Calculator) Breakdown(attacker, defender inventory.BonusVector, weaponID int, style AttackStyle, success bool) Breakdown {
	b := Breakdown{Style: style, WeaponID: weaponID}
	if style.Family() == FamilyNone {
		return b
	}
	profile := inventory.LookupWeapon(weaponID)
	b.Rule = profile.Rule
	b.UsingSpecial = style.IsSpecial()
	root := style.Root()

	b.MaxHit = c.MaxHit(attacker, profile, root, b.UsingSpecial)
	b.Accuracy = c.Accuracy(attacker, defender, profile, root, b.UsingSpecial)
	b.AverageHit = c.AverageHit(b.MaxHit, b.Accuracy, success, profile, b.UsingSpecial)

	if ce := c.logger.Check(zap.DebugLevel, "damage estimate"); ce != nil {
		ce.Write(
			zap.Stringer("style", style),
			zap.Int("weapon_id", b.WeaponID),
			zap.Stringer("rule", b.Rule),
			zap.Bool("special", b.UsingSpecial),
			zap.Bool("success", success),
			zap.Int("max_hit", b.MaxHit),
			zap.Float64("accuracy", b.Accuracy),
			zap.Int("average_hit", b.AverageHit),
		)
	}
	return b
}

// MaxHit returns the highest possible hit for the style's root family.
//
// Postcondition: result >= 0.
func (c *Calculator) MaxHit(attacker inventory.BonusVector, profile inventory.WeaponProfile, style AttackStyle, usingSpecial bool) int {
	root := style.Root()
	switch root.Family() {
	case FamilyMelee:
		base := baseDamage(c.rules.meleeStrengthLevel(), attacker[inventory.StrengthBonus])
		return truncate(profile.DamageAmplifier(usingSpecial) * base)
	case FamilyRanged:
		base := baseDamage(c.rules.rangedStrengthLevel(), attacker[inventory.RangedStrengthBonus])
		amplifier := c.rules.AmmoDamageAmplifier * profile.DamageAmplifier(usingSpecial)
		return truncate(amplifier * base)
	case FamilyMagic:
		spell := float64(blitzBaseDamage)
		if root == Barrage {
			spell = barrageBaseDamage
		}
		return truncate(spell * (1 + float64(attacker[inventory.MagicDamageBonus])/100))
	default:
		return 0
	}
}

// Accuracy returns the chance that the attack roll beats the defence roll.
//
// Postcondition: 0 <= result <= 1.
func (c *Calculator) Accuracy(attacker, defender inventory.BonusVector, profile inventory.WeaponProfile, style AttackStyle, usingSpecial bool) float64 {
	root := style.Root()
	var attackLevel, defenceLevel, attackIndex int
	switch root.Family() {
	case FamilyMelee:
		attackLevel, defenceLevel = c.rules.meleeAttackLevel(), c.rules.defenceLevel()
		attackIndex = meleeAttackIndex(root)
	case FamilyRanged:
		attackLevel, defenceLevel = c.rules.rangedAttackLevel(), c.rules.defenceLevel()
		attackIndex = inventory.RangedAttack
	case FamilyMagic:
		attackLevel, defenceLevel = c.rules.magicAttackLevel(), c.rules.magicDefenceLevel()
		attackIndex = inventory.MagicAttack
	default:
		return 0
	}

	attackerChance := roll(attackLevel, attacker.AttackBonus(attackIndex)) * profile.AccuracyMultiplier(usingSpecial)

	var defenderChance float64
	if profile.OverridesDefence(usingSpecial) {
		scaled := float64(defenceLevel*(defender.DefenceBonus(profile.SpecDefenceStyle)+64)) * profile.SpecDefenceScale
		defenderChance = math.Max(0, math.Floor(scaled))
	} else {
		defenderChance = roll(defenceLevel, defender.DefenceBonus(attackIndex))
	}

	chance := HitChance(attackerChance, defenderChance)
	if root.Family() == FamilyRanged {
		chance *= c.rules.AmmoAccuracyAmplifier
	}
	return clampUnit(chance)
}

// AverageHit combines max hit and accuracy into the expected damage.
//
// Postcondition: result >= 0; a successful attack never yields less than a failed one.
func (c *Calculator) AverageHit(maxHit int, hitChance float64, success bool, profile inventory.WeaponProfile, usingSpecial bool) int {
	if maxHit <= 0 || !(hitChance > 0) {
		return 0
	}
	prayerModifier := failedPrayerModifier
	if success {
		prayerModifier = 1
	}

	if usingSpecial {
		switch profile.Rule {
		case inventory.RuleMinimumHit:
			return truncate(hitChance * MinimumHitAverage(maxHit, hitChance, profile) * prayerModifier)
		case inventory.RuleMultiHit:
			return truncate(MultiHitAverage(maxHit, hitChance) * prayerModifier)
		}
	}
	return truncate(hitChance * (float64(maxHit) / 2) * prayerModifier * profile.FinalModifier(usingSpecial))
}

// HitChance is the accuracy roll comparison. The two branches are not
// symmetric and ties take the lower one.
//
// Precondition: attackerChance and defenderChance are >= 0.
func HitChance(attackerChance, defenderChance float64) float64 {
	if attackerChance > defenderChance {
		return 1 - (defenderChance+2)/(2*(attackerChance+1))
	}
	return attackerChance / (2 * (defenderChance + 1))
}

// MinimumHitAverage is the mean successful hit over rolls 0..maxHit when every
// roll below the weapon floor is raised to it. When the profile scales with
// accuracy the floor is divided by hitChance.
//
// Precondition: maxHit > 0 and hitChance > 0.
func MinimumHitAverage(maxHit int, hitChance float64, profile inventory.WeaponProfile) float64 {
	adjuster := 1.0
	if profile.MinHitScalesWithAccuracy {
		adjuster = hitChance
	}
	floor := profile.MinHit(maxHit) / adjuster
	total := 0.0
	for i := 0; i <= maxHit; i++ {
		total += math.Max(float64(i), floor)
	}
	return total / float64(maxHit)
}

// MultiHitAverage is the expected total of a four-roll cascade: the first
// or second roll landing pays 2x the average regular hit, the third or
// fourth pays 1.5x.
func MultiHitAverage(maxHit int, hitChance float64) float64 {
	miss := 1 - hitChance
	higherChance := hitChance + miss*hitChance
	lowerChance := miss*miss*hitChance + miss*miss*miss*hitChance
	regular := float64(maxHit) / 2
	return higherChance*multiHitHigherMultiplier*regular + lowerChance*multiHitLowerMultiplier*regular
}

func meleeAttackIndex(root AttackStyle) int {
	switch root {
	case Stab:
		return inventory.StabAttack
	case Slash:
		return inventory.SlashAttack
	default:
		return inventory.CrushAttack
	}
}

// baseDamage is floor(0.5 + effectiveLevel * (bonus + 64) / 640).
func baseDamage(effectiveLevel, bonus int) float64 {
	return math.Floor(0.5 + float64(effectiveLevel*(bonus+64))/640)
}

// roll is floor(effectiveLevel * (bonus + 64)), saturating at 0.
func roll(effectiveLevel, bonus int) float64 {
	return math.Max(0, math.Floor(float64(effectiveLevel*(bonus+64))))
}

func clampUnit(x float64) float64 {
	switch {
	case !(x > 0):
		return 0
	case x > 1:
		return 1
	default:
		return x
	}
}

func truncate(x float64) int {
	if !(x > 0) || math.IsInf(x, 1) {
		return 0
	}
	return int(x)
}
