// Package inventory resolves equipped items into aggregate combat bonuses and
// holds the static item and weapon catalogs used by the damage estimator.
package inventory

// Bonus vector indices. The order is shared by attacker and defender vectors.
const (
	StabAttack = iota
	SlashAttack
	CrushAttack
	MagicAttack
	RangedAttack
	StabDefence
	SlashDefence
	CrushDefence
	MagicDefence
	RangedDefence
	StrengthBonus
	RangedStrengthBonus
	// Reserved holds an item's prayer bonus. No damage formula reads it.
	Reserved
	// MagicDamageBonus is an additive percentage.
	MagicDamageBonus

	// BonusCount is the number of slots in a BonusVector.
	BonusCount
)

// BaselineStrength is the strength bonus every combatant starts with before
// any item contributes.
const BaselineStrength = 4

// BonusVector is the aggregate equipment bonus of one combatant, or the
// contribution of a single item.
type BonusVector [BonusCount]int

// BaselineBonuses returns the seed vector used by Resolve.
//
// Postcondition: only StrengthBonus is non-zero.
func BaselineBonuses() BonusVector {
	var v BonusVector
	v[StrengthBonus] = BaselineStrength
	return v
}

// Add returns the element-wise sum of v and o.
func (v BonusVector) Add(o BonusVector) BonusVector {
	for i := range v {
		v[i] += o[i]
	}
	return v
}

// Sub returns the element-wise difference v - o.
func (v BonusVector) Sub(o BonusVector) BonusVector {
	for i := range v {
		v[i] -= o[i]
	}
	return v
}

// AttackBonus returns the attack bonus at the given attack index.
// Indices outside StabAttack..RangedAttack return 0.
func (v BonusVector) AttackBonus(index int) int {
	if index < StabAttack || index > RangedAttack {
		return 0
	}
	return v[index]
}

// DefenceBonus returns the defence bonus matching the given attack index.
func (v BonusVector) DefenceBonus(attackIndex int) int {
	if attackIndex < StabAttack || attackIndex > RangedAttack {
		return 0
	}
	return v[attackIndex+StabDefence]
}

// Ints returns the vector as a slice, for logging.
func (v BonusVector) Ints() []int {
	out := make([]int, BonusCount)
	copy(out, v[:])
	return out
}
