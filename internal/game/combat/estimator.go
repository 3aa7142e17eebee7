package combat

import (
	"context"

	"go.uber.org/zap"

	"github.com/cory-johannsen/pvptracker/internal/game/inventory"
	"github.com/cory-johannsen/pvptracker/internal/observability"
)

// Estimator turns two raw equipment arrays and an attack classification into
// a damage estimate.
type Estimator struct {
	resolver *inventory.Resolver
	calc     *Calculator
	logger   *zap.Logger
}

// NewEstimator creates an Estimator.
//
// Precondition: resolver and calc must be non-nil; logger may be nil.
func NewEstimator(resolver *inventory.Resolver, calc *Calculator, logger *zap.Logger) *Estimator {
	return &Estimator{resolver: resolver, calc: calc, logger: observability.OrNop(logger)}
}

// Estimate resolves both loadouts and computes the attack's expected damage.
// The weapon is taken from the attacker's weapon slot; a missing or empty
// slot is treated as unarmed.
//
// Postcondition: never fails; Breakdown.AverageHit >= 0.
func (e *Estimator) Estimate(ctx context.Context, attackerEquipment, defenderEquipment []int, style AttackStyle, success bool) Breakdown {
	if style.Family() == FamilyNone {
		return Breakdown{Style: StyleNone}
	}
	attacker := e.resolver.Resolve(ctx, attackerEquipment)
	defender := e.resolver.Resolve(ctx, defenderEquipment)
	weaponID := inventory.WeaponID(attackerEquipment)

	e.logger.Debug("resolved bonuses",
		zap.Ints("attacker", attacker.Ints()),
		zap.Ints("defender", defender.Ints()),
		zap.Int("weapon_id", weaponID),
	)
	return e.calc.Breakdown(attacker, defender, weaponID, style, success)
}

// EstimateAnimation classifies animationID and estimates the attack.
//
// Postcondition: ok is false, and the Breakdown zero, for an unrecognised animation.
func (e *Estimator) EstimateAnimation(ctx context.Context, attackerEquipment, defenderEquipment []int, animationID int, success bool) (Breakdown, bool) {
	style := ClassifyAnimation(animationID)
	if style == StyleNone {
		e.logger.Debug("unrecognised animation", zap.Int("animation_id", animationID))
		return Breakdown{}, false
	}
	return e.Estimate(ctx, attackerEquipment, defenderEquipment, style, success), true
}
