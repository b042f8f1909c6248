// Package effects implements the combat behavior of each skill effect kind.
// The kinds form a closed set; every kind has an explicit application
// function here — no runtime type inspection. Narration is the resolver's
// job; this package only mutates state and reports what happened.
package effects

import (
	"github.com/S-tiemersma/predators-odyssey/engine/combatant"
	"github.com/S-tiemersma/predators-odyssey/types"
)

// Effect tuning. Durations are whole turns of the afflicted combatant;
// percentages use 100 = unmodified.
const (
	dotTurns  = 2
	slowTurns = 2
	slowPct   = 50 // outgoing damage retained while slowed
)

// Applied describes a status successfully applied to a target.
type Applied struct {
	Kind      types.EffectKind
	Tick      int  // per-turn damage for DamageOverTime, 0 otherwise
	Refreshed bool // true if the status was already active
}

// Tick is the start-of-turn resolution of a combatant's statuses.
type Tick struct {
	Damage  int // health actually lost to damage-over-time
	Expired []types.EffectKind
}

// OutgoingDamage computes the damage a combatant deals with a skill of the
// given base power: power × attack multiplier, halved while slowed.
// Intermediate results truncate toward zero.
func OutgoingDamage(attacker *combatant.Combatant, power int) int {
	d := power * attacker.AttackPct / 100
	if attacker.HasStatus(types.EffectSlow) {
		d = d * attacker.StatusStrength(types.EffectSlow) / 100
	}
	if d < 0 {
		d = 0
	}
	return d
}

// OnHit applies a skill's special effect to the target after the main hit
// has landed. It returns the base power of an immediate follow-up strike
// (0 for no follow-up) and the status applied, if any.
//
// Kinds:
//   - DamageOverTime afflicts the target with a tick of max(1, power/2)
//     at the start of each of its next turns. Reapplying refreshes the
//     duration instead of stacking a second instance.
//   - Slow halves the target's outgoing damage while active, refreshed the
//     same way.
//   - MultiTarget strikes again at half power — the single-foe rendering
//     of a sweeping attack.
func OnHit(skill types.Skill, target *combatant.Combatant) (followUpPower int, applied *Applied) {
	switch skill.Effect {
	case types.EffectDamageOverTime:
		return 0, applyDamageOverTime(skill, target)
	case types.EffectSlow:
		return 0, applySlow(target)
	case types.EffectMultiTarget:
		return skill.Power / 2, nil
	default:
		return 0, nil
	}
}

func applyDamageOverTime(skill types.Skill, target *combatant.Combatant) *Applied {
	tick := skill.Power / 2
	if tick < 1 {
		tick = 1
	}
	refreshed := target.HasStatus(types.EffectDamageOverTime)
	target.Afflict(types.EffectDamageOverTime, dotTurns, tick)
	return &Applied{Kind: types.EffectDamageOverTime, Tick: tick, Refreshed: refreshed}
}

func applySlow(target *combatant.Combatant) *Applied {
	refreshed := target.HasStatus(types.EffectSlow)
	target.Afflict(types.EffectSlow, slowTurns, slowPct)
	return &Applied{Kind: types.EffectSlow, Refreshed: refreshed}
}

// TickStart resolves a combatant's statuses at the start of its own turn:
// damage-over-time lands, durations count down, expired kinds are reported.
// The tick bypasses Guard — it is fixed damage, mitigation already happened
// when the effect was applied.
func TickStart(c *combatant.Combatant) Tick {
	dot, expired := c.BeginTurn()
	t := Tick{Expired: expired}
	if dot > 0 {
		t.Damage = c.TakeRawDamage(dot)
	}
	return t
}
