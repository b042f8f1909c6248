package engine

import (
	"fmt"

	"github.com/S-tiemersma/predators-odyssey/engine/combatant"
	"github.com/S-tiemersma/predators-odyssey/engine/effects"
	"github.com/S-tiemersma/predators-odyssey/engine/skills"
	"github.com/S-tiemersma/predators-odyssey/types"
)

// EnemyPolicy selects which known skill an enemy uses on its turn.
type EnemyPolicy int

const (
	// PolicyStrongestSkill picks the highest base power skill, ties broken
	// by acquisition order. This is the default.
	PolicyStrongestSkill EnemyPolicy = iota
	// PolicyFirstSkill always picks the earliest-acquired skill.
	PolicyFirstSkill
)

// Encounter resolves one battle between the player and a single enemy in
// strict alternation, player first. It owns both combatants until the
// outcome is decided; a defeated enemy never gets a final turn.
type Encounter struct {
	Player *combatant.Combatant
	Enemy  *combatant.Combatant

	registry *skills.Registry
	policy   EnemyPolicy
	outcome  types.Outcome
	round    int
}

// NewEncounter starts an encounter between two undefeated combatants.
func NewEncounter(reg *skills.Registry, player, enemy *combatant.Combatant, policy EnemyPolicy) (*Encounter, error) {
	if player.IsDefeated() {
		return nil, fmt.Errorf("starting encounter: player %q is already defeated", player.Name)
	}
	if enemy.IsDefeated() {
		return nil, fmt.Errorf("starting encounter: enemy %q is already defeated", enemy.Name)
	}
	return &Encounter{
		Player:   player,
		Enemy:    enemy,
		registry: reg,
		policy:   policy,
		outcome:  types.Ongoing,
	}, nil
}

// Outcome returns the encounter state.
func (e *Encounter) Outcome() types.Outcome {
	return e.outcome
}

// Round resolves one full round: the player acts with the given skill, then
// the enemy retaliates if still standing. An unlearned or unknown skill is
// rejected with ErrSkillNotKnown before anything mutates, so the caller can
// re-prompt. Given identical picks and starting stats, the sequence of
// health values is fully reproducible.
func (e *Encounter) Round(skillID string) (types.Result, error) {
	var res types.Result

	if e.outcome != types.Ongoing {
		return res, ErrEncounterOver
	}
	if !e.Player.Knows(skillID) || !e.registry.Has(skillID) {
		return res, fmt.Errorf("%w: %q", ErrSkillNotKnown, skillID)
	}
	skill, err := e.registry.Get(skillID)
	if err != nil {
		return res, err
	}

	e.round++

	// Start of the player's turn: lingering effects on the player land now.
	e.tickStatuses(e.Player, &res)
	if e.Player.IsDefeated() {
		e.finish(types.PlayerDefeat, &res)
		return res, nil
	}

	// Player strikes.
	e.strike(e.Player, e.Enemy, skill, &res)
	if e.Enemy.IsDefeated() {
		e.finish(types.PlayerVictory, &res)
		return res, nil
	}

	// Start of the enemy's turn: effects the player applied land now.
	e.tickStatuses(e.Enemy, &res)
	if e.Enemy.IsDefeated() {
		e.finish(types.PlayerVictory, &res)
		return res, nil
	}

	// Enemy retaliates.
	enemySkill, ok := e.selectEnemySkill()
	if !ok {
		res.Output = append(res.Output, fmt.Sprintf("The %s circles you warily.", e.Enemy.Name))
		return res, nil
	}
	e.strike(e.Enemy, e.Player, enemySkill, &res)
	if e.Player.IsDefeated() {
		e.finish(types.PlayerDefeat, &res)
	}

	return res, nil
}

// strike applies one skill use from attacker to target: the main hit, the
// skill's special effect, and any follow-up hit. All arithmetic is integer,
// truncating toward zero.
func (e *Encounter) strike(attacker, target *combatant.Combatant, skill types.Skill, res *types.Result) {
	damage := effects.OutgoingDamage(attacker, skill.Power)
	lost := target.TakeDamage(damage)
	e.emitDamage(attacker, target, skill.Name, lost, res)

	followUp, applied := effects.OnHit(skill, target)
	if applied != nil {
		e.narrateApplied(target, applied, res)
	}
	if followUp > 0 && !target.IsDefeated() {
		lost := target.TakeDamage(effects.OutgoingDamage(attacker, followUp))
		e.emitDamage(attacker, target, skill.Name+" (sweep)", lost, res)
	}
}

// selectEnemySkill applies the enemy policy to the enemy's known skills.
// Skills missing from the registry are skipped.
func (e *Encounter) selectEnemySkill() (types.Skill, bool) {
	var best types.Skill
	found := false
	for _, id := range e.Enemy.KnownSkills() {
		s, err := e.registry.Get(id)
		if err != nil {
			continue
		}
		if !found {
			best, found = s, true
			if e.policy == PolicyFirstSkill {
				break
			}
			continue
		}
		if s.Power > best.Power {
			best = s
		}
	}
	return best, found
}

func (e *Encounter) tickStatuses(c *combatant.Combatant, res *types.Result) {
	tick := effects.TickStart(c)
	if tick.Damage > 0 {
		res.Events = append(res.Events, types.Event{
			Type: "dot_tick",
			Data: map[string]any{"target": c.Name, "damage": tick.Damage},
		})
		if c == e.Player {
			res.Output = append(res.Output, fmt.Sprintf(
				"You take %d lingering damage. (Your HP: %d/%d)", tick.Damage, c.Health, c.MaxHealth))
		} else {
			res.Output = append(res.Output, fmt.Sprintf(
				"The %s takes %d lingering damage. (Enemy HP: %d/%d)", c.Name, tick.Damage, c.Health, c.MaxHealth))
		}
	}
	for _, kind := range tick.Expired {
		res.Events = append(res.Events, types.Event{
			Type: "effect_expired",
			Data: map[string]any{"kind": kind.String(), "target": c.Name},
		})
	}
}

func (e *Encounter) emitDamage(attacker, target *combatant.Combatant, skillName string, lost int, res *types.Result) {
	res.Events = append(res.Events, types.Event{
		Type: "damage",
		Data: map[string]any{"attacker": attacker.Name, "target": target.Name, "skill": skillName, "amount": lost},
	})
	if attacker == e.Player {
		res.Output = append(res.Output, fmt.Sprintf(
			"You hit the %s with %s for %d damage. (Enemy HP: %d/%d)",
			target.Name, skillName, lost, target.Health, target.MaxHealth))
	} else {
		res.Output = append(res.Output, fmt.Sprintf(
			"The %s hits you with %s for %d damage. (Your HP: %d/%d)",
			attacker.Name, skillName, lost, target.Health, target.MaxHealth))
	}
}

func (e *Encounter) narrateApplied(target *combatant.Combatant, applied *effects.Applied, res *types.Result) {
	res.Events = append(res.Events, types.Event{
		Type: "effect_applied",
		Data: map[string]any{"kind": applied.Kind.String(), "target": target.Name, "refreshed": applied.Refreshed},
	})
	playerSide := target == e.Player
	switch applied.Kind {
	case types.EffectDamageOverTime:
		switch {
		case applied.Refreshed && playerSide:
			res.Output = append(res.Output, "The venom coursing through you is renewed.")
		case applied.Refreshed:
			res.Output = append(res.Output, fmt.Sprintf("The venom coursing through the %s is renewed.", target.Name))
		case playerSide:
			res.Output = append(res.Output, fmt.Sprintf("You are wracked by lingering damage (%d per turn).", applied.Tick))
		default:
			res.Output = append(res.Output, fmt.Sprintf("The %s is wracked by lingering damage (%d per turn).", target.Name, applied.Tick))
		}
	case types.EffectSlow:
		if applied.Refreshed {
			return
		}
		if playerSide {
			res.Output = append(res.Output, "You slow, your strikes losing force.")
		} else {
			res.Output = append(res.Output, fmt.Sprintf("The %s slows, its strikes losing force.", target.Name))
		}
	}
}

func (e *Encounter) finish(outcome types.Outcome, res *types.Result) {
	e.outcome = outcome
	res.Events = append(res.Events, types.Event{
		Type: "encounter_ended",
		Data: map[string]any{"outcome": outcome.String(), "rounds": e.round},
	})
	if outcome == types.PlayerVictory {
		res.Output = append(res.Output, fmt.Sprintf("You defeated the %s!", e.Enemy.Name))
	} else {
		res.Output = append(res.Output, "You have been defeated...")
	}
}
