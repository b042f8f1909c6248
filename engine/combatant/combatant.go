// Package combatant models a single fighting entity — the player's monster
// or an enemy — with health, an ordered known-skill list, stat modifier
// hooks, and status afflictions.
package combatant

import "github.com/S-tiemersma/predators-odyssey/types"

// status is one active affliction on a combatant. Reapplying the same kind
// refreshes it rather than stacking a second instance.
type status struct {
	turns    int // whole turns remaining, ticked by BeginTurn
	strength int // kind-specific magnitude (DoT tick damage, slow percent)
}

// Combatant is the mutable state of one participant in an encounter.
// The player combatant persists across encounters; enemies live for one.
type Combatant struct {
	Name      string
	Health    int
	MaxHealth int

	// AttackPct scales outgoing damage; 100 means unmodified. Mutations
	// adjust it between encounters.
	AttackPct int
	// Guard is flat damage reduction subtracted from incoming hits.
	Guard int

	known    []string
	statuses map[types.EffectKind]status
}

// New creates a combatant at full health knowing the given skills, in order.
// Duplicate IDs in the input are collapsed to the first occurrence.
func New(name string, maxHealth int, skillIDs []string) *Combatant {
	c := &Combatant{
		Name:      name,
		Health:    maxHealth,
		MaxHealth: maxHealth,
		AttackPct: 100,
		statuses:  map[types.EffectKind]status{},
	}
	for _, id := range skillIDs {
		c.Learn(id)
	}
	return c
}

// TakeDamage applies a mitigated hit: Guard is subtracted from amount, the
// remainder (never negative) comes off health, and health floors at 0.
// Returns the health actually lost, for the caller to report.
func (c *Combatant) TakeDamage(amount int) int {
	d := amount - c.Guard
	if d < 0 {
		d = 0
	}
	return c.TakeRawDamage(d)
}

// TakeRawDamage applies unmitigated damage (status ticks bypass Guard).
// Returns the health actually lost.
func (c *Combatant) TakeRawDamage(amount int) int {
	if amount < 0 {
		amount = 0
	}
	before := c.Health
	c.Health -= amount
	if c.Health < 0 {
		c.Health = 0
	}
	return before - c.Health
}

// Heal restores health, clamped at MaxHealth. Returns the amount restored.
func (c *Combatant) Heal(amount int) int {
	if amount < 0 {
		amount = 0
	}
	before := c.Health
	c.Health += amount
	if c.Health > c.MaxHealth {
		c.Health = c.MaxHealth
	}
	return c.Health - before
}

// IsDefeated reports whether health has reached the floor.
func (c *Combatant) IsDefeated() bool {
	return c.Health == 0
}

// Learn appends a skill to the known list. Learning an already-known skill
// is a no-op, not an error.
func (c *Combatant) Learn(skillID string) {
	if skillID == "" || c.Knows(skillID) {
		return
	}
	c.known = append(c.known, skillID)
}

// Knows reports whether the combatant knows the given skill.
func (c *Combatant) Knows(skillID string) bool {
	for _, id := range c.known {
		if id == skillID {
			return true
		}
	}
	return false
}

// KnownSkills returns the known skill IDs in acquisition order.
// The returned slice is a copy.
func (c *Combatant) KnownSkills() []string {
	out := make([]string, len(c.known))
	copy(out, c.known)
	return out
}

// Afflict applies a status of the given kind. If the kind is already
// active it is refreshed with the new duration and strength.
func (c *Combatant) Afflict(kind types.EffectKind, turns, strength int) {
	if kind == types.EffectNone || turns <= 0 {
		return
	}
	c.statuses[kind] = status{turns: turns, strength: strength}
}

// HasStatus reports whether a status of the given kind is active.
func (c *Combatant) HasStatus(kind types.EffectKind) bool {
	_, ok := c.statuses[kind]
	return ok
}

// StatusStrength returns the strength of an active status, or 0.
func (c *Combatant) StatusStrength(kind types.EffectKind) int {
	return c.statuses[kind].strength
}

// tickOrder fixes the order statuses are ticked and reported in, so that
// traces replay identically run to run.
var tickOrder = [...]types.EffectKind{
	types.EffectDamageOverTime,
	types.EffectSlow,
	types.EffectMultiTarget,
}

// BeginTurn ticks the combatant's statuses at the start of its own turn.
// It returns the damage-over-time tick to apply (0 if none) and the kinds
// that expired this tick, in tickOrder.
func (c *Combatant) BeginTurn() (dotDamage int, expired []types.EffectKind) {
	if st, ok := c.statuses[types.EffectDamageOverTime]; ok {
		dotDamage = st.strength
	}
	for _, kind := range tickOrder {
		st, ok := c.statuses[kind]
		if !ok {
			continue
		}
		st.turns--
		if st.turns <= 0 {
			delete(c.statuses, kind)
			expired = append(expired, kind)
		} else {
			c.statuses[kind] = st
		}
	}
	return dotDamage, expired
}
