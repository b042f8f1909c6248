// Package engine implements the Predator's Odyssey core: the session that
// owns the player's monster, the skill registry, and the fusion table, plus
// the turn-based encounter resolver and the absorption/fusion operations.
package engine

import (
	"errors"
	"fmt"

	"github.com/S-tiemersma/predators-odyssey/engine/combatant"
	"github.com/S-tiemersma/predators-odyssey/engine/fusion"
	"github.com/S-tiemersma/predators-odyssey/engine/skills"
	"github.com/S-tiemersma/predators-odyssey/types"
)

// Sentinel errors for the recoverable, caller-facing failures. Content
// errors (unknown or duplicate identifiers) are the loader's concern and
// fail at startup instead.
var (
	// ErrEncounterOver is returned when a round is requested after the
	// encounter has been decided.
	ErrEncounterOver = errors.New("encounter already decided")
	// ErrSkillNotKnown is returned when a combat action names a skill the
	// player has not learned (or that does not exist).
	ErrSkillNotKnown = errors.New("skill not known")
	// ErrUnlearnedSkill is returned when a fusion names a skill the player
	// has not learned.
	ErrUnlearnedSkill = errors.New("unlearned skill")
	// ErrSameSkill is returned when a fusion is requested with one skill
	// on both sides.
	ErrSameSkill = errors.New("fusion requires two different skills")
	// ErrNoEnemySkills is returned when absorption finds a defeated enemy
	// with an empty skill list. The spawner never produces one; hitting
	// this means game data is broken.
	ErrNoEnemySkills = errors.New("defeated enemy knows no skills")
)

// Defaults applied when the Lua Game{} block omits a field. Values match
// the original prototype's tuning.
const (
	defaultPlayerHealth = 15
	defaultStartLayer   = -10
	startingSkillCount  = 2
	ascendHeal          = 3
	evolveHealthBonus   = 5
	evolveChancePct     = 20
)

// Defs holds the immutable game definitions produced by the loader.
type Defs struct {
	Game     types.GameDef
	Registry *skills.Registry
	Fusions  *fusion.Table
	Bestiary []types.MonsterDef
}

// Session is the explicit, passed-around object owning all cross-encounter
// state: the persistent player combatant, the content tables, the dungeon
// layer, and the setup RNG. Nothing lives in package globals. A concurrent
// host must give each player its own Session.
type Session struct {
	Defs   *Defs
	Player *combatant.Combatant
	Layer  int
	RNG    *RNG

	// EnemyPolicy controls how enemies pick their skill each turn.
	EnemyPolicy EnemyPolicy
}

// NewSession creates a session with a fresh player combatant. Starting
// skills come from the Game{} definition, or are sampled from the registry
// when none are pinned.
func NewSession(defs *Defs, seed int64) *Session {
	rng := NewRNG(seed)

	health := defs.Game.PlayerHealth
	if health <= 0 {
		health = defaultPlayerHealth
	}
	layer := defs.Game.StartLayer
	if layer >= 0 {
		layer = defaultStartLayer
	}
	name := defs.Game.PlayerName
	if name == "" {
		name = "You"
	}

	starting := defs.Game.StartingSkills
	if len(starting) == 0 {
		starting = rng.Sample(basicSkillIDs(defs.Registry), startingSkillCount)
	}

	return &Session{
		Defs:        defs,
		Player:      combatant.New(name, health, starting),
		Layer:       layer,
		RNG:         rng,
		EnemyPolicy: PolicyStrongestSkill,
	}
}

// basicSkillIDs returns the skills that may appear in the wild. Fusion
// results are excluded; they are only reachable by fusing.
func basicSkillIDs(reg *skills.Registry) []string {
	all := reg.All()
	ids := make([]string, 0, len(all))
	for _, s := range all {
		if s.Category == types.CategoryFusion {
			continue
		}
		ids = append(ids, s.ID)
	}
	return ids
}

// SpawnEnemy draws a monster from the bestiary for the current layer.
// Health scales with depth below layer −10, as in the original tuning.
// Entries without a pinned skill list get 1–2 basic skills sampled from
// the registry. This is the only randomness an encounter ever sees.
// Returns nil if the bestiary is empty; the loader rejects such content,
// so hand-built Defs are the only way to get here.
func (s *Session) SpawnEnemy() *combatant.Combatant {
	if len(s.Defs.Bestiary) == 0 {
		return nil
	}
	def := s.Defs.Bestiary[s.RNG.Intn(len(s.Defs.Bestiary))]

	health := def.Health
	if bonus := -s.Layer - 10; bonus > 0 {
		health += bonus * 2
	}

	skillIDs := def.Skills
	if len(skillIDs) == 0 {
		n := 1 + s.RNG.Intn(2)
		skillIDs = s.RNG.Sample(basicSkillIDs(s.Defs.Registry), n)
	}

	return combatant.New(def.Name, health, skillIDs)
}

// Ascend moves the player one layer up, healing a little. It reports
// surfaced=true when the player steps out at layer −1, which ends the run.
func (s *Session) Ascend() (res types.Result, surfaced bool) {
	if s.Layer >= -1 {
		res.Events = append(res.Events, types.Event{Type: "surfaced", Data: map[string]any{"layer": s.Layer}})
		res.Output = append(res.Output,
			"You push aside a crumbling tomb door and step out into the sunlight!",
			"The surface world sprawls before you.")
		return res, true
	}

	s.Layer++
	healed := s.Player.Heal(ascendHeal)
	res.Events = append(res.Events, types.Event{
		Type: "ascended",
		Data: map[string]any{"layer": s.Layer, "healed": healed},
	})
	res.Output = append(res.Output, fmt.Sprintf(
		"You climb up to layer %d. The air feels a bit lighter. You regain some health. (%d/%d HP)",
		s.Layer, s.Player.Health, s.Player.MaxHealth))
	return res, false
}

// MaybeEvolve rolls the post-victory evolution chance. On success the
// player's maximum health grows and health is fully restored.
func (s *Session) MaybeEvolve() (types.Result, bool) {
	var res types.Result
	if s.RNG.Roll(100) > evolveChancePct {
		return res, false
	}
	s.Player.MaxHealth += evolveHealthBonus
	s.Player.Health = s.Player.MaxHealth
	res.Events = append(res.Events, types.Event{
		Type: "evolved",
		Data: map[string]any{"max_health": s.Player.MaxHealth},
	})
	res.Output = append(res.Output,
		"[EVOLUTION] You feel your body changing, your skin thickens and your vitality grows!")
	return res, true
}

// SkillSelector asks the presentation layer to pick one of the player's
// known skills for the current turn.
type SkillSelector func(known []string) (string, error)

// RunEncounter runs one complete encounter between the session's player and
// the given enemy, asking selectSkill before every player turn and passing
// each round's result to emit. A pick the player hasn't learned is
// re-prompted; core state is untouched by the rejected request. emit may be
// nil when the caller only wants the outcome.
func (s *Session) RunEncounter(enemy *combatant.Combatant, selectSkill SkillSelector, emit func(types.Result)) (types.Outcome, error) {
	enc, err := NewEncounter(s.Defs.Registry, s.Player, enemy, s.EnemyPolicy)
	if err != nil {
		return types.Ongoing, err
	}

	for enc.Outcome() == types.Ongoing {
		id, err := selectSkill(s.Player.KnownSkills())
		if err != nil {
			return enc.Outcome(), err
		}
		res, err := enc.Round(id)
		if errors.Is(err, ErrSkillNotKnown) {
			if emit != nil {
				emit(types.Result{Output: []string{fmt.Sprintf("You don't know any skill called %q.", id)}})
			}
			continue
		}
		if err != nil {
			return enc.Outcome(), err
		}
		if emit != nil {
			emit(res)
		}
	}
	return enc.Outcome(), nil
}
