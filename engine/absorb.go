package engine

import (
	"fmt"

	"github.com/S-tiemersma/predators-odyssey/engine/combatant"
	"github.com/S-tiemersma/predators-odyssey/types"
)

// Absorb grants the player one skill from a defeated enemy: the
// earliest-acquired skill the player doesn't already know, or the enemy's
// first skill as a no-op learn when the player knows them all. Returns the
// identifier granted, for the caller to announce.
func (s *Session) Absorb(enemy *combatant.Combatant) (string, error) {
	known := enemy.KnownSkills()
	if len(known) == 0 {
		return "", fmt.Errorf("absorbing from %q: %w", enemy.Name, ErrNoEnemySkills)
	}

	granted := known[0]
	for _, id := range known {
		if !s.Player.Knows(id) {
			granted = id
			break
		}
	}
	s.Player.Learn(granted)
	return granted, nil
}

// Fuse combines two of the player's learned skills through the fusion
// table. On success the result is learned and returned with ok=true. A pair
// with no registered rule is a normal outcome: ok=false, nil error, player
// state untouched. Requests naming the same skill twice or an unlearned
// skill are rejected with an error before anything mutates.
func (s *Session) Fuse(idA, idB string) (types.Skill, bool, error) {
	if idA == idB {
		return types.Skill{}, false, fmt.Errorf("%w: %q", ErrSameSkill, idA)
	}
	for _, id := range []string{idA, idB} {
		if !s.Player.Knows(id) {
			return types.Skill{}, false, fmt.Errorf("%w: %q", ErrUnlearnedSkill, id)
		}
	}

	resultID, ok := s.Defs.Fusions.Lookup(idA, idB)
	if !ok {
		return types.Skill{}, false, nil
	}

	// The loader validates every fusion result against the registry, so a
	// miss here is broken game data, not user input.
	result, err := s.Defs.Registry.Get(resultID)
	if err != nil {
		return types.Skill{}, false, fmt.Errorf("fusing %q+%q: %w", idA, idB, err)
	}

	s.Player.Learn(resultID)
	return result, true, nil
}

// FusionCandidate is one fusable pair among the player's known skills.
type FusionCandidate struct {
	A      string
	B      string
	Result string
}

// FusionCandidates scans every unordered pair of the player's known skills
// and returns the ones with a registered fusion, in acquisition order.
func (s *Session) FusionCandidates() []FusionCandidate {
	known := s.Player.KnownSkills()
	var out []FusionCandidate
	for i := 0; i < len(known); i++ {
		for j := i + 1; j < len(known); j++ {
			if result, ok := s.Defs.Fusions.Lookup(known[i], known[j]); ok {
				out = append(out, FusionCandidate{A: known[i], B: known[j], Result: result})
			}
		}
	}
	return out
}
