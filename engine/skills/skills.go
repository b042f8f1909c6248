// Package skills implements the skill registry: the static catalogue of
// known skills, populated once at load time and read-only afterwards.
package skills

import (
	"errors"
	"fmt"

	"github.com/S-tiemersma/predators-odyssey/types"
)

var (
	// ErrUnknownSkill is returned when an identifier is not registered.
	ErrUnknownSkill = errors.New("unknown skill")
	// ErrDuplicateSkill is returned when an identifier is registered twice.
	ErrDuplicateSkill = errors.New("duplicate skill")
)

// Registry holds all registered skills in registration order.
type Registry struct {
	byID  map[string]types.Skill
	order []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: map[string]types.Skill{}}
}

// Register adds a skill to the registry. Registering the same ID twice is a
// content-authoring bug and fails with ErrDuplicateSkill.
func (r *Registry) Register(s types.Skill) error {
	if s.ID == "" {
		return fmt.Errorf("registering skill %q: empty ID", s.Name)
	}
	if s.Power < 0 {
		return fmt.Errorf("registering skill %q: negative power %d", s.ID, s.Power)
	}
	if _, ok := r.byID[s.ID]; ok {
		return fmt.Errorf("registering skill %q: %w", s.ID, ErrDuplicateSkill)
	}
	r.byID[s.ID] = s
	r.order = append(r.order, s.ID)
	return nil
}

// Get returns the skill registered under id.
func (r *Registry) Get(id string) (types.Skill, error) {
	s, ok := r.byID[id]
	if !ok {
		return types.Skill{}, fmt.Errorf("%w: %q", ErrUnknownSkill, id)
	}
	return s, nil
}

// Has reports whether id is registered.
func (r *Registry) Has(id string) bool {
	_, ok := r.byID[id]
	return ok
}

// All returns every registered skill in registration order.
func (r *Registry) All() []types.Skill {
	out := make([]types.Skill, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// Len returns the number of registered skills.
func (r *Registry) Len() int {
	return len(r.order)
}
