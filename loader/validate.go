package loader

import (
	"fmt"
	"os"
	"strings"

	"github.com/S-tiemersma/predators-odyssey/engine"
	"github.com/S-tiemersma/predators-odyssey/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

// Known skill categories. Unknown categories are a warning, not an error,
// so content packs can invent schools without a loader change.
var knownCategories = map[types.Category]bool{
	types.CategoryWater:     true,
	types.CategoryWind:      true,
	types.CategoryEarth:     true,
	types.CategoryFire:      true,
	types.CategoryVenom:     true,
	types.CategoryLightning: true,
	types.CategoryFusion:    true,
}

// validate checks the compiled defs for referential integrity. Any error
// here is a content-authoring bug and aborts startup.
func validate(defs *engine.Defs) error {
	ve := &ValidationError{}

	if defs.Game.Title == "" {
		ve.Errors = append(ve.Errors, "Game.title is required")
	}
	if defs.Registry.Len() == 0 {
		ve.Errors = append(ve.Errors, "no skills defined")
	}
	if len(defs.Bestiary) == 0 {
		ve.Errors = append(ve.Errors, "no monsters defined")
	}

	for _, s := range defs.Registry.All() {
		if s.Category != "" && !knownCategories[s.Category] {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf(
				"skill %q uses unrecognized category %q", s.ID, s.Category))
		}
	}

	// Every fusion rule references three registered skills.
	for _, rule := range defs.Fusions.Rules() {
		for _, id := range []string{rule.A, rule.B, rule.Result} {
			if !defs.Registry.Has(id) {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"fusion %q+%q → %q references undefined skill %q",
					rule.A, rule.B, rule.Result, id))
			}
		}
	}

	// Bestiary IDs unique; pinned skill lists reference registered skills.
	monsterIDs := map[string]bool{}
	for _, m := range defs.Bestiary {
		if monsterIDs[m.ID] {
			ve.Errors = append(ve.Errors, fmt.Sprintf("duplicate monster ID %q", m.ID))
		}
		monsterIDs[m.ID] = true
		for _, id := range m.Skills {
			if !defs.Registry.Has(id) {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"monster %q references undefined skill %q", m.ID, id))
			}
		}
	}

	// Starting skills, if pinned, reference registered skills.
	for _, id := range defs.Game.StartingSkills {
		if !defs.Registry.Has(id) {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"starting skill %q is not defined", id))
		}
	}

	if defs.Game.StartLayer > 0 {
		ve.Errors = append(ve.Errors, fmt.Sprintf(
			"Game.start_layer must be negative (depth below the surface), got %d", defs.Game.StartLayer))
	}

	for _, w := range ve.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}
