// Package types defines the shared data structures for the Predator's
// Odyssey engine. This package contains only type definitions — no logic,
// no methods beyond trivial accessors.
package types

// Category is the elemental school a skill belongs to.
type Category string

const (
	CategoryWater     Category = "water"
	CategoryWind      Category = "wind"
	CategoryEarth     Category = "earth"
	CategoryFire      Category = "fire"
	CategoryVenom     Category = "venom"
	CategoryLightning Category = "lightning"
	// CategoryFusion marks skills that only exist as fusion results.
	CategoryFusion Category = "fusion"
)

// EffectKind is the closed set of special behaviors a skill can carry.
type EffectKind int

const (
	EffectNone EffectKind = iota
	EffectDamageOverTime
	EffectSlow
	EffectMultiTarget
)

// String returns the content-file spelling of the effect kind.
func (k EffectKind) String() string {
	switch k {
	case EffectDamageOverTime:
		return "damage_over_time"
	case EffectSlow:
		return "slow"
	case EffectMultiTarget:
		return "multi_target"
	default:
		return "none"
	}
}

// Skill is an immutable registered ability. Skills are registered once and
// referenced by ID thereafter.
type Skill struct {
	ID          string
	Name        string
	Description string
	Category    Category
	Power       int // base power, non-negative
	Effect      EffectKind
}

// FusionRuleDef maps an unordered pair of skill IDs to a resulting skill ID.
type FusionRuleDef struct {
	A      string
	B      string
	Result string
}

// MonsterDef is a bestiary entry. An empty Skills list means the spawner
// samples 1–2 skills from the registry at encounter setup.
type MonsterDef struct {
	ID     string
	Name   string
	Health int
	Skills []string
}

// GameDef holds game metadata from Lua.
type GameDef struct {
	Title          string
	Author         string
	Version        string
	Intro          string
	PlayerName     string
	PlayerHealth   int
	StartingSkills []string // empty = sample two from the registry
	StartLayer     int      // negative; the run ends when the player ascends past -1
}

// Event is emitted by engine operations for tracing and presentation.
type Event struct {
	Type string
	Data map[string]any
}

// Result is the output of a single engine operation: events for machines,
// output lines for humans.
type Result struct {
	Events []Event
	Output []string
}

// Outcome is the state of an encounter.
type Outcome int

const (
	Ongoing Outcome = iota
	PlayerVictory
	PlayerDefeat
)

// String returns a human-readable outcome name.
func (o Outcome) String() string {
	switch o {
	case PlayerVictory:
		return "victory"
	case PlayerDefeat:
		return "defeat"
	default:
		return "ongoing"
	}
}
