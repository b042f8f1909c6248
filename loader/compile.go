package loader

import (
	"fmt"

	"github.com/S-tiemersma/predators-odyssey/engine"
	"github.com/S-tiemersma/predators-odyssey/engine/fusion"
	"github.com/S-tiemersma/predators-odyssey/engine/skills"
	"github.com/S-tiemersma/predators-odyssey/types"
	lua "github.com/yuin/gopher-lua"
)

// rawSkill holds a skill table before compilation.
type rawSkill struct {
	id    string
	table *lua.LTable
}

// rawMonster holds a bestiary table before compilation.
type rawMonster struct {
	id    string
	table *lua.LTable
}

// rawFusion holds a fusion rule before compilation.
type rawFusion struct {
	a, b, result string
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getInt returns an int field from a Lua table, or def if missing.
func getInt(tbl *lua.LTable, key string, def int) int {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return int(n)
	}
	return def
}

// getStringList returns an array field from a Lua table as a string slice,
// or nil if missing.
func getStringList(tbl *lua.LTable, key string) []string {
	v := tbl.RawGetString(key)
	arr, ok := v.(*lua.LTable)
	if !ok {
		return nil
	}
	var out []string
	for i := 1; i <= arr.MaxN(); i++ {
		if s, ok := arr.RawGetInt(i).(lua.LString); ok {
			out = append(out, string(s))
		}
	}
	return out
}

// compile converts all collected Lua data into engine definitions.
// Registration order follows source order, which front ends rely on for
// stable listings.
func compile(coll *collector) (*engine.Defs, error) {
	defs := &engine.Defs{
		Registry: skills.NewRegistry(),
		Fusions:  fusion.NewTable(),
	}

	if coll.game == nil {
		return nil, fmt.Errorf("no Game{} definition found")
	}
	defs.Game = compileGame(coll.game)

	for _, raw := range coll.skills {
		skill, err := compileSkill(raw)
		if err != nil {
			return nil, err
		}
		if err := defs.Registry.Register(skill); err != nil {
			return nil, err
		}
	}

	for _, raw := range coll.fusions {
		if err := defs.Fusions.Register(raw.a, raw.b, raw.result); err != nil {
			return nil, err
		}
	}

	for _, raw := range coll.monsters {
		monster, err := compileMonster(raw)
		if err != nil {
			return nil, err
		}
		defs.Bestiary = append(defs.Bestiary, monster)
	}

	return defs, nil
}

func compileGame(tbl *lua.LTable) types.GameDef {
	return types.GameDef{
		Title:          getString(tbl, "title"),
		Author:         getString(tbl, "author"),
		Version:        getString(tbl, "version"),
		Intro:          getString(tbl, "intro"),
		PlayerName:     getString(tbl, "player_name"),
		PlayerHealth:   getInt(tbl, "player_health", 0),
		StartingSkills: getStringList(tbl, "starting_skills"),
		StartLayer:     getInt(tbl, "start_layer", 0),
	}
}

func compileSkill(raw rawSkill) (types.Skill, error) {
	effect, err := parseEffect(getString(raw.table, "effect"))
	if err != nil {
		return types.Skill{}, fmt.Errorf("skill %q: %w", raw.id, err)
	}
	name := getString(raw.table, "name")
	if name == "" {
		name = raw.id
	}
	return types.Skill{
		ID:          raw.id,
		Name:        name,
		Description: getString(raw.table, "description"),
		Category:    types.Category(getString(raw.table, "category")),
		Power:       getInt(raw.table, "power", 0),
		Effect:      effect,
	}, nil
}

func compileMonster(raw rawMonster) (types.MonsterDef, error) {
	health := getInt(raw.table, "health", 0)
	if health <= 0 {
		return types.MonsterDef{}, fmt.Errorf("monster %q: health must be positive, got %d", raw.id, health)
	}
	name := getString(raw.table, "name")
	if name == "" {
		name = raw.id
	}
	return types.MonsterDef{
		ID:     raw.id,
		Name:   name,
		Health: health,
		Skills: getStringList(raw.table, "skills"),
	}, nil
}

// parseEffect maps the content-file effect spelling to the closed kind set.
func parseEffect(s string) (types.EffectKind, error) {
	switch s {
	case "", "none":
		return types.EffectNone, nil
	case "damage_over_time", "dot":
		return types.EffectDamageOverTime, nil
	case "slow":
		return types.EffectSlow, nil
	case "multi_target":
		return types.EffectMultiTarget, nil
	default:
		return types.EffectNone, fmt.Errorf("unknown effect %q", s)
	}
}
