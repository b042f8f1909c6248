package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers the Lua content constructors as globals.
func registerAPI(L *lua.LState, coll *collector) {
	// Game { title = "...", ... }
	L.SetGlobal("Game", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		coll.game = tbl
		return 0
	}))

	// Skill "id" { ... } — curried: Skill("id") returns a function that
	// takes the definition table.
	L.SetGlobal("Skill", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.skills = append(coll.skills, rawSkill{id: id, table: tbl})
			return 0
		}))
		return 1
	}))

	// Monster "id" { ... } — curried, same shape as Skill.
	L.SetGlobal("Monster", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.monsters = append(coll.monsters, rawMonster{id: id, table: tbl})
			return 0
		}))
		return 1
	}))

	// Fusion("a", "b", "result")
	L.SetGlobal("Fusion", L.NewFunction(func(L *lua.LState) int {
		a := L.CheckString(1)
		b := L.CheckString(2)
		result := L.CheckString(3)
		coll.fusions = append(coll.fusions, rawFusion{a: a, b: b, result: result})
		return 0
	}))
}
