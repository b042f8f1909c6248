package engine

import (
	"errors"
	"strings"
	"testing"

	"github.com/S-tiemersma/predators-odyssey/engine/combatant"
	"github.com/S-tiemersma/predators-odyssey/engine/fusion"
	"github.com/S-tiemersma/predators-odyssey/engine/skills"
	"github.com/S-tiemersma/predators-odyssey/types"
)

// testDefs builds a small content set shared by the engine tests.
func testDefs(t *testing.T) *Defs {
	t.Helper()
	reg := skills.NewRegistry()
	for _, s := range []types.Skill{
		{ID: "water_jet", Name: "Water Jet", Category: types.CategoryWater, Power: 5},
		{ID: "ember", Name: "Ember", Category: types.CategoryFire, Power: 4},
		{ID: "fireball", Name: "Fireball", Category: types.CategoryFire, Power: 6},
		{ID: "electric_current", Name: "Electric Current", Category: types.CategoryLightning, Power: 5},
		{ID: "thread_shot", Name: "Thread Shot", Category: types.CategoryWind, Power: 3, Effect: types.EffectSlow},
		{ID: "acid_glob", Name: "Acid Glob", Category: types.CategoryVenom, Power: 4, Effect: types.EffectDamageOverTime},
		{ID: "conductive_spray", Name: "Conductive Spray", Category: types.CategoryFusion, Power: 9, Effect: types.EffectMultiTarget},
		{ID: "acidic_web", Name: "Acidic Web", Category: types.CategoryFusion, Power: 8, Effect: types.EffectSlow},
	} {
		if err := reg.Register(s); err != nil {
			t.Fatalf("registering %q: %v", s.ID, err)
		}
	}

	tbl := fusion.NewTable()
	if err := tbl.Register("thread_shot", "acid_glob", "acidic_web"); err != nil {
		t.Fatalf("registering fusion: %v", err)
	}
	if err := tbl.Register("water_jet", "electric_current", "conductive_spray"); err != nil {
		t.Fatalf("registering fusion: %v", err)
	}

	return &Defs{
		Game: types.GameDef{
			Title:        "Test Depths",
			PlayerHealth: 20,
			StartLayer:   -10,
		},
		Registry: reg,
		Fusions:  tbl,
		Bestiary: []types.MonsterDef{
			{ID: "goblin", Name: "Goblin", Health: 10, Skills: []string{"ember"}},
		},
	}
}

// The reference encounter: player (20 HP, Water Jet power 5) against an
// enemy (10 HP, Ember power 4). Health values after each turn must be
// exactly reproducible, and the defeated enemy never gets a second turn.
func TestEncounter_ReferenceScenario(t *testing.T) {
	defs := testDefs(t)
	player := combatant.New("You", 20, []string{"water_jet"})
	enemy := combatant.New("Goblin", 10, []string{"ember"})

	enc, err := NewEncounter(defs.Registry, player, enemy, PolicyStrongestSkill)
	if err != nil {
		t.Fatalf("NewEncounter failed: %v", err)
	}

	// Turn 1: player deals 5, enemy retaliates for 4.
	if _, err := enc.Round("water_jet"); err != nil {
		t.Fatalf("round 1 failed: %v", err)
	}
	if enemy.Health != 5 {
		t.Errorf("enemy health after turn 1 = %d, want 5", enemy.Health)
	}
	if player.Health != 16 {
		t.Errorf("player health after turn 1 = %d, want 16", player.Health)
	}
	if enc.Outcome() != types.Ongoing {
		t.Fatalf("outcome after turn 1 = %v, want ongoing", enc.Outcome())
	}

	// Turn 2: player deals 5, enemy reaches 0 and does not act again.
	if _, err := enc.Round("water_jet"); err != nil {
		t.Fatalf("round 2 failed: %v", err)
	}
	if enemy.Health != 0 {
		t.Errorf("enemy health after turn 2 = %d, want 0", enemy.Health)
	}
	if player.Health != 16 {
		t.Errorf("player health after turn 2 = %d, want 16 (no final enemy turn)", player.Health)
	}
	if enc.Outcome() != types.PlayerVictory {
		t.Errorf("outcome = %v, want victory", enc.Outcome())
	}
}

func TestEncounter_PlayerDefeat(t *testing.T) {
	defs := testDefs(t)
	player := combatant.New("You", 4, []string{"thread_shot"})
	enemy := combatant.New("Goblin", 100, []string{"fireball"})

	enc, err := NewEncounter(defs.Registry, player, enemy, PolicyStrongestSkill)
	if err != nil {
		t.Fatalf("NewEncounter failed: %v", err)
	}

	if _, err := enc.Round("thread_shot"); err != nil {
		t.Fatalf("round failed: %v", err)
	}
	// Slowed fireball: 6 halved to 3; player survives at 1.
	if player.Health != 1 {
		t.Fatalf("player health = %d, want 1 (enemy slowed)", player.Health)
	}

	if _, err := enc.Round("thread_shot"); err != nil {
		t.Fatalf("round failed: %v", err)
	}
	if enc.Outcome() != types.PlayerDefeat {
		t.Errorf("outcome = %v, want defeat", enc.Outcome())
	}
	if player.Health != 0 {
		t.Errorf("player health = %d, want 0", player.Health)
	}
}

func TestEncounter_RejectsUnlearnedSkill(t *testing.T) {
	defs := testDefs(t)
	player := combatant.New("You", 20, []string{"water_jet"})
	enemy := combatant.New("Goblin", 10, []string{"ember"})

	enc, err := NewEncounter(defs.Registry, player, enemy, PolicyStrongestSkill)
	if err != nil {
		t.Fatalf("NewEncounter failed: %v", err)
	}

	_, err = enc.Round("fireball")
	if !errors.Is(err, ErrSkillNotKnown) {
		t.Fatalf("Round = %v, want ErrSkillNotKnown", err)
	}
	// A rejected request leaves everything untouched.
	if player.Health != 20 || enemy.Health != 10 {
		t.Errorf("health mutated on rejected request: player %d, enemy %d", player.Health, enemy.Health)
	}
	if enc.Outcome() != types.Ongoing {
		t.Errorf("outcome = %v, want ongoing", enc.Outcome())
	}
}

func TestEncounter_RoundAfterEnd(t *testing.T) {
	defs := testDefs(t)
	player := combatant.New("You", 20, []string{"fireball"})
	enemy := combatant.New("Bat", 4, []string{"ember"})

	enc, _ := NewEncounter(defs.Registry, player, enemy, PolicyStrongestSkill)
	if _, err := enc.Round("fireball"); err != nil {
		t.Fatalf("round failed: %v", err)
	}
	if enc.Outcome() != types.PlayerVictory {
		t.Fatalf("outcome = %v, want victory", enc.Outcome())
	}

	if _, err := enc.Round("fireball"); !errors.Is(err, ErrEncounterOver) {
		t.Errorf("Round after end = %v, want ErrEncounterOver", err)
	}
}

func TestEncounter_RequiresUndefeatedCombatants(t *testing.T) {
	defs := testDefs(t)
	dead := combatant.New("You", 0, []string{"water_jet"})
	enemy := combatant.New("Goblin", 10, []string{"ember"})

	if _, err := NewEncounter(defs.Registry, dead, enemy, PolicyStrongestSkill); err == nil {
		t.Error("expected error for defeated player")
	}
	if _, err := NewEncounter(defs.Registry, enemy, dead, PolicyStrongestSkill); err == nil {
		t.Error("expected error for defeated enemy")
	}
}

// Damage over time lands at the start of the afflicted side's next turn and
// refreshes rather than stacking.
func TestEncounter_DamageOverTime(t *testing.T) {
	defs := testDefs(t)
	player := combatant.New("You", 50, []string{"acid_glob"})
	enemy := combatant.New("Goblin", 20, []string{"ember"})

	enc, _ := NewEncounter(defs.Registry, player, enemy, PolicyStrongestSkill)

	// Round 1: hit 4, then the tick (2) lands as the enemy's turn starts.
	if _, err := enc.Round("acid_glob"); err != nil {
		t.Fatalf("round 1 failed: %v", err)
	}
	if enemy.Health != 14 {
		t.Errorf("enemy health after round 1 = %d, want 14 (20 -4 hit -2 tick)", enemy.Health)
	}

	// Round 2: reapplication refreshes; another hit and another tick.
	if _, err := enc.Round("acid_glob"); err != nil {
		t.Fatalf("round 2 failed: %v", err)
	}
	if enemy.Health != 8 {
		t.Errorf("enemy health after round 2 = %d, want 8", enemy.Health)
	}
}

func TestEncounter_MultiTargetFollowUp(t *testing.T) {
	defs := testDefs(t)
	player := combatant.New("You", 50, []string{"conductive_spray"})
	enemy := combatant.New("Goblin", 20, []string{"ember"})

	enc, _ := NewEncounter(defs.Registry, player, enemy, PolicyStrongestSkill)
	if _, err := enc.Round("conductive_spray"); err != nil {
		t.Fatalf("round failed: %v", err)
	}
	// Main hit 9 plus follow-up 4.
	if enemy.Health != 7 {
		t.Errorf("enemy health = %d, want 7", enemy.Health)
	}
}

func TestEncounter_EnemyPolicy(t *testing.T) {
	defs := testDefs(t)

	t.Run("strongest skill", func(t *testing.T) {
		player := combatant.New("You", 50, []string{"water_jet"})
		enemy := combatant.New("Imp", 50, []string{"ember", "fireball"})
		enc, _ := NewEncounter(defs.Registry, player, enemy, PolicyStrongestSkill)
		if _, err := enc.Round("water_jet"); err != nil {
			t.Fatalf("round failed: %v", err)
		}
		if player.Health != 44 {
			t.Errorf("player health = %d, want 44 (fireball, power 6)", player.Health)
		}
	})

	t.Run("strongest breaks ties by acquisition", func(t *testing.T) {
		player := combatant.New("You", 50, []string{"water_jet"})
		enemy := combatant.New("Imp", 50, []string{"electric_current", "water_jet"})
		enc, _ := NewEncounter(defs.Registry, player, enemy, PolicyStrongestSkill)
		res, err := enc.Round("water_jet")
		if err != nil {
			t.Fatalf("round failed: %v", err)
		}
		if !outputContains(res, "Electric Current") {
			t.Errorf("enemy should use its earliest 5 power skill; output: %v", res.Output)
		}
	})

	t.Run("first skill", func(t *testing.T) {
		player := combatant.New("You", 50, []string{"water_jet"})
		enemy := combatant.New("Imp", 50, []string{"ember", "fireball"})
		enc, _ := NewEncounter(defs.Registry, player, enemy, PolicyFirstSkill)
		if _, err := enc.Round("water_jet"); err != nil {
			t.Fatalf("round failed: %v", err)
		}
		if player.Health != 46 {
			t.Errorf("player health = %d, want 46 (ember, power 4)", player.Health)
		}
	})
}

func outputContains(res types.Result, substr string) bool {
	for _, line := range res.Output {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}
