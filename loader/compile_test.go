package loader

import (
	"strings"
	"testing"

	"github.com/S-tiemersma/predators-odyssey/types"
	lua "github.com/yuin/gopher-lua"
)

// newTestVM creates a sandboxed Lua VM with the API registered and a fresh collector.
func newTestVM() (*lua.LState, *collector) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibs(L)
	sandbox(L)
	coll := &collector{}
	registerAPI(L, coll)
	return L, coll
}

func TestCompileGame(t *testing.T) {
	L, _ := newTestVM()
	defer L.Close()

	if err := L.DoString(`
		return {
			title = "Test Game",
			author = "Author",
			version = "1.0",
			intro = "Welcome!",
			player_name = "Rou",
			player_health = 25,
			starting_skills = { "spark" },
			start_layer = -12,
		}
	`); err != nil {
		t.Fatal(err)
	}

	game := compileGame(L.CheckTable(-1))

	if game.Title != "Test Game" {
		t.Errorf("Title = %q, want %q", game.Title, "Test Game")
	}
	if game.Author != "Author" {
		t.Errorf("Author = %q", game.Author)
	}
	if game.Version != "1.0" {
		t.Errorf("Version = %q", game.Version)
	}
	if game.Intro != "Welcome!" {
		t.Errorf("Intro = %q", game.Intro)
	}
	if game.PlayerHealth != 25 {
		t.Errorf("PlayerHealth = %d", game.PlayerHealth)
	}
	if game.StartLayer != -12 {
		t.Errorf("StartLayer = %d", game.StartLayer)
	}
	if len(game.StartingSkills) != 1 || game.StartingSkills[0] != "spark" {
		t.Errorf("StartingSkills = %v", game.StartingSkills)
	}
}

func TestCompileSkill_Defaults(t *testing.T) {
	L, coll := newTestVM()
	defer L.Close()

	if err := L.DoString(`
		Skill "bite" {
			power = 3,
			category = "earth",
		}
	`); err != nil {
		t.Fatal(err)
	}
	if len(coll.skills) != 1 {
		t.Fatalf("collected %d skills, want 1", len(coll.skills))
	}

	skill, err := compileSkill(coll.skills[0])
	if err != nil {
		t.Fatalf("compileSkill failed: %v", err)
	}
	if skill.Name != "bite" {
		t.Errorf("Name = %q, want the ID as default", skill.Name)
	}
	if skill.Effect != types.EffectNone {
		t.Errorf("Effect = %v, want none", skill.Effect)
	}
	if skill.Category != types.CategoryEarth {
		t.Errorf("Category = %q", skill.Category)
	}
}

func TestCompileSkill_UnknownEffect(t *testing.T) {
	L, coll := newTestVM()
	defer L.Close()

	if err := L.DoString(`
		Skill "weird" {
			power = 3,
			effect = "explode",
		}
	`); err != nil {
		t.Fatal(err)
	}

	_, err := compileSkill(coll.skills[0])
	if err == nil {
		t.Fatal("expected error for unknown effect")
	}
	if !strings.Contains(err.Error(), "explode") {
		t.Errorf("error = %q, expected it to name the effect", err.Error())
	}
}

func TestCompileMonster_RequiresPositiveHealth(t *testing.T) {
	L, coll := newTestVM()
	defer L.Close()

	if err := L.DoString(`
		Monster "ghost" {
			skills = { "wail" },
		}
	`); err != nil {
		t.Fatal(err)
	}

	if _, err := compileMonster(coll.monsters[0]); err == nil {
		t.Fatal("expected error for missing health")
	}
}

func TestCompile_SourceOrderPreserved(t *testing.T) {
	L, coll := newTestVM()
	defer L.Close()

	if err := L.DoString(`
		Game { title = "Order" }
		Skill "c_skill" { power = 1, category = "fire" }
		Skill "a_skill" { power = 2, category = "water" }
		Skill "b_skill" { power = 3, category = "wind" }
		Monster "rat" { health = 4 }
	`); err != nil {
		t.Fatal(err)
	}

	defs, err := compile(coll)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	all := defs.Registry.All()
	want := []string{"c_skill", "a_skill", "b_skill"}
	for i := range want {
		if all[i].ID != want[i] {
			t.Fatalf("registry order = %v, want %v", all, want)
		}
	}
}

func TestParseEffect(t *testing.T) {
	cases := []struct {
		in   string
		want types.EffectKind
	}{
		{"", types.EffectNone},
		{"none", types.EffectNone},
		{"damage_over_time", types.EffectDamageOverTime},
		{"dot", types.EffectDamageOverTime},
		{"slow", types.EffectSlow},
		{"multi_target", types.EffectMultiTarget},
	}
	for _, c := range cases {
		got, err := parseEffect(c.in)
		if err != nil {
			t.Errorf("parseEffect(%q) failed: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("parseEffect(%q) = %v, want %v", c.in, got, c.want)
		}
	}

	if _, err := parseEffect("petrify"); err == nil {
		t.Error("expected error for unknown effect spelling")
	}
}
