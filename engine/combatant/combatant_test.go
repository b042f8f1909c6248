package combatant

import (
	"reflect"
	"testing"

	"github.com/S-tiemersma/predators-odyssey/types"
)

func TestTakeDamage_NeverBelowZero(t *testing.T) {
	// Property: for all h ≥ 0 and d ≥ 0, health ends at max(0, h−d') where
	// d' is the post-mitigation damage.
	for _, health := range []int{0, 1, 5, 20} {
		for _, dmg := range []int{0, 1, 5, 100, 1 << 30} {
			c := New("Goblin", health, nil)
			lost := c.TakeDamage(dmg)
			if c.Health < 0 {
				t.Fatalf("health %d after %d damage from %d, want >= 0", c.Health, dmg, health)
			}
			if lost != health-c.Health {
				t.Errorf("TakeDamage returned %d, health went %d -> %d", lost, health, c.Health)
			}
		}
	}
}

func TestTakeDamage_GuardMitigation(t *testing.T) {
	c := New("Slime", 10, nil)
	c.Guard = 3

	if lost := c.TakeDamage(5); lost != 2 {
		t.Errorf("lost = %d, want 2 (5 - 3 guard)", lost)
	}
	if c.Health != 8 {
		t.Errorf("health = %d, want 8", c.Health)
	}

	// Guard exceeding the hit means zero damage, never healing.
	if lost := c.TakeDamage(2); lost != 0 {
		t.Errorf("lost = %d, want 0", lost)
	}
	if c.Health != 8 {
		t.Errorf("health = %d, want 8", c.Health)
	}
}

func TestTakeRawDamage_BypassesGuard(t *testing.T) {
	c := New("Slime", 10, nil)
	c.Guard = 100
	if lost := c.TakeRawDamage(4); lost != 4 {
		t.Errorf("lost = %d, want 4", lost)
	}
}

func TestIsDefeated(t *testing.T) {
	c := New("Bat", 3, nil)
	if c.IsDefeated() {
		t.Error("fresh combatant reported defeated")
	}
	c.TakeDamage(3)
	if !c.IsDefeated() {
		t.Error("combatant at 0 HP not reported defeated")
	}
}

func TestHeal_ClampsAtMax(t *testing.T) {
	c := New("Imp", 10, nil)
	c.TakeDamage(4)
	if healed := c.Heal(3); healed != 3 {
		t.Errorf("healed = %d, want 3", healed)
	}
	if healed := c.Heal(10); healed != 1 {
		t.Errorf("healed = %d, want 1 (clamped)", healed)
	}
	if c.Health != c.MaxHealth {
		t.Errorf("health = %d, want max %d", c.Health, c.MaxHealth)
	}
}

func TestLearn_Idempotent(t *testing.T) {
	c := New("You", 15, []string{"water_jet"})
	c.Learn("ember")
	once := c.KnownSkills()

	c.Learn("ember")
	twice := c.KnownSkills()

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("Learn not idempotent: %v vs %v", once, twice)
	}
	if !reflect.DeepEqual(twice, []string{"water_jet", "ember"}) {
		t.Errorf("known skills = %v, want acquisition order", twice)
	}
}

func TestNew_CollapsesDuplicates(t *testing.T) {
	c := New("Spider", 4, []string{"thread_shot", "thread_shot"})
	if got := c.KnownSkills(); len(got) != 1 {
		t.Errorf("known skills = %v, want one entry", got)
	}
}

func TestKnownSkills_IsACopy(t *testing.T) {
	c := New("You", 15, []string{"a", "b"})
	view := c.KnownSkills()
	view[0] = "mutated"
	if c.KnownSkills()[0] != "a" {
		t.Error("KnownSkills exposed internal state")
	}
}

func TestAfflict_RefreshNotStack(t *testing.T) {
	c := New("Goblin", 10, nil)
	c.Afflict(types.EffectDamageOverTime, 2, 2)
	c.BeginTurn() // 1 turn left

	// Reapplying resets duration; strength is replaced, not added.
	c.Afflict(types.EffectDamageOverTime, 2, 3)
	if got := c.StatusStrength(types.EffectDamageOverTime); got != 3 {
		t.Errorf("strength = %d, want 3", got)
	}

	// Two ticks remain, then expiry.
	if dot, _ := c.BeginTurn(); dot != 3 {
		t.Errorf("tick 1 = %d, want 3", dot)
	}
	dot, expired := c.BeginTurn()
	if dot != 3 {
		t.Errorf("tick 2 = %d, want 3", dot)
	}
	if len(expired) != 1 || expired[0] != types.EffectDamageOverTime {
		t.Errorf("expired = %v, want [damage_over_time]", expired)
	}
	if c.HasStatus(types.EffectDamageOverTime) {
		t.Error("status still active after expiry")
	}
}

func TestBeginTurn_NoStatuses(t *testing.T) {
	c := New("Kobold", 6, nil)
	dot, expired := c.BeginTurn()
	if dot != 0 || len(expired) != 0 {
		t.Errorf("BeginTurn = (%d, %v), want (0, none)", dot, expired)
	}
}

func TestBeginTurn_ExpiryOrderIsStable(t *testing.T) {
	// Two statuses lapsing on the same tick always report in the same
	// order, so traces replay identically.
	for i := 0; i < 20; i++ {
		c := New("Spider", 8, nil)
		c.Afflict(types.EffectSlow, 1, 50)
		c.Afflict(types.EffectDamageOverTime, 1, 2)

		_, expired := c.BeginTurn()
		if len(expired) != 2 {
			t.Fatalf("expired = %v, want both statuses", expired)
		}
		if expired[0] != types.EffectDamageOverTime || expired[1] != types.EffectSlow {
			t.Fatalf("expired = %v, want [damage_over_time slow]", expired)
		}
	}
}
