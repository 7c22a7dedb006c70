package worldgen

import (
	"testing"

	"github.com/gravitas-games/tacticsd/internal/recipe"
)

func catalog() *recipe.Catalog {
	return recipe.NewCatalog(recipe.DefaultRecipes())
}

func TestGenerateIsDeterministic(t *testing.T) {
	p := Params{Seed: "abc", Width: 16, Height: 16, ELO: 1200}
	a := Generate(p, catalog())
	b := Generate(p, catalog())

	if a.Spawn != b.Spawn {
		t.Fatalf("spawn diverged: %+v vs %+v", a.Spawn, b.Spawn)
	}
	if len(a.Resources.Trees) != len(b.Resources.Trees) {
		t.Fatalf("resource counts diverged")
	}
	for i := range a.Resources.Trees {
		if a.Resources.Trees[i] != b.Resources.Trees[i] {
			t.Fatalf("tree %d diverged: %+v vs %+v", i, a.Resources.Trees[i], b.Resources.Trees[i])
		}
	}
	if len(a.Loot) != len(b.Loot) {
		t.Fatalf("loot count diverged")
	}
	for i := range a.Loot {
		if a.Loot[i] != b.Loot[i] {
			t.Fatalf("loot %d diverged: %+v vs %+v", i, a.Loot[i], b.Loot[i])
		}
	}
}

func TestSpawnSeparationConstraint(t *testing.T) {
	p := Params{Seed: "xyz", Width: 16, Height: 16, ELO: 1200}
	w := Generate(p, catalog())
	if w.Constraints.ColumnSeparationOK {
		dx := w.Spawn.AI.X - w.Spawn.Player.X
		if dx < 0 {
			dx = -dx
		}
		if dx < 10 {
			t.Fatalf("expected |dx|>=10, got %d", dx)
		}
		if w.Spawn.AI.Y == w.Spawn.Player.Y {
			t.Fatalf("expected distinct rows")
		}
	}
}

func TestElo1200ForcesGradeOne(t *testing.T) {
	cat := catalog()
	for _, seed := range []string{"s1", "s2", "s3", "s4", "s5"} {
		w := Generate(Params{Seed: seed, Width: 16, Height: 16, ELO: 1200}, cat)
		for _, item := range w.Loot {
			if isWeaponKey(item.Key) {
				r, ok := cat.Get(item.Key)
				if !ok || r.Output.Weapon == nil {
					t.Fatalf("unknown weapon key %s", item.Key)
				}
				if r.Output.Weapon.Grade != 1 {
					t.Fatalf("expected grade 1 at elo 1200, got %d for %s", r.Output.Weapon.Grade, item.Key)
				}
			}
		}
	}
}

func TestWeaponCapAndHealingPresence(t *testing.T) {
	cat := catalog()
	for _, elo := range []int{700, 1200, 1900} {
		w := Generate(Params{Seed: "cap-test", Width: 16, Height: 16, ELO: elo}, cat)
		weapons := 0
		healing := false
		for _, item := range w.Loot {
			if isWeaponKey(item.Key) {
				weapons++
			}
			if isHealingKey(item.Key) {
				healing = true
			}
		}
		if weapons > maxWeapons {
			t.Fatalf("elo %d: expected at most %d weapons, got %d", elo, maxWeapons, weapons)
		}
		if !healing {
			t.Fatalf("elo %d: expected at least one healing item", elo)
		}
	}
}
