package action

import (
	"testing"

	"github.com/gravitas-games/tacticsd/internal/engine"
	"github.com/gravitas-games/tacticsd/internal/grid"
	"github.com/gravitas-games/tacticsd/internal/recipe"
)

func newMatch() *engine.Match {
	return &engine.Match{
		ID:       "m1",
		Version:  1,
		GridSize: grid.Size{W: 16, H: 16},
		Status:   engine.StatusActive,
		Entities: engine.Entities{
			Player: engine.NewEntity(grid.Cell{X: 4, Y: 4}, "u1", "alice"),
			AI:     engine.NewEntity(grid.Cell{X: 10, Y: 5}, "", "ai"),
		},
	}
}

func catalog() *recipe.Catalog {
	return recipe.NewCatalog(recipe.DefaultRecipes())
}

func TestMoveConsumesTurnAndPicksUpResource(t *testing.T) {
	m := newMatch()
	m.Resources.Trees = []grid.Cell{{X: 5, Y: 4}}

	to := grid.Cell{X: 5, Y: 4}
	out, err := ResolveMove(m, engine.SidePlayer, MoveParams{To: &to})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.ConsumeTurn {
		t.Fatal("expected MOVE to consume a turn")
	}
	if m.Entities.Player.Pos != to {
		t.Fatalf("expected player at %+v, got %+v", to, m.Entities.Player.Pos)
	}
	if m.Entities.Player.Inventory["wood"] != 1 {
		t.Fatalf("expected auto-pickup to add 1 wood, got %d", m.Entities.Player.Inventory["wood"])
	}
	if len(m.Resources.Trees) != 0 {
		t.Fatal("expected tree resource to be removed after pickup")
	}
}

func TestMoveTooFarRejected(t *testing.T) {
	m := newMatch()
	to := grid.Cell{X: 6, Y: 4}
	before := m.Version
	_, err := ResolveMove(m, engine.SidePlayer, MoveParams{To: &to})
	if err == nil {
		t.Fatal("expected validation error for move distance 2 without move2")
	}
	if m.Entities.Player.Pos != (grid.Cell{X: 4, Y: 4}) {
		t.Fatal("player position must not change on rejected move")
	}
	if m.Version != before {
		t.Fatal("version must not change on rejected action")
	}
}

func TestShootStraightHitDealsExactDamage(t *testing.T) {
	m := newMatch()
	m.Entities.Player.Pos = grid.Cell{X: 2, Y: 5}
	m.Entities.AI.Pos = grid.Cell{X: 10, Y: 5}
	m.Entities.AI.HP = 50
	m.Entities.Player.Weapons["weapon.straight.t5"] = true

	out, err := ResolveShoot(m, engine.SidePlayer, ShootParams{WeaponKey: "weapon.straight.t5", Target: grid.Cell{X: 10, Y: 5}}, catalog())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.ConsumeTurn {
		t.Fatal("expected SHOOT to consume a turn")
	}
	if m.Entities.AI.HP != 0 {
		t.Fatalf("expected AI HP to reach 0 (55 dmg vs 50 hp), got %d", m.Entities.AI.HP)
	}
	if m.Status != engine.StatusEnded {
		t.Fatal("expected match to end")
	}
	if m.Winner == nil || *m.Winner != engine.SidePlayer {
		t.Fatalf("expected player to win, got %+v", m.Winner)
	}
}

func TestShootMissLeavesHPUnchanged(t *testing.T) {
	m := newMatch()
	m.Entities.Player.Pos = grid.Cell{X: 2, Y: 5}
	m.Entities.AI.Pos = grid.Cell{X: 10, Y: 6}
	m.Entities.AI.HP = 50
	m.Entities.Player.Weapons["weapon.straight.t5"] = true

	_, err := ResolveShoot(m, engine.SidePlayer, ShootParams{WeaponKey: "weapon.straight.t5", Target: grid.Cell{X: 8, Y: 5}}, catalog())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Entities.AI.HP != 50 {
		t.Fatalf("expected unchanged HP on miss, got %d", m.Entities.AI.HP)
	}
}

func TestCraftWeaponIsFreeAndAtomic(t *testing.T) {
	m := newMatch()
	m.Entities.Player.Inventory["wood"] = 8
	m.Entities.Player.Inventory["stone"] = 3

	out, err := ResolveCraftWeapon(m, engine.SidePlayer, CraftWeaponParams{Key: "weapon.straight.t3"}, catalog())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.ConsumeTurn {
		t.Fatal("CRAFT_WEAPON must not consume a turn")
	}
	if !m.Entities.Player.Weapons["weapon.straight.t3"] {
		t.Fatal("expected weapon to be granted")
	}
	if m.Entities.Player.Inventory["wood"] != 2 || m.Entities.Player.Inventory["stone"] != 0 {
		t.Fatalf("unexpected leftover inventory: %+v", m.Entities.Player.Inventory)
	}
}

func TestCraftWeaponInsufficientResourcesNoDecrement(t *testing.T) {
	m := newMatch()
	m.Entities.Player.Inventory["wood"] = 1
	_, err := ResolveCraftWeapon(m, engine.SidePlayer, CraftWeaponParams{Key: "weapon.straight.t3"}, catalog())
	if err == nil {
		t.Fatal("expected insufficient-resources error")
	}
	if m.Entities.Player.Inventory["wood"] != 1 {
		t.Fatal("expected no partial decrement on failure")
	}
}

func TestHealFromInventoryClampsToHundred(t *testing.T) {
	m := newMatch()
	m.Entities.Player.HP = 90
	m.Entities.Player.Inventory["heal.medium"] = 1

	out, err := ResolveHeal(m, engine.SidePlayer, HealParams{Key: "heal.medium"}, catalog())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.ConsumeTurn {
		t.Fatal("HEAL must not consume a turn")
	}
	if m.Entities.Player.HP != 100 {
		t.Fatalf("expected clamp to 100, got %d", m.Entities.Player.HP)
	}
	if m.Entities.Player.Inventory["heal.medium"] != 0 {
		t.Fatal("expected heal item to be consumed")
	}
}

func TestInteractGathersAdjacentResource(t *testing.T) {
	m := newMatch()
	m.Resources.Stones = []grid.Cell{{X: 4, Y: 5}}

	out, err := ResolveInteract(m, engine.SidePlayer, InteractParams{ResourceType: "stone", Pos: grid.Cell{X: 4, Y: 5}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.ConsumeTurn {
		t.Fatal("expected INTERACT to consume a turn")
	}
	if m.Entities.Player.Inventory["stone"] != 1 {
		t.Fatalf("expected 1 stone, got %d", m.Entities.Player.Inventory["stone"])
	}
	if len(m.Resources.Stones) != 0 {
		t.Fatal("expected resource removed from map")
	}
}
