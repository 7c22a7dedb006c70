package engine

import (
	"testing"

	"github.com/gravitas-games/tacticsd/internal/grid"
)

func newTestMatch() *Match {
	return &Match{
		ID:       "m1",
		Version:  1,
		GridSize: grid.Size{W: 16, H: 16},
		Status:   StatusActive,
		Entities: Entities{
			Player: NewEntity(grid.Cell{X: 1, Y: 1}, "u1", "alice"),
			AI:     NewEntity(grid.Cell{X: 14, Y: 14}, "", "ai"),
		},
	}
}

func TestCloneIsDeep(t *testing.T) {
	m := newTestMatch()
	m.Entities.Player.Inventory["wood"] = 5
	cp := m.Clone()
	cp.Entities.Player.Inventory["wood"] = 99
	cp.Entities.Walls = append(cp.Entities.Walls, Wall{Pos: grid.Cell{X: 3, Y: 3}, HP: 30})

	if m.Entities.Player.Inventory["wood"] != 5 {
		t.Fatalf("mutating clone leaked into original: %d", m.Entities.Player.Inventory["wood"])
	}
	if len(m.Entities.Walls) != 0 {
		t.Fatalf("appending to clone walls leaked into original: %d", len(m.Entities.Walls))
	}
}

func TestApplyDamageEndsMatchAndSetsWinner(t *testing.T) {
	m := newTestMatch()
	m.Entities.AI.HP = 10
	m.ApplyDamage(SideAI, 25)

	if m.Entities.AI.HP != 0 {
		t.Fatalf("expected HP clamped to 0, got %d", m.Entities.AI.HP)
	}
	if m.Status != StatusEnded {
		t.Fatalf("expected match to end")
	}
	if m.Winner == nil || *m.Winner != SidePlayer {
		t.Fatalf("expected player to win, got %+v", m.Winner)
	}
}

func TestClampHealNeverExceeds100(t *testing.T) {
	m := newTestMatch()
	m.Entities.Player.HP = 90
	m.ClampHeal(SidePlayer, 50)
	if m.Entities.Player.HP != 100 {
		t.Fatalf("expected clamp to 100, got %d", m.Entities.Player.HP)
	}
}

func TestResourceAtAndRemove(t *testing.T) {
	m := newTestMatch()
	m.Resources.Trees = []grid.Cell{{X: 2, Y: 2}, {X: 3, Y: 3}}
	kind, idx, ok := m.ResourceAt(grid.Cell{X: 3, Y: 3})
	if !ok || kind != "tree" || idx != 1 {
		t.Fatalf("unexpected lookup: %s %d %v", kind, idx, ok)
	}
	m.RemoveResourceAt(kind, idx)
	if len(m.Resources.Trees) != 1 || m.Resources.Trees[0] != (grid.Cell{X: 2, Y: 2}) {
		t.Fatalf("unexpected trees after removal: %+v", m.Resources.Trees)
	}
}

func TestErrorKindOf(t *testing.T) {
	err := Conflict("version mismatch")
	kind, ok := KindOf(err)
	if !ok || kind != ErrConflict {
		t.Fatalf("expected ErrConflict, got %v %v", kind, ok)
	}
}
