package memstore

import (
	"context"
	"testing"

	"github.com/gravitas-games/tacticsd/internal/action"
	"github.com/gravitas-games/tacticsd/internal/ai"
	"github.com/gravitas-games/tacticsd/internal/engine"
	"github.com/gravitas-games/tacticsd/internal/grid"
)

func newMatch(id string) *engine.Match {
	return &engine.Match{
		ID:       id,
		Version:  1,
		GridSize: grid.Size{W: 16, H: 16},
		Status:   engine.StatusActive,
		Entities: engine.Entities{
			Player: engine.NewEntity(grid.Cell{X: 1, Y: 1}, "u1", "alice"),
			AI:     engine.NewEntity(grid.Cell{X: 14, Y: 14}, "", "ai"),
		},
		Players: []engine.PlayerSlot{
			{Slot: 0, Role: engine.SidePlayer, UserID: "u1"},
			{Slot: 1, Role: engine.SideAI},
		},
	}
}

func TestUpdateCASRejectsStaleVersion(t *testing.T) {
	ctx := context.Background()
	s := NewMatchStore()
	m := newMatch("m1")
	if err := s.Insert(ctx, m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded, err := s.Load(ctx, "m1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	loaded.Version = 2
	if err := s.UpdateCAS(ctx, loaded, 1); err != nil {
		t.Fatalf("unexpected error on first CAS: %v", err)
	}

	stale := newMatch("m1")
	stale.Version = 2
	if err := s.UpdateCAS(ctx, stale, 1); err == nil {
		t.Fatal("expected conflict on stale version")
	}
}

func TestLoadReturnsIndependentClone(t *testing.T) {
	ctx := context.Background()
	s := NewMatchStore()
	m := newMatch("m1")
	_ = s.Insert(ctx, m)

	loaded, _ := s.Load(ctx, "m1")
	loaded.Entities.Player.HP = 1

	reloaded, _ := s.Load(ctx, "m1")
	if reloaded.Entities.Player.HP != 100 {
		t.Fatalf("expected stored match unaffected by mutation of loaded clone, got hp=%d", reloaded.Entities.Player.HP)
	}
}

func TestListActiveByUserFiltersAndPaginates(t *testing.T) {
	ctx := context.Background()
	s := NewMatchStore()
	for _, id := range []string{"a", "b", "c"} {
		_ = s.Insert(ctx, newMatch(id))
	}

	items, total, err := s.ListActiveByUser(ctx, "u1", 2, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 3 {
		t.Fatalf("expected total 3, got %d", total)
	}
	if len(items) != 2 {
		t.Fatalf("expected page of 2, got %d", len(items))
	}
}

func TestPolicyStoreLoadReturnsIndependentClone(t *testing.T) {
	ctx := context.Background()
	s := NewPolicyStore()
	p := ai.DefaultGlobalPolicy()
	p.Scope, p.PlayerID = "player", "u1"
	if err := s.Save(ctx, &p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded, err := s.Load(ctx, "player", "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	loaded.Learn(true, map[action.Type]bool{action.Shoot: true})

	reloaded, err := s.Load(ctx, "player", "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reloaded.Actions[action.Shoot].W[0] != p.Actions[action.Shoot].W[0] {
		t.Fatalf("expected stored policy unaffected by mutation of loaded clone, got %f", reloaded.Actions[action.Shoot].W[0])
	}
}

func TestUserStoreAdjustELOSkipsAnonymous(t *testing.T) {
	ctx := context.Background()
	s := NewUserStore()
	if err := s.AdjustELO(ctx, "", 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.ELO("") != 0 {
		t.Fatal("expected anonymous ELO adjustment to be a no-op")
	}
	_ = s.AdjustELO(ctx, "u1", 10)
	if s.ELO("u1") != 10 {
		t.Fatalf("expected u1 ELO to be 10, got %d", s.ELO("u1"))
	}
}
