package ai

import (
	"encoding/json"
	"testing"

	"github.com/gravitas-games/tacticsd/internal/action"
	"github.com/gravitas-games/tacticsd/internal/engine"
	"github.com/gravitas-games/tacticsd/internal/grid"
	"github.com/gravitas-games/tacticsd/internal/recipe"
)

func testMatch() *engine.Match {
	return &engine.Match{
		ID:       "m1",
		GridSize: grid.Size{W: 16, H: 16},
		Status:   engine.StatusActive,
		Entities: engine.Entities{
			Player: engine.NewEntity(grid.Cell{X: 2, Y: 5}, "u1", "alice"),
			AI:     engine.NewEntity(grid.Cell{X: 8, Y: 5}, "", "ai"),
		},
	}
}

func testCatalog() *recipe.Catalog {
	return recipe.NewCatalog(recipe.DefaultRecipes())
}

// fixedExplorer is a deterministic Explorer stub for reproducibility tests.
type fixedExplorer struct {
	floatVal float64
	intVal   int
}

func (f fixedExplorer) Float64() float64 { return f.floatVal }
func (f fixedExplorer) Intn(n int) int {
	if f.intVal >= n {
		return 0
	}
	return f.intVal
}

func TestEnumerateShootRequiresValidTrajectory(t *testing.T) {
	m := testMatch()
	m.Entities.AI.Weapons["weapon.straight.t2"] = true
	candidates := Enumerate(Context{Match: m, Catalog: testCatalog(), OptimalPath: nil})

	found := false
	for _, c := range candidates {
		if c.Type == action.Shoot {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a SHOOT candidate for a straight weapon with clear LOS")
	}
}

func TestEnumerateMoveExcludesOccupiedCells(t *testing.T) {
	m := testMatch()
	m.Entities.AI.Pos = grid.Cell{X: 3, Y: 5}
	m.Entities.Player.Pos = grid.Cell{X: 4, Y: 5}
	candidates := Enumerate(Context{Match: m, Catalog: testCatalog()})

	for _, c := range candidates {
		if c.Type != action.Move {
			continue
		}
		var p action.MoveParams
		_ = json.Unmarshal(c.Action.Params, &p)
		if p.To != nil && *p.To == m.Entities.Player.Pos {
			t.Fatal("MOVE candidate must not target the opponent's occupied cell")
		}
	}
}

func TestSelectActionDeterministicWithSeededExplorer(t *testing.T) {
	p := DefaultGlobalPolicy()
	candidates := []Candidate{
		{Type: action.Move, Features: []float64{1, 0, 0, 0, 0}},
		{Type: action.Move, Features: []float64{5, 0, 0, 0, 0}},
	}
	explorer := fixedExplorer{floatVal: 0.99} // above epsilon: no exploration
	chosen := SelectAction(p, candidates, explorer)
	if chosen.Features[0] != 5 {
		t.Fatalf("expected argmax candidate (approach=5), got %+v", chosen.Features)
	}
}

func TestSelectActionExploresWhenBelowEpsilon(t *testing.T) {
	p := DefaultGlobalPolicy()
	p.Epsilon = 1.0
	candidates := []Candidate{
		{Type: action.Move, Features: []float64{1, 0, 0, 0, 0}},
		{Type: action.Move, Features: []float64{5, 0, 0, 0, 0}},
	}
	explorer := fixedExplorer{floatVal: 0.0, intVal: 0}
	chosen := SelectAction(p, candidates, explorer)
	if chosen.Features[0] != 1 {
		t.Fatalf("expected exploration to pick the non-best candidate, got %+v", chosen.Features)
	}
}

func TestLearnClampsWeights(t *testing.T) {
	p := DefaultGlobalPolicy()
	weights := p.Actions[action.Shoot]
	weights.W[0] = 5.0
	p.Actions[action.Shoot] = weights

	p.Learn(true, map[action.Type]bool{action.Shoot: true})
	if p.Actions[action.Shoot].W[0] != 5.0 {
		t.Fatalf("expected clamp at 5.0, got %f", p.Actions[action.Shoot].W[0])
	}

	weights = p.Actions[action.Shoot]
	weights.W[0] = 0.1
	p.Actions[action.Shoot] = weights
	p.Learn(false, map[action.Type]bool{action.Shoot: true})
	if p.Actions[action.Shoot].W[0] != 0.1 {
		t.Fatalf("expected clamp at 0.1, got %f", p.Actions[action.Shoot].W[0])
	}
}

func TestRunTurnRespectsFreeActionCap(t *testing.T) {
	m := testMatch()
	m.Entities.AI.Inventory["heal.small"] = 5
	m.Entities.AI.HP = 10 // always eligible for HEAL, a free action

	p := DefaultGlobalPolicy()
	explorer := fixedExplorer{floatVal: 1.0} // never explore
	result, err := RunTurn(m, p, testCatalog(), explorer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.ActionsTaken) > maxFreeActions+1 {
		t.Fatalf("expected at most %d actions (free cap + terminal), got %d: %+v", maxFreeActions+1, len(result.ActionsTaken), result.ActionsTaken)
	}
}
