package action

import (
	"github.com/gravitas-games/tacticsd/internal/engine"
	"github.com/gravitas-games/tacticsd/internal/grid"
)

// ResolveMove implements §4.4 MOVE: a turn-consuming step of at most 1 cell
// (2 if effects.move2), followed by immediate auto-pickup.
func ResolveMove(m *engine.Match, actor engine.Side, p MoveParams) (Outcome, error) {
	e := m.EntityFor(actor)

	var target grid.Cell
	if p.To != nil {
		target = *p.To
	} else {
		target = e.Pos.Add(grid.Cell{X: p.DX, Y: p.DY})
	}

	if !target.InBounds(m.GridSize) {
		return Outcome{}, engine.Validation("move target %+v out of bounds", target)
	}

	maxDist := 1
	if e.Effects.Move2 {
		maxDist = 2
	}
	if grid.Manhattan(e.Pos, target) > maxDist {
		return Outcome{}, engine.Validation("move target %+v exceeds range %d", target, maxDist)
	}

	ignorePlayer := actor == engine.SidePlayer
	ignoreAI := actor == engine.SideAI
	if m.CellOccupied(target, ignorePlayer, ignoreAI) {
		return Outcome{}, engine.Validation("move target %+v is occupied", target)
	}

	e.Pos = target
	picked := applyAutoPickup(m, actor, target)

	return Outcome{ConsumeTurn: true, Meta: map[string]interface{}{"pickedUp": picked}}, nil
}
