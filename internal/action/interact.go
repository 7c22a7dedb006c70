package action

import (
	"github.com/gravitas-games/tacticsd/internal/engine"
	"github.com/gravitas-games/tacticsd/internal/grid"
)

// ResolveInteract implements §4.4 INTERACT: gather an adjacent resource
// into inventory, consuming a turn.
func ResolveInteract(m *engine.Match, actor engine.Side, p InteractParams) (Outcome, error) {
	switch p.ResourceType {
	case "tree", "stone", "hay":
	default:
		return Outcome{}, engine.Validation("unknown resource type %q", p.ResourceType)
	}

	e := m.EntityFor(actor)
	if grid.Manhattan(e.Pos, p.Pos) > 1 {
		return Outcome{}, engine.Validation("interact target %+v is too far", p.Pos)
	}

	kind, idx, ok := m.ResourceAt(p.Pos)
	if !ok || kind != p.ResourceType {
		return Outcome{}, engine.Validation("no %s at %+v", p.ResourceType, p.Pos)
	}

	invKey := engine.ResourceKindToInventoryKey(kind)
	e.Inventory[invKey]++
	m.RemoveResourceAt(kind, idx)

	return Outcome{ConsumeTurn: true, Meta: map[string]interface{}{"gathered": invKey}}, nil
}

// ResolveSkipTurn implements §4.4 SKIP_TURN: a turn-consuming no-op.
func ResolveSkipTurn(m *engine.Match, actor engine.Side) (Outcome, error) {
	return Outcome{ConsumeTurn: true}, nil
}
