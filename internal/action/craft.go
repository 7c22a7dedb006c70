package action

import (
	"github.com/gravitas-games/tacticsd/internal/engine"
	"github.com/gravitas-games/tacticsd/internal/grid"
	"github.com/gravitas-games/tacticsd/internal/recipe"
)

// ResolveCraftWeapon implements §4.4 CRAFT_WEAPON: a free action, all-or-
// nothing cost check, set-semantics weapon grant.
func ResolveCraftWeapon(m *engine.Match, actor engine.Side, p CraftWeaponParams, cat *recipe.Catalog) (Outcome, error) {
	e := m.EntityFor(actor)
	r, ok := cat.Get(p.Key)
	if !ok || r.Kind != recipe.KindWeapon {
		return Outcome{}, engine.NotFound("unknown weapon recipe %q", p.Key)
	}

	if !payCosts(e, r.Costs) {
		return Outcome{}, engine.Validation("insufficient resources for %q", p.Key)
	}

	e.Weapons[p.Key] = true
	return Outcome{ConsumeTurn: false, Meta: map[string]interface{}{"key": p.Key}}, nil
}

// ResolveCraftWall implements §4.4 CRAFT_WALL: a turn-consuming placement
// within the recipe's max placement distance.
func ResolveCraftWall(m *engine.Match, actor engine.Side, p CraftWallParams, cat *recipe.Catalog) (Outcome, error) {
	e := m.EntityFor(actor)
	r, ok := cat.Get(p.Key)
	if !ok || r.Kind != recipe.KindWall || r.Output.Wall == nil {
		return Outcome{}, engine.NotFound("unknown wall recipe %q", p.Key)
	}

	if !p.Pos.InBounds(m.GridSize) {
		return Outcome{}, engine.Validation("wall position %+v out of bounds", p.Pos)
	}
	if grid.Manhattan(e.Pos, p.Pos) > r.Output.Wall.MaxPlaceDistance {
		return Outcome{}, engine.Validation("wall position %+v exceeds placement distance %d", p.Pos, r.Output.Wall.MaxPlaceDistance)
	}
	ignorePlayer := actor == engine.SidePlayer
	ignoreAI := actor == engine.SideAI
	if m.CellOccupied(p.Pos, ignorePlayer, ignoreAI) {
		return Outcome{}, engine.Validation("wall position %+v is occupied", p.Pos)
	}
	if _, exists := m.WallAt(p.Pos); exists {
		return Outcome{}, engine.Validation("wall already present at %+v", p.Pos)
	}

	if !payCosts(e, r.Costs) {
		return Outcome{}, engine.Validation("insufficient resources for %q", p.Key)
	}

	m.Entities.Walls = append(m.Entities.Walls, engine.Wall{Pos: p.Pos, HP: r.Output.Wall.HP})
	return Outcome{ConsumeTurn: true, Meta: map[string]interface{}{"pos": p.Pos}}, nil
}

// payCosts checks and, only if every cost can be met, decrements e's
// inventory atomically.
func payCosts(e *engine.Entity, c recipe.Costs) bool {
	if e.Inventory["wood"] < c.Wood || e.Inventory["stone"] < c.Stone || e.Inventory["food"] < c.Food {
		return false
	}
	e.Inventory["wood"] -= c.Wood
	e.Inventory["stone"] -= c.Stone
	e.Inventory["food"] -= c.Food
	return true
}
