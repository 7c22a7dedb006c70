package ai

import (
	"github.com/gravitas-games/tacticsd/internal/action"
	"github.com/gravitas-games/tacticsd/internal/engine"
	"github.com/gravitas-games/tacticsd/internal/grid"
	"github.com/gravitas-games/tacticsd/internal/pathfind"
	"github.com/gravitas-games/tacticsd/internal/recipe"
)

// Candidate is one enumerated action available to the AI this step, with
// its feature vector precomputed.
type Candidate struct {
	Type     action.Type
	Action   action.Action
	Features []float64
}

// Context bundles the read-only inputs candidate enumeration needs beyond
// the match snapshot itself.
type Context struct {
	Match       *engine.Match
	Catalog     *recipe.Catalog
	OptimalPath []grid.Cell
}

// Enumerate builds every legal candidate action for the AI in its current
// state, per §4.5.
func Enumerate(ctx Context) []Candidate {
	m := ctx.Match
	ai := m.EntityFor(engine.SideAI)
	opp := m.EntityFor(engine.SidePlayer)

	var out []Candidate
	out = append(out, enumerateShoot(ctx, ai, opp)...)
	out = append(out, enumerateMove(ctx, ai, opp)...)
	if c, ok := enumerateHeal(ai); ok {
		out = append(out, c)
	}
	if c, ok := enumerateCraftWall(ctx, ai, opp); ok {
		out = append(out, c)
	}
	if c, ok := enumerateCraftWeapon(ctx, ai); ok {
		out = append(out, c)
	}
	out = append(out, enumerateInteract(m, ai)...)

	return out
}

func encodeParams(v interface{}) action.Action {
	// panics are impossible here: every params struct marshals cleanly.
	raw, _ := marshalJSON(v)
	return action.Action{Params: raw}
}

func enumerateShoot(ctx Context, ai, opp *engine.Entity) []Candidate {
	var out []Candidate
	for key := range ai.Weapons {
		r, ok := ctx.Catalog.Get(key)
		if !ok || r.Output.Weapon == nil {
			continue
		}
		w := r.Output.Weapon
		dist := grid.Manhattan(ai.Pos, opp.Pos)
		if dist < 1 || dist > w.Range {
			continue
		}
		if !trajectoryValid(ctx.Match, ai.Pos, opp.Pos, w) {
			continue
		}
		canKill := 0.0
		if w.Damage >= opp.HP {
			canKill = 1.0
		}
		hasLOS := 1.0
		features := []float64{float64(w.Damage), float64(dist) / 16.0, canKill, hasLOS}
		a := encodeParams(action.ShootParams{WeaponKey: key, Target: opp.Pos})
		a.Type = action.Shoot
		out = append(out, Candidate{Type: action.Shoot, Action: a, Features: features})
	}
	return out
}

func trajectoryValid(m *engine.Match, from, to grid.Cell, w *recipe.WeaponOutput) bool {
	dist := grid.Manhattan(from, to)
	wallCells := make([]grid.Cell, 0, len(m.Entities.Walls))
	for _, wall := range m.Entities.Walls {
		wallCells = append(wallCells, wall.Pos)
	}
	switch w.Class {
	case recipe.ClassStraight:
		return grid.Straight(from, to) && (!grid.WallBlocksStraight(from, to, wallCells) || w.ShootsOverWalls)
	case recipe.ClassDiag:
		return grid.Diagonal(from, to)
	case recipe.ClassLob:
		return true
	case recipe.ClassArc:
		return dist >= 2 && dist <= w.Range
	case recipe.ClassMelee:
		return dist == 1
	default:
		return false
	}
}

func enumerateMove(ctx Context, ai, opp *engine.Entity) []Candidate {
	m := ctx.Match
	var out []Candidate
	oldDist := grid.Manhattan(ai.Pos, opp.Pos)

	retreatThreshold := 60
	if m.ELO > 1500 {
		retreatThreshold = 70
	}

	var optimalNext grid.Cell
	hasOptimal := len(ctx.OptimalPath) > 1
	if hasOptimal {
		optimalNext = ctx.OptimalPath[1]
	}

	for _, to := range grid.Neighbors4(ai.Pos, m.GridSize) {
		if m.CellOccupied(to, false, true) {
			continue
		}
		newDist := grid.Manhattan(to, opp.Pos)
		approach := float64(oldDist - newDist)

		getCover := 0.0
		for _, w := range m.Entities.Walls {
			if grid.Manhattan(w.Pos, to) == 1 {
				getCover = 1.0
				break
			}
		}

		retreat := 0.0
		if ai.HP <= retreatThreshold && newDist > oldDist {
			retreat = 1.0
		}

		getPickup := 0.0
		if _, ok := m.LootAt(to); ok {
			getPickup = 1.0
		}
		if _, _, ok := m.ResourceAt(to); ok {
			getPickup = 1.0
		}

		isOnPath := 0.0
		if hasOptimal && to == optimalNext {
			isOnPath = 1.0
		}

		features := []float64{approach, getCover, retreat, getPickup, isOnPath}
		a := encodeParams(action.MoveParams{To: &to})
		a.Type = action.Move
		out = append(out, Candidate{Type: action.Move, Action: a, Features: features})
	}
	return out
}

func enumerateHeal(ai *engine.Entity) (Candidate, bool) {
	if ai.HP > 70 {
		return Candidate{}, false
	}
	best := ""
	bestAmount := -1
	for key, count := range ai.Inventory {
		if count <= 0 {
			continue
		}
		amount, ok := recipe.HealingItemAmounts[key]
		if !ok {
			continue
		}
		if amount > bestAmount {
			bestAmount = amount
			best = key
		}
	}
	if best == "" {
		return Candidate{}, false
	}
	a := encodeParams(action.HealParams{Key: best})
	a.Type = action.Heal
	return Candidate{Type: action.Heal, Action: a, Features: nil}, true
}

func enumerateCraftWall(ctx Context, ai, opp *engine.Entity) (Candidate, bool) {
	m := ctx.Match
	dist := grid.Manhattan(ai.Pos, opp.Pos)
	wallCells := make([]grid.Cell, 0, len(m.Entities.Walls))
	for _, w := range m.Entities.Walls {
		wallCells = append(wallCells, w.Pos)
	}
	underThreat := 0.0
	if grid.Straight(ai.Pos, opp.Pos) && dist <= 6 && !grid.WallBlocksStraight(ai.Pos, opp.Pos, wallCells) {
		underThreat = 1.0
	}
	if underThreat == 0.0 {
		return Candidate{}, false
	}

	r, ok := ctx.Catalog.Get("wall.wood")
	if !ok || r.Output.Wall == nil {
		return Candidate{}, false
	}
	if ai.Inventory["wood"] < r.Costs.Wood || ai.Inventory["stone"] < r.Costs.Stone {
		return Candidate{}, false
	}

	step := stepToward(ai.Pos, opp.Pos)
	target := ai.Pos.Add(step)
	if !target.InBounds(m.GridSize) || m.CellOccupied(target, false, true) {
		return Candidate{}, false
	}

	features := []float64{underThreat, 1.0, 0}
	a := encodeParams(action.CraftWallParams{Key: "wall.wood", Pos: target})
	a.Type = action.CraftWall
	return Candidate{Type: action.CraftWall, Action: a, Features: features}, true
}

func stepToward(from, to grid.Cell) grid.Cell {
	dx, dy := 0, 0
	if to.X > from.X {
		dx = 1
	} else if to.X < from.X {
		dx = -1
	}
	if dx == 0 {
		if to.Y > from.Y {
			dy = 1
		} else if to.Y < from.Y {
			dy = -1
		}
	}
	return grid.Cell{X: dx, Y: dy}
}

// enumerateCraftWeapon offers a starter straight T1 weapon only if the AI
// holds no ranged weapon yet (melee doesn't count) and can afford it.
func enumerateCraftWeapon(ctx Context, ai *engine.Entity) (Candidate, bool) {
	for key := range ai.Weapons {
		r, ok := ctx.Catalog.Get(key)
		if !ok || r.Output.Weapon == nil {
			continue
		}
		if r.Output.Weapon.Class != recipe.ClassMelee {
			return Candidate{}, false
		}
	}

	const key = "weapon.straight.t1"
	r, ok := ctx.Catalog.Get(key)
	if !ok {
		return Candidate{}, false
	}
	if ai.Inventory["wood"] < r.Costs.Wood || ai.Inventory["stone"] < r.Costs.Stone {
		return Candidate{}, false
	}

	a := encodeParams(action.CraftWeaponParams{Key: key})
	a.Type = action.CraftWeapon
	return Candidate{Type: action.CraftWeapon, Action: a, Features: nil}, true
}

func enumerateInteract(m *engine.Match, ai *engine.Entity) []Candidate {
	if ai.Inventory["wood"]+ai.Inventory["stone"] >= 3 {
		return nil
	}
	var out []Candidate
	for _, c := range grid.Neighbors4(ai.Pos, m.GridSize) {
		kind, _, ok := m.ResourceAt(c)
		if !ok {
			continue
		}
		a := encodeParams(action.InteractParams{ResourceType: kind, Pos: c})
		a.Type = action.Interact
		out = append(out, Candidate{Type: action.Interact, Action: a, Features: nil})
	}
	return out
}

// OptimalPath computes the AI's A* path to the nearest in-bounds neighbor
// of the opponent, per §4.5.
func OptimalPath(m *engine.Match) []grid.Cell {
	ai := m.EntityFor(engine.SideAI)
	opp := m.EntityFor(engine.SidePlayer)
	blocked := func(c grid.Cell) bool {
		if _, ok := m.WallAt(c); ok {
			return true
		}
		return false
	}
	return pathfind.BestPathToNeighbor(ai.Pos, opp.Pos, m.GridSize, blocked)
}
