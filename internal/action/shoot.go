package action

import (
	"github.com/gravitas-games/tacticsd/internal/engine"
	"github.com/gravitas-games/tacticsd/internal/grid"
	"github.com/gravitas-games/tacticsd/internal/recipe"
)

// ResolveShoot implements §4.4 SHOOT: trajectory validation keyed off
// weapon class, then damage on hit.
func ResolveShoot(m *engine.Match, actor engine.Side, p ShootParams, cat *recipe.Catalog) (Outcome, error) {
	e := m.EntityFor(actor)
	opponent := actor.Opposite()
	opp := m.EntityFor(opponent)

	if !e.Weapons[p.WeaponKey] {
		return Outcome{}, engine.Validation("weapon %q not equipped", p.WeaponKey)
	}
	r, ok := cat.Get(p.WeaponKey)
	if !ok || r.Output.Weapon == nil {
		return Outcome{}, engine.Validation("unknown weapon key %q", p.WeaponKey)
	}
	w := r.Output.Weapon

	if !p.Target.InBounds(m.GridSize) {
		return Outcome{}, engine.Validation("shoot target %+v out of bounds", p.Target)
	}

	dist := grid.Manhattan(e.Pos, p.Target)
	if dist < 1 || dist > w.Range {
		return Outcome{}, engine.Validation("shoot target %+v out of range [1,%d]: %d", p.Target, w.Range, dist)
	}

	if err := validTrajectory(m, e.Pos, p.Target, w); err != nil {
		return Outcome{}, err
	}

	hit := p.Target == opp.Pos
	meta := map[string]interface{}{"hit": hit, "weaponKey": p.WeaponKey}
	if !hit {
		return Outcome{ConsumeTurn: true, Meta: meta}, nil
	}

	m.ApplyDamage(opponent, w.Damage)
	meta["damage"] = w.Damage
	meta["ended"] = m.Status == engine.StatusEnded
	if m.Status == engine.StatusEnded {
		meta["winner"] = actor
	}

	return Outcome{ConsumeTurn: true, Meta: meta}, nil
}

func validTrajectory(m *engine.Match, from, to grid.Cell, w *recipe.WeaponOutput) error {
	dist := grid.Manhattan(from, to)
	wallCells := make([]grid.Cell, 0, len(m.Entities.Walls))
	for _, wall := range m.Entities.Walls {
		wallCells = append(wallCells, wall.Pos)
	}

	switch w.Class {
	case recipe.ClassStraight:
		if !grid.Straight(from, to) {
			return engine.Validation("straight weapon requires a straight line to target")
		}
		if grid.WallBlocksStraight(from, to, wallCells) && !w.ShootsOverWalls {
			return engine.Validation("line of sight blocked by wall")
		}
		return nil
	case recipe.ClassDiag:
		if !grid.Diagonal(from, to) {
			return engine.Validation("diagonal weapon requires a diagonal line to target")
		}
		return nil
	case recipe.ClassLob:
		return nil
	case recipe.ClassArc:
		if dist < 2 || dist > w.Range {
			return engine.Validation("arc weapon requires distance in [2,%d]", w.Range)
		}
		return nil
	case recipe.ClassMelee:
		if dist != 1 {
			return engine.Validation("melee weapon requires distance exactly 1")
		}
		return nil
	default:
		return engine.Validation("unknown weapon class %q", w.Class)
	}
}
