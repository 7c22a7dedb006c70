// Package action implements the per-type resolvers the orchestrator
// dispatches to: MOVE, SHOOT, CRAFT_WEAPON, CRAFT_WALL, HEAL, INTERACT, and
// SKIP_TURN. Every resolver takes a working match snapshot plus the acting
// side and mutates the snapshot in place; failures return a typed engine
// error and leave the caller responsible for discarding the mutated copy.
package action

import (
	"encoding/json"

	"github.com/gravitas-games/tacticsd/internal/engine"
	"github.com/gravitas-games/tacticsd/internal/grid"
	"github.com/gravitas-games/tacticsd/internal/recipe"
)

// Type is an action kind.
type Type string

const (
	Move        Type = "MOVE"
	Shoot       Type = "SHOOT"
	CraftWeapon Type = "CRAFT_WEAPON"
	CraftWall   Type = "CRAFT_WALL"
	Heal        Type = "HEAL"
	Interact    Type = "INTERACT"
	SkipTurn    Type = "SKIP_TURN"
)

// Action is a dispatchable request: a type tag plus opaque, per-type params.
type Action struct {
	Type   Type            `json:"type"`
	Params json.RawMessage `json:"params,omitempty"`
}

// Outcome reports a resolver's result back to the orchestrator.
type Outcome struct {
	ConsumeTurn bool
	Meta        map[string]interface{}
}

// MoveParams targets an absolute cell or a relative offset; To takes
// precedence when both are present.
type MoveParams struct {
	To *grid.Cell `json:"to,omitempty"`
	DX int        `json:"dx,omitempty"`
	DY int        `json:"dy,omitempty"`
}

// ShootParams identifies the weapon and target cell.
type ShootParams struct {
	WeaponKey string    `json:"weaponKey"`
	Target    grid.Cell `json:"target"`
}

// CraftWeaponParams names the recipe to craft.
type CraftWeaponParams struct {
	Key string `json:"key"`
}

// CraftWallParams names the wall recipe and placement cell.
type CraftWallParams struct {
	Key string    `json:"key"`
	Pos grid.Cell `json:"pos"`
}

// HealParams selects either an inventory heal.* item or a craftable heal
// recipe by key.
type HealParams struct {
	Key string `json:"key"`
}

// InteractParams identifies the resource kind and cell.
type InteractParams struct {
	ResourceType string    `json:"type"`
	Pos          grid.Cell `json:"pos"`
}

// Resolve dispatches a to the matching resolver.
func Resolve(m *engine.Match, actor engine.Side, a Action, cat *recipe.Catalog) (Outcome, error) {
	switch a.Type {
	case Move:
		var p MoveParams
		if err := unmarshal(a.Params, &p); err != nil {
			return Outcome{}, err
		}
		return ResolveMove(m, actor, p)
	case Shoot:
		var p ShootParams
		if err := unmarshal(a.Params, &p); err != nil {
			return Outcome{}, err
		}
		return ResolveShoot(m, actor, p, cat)
	case CraftWeapon:
		var p CraftWeaponParams
		if err := unmarshal(a.Params, &p); err != nil {
			return Outcome{}, err
		}
		return ResolveCraftWeapon(m, actor, p, cat)
	case CraftWall:
		var p CraftWallParams
		if err := unmarshal(a.Params, &p); err != nil {
			return Outcome{}, err
		}
		return ResolveCraftWall(m, actor, p, cat)
	case Heal:
		var p HealParams
		if err := unmarshal(a.Params, &p); err != nil {
			return Outcome{}, err
		}
		return ResolveHeal(m, actor, p, cat)
	case Interact:
		var p InteractParams
		if err := unmarshal(a.Params, &p); err != nil {
			return Outcome{}, err
		}
		return ResolveInteract(m, actor, p)
	case SkipTurn:
		return ResolveSkipTurn(m, actor)
	default:
		return Outcome{}, engine.Validation("unknown action type %q", a.Type)
	}
}

func unmarshal(raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return engine.Validation("malformed action params: %v", err)
	}
	return nil
}

// applyAutoPickup collects resources/loot co-located with actor at c and
// returns the keys it picked up, matching MOVE's post-move auto-pickup rule.
func applyAutoPickup(m *engine.Match, actor engine.Side, c grid.Cell) []string {
	var picked []string
	e := m.EntityFor(actor)

	if kind, idx, ok := m.ResourceAt(c); ok {
		invKey := engine.ResourceKindToInventoryKey(kind)
		e.Inventory[invKey]++
		m.RemoveResourceAt(kind, idx)
		picked = append(picked, invKey)
	}

	if idx, ok := m.LootAt(c); ok {
		lootKey := m.Loot[idx].Key
		if isWeaponKey(lootKey) {
			e.Weapons[lootKey] = true
		} else {
			e.Inventory[lootKey]++
		}
		m.RemoveLootAt(idx)
		picked = append(picked, lootKey)
	}

	return picked
}

func isWeaponKey(key string) bool {
	return len(key) > 7 && key[:7] == "weapon."
}
