// Package worldgen builds deterministic match worlds: spawns, resources,
// and loot placed under geometric and rarity constraints keyed off a
// player's ELO rating. Every placement is a pure function of (seed, width,
// height, elo) — no two calls with identical inputs may ever diverge.
package worldgen

import (
	"fmt"
	"sort"

	"github.com/gravitas-games/tacticsd/internal/engine"
	"github.com/gravitas-games/tacticsd/internal/grid"
	"github.com/gravitas-games/tacticsd/internal/recipe"
	"github.com/gravitas-games/tacticsd/internal/rng"
)

// SeedingVersion is embedded in every seed key. Bump it whenever a
// generation rule changes, so historical seed keys remain distinguishable
// from ones produced under a different ruleset.
const SeedingVersion = "v1.1"

// SeedKey builds the canonical namespacing root for a generation run.
func SeedKey(seed string, w, h int) string {
	return fmt.Sprintf("S:%s|W:%d|H:%d|V:%s", seed, w, h, SeedingVersion)
}

// WorldInit is everything Generate produces for a fresh match.
type WorldInit struct {
	Spawn       engine.Spawn
	Resources   engine.Resources
	Loot        []engine.LootItem
	Constraints engine.Constraints
}

// Params configures a Generate call. Width and Height default to 16;
// ELO defaults to 1200.
type Params struct {
	Seed   string
	Width  int
	Height int
	ELO    int
}

func (p Params) normalized() Params {
	if p.Width <= 0 {
		p.Width = 16
	}
	if p.Height <= 0 {
		p.Height = 16
	}
	if p.ELO == 0 {
		p.ELO = 1200
	}
	return p
}

// Generate builds a full WorldInit from seed/grid/ELO inputs.
func Generate(p Params, cat *recipe.Catalog) WorldInit {
	p = p.normalized()
	sz := grid.Size{W: p.Width, H: p.Height}
	seedKey := SeedKey(p.Seed, p.Width, p.Height)

	spawn, constraints := generateSpawn(seedKey, sz, p.ELO)
	occupied := []grid.Cell{spawn.Player, spawn.AI}

	resources := generateResources(seedKey, sz, occupied)
	occupied = append(occupied, resources.Trees...)
	occupied = append(occupied, resources.Stones...)
	occupied = append(occupied, resources.Hay...)

	loot := generateLoot(seedKey, sz, p.ELO, spawn, occupied, cat)

	return WorldInit{
		Spawn:       spawn,
		Resources:   resources,
		Loot:        loot,
		Constraints: constraints,
	}
}

// generateSpawn implements §4.2's spawn-selection procedure.
func generateSpawn(seedKey string, sz grid.Size, elo int) (engine.Spawn, engine.Constraints) {
	stream := rng.SubStream(seedKey, "spawn")

	candidates := interiorCells(sz)
	sortByCentralityDesc(candidates, sz)

	pct := 30
	if elo <= 800 {
		pct = 10
	}
	topN := len(candidates) * pct / 100
	if topN < 1 {
		topN = 1
	}
	top := candidates[:topN]

	playerCell := rng.Choice(stream, top)

	var aiCandidates []grid.Cell
	for _, c := range candidates {
		if abs(c.X-playerCell.X) >= 10 && c.Y != playerCell.Y {
			aiCandidates = append(aiCandidates, c)
		}
	}

	constraints := engine.Constraints{ColumnSeparationOK: true, RowDistinctOK: true}
	pool := aiCandidates
	if len(pool) == 0 {
		pool = candidates
		constraints.ColumnSeparationOK = false
		constraints.RowDistinctOK = false
	}
	aiCell := rng.Choice(stream, pool)

	return engine.Spawn{Player: playerCell, AI: aiCell}, constraints
}

// generateResources implements §4.2's greedy blue-noise placement. occupied
// (the spawn cells) is only ever checked for exact coincidence: §4.2 rejects
// a resource placed ON a spawn, but a resource's minSep rule applies solely
// against already-placed resources of any kind.
func generateResources(seedKey string, sz grid.Size, occupied []grid.Cell) engine.Resources {
	stream := rng.SubStream(seedKey, "resources")
	wh := sz.W * sz.H

	var placed []grid.Cell
	trees := placeKind(stream, sz, roundCount(0.18, wh), 1, occupied, placed)
	placed = append(placed, trees...)
	stones := placeKind(stream, sz, roundCount(0.14, wh), 2, occupied, placed)
	placed = append(placed, stones...)
	hay := placeKind(stream, sz, roundCount(0.08, wh), 1, occupied, placed)

	return engine.Resources{Trees: trees, Stones: stones, Hay: hay}
}

func placeKind(stream *rng.Stream, sz grid.Size, count, minSep int, spawns, placedSoFar []grid.Cell) []grid.Cell {
	cells := grid.AllCells(sz)
	rng.ShuffleInPlace(stream, cells)

	placed := make([]grid.Cell, 0, count)
	blocked := append([]grid.Cell(nil), placedSoFar...)
	for _, c := range cells {
		if len(placed) >= count {
			break
		}
		if occupiesSpawn(c, spawns) {
			continue
		}
		if !grid.MinSeparated(c, blocked, minSep) {
			continue
		}
		placed = append(placed, c)
		blocked = append(blocked, c)
	}
	return placed
}

func occupiesSpawn(c grid.Cell, spawns []grid.Cell) bool {
	for _, s := range spawns {
		if c == s {
			return true
		}
	}
	return false
}

// generateLoot implements §4.2's target-mode ring placement and nested
// weighted-choice key selection.
func generateLoot(seedKey string, sz grid.Size, elo int, spawn engine.Spawn, occupied []grid.Cell, cat *recipe.Catalog) []engine.LootItem {
	stream := rng.SubStream(seedKey, "loot")

	var target grid.Cell
	nearRing, farRing := 2, 4
	switch {
	case elo <= 800:
		target = spawn.Player
	case elo >= 1800:
		target = spawn.AI
	default:
		target = grid.Cell{X: sz.W / 2, Y: sz.H / 2}
		nearRing, farRing = 4, 6
	}

	blocked := append([]grid.Cell(nil), occupied...)
	loot := make([]engine.LootItem, 0, totalLoot)
	weaponCount := 0
	healingPlaced := false

	for i := 0; i < totalLoot; i++ {
		pos, ok := placeLootCell(stream, sz, target, nearRing, farRing, blocked)
		if !ok {
			continue
		}

		key := drawLootKey(stream, elo, weaponCount, cat)
		if isWeaponKey(key) {
			weaponCount++
		} else if isHealingKey(key) {
			healingPlaced = true
		}

		loot = append(loot, engine.LootItem{Pos: pos, Key: key})
		blocked = append(blocked, pos)
	}

	if !healingPlaced {
		if pos, ok := anyFreeCell(sz, blocked); ok {
			loot = append(loot, engine.LootItem{Pos: pos, Key: "heal.small"})
		}
	}

	return loot
}

func placeLootCell(stream *rng.Stream, sz grid.Size, target grid.Cell, near, far int, blocked []grid.Cell) (grid.Cell, bool) {
	for dist := near; dist <= far; dist++ {
		ring := grid.InBoundsOnly(grid.RingCells(target, dist), sz)
		rng.ShuffleInPlace(stream, ring)
		for _, c := range ring {
			if grid.MinSeparated(c, blocked, 2) {
				return c, true
			}
		}
	}
	return anyFreeCell(sz, blocked)
}

func anyFreeCell(sz grid.Size, blocked []grid.Cell) (grid.Cell, bool) {
	for _, c := range grid.AllCells(sz) {
		if grid.MinSeparated(c, blocked, 1) {
			return c, true
		}
	}
	return grid.Cell{}, false
}

// drawLootKey implements the nested weighted-choice draw and the
// grade-1-forced-at-1200 and weapon-cap-demotion special cases.
func drawLootKey(stream *rng.Stream, elo, weaponCountSoFar int, cat *recipe.Catalog) string {
	bucket := bucketFor(elo)
	kind := rng.WeightedChoice(stream, typeWeights[bucket])

	if kind == lootWeapon && weaponCountSoFar >= maxWeapons {
		return "heal.small"
	}

	if kind == lootHealing {
		return rng.WeightedChoice(stream, healingWeights)
	}

	class := rng.WeightedChoice(stream, classWeights[bucket])
	var grade int
	if elo == 1200 {
		grade = 1
	} else {
		grade = rng.WeightedChoice(stream, gradeWeights[bucket])
	}
	key := recipe.WeaponKey(recipe.WeaponClass(class), grade)
	if cat != nil {
		if _, ok := cat.Get(key); !ok {
			return "heal.small"
		}
	}
	return key
}

func isWeaponKey(key string) bool {
	return len(key) > 7 && key[:7] == "weapon."
}

func isHealingKey(key string) bool {
	return len(key) > 5 && key[:5] == "heal."
}

func interiorCells(sz grid.Size) []grid.Cell {
	out := make([]grid.Cell, 0, sz.W*sz.H)
	for y := 1; y <= sz.H-2; y++ {
		for x := 1; x <= sz.W-2; x++ {
			out = append(out, grid.Cell{X: x, Y: y})
		}
	}
	return out
}

func sortByCentralityDesc(cells []grid.Cell, sz grid.Size) {
	sort.SliceStable(cells, func(i, j int) bool {
		return grid.Centrality(cells[i], sz) > grid.Centrality(cells[j], sz)
	})
}

func roundCount(frac float64, wh int) int {
	n := int(frac*float64(wh) + 0.5)
	if n < 1 {
		n = 1
	}
	return n
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
