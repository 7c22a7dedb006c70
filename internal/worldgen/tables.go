package worldgen

import "github.com/gravitas-games/tacticsd/internal/rng"

// eloBucket classifies an ELO rating into the three weight-table rows.
type eloBucket int

const (
	bucketLow eloBucket = iota
	bucketDefault
	bucketHigh
)

func bucketFor(elo int) eloBucket {
	switch {
	case elo <= 800:
		return bucketLow
	case elo >= 1800:
		return bucketHigh
	default:
		return bucketDefault
	}
}

// lootType is the top-level choice between a weapon and a healing item.
type lootType string

const (
	lootWeapon  lootType = "weapon"
	lootHealing lootType = "healing"
)

// typeWeights are the reference [weapon, healing] weights per ELO bucket.
var typeWeights = map[eloBucket][]rng.WeightedEntry[lootType]{
	bucketLow: {
		{Value: lootWeapon, Weight: 0.6},
		{Value: lootHealing, Weight: 0.4},
	},
	bucketDefault: {
		{Value: lootWeapon, Weight: 0.7},
		{Value: lootHealing, Weight: 0.3},
	},
	bucketHigh: {
		{Value: lootWeapon, Weight: 0.75},
		{Value: lootHealing, Weight: 0.25},
	},
}

// classWeights are the reference [straight, diag, arc, lob, melee] weights
// per ELO bucket, in the GLOSSARY's fixed class order.
var classWeights = map[eloBucket][]rng.WeightedEntry[string]{
	bucketLow: {
		{Value: "straight", Weight: 0.23},
		{Value: "diag", Weight: 0.18},
		{Value: "arc", Weight: 0.22},
		{Value: "lob", Weight: 0.27},
		{Value: "melee", Weight: 0.10},
	},
	bucketDefault: {
		{Value: "straight", Weight: 0.28},
		{Value: "diag", Weight: 0.18},
		{Value: "arc", Weight: 0.22},
		{Value: "lob", Weight: 0.22},
		{Value: "melee", Weight: 0.10},
	},
	bucketHigh: {
		{Value: "straight", Weight: 0.33},
		{Value: "diag", Weight: 0.23},
		{Value: "arc", Weight: 0.19},
		{Value: "lob", Weight: 0.19},
		{Value: "melee", Weight: 0.06},
	},
}

// gradeWeights are the reference grade weights per ELO bucket. elo==1200 is
// handled separately as a forced grade-1 special case, not via this table.
var gradeWeights = map[eloBucket][]rng.WeightedEntry[int]{
	bucketLow: {
		{Value: 1, Weight: 0.40},
		{Value: 2, Weight: 0.45},
		{Value: 3, Weight: 0.15},
	},
	bucketDefault: {
		{Value: 1, Weight: 0.55},
		{Value: 2, Weight: 0.35},
		{Value: 3, Weight: 0.10},
	},
	bucketHigh: {
		{Value: 1, Weight: 0.60},
		{Value: 2, Weight: 0.30},
		{Value: 3, Weight: 0.10},
	},
}

// healingWeights are the reference heal.* sub-weights, fixed across ELO.
var healingWeights = []rng.WeightedEntry[string]{
	{Value: "heal.small", Weight: 1},
	{Value: "heal.medium", Weight: 1},
	{Value: "heal.large", Weight: 1},
	{Value: "heal.major", Weight: 0.6},
}

const (
	totalLoot  = 4
	maxWeapons = 2
)
