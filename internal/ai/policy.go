// Package ai implements the AI opponent: a linear-scoring policy over
// hand-designed feature vectors, per-player adaptive weights, epsilon-greedy
// exploration, and the multi-action turn loop that drives it.
package ai

import (
	"github.com/gravitas-games/tacticsd/internal/action"
)

// maxFeatures is the length of the longest feature vector any action type
// uses (MOVE's 5). Score does not read it: it bounds its loop by the
// shorter of the weight and feature slices.
const maxFeatures = 5

// ActionWeights is one action type's learned linear-scoring weights.
type ActionWeights struct {
	W []float64 `json:"w"`
}

// Policy is a per-scope set of action weights plus exploration and outcome
// bookkeeping, matching AIPolicy's persisted shape.
type Policy struct {
	Scope       string                        `json:"scope"`
	PlayerID    string                        `json:"playerId,omitempty"`
	Epsilon     float64                       `json:"epsilon"`
	Actions     map[action.Type]ActionWeights `json:"actions"`
	GamesPlayed int                           `json:"gamesPlayed"`
	Wins        int                           `json:"wins"`
}

// DefaultGlobalPolicy returns the built-in fallback policy used whenever no
// player-scoped policy has been learned yet.
func DefaultGlobalPolicy() Policy {
	return Policy{
		Scope:   "global",
		Epsilon: 0.1,
		Actions: map[action.Type]ActionWeights{
			action.Move:        {W: []float64{1.0, 1.0, 1.0, 1.0, 1.0}},
			action.Shoot:       {W: []float64{1.5, -0.5, 2.0, 1.0}},
			action.CraftWall:   {W: []float64{1.0, 1.0, 0}},
			action.CraftWeapon: {W: []float64{1.0}},
			action.Heal:        {W: []float64{1.0}},
			action.Interact:    {W: []float64{1.0}},
			action.SkipTurn:    {W: []float64{0.01}},
		},
	}
}

// clampWeight enforces the [0.1, 5.0] learning-rate clamp from §4.5.
func clampWeight(w float64) float64 {
	if w < 0.1 {
		return 0.1
	}
	if w > 5.0 {
		return 5.0
	}
	return w
}

// Learn applies the terminal-transition weight update: gamesPlayed and wins
// bookkeeping, then a ±0.05 nudge to w[0] for every action type the AI took
// this match.
func (p *Policy) Learn(aiWon bool, actionsTaken map[action.Type]bool) {
	p.GamesPlayed++
	if aiWon {
		p.Wins++
	}

	delta := -0.05
	if aiWon {
		delta = 0.05
	}

	for actType := range actionsTaken {
		weights, ok := p.Actions[actType]
		if !ok || len(weights.W) == 0 {
			continue
		}
		weights.W[0] = clampWeight(weights.W[0] + delta)
		p.Actions[actType] = weights
	}
}
