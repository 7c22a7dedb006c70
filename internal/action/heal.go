package action

import (
	"github.com/gravitas-games/tacticsd/internal/engine"
	"github.com/gravitas-games/tacticsd/internal/recipe"
)

// ResolveHeal implements §4.4 HEAL's two modes: consuming a held heal.*
// item, or paying a craftable healing recipe. Free in both cases.
func ResolveHeal(m *engine.Match, actor engine.Side, p HealParams, cat *recipe.Catalog) (Outcome, error) {
	e := m.EntityFor(actor)

	if isHealingItemKey(p.Key) && e.Inventory[p.Key] > 0 {
		amount, ok := recipe.HealingItemAmounts[p.Key]
		if !ok {
			return Outcome{}, engine.Validation("unknown healing item %q", p.Key)
		}
		e.Inventory[p.Key]--
		m.ClampHeal(actor, amount)
		return Outcome{ConsumeTurn: false, Meta: map[string]interface{}{"amount": amount}}, nil
	}

	r, ok := cat.Get(p.Key)
	if !ok || r.Kind != recipe.KindHealing {
		return Outcome{}, engine.NotFound("unknown healing recipe %q", p.Key)
	}
	if !payCosts(e, r.Costs) {
		return Outcome{}, engine.Validation("insufficient resources for %q", p.Key)
	}
	m.ClampHeal(actor, r.Output.Heal)
	return Outcome{ConsumeTurn: false, Meta: map[string]interface{}{"amount": r.Output.Heal}}, nil
}

func isHealingItemKey(key string) bool {
	return len(key) > 5 && key[:5] == "heal."
}
