package ai

import (
	"github.com/gravitas-games/tacticsd/internal/action"
	"github.com/gravitas-games/tacticsd/internal/engine"
	"github.com/gravitas-games/tacticsd/internal/recipe"
)

// maxFreeActions is the hard stop on free actions per AI turn, preventing
// an infinite loop when scoring keeps ranking a free action highest.
const maxFreeActions = 2

// TurnResult reports what the AI did during its turn.
type TurnResult struct {
	ActionsTaken []action.Type
	Outcomes     []action.Outcome
	Ended        bool
}

// RunTurn drives the AI's multi-action turn loop per §4.5: enumerate,
// score, select, resolve; free actions chain up to maxFreeActions before a
// turn-consuming action is required.
func RunTurn(m *engine.Match, p Policy, cat *recipe.Catalog, explorer Explorer) (TurnResult, error) {
	result := TurnResult{}
	freeActionsLeft := maxFreeActions

	for {
		optimalPath := OptimalPath(m)
		candidates := Enumerate(Context{Match: m, Catalog: cat, OptimalPath: optimalPath})
		if len(candidates) == 0 {
			out, err := action.ResolveSkipTurn(m, engine.SideAI)
			if err != nil {
				return result, err
			}
			result.ActionsTaken = append(result.ActionsTaken, action.SkipTurn)
			result.Outcomes = append(result.Outcomes, out)
			break
		}

		chosen := SelectAction(p, candidates, explorer)
		out, err := action.Resolve(m, engine.SideAI, chosen.Action, cat)
		if err != nil {
			// A candidate that fails resolution is treated as a no-op skip
			// rather than aborting the AI's turn: the orchestrator still
			// needs a terminal action-consuming step to hand control back.
			out, err = action.ResolveSkipTurn(m, engine.SideAI)
			if err != nil {
				return result, err
			}
			result.ActionsTaken = append(result.ActionsTaken, action.SkipTurn)
			result.Outcomes = append(result.Outcomes, out)
			break
		}

		result.ActionsTaken = append(result.ActionsTaken, chosen.Type)
		result.Outcomes = append(result.Outcomes, out)

		if m.Status == engine.StatusEnded {
			result.Ended = true
			break
		}

		if out.ConsumeTurn {
			break
		}

		freeActionsLeft--
		if freeActionsLeft <= 0 {
			skipOut, err := action.ResolveSkipTurn(m, engine.SideAI)
			if err != nil {
				return result, err
			}
			result.ActionsTaken = append(result.ActionsTaken, action.SkipTurn)
			result.Outcomes = append(result.Outcomes, skipOut)
			break
		}
	}

	return result, nil
}
