// Package orchestrator implements the top-level match lifecycle: initiate,
// update, resign, and end-game, each ending in a CAS-guarded persist or a
// terminal archive. Grounded on the connection/session lifecycle this
// codebase used to drive a live game loop, adapted from a push-driven
// session update to a request/response Update call.
package orchestrator

import (
	"context"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/gravitas-games/tacticsd/internal/action"
	"github.com/gravitas-games/tacticsd/internal/ai"
	"github.com/gravitas-games/tacticsd/internal/engine"
	"github.com/gravitas-games/tacticsd/internal/grid"
	"github.com/gravitas-games/tacticsd/internal/recipe"
	"github.com/gravitas-games/tacticsd/internal/store"
	"github.com/gravitas-games/tacticsd/internal/worldgen"
)

// eloWinDelta and eloLossDelta are the fixed ELO adjustments per §4.6/GLOSSARY.
const (
	eloWinDelta  = 10
	eloLossDelta = -10
)

// Service is the orchestrator: the sole writer of match state.
type Service struct {
	Matches  store.MatchStore
	History  store.HistoryStore
	Policies store.PolicyStore
	Users    store.UserStore
	Catalog  *recipe.Catalog

	// Explorer supplies the AI's epsilon-greedy randomness. Production
	// wiring uses *rand.Rand seeded from crypto-random entropy at
	// startup; tests inject a fixed-seed source for reproducibility.
	Explorer ai.Explorer
}

// New builds a Service whose default explorer is a fixed-seed
// (rand.NewSource(1)) source; callers replace it as needed.
func New(matches store.MatchStore, history store.HistoryStore, policies store.PolicyStore, users store.UserStore, cat *recipe.Catalog) *Service {
	return &Service{
		Matches:  matches,
		History:  history,
		Policies: policies,
		Users:    users,
		Catalog:  cat,
		Explorer: rand.New(rand.NewSource(1)),
	}
}

// InitiateParams configures a new match.
type InitiateParams struct {
	Seed          string
	ELO           int
	Width, Height int
	FirstActor    engine.Side
	PlayerUserID  string
	PlayerHandle  string
}

// Initiate generates a new world, seats both sides, and persists the
// resulting active match.
func (s *Service) Initiate(ctx context.Context, p InitiateParams) (*engine.Match, error) {
	firstActor := p.FirstActor
	if firstActor == "" {
		firstActor = engine.SidePlayer
	}

	world := worldgen.Generate(worldgen.Params{Seed: p.Seed, Width: p.Width, Height: p.Height, ELO: p.ELO}, s.Catalog)
	sz := grid.Size{W: p.Width, H: p.Height}
	if sz.W <= 0 {
		sz.W = 16
	}
	if sz.H <= 0 {
		sz.H = 16
	}
	elo := p.ELO
	if elo == 0 {
		elo = 1200
	}

	now := time.Now()
	m := &engine.Match{
		ID:             uuid.NewString(),
		Version:        1,
		Seed:           p.Seed,
		SeedKey:        worldgen.SeedKey(p.Seed, sz.W, sz.H),
		SeedingVersion: worldgen.SeedingVersion,
		GridSize:       sz,
		ELO:            elo,
		Constraints:    world.Constraints,
		Spawn:          world.Spawn,
		Resources:      world.Resources,
		Loot:           world.Loot,
		Entities: engine.Entities{
			Player: engine.NewEntity(world.Spawn.Player, p.PlayerUserID, p.PlayerHandle),
			AI:     engine.NewEntity(world.Spawn.AI, "", "ai"),
		},
		TurnIndex:    0,
		CurrentActor: firstActor,
		Status:       engine.StatusActive,
		Players: []engine.PlayerSlot{
			{Slot: 0, Role: engine.SidePlayer, UserID: p.PlayerUserID, Handle: p.PlayerHandle},
			{Slot: 1, Role: engine.SideAI, Handle: "ai"},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.Matches.Insert(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// UpdateParams describes an incoming player action request.
type UpdateParams struct {
	MatchID         string
	Actor           engine.Side
	Action          action.Action
	SnapshotVersion *int
}

// Update implements §4.6's 11-step flow.
func (s *Service) Update(ctx context.Context, p UpdateParams) (*engine.Match, error) {
	loaded, err := s.Matches.Load(ctx, p.MatchID)
	if err != nil {
		return nil, err
	}

	if p.SnapshotVersion != nil && *p.SnapshotVersion != loaded.Version {
		return nil, engine.Conflict("snapshot version mismatch: have %d, want %d", loaded.Version, *p.SnapshotVersion)
	}
	if loaded.Status != engine.StatusActive {
		return nil, engine.Conflict("match %q is not active", p.MatchID)
	}

	consumesTurn := isTurnConsuming(p.Action.Type)
	if consumesTurn && loaded.CurrentActor != p.Actor {
		return nil, engine.Conflict("it is not %s's turn", p.Actor)
	}

	working := loaded.Clone()

	outcome, err := action.Resolve(working, p.Actor, p.Action, s.Catalog)
	if err != nil {
		return nil, err
	}
	working.ActionHistory = append(working.ActionHistory, engine.ActionRecord{Actor: p.Actor, Action: string(p.Action.Type)})

	if working.Status == engine.StatusEnded {
		return s.finishAndPersist(ctx, loaded.Version, working)
	}

	if outcome.ConsumeTurn {
		working.TurnIndex++
		working.CurrentActor = working.CurrentActor.Opposite()
	}

	if working.CurrentActor == engine.SideAI && working.Status == engine.StatusActive {
		policy := s.loadPolicyForAI(ctx, working)
		result, err := ai.RunTurn(working, policy, s.Catalog, s.Explorer)
		if err != nil {
			log.Printf("orchestrator: AI turn failed for match %s: %v", working.ID, err)
		} else {
			for _, t := range result.ActionsTaken {
				working.ActionHistory = append(working.ActionHistory, engine.ActionRecord{Actor: engine.SideAI, Action: string(t)})
			}
			if result.Ended {
				return s.finishAndPersist(ctx, loaded.Version, working)
			}
		}
		if working.Status == engine.StatusActive {
			working.TurnIndex++
			working.CurrentActor = engine.SidePlayer
		}
	}

	return s.persist(ctx, loaded.Version, working)
}

func isTurnConsuming(t action.Type) bool {
	switch t {
	case action.CraftWeapon, action.Heal:
		return false
	default:
		return true
	}
}

func (s *Service) loadPolicyForAI(ctx context.Context, m *engine.Match) ai.Policy {
	if m.Entities.Player.UserID != "" {
		if p, err := s.Policies.Load(ctx, "player", m.Entities.Player.UserID); err == nil {
			return *p
		}
	}
	global := ai.DefaultGlobalPolicy()
	if p, err := s.Policies.Load(ctx, "global", ""); err == nil {
		return *p
	}
	return global
}

func (s *Service) savePolicyBestEffort(ctx context.Context, p ai.Policy) {
	if err := s.Policies.Save(ctx, &p); err != nil {
		log.Printf("orchestrator: failed to save AI policy: %v", err)
	}
}

func (s *Service) persist(ctx context.Context, expectedVersion int, working *engine.Match) (*engine.Match, error) {
	working.Version = expectedVersion + 1
	working.UpdatedAt = time.Now()
	if err := s.Matches.UpdateCAS(ctx, working, expectedVersion); err != nil {
		return nil, err
	}
	return working, nil
}

// finishAndPersist persists the ended snapshot as a final CAS write, then
// runs the terminal pipeline (§4.6), whose archival step deletes it.
func (s *Service) finishAndPersist(ctx context.Context, expectedVersion int, working *engine.Match) (*engine.Match, error) {
	working.Version = expectedVersion + 1
	working.UpdatedAt = time.Now()
	if err := s.Matches.UpdateCAS(ctx, working, expectedVersion); err != nil {
		return nil, err
	}
	s.runTerminalPipeline(ctx, working)
	return working, nil
}

// runTerminalPipeline applies the terminal steps for a finished match: ELO
// adjustment, AI-policy learning, historical archival, active-record
// deletion. Failures are logged and swallowed: game state is authoritative,
// the archive/profile side effects are best-effort.
func (s *Service) runTerminalPipeline(ctx context.Context, m *engine.Match) {
	if m.Winner != nil {
		s.adjustELOBestEffort(ctx, m, *m.Winner)
		s.updatePolicyBestEffort(ctx, m, *m.Winner)
	}

	hist := toHistoricalMatch(m)
	if err := s.History.Insert(ctx, hist); err != nil {
		log.Printf("orchestrator: failed to archive match %s: %v", m.ID, err)
	}
	if err := s.Matches.Delete(ctx, m.ID); err != nil {
		log.Printf("orchestrator: failed to delete active match %s: %v", m.ID, err)
	}
}

// updatePolicyBestEffort applies §4.5's terminal learning update. It is
// skipped when the human opponent has no user ID. Otherwise it starts from
// the policy the AI played under this match (the player-scoped one, or the
// global default when none is saved yet) and saves the result as that
// player's policy. It uses the full action history rather than just the
// final turn's actions — the AI may have taken actions across many prior
// Update calls in this match.
func (s *Service) updatePolicyBestEffort(ctx context.Context, m *engine.Match, winner engine.Side) {
	if m.Entities.Player.UserID == "" {
		return
	}
	policy := s.loadPolicyForAI(ctx, m)
	policy.Scope, policy.PlayerID = "player", m.Entities.Player.UserID
	aiActions := make(map[action.Type]bool)
	for _, rec := range m.ActionHistory {
		if rec.Actor == engine.SideAI {
			aiActions[action.Type(rec.Action)] = true
		}
	}
	policy.Learn(winner == engine.SideAI, aiActions)
	s.savePolicyBestEffort(ctx, policy)
}

func (s *Service) adjustELOBestEffort(ctx context.Context, m *engine.Match, winner engine.Side) {
	playerUserID := m.Entities.Player.UserID
	if playerUserID == "" {
		return
	}
	delta := eloLossDelta
	if winner == engine.SidePlayer {
		delta = eloWinDelta
	}
	if err := s.Users.AdjustELO(ctx, playerUserID, delta); err != nil {
		log.Printf("orchestrator: failed to adjust ELO for user %s: %v", playerUserID, err)
	}
}

func toHistoricalMatch(m *engine.Match) *engine.HistoricalMatch {
	outcome := "KO"
	if m.Reason == "resign" {
		outcome = "Resign"
	}

	players := make([]engine.HistoryPlayer, 0, len(m.Players))
	for _, slot := range m.Players {
		players = append(players, engine.HistoryPlayer{
			Slot:             slot.Slot,
			Role:             slot.Role,
			UserID:           slot.UserID,
			Handle:           slot.Handle,
			ActionsHistogram: engine.ActionsHistogram(m.ActionHistory, slot.Role),
		})
	}

	return &engine.HistoricalMatch{
		MatchKey:      m.ID,
		Seed:          m.Seed,
		SeedKey:       m.SeedKey,
		GridSize:      m.GridSize,
		ELO:           m.ELO,
		Players:       players,
		Winner:        m.Winner,
		Outcome:       outcome,
		StartedAt:     m.CreatedAt,
		EndedAt:       m.UpdatedAt,
		DurationTurns: m.TurnIndex,
	}
}
