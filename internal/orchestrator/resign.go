package orchestrator

import (
	"context"
	"time"

	"github.com/gravitas-games/tacticsd/internal/engine"
)

// ResignParams identifies which side is resigning.
type ResignParams struct {
	MatchID string
	Side    engine.Side
}

// ResignResult mirrors the historical summary returned to the caller.
type ResignResult struct {
	HistoricalID string
	Summary      *engine.HistoricalMatch
}

// Resign implements §4.7: an explicit terminal transition mirroring the
// orchestrator's archival leg. Resigning a match whose active record is
// still present but already ended is a no-op that returns the existing
// summary rather than an error; once the terminal pipeline has deleted the
// active record, Load's not-found error is returned.
func (s *Service) Resign(ctx context.Context, p ResignParams) (*ResignResult, error) {
	m, err := s.Matches.Load(ctx, p.MatchID)
	if err != nil {
		return nil, err
	}

	if m.Status == engine.StatusEnded {
		hist := toHistoricalMatch(m)
		return &ResignResult{HistoricalID: hist.MatchKey, Summary: hist}, nil
	}

	expectedVersion := m.Version
	winner := p.Side.Opposite()
	m.Status = engine.StatusEnded
	m.Winner = &winner
	m.Reason = "resign"
	m.Version = expectedVersion + 1
	m.UpdatedAt = time.Now()

	if err := s.Matches.UpdateCAS(ctx, m, expectedVersion); err != nil {
		// The active record may already have moved; treat as already-ended.
		reloaded, loadErr := s.Matches.Load(ctx, p.MatchID)
		if loadErr == nil && reloaded.Status == engine.StatusEnded {
			hist := toHistoricalMatch(reloaded)
			return &ResignResult{HistoricalID: hist.MatchKey, Summary: hist}, nil
		}
		return nil, err
	}

	s.runTerminalPipeline(ctx, m)

	hist := toHistoricalMatch(m)
	return &ResignResult{HistoricalID: hist.MatchKey, Summary: hist}, nil
}

// EndGameParams describes an administrative end-game request.
type EndGameParams struct {
	MatchID string
	Reason  string
	Winner  *engine.Side
}

// EndGame implements the administrative end-game path from §6's
// `/end_game` route: forces a terminal transition without going through a
// resolver, then runs the same archival pipeline as a KO or resign.
func (s *Service) EndGame(ctx context.Context, p EndGameParams) (*ResignResult, error) {
	m, err := s.Matches.Load(ctx, p.MatchID)
	if err != nil {
		return nil, err
	}

	if m.Status != engine.StatusEnded {
		expectedVersion := m.Version
		m.Status = engine.StatusEnded
		m.Winner = p.Winner
		m.Reason = p.Reason
		if m.Reason == "" {
			m.Reason = "admin"
		}
		m.Version = expectedVersion + 1
		m.UpdatedAt = time.Now()
		if err := s.Matches.UpdateCAS(ctx, m, expectedVersion); err != nil {
			return nil, err
		}
		s.runTerminalPipeline(ctx, m)
	}

	hist := toHistoricalMatch(m)
	return &ResignResult{HistoricalID: hist.MatchKey, Summary: hist}, nil
}
