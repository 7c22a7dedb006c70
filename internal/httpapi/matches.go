package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gravitas-games/tacticsd/internal/action"
	"github.com/gravitas-games/tacticsd/internal/engine"
	"github.com/gravitas-games/tacticsd/internal/orchestrator"
)

type initiateRequest struct {
	Seed       string `json:"seed"`
	ELO        int    `json:"elo"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	FirstActor string `json:"firstActor"`
}

type initiateResponse struct {
	MatchID  string        `json:"matchId"`
	Snapshot *engine.Match `json:"snapshot"`
}

// handleInitiate implements `POST /initiate_game`.
func (a *API) handleInitiate(w http.ResponseWriter, r *http.Request) {
	var req initiateRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, engine.Validation("malformed request body: %v", err))
			return
		}
	}

	id, _ := IdentityFromContext(r.Context())
	firstActor := engine.Side(req.FirstActor)

	m, err := a.Service.Initiate(r.Context(), orchestrator.InitiateParams{
		Seed:         req.Seed,
		ELO:          req.ELO,
		Width:        req.Width,
		Height:       req.Height,
		FirstActor:   firstActor,
		PlayerUserID: id.UserID,
		PlayerHandle: id.Handle,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, initiateResponse{MatchID: m.ID, Snapshot: m})
}

type updateRequest struct {
	MatchID         string        `json:"matchId"`
	Actor           string        `json:"actor"`
	Action          action.Action `json:"action"`
	SnapshotVersion *int          `json:"snapshotVersion,omitempty"`
}

type snapshotResponse struct {
	Snapshot *engine.Match `json:"snapshot"`
}

// handleUpdate implements `POST /update`.
func (a *API) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, engine.Validation("malformed request body: %v", err))
		return
	}
	if req.MatchID == "" || req.Actor == "" {
		writeError(w, engine.Validation("matchId and actor are required"))
		return
	}

	m, err := a.Service.Update(r.Context(), orchestrator.UpdateParams{
		MatchID:         req.MatchID,
		Actor:           engine.Side(req.Actor),
		Action:          req.Action,
		SnapshotVersion: req.SnapshotVersion,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshotResponse{Snapshot: m})
}

type endGameRequest struct {
	MatchID string       `json:"matchId"`
	Reason  string       `json:"reason"`
	Winner  *engine.Side `json:"winner,omitempty"`
}

type summaryResponse struct {
	HistoricalID string                 `json:"historicalId"`
	Summary      *engine.HistoricalMatch `json:"summary"`
}

// handleEndGame implements `POST /end_game`.
func (a *API) handleEndGame(w http.ResponseWriter, r *http.Request) {
	var req endGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, engine.Validation("malformed request body: %v", err))
		return
	}
	if req.MatchID == "" {
		writeError(w, engine.Validation("matchId is required"))
		return
	}

	result, err := a.Service.EndGame(r.Context(), orchestrator.EndGameParams{
		MatchID: req.MatchID,
		Reason:  req.Reason,
		Winner:  req.Winner,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaryResponse{HistoricalID: result.HistoricalID, Summary: result.Summary})
}

type resignRequest struct {
	Side string `json:"side"`
}

// handleResign implements `POST /matches/:id/resign`. Side defaults to
// "player"; resigning as "player" requires the caller to be that match's
// own player participant, returning 403 on mismatch. A match whose player
// has no user ID is not checked.
func (a *API) handleResign(w http.ResponseWriter, r *http.Request) {
	matchID := chi.URLParam(r, "id")

	var req resignRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, engine.Validation("malformed request body: %v", err))
			return
		}
	}
	side := engine.Side(req.Side)
	if side == "" {
		side = engine.SidePlayer
	}

	if side == engine.SidePlayer {
		id, ok := IdentityFromContext(r.Context())
		if !ok {
			writeError(w, tokenMissingErr())
			return
		}
		m, err := a.Service.Matches.Load(r.Context(), matchID)
		if err != nil {
			writeError(w, err)
			return
		}
		if m.Entities.Player.UserID != "" && m.Entities.Player.UserID != id.UserID {
			writeError(w, engine.Forbidden("caller is not a participant of match %q", matchID))
			return
		}
	}

	result, err := a.Service.Resign(r.Context(), orchestrator.ResignParams{MatchID: matchID, Side: side})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaryResponse{HistoricalID: result.HistoricalID, Summary: result.Summary})
}
