// Package store defines the persistence interfaces the orchestrator depends
// on, kept storage-agnostic so redisstore and memstore are interchangeable.
package store

import (
	"context"

	"github.com/gravitas-games/tacticsd/internal/ai"
	"github.com/gravitas-games/tacticsd/internal/engine"
)

// MatchStore persists active matches with optimistic CAS on version.
type MatchStore interface {
	Load(ctx context.Context, id string) (*engine.Match, error)
	Insert(ctx context.Context, m *engine.Match) error
	UpdateCAS(ctx context.Context, m *engine.Match, expectedVersion int) error
	Delete(ctx context.Context, id string) error
	ListActiveByUser(ctx context.Context, userID string, limit, skip int) ([]*engine.Match, int, error)
}

// HistoryStore archives terminal matches.
type HistoryStore interface {
	Insert(ctx context.Context, h *engine.HistoricalMatch) error
	ListByUser(ctx context.Context, userID string, limit, skip int) ([]*engine.HistoricalMatch, int, error)
}

// PolicyStore persists per-scope AI policies.
type PolicyStore interface {
	Load(ctx context.Context, scope string, playerID string) (*ai.Policy, error)
	Save(ctx context.Context, p *ai.Policy) error
}

// Account is a signup/signin credential record. PasswordHash is a bcrypt
// hash, never the plaintext password.
type Account struct {
	UserID       string `json:"userId"`
	Handle       string `json:"handle"`
	PasswordHash string `json:"passwordHash"`
	ELO          int    `json:"elo"`
}

// UserStore adjusts a user's ELO rating and backs the signup/signin routes
// with credential storage.
type UserStore interface {
	AdjustELO(ctx context.Context, userID string, delta int) error

	// CreateAccount registers a new handle, returning ErrConflict if the
	// handle is already taken.
	CreateAccount(ctx context.Context, handle, passwordHash string) (*Account, error)
	// AccountByHandle looks up an account by handle, returning ErrNotFound
	// if none exists.
	AccountByHandle(ctx context.Context, handle string) (*Account, error)
}
