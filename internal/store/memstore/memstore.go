// Package memstore is an in-process, mutex-guarded MatchStore/HistoryStore/
// PolicyStore/UserStore implementation, grounded on the connection-tracking
// mutex-map shape this codebase used for its live connection registry.
// Suitable for tests and single-process deployments that don't need
// cross-process durability.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/gravitas-games/tacticsd/internal/action"
	"github.com/gravitas-games/tacticsd/internal/ai"
	"github.com/gravitas-games/tacticsd/internal/engine"
	"github.com/gravitas-games/tacticsd/internal/store"
)

// MatchStore is an in-memory MatchStore.
type MatchStore struct {
	mu      sync.RWMutex
	matches map[string]*engine.Match
}

// NewMatchStore returns an empty MatchStore.
func NewMatchStore() *MatchStore {
	return &MatchStore{matches: make(map[string]*engine.Match)}
}

func (s *MatchStore) Load(ctx context.Context, id string) (*engine.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.matches[id]
	if !ok {
		return nil, engine.NotFound("match %q not found", id)
	}
	return m.Clone(), nil
}

func (s *MatchStore) Insert(ctx context.Context, m *engine.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.matches[m.ID]; exists {
		return engine.Conflict("match %q already exists", m.ID)
	}
	s.matches[m.ID] = m.Clone()
	return nil
}

func (s *MatchStore) UpdateCAS(ctx context.Context, m *engine.Match, expectedVersion int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.matches[m.ID]
	if !ok {
		return engine.NotFound("match %q not found", m.ID)
	}
	if current.Version != expectedVersion {
		return engine.Conflict("version mismatch on match %q: have %d, want %d", m.ID, current.Version, expectedVersion)
	}
	s.matches[m.ID] = m.Clone()
	return nil
}

func (s *MatchStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.matches, id)
	return nil
}

func (s *MatchStore) ListActiveByUser(ctx context.Context, userID string, limit, skip int) ([]*engine.Match, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*engine.Match
	for _, m := range s.matches {
		if belongsTo(m, userID) {
			matched = append(matched, m.Clone())
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := len(matched)
	return paginate(matched, limit, skip), total, nil
}

func belongsTo(m *engine.Match, userID string) bool {
	for _, p := range m.Players {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

func paginate[T any](items []T, limit, skip int) []T {
	if skip < 0 {
		skip = 0
	}
	if skip >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && skip+limit < end {
		end = skip + limit
	}
	return items[skip:end]
}

// HistoryStore is an in-memory HistoryStore.
type HistoryStore struct {
	mu      sync.RWMutex
	history []*engine.HistoricalMatch
}

// NewHistoryStore returns an empty HistoryStore.
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{}
}

func (s *HistoryStore) Insert(ctx context.Context, h *engine.HistoricalMatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *h
	s.history = append(s.history, &cp)
	return nil
}

func (s *HistoryStore) ListByUser(ctx context.Context, userID string, limit, skip int) ([]*engine.HistoricalMatch, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*engine.HistoricalMatch
	for _, h := range s.history {
		for _, p := range h.Players {
			if p.UserID == userID {
				matched = append(matched, h)
				break
			}
		}
	}
	total := len(matched)
	return paginate(matched, limit, skip), total, nil
}

// PolicyStore is an in-memory PolicyStore.
type PolicyStore struct {
	mu       sync.RWMutex
	policies map[string]*ai.Policy
}

// NewPolicyStore returns an empty PolicyStore.
func NewPolicyStore() *PolicyStore {
	return &PolicyStore{policies: make(map[string]*ai.Policy)}
}

func policyKey(scope, playerID string) string {
	return scope + ":" + playerID
}

func (s *PolicyStore) Load(ctx context.Context, scope string, playerID string) (*ai.Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.policies[policyKey(scope, playerID)]
	if !ok {
		return nil, engine.NotFound("policy %s/%s not found", scope, playerID)
	}
	cp := clonePolicy(p)
	return &cp, nil
}

func (s *PolicyStore) Save(ctx context.Context, p *ai.Policy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := clonePolicy(p)
	s.policies[policyKey(p.Scope, p.PlayerID)] = &cp
	return nil
}

// clonePolicy deep-copies p's Actions map and weight slices so a caller
// mutating the returned policy (e.g. Policy.Learn) never reaches back into
// this store's map without going through Save.
func clonePolicy(p *ai.Policy) ai.Policy {
	cp := *p
	cp.Actions = make(map[action.Type]ai.ActionWeights, len(p.Actions))
	for k, v := range p.Actions {
		cp.Actions[k] = ai.ActionWeights{W: append([]float64(nil), v.W...)}
	}
	return cp
}

// UserStore is an in-memory UserStore tracking cumulative ELO deltas and
// signup/signin credentials.
type UserStore struct {
	mu       sync.Mutex
	elo      map[string]int
	accounts map[string]*store.Account // keyed by handle
}

// NewUserStore returns an empty UserStore.
func NewUserStore() *UserStore {
	return &UserStore{elo: make(map[string]int), accounts: make(map[string]*store.Account)}
}

func (s *UserStore) AdjustELO(ctx context.Context, userID string, delta int) error {
	if userID == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.elo[userID] += delta
	return nil
}

// ELO returns the current tracked delta total for userID, for tests.
func (s *UserStore) ELO(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elo[userID]
}

func (s *UserStore) CreateAccount(ctx context.Context, handle, passwordHash string) (*store.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[handle]; exists {
		return nil, engine.Conflict("handle %q already registered", handle)
	}
	acc := &store.Account{UserID: uuid.NewString(), Handle: handle, PasswordHash: passwordHash, ELO: 1200}
	s.accounts[handle] = acc
	cp := *acc
	return &cp, nil
}

func (s *UserStore) AccountByHandle(ctx context.Context, handle string) (*store.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[handle]
	if !ok {
		return nil, engine.NotFound("handle %q not found", handle)
	}
	cp := *acc
	return &cp, nil
}
