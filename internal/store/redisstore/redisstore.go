// Package redisstore backs MatchStore/HistoryStore/PolicyStore/UserStore
// with Redis, using the same go-redis client wiring as the rest of this
// codebase's Redis-backed lookups. CAS updates use WATCH/MULTI/EXEC; the
// terminal archive step is a two-command insert-then-delete rather than a
// Lua script, matching the "best-effort two-step fallback" the orchestrator
// tolerates when a store can't offer a single atomic transaction.
package redisstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/gravitas-games/tacticsd/internal/ai"
	"github.com/gravitas-games/tacticsd/internal/engine"
	"github.com/gravitas-games/tacticsd/internal/store"
)

const (
	matchKeyPrefix   = "match:"
	historyKeyPrefix = "history:"
	historyIndexKey  = "history:by-user:"
	activeIndexKey   = "match:by-user:"
	policyKeyPrefix  = "policy:"
	eloKeyPrefix     = "user:elo:"
	accountKeyPrefix = "account:"
)

// MatchStore is a Redis-backed MatchStore using WATCH/MULTI/EXEC for CAS.
type MatchStore struct {
	client *redis.Client
}

// NewMatchStore wraps an existing Redis client.
func NewMatchStore(client *redis.Client) *MatchStore {
	return &MatchStore{client: client}
}

func matchKey(id string) string { return matchKeyPrefix + id }

func (s *MatchStore) Load(ctx context.Context, id string) (*engine.Match, error) {
	raw, err := s.client.Get(ctx, matchKey(id)).Bytes()
	if err == redis.Nil {
		return nil, engine.NotFound("match %q not found", id)
	}
	if err != nil {
		return nil, engine.Storage(err, "loading match %q", id)
	}
	var m engine.Match
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, engine.Storage(err, "decoding match %q", id)
	}
	return &m, nil
}

func (s *MatchStore) Insert(ctx context.Context, m *engine.Match) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return engine.Storage(err, "encoding match %q", m.ID)
	}
	if err := s.client.SetNX(ctx, matchKey(m.ID), raw, 0).Err(); err != nil {
		return engine.Storage(err, "inserting match %q", m.ID)
	}
	for _, p := range m.Players {
		if p.UserID != "" {
			if err := s.client.SAdd(ctx, activeIndexKey+p.UserID, m.ID).Err(); err != nil {
				return engine.Storage(err, "indexing match %q for user %q", m.ID, p.UserID)
			}
		}
	}
	return nil
}

// UpdateCAS applies m only if the currently-stored match's version still
// equals expectedVersion, using Redis WATCH to detect concurrent writers.
func (s *MatchStore) UpdateCAS(ctx context.Context, m *engine.Match, expectedVersion int) error {
	key := matchKey(m.ID)
	txf := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if err == redis.Nil {
			return engine.NotFound("match %q not found", m.ID)
		}
		if err != nil {
			return engine.Storage(err, "loading match %q for CAS", m.ID)
		}
		var current engine.Match
		if err := json.Unmarshal(raw, &current); err != nil {
			return engine.Storage(err, "decoding match %q for CAS", m.ID)
		}
		if current.Version != expectedVersion {
			return engine.Conflict("version mismatch on match %q: have %d, want %d", m.ID, current.Version, expectedVersion)
		}

		next, err := json.Marshal(m)
		if err != nil {
			return engine.Storage(err, "encoding match %q", m.ID)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, next, 0)
			return nil
		})
		return err
	}

	if err := s.client.Watch(ctx, txf, key); err != nil {
		if _, ok := engine.KindOf(err); ok {
			return err
		}
		if err == redis.TxFailedErr {
			return engine.Conflict("concurrent update on match %q; reload snapshot", m.ID)
		}
		return engine.Storage(err, "CAS transaction on match %q", m.ID)
	}
	return nil
}

func (s *MatchStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, matchKey(id)).Err(); err != nil {
		return engine.Storage(err, "deleting match %q", id)
	}
	return nil
}

func (s *MatchStore) ListActiveByUser(ctx context.Context, userID string, limit, skip int) ([]*engine.Match, int, error) {
	ids, err := s.client.SMembers(ctx, activeIndexKey+userID).Result()
	if err != nil {
		return nil, 0, engine.Storage(err, "listing active matches for user %q", userID)
	}
	sortStrings(ids)

	var out []*engine.Match
	for _, id := range ids {
		m, err := s.Load(ctx, id)
		if err != nil {
			continue
		}
		out = append(out, m)
	}
	total := len(out)
	return paginateMatches(out, limit, skip), total, nil
}

func paginateMatches(items []*engine.Match, limit, skip int) []*engine.Match {
	if skip < 0 {
		skip = 0
	}
	if skip >= len(items) {
		return []*engine.Match{}
	}
	end := len(items)
	if limit > 0 && skip+limit < end {
		end = skip + limit
	}
	return items[skip:end]
}

func sortStrings(ss []string) {
	for i := 1; i < len(ss); i++ {
		j := i
		for j > 0 && ss[j-1] > ss[j] {
			ss[j-1], ss[j] = ss[j], ss[j-1]
			j--
		}
	}
}

// HistoryStore is a Redis-backed HistoryStore.
type HistoryStore struct {
	client *redis.Client
}

// NewHistoryStore wraps an existing Redis client.
func NewHistoryStore(client *redis.Client) *HistoryStore {
	return &HistoryStore{client: client}
}

func (s *HistoryStore) Insert(ctx context.Context, h *engine.HistoricalMatch) error {
	raw, err := json.Marshal(h)
	if err != nil {
		return engine.Storage(err, "encoding historical match %q", h.MatchKey)
	}
	if err := s.client.Set(ctx, historyKeyPrefix+h.MatchKey, raw, 0).Err(); err != nil {
		return engine.Storage(err, "inserting historical match %q", h.MatchKey)
	}
	for _, p := range h.Players {
		if p.UserID != "" {
			if err := s.client.SAdd(ctx, historyIndexKey+p.UserID, h.MatchKey).Err(); err != nil {
				return engine.Storage(err, "indexing historical match %q for user %q", h.MatchKey, p.UserID)
			}
		}
	}
	return nil
}

func (s *HistoryStore) ListByUser(ctx context.Context, userID string, limit, skip int) ([]*engine.HistoricalMatch, int, error) {
	keys, err := s.client.SMembers(ctx, historyIndexKey+userID).Result()
	if err != nil {
		return nil, 0, engine.Storage(err, "listing historical matches for user %q", userID)
	}
	sortStrings(keys)

	var out []*engine.HistoricalMatch
	for _, key := range keys {
		raw, err := s.client.Get(ctx, historyKeyPrefix+key).Bytes()
		if err != nil {
			continue
		}
		var h engine.HistoricalMatch
		if err := json.Unmarshal(raw, &h); err != nil {
			continue
		}
		out = append(out, &h)
	}
	total := len(out)

	if skip < 0 {
		skip = 0
	}
	if skip >= len(out) {
		return []*engine.HistoricalMatch{}, total, nil
	}
	end := len(out)
	if limit > 0 && skip+limit < end {
		end = skip + limit
	}
	return out[skip:end], total, nil
}

// PolicyStore is a Redis-backed PolicyStore.
type PolicyStore struct {
	client *redis.Client
}

// NewPolicyStore wraps an existing Redis client.
func NewPolicyStore(client *redis.Client) *PolicyStore {
	return &PolicyStore{client: client}
}

func policyKey(scope, playerID string) string {
	return fmt.Sprintf("%s%s:%s", policyKeyPrefix, scope, playerID)
}

func (s *PolicyStore) Load(ctx context.Context, scope string, playerID string) (*ai.Policy, error) {
	raw, err := s.client.Get(ctx, policyKey(scope, playerID)).Bytes()
	if err == redis.Nil {
		return nil, engine.NotFound("policy %s/%s not found", scope, playerID)
	}
	if err != nil {
		return nil, engine.Storage(err, "loading policy %s/%s", scope, playerID)
	}
	var p ai.Policy
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, engine.Storage(err, "decoding policy %s/%s", scope, playerID)
	}
	return &p, nil
}

func (s *PolicyStore) Save(ctx context.Context, p *ai.Policy) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return engine.Storage(err, "encoding policy %s/%s", p.Scope, p.PlayerID)
	}
	if err := s.client.Set(ctx, policyKey(p.Scope, p.PlayerID), raw, 0).Err(); err != nil {
		return engine.Storage(err, "saving policy %s/%s", p.Scope, p.PlayerID)
	}
	return nil
}

// UserStore is a Redis-backed UserStore using INCRBY for atomic ELO deltas.
type UserStore struct {
	client *redis.Client
}

// NewUserStore wraps an existing Redis client.
func NewUserStore(client *redis.Client) *UserStore {
	return &UserStore{client: client}
}

func (s *UserStore) AdjustELO(ctx context.Context, userID string, delta int) error {
	if userID == "" {
		return nil
	}
	if err := s.client.IncrBy(ctx, eloKeyPrefix+userID, int64(delta)).Err(); err != nil {
		return engine.Storage(err, "adjusting ELO for user %q", userID)
	}
	return nil
}

func accountKey(handle string) string { return accountKeyPrefix + handle }

// CreateAccount uses SetNX so two concurrent signups for the same handle
// can't both succeed.
func (s *UserStore) CreateAccount(ctx context.Context, handle, passwordHash string) (*store.Account, error) {
	acc := &store.Account{UserID: uuid.NewString(), Handle: handle, PasswordHash: passwordHash, ELO: 1200}
	raw, err := json.Marshal(acc)
	if err != nil {
		return nil, engine.Storage(err, "encoding account %q", handle)
	}
	ok, err := s.client.SetNX(ctx, accountKey(handle), raw, 0).Result()
	if err != nil {
		return nil, engine.Storage(err, "creating account %q", handle)
	}
	if !ok {
		return nil, engine.Conflict("handle %q already registered", handle)
	}
	return acc, nil
}

func (s *UserStore) AccountByHandle(ctx context.Context, handle string) (*store.Account, error) {
	raw, err := s.client.Get(ctx, accountKey(handle)).Bytes()
	if err == redis.Nil {
		return nil, engine.NotFound("handle %q not found", handle)
	}
	if err != nil {
		return nil, engine.Storage(err, "loading account %q", handle)
	}
	var acc store.Account
	if err := json.Unmarshal(raw, &acc); err != nil {
		return nil, engine.Storage(err, "decoding account %q", handle)
	}
	return &acc, nil
}
