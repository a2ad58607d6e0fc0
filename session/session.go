package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"newsrag/config"
	"newsrag/querycache"
	"newsrag/types"
)

// Store persists per-session query history in an expiring KV store.
// Each session owns its history key; there is no cross-session state.
type Store struct {
	kv querycache.KV
}

// NewStore creates a session store.
func NewStore(kv querycache.KV) *Store {
	return &Store{kv: kv}
}

// NewID mints a fresh session identifier.
func NewID() string {
	return uuid.NewString()
}

func historyKey(sessionID string) string {
	return "session:" + sessionID + ":history"
}

// History loads a session's history; a missing or undecodable entry
// yields an empty history.
func (s *Store) History(ctx context.Context, sessionID string) ([]types.SessionEntry, error) {
	raw, ok, err := s.kv.Get(ctx, historyKey(sessionID))
	if err != nil {
		return nil, fmt.Errorf("loading session history: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var history []types.SessionEntry
	if err := json.Unmarshal([]byte(raw), &history); err != nil {
		return nil, nil
	}
	return history, nil
}

// SaveHistory stores a session's history, refreshing the session TTL.
func (s *Store) SaveHistory(ctx context.Context, sessionID string, history []types.SessionEntry) error {
	raw, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("encoding session history: %w", err)
	}
	if err := s.kv.SetWithExpiry(ctx, historyKey(sessionID), string(raw), config.SessionTTL); err != nil {
		return fmt.Errorf("saving session history: %w", err)
	}
	return nil
}

// Clear drops a session's stored history.
func (s *Store) Clear(ctx context.Context, sessionID string) error {
	if err := s.kv.Delete(ctx, historyKey(sessionID)); err != nil {
		return fmt.Errorf("clearing session history: %w", err)
	}
	return nil
}
