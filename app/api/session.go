package api

import (
	"sync"

	"clinicagent/types"
)

// defaultMaxTurns caps stored history per session (20 exchanges).
const defaultMaxTurns = 40

// SessionStore keeps per-session conversation history at the chat
// boundary. The agent itself is stateless between turns; this is the
// only place turns accumulate, and only for the lifetime of the
// process.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string][]types.ConversationTurn
	maxTurns int
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string][]types.ConversationTurn),
		maxTurns: defaultMaxTurns,
	}
}

// History returns a copy of the session's turns.
func (s *SessionStore) History(sessionID string) []types.ConversationTurn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	turns := s.sessions[sessionID]
	out := make([]types.ConversationTurn, len(turns))
	copy(out, turns)
	return out
}

// Append adds turns to the session, trimming to the newest maxTurns.
func (s *SessionStore) Append(sessionID string, turns ...types.ConversationTurn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	history := append(s.sessions[sessionID], turns...)
	if len(history) > s.maxTurns {
		history = history[len(history)-s.maxTurns:]
	}
	s.sessions[sessionID] = history
}

// Clear drops a session's history.
func (s *SessionStore) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}
