package api

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinicagent/types"
)

func TestSessionStoreAppendAndHistory(t *testing.T) {
	s := NewSessionStore()

	s.Append("s1",
		types.ConversationTurn{Role: types.RoleUser, Content: "hi"},
		types.ConversationTurn{Role: types.RoleAgent, Content: "hello"},
	)

	history := s.History("s1")
	require.Len(t, history, 2)
	assert.Equal(t, types.RoleUser, history[0].Role)
	assert.Equal(t, "hello", history[1].Content)

	// Sessions are isolated.
	assert.Empty(t, s.History("s2"))
}

func TestSessionStoreHistoryIsACopy(t *testing.T) {
	s := NewSessionStore()
	s.Append("s1", types.ConversationTurn{Role: types.RoleUser, Content: "original"})

	history := s.History("s1")
	history[0].Content = "mutated"

	assert.Equal(t, "original", s.History("s1")[0].Content)
}

func TestSessionStoreTrimsOldTurns(t *testing.T) {
	s := NewSessionStore()
	for i := 0; i < defaultMaxTurns+10; i++ {
		s.Append("s1", types.ConversationTurn{Role: types.RoleUser, Content: fmt.Sprintf("turn %d", i)})
	}

	history := s.History("s1")
	require.Len(t, history, defaultMaxTurns)
	assert.Equal(t, "turn 10", history[0].Content)
}

func TestSessionStoreClear(t *testing.T) {
	s := NewSessionStore()
	s.Append("s1", types.ConversationTurn{Role: types.RoleUser, Content: "hi"})

	s.Clear("s1")
	assert.Empty(t, s.History("s1"))
}
