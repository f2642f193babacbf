package rag

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinicagent/model"
	"clinicagent/store"
	"clinicagent/types"
)

// scriptedLLM returns a canned reply and records the messages it saw.
type scriptedLLM struct {
	reply    string
	messages []model.ChatMessage
}

func (l *scriptedLLM) Complete(ctx context.Context, messages []model.ChatMessage, tools []model.Tool) (*model.ChatMessage, error) {
	l.messages = messages
	return &model.ChatMessage{Role: "assistant", Content: l.reply}, nil
}

// downStore fails every read with ErrUnavailable.
type downStore struct{}

func (downStore) Upsert(ctx context.Context, id, text string, vector []float32, metadata map[string]string) error {
	return store.ErrUnavailable
}
func (downStore) Query(ctx context.Context, vector []float32, k int) ([]types.ScoredDocument, error) {
	return nil, store.ErrUnavailable
}
func (downStore) DeleteAll(ctx context.Context) error { return store.ErrUnavailable }
func (downStore) Count(ctx context.Context) (int, error) {
	return 0, store.ErrUnavailable
}
func (downStore) Close() error { return nil }

func TestAskGroundedAnswer(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	require.NoError(t, st.Upsert(ctx, "hours", "Question: hours", []float32{1, 0},
		map[string]string{"question": "What are your hours?", "answer": "9 AM to 5 PM Monday to Friday"}))

	llm := &scriptedLLM{reply: "We are open 9 AM to 5 PM, Monday to Friday."}
	svc := NewFAQService(NewRetriever(&stubEmbedder{vector: []float32{1, 0}}, st, 3, 0.3), llm, 1500)

	ans, err := svc.Ask(ctx, "What are your hours?", nil)
	require.NoError(t, err)
	assert.True(t, ans.Grounded)
	assert.Equal(t, []string{"What are your hours?"}, ans.Sources)
	assert.Greater(t, ans.Confidence, 0.3)
	assert.Contains(t, ans.Text, "9 AM to 5 PM")

	// The retrieved context must be in the prompt.
	last := llm.messages[len(llm.messages)-1]
	assert.Contains(t, last.Content, "9 AM to 5 PM Monday to Friday")
}

func TestAskDegradesWhenStoreDown(t *testing.T) {
	llm := &scriptedLLM{reply: "I don't have that information right now."}
	svc := NewFAQService(NewRetriever(&stubEmbedder{vector: []float32{1, 0}}, downStore{}, 3, 0.3), llm, 1500)

	ans, err := svc.Ask(context.Background(), "What are your hours?", nil)
	require.NoError(t, err)
	assert.False(t, ans.Grounded)
	assert.Empty(t, ans.Sources)
	assert.Zero(t, ans.Confidence)
}

func TestAskUngroundedWhenNothingRelevant(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	require.NoError(t, st.Upsert(ctx, "far", "unrelated", []float32{0, 1}, nil))

	llm := &scriptedLLM{reply: "I don't have clinic-specific information about that."}
	svc := NewFAQService(NewRetriever(&stubEmbedder{vector: []float32{1, 0}}, st, 3, 0.5), llm, 1500)

	ans, err := svc.Ask(ctx, "Do you validate parking?", nil)
	require.NoError(t, err)
	assert.False(t, ans.Grounded)
}

func TestAskReplaysHistory(t *testing.T) {
	llm := &scriptedLLM{reply: "ok"}
	svc := NewFAQService(NewRetriever(&stubEmbedder{vector: []float32{1, 0}}, store.NewMemoryStore(), 3, 0.3), llm, 1500)

	history := []types.ConversationTurn{
		{Role: types.RoleUser, Content: "Where is the clinic?"},
		{Role: types.RoleAgent, Content: "123 Medical Center Drive."},
	}
	_, err := svc.Ask(context.Background(), "Is there parking there?", history)
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(llm.messages), 4)
	assert.Equal(t, "user", llm.messages[1].Role)
	assert.Equal(t, "assistant", llm.messages[2].Role)
	assert.Equal(t, "123 Medical Center Drive.", llm.messages[2].Content)
}
