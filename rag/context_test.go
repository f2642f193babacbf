package rag

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"clinicagent/types"
)

func scoredDoc(id, question, answer string) types.ScoredDocument {
	return types.ScoredDocument{
		Document: types.Document{
			ID:       id,
			Text:     "Question: " + question + "\nAnswer: " + answer,
			Metadata: map[string]string{"question": question, "answer": answer},
		},
		Score: 0.9,
	}
}

func TestBuildContextFormatsSources(t *testing.T) {
	out := BuildContext([]types.ScoredDocument{
		scoredDoc("1", "What are your hours?", "9 AM to 5 PM"),
		scoredDoc("2", "Where are you?", "123 Medical Center Drive"),
	}, 0)

	assert.Contains(t, out, "[Source 1]")
	assert.Contains(t, out, "Q: What are your hours?")
	assert.Contains(t, out, "A: 9 AM to 5 PM")
	assert.Contains(t, out, "[Source 2]")
}

func TestBuildContextFallsBackToDocumentText(t *testing.T) {
	out := BuildContext([]types.ScoredDocument{{
		Document: types.Document{ID: "1", Text: "raw chunk text"},
		Score:    0.8,
	}}, 0)
	assert.Contains(t, out, "raw chunk text")
}

func TestBuildContextHonorsTokenBudget(t *testing.T) {
	big := strings.Repeat("very long answer text ", 200)
	out := BuildContext([]types.ScoredDocument{
		scoredDoc("1", "first?", big),
		scoredDoc("2", "second?", big),
	}, 50)

	// The first source always makes it in; the second must be cut.
	assert.Contains(t, out, "[Source 1]")
	assert.NotContains(t, out, "[Source 2]")
}

func TestBuildContextBudgetAcrossManySources(t *testing.T) {
	answer := strings.Repeat("word ", 40)
	var docs []types.ScoredDocument
	for i := 0; i < 50; i++ {
		docs = append(docs, scoredDoc(fmt.Sprintf("%d", i), "question?", answer))
	}
	perSource := CountTokens("[Source 1]\nQ: question?\nA: " + answer + "\n")

	out := BuildContext(docs, perSource*3)

	assert.Contains(t, out, "[Source 1]")
	assert.Contains(t, out, "[Source 3]")
	assert.NotContains(t, out, "[Source 5]")
}

func TestBuildContextEmpty(t *testing.T) {
	assert.Equal(t, "", BuildContext(nil, 100))
}
