package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFaq(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "faq.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseFaqFileArray(t *testing.T) {
	path := writeTempFaq(t, `[
		{"question": "What are your hours?", "answer": "9 AM to 5 PM", "category": "general"},
		{"question": "Where are you?", "answer": "123 Medical Center Drive"}
	]`)

	entries, err := ParseFaqFile(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "What are your hours?", entries[0].Question)
	assert.Equal(t, "general", entries[0].Category)
}

func TestParseFaqFileWrappedFaqs(t *testing.T) {
	path := writeTempFaq(t, `{"faqs": [{"question": "q", "answer": "a"}]}`)

	entries, err := ParseFaqFile(path)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "q", entries[0].Question)
}

func TestParseFaqFileWrappedQuestions(t *testing.T) {
	path := writeTempFaq(t, `{"questions": [{"question": "q", "answer": "a"}]}`)

	entries, err := ParseFaqFile(path)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestParseFaqFilePlainMap(t *testing.T) {
	path := writeTempFaq(t, `{
		"Where are you?": "123 Medical Center Drive",
		"What are your hours?": "9 AM to 5 PM"
	}`)

	entries, err := ParseFaqFile(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	// Sorted by question for stable ids.
	assert.Equal(t, "What are your hours?", entries[0].Question)
	assert.Equal(t, "Where are you?", entries[1].Question)
}

func TestParseFaqFileEmpty(t *testing.T) {
	path := writeTempFaq(t, `[]`)
	_, err := ParseFaqFile(path)
	assert.Error(t, err)
}

func TestParseFaqFileMissing(t *testing.T) {
	_, err := ParseFaqFile(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
