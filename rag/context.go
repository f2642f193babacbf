package rag

import (
	"fmt"
	"strings"
	"sync"

	"clinicagent/types"

	"github.com/pkoukk/tiktoken-go"
)

var (
	encodingOnce sync.Once
	encoding     *tiktoken.Tiktoken
)

// CountTokens estimates the token length of s. Falls back to a byte
// heuristic when the tokenizer data is not available (offline runs).
func CountTokens(s string) int {
	encodingOnce.Do(func() {
		enc, err := tiktoken.EncodingForModel("gpt-3.5-turbo")
		if err == nil {
			encoding = enc
		}
	})
	if encoding == nil {
		return len(s) / 4
	}
	return len(encoding.Encode(s, nil, nil))
}

// BuildContext formats retrieved FAQ entries into a grounding block
// for the prompt, stopping before the token budget is exceeded. At
// least one source is always included so a single oversized entry does
// not yield an empty context.
func BuildContext(results []types.ScoredDocument, maxTokens int) string {
	if len(results) == 0 {
		return ""
	}

	var sb strings.Builder
	used := 0
	for i, res := range results {
		question := res.Document.Metadata["question"]
		answer := res.Document.Metadata["answer"]

		var part string
		if question != "" || answer != "" {
			part = fmt.Sprintf("[Source %d]\nQ: %s\nA: %s\n", i+1, question, answer)
		} else {
			part = fmt.Sprintf("[Source %d]\n%s\n", i+1, res.Document.Text)
		}

		partTokens := CountTokens(part)
		if i > 0 && maxTokens > 0 && used+partTokens > maxTokens {
			break
		}
		sb.WriteString(part)
		sb.WriteString("\n")
		used += partTokens
	}
	return strings.TrimRight(sb.String(), "\n")
}
