package internal

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"clinicagent/types"
)

// ParseFaqFile reads clinic FAQ entries from a JSON file. Accepted
// shapes:
//
//	[{"question": ..., "answer": ..., "category": ...}, ...]
//	{"faqs": [...]}
//	{"questions": [...]}
//	{"What are your hours?": "We are open ...", ...}
func ParseFaqFile(path string) ([]types.FaqEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading faq file: %w", err)
	}
	entries, err := parseFaqJSON(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("no faq entries found in %s", path)
	}
	return entries, nil
}

func parseFaqJSON(data []byte) ([]types.FaqEntry, error) {
	var list []types.FaqEntry
	if err := json.Unmarshal(data, &list); err == nil {
		return list, nil
	}

	var wrapped struct {
		Faqs      []types.FaqEntry `json:"faqs"`
		Questions []types.FaqEntry `json:"questions"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil {
		if len(wrapped.Faqs) > 0 {
			return wrapped.Faqs, nil
		}
		if len(wrapped.Questions) > 0 {
			return wrapped.Questions, nil
		}
	}

	// Plain question -> answer map. Sorted for stable ids across runs.
	var plain map[string]string
	if err := json.Unmarshal(data, &plain); err == nil {
		questions := make([]string, 0, len(plain))
		for q := range plain {
			questions = append(questions, q)
		}
		sort.Strings(questions)
		entries := make([]types.FaqEntry, 0, len(plain))
		for _, q := range questions {
			entries = append(entries, types.FaqEntry{Question: q, Answer: plain[q]})
		}
		return entries, nil
	}

	return nil, fmt.Errorf("unrecognized faq file format")
}
