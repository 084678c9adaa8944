// Package wordfilter checks free text against the admin-managed blocklist.
package wordfilter

import "strings"

// Match is one blocklisted phrase found in a piece of text.
type Match struct {
	Word     string `json:"word"`
	Position int    `json:"position"`
}

type Filter struct {
	words []string
}

// New builds a filter from blocklist phrases. Phrases are matched
// case-insensitively as substrings.
func New(words []string) *Filter {
	lowered := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			lowered = append(lowered, w)
		}
	}
	return &Filter{words: lowered}
}

// Scan returns every occurrence of every blocklisted phrase in text,
// with the byte position of each occurrence.
func (f *Filter) Scan(text string) []Match {
	var matches []Match
	lowered := strings.ToLower(text)

	for _, word := range f.words {
		start := 0
		for {
			idx := strings.Index(lowered[start:], word)
			if idx < 0 {
				break
			}
			matches = append(matches, Match{Word: word, Position: start + idx})
			start += idx + len(word)
		}
	}

	return matches
}
