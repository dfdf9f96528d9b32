package domain

import "strings"

// KeywordMatcher flags text containing any of a fixed set of words.
// Matching is a case-insensitive substring check, so "killer" matches "kill".
type KeywordMatcher struct {
	words []string
}

// NewKeywordMatcher builds a matcher; an empty list falls back to DefaultAggressiveWords.
func NewKeywordMatcher(words []string) *KeywordMatcher {
	src := words
	if len(src) == 0 {
		src = DefaultAggressiveWords
	}

	out := make([]string, 0, len(src))
	seen := map[string]bool{}
	for _, w := range src {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return &KeywordMatcher{words: out}
}

// Match reports whether text contains an aggressive word.
func (m *KeywordMatcher) Match(text string) bool {
	if text == "" {
		return false
	}
	lower := strings.ToLower(text)
	for _, w := range m.words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// Words returns the normalized word list.
func (m *KeywordMatcher) Words() []string {
	out := make([]string, len(m.words))
	copy(out, m.words)
	return out
}
