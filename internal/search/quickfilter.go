// Package search implements the client-side quick filter: fuzzy matching
// over display names of entries already materialized in the window. It
// never reaches the network; server-side search goes through the fetch
// cursor instead.
package search

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	sahilm "github.com/sahilm/fuzzy"

	"github.com/brocketdesign/chatlamix-uncensored-sub004/internal/domain"
)

// Match is one quick-filter hit.
type Match struct {
	Index          int   // Index into the filtered entry slice
	MatchedIndexes []int // Rune positions in the display name, for highlighting
}

type entrySource []*domain.CharacterEntry

func (s entrySource) String(i int) string { return s[i].DisplayName }
func (s entrySource) Len() int            { return len(s) }

// QuickFilter ranks materialized entries against the query. Queries shorter
// than two runes fall back to plain substring-style rank matching; anything
// longer gets full fuzzy scoring with match positions for highlighting.
func QuickFilter(entries []*domain.CharacterEntry, query string) []Match {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	if len([]rune(query)) < 2 {
		var matches []Match
		for i, e := range entries {
			if fuzzy.MatchNormalizedFold(query, e.DisplayName) {
				matches = append(matches, Match{Index: i})
			}
		}
		return matches
	}

	results := sahilm.FindFrom(query, entrySource(entries))
	matches := make([]Match, 0, len(results))
	for _, r := range results {
		matches = append(matches, Match{Index: r.Index, MatchedIndexes: r.MatchedIndexes})
	}
	return matches
}
