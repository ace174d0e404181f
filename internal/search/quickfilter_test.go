package search

import (
	"testing"

	"github.com/brocketdesign/chatlamix-uncensored-sub004/internal/domain"
)

func entriesNamed(names ...string) []*domain.CharacterEntry {
	entries := make([]*domain.CharacterEntry, len(names))
	for i, name := range names {
		entries[i] = domain.NewCharacterEntry(name, name, name, "", nil)
	}
	return entries
}

func TestQuickFilterEmptyQuery(t *testing.T) {
	entries := entriesNamed("Luna", "Rex")
	if got := QuickFilter(entries, ""); got != nil {
		t.Fatalf("expected nil for empty query, got %v", got)
	}
	if got := QuickFilter(entries, "   "); got != nil {
		t.Fatalf("expected nil for blank query, got %v", got)
	}
}

func TestQuickFilterFuzzyMatch(t *testing.T) {
	entries := entriesNamed("Luna Nightshade", "Rex Ironclaw", "Lunar Witch")

	matches := QuickFilter(entries, "luna")
	if len(matches) < 2 {
		t.Fatalf("expected at least 2 matches, got %d", len(matches))
	}
	for _, m := range matches {
		name := entries[m.Index].DisplayName
		if name != "Luna Nightshade" && name != "Lunar Witch" {
			t.Fatalf("unexpected match: %s", name)
		}
		if len(m.MatchedIndexes) == 0 {
			t.Fatalf("expected highlight positions for %s", name)
		}
	}
}

func TestQuickFilterShortQueryFallback(t *testing.T) {
	entries := entriesNamed("Luna", "Rex", "Mira")

	matches := QuickFilter(entries, "r")
	found := map[string]bool{}
	for _, m := range matches {
		found[entries[m.Index].DisplayName] = true
	}
	if !found["Rex"] || !found["Mira"] {
		t.Fatalf("expected Rex and Mira for single-rune query, got %v", found)
	}
	if found["Luna"] {
		t.Fatal("Luna should not match query 'r'")
	}
}

func TestQuickFilterNoMatches(t *testing.T) {
	entries := entriesNamed("Luna", "Rex")
	if got := QuickFilter(entries, "zzzzzz"); len(got) != 0 {
		t.Fatalf("expected no matches, got %d", len(got))
	}
}
