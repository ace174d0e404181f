package feed

import (
	"context"
	"testing"
	"time"

	"github.com/brocketdesign/chatlamix-uncensored-sub004/internal/domain"
	"github.com/brocketdesign/chatlamix-uncensored-sub004/internal/log"
	"github.com/brocketdesign/chatlamix-uncensored-sub004/internal/source"
)

// fakeSource records requested pages and serves scripted responses.
type fakeSource struct {
	pages    map[int][]*domain.CharacterEntry
	err      error
	requests []int
}

func (s *fakeSource) FetchPage(_ context.Context, req source.PageRequest) ([]*domain.CharacterEntry, error) {
	s.requests = append(s.requests, req.Page)
	if s.err != nil {
		return nil, s.err
	}
	return s.pages[req.Page], nil
}

func newTestScheduler(src Source, cooldown time.Duration) (*PrefetchScheduler, *Window) {
	cfg := Config{MaxWindowSize: 20, PrefetchThreshold: 3, PrefetchCooldown: cooldown}
	w, _ := newTestWindow(cfg)
	return NewPrefetchScheduler(src, cfg, log.NullLogger()), w
}

func TestFirstLoadBypassesThreshold(t *testing.T) {
	src := &fakeSource{pages: map[int][]*domain.CharacterEntry{1: makeEntries("c", 6, 1)}}
	s, w := newTestScheduler(src, time.Hour)
	cursor := source.NewCursor("", domain.NsfwExclude, 6)

	req, ok := s.TryBegin(w, cursor)
	if !ok {
		t.Fatal("expected first load to begin immediately")
	}
	if req.Page != 1 {
		t.Fatalf("expected page 1, got %d", req.Page)
	}
}

func TestThresholdGate(t *testing.T) {
	src := &fakeSource{}
	s, w := newTestScheduler(src, time.Nanosecond)
	cursor := source.NewCursor("", domain.NsfwExclude, 6)
	cursor.Page = 2
	w.Append(makeEntries("c", 6, 1))

	if _, ok := s.TryBegin(w, cursor); ok {
		t.Fatal("expected no prefetch with 6 entries remaining")
	}

	w.SetActiveIndex(3) // remaining = 3 = threshold
	time.Sleep(5 * time.Millisecond)
	if _, ok := s.TryBegin(w, cursor); !ok {
		t.Fatal("expected prefetch at threshold")
	}
}

func TestSingleInFlight(t *testing.T) {
	src := &fakeSource{pages: map[int][]*domain.CharacterEntry{1: makeEntries("c", 6, 1)}}
	s, w := newTestScheduler(src, time.Nanosecond)
	cursor := source.NewCursor("", domain.NsfwExclude, 6)

	req, ok := s.TryBegin(w, cursor)
	if !ok {
		t.Fatal("expected first claim to succeed")
	}
	time.Sleep(5 * time.Millisecond)
	if _, ok := s.TryBegin(w, cursor); ok {
		t.Fatal("expected second claim to be a no-op while one is in flight")
	}

	entries, err := s.Fetch(context.Background(), req)
	s.Apply(w, cursor, req, entries, err)
	if s.InFlight() {
		t.Fatal("expected in-flight slot released after apply")
	}
}

func TestCooldownGate(t *testing.T) {
	src := &fakeSource{pages: map[int][]*domain.CharacterEntry{1: makeEntries("c", 2, 1)}}
	s, w := newTestScheduler(src, time.Hour)
	cursor := source.NewCursor("", domain.NsfwExclude, 6)

	req, _ := s.TryBegin(w, cursor)
	entries, err := s.Fetch(context.Background(), req)
	s.Apply(w, cursor, req, entries, err)

	// Window small, threshold satisfied, but the hour cooldown gates.
	if _, ok := s.TryBegin(w, cursor); ok {
		t.Fatal("expected cooldown to gate the second fetch")
	}

	s.Reset()
	if _, ok := s.TryBegin(w, cursor); !ok {
		t.Fatal("expected fetch after cooldown reset")
	}
}

func TestFailedFetchRetriesSamePage(t *testing.T) {
	src := &fakeSource{pages: map[int][]*domain.CharacterEntry{3: makeEntries("p3-", 6, 1)}}
	s, w := newTestScheduler(src, time.Nanosecond)
	cursor := source.NewCursor("", domain.NsfwExclude, 6)
	cursor.Page = 3
	w.Append(makeEntries("c", 2, 1))

	src.err = &source.FetchError{StatusCode: 503, URL: "http://example"}
	req, ok := s.TryBegin(w, cursor)
	if !ok {
		t.Fatal("expected claim")
	}
	entries, err := s.Fetch(context.Background(), req)
	res := s.Apply(w, cursor, req, entries, err)
	if res.Err == nil {
		t.Fatal("expected fetch error surfaced")
	}
	if !cursor.HasMore {
		t.Fatal("expected hasMore to stay true after a failed fetch")
	}
	if cursor.Page != 3 {
		t.Fatalf("expected cursor to stay on page 3, got %d", cursor.Page)
	}

	// Next trigger re-attempts page 3, not page 4.
	src.err = nil
	time.Sleep(5 * time.Millisecond)
	req, ok = s.TryBegin(w, cursor)
	if !ok {
		t.Fatal("expected retry claim")
	}
	if req.Page != 3 {
		t.Fatalf("expected retry of page 3, got %d", req.Page)
	}
}

func TestNonRetryableFetchStopsPaging(t *testing.T) {
	src := &fakeSource{err: &source.FetchError{StatusCode: 404, URL: "http://example"}}
	s, w := newTestScheduler(src, time.Nanosecond)
	cursor := source.NewCursor("", domain.NsfwExclude, 6)
	cursor.Page = 2
	w.Append(makeEntries("c", 2, 1))

	req, ok := s.TryBegin(w, cursor)
	if !ok {
		t.Fatal("expected claim")
	}
	entries, err := s.Fetch(context.Background(), req)
	res := s.Apply(w, cursor, req, entries, err)
	if res.Err == nil {
		t.Fatal("expected fetch error surfaced")
	}
	if cursor.HasMore {
		t.Fatal("a 4xx page must stop further prefetching")
	}
	if cursor.Page != 2 {
		t.Fatalf("aborted fetch must not advance the cursor, got page %d", cursor.Page)
	}

	time.Sleep(5 * time.Millisecond)
	if _, ok := s.TryBegin(w, cursor); ok {
		t.Fatal("expected no re-attempt of a terminally failed page")
	}
}

func TestEmptyPageExhausts(t *testing.T) {
	src := &fakeSource{pages: map[int][]*domain.CharacterEntry{}}
	s, w := newTestScheduler(src, time.Nanosecond)
	cursor := source.NewCursor("", domain.NsfwExclude, 6)

	req, _ := s.TryBegin(w, cursor)
	entries, err := s.Fetch(context.Background(), req)
	res := s.Apply(w, cursor, req, entries, err)

	if cursor.HasMore {
		t.Fatal("expected hasMore false after empty page")
	}
	if !res.Exhausted {
		t.Fatal("expected exhausted state with an empty window")
	}
}

func TestEmptyPageWithContentIsNotExhausted(t *testing.T) {
	src := &fakeSource{pages: map[int][]*domain.CharacterEntry{}}
	s, w := newTestScheduler(src, time.Nanosecond)
	cursor := source.NewCursor("", domain.NsfwExclude, 6)
	cursor.Page = 2
	w.Append(makeEntries("c", 4, 1))

	req, _ := s.TryBegin(w, cursor)
	entries, err := s.Fetch(context.Background(), req)
	res := s.Apply(w, cursor, req, entries, err)

	if cursor.HasMore {
		t.Fatal("expected hasMore false")
	}
	if res.Exhausted {
		t.Fatal("mid-stream empty page must not flip the exhausted UI state")
	}
}

func TestStaleResponseDropped(t *testing.T) {
	src := &fakeSource{pages: map[int][]*domain.CharacterEntry{1: makeEntries("old", 6, 1)}}
	s, w := newTestScheduler(src, time.Nanosecond)
	cursor := source.NewCursor("cats", domain.NsfwExclude, 6)

	req, _ := s.TryBegin(w, cursor)
	entries, err := s.Fetch(context.Background(), req)

	// The user changed the query while the fetch was in flight.
	cursor.Reset("dogs", domain.NsfwExclude)

	res := s.Apply(w, cursor, req, entries, err)
	if !res.Stale {
		t.Fatal("expected stale response to be dropped")
	}
	if w.Len() != 0 {
		t.Fatalf("stale entries leaked into the window: %d", w.Len())
	}
	if cursor.Page != 1 {
		t.Fatalf("stale apply moved the cursor: page %d", cursor.Page)
	}
}
