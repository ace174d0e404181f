package source

import (
	"testing"

	"github.com/brocketdesign/chatlamix-uncensored-sub004/internal/domain"
)

func TestNewCursorDefaults(t *testing.T) {
	c := NewCursor("elf", domain.NsfwInclude, 0)
	if c.Page != 1 {
		t.Fatalf("expected page 1, got %d", c.Page)
	}
	if c.Limit != 6 {
		t.Fatalf("expected default limit 6, got %d", c.Limit)
	}
	if !c.HasMore {
		t.Fatal("expected hasMore true at start")
	}

	c = NewCursor("", domain.NsfwMode("bogus"), 6)
	if c.NsfwMode != domain.NsfwExclude {
		t.Fatalf("expected invalid mode to fall back to exclude, got %s", c.NsfwMode)
	}
}

func TestCursorAdvance(t *testing.T) {
	c := NewCursor("", domain.NsfwExclude, 6)

	c.Advance(6)
	if c.Page != 2 || !c.HasMore {
		t.Fatalf("unexpected cursor after full page: page=%d hasMore=%v", c.Page, c.HasMore)
	}
	if c.LastFetchAt.IsZero() {
		t.Fatal("expected fetch time recorded")
	}

	// A partially-filtered page still counts as data.
	c.Advance(1)
	if c.Page != 3 || !c.HasMore {
		t.Fatalf("unexpected cursor after partial page: page=%d hasMore=%v", c.Page, c.HasMore)
	}

	c.Advance(0)
	if c.HasMore {
		t.Fatal("expected exhaustion after empty page")
	}
	if c.Page != 3 {
		t.Fatalf("empty page must not advance the cursor, got page %d", c.Page)
	}
}

func TestCursorFailKeepsPageRetryable(t *testing.T) {
	c := NewCursor("", domain.NsfwExclude, 6)
	c.Page = 3

	c.Fail()
	if c.Page != 3 {
		t.Fatalf("failed fetch must not advance: page %d", c.Page)
	}
	if !c.HasMore {
		t.Fatal("failed fetch must keep hasMore true")
	}
}

func TestCursorAbortEndsPaging(t *testing.T) {
	c := NewCursor("", domain.NsfwExclude, 6)
	c.Page = 2

	c.Abort()
	if c.HasMore {
		t.Fatal("aborted cursor must not report more pages")
	}
	if c.Page != 2 {
		t.Fatalf("abort must not advance: page %d", c.Page)
	}

	c.Reset("", domain.NsfwExclude)
	if !c.HasMore {
		t.Fatal("reset must re-arm an aborted cursor")
	}
}

func TestCursorResetStartsNewSession(t *testing.T) {
	c := NewCursor("cats", domain.NsfwExclude, 6)
	oldSession := c.SessionID
	c.Advance(6)
	c.Advance(0)

	c.Reset("dogs", domain.NsfwInclude)
	if c.Query != "dogs" || c.NsfwMode != domain.NsfwInclude {
		t.Fatalf("unexpected cursor after reset: %+v", c)
	}
	if c.Page != 1 || !c.HasMore {
		t.Fatalf("expected page 1 and hasMore after reset: page=%d hasMore=%v", c.Page, c.HasMore)
	}
	if c.SessionID == oldSession {
		t.Fatal("expected a fresh session identity")
	}
}

func TestNextRequestSnapshot(t *testing.T) {
	c := NewCursor("elf", domain.NsfwExclude, 6)
	req := c.NextRequest()

	c.Advance(6)
	if req.Page != 1 {
		t.Fatalf("snapshot mutated by cursor advance: page %d", req.Page)
	}
	if req.SessionID != c.SessionID {
		t.Fatal("snapshot session must match the cursor session")
	}
}
