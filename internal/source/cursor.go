package source

import (
	"time"

	"github.com/google/uuid"

	"github.com/brocketdesign/chatlamix-uncensored-sub004/internal/domain"
)

const defaultPageSize = 6

// FetchCursor owns the vertical-axis query state: search text, nsfw mode,
// next page to request, and exhaustion. It is mutated only on the event
// loop; in-flight fetches work from a PageRequest snapshot.
type FetchCursor struct {
	Query       string
	NsfwMode    domain.NsfwMode
	Page        int
	Limit       int
	HasMore     bool
	LastFetchAt time.Time

	// SessionID identifies the browsing session this cursor belongs to.
	// A response fetched under an older session is discarded on arrival.
	SessionID uuid.UUID
}

// PageRequest is an immutable snapshot of the cursor handed to the client
// for one fetch.
type PageRequest struct {
	Query     string
	NsfwMode  domain.NsfwMode
	Page      int
	Limit     int
	SessionID uuid.UUID
}

// NewCursor starts a cursor at page 1 for the given query and mode.
func NewCursor(query string, mode domain.NsfwMode, limit int) *FetchCursor {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if !mode.Valid() {
		mode = domain.NsfwExclude
	}
	return &FetchCursor{
		Query:     query,
		NsfwMode:  mode,
		Page:      1,
		Limit:     limit,
		HasMore:   true,
		SessionID: uuid.New(),
	}
}

// Reset rewinds the cursor for a new browsing session with a fresh session
// identity. Any response still in flight for the old session becomes stale.
func (c *FetchCursor) Reset(query string, mode domain.NsfwMode) {
	c.Query = query
	if mode.Valid() {
		c.NsfwMode = mode
	}
	c.Page = 1
	c.HasMore = true
	c.LastFetchAt = time.Time{}
	c.SessionID = uuid.New()
}

// NextRequest snapshots the cursor for the next page fetch.
func (c *FetchCursor) NextRequest() PageRequest {
	return PageRequest{
		Query:     c.Query,
		NsfwMode:  c.NsfwMode,
		Page:      c.Page,
		Limit:     c.Limit,
		SessionID: c.SessionID,
	}
}

// Advance records a successful fetch. A page with zero raw entries marks the
// cursor exhausted; any non-empty response keeps HasMore true even if every
// entry is later dropped downstream.
func (c *FetchCursor) Advance(rawCount int) {
	c.LastFetchAt = time.Now()
	if rawCount == 0 {
		c.HasMore = false
		return
	}
	c.Page++
	c.HasMore = true
}

// Fail records a failed fetch. The page is not advanced and HasMore stays
// true so the same page is retried on the next prefetch trigger.
func (c *FetchCursor) Fail() {
	c.LastFetchAt = time.Now()
	c.HasMore = true
}

// Abort records a failed fetch that retrying cannot fix, such as a 4xx
// response. HasMore drops so the scheduler stops re-attempting the page;
// only Reset re-arms the cursor.
func (c *FetchCursor) Abort() {
	c.LastFetchAt = time.Now()
	c.HasMore = false
}
