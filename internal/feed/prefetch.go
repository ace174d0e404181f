package feed

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/brocketdesign/chatlamix-uncensored-sub004/internal/domain"
	"github.com/brocketdesign/chatlamix-uncensored-sub004/internal/source"
)

// Source is the paginated fetch the scheduler drives. Satisfied by
// *source.Client.
type Source interface {
	FetchPage(ctx context.Context, req source.PageRequest) ([]*domain.CharacterEntry, error)
}

// PrefetchScheduler decides when the window asks the source for more data:
// threshold-based, cooldown-gated, and never more than one fetch in flight.
// The single-in-flight guard is also what keeps page fetches strictly
// sequential per cursor.
type PrefetchScheduler struct {
	src     Source
	limiter *rate.Limiter
	cfg     Config
	logger  *slog.Logger

	inFlight bool
}

// NewPrefetchScheduler creates a scheduler with the window's tuning. The
// limiter starts with a full burst so the very first load skips the
// cooldown.
func NewPrefetchScheduler(src Source, cfg Config, logger *slog.Logger) *PrefetchScheduler {
	if logger == nil {
		logger = slog.Default()
	}
	cfg = cfg.withDefaults()
	return &PrefetchScheduler{
		src:     src,
		limiter: rate.NewLimiter(rate.Every(cfg.PrefetchCooldown), 1),
		cfg:     cfg,
		logger:  logger,
	}
}

// Reset re-arms the cooldown for a fresh browsing session so its first
// load is not gated by the previous session's fetch times. An in-flight
// fetch keeps its slot: it resolves as stale first, preserving the strict
// page ordering.
func (s *PrefetchScheduler) Reset() {
	s.limiter = rate.NewLimiter(rate.Every(s.cfg.PrefetchCooldown), 1)
}

// InFlight reports whether a fetch is pending.
func (s *PrefetchScheduler) InFlight() bool { return s.inFlight }

// TryBegin checks threshold, exhaustion, cooldown, and the in-flight guard.
// On success it claims the in-flight slot and returns the request snapshot
// for the fetch; the caller must resolve it with Apply. Call on the event
// loop only.
func (s *PrefetchScheduler) TryBegin(w *Window, cursor *source.FetchCursor) (source.PageRequest, bool) {
	if s.inFlight || !cursor.HasMore {
		return source.PageRequest{}, false
	}
	if w.Len() > 0 && w.Remaining() > s.cfg.PrefetchThreshold {
		return source.PageRequest{}, false
	}
	if !s.limiter.Allow() {
		return source.PageRequest{}, false
	}
	s.inFlight = true
	return cursor.NextRequest(), true
}

// Fetch performs the fetch for a claimed request. Safe to run off the event
// loop; it touches neither the window nor the cursor.
func (s *PrefetchScheduler) Fetch(ctx context.Context, req source.PageRequest) ([]*domain.CharacterEntry, error) {
	return s.src.FetchPage(ctx, req)
}

// ApplyResult describes what a resolved fetch did to the feed.
type ApplyResult struct {
	Appended  int  // entries materialized into the window
	Stale     bool // response belonged to an abandoned session, dropped
	Exhausted bool // no more pages and the window is empty
	Err       error
}

// Apply resolves a claimed fetch on the event loop: releases the in-flight
// slot, discards stale responses, advances or fails the cursor, and appends
// new entries to the window.
func (s *PrefetchScheduler) Apply(w *Window, cursor *source.FetchCursor, req source.PageRequest, entries []*domain.CharacterEntry, err error) ApplyResult {
	s.inFlight = false

	if req.SessionID != cursor.SessionID {
		s.logger.Debug("dropping stale page", "page", req.Page)
		return ApplyResult{Stale: true}
	}

	if err != nil {
		var fe *source.FetchError
		if errors.As(err, &fe) && !fe.Retryable() {
			cursor.Abort()
			s.logger.Warn("page fetch failed terminally", "page", req.Page, "error", err)
		} else {
			cursor.Fail()
			s.logger.Warn("page fetch failed, will retry", "page", req.Page, "error", err)
		}
		return ApplyResult{Err: err}
	}

	cursor.Advance(len(entries))
	appended := w.Append(entries)
	// The exhausted state only surfaces when there is nothing to show at
	// all; a mid-stream empty page just stops further prefetching.
	exhausted := len(entries) == 0 && w.Len() == 0
	return ApplyResult{Appended: appended, Exhausted: exhausted}
}

// Cooldown returns the configured minimum gap between fetch triggers.
func (s *PrefetchScheduler) Cooldown() time.Duration { return s.cfg.PrefetchCooldown }
