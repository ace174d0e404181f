package feed

import (
	"log/slog"
	"time"

	"github.com/brocketdesign/chatlamix-uncensored-sub004/internal/domain"
)

// Config tunes the feed engine. Zero values fall back to defaults.
type Config struct {
	MaxWindowSize     int           // bound on materialized entries
	PruneBuffer       int           // entries kept behind the active index
	PrefetchThreshold int           // remaining-entries count that triggers a fetch
	PrefetchCooldown  time.Duration // minimum gap between fetch triggers
	PageSize          int           // entries requested per page
}

// DefaultConfig returns the tuning the mobile clients ship with.
func DefaultConfig() Config {
	return Config{
		MaxWindowSize:     10,
		PruneBuffer:       2,
		PrefetchThreshold: 3,
		PrefetchCooldown:  500 * time.Millisecond,
		PageSize:          6,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MaxWindowSize <= 0 {
		c.MaxWindowSize = d.MaxWindowSize
	}
	if c.PruneBuffer < 0 {
		c.PruneBuffer = d.PruneBuffer
	}
	if c.PrefetchThreshold <= 0 {
		c.PrefetchThreshold = d.PrefetchThreshold
	}
	if c.PrefetchCooldown <= 0 {
		c.PrefetchCooldown = d.PrefetchCooldown
	}
	if c.PageSize <= 0 {
		c.PageSize = d.PageSize
	}
	return c
}

// Window is the vertical-axis manager: an ordered, bounded collection of
// entries, the active index, and the prune algorithm that keeps the
// collection from growing without bound. It is the single writer for its
// entry collection; all mutation goes through its methods on the event loop.
type Window struct {
	cfg      Config
	renderer domain.Renderer
	fidelity *FidelityController
	logger   *slog.Logger

	carousels []*Carousel
	active    int
	hasActive bool

	// Blur derives from the safety filter; kept here so entries appended
	// after a toggle come in with the right state.
	safetyVisible bool

	prunePending bool
}

// NewWindow creates an empty feed window.
func NewWindow(cfg Config, renderer domain.Renderer, logger *slog.Logger) *Window {
	if logger == nil {
		logger = slog.Default()
	}
	return &Window{
		cfg:      cfg.withDefaults(),
		renderer: renderer,
		fidelity: NewFidelityController(renderer, logger),
		logger:   logger,
	}
}

// Config returns the effective tuning.
func (w *Window) Config() Config { return w.cfg }

// Len returns the number of materialized entries.
func (w *Window) Len() int { return len(w.carousels) }

// ActiveIndex returns the vertical cursor position.
func (w *Window) ActiveIndex() int { return w.active }

// ActiveEntry returns the entry under the vertical cursor, or nil when the
// window is empty.
func (w *Window) ActiveEntry() *domain.CharacterEntry {
	if !w.hasActive {
		return nil
	}
	return w.carousels[w.active].entry
}

// ActiveCarousel returns the horizontal-axis manager of the active entry.
func (w *Window) ActiveCarousel() *Carousel {
	if !w.hasActive {
		return nil
	}
	return w.carousels[w.active]
}

// EntryAt returns the entry at the given index.
func (w *Window) EntryAt(index int) (*domain.CharacterEntry, error) {
	if index < 0 || index >= len(w.carousels) {
		return nil, &domain.BoundsError{Axis: "entry", Index: index, Len: len(w.carousels)}
	}
	return w.carousels[index].entry, nil
}

// EntryByID finds a materialized entry by its character identifier.
func (w *Window) EntryByID(id string) (*domain.CharacterEntry, error) {
	for _, c := range w.carousels {
		if c.entry.ID == id {
			return c.entry, nil
		}
	}
	return nil, domain.ErrEntryNotFound
}

// Entries returns a snapshot of the materialized entries in order.
func (w *Window) Entries() []*domain.CharacterEntry {
	out := make([]*domain.CharacterEntry, len(w.carousels))
	for i, c := range w.carousels {
		out[i] = c.entry
	}
	return out
}

// Append materializes fetched entries at the tail of the window. Entries
// with no images are skipped; they counted as data on the cursor but there
// is nothing to render. The first entry ever appended becomes active.
func (w *Window) Append(entries []*domain.CharacterEntry) int {
	appended := 0
	for _, entry := range entries {
		if len(entry.Images) == 0 {
			w.logger.Debug("skipping imageless character", "character", entry.ID)
			continue
		}
		w.applyBlur(entry)
		carousel := newCarousel(entry, w.fidelity)
		w.carousels = append(w.carousels, carousel)
		w.renderer.OnEntryAppended(entry, len(w.carousels)-1)
		appended++
	}
	if !w.hasActive && len(w.carousels) > 0 {
		w.hasActive = true
		w.active = 0
		w.activate(0)
	} else if w.hasActive {
		// New tail entries may have become adjacent to the active one.
		w.materializeNeighbors()
	}
	w.SchedulePrune()
	w.MaybePrune()
	return appended
}

// SetActiveIndex moves the vertical cursor. The previous entry's images drop
// back to thumbnail, the next entry's images materialize and its active
// image is promoted, and a prune is scheduled.
func (w *Window) SetActiveIndex(next int) error {
	if next < 0 || next >= len(w.carousels) {
		return &domain.BoundsError{Axis: "entry", Index: next, Len: len(w.carousels)}
	}
	if !w.hasActive || next == w.active {
		return nil
	}
	prev := w.active
	prevEntry := w.carousels[prev].entry

	w.fidelity.DemoteEntry(prevEntry)
	w.renderer.OnEntryDeactivated(prevEntry, prev)

	w.active = next
	w.activate(next)

	w.SchedulePrune()
	w.MaybePrune()
	return nil
}

// Advance moves to the next entry if one exists.
func (w *Window) Advance() error {
	if w.active+1 >= len(w.carousels) {
		return nil
	}
	return w.SetActiveIndex(w.active + 1)
}

// Retreat moves to the previous entry if one exists.
func (w *Window) Retreat() error {
	if w.active == 0 {
		return nil
	}
	return w.SetActiveIndex(w.active - 1)
}

// Remaining returns how many entries lie at or past the active index,
// the quantity the prefetch threshold is compared against.
func (w *Window) Remaining() int {
	return len(w.carousels) - w.active
}

func (w *Window) activate(index int) {
	entry := w.carousels[index].entry
	w.fidelity.SetActiveEntry(entry)
	w.fidelity.MaterializeAll(entry)
	w.fidelity.Promote(entry, entry.ActiveImageIndex)
	w.materializeNeighbors()
	w.renderer.OnEntryActivated(entry, index)
}

// materializeNeighbors fetches cover thumbnails for the entries adjacent to
// the active one so the next swipe never lands on a placeholder.
func (w *Window) materializeNeighbors() {
	for _, i := range []int{w.active - 1, w.active + 1} {
		if i >= 0 && i < len(w.carousels) {
			w.fidelity.MaterializeCover(w.carousels[i].entry)
		}
	}
}

// SchedulePrune marks the window as needing a prune pass.
func (w *Window) SchedulePrune() {
	w.prunePending = true
}

// MaybePrune runs the pending prune unless the renderer reports a transition
// animation in flight, in which case the prune stays scheduled and the
// caller retries after the animation completes.
func (w *Window) MaybePrune() {
	if !w.prunePending {
		return
	}
	if w.renderer.IsTransitioning() {
		return
	}
	w.prunePending = false
	w.prune()
}

// prune removes entries outside both the keep range and the protected range
// around the active index. The active entry and its immediate neighbors are
// never removed, even if that leaves the window over budget by up to two.
func (w *Window) prune() {
	n := len(w.carousels)
	if n <= w.cfg.MaxWindowSize {
		return
	}

	keepStart := w.active - w.cfg.PruneBuffer
	if keepStart < 0 {
		keepStart = 0
	}
	keepEnd := keepStart + w.cfg.MaxWindowSize - 1
	if keepEnd > n-1 {
		keepEnd = n - 1
	}
	// Re-anchor so a cursor near the tail still keeps a full window.
	keepStart = keepEnd - w.cfg.MaxWindowSize + 1
	if keepStart < 0 {
		keepStart = 0
	}

	protStart := w.active - 1
	if protStart < 0 {
		protStart = 0
	}
	protEnd := w.active + 1
	if protEnd > n-1 {
		protEnd = n - 1
	}

	kept := make([]*Carousel, 0, w.cfg.MaxWindowSize+2)
	newActive := 0
	removed := 0
	for i, c := range w.carousels {
		inKeep := i >= keepStart && i <= keepEnd
		inProtected := i >= protStart && i <= protEnd
		if inKeep || inProtected {
			if i == w.active {
				newActive = len(kept)
			}
			kept = append(kept, c)
			continue
		}
		c.destroy()
		w.renderer.OnEntryRemoved(c.entry)
		removed++
	}
	if removed == 0 {
		return
	}
	w.carousels = kept
	w.active = newActive
	w.logger.Debug("pruned window", "removed", removed, "size", len(w.carousels), "active", w.active)
}

// Clear destroys every materialized entry. Used when a new browsing
// session starts (query or nsfw-mode change) and the window must rebuild
// from page one.
func (w *Window) Clear() {
	for _, c := range w.carousels {
		c.destroy()
		w.renderer.OnEntryRemoved(c.entry)
	}
	w.carousels = nil
	w.active = 0
	w.hasActive = false
	w.prunePending = false
	w.fidelity.SetActiveEntry(nil)
}

// RecomputeBlur re-derives every materialized image's blur flag from the
// safety filter state. Walks in-memory state only; nothing is refetched.
func (w *Window) RecomputeBlur(visible bool) {
	w.safetyVisible = visible
	for _, c := range w.carousels {
		w.applyBlur(c.entry)
	}
}

func (w *Window) applyBlur(entry *domain.CharacterEntry) {
	for i, img := range entry.Images {
		entry.ShouldBlur[i] = img.IsNsfw && !w.safetyVisible
	}
}
