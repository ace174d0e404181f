package feed

import (
	"log/slog"

	"github.com/brocketdesign/chatlamix-uncensored-sub004/internal/domain"
)

// FidelityController enforces the resource policy: at most one image in the
// whole window holds full resolution, and it belongs to the active entry's
// active image. Everything else is thumbnail or placeholder.
type FidelityController struct {
	renderer domain.Renderer
	logger   *slog.Logger

	active   *domain.CharacterEntry // entry eligible for promotion
	promoted *domain.CharacterEntry // entry holding the full-res image, if any
}

// NewFidelityController creates the policy object shared by the window and
// its carousels.
func NewFidelityController(renderer domain.Renderer, logger *slog.Logger) *FidelityController {
	if logger == nil {
		logger = slog.Default()
	}
	return &FidelityController{renderer: renderer, logger: logger}
}

// SetActiveEntry marks the entry whose active image may be promoted.
// Passing nil means no entry is active.
func (f *FidelityController) SetActiveEntry(entry *domain.CharacterEntry) {
	f.active = entry
}

// MaterializeCover fetches the thumbnail for the entry's first image. Used
// for entries that just became adjacent to the active one.
func (f *FidelityController) MaterializeCover(entry *domain.CharacterEntry) {
	if len(entry.Images) == 0 {
		return
	}
	f.materialize(entry, 0)
}

// MaterializeAll fetches thumbnails for every deferred image of the entry.
// Used when the entry becomes active and its carousel must be browsable.
func (f *FidelityController) MaterializeAll(entry *domain.CharacterEntry) {
	for i := range entry.Images {
		f.materialize(entry, i)
	}
}

func (f *FidelityController) materialize(entry *domain.CharacterEntry, imageIndex int) {
	if entry.ImageFidelity[imageIndex] != domain.FidelityPlaceholder {
		return
	}
	entry.ImageFidelity[imageIndex] = domain.FidelityThumbnail
	f.renderer.OnImageMaterialized(entry, imageIndex)
}

// Promote raises the entry's image to full resolution. No-op unless the
// entry is the active one; whichever image held full resolution before is
// demoted first.
func (f *FidelityController) Promote(entry *domain.CharacterEntry, imageIndex int) {
	if entry != f.active {
		return
	}
	if imageIndex < 0 || imageIndex >= len(entry.Images) {
		f.logger.Warn("promote out of range", "character", entry.ID, "index", imageIndex)
		return
	}
	if f.promoted != nil && f.promoted != entry {
		f.DemoteEntry(f.promoted)
	}
	f.materialize(entry, imageIndex)
	for i := range entry.Images {
		if i != imageIndex && entry.ImageFidelity[i] == domain.FidelityFull {
			entry.ImageFidelity[i] = domain.FidelityThumbnail
			f.renderer.OnImageDemoted(entry, i)
		}
	}
	if entry.ImageFidelity[imageIndex] != domain.FidelityFull {
		entry.ImageFidelity[imageIndex] = domain.FidelityFull
		f.renderer.OnImagePromoted(entry, imageIndex)
	}
	f.promoted = entry
}

// DemoteEntry drops every full-resolution image of the entry back to
// thumbnail so a deactivated entry never pins full-res memory.
func (f *FidelityController) DemoteEntry(entry *domain.CharacterEntry) {
	for i := range entry.Images {
		if entry.ImageFidelity[i] == domain.FidelityFull {
			entry.ImageFidelity[i] = domain.FidelityThumbnail
			f.renderer.OnImageDemoted(entry, i)
		}
	}
	if f.promoted == entry {
		f.promoted = nil
	}
}

// Release forgets any state the controller holds for the entry. Called when
// the entry is pruned out of the window.
func (f *FidelityController) Release(entry *domain.CharacterEntry) {
	f.DemoteEntry(entry)
	if f.active == entry {
		f.active = nil
	}
}
