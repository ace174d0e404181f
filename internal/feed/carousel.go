package feed

import (
	"github.com/brocketdesign/chatlamix-uncensored-sub004/internal/domain"
)

// Carousel manages the horizontal axis of one entry: the active image index
// and per-image fidelity transitions. Owned one-to-one by its entry's slot
// in the window and destroyed together with it.
type Carousel struct {
	entry    *domain.CharacterEntry
	fidelity *FidelityController
}

func newCarousel(entry *domain.CharacterEntry, fidelity *FidelityController) *Carousel {
	return &Carousel{entry: entry, fidelity: fidelity}
}

// Entry returns the entry this carousel drives.
func (c *Carousel) Entry() *domain.CharacterEntry { return c.entry }

// SetActiveImage moves the horizontal cursor. The newly active image is
// promoted (when the entry is the active one) and the previous image drops
// back to thumbnail as a side effect of the promotion.
func (c *Carousel) SetActiveImage(index int) error {
	if index < 0 || index >= len(c.entry.Images) {
		return &domain.BoundsError{Axis: "image", Index: index, Len: len(c.entry.Images)}
	}
	if index == c.entry.ActiveImageIndex {
		return nil
	}
	c.entry.ActiveImageIndex = index
	c.fidelity.Promote(c.entry, index)
	return nil
}

// ActiveImage returns the image under the horizontal cursor.
func (c *Carousel) ActiveImage() (domain.ImageRef, error) {
	return c.entry.ActiveImage()
}

// destroy releases any full-resolution state before the entry is removed.
func (c *Carousel) destroy() {
	c.fidelity.Release(c.entry)
}
