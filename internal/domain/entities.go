package domain

import "fmt"

// Fidelity is the resolution tier an image resource currently holds.
type Fidelity int

const (
	// FidelityPlaceholder means no image bytes have been requested yet.
	FidelityPlaceholder Fidelity = iota
	// FidelityThumbnail means the low-resolution variant is materialized.
	FidelityThumbnail
	// FidelityFull means the full-resolution variant is materialized.
	FidelityFull
)

// String returns a human-readable representation of the fidelity tier.
func (f Fidelity) String() string {
	switch f {
	case FidelityPlaceholder:
		return "placeholder"
	case FidelityThumbnail:
		return "thumbnail"
	case FidelityFull:
		return "full"
	default:
		return "unknown"
	}
}

// NsfwMode selects whether the backend query includes unfiltered content.
type NsfwMode string

const (
	NsfwInclude NsfwMode = "include"
	NsfwExclude NsfwMode = "exclude"
)

// Valid reports whether the mode is one of the two accepted values.
func (m NsfwMode) Valid() bool {
	return m == NsfwInclude || m == NsfwExclude
}

// MaxImagesPerEntry bounds the horizontal axis of a single entry.
const MaxImagesPerEntry = 3

// ImageRef identifies one image of a character at both resolution tiers.
// Immutable once fetched; mutable presentation state (fidelity, blur) lives
// on the owning CharacterEntry.
type ImageRef struct {
	ID           string // Backend image identifier
	ThumbnailURL string // Low-resolution variant
	FullURL      string // Full-resolution variant
	IsNsfw       bool   // Flagged by the backend, drives blur state
	ModelID      string // Generation model that produced the image
}

// CharacterEntry is one unit of vertical-axis content: a character profile
// and its bounded image set. Created when a page result is appended to the
// feed window and destroyed when pruned out of it.
type CharacterEntry struct {
	ID               string
	DisplayName      string
	Slug             string
	AvatarURL        string
	Images           []ImageRef
	ActiveImageIndex int

	// Per-image presentation state, parallel to Images.
	ImageFidelity []Fidelity
	ShouldBlur    []bool

	Liked bool
}

// NewCharacterEntry initializes the per-image state slices for the given
// images, capped at MaxImagesPerEntry.
func NewCharacterEntry(id, displayName, slug, avatarURL string, images []ImageRef) *CharacterEntry {
	if len(images) > MaxImagesPerEntry {
		images = images[:MaxImagesPerEntry]
	}
	return &CharacterEntry{
		ID:            id,
		DisplayName:   displayName,
		Slug:          slug,
		AvatarURL:     avatarURL,
		Images:        images,
		ImageFidelity: make([]Fidelity, len(images)),
		ShouldBlur:    make([]bool, len(images)),
	}
}

// ActiveImage returns the image at the active horizontal index.
func (e *CharacterEntry) ActiveImage() (ImageRef, error) {
	if e.ActiveImageIndex < 0 || e.ActiveImageIndex >= len(e.Images) {
		return ImageRef{}, &BoundsError{Axis: "image", Index: e.ActiveImageIndex, Len: len(e.Images)}
	}
	return e.Images[e.ActiveImageIndex], nil
}

// ImageCount returns the number of images the entry carries.
func (e *CharacterEntry) ImageCount() int { return len(e.Images) }

// GetID returns the backend character identifier.
func (e *CharacterEntry) GetID() string { return e.ID }

// GetTitle returns the display name shown on the card.
func (e *CharacterEntry) GetTitle() string { return e.DisplayName }

// GetDescription returns secondary info for display.
func (e *CharacterEntry) GetDescription() string {
	if len(e.Images) == 1 {
		return "1 image"
	}
	return fmt.Sprintf("%d images", len(e.Images))
}
