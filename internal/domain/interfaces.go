package domain

// Renderer is the callback surface the feed engine exposes to whatever draws
// the cards. The engine never depends on a concrete rendering or animation
// library; the renderer owns all visual transitions and reports when one is
// in flight so pruning can defer.
type Renderer interface {
	// OnEntryAppended fires when a fetched entry is materialized at index.
	OnEntryAppended(entry *CharacterEntry, index int)

	// OnEntryActivated fires when the entry becomes the active one.
	OnEntryActivated(entry *CharacterEntry, index int)

	// OnEntryDeactivated fires when the entry stops being the active one.
	OnEntryDeactivated(entry *CharacterEntry, index int)

	// OnEntryRemoved fires after the entry is pruned out of the window.
	OnEntryRemoved(entry *CharacterEntry)

	// OnImagePromoted fires when an image reaches full fidelity.
	OnImagePromoted(entry *CharacterEntry, imageIndex int)

	// OnImageDemoted fires when an image drops back to thumbnail fidelity.
	OnImageDemoted(entry *CharacterEntry, imageIndex int)

	// OnImageMaterialized fires when a deferred image gets its thumbnail.
	OnImageMaterialized(entry *CharacterEntry, imageIndex int)

	// IsTransitioning reports whether a slide animation is in progress.
	// The prune scheduler defers while this returns true.
	IsTransitioning() bool
}

// Entitlements answers whether the current viewer may see unfiltered
// content. Consulted only at safety-filter toggle time.
type Entitlements interface {
	CanViewUnfiltered() bool
}

// Upsell is where ineligible viewers are redirected instead of flipping the
// safety filter.
type Upsell interface {
	ShowUpsell()
}

// PreferenceStore is one tier of the safety-filter persistence surface.
// Both the session-scoped and the durable tier implement it with the same
// key; the session tier wins on read at startup.
type PreferenceStore interface {
	// SafetyVisible returns the stored preference and whether one was set.
	SafetyVisible() (visible bool, ok bool)

	// SetSafetyVisible stores the preference.
	SetSafetyVisible(visible bool) error
}

// LikeStore persists the minimal liked-character state needed to keep the
// heart indicator consistent across restarts.
type LikeStore interface {
	// ToggleLiked flips the liked state and returns the new value.
	ToggleLiked(characterID string) (bool, error)

	// IsLiked reports whether the character is liked.
	IsLiked(characterID string) bool
}
