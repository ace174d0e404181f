package tui

import (
	"github.com/brocketdesign/chatlamix-uncensored-sub004/internal/domain"
	"github.com/brocketdesign/chatlamix-uncensored-sub004/internal/source"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// PageFetchedMsg resolves an in-flight page fetch. Req carries the session
// the page was fetched under so stale responses can be dropped.
type PageFetchedMsg struct {
	Req     source.PageRequest
	Entries []*domain.CharacterEntry
	Err     error
}

// TransitionDoneMsg signals that the slide animation finished and deferred
// pruning may run.
type TransitionDoneMsg struct{}

// LikeToggledMsg signals the liked state of a character changed
type LikeToggledMsg struct {
	CharacterID string
	Liked       bool
}
