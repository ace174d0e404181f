package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/brocketdesign/chatlamix-uncensored-sub004/internal/domain"
	"github.com/brocketdesign/chatlamix-uncensored-sub004/internal/feed"
	"github.com/brocketdesign/chatlamix-uncensored-sub004/internal/source"
)

// Command factories for async operations

// FetchPageCmd runs a claimed page fetch off the event loop and delivers
// the result for the scheduler to apply.
func FetchPageCmd(scheduler *feed.PrefetchScheduler, req source.PageRequest) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		entries, err := scheduler.Fetch(ctx, req)
		return PageFetchedMsg{Req: req, Entries: entries, Err: err}
	}
}

// TransitionCmd ends the slide animation after the configured duration.
func TransitionCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return TransitionDoneMsg{}
	})
}

// ToggleLikeCmd flips the persisted liked state for a character.
func ToggleLikeCmd(likes domain.LikeStore, characterID string) tea.Cmd {
	return func() tea.Msg {
		liked, err := likes.ToggleLiked(characterID)
		if err != nil {
			return ErrMsg{Err: err, Context: "toggling like"}
		}
		return LikeToggledMsg{CharacterID: characterID, Liked: liked}
	}
}
