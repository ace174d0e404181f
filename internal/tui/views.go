package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/brocketdesign/chatlamix-uncensored-sub004/internal/domain"
	"github.com/brocketdesign/chatlamix-uncensored-sub004/internal/tui/styles"
)

const cardWidth = 46

// View renders the current application state.
func (m *Model) View() string {
	switch m.State {
	case StateLoading:
		return fmt.Sprintf("\n  %s loading characters...\n", m.Spinner.View())
	case StateError:
		return m.viewError()
	case StateEmpty:
		return m.viewEmpty()
	case StateUpsell:
		return m.viewUpsell()
	case StateHelp:
		return m.viewHelp()
	case StateFiltering:
		return m.viewBrowsing() + "\n" + m.viewFilterBar()
	case StateSearchInput:
		return m.viewBrowsing() + "\n  " + styles.AccentStyle.Render("search: ") + m.Input.View()
	default:
		return m.viewBrowsing()
	}
}

func (m *Model) viewError() string {
	msg := "something went wrong"
	if m.lastErr != nil {
		msg = m.lastErr.Error()
	}
	return fmt.Sprintf(
		"\n  %s\n\n  %s\n",
		styles.ErrorStyle.Render(msg),
		styles.DimStyle.Render("r to retry · / to search · q to quit"),
	)
}

func (m *Model) viewEmpty() string {
	return fmt.Sprintf(
		"\n  %s\n\n  %s\n",
		styles.SubtitleStyle.Render("no characters found"),
		styles.DimStyle.Render("r to retry · / to search · q to quit"),
	)
}

func (m *Model) viewUpsell() string {
	body := lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render("Unfiltered content is a premium feature"),
		"",
		styles.SubtitleStyle.Render("Upgrade your plan to browse without the safety filter."),
		"",
		styles.DimStyle.Render("esc to close"),
	)
	return "\n" + styles.ModalBorder.Render(body) + "\n"
}

func (m *Model) viewHelp() string {
	lines := []string{
		styles.TitleStyle.Render("Keys"),
		"",
		"  j/k   next / previous character",
		"  h/l   previous / next image",
		"  s     toggle safety filter",
		"  L     like character",
		"  f     quick filter loaded characters",
		"  /     new search",
		"  r     retry after an error",
		"  q     quit",
		"",
		styles.DimStyle.Render("any key to close"),
	}
	return "\n" + strings.Join(lines, "\n") + "\n"
}

func (m *Model) viewBrowsing() string {
	entry := m.Window.ActiveEntry()
	if entry == nil {
		return "\n  " + styles.DimStyle.Render("nothing loaded yet") + "\n"
	}

	var b strings.Builder
	b.WriteString("\n")

	// Previous neighbor, dimmed above the card.
	if prev, err := m.Window.EntryAt(m.Window.ActiveIndex() - 1); err == nil {
		b.WriteString("  " + styles.DimStyle.Render("▲ "+prev.DisplayName) + "\n")
	} else {
		b.WriteString("\n")
	}

	b.WriteString(m.renderCard(entry) + "\n")

	if next, err := m.Window.EntryAt(m.Window.ActiveIndex() + 1); err == nil {
		b.WriteString("  " + styles.DimStyle.Render("▼ "+next.DisplayName) + "\n")
	} else if m.exhausted || !m.Cursor.HasMore {
		b.WriteString("  " + styles.DimStyle.Render("▼ end of results") + "\n")
	} else {
		b.WriteString("\n")
	}

	b.WriteString("\n" + m.viewFooter())
	return b.String()
}

func (m *Model) renderCard(entry *domain.CharacterEntry) string {
	liked := styles.DimStyle.Render(styles.NotLikedChar)
	if entry.Liked || m.Likes.IsLiked(entry.ID) {
		liked = styles.AccentStyle.Render(styles.LikedChar)
	}

	header := lipgloss.JoinHorizontal(lipgloss.Top,
		styles.TitleStyle.Render(entry.DisplayName),
		" ",
		liked,
	)
	slug := styles.SubtitleStyle.Render("@" + entry.Slug)

	body := lipgloss.JoinVertical(lipgloss.Left,
		header,
		slug,
		"",
		m.renderImage(entry),
		"",
		m.renderDots(entry),
	)

	style := styles.CardBorder
	if m.transitioning {
		style = styles.NeighborBorder
	}
	return style.Width(cardWidth).Padding(0, 1).Render(body)
}

// renderImage draws the textual stand-in for the active image: its fidelity
// tier, source URL, and the blur overlay when the safety filter hides it.
func (m *Model) renderImage(entry *domain.CharacterEntry) string {
	idx := entry.ActiveImageIndex
	if idx < 0 || idx >= len(entry.Images) {
		return styles.DimStyle.Render("(no image)")
	}
	img := entry.Images[idx]
	fidelity := entry.ImageFidelity[idx]

	if entry.ShouldBlur[idx] {
		overlay := strings.Repeat("░", cardWidth-6)
		return lipgloss.JoinVertical(lipgloss.Left,
			styles.BlurStyle.Render(overlay),
			styles.BlurStyle.Render(overlay),
			styles.DimStyle.Render("nsfw hidden · s to reveal"),
		)
	}

	var url string
	switch fidelity {
	case domain.FidelityFull:
		url = img.FullURL
	case domain.FidelityThumbnail:
		url = img.ThumbnailURL
	default:
		return styles.DimStyle.Render("(loading...)")
	}

	label := styles.SuccessStyle.Render(fidelity.String())
	if img.ModelID != "" {
		label += styles.DimStyle.Render(" · " + img.ModelID)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		label,
		styles.SubtitleStyle.Render(truncate(url, cardWidth-6)),
	)
}

func (m *Model) renderDots(entry *domain.CharacterEntry) string {
	dots := make([]string, len(entry.Images))
	for i := range entry.Images {
		switch {
		case i == entry.ActiveImageIndex:
			dots[i] = styles.AccentStyle.Render(styles.DotActive)
		case entry.ImageFidelity[i] == domain.FidelityPlaceholder:
			dots[i] = styles.DimStyle.Render(styles.DotDeferred)
		default:
			dots[i] = styles.DimStyle.Render(styles.DotInactive)
		}
	}
	return strings.Join(dots, " ")
}

func (m *Model) viewFooter() string {
	pos := fmt.Sprintf("%d/%d", m.Window.ActiveIndex()+1, m.Window.Len())
	safetyState := "hidden"
	if m.Filter.Visible() {
		safetyState = "visible"
	}
	parts := []string{
		styles.AccentStyle.Render(pos),
		styles.DimStyle.Render("nsfw " + safetyState),
	}
	if m.Cursor.Query != "" {
		parts = append(parts, styles.DimStyle.Render("query: "+m.Cursor.Query))
	}
	if m.lastEvent != "" {
		parts = append(parts, styles.DimStyle.Render(m.lastEvent))
	}
	parts = append(parts, styles.DimStyle.Render("? help"))
	return "  " + strings.Join(parts, styles.DimStyle.Render(" · "))
}

func (m *Model) viewFilterBar() string {
	var b strings.Builder
	b.WriteString("  " + styles.AccentStyle.Render("filter: ") + m.Input.View() + "\n")
	entries := m.Window.Entries()
	max := len(m.filterMatches)
	if max > 5 {
		max = 5
	}
	for _, match := range m.filterMatches[:max] {
		b.WriteString("    " + styles.SubtitleStyle.Render(entries[match.Index].DisplayName) + "\n")
	}
	if len(m.filterMatches) == 0 && m.Input.Value() != "" {
		b.WriteString("    " + styles.DimStyle.Render("no matches in window") + "\n")
	}
	return b.String()
}

func truncate(s string, max int) string {
	if max <= 3 || len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
