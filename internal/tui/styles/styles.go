package styles

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	Rose      = lipgloss.Color("#F472B6")
	SlateDark = lipgloss.Color("#1F2937")
	DimGray   = lipgloss.Color("#6B7280")
	LightGray = lipgloss.Color("#9CA3AF")
	White     = lipgloss.Color("#F9FAFB")
	Green     = lipgloss.Color("#10B981")
	Red       = lipgloss.Color("#EF4444")
	Amber     = lipgloss.Color("#F59E0B")
)

// Borders
var (
	CardBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Rose)

	NeighborBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(DimGray)

	ModalBorder = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(Amber).
			Padding(1, 3)
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	AccentStyle = lipgloss.NewStyle().
			Foreground(Rose)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Green)

	BlurStyle = lipgloss.NewStyle().
			Foreground(DimGray)
)

// Indicator characters
const (
	LikedChar    = "♥"
	NotLikedChar = "♡"
	DotActive    = "●"
	DotInactive  = "○"
	DotDeferred  = "·"
)

// SpinnerFrames for plain-terminal progress display
var SpinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
