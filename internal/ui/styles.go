package ui

import "github.com/charmbracelet/lipgloss"

// Colors used throughout the TUI.
var (
	ColorCoral   = lipgloss.Color("#FF6B6B")
	ColorTeal    = lipgloss.Color("#4ECDC4")
	ColorSky     = lipgloss.Color("#45B7D1")
	ColorGold    = lipgloss.Color("#FFD93D")
	ColorViolet  = lipgloss.Color("#A78BFA")
	ColorGray    = lipgloss.Color("#666666")
	ColorDimGray = lipgloss.Color("#444444")
	ColorWhite   = lipgloss.Color("#FFFFFF")
)

// Base styles reused by UI components.
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorTeal)

	StoryTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorGold)

	StatusStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	EditBadgeStyle = lipgloss.NewStyle().
			Foreground(ColorGold).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorCoral).
			Bold(true)

	ErrorTextStyle = lipgloss.NewStyle().
			Foreground(ColorCoral)

	NoticeStyle = lipgloss.NewStyle().
			Foreground(ColorTeal).
			Bold(true)

	ConfirmStyle = lipgloss.NewStyle().
			Foreground(ColorGold).
			Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorWhite)

	LabelActiveStyle = lipgloss.NewStyle().
				Foreground(ColorSky).
				Bold(true)

	RequiredStyle = lipgloss.NewStyle().
			Foreground(ColorCoral)

	CaptionStyle = lipgloss.NewStyle().
			Foreground(ColorViolet).
			Italic(true)

	PanelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWhite)

	PanelTitleActiveStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorTeal)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(ColorTeal).
			Bold(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	SkeletonStyle = lipgloss.NewStyle().
			Foreground(ColorDimGray)

	FooterKeyStyle = lipgloss.NewStyle().
			Foreground(ColorGold).
			Bold(true)

	FooterDescStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	DividerStyle = lipgloss.NewStyle().
			Foreground(ColorDimGray)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(ColorViolet)
)
