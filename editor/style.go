package editor

import (
	"reflect"

	"github.com/charmbracelet/lipgloss"

	"github.com/iw2rmb/zinc/toolbar"
)

// Style controls the editor's rendering.
type Style struct {
	Text      lipgloss.Style
	Selection lipgloss.Style
	Cursor    lipgloss.Style

	Bold      lipgloss.Style
	Italic    lipgloss.Style
	Underline lipgloss.Style
	Strike    lipgloss.Style
	Code      lipgloss.Style
	Link      lipgloss.Style

	Header     lipgloss.Style
	Blockquote lipgloss.Style
	CodeBlock  lipgloss.Style
	Divider    lipgloss.Style
	ListMarker lipgloss.Style

	// Colors maps color format values to foreground colours.
	Colors map[string]lipgloss.TerminalColor

	Toolbar toolbar.Style

	PaletteItem     lipgloss.Style
	PaletteSelected lipgloss.Style
	PaletteEmpty    lipgloss.Style

	Attachment       lipgloss.Style
	AttachmentFailed lipgloss.Style

	Tooltip lipgloss.Style
}

func DefaultStyle() Style {
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	return Style{
		Text:      lipgloss.NewStyle(),
		Selection: lipgloss.NewStyle().Background(lipgloss.Color("237")),
		Cursor:    lipgloss.NewStyle().Reverse(true),

		Bold:      lipgloss.NewStyle().Bold(true),
		Italic:    lipgloss.NewStyle().Italic(true),
		Underline: lipgloss.NewStyle().Underline(true),
		Strike:    lipgloss.NewStyle().Strikethrough(true),
		Code:      lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		Link:      lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("39")),

		Header:     lipgloss.NewStyle().Bold(true),
		Blockquote: muted,
		CodeBlock:  lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		Divider:    muted,
		ListMarker: muted,

		Colors: map[string]lipgloss.TerminalColor{
			"red":    lipgloss.Color("196"),
			"orange": lipgloss.Color("208"),
			"yellow": lipgloss.Color("226"),
			"green":  lipgloss.Color("46"),
			"blue":   lipgloss.Color("33"),
			"purple": lipgloss.Color("129"),
			"gray":   lipgloss.Color("245"),
		},

		Toolbar: toolbar.DefaultStyle(),

		PaletteItem:     lipgloss.NewStyle().Background(lipgloss.Color("236")),
		PaletteSelected: lipgloss.NewStyle().Background(lipgloss.Color("24")).Foreground(lipgloss.Color("231")),
		PaletteEmpty:    muted.Background(lipgloss.Color("236")),

		Attachment:       lipgloss.NewStyle().Border(lipgloss.RoundedBorder(), false, true).Padding(0, 1),
		AttachmentFailed: lipgloss.NewStyle().Border(lipgloss.RoundedBorder(), false, true).Padding(0, 1).Foreground(lipgloss.Color("196")),

		Tooltip: lipgloss.NewStyle().Padding(0, 1).Background(lipgloss.Color("238")).Foreground(lipgloss.Color("252")),
	}
}

func normalizeStyle(s Style) Style {
	if reflect.DeepEqual(s, Style{}) {
		return DefaultStyle()
	}
	return s
}
