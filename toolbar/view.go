package toolbar

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Style controls how the toolbar renders.
type Style struct {
	Button lipgloss.Style
	Active lipgloss.Style
	Tinted lipgloss.Style

	Menu        lipgloss.Style
	MenuItem    lipgloss.Style
	MenuChecked lipgloss.Style

	Separator string
}

func DefaultStyle() Style {
	return Style{
		Button:      lipgloss.NewStyle().Padding(0, 1),
		Active:      lipgloss.NewStyle().Padding(0, 1).Reverse(true),
		Tinted:      lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("39")),
		Menu:        lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240")),
		MenuItem:    lipgloss.NewStyle().Padding(0, 1),
		MenuChecked: lipgloss.NewStyle().Padding(0, 1).Bold(true),
		Separator:   "",
	}
}

// glyphs maps icon names to short terminal labels.
var glyphs = map[string]string{
	"match_case":           "Aa",
	"format_h1":            "H1",
	"format_h2":            "H2",
	"format_bold":          "B",
	"format_italic":        "I",
	"format_underlined":    "U",
	"format_color_text":    "T",
	"strikethrough_s":      "S",
	"format_quote":         "\"",
	"code":                 "<>",
	"code_blocks":          "{}",
	"format_clear":         "Tx",
	"colors":               "A",
	"format_color_reset":   "A",
	"lists":                "≡",
	"format_list_bulleted": "•",
	"format_list_numbered": "1.",
	"checklist":            "☑",
	"horizontal_rule":      "—",
	"link":                 "ln",
	"attachment":           "+f",
	"calendar_today":       "dt",
	"undo":                 "↶",
	"redo":                 "↷",
	"quickreply":           "qr",
	"quick_phrases":        "›",
	"image":                "img",
	"video_camera_back":    "vid",
}

// Glyph returns the label drawn for icon.
func Glyph(icon string) string {
	if g, ok := glyphs[icon]; ok {
		return g
	}
	if strings.HasPrefix(icon, "color_") {
		return "●"
	}
	return icon
}

func (st Style) renderControl(c Control) string {
	switch c := c.(type) {
	case *Button:
		if c.Toggle && c.Active {
			return st.Active.Render(Glyph(c.Icon))
		}
		return st.Button.Render(Glyph(c.Icon))
	case *Dropdown:
		icon := c.TriggerIcon
		if icon == "" {
			icon = c.DefaultIcon
		}
		label := Glyph(icon) + "▾"
		if c.Tinted {
			return st.Tinted.Render(label)
		}
		return st.Button.Render(label)
	}
	return ""
}

// View renders the toolbar on one line.
func (s *Synchronizer) View(st Style) string {
	parts := make([]string, 0, len(s.controls))
	for _, c := range s.controls {
		parts = append(parts, st.renderControl(c))
	}
	return strings.Join(parts, st.Separator)
}

// ControlAt returns the index of the control drawn at cell column x of
// View, or -1.
func (s *Synchronizer) ControlAt(st Style, x int) int {
	if x < 0 {
		return -1
	}
	left := 0
	sep := lipgloss.Width(st.Separator)
	for i, c := range s.controls {
		w := lipgloss.Width(st.renderControl(c))
		if x < left+w {
			return i
		}
		left += w + sep
	}
	return -1
}

// MenuOffset returns the column where the open menu is drawn.
func (s *Synchronizer) MenuOffset(st Style) int {
	if s.menu < 0 {
		return 0
	}
	return s.ControlOffset(st, s.menu)
}

// ControlOffset returns the first column of control i in View.
func (s *Synchronizer) ControlOffset(st Style, i int) int {
	left := 0
	sep := lipgloss.Width(st.Separator)
	for _, c := range s.controls[:max(0, min(i, len(s.controls)))] {
		left += lipgloss.Width(st.renderControl(c)) + sep
	}
	return left
}

// ControlLabel returns the hover text of control i, or "".
func (s *Synchronizer) ControlLabel(i int) string {
	if i < 0 || i >= len(s.controls) {
		return ""
	}
	switch c := s.controls[i].(type) {
	case *Button:
		return c.Label
	case *Dropdown:
		if c.Label != "" {
			return c.Label
		}
		return strings.ReplaceAll(c.Name, "-", " ")
	}
	return ""
}

// MenuView renders the open dropdown's entries, one per line. It returns
// "" when no menu is open.
func (s *Synchronizer) MenuView(st Style) string {
	if s.menu < 0 {
		return ""
	}
	d := s.controls[s.menu].(*Dropdown)
	rows := make([]string, 0, len(d.Entries))
	for _, e := range d.Entries {
		mark := "  "
		switch {
		case e.Checked && d.Multi:
			mark = "✓ "
		case e.Checked:
			mark = "• "
		}
		row := mark + Glyph(e.Icon) + " " + e.Label
		if e.Checked {
			rows = append(rows, st.MenuChecked.Render(row))
			continue
		}
		rows = append(rows, st.MenuItem.Render(row))
	}
	return st.Menu.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// MenuEntryAt maps a row inside MenuView to an entry index, or -1.
func (s *Synchronizer) MenuEntryAt(st Style, row int) int {
	if s.menu < 0 {
		return -1
	}
	d := s.controls[s.menu].(*Dropdown)
	row -= st.Menu.GetBorderTopSize() + st.Menu.GetPaddingTop()
	if row < 0 || row >= len(d.Entries) {
		return -1
	}
	return row
}
