package editor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	overlay "github.com/rmhubbert/bubbletea-overlay"

	"github.com/iw2rmb/zinc/attachment"
	"github.com/iw2rmb/zinc/internal/grapheme"
	"github.com/iw2rmb/zinc/toolbar"
	"github.com/iw2rmb/zinc/trigger"
)

const paletteEmptyLabel = "No matching commands"

func composite(fg, bg string, x, y int) string {
	return overlay.Composite(fg, bg, overlay.Left, overlay.Top, x, y)
}

// paletteLayout places the open palette inside the document area.
type paletteLayout struct {
	view string
	x, y int
	// first is the filtered index of the top row; n the number of
	// candidate rows shown.
	first, n int
	width    int
}

func (m Model) palette() (paletteLayout, bool) {
	if !m.st.trigger.IsOpen() {
		return paletteLayout{}, false
	}
	areaW := m.viewport.Width - m.viewport.Style.GetHorizontalFrameSize()
	areaH := m.viewport.Height - m.viewport.Style.GetVerticalFrameSize()
	if areaW <= 0 || areaH <= 0 {
		return paletteLayout{}, false
	}
	anchorX, anchorY, ok := m.IndexToScreen(m.st.trigger.State().StartIndex)
	if !ok {
		return paletteLayout{}, false
	}

	cands := m.st.trigger.Candidates()
	active := m.st.trigger.State().ActiveIndex

	rows := max(min(m.cfg.PaletteMaxRows, len(cands)), 1)
	below := max(areaH-(anchorY+1), 0)
	above := max(anchorY, 0)
	showBelow := true
	if rows > below {
		switch {
		case above >= rows:
			showBelow = false
		case above > below:
			showBelow = false
			rows = above
		default:
			rows = below
		}
	}
	if rows <= 0 {
		return paletteLayout{}, false
	}

	first := 0
	if active >= rows {
		first = active - rows + 1
	}
	shown := cands[first:min(first+rows, len(cands))]

	width := 0
	for _, c := range shown {
		width = max(width, grapheme.Width(paletteLabel(c)))
	}
	if len(cands) == 0 {
		width = grapheme.Width(paletteEmptyLabel)
	}
	width = min(width, m.cfg.PaletteMaxWidth, areaW)

	st := m.cfg.Style
	lines := make([]string, 0, rows)
	for i, c := range shown {
		label := grapheme.Truncate(paletteLabel(c), width)
		if first+i == active {
			lines = append(lines, st.PaletteSelected.Width(width).Render(label))
			continue
		}
		lines = append(lines, st.PaletteItem.Width(width).Render(label))
	}
	if len(cands) == 0 {
		lines = append(lines, st.PaletteEmpty.Width(width).Render(grapheme.Truncate(paletteEmptyLabel, width)))
	}
	view := strings.Join(lines, "\n")
	width = lipgloss.Width(view)

	y := anchorY + 1
	if !showBelow {
		y = anchorY - len(lines)
	}
	y = max(0, min(y, areaH-len(lines)))
	x := max(0, min(anchorX, areaW-width))

	left := m.viewport.Style.GetMarginLeft() + m.viewport.Style.GetBorderLeftSize() + m.viewport.Style.GetPaddingLeft()
	top := m.viewport.Style.GetMarginTop() + m.viewport.Style.GetBorderTopSize() + m.viewport.Style.GetPaddingTop()

	return paletteLayout{
		view:  view,
		x:     left + x,
		y:     top + y,
		first: first,
		n:     len(shown),
		width: width,
	}, true
}

func paletteLabel(c trigger.Candidate) string {
	if c.Icon == "" {
		return c.Label
	}
	return toolbar.Glyph(c.Icon) + " " + c.Label
}

// paletteItemAt maps a cell of the document area to a filtered candidate
// index. inside reports whether the cell is on the palette.
func (m Model) paletteItemAt(x, y int) (i int, inside bool) {
	p, ok := m.palette()
	if !ok {
		return -1, false
	}
	h := max(p.n, 1)
	if x < p.x || x >= p.x+p.width || y < p.y || y >= p.y+h {
		return -1, false
	}
	if p.n == 0 {
		return -1, true
	}
	return p.first + y - p.y, true
}

func (m Model) attachmentChip(t attachment.Task) string {
	st := m.cfg.Style.Attachment
	if t.Status == attachment.StatusFailed {
		st = m.cfg.Style.AttachmentFailed
	}
	return st.Render(t.Placeholder.Label + " ×")
}

// attachmentsView renders one chip per attachment, or "" without any.
func (m Model) attachmentsView() string {
	tasks := m.st.uploads.Tasks()
	if len(tasks) == 0 {
		return ""
	}
	chips := make([]string, 0, len(tasks))
	for _, t := range tasks {
		chips = append(chips, m.attachmentChip(t))
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, chips...)
	if m.width > 0 {
		row = lipgloss.NewStyle().MaxWidth(m.width).Render(row)
	}
	return row
}

// attachmentAt returns the attachment whose chip is drawn at column x.
func (m Model) attachmentAt(x int) (string, bool) {
	left := 0
	for _, t := range m.st.uploads.Tasks() {
		w := lipgloss.Width(m.attachmentChip(t))
		if x >= left && x < left+w {
			return t.ID, true
		}
		left += w
	}
	return "", false
}
