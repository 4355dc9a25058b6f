package editor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/iw2rmb/zinc/delta"
)

// View renders the toolbar, the document and the attachment row, with any
// open menu, palette or dialog drawn on top.
func (m Model) View() string {
	bar := m.st.toolbar.View(m.cfg.Style.Toolbar)
	if m.width > 0 {
		bar = lipgloss.NewStyle().MaxWidth(m.width).Render(bar)
	}

	body := m.viewport.View()
	if p, ok := m.palette(); ok {
		body = composite(p.view, body, p.x, p.y)
	}

	parts := []string{bar, body}
	if row := m.attachmentsView(); row != "" {
		parts = append(parts, row)
	}
	out := lipgloss.JoinVertical(lipgloss.Left, parts...)

	tb := m.cfg.Style.Toolbar
	if menu := m.st.toolbar.MenuView(tb); menu != "" {
		out = composite(menu, out, m.st.toolbar.MenuOffset(tb), toolbarHeight)
	}
	if m.st.dialog.open {
		view, g := m.dialogView()
		out = composite(view, out, g.x, g.y)
	}
	if tip, x, ok := m.tooltip(); ok {
		out = composite(tip, out, x, toolbarHeight)
	}
	return out
}

// renderContent renders every visual row of the document.
func (m *Model) renderContent() string {
	lo := m.ensureLayout()
	st := m.cfg.Style

	sel, hasSel := m.buf.Selection()
	cursor := -1
	if hasSel && sel.IsCollapsed() && m.focused {
		cursor = sel.Index
	}
	selected := func(i int) bool {
		return hasSel && !sel.IsCollapsed() && i >= sel.Index && i < sel.End()
	}

	width := m.contentWidth()
	rows := make([]string, 0, len(lo.rows))
	for _, row := range lo.rows {
		line := lo.lines[row.line]
		var sb strings.Builder

		if row.divider {
			rule := strings.Repeat("─", max(width, 3))
			if cursor == row.start {
				rule = st.Cursor.Render("─") + st.Divider.Render(rule[len("─"):])
			} else {
				rule = st.Divider.Render(rule)
			}
			rows = append(rows, rule)
			continue
		}

		if row.prefix != "" {
			sb.WriteString(st.ListMarker.Render(row.prefix))
		}

		var (
			run      strings.Builder
			runStyle lipgloss.Style
			runAttrs delta.Attributes
			runSel   bool
			open     bool
		)
		flush := func() {
			if open && run.Len() > 0 {
				sb.WriteString(runStyle.Render(run.String()))
			}
			run.Reset()
			open = false
		}

		for i := row.start; i < row.end; i++ {
			r := line.runes[i-line.start]
			text := string(r.r)
			if r.r == '\t' {
				text = strings.Repeat(" ", row.cells[i-row.start])
			}

			if i == cursor {
				flush()
				sb.WriteString(st.Cursor.Inherit(m.runeStyle(r.attrs, line.format)).Render(text))
				continue
			}
			isSel := selected(i)
			if !open || isSel != runSel || !r.attrs.Equal(runAttrs) {
				flush()
				runAttrs, runSel, open = r.attrs, isSel, true
				runStyle = m.runeStyle(r.attrs, line.format)
				if isSel {
					runStyle = st.Selection.Inherit(runStyle)
				}
			}
			run.WriteString(text)
		}
		flush()

		switch {
		case row.last && cursor == row.end:
			sb.WriteString(st.Cursor.Render(" "))
		case row.last && selected(row.end):
			// The selected newline shows as one highlighted cell.
			sb.WriteString(st.Selection.Render(" "))
		}
		rows = append(rows, sb.String())
	}
	return strings.Join(rows, "\n")
}

// runeStyle combines the styles of a rune's inline formats and its line's
// block formats. Earlier styles win where both set a property.
func (m *Model) runeStyle(attrs, lineFormat delta.Attributes) lipgloss.Style {
	st := m.cfg.Style
	out := lipgloss.NewStyle()

	if c, ok := attrs["color"].(string); ok {
		if fg, ok := st.Colors[c]; ok {
			out = out.Foreground(fg)
		}
	}
	if truthy(attrs["link"]) {
		out = out.Inherit(st.Link)
	}
	if truthy(attrs["code"]) {
		out = out.Inherit(st.Code)
	}
	if truthy(attrs["bold"]) {
		out = out.Inherit(st.Bold)
	}
	if truthy(attrs["italic"]) {
		out = out.Inherit(st.Italic)
	}
	if truthy(attrs["underline"]) {
		out = out.Inherit(st.Underline)
	}
	if truthy(attrs["strike"]) {
		out = out.Inherit(st.Strike)
	}

	if truthy(lineFormat["header"]) {
		out = out.Inherit(st.Header)
	}
	if truthy(lineFormat["code-block"]) {
		out = out.Inherit(st.CodeBlock)
	}
	if truthy(lineFormat["blockquote"]) {
		out = out.Inherit(st.Blockquote)
	}
	return out.Inherit(st.Text)
}
