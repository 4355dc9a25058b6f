package editor

import (
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) updateMouse(msg tea.MouseMsg) Model {
	if isWheel(msg) {
		m.viewport, _ = m.viewport.Update(msg)
		return m
	}
	if !m.focused {
		return m
	}

	switch msg.Action { //nolint:exhaustive
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m
		}
		m.press(msg.X, msg.Y, msg.Shift)

	case tea.MouseActionMotion:
		if !m.st.dragging {
			if msg.Y == 0 {
				m.setHover(m.st.toolbar.ControlAt(m.cfg.Style.Toolbar, msg.X))
			} else {
				m.setHover(-1)
			}
			return m
		}
		x, y := m.clampToDoc(msg.X, msg.Y-toolbarHeight)
		m.selectRange(m.st.anchor, m.screenToIndex(x, y))

	case tea.MouseActionRelease:
		if m.st.dragging {
			m.st.dragging = false
			m.st.toolbar.Click()
		}
	}
	return m
}

// press routes a left click to whatever is drawn at (x, y), topmost layer
// first: dialog, dropdown menu, toolbar, palette, document, attachments.
func (m *Model) press(x, y int, shift bool) {
	if m.st.dialog.open {
		i, inside := m.dialogItemAt(x, y)
		switch {
		case i >= 0:
			m.acceptResponse(i)
		case !inside:
			m.closeDialog()
		}
		return
	}

	tb := m.cfg.Style.Toolbar
	if _, open := m.st.toolbar.OpenDropdown(); open {
		menuX := m.st.toolbar.MenuOffset(tb)
		if y >= toolbarHeight && x >= menuX {
			if j := m.st.toolbar.MenuEntryAt(tb, y-toolbarHeight); j >= 0 {
				m.st.toolbar.PressEntry(j)
				return
			}
		}
		if y != 0 {
			m.st.toolbar.CloseMenu()
		}
	}

	if y == 0 {
		m.st.trigger.ClickOutside()
		if i := m.st.toolbar.ControlAt(tb, x); i >= 0 && !m.cfg.ReadOnly {
			m.st.toolbar.Press(i)
		}
		return
	}

	if i, inside := m.paletteItemAt(x, y-toolbarHeight); inside {
		if i >= 0 {
			if err := m.st.trigger.AcceptAt(i); err != nil {
				m.st.log.Error("palette command failed", "err", err)
			}
		}
		return
	}

	docY := y - toolbarHeight
	if x >= 0 && x < m.viewport.Width && docY >= 0 && docY < m.viewport.Height {
		index := m.screenToIndex(x, docY)
		anchor := index
		if shift {
			anchor, _ = m.caret()
		}
		m.selectRange(anchor, index)
		m.st.dragging = true
		m.st.toolbar.Click()
		return
	}

	if docY == m.viewport.Height {
		if id, ok := m.attachmentAt(x); ok {
			m.st.trigger.ClickOutside()
			m.st.uploads.Remove(id)
			return
		}
	}

	m.st.trigger.ClickOutside()
	m.st.toolbar.CloseMenu()
}

func isWheel(msg tea.MouseMsg) bool {
	return msg.Action == tea.MouseActionPress &&
		(msg.Button == tea.MouseButtonWheelUp ||
			msg.Button == tea.MouseButtonWheelDown ||
			msg.Button == tea.MouseButtonWheelLeft ||
			msg.Button == tea.MouseButtonWheelRight)
}

func (m Model) clampToDoc(x, y int) (int, int) {
	x = max(0, min(x, max(m.viewport.Width-1, 0)))
	y = max(0, min(y, max(m.viewport.Height-1, 0)))
	return x, y
}
