package editor

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/iw2rmb/zinc/toplayer"
)

func (m Model) tooltipRegistration() toplayer.Registration {
	return toplayer.Registration{ID: "tooltip:" + m.cfg.ID, Kind: toplayer.KindTooltip}
}

// setHover records the toolbar control under the pointer.
func (m Model) setHover(i int) {
	if i == m.st.hover {
		return
	}
	m.st.hover = i
	if i < 0 {
		m.cfg.TopLayer.Unregister(m.tooltipRegistration())
		return
	}
	m.cfg.TopLayer.Register(m.tooltipRegistration())
}

// tooltip renders the hover label of the control under the pointer. It
// stays hidden while any menu is open.
func (m Model) tooltip() (view string, x int, ok bool) {
	if m.st.hover < 0 || m.cfg.TopLayer.IsOpen(toplayer.KindMenu) {
		return "", 0, false
	}
	label := m.st.toolbar.ControlLabel(m.st.hover)
	if label == "" {
		return "", 0, false
	}
	view = m.cfg.Style.Tooltip.Render(label)
	x = m.st.toolbar.ControlOffset(m.cfg.Style.Toolbar, m.st.hover)
	if m.width > 0 {
		x = max(0, min(x, m.width-lipgloss.Width(view)))
	}
	return view, x, true
}
