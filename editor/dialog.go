package editor

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/iw2rmb/zinc/convert"
	"github.com/iw2rmb/zinc/internal/grapheme"
	"github.com/iw2rmb/zinc/toplayer"
)

const dialogTitle = "Canned responses"

func (m Model) installToolbarHandlers() {
	pick := func(any) { m.pickFile() }
	for _, k := range []string{"attachment", "image", "video"} {
		m.st.toolbar.AddHandler(k, pick)
	}
}

// pickFile asks the host for a file. The answer arrives as AttachFileMsg.
func (m Model) pickFile() {
	if m.cfg.PickFile == nil {
		m.st.log.Warn("attachment requested without a file picker")
		return
	}
	m.queue(m.cfg.PickFile())
}

func (m Model) dialogRegistration() toplayer.Registration {
	return toplayer.Registration{ID: "dialog:" + m.cfg.ID, Kind: toplayer.KindMenu}
}

func (m Model) openDialog() {
	m.st.dialog = dialogState{open: true}
	m.cfg.TopLayer.Register(m.dialogRegistration())
}

func (m Model) closeDialog() {
	if !m.st.dialog.open {
		return
	}
	m.st.dialog = dialogState{}
	m.cfg.TopLayer.Unregister(m.dialogRegistration())
}

// DialogOpen reports whether the canned-response dialog is shown.
func (m Model) DialogOpen() bool { return m.st.dialog.open }

func (m Model) updateDialogKey(msg tea.KeyMsg) {
	km := m.cfg.PaletteKeys
	n := len(m.responses())
	switch {
	case key.Matches(msg, km.Dismiss):
		m.closeDialog()
	case key.Matches(msg, km.Next):
		if n > 0 {
			m.st.dialog.active = (m.st.dialog.active + 1) % n
		}
	case key.Matches(msg, km.Prev):
		if n > 0 {
			m.st.dialog.active = (m.st.dialog.active - 1 + n) % n
		}
	case key.Matches(msg, km.Accept):
		m.acceptResponse(m.st.dialog.active)
	}
}

// acceptResponse inserts response i at the cursor and closes the dialog.
func (m Model) acceptResponse(i int) {
	rs := m.responses()
	m.closeDialog()
	if i < 0 || i >= len(rs) || m.cfg.ReadOnly {
		return
	}
	if _, err := m.st.ins.InsertAtSelection(convert.HTMLFragment(rs[i].Content)); err != nil {
		m.st.log.Error("inserting canned response", "title", rs[i].Title, "err", err)
	}
}

type dialogGeometry struct {
	x, y          int
	width, height int
	// top is the row of the first response inside the box.
	top int
}

func (m Model) dialogRows(width int) []string {
	st := m.cfg.Style
	rs := m.responses()
	rows := []string{st.Header.Render(grapheme.Truncate(dialogTitle, width))}
	if len(rs) == 0 {
		return append(rows, st.PaletteEmpty.Width(width).Render("No canned responses"))
	}
	for i, r := range rs {
		label := grapheme.Truncate(r.Title, width)
		if i == m.st.dialog.active {
			rows = append(rows, st.PaletteSelected.Width(width).Render(label))
			continue
		}
		rows = append(rows, st.PaletteItem.Width(width).Render(label))
	}
	return rows
}

func (m Model) dialogView() (string, dialogGeometry) {
	width := grapheme.Width(dialogTitle)
	for _, r := range m.responses() {
		width = max(width, grapheme.Width(r.Title))
	}
	box := m.cfg.Style.Toolbar.Menu
	if m.width > 0 {
		width = min(width, max(m.width-box.GetHorizontalFrameSize(), 1))
	}
	view := box.Render(strings.Join(m.dialogRows(width), "\n"))

	g := dialogGeometry{
		width:  lipgloss.Width(view),
		height: lipgloss.Height(view),
		top:    box.GetBorderTopSize() + box.GetPaddingTop() + 1,
	}
	g.x = max((m.width-g.width)/2, 0)
	g.y = max((m.height-g.height)/2, 0)
	return view, g
}

// dialogItemAt maps a screen cell to a response index. inside reports
// whether the cell is within the dialog box.
func (m Model) dialogItemAt(x, y int) (i int, inside bool) {
	_, g := m.dialogView()
	if x < g.x || x >= g.x+g.width || y < g.y || y >= g.y+g.height {
		return -1, false
	}
	i = y - g.y - g.top
	if i < 0 || i >= len(m.responses()) {
		return -1, true
	}
	return i, true
}
