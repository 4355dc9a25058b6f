package editor

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/zinc/attachment"
	"github.com/iw2rmb/zinc/commandsource"
	"github.com/iw2rmb/zinc/convert"
	"github.com/iw2rmb/zinc/surface"
)

// Update handles input and the results of commands the editor started.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	wasOpen := m.st.trigger.IsOpen()

	switch msg := msg.(type) {
	case tea.KeyMsg:
		m = m.updateKey(msg)
	case tea.MouseMsg:
		m = m.updateMouse(msg)

	case commandsource.LoadedMsg:
		if msg.Err != nil {
			m.st.log.Warn("canned responses not refreshed", "uri", msg.URI, "err", msg.Err)
		}
		m.st.remote = msg.Responses
		m.st.trigger.SetCandidates(m.candidates())

	case AttachFileMsg:
		task, cmd := m.st.uploads.Select(msg.File)
		m.st.log.Debug("uploading attachment", "id", task.ID, "name", task.File.Name, "size", task.File.Size())
		m.queue(cmd)
	case attachment.ResultMsg:
		m.st.uploads.Resolve(msg)
	case RemoveAttachmentMsg:
		m.st.uploads.Remove(msg.ID)

	case AIRewriteMsg:
		m.applyRewrite(msg)
	}

	if !wasOpen && m.st.trigger.IsOpen() && m.cfg.CommandSource != nil {
		m.queue(m.cfg.CommandSource.Load(m.st.ctx))
	}

	if m.viewport.Height != m.docHeight() {
		m.viewport.Height = m.docHeight()
		m.followCursor()
	}
	if !m.syncFromBuffer() {
		m.rebuildContent()
	}
	return m, m.drainCmds()
}

func (m Model) applyRewrite(msg AIRewriteMsg) {
	if m.cfg.ReadOnly {
		return
	}
	var err error
	if msg.Replace {
		_, err = m.st.ins.ReplaceSelection(msg.Content)
	} else {
		_, err = m.st.ins.InsertAtSelection(msg.Content)
	}
	if err != nil {
		m.st.log.Error("applying generated content", "err", err)
	}
}

func (m Model) updateKey(msg tea.KeyMsg) Model {
	if !m.focused {
		return m
	}
	if m.st.dialog.open {
		m.updateDialogKey(msg)
		return m
	}
	if _, open := m.st.toolbar.OpenDropdown(); open && msg.Type == tea.KeyEsc {
		m.st.toolbar.CloseMenu()
		return m
	}

	handled, err := m.st.trigger.HandleKey(m.cfg.PaletteKeys, msg)
	if err != nil {
		m.st.log.Error("palette command failed", "err", err)
	}
	if handled {
		return m
	}

	// Paste events insert literal text and never trigger shortcuts.
	if msg.Type == tea.KeyRunes && msg.Paste && len(msg.Runes) > 0 {
		if !m.cfg.ReadOnly {
			m.replaceWithText(string(msg.Runes))
		}
		return m
	}

	km := m.cfg.KeyMap
	switch {
	case key.Matches(msg, km.Left):
		m.moveHorizontal(-1, false)
	case key.Matches(msg, km.Right):
		m.moveHorizontal(1, false)
	case key.Matches(msg, km.Up):
		m.moveVertical(-1, false)
	case key.Matches(msg, km.Down):
		m.moveVertical(1, false)

	case key.Matches(msg, km.ShiftLeft):
		m.moveHorizontal(-1, true)
	case key.Matches(msg, km.ShiftRight):
		m.moveHorizontal(1, true)
	case key.Matches(msg, km.ShiftUp):
		m.moveVertical(-1, true)
	case key.Matches(msg, km.ShiftDown):
		m.moveVertical(1, true)

	case key.Matches(msg, km.WordLeft):
		_, head := m.caret()
		m.moveTo(m.wordLeft(head), false)
	case key.Matches(msg, km.WordRight):
		_, head := m.caret()
		m.moveTo(m.wordRight(head), false)

	case key.Matches(msg, km.Home):
		_, head := m.caret()
		m.moveTo(m.buf.LineRange(head).Index, false)
	case key.Matches(msg, km.End):
		_, head := m.caret()
		m.moveTo(m.buf.LineRange(head).End(), false)

	case key.Matches(msg, km.Backspace):
		if !m.cfg.ReadOnly {
			m.deleteBackward()
		}
	case key.Matches(msg, km.Delete):
		if !m.cfg.ReadOnly {
			m.deleteForward()
		}
	case key.Matches(msg, km.Enter):
		if !m.cfg.ReadOnly {
			m.insertNewline()
		}

	case key.Matches(msg, km.Undo):
		if !m.cfg.ReadOnly {
			_ = m.buf.Undo()
		}
	case key.Matches(msg, km.Redo):
		if !m.cfg.ReadOnly {
			_ = m.buf.Redo()
		}

	case key.Matches(msg, km.Copy):
		m.copySelection()
	case key.Matches(msg, km.Cut):
		m.copySelection()
		if !m.cfg.ReadOnly {
			m.deleteSelection()
		}
	case key.Matches(msg, km.Paste):
		if !m.cfg.ReadOnly {
			m.pasteClipboard()
		}

	case key.Matches(msg, km.Bold):
		m.format("bold")
	case key.Matches(msg, km.Italic):
		m.format("italic")
	case key.Matches(msg, km.Underline):
		m.format("underline")
	case key.Matches(msg, km.Attach):
		if !m.cfg.ReadOnly {
			m.pickFile()
		}

	default:
		if m.cfg.ReadOnly {
			return m
		}
		if msg.Type == tea.KeyTab {
			m.typeText("\t")
			return m
		}
		if msg.Type == tea.KeySpace {
			m.typeText(" ")
			return m
		}
		if msg.Type == tea.KeyRunes && len(msg.Runes) > 0 && !msg.Alt {
			m.typeText(string(msg.Runes))
		}
	}
	return m
}

func (m Model) format(name string) {
	if m.cfg.ReadOnly {
		return
	}
	m.st.toolbar.CallFormat(name, nil)
}

func (m Model) copySelection() {
	if m.cfg.Clipboard == nil {
		return
	}
	r, ok := m.buf.Selection()
	if !ok || r.IsCollapsed() {
		return
	}
	if err := m.cfg.Clipboard.WriteText(m.buf.GetText(r.Index, r.Length)); err != nil {
		m.st.log.Warn("clipboard write failed", "err", err)
	}
}

func (m Model) pasteClipboard() {
	if m.cfg.Clipboard == nil {
		return
	}
	s, err := m.cfg.Clipboard.ReadText()
	if err != nil {
		m.st.log.Warn("clipboard read failed", "err", err)
		return
	}
	if s == "" {
		return
	}
	m.replaceWithText(s)
}

// replaceWithText replaces the selection with plain text.
func (m Model) replaceWithText(s string) {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	if _, err := m.st.ins.ReplaceSelection(convert.TextFragment(s)); err != nil {
		m.st.log.Warn("paste ignored", "err", err)
	}
}

// typeText replaces the selection with text carrying the formats shown by
// the toolbar, armed ones included.
func (m Model) typeText(text string) {
	r, ok := m.buf.Selection()
	if !ok {
		return
	}
	formats, _ := m.st.toolbar.Snapshot()
	n := len([]rune(text))
	_ = m.buf.Transact(surface.SourceUser, func() error {
		if r.Length > 0 {
			m.buf.DeleteText(r.Index, r.Length, surface.SourceUser)
		}
		m.buf.InsertText(r.Index, text, inlineOnly(formats), surface.SourceUser)
		m.buf.SetSelection(r.Index+n, 0, surface.SourceUser)
		return nil
	})
}
