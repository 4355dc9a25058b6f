package main

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/iw2rmb/zinc/attachment"
	"github.com/iw2rmb/zinc/editor"
)

var quitKey = key.NewBinding(key.WithKeys("ctrl+q"), key.WithHelp("ctrl+q", "quit"))

var errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))

// pickFileMsg opens the path prompt.
type pickFileMsg struct{}

type fileErrMsg struct{ err error }

type model struct {
	editor editor.Model
	keys   editor.KeyMap
	help   help.Model

	prompting bool
	path      textinput.Model
	status    string

	width, height int
}

func newModel(cfg editor.Config) model {
	cfg.PickFile = func() tea.Cmd {
		return func() tea.Msg { return pickFileMsg{} }
	}
	cfg.KeyMap = editor.DefaultKeyMap()

	in := textinput.New()
	in.Prompt = "attach: "
	in.Placeholder = "path to file"

	return model{
		editor: editor.New(cfg),
		keys:   cfg.KeyMap,
		help:   help.New(),
		path:   in,
	}
}

func (m model) Init() tea.Cmd { return m.editor.Init() }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.path.Width = max(msg.Width-len(m.path.Prompt)-1, 0)
		m.editor = m.editor.SetSize(msg.Width, m.editorHeight())
		return m, nil

	case pickFileMsg:
		m.prompting = true
		m.status = ""
		m.path.Reset()
		m.editor = m.editor.Blur()
		return m, m.path.Focus()

	case fileErrMsg:
		m.status = msg.err.Error()
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, quitKey) {
			return m, tea.Quit
		}
		if m.prompting {
			return m.updatePrompt(msg)
		}
		m.status = ""
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return m.endPrompt(), nil
	case tea.KeyEnter:
		path := strings.TrimSpace(m.path.Value())
		m = m.endPrompt()
		if path == "" {
			return m, nil
		}
		return m, readFile(path)
	}
	var cmd tea.Cmd
	m.path, cmd = m.path.Update(msg)
	return m, cmd
}

func (m model) endPrompt() model {
	m.prompting = false
	m.path.Blur()
	m.editor = m.editor.Focus()
	return m
}

// readFile loads path off the update loop and hands it to the editor.
func readFile(path string) tea.Cmd {
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		if err != nil {
			return fileErrMsg{err: fmt.Errorf("attach: %w", err)}
		}
		return editor.AttachFileMsg{File: attachment.File{
			Name:     filepath.Base(path),
			MIMEType: detectMIME(path, data),
			Data:     data,
		}}
	}
}

func detectMIME(path string, data []byte) string {
	if t := mime.TypeByExtension(filepath.Ext(path)); t != "" {
		return t
	}
	return http.DetectContentType(data)
}

func (m model) editorHeight() int {
	return max(m.height-1, 0)
}

func (m model) View() string {
	var footer string
	switch {
	case m.prompting:
		footer = m.path.View()
	case m.status != "":
		footer = errorStyle.Render(m.status)
	default:
		footer = m.help.ShortHelpView(append(m.keys.ShortHelp(), quitKey))
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.editor.View(), footer)
}
