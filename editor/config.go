package editor

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/iw2rmb/zinc/attachment"
	"github.com/iw2rmb/zinc/commandsource"
	"github.com/iw2rmb/zinc/toolbar"
	"github.com/iw2rmb/zinc/toplayer"
	"github.com/iw2rmb/zinc/trigger"
)

// Config configures the editor Model. The zero value is usable.
type Config struct {
	// ID names the editable surface. Editors sharing a trigger registry
	// must use distinct IDs.
	ID string

	// Initial content. Value is HTML and wins over Text when set.
	Text  string
	Value string

	Style        Style
	KeyMap       KeyMap
	PaletteKeys  trigger.KeyMap
	TabWidth     int
	ReadOnly     bool
	HistoryLimit int

	// Toolbar layout; defaults to toolbar.DefaultLayout().
	Toolbar []toolbar.Control

	// Candidates replaces the built-in palette entries.
	Candidates []trigger.Candidate
	// CannedResponses are offered in the palette and the responses dialog.
	CannedResponses []commandsource.Response
	// CommandSource is refreshed each time the palette opens.
	CommandSource *commandsource.Source

	// PaletteMaxRows caps the palette height. Defaults to 8.
	PaletteMaxRows int
	// PaletteMaxWidth caps the palette width in cells. Defaults to 40.
	PaletteMaxWidth int

	// Uploader stores attached files. Without one uploads fail.
	Uploader attachment.Uploader
	// PickFile is called for the attachment action. The host answers with
	// an AttachFileMsg.
	PickFile func() tea.Cmd

	Clipboard Clipboard

	TopLayer *toplayer.Manager
	Registry *trigger.Registry
	Logger   *log.Logger

	// OnChange is called after every update that changed the document or
	// the selection.
	OnChange func(ChangeEvent)

	// Now is used for form times and the date action. Defaults to time.Now.
	Now func() time.Time
}
