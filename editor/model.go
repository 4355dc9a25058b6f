package editor

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/iw2rmb/zinc/attachment"
	"github.com/iw2rmb/zinc/buffer"
	"github.com/iw2rmb/zinc/commandsource"
	"github.com/iw2rmb/zinc/convert"
	"github.com/iw2rmb/zinc/insertion"
	"github.com/iw2rmb/zinc/internal/logging"
	"github.com/iw2rmb/zinc/selection"
	"github.com/iw2rmb/zinc/surface"
	"github.com/iw2rmb/zinc/toolbar"
	"github.com/iw2rmb/zinc/toplayer"
	"github.com/iw2rmb/zinc/trigger"
)

const (
	defaultPaletteMaxRows  = 8
	defaultPaletteMaxWidth = 40
	toolbarHeight          = 1
)

// Model is a Bubble Tea component that renders and edits one document.
//
// Model is a value type like other Bubble Tea components, but copies share
// the document and the components attached to it.
type Model struct {
	cfg Config
	buf *buffer.Buffer
	st  *state

	focused bool

	viewport      viewport.Model
	width, height int

	lastVersion uint64
}

// state is shared by copies of a Model. Component callbacks write to it.
type state struct {
	log *log.Logger

	toolbar *toolbar.Synchronizer
	trigger *trigger.Trigger
	ins     *insertion.Pipeline
	uploads *attachment.Pipeline

	host     *selection.Host
	bridge   selection.Bridge
	hostText string

	remote []commandsource.Response
	dialog dialogState
	// hover is the toolbar control under the pointer, or -1.
	hover int

	form Form

	// anchor and head track a keyboard or mouse selection in progress.
	anchor, head int
	extending    bool
	dragging     bool

	layout layout
	cmds   []tea.Cmd
	off    []func()

	ctx    context.Context
	cancel context.CancelFunc
}

type dialogState struct {
	open   bool
	active int
}

func New(cfg Config) Model {
	cfg = normalizeConfig(cfg)

	buf := buffer.New(cfg.Text, buffer.Options{HistoryLimit: cfg.HistoryLimit})
	st := &state{log: cfg.Logger, hover: -1}
	st.ctx, st.cancel = context.WithCancel(context.Background())
	if cfg.Value != "" {
		d, err := convert.HTML(cfg.Value)
		if err != nil {
			st.log.Warn("initial value not loaded", "err", err)
		} else {
			buf.SetContents(d, surface.SourceSilent)
			buf.ClearHistory()
		}
	}

	m := Model{
		cfg:      cfg,
		buf:      buf,
		st:       st,
		focused:  true,
		viewport: viewport.New(0, 0),
	}
	m.st.form.OpenTime = cfg.Now()

	m.st.host = selection.NewHost(selection.NewElement())
	m.syncHost()

	m.st.ins = insertion.New(buf, cfg.Logger)
	m.st.uploads = attachment.New(cfg.Uploader, cfg.Logger)

	m.st.toolbar = toolbar.New(toolbar.Config{
		ID:       cfg.ID,
		Layout:   cfg.Toolbar,
		TopLayer: cfg.TopLayer,
		Logger:   cfg.Logger,
		Now:      cfg.Now,
	})
	m.installToolbarHandlers()

	m.st.trigger = trigger.New(trigger.Config{
		ID:         cfg.ID,
		Candidates: m.candidates(),
		Actions:    m.st.toolbar,
		Inserter:   m.st.ins,
		OnDialog:   m.openDialog,
		Registry:   cfg.Registry,
		TopLayer:   cfg.TopLayer,
		Logger:     cfg.Logger,
	})

	// The toolbar must see a change before the trigger reacts to it.
	m.st.toolbar.Attach(buf)
	m.st.trigger.Attach(buf)
	m.st.off = append(m.st.off, buf.On(surface.EditorChange, m.trackStart))

	m.lastVersion = buf.Version()
	m.rebuildContent()
	return m
}

func normalizeConfig(cfg Config) Config {
	if cfg.ID == "" {
		cfg.ID = "editor-" + uuid.NewString()
	}
	cfg.Style = normalizeStyle(cfg.Style)
	cfg.KeyMap = normalizeKeyMap(cfg.KeyMap)
	cfg.PaletteKeys = trigger.NormalizeKeyMap(cfg.PaletteKeys)
	if cfg.TabWidth <= 0 {
		cfg.TabWidth = 4
	}
	if cfg.PaletteMaxRows <= 0 {
		cfg.PaletteMaxRows = defaultPaletteMaxRows
	}
	if cfg.PaletteMaxWidth <= 0 {
		cfg.PaletteMaxWidth = defaultPaletteMaxWidth
	}
	if cfg.Candidates == nil {
		cfg.Candidates = trigger.DefaultCandidates()
	}
	if cfg.Registry == nil {
		cfg.Registry = trigger.DefaultRegistry
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.TopLayer == nil {
		cfg.TopLayer = toplayer.Default
	}
	cfg.Logger = logging.OrDiscard(cfg.Logger)
	return cfg
}

// Buffer returns the document. Hosts may mutate it directly; the editor
// picks up the change on the next update.
func (m Model) Buffer() *buffer.Buffer { return m.buf }

// Toolbar returns the toolbar synchroniser.
func (m Model) Toolbar() *toolbar.Synchronizer { return m.st.toolbar }

// Trigger returns the command palette.
func (m Model) Trigger() *trigger.Trigger { return m.st.trigger }

// Attachments returns the upload pipeline.
func (m Model) Attachments() *attachment.Pipeline { return m.st.uploads }

// Form returns the hidden form values.
func (m Model) Form() Form {
	f := m.st.form
	f.Attachments = m.st.uploads.Field().String()
	return f
}

// Init refreshes the remote command source, if any.
func (m Model) Init() tea.Cmd {
	if m.cfg.CommandSource == nil {
		return nil
	}
	return m.cfg.CommandSource.Load(m.st.ctx)
}

// Close releases the palette, stops listening to the document and cancels
// uploads still in flight.
func (m Model) Close() {
	m.st.trigger.Release()
	m.st.toolbar.Detach()
	for _, off := range m.st.off {
		off()
	}
	m.st.off = nil
	m.st.uploads.Close()
	m.st.cancel()
	m.closeDialog()
	m.setHover(-1)
}

func (m Model) SetSize(width, height int) Model {
	m.width = max(width, 0)
	m.height = max(height, 0)
	m.viewport.Width = m.width
	m.viewport.Height = m.docHeight()

	m.rebuildContent()
	m.followCursor()
	return m
}

func (m Model) Focus() Model {
	if !m.focused {
		m.focused = true
		m.rebuildContent()
		m.followCursor()
	}
	return m
}

func (m Model) Blur() Model {
	if m.focused {
		m.focused = false
		m.rebuildContent()
	}
	return m
}

func (m Model) Focused() bool { return m.focused }

// docHeight is the number of rows left for the document.
func (m Model) docHeight() int {
	h := m.height - toolbarHeight
	if len(m.st.uploads.Tasks()) > 0 {
		h--
	}
	return max(h, 0)
}

// candidates is the palette list: built-ins, then canned responses from
// the config, then those fetched from the command source.
func (m Model) candidates() []trigger.Candidate {
	out := append([]trigger.Candidate(nil), m.cfg.Candidates...)
	out = append(out, commandsource.Candidates(m.cfg.CannedResponses)...)
	out = append(out, commandsource.Candidates(m.st.remote)...)
	return out
}

// responses lists what the canned-response dialog offers.
func (m Model) responses() []commandsource.Response {
	out := append([]commandsource.Response(nil), m.cfg.CannedResponses...)
	return append(out, m.st.remote...)
}

func (m Model) trackStart(surface.Event) {
	if m.st.form.StartTime.IsZero() {
		m.st.form.StartTime = m.cfg.Now()
	}
}

// queue schedules cmd to be returned from the current Update.
func (m Model) queue(cmd tea.Cmd) {
	if cmd != nil {
		m.st.cmds = append(m.st.cmds, cmd)
	}
}

func (m Model) drainCmds() tea.Cmd {
	cmds := m.st.cmds
	m.st.cmds = nil
	switch len(cmds) {
	case 0:
		return nil
	case 1:
		return cmds[0]
	default:
		return tea.Batch(cmds...)
	}
}

// syncFromBuffer rebuilds derived state after the document changed and
// notifies OnChange. It reports whether anything changed.
func (m *Model) syncFromBuffer() bool {
	ver := m.buf.Version()
	if ver == m.lastVersion {
		return false
	}
	m.lastVersion = ver
	m.viewport.Height = m.docHeight()
	m.rebuildContent()
	m.followCursor()
	if m.cfg.OnChange != nil {
		m.cfg.OnChange(buildChangeEvent(m.buf))
	}
	return true
}

func (m *Model) rebuildContent() {
	m.viewport.SetContent(m.renderContent())
}

// followCursor scrolls the viewport so the cursor row is visible.
func (m *Model) followCursor() {
	h := m.viewport.Height - m.viewport.Style.GetVerticalFrameSize()
	if h <= 0 {
		return
	}
	r, ok := m.buf.Selection()
	if !ok {
		return
	}
	lo := m.ensureLayout()
	row := lo.rowFor(r.End())

	y := m.viewport.YOffset
	if row < y {
		m.viewport.SetYOffset(row)
		return
	}
	if row >= y+h {
		m.viewport.SetYOffset(row - h + 1)
	}
}

func (m *Model) contentWidth() int {
	return m.viewport.Width - m.viewport.Style.GetHorizontalFrameSize()
}

func (m *Model) ensureLayout() layout {
	key := layoutCacheKey{version: m.buf.Version(), width: m.contentWidth(), tabWidth: m.cfg.TabWidth}
	if m.st.layout.valid && m.st.layout.key == key {
		return m.st.layout
	}
	m.st.layout = buildLayout(m.buf, key.width, key.tabWidth)
	return m.st.layout
}
