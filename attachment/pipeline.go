package attachment

import (
	"context"
	"errors"
	"slices"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/iw2rmb/zinc/internal/logging"
)

// ErrNoUploader is reported for files selected without an upload endpoint.
var ErrNoUploader = errors.New("attachment: no uploader configured")

// ResultMsg reports the outcome of one upload.
type ResultMsg struct {
	ID     string
	Target Target
	Err    error
}

// Pipeline owns the attachment tasks of one editor. Its methods must be
// called from the Bubble Tea update loop; only the commands returned by
// Select run elsewhere.
type Pipeline struct {
	up  Uploader
	log *log.Logger

	ctx    context.Context
	cancel context.CancelFunc

	tasks []*Task
	field Field
}

func New(up Uploader, logger *log.Logger) *Pipeline {
	ctx, cancel := context.WithCancel(context.Background())
	return &Pipeline{
		up:     up,
		log:    logging.OrDiscard(logger),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Select starts uploading f. The placeholder exists as soon as Select
// returns; the command performs the network round-trips.
func (p *Pipeline) Select(f File) (Task, tea.Cmd) {
	t := &Task{
		ID:     "attachment_" + uuid.NewString(),
		File:   f,
		Status: StatusUploading,
	}
	t.Placeholder = Placeholder{
		ID:       t.ID,
		Label:    LabelUploading,
		Href:     f.DataURL(),
		Download: f.Name,
	}
	p.tasks = append(p.tasks, t)

	id, up, ctx := t.ID, p.up, p.ctx
	cmd := func() tea.Msg {
		if up == nil {
			return ResultMsg{ID: id, Err: ErrNoUploader}
		}
		target, err := up.Upload(ctx, f)
		return ResultMsg{ID: id, Target: target, Err: err}
	}
	return *t, cmd
}

// Resolve applies an upload result. It reports false when the task is
// unknown, was removed, or already finished.
func (p *Pipeline) Resolve(msg ResultMsg) bool {
	t := p.find(msg.ID)
	if t == nil || t.Status != StatusUploading {
		return false
	}

	name := msg.Target.Name()
	if msg.Err == nil && name == "" {
		msg.Err = errors.New("attachment: upload returned no file name")
	}
	if msg.Err != nil {
		t.Status = StatusFailed
		t.Err = msg.Err
		t.Placeholder.Label = LabelFailed
		p.log.Warn("upload failed", "file", t.File.Name, "err", msg.Err)
		return true
	}

	t.Status = StatusResolved
	t.Target = msg.Target
	t.Placeholder.Label = name
	t.Placeholder.Href = msg.Target.URL
	p.field.Add(name)
	p.log.Debug("upload resolved", "file", t.File.Name, "name", name)
	return true
}

// Remove deletes the task and its aggregate entry. A result arriving
// later for the same id is ignored.
func (p *Pipeline) Remove(id string) bool {
	i := slices.IndexFunc(p.tasks, func(t *Task) bool { return t.ID == id })
	if i < 0 {
		return false
	}
	t := p.tasks[i]
	p.tasks = slices.Delete(p.tasks, i, i+1)
	if t.Status == StatusResolved {
		p.field.Remove(t.Placeholder.Label)
	}
	return true
}

// Task returns a copy of the task with id.
func (p *Pipeline) Task(id string) (Task, bool) {
	t := p.find(id)
	if t == nil {
		return Task{}, false
	}
	return *t, true
}

// Tasks returns copies of all tasks in selection order.
func (p *Pipeline) Tasks() []Task {
	out := make([]Task, 0, len(p.tasks))
	for _, t := range p.tasks {
		out = append(out, *t)
	}
	return out
}

// Pending reports whether any upload is still in flight.
func (p *Pipeline) Pending() bool {
	return slices.ContainsFunc(p.tasks, func(t *Task) bool { return t.Status == StatusUploading })
}

func (p *Pipeline) Field() Field { return Field{values: p.field.Values()} }

// Close cancels uploads still in flight. It is called on editor teardown.
func (p *Pipeline) Close() { p.cancel() }

func (p *Pipeline) find(id string) *Task {
	for _, t := range p.tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}
