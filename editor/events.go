package editor

import (
	"time"

	"github.com/iw2rmb/zinc/attachment"
	"github.com/iw2rmb/zinc/buffer"
	"github.com/iw2rmb/zinc/convert"
)

// ChangeEvent describes the document after an update.
type ChangeEvent struct {
	Version   uint64
	Selection struct {
		Range  buffer.Range
		Active bool
	}

	// Text is the plain document text, trailing newline included.
	Text string
}

func buildChangeEvent(b *buffer.Buffer) ChangeEvent {
	ev := ChangeEvent{
		Version: b.Version(),
		Text:    b.Text(),
	}
	if r, ok := b.Selection(); ok {
		ev.Selection.Active = true
		ev.Selection.Range = r
	}
	return ev
}

// Form holds the hidden values submitted with the editor.
type Form struct {
	// Attachments is a JSON array of uploaded file names.
	Attachments string
	// OpenTime is when the editor was created; StartTime when the user
	// first changed the document or selection. Zero until then.
	OpenTime  time.Time
	StartTime time.Time
}

// AttachFileMsg asks the editor to upload a file.
type AttachFileMsg struct {
	File attachment.File
}

// RemoveAttachmentMsg removes an attachment and its form entry.
type RemoveAttachmentMsg struct {
	ID string
}

// AIRewriteMsg inserts generated content at the selection. With Replace
// set the selected text is replaced instead.
type AIRewriteMsg struct {
	Content convert.Fragment
	Replace bool
}
