// Package attachment uploads files picked in the editor and tracks their
// placeholders and the aggregate field submitted with the form.
package attachment

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"slices"
)

const (
	LabelUploading = "Uploading..."
	LabelFailed    = "Error uploading file"
)

// File is a local file selected for upload.
type File struct {
	Name     string
	MIMEType string
	Data     []byte
}

func (f File) Size() int { return len(f.Data) }

// DataURL encodes the file for immediate local display.
func (f File) DataURL() string {
	mime := f.MIMEType
	if mime == "" {
		mime = "application/octet-stream"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(f.Data)
}

type Status uint8

const (
	StatusUploading Status = iota
	StatusResolved
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusUploading:
		return "uploading"
	case StatusResolved:
		return "resolved"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", s)
	}
}

// Placeholder is what the editor shows for a task: a link named Label
// pointing at Href. Href is a data URL until the upload resolves.
type Placeholder struct {
	ID       string
	Label    string
	Href     string
	Download string
}

// Task is one file moving through the upload states. Uploading is the
// only non-terminal state.
type Task struct {
	ID     string
	File   File
	Status Status
	Target Target
	Err    error

	Placeholder Placeholder
}

// Field is the hidden form value listing uploaded file names.
type Field struct {
	values []string
}

// ParseField decodes a JSON array. An empty string is an empty field.
func ParseField(s string) (Field, error) {
	if s == "" {
		return Field{}, nil
	}
	var values []string
	if err := json.Unmarshal([]byte(s), &values); err != nil {
		return Field{}, fmt.Errorf("attachment: parse field: %w", err)
	}
	return Field{values: values}, nil
}

func (f *Field) Add(name string) {
	f.values = append(f.values, name)
}

// Remove deletes the first entry equal to name.
func (f *Field) Remove(name string) bool {
	i := slices.Index(f.values, name)
	if i < 0 {
		return false
	}
	f.values = slices.Delete(f.values, i, i+1)
	return true
}

func (f Field) Values() []string { return slices.Clone(f.values) }

func (f Field) Len() int { return len(f.values) }

// String returns the JSON array submitted with the form.
func (f Field) String() string {
	values := f.values
	if values == nil {
		values = []string{}
	}
	b, _ := json.Marshal(values)
	return string(b)
}
