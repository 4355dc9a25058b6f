// Package convert turns external content fragments into insert-only deltas
// ready to be applied to a document.
package convert

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/iw2rmb/zinc/delta"
)

// Kind is the content type of a Fragment.
type Kind uint8

const (
	FragmentText Kind = iota
	FragmentHTML
	FragmentMarkdown
)

func (k Kind) String() string {
	switch k {
	case FragmentText:
		return "text"
	case FragmentHTML:
		return "html"
	case FragmentMarkdown:
		return "markdown"
	default:
		return "unknown"
	}
}

// Fragment is a piece of content to be inserted.
type Fragment struct {
	Kind Kind
	Body string
}

func TextFragment(s string) Fragment { return Fragment{Kind: FragmentText, Body: s} }

func HTMLFragment(s string) Fragment { return Fragment{Kind: FragmentHTML, Body: s} }

func MarkdownFragment(s string) Fragment { return Fragment{Kind: FragmentMarkdown, Body: s} }

// Delta converts f to an insert-only delta.
func (f Fragment) Delta() (delta.Delta, error) {
	switch f.Kind {
	case FragmentText:
		return Text(f.Body), nil
	case FragmentHTML:
		return HTML(f.Body)
	case FragmentMarkdown:
		return Markdown(f.Body)
	default:
		return delta.Delta{}, fmt.Errorf("convert: unknown fragment kind %d", f.Kind)
	}
}

// Text returns s as a single unformatted insert. CRLF is normalised.
func Text(s string) delta.Delta {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return delta.New().Insert(s, nil)
}

var (
	markdownOnce sync.Once
	markdownConv goldmark.Markdown
)

func markdown() goldmark.Markdown {
	markdownOnce.Do(func() {
		markdownConv = goldmark.New(goldmark.WithExtensions(extension.GFM))
	})
	return markdownConv
}

// Markdown renders src with GFM extensions and converts the resulting HTML.
func Markdown(src string) (delta.Delta, error) {
	var buf bytes.Buffer
	if err := markdown().Convert([]byte(src), &buf); err != nil {
		return delta.Delta{}, fmt.Errorf("convert: render markdown: %w", err)
	}
	return HTML(buf.String())
}
