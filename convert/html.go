package convert

import (
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/iw2rmb/zinc/delta"
)

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

func sanitizer() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.UGCPolicy()
	})
	return policy
}

var inlineTags = map[atom.Atom]string{
	atom.B:      "bold",
	atom.Strong: "bold",
	atom.I:      "italic",
	atom.Em:     "italic",
	atom.U:      "underline",
	atom.Ins:    "underline",
	atom.S:      "strike",
	atom.Strike: "strike",
	atom.Del:    "strike",
	atom.Code:   "code",
}

var headers = map[atom.Atom]string{
	atom.H1: "1", atom.H2: "2", atom.H3: "3",
	atom.H4: "4", atom.H5: "5", atom.H6: "6",
}

// HTML sanitises fragment and converts it to an insert-only delta.
//
// Block elements end with a newline carrying their line format. A final
// newline without line formats is dropped so a single paragraph inserts
// inline.
func HTML(fragment string) (delta.Delta, error) {
	clean := sanitizer().Sanitize(fragment)

	ctx := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(clean), ctx)
	if err != nil {
		return delta.Delta{}, fmt.Errorf("convert: parse html: %w", err)
	}

	w := &htmlWriter{}
	for _, n := range nodes {
		w.walk(n, nil, nil)
	}
	w.endLine(nil, false)
	return w.finish(), nil
}

type piece struct {
	text  string
	attrs delta.Attributes
}

type htmlWriter struct {
	out  delta.Delta
	line []piece
	pre  int
}

func (w *htmlWriter) lineEmpty() bool {
	for _, p := range w.line {
		if p.text != "" {
			return false
		}
	}
	return true
}

func (w *htmlWriter) text(s string, attrs delta.Attributes) {
	if w.pre == 0 {
		s = collapseSpace(s)
		if w.lineEmpty() {
			s = strings.TrimLeftFunc(s, unicode.IsSpace)
		} else if last := w.line[len(w.line)-1].text; strings.HasSuffix(last, " ") {
			s = strings.TrimLeft(s, " ")
		}
		if s == "" {
			return
		}
		w.line = append(w.line, piece{text: s, attrs: attrs})
		return
	}

	parts := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	for i, part := range parts {
		if i > 0 {
			w.endLine(delta.Attributes{"code-block": true}, true)
		}
		if part != "" {
			w.line = append(w.line, piece{text: part, attrs: attrs})
		}
	}
}

// endLine flushes the pending line followed by a newline with block attrs.
// When force is false an empty pending line is left alone.
func (w *htmlWriter) endLine(block delta.Attributes, force bool) {
	if !force && w.lineEmpty() {
		w.line = w.line[:0]
		return
	}
	if w.pre == 0 && len(w.line) > 0 {
		last := &w.line[len(w.line)-1]
		last.text = strings.TrimRightFunc(last.text, unicode.IsSpace)
	}
	for _, p := range w.line {
		w.out = w.out.Insert(p.text, p.attrs)
	}
	w.line = w.line[:0]
	w.out = w.out.Insert("\n", block)
}

func (w *htmlWriter) walk(n *html.Node, inline, block delta.Attributes) {
	switch n.Type {
	case html.TextNode:
		w.text(n.Data, inline)
		return
	case html.ElementNode:
	default:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			w.walk(c, inline, block)
		}
		return
	}

	if key, ok := inlineTags[n.DataAtom]; ok {
		if n.DataAtom == atom.Code && w.pre > 0 {
			w.children(n, inline, block)
			return
		}
		w.children(n, with(inline, key, true), block)
		return
	}

	switch n.DataAtom {
	case atom.A:
		if href := attr(n, "href"); href != "" {
			inline = with(inline, "link", href)
		}
		w.children(n, inline, block)
	case atom.Br:
		w.endLine(block, true)
	case atom.Hr:
		w.endLine(block, false)
		w.endLine(delta.Attributes{"divider": true}, true)
	case atom.Ul, atom.Ol:
		w.endLine(block, false)
		kind := "bullet"
		if n.DataAtom == atom.Ol {
			kind = "ordered"
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.DataAtom == atom.Li {
				w.block(c, inline, delta.Attributes{"list": kind})
				continue
			}
			w.walk(c, inline, block)
		}
	case atom.Li:
		w.block(n, inline, delta.Attributes{"list": "bullet"})
	case atom.Blockquote:
		w.block(n, inline, delta.Attributes{"blockquote": true})
	case atom.Pre:
		w.pre++
		w.block(n, inline, delta.Attributes{"code-block": true})
		w.pre--
	case atom.P, atom.Div, atom.Section, atom.Article, atom.Header, atom.Footer:
		w.block(n, inline, block)
	default:
		if h, ok := headers[n.DataAtom]; ok {
			w.block(n, inline, delta.Attributes{"header": h})
			return
		}
		w.children(n, inline, block)
	}
}

func (w *htmlWriter) block(n *html.Node, inline, attrs delta.Attributes) {
	w.endLine(nil, false)
	before := len(w.out.Ops)
	w.children(n, inline, attrs)
	w.endLine(attrs, len(w.out.Ops) == before)
}

func (w *htmlWriter) children(n *html.Node, inline, block delta.Attributes) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c, inline, block)
	}
}

// finish drops a trailing newline that carries no line format.
func (w *htmlWriter) finish() delta.Delta {
	ops := w.out.Ops
	if len(ops) == 0 {
		return delta.Delta{}
	}
	last := ops[len(ops)-1]
	if len(last.Attributes) > 0 || !strings.HasSuffix(last.Insert, "\n") {
		return w.out
	}
	trimmed := strings.TrimSuffix(last.Insert, "\n")
	out := delta.Delta{Ops: append([]delta.Op(nil), ops[:len(ops)-1]...)}
	return out.Insert(trimmed, nil)
}

func with(attrs delta.Attributes, key string, value any) delta.Attributes {
	out := attrs.Clone()
	if out == nil {
		out = delta.Attributes{}
	}
	out[key] = value
	return out
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func collapseSpace(s string) string {
	var sb strings.Builder
	space := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !space {
				sb.WriteByte(' ')
			}
			space = true
			continue
		}
		space = false
		sb.WriteRune(r)
	}
	return sb.String()
}
