package trigger

import (
	"slices"
	"strings"
)

// Formats with routing of their own. Any other format is a toolbar action.
const (
	// FormatInsert candidates carry HTML content in Value.
	FormatInsert = "insert"
	// FormatDialog candidates open the canned-response dialog.
	FormatDialog = "dialog"
)

// Candidate is one palette entry.
type Candidate struct {
	Icon   string
	Label  string
	Format string
	Value  any

	// Order ranks candidates that declare one (HasOrder) among themselves.
	Order    int
	HasOrder bool

	// Labels tag canned responses. A query starting with "#" matches them.
	Labels []string
}

// DefaultCandidates returns the built-in palette entries.
func DefaultCandidates() []Candidate {
	return []Candidate{
		{Icon: "quickreply", Label: "Canned Responses", Format: FormatDialog},
		{Icon: "format_bold", Label: "Bold", Format: "bold"},
		{Icon: "format_italic", Label: "Italic", Format: "italic"},
		{Icon: "format_underlined", Label: "Underline", Format: "underline"},
		{Icon: "strikethrough_s", Label: "Strikethrough", Format: "strike"},
		{Icon: "format_quote", Label: "Blockquote", Format: "blockquote"},
		{Icon: "code", Label: "Inline Code", Format: "code"},
		{Icon: "code_blocks", Label: "Code Block", Format: "code-block"},
		{Icon: "format_h1", Label: "Heading 1", Format: "header", Value: "1"},
		{Icon: "format_h2", Label: "Heading 2", Format: "header", Value: "2"},
		{Icon: "match_case", Label: "Normal Text", Format: "header", Value: ""},
		{Icon: "format_list_bulleted", Label: "Bulleted List", Format: "list", Value: "bullet"},
		{Icon: "format_list_numbered", Label: "Numbered List", Format: "list", Value: "ordered"},
		{Icon: "checklist", Label: "Checklist", Format: "list", Value: "checked"},
		{Icon: "link", Label: "Link", Format: "link", Value: true},
		{Icon: "horizontal_rule", Label: "Divider", Format: "divider"},
		{Icon: "attachment", Label: "Attachment", Format: "attachment"},
		{Icon: "image", Label: "Image", Format: "image"},
		{Icon: "video_camera_back", Label: "Video", Format: "video"},
		{Icon: "calendar_today", Label: "Date", Format: "date"},
		{Icon: "format_clear", Label: "Clear Formatting", Format: "clean"},
	}
}

// arrange copies cs and sorts the candidates that declare an order among
// the slots they occupy. Candidates without an order keep their position.
func arrange(cs []Candidate) []Candidate {
	out := slices.Clone(cs)
	for i := range out {
		out[i].Labels = splitLabels(out[i].Labels)
	}

	var slots []int
	var ordered []Candidate
	for i, c := range out {
		if c.HasOrder {
			slots = append(slots, i)
			ordered = append(ordered, c)
		}
	}
	slices.SortStableFunc(ordered, func(a, b Candidate) int { return a.Order - b.Order })
	for i, slot := range slots {
		out[slot] = ordered[i]
	}
	return out
}

// splitLabels expands comma-joined labels and drops empty ones.
func splitLabels(labels []string) []string {
	var out []string
	for _, l := range labels {
		for _, part := range strings.Split(l, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Filter returns the candidates whose label or format contains query,
// ignoring case, in their original order. An empty query keeps everything.
// A query starting with "#" matches candidate labels instead.
func Filter(cs []Candidate, query string) []Candidate {
	q := strings.ToLower(query)
	if q == "" {
		return slices.Clone(cs)
	}

	if tag, ok := strings.CutPrefix(q, "#"); ok {
		out := make([]Candidate, 0, len(cs))
		for _, c := range cs {
			if slices.ContainsFunc(c.Labels, func(l string) bool {
				return strings.Contains(strings.ToLower(l), tag)
			}) {
				out = append(out, c)
			}
		}
		return out
	}

	out := make([]Candidate, 0, len(cs))
	for _, c := range cs {
		if strings.Contains(strings.ToLower(c.Label), q) || strings.Contains(strings.ToLower(c.Format), q) {
			out = append(out, c)
		}
	}
	return out
}
