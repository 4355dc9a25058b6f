package toolbar

// Control is a toolbar element: *Button or *Dropdown.
type Control interface {
	control()
}

// Button is a single toolbar button. Toggle buttons mirror a boolean format
// in Active; action buttons run their format when pressed.
type Button struct {
	Format string
	Value  any
	Icon   string
	Label  string
	Toggle bool

	Active bool
}

// MenuEntry is one dropdown item. Value is matched against the format
// snapshot; the empty string stands for the unset default.
type MenuEntry struct {
	Label  string
	Icon   string
	Format string
	Value  string

	Checked bool
}

// Dropdown groups entries behind a trigger. Single-select dropdowns check at
// most one entry and show its icon on the trigger. Multi dropdowns check
// every entry whose format is set.
type Dropdown struct {
	Name        string
	Label       string
	Format      string
	DefaultIcon string
	Multi       bool
	Entries     []MenuEntry

	TriggerIcon string
	Tinted      bool
}

func (*Button) control() {}
func (*Dropdown) control() {}

// Colors lists the text colours offered by the colour dropdown.
var Colors = []string{"red", "orange", "yellow", "green", "blue", "purple", "gray"}

// DefaultLayout returns the standard toolbar.
func DefaultLayout() []Control {
	colors := []MenuEntry{{Label: "Default", Icon: "format_color_reset", Format: "color", Value: ""}}
	for _, c := range Colors {
		colors = append(colors, MenuEntry{Label: c, Icon: "color_" + c, Format: "color", Value: c})
	}

	return []Control{
		&Dropdown{
			Name: "header", Label: "Heading", Format: "header", DefaultIcon: "match_case",
			Entries: []MenuEntry{
				{Label: "Heading 1", Icon: "format_h1", Format: "header", Value: "1"},
				{Label: "Heading 2", Icon: "format_h2", Format: "header", Value: "2"},
				{Label: "Normal", Icon: "match_case", Format: "header", Value: ""},
			},
		},
		&Button{Format: "bold", Icon: "format_bold", Label: "Bold", Toggle: true},
		&Button{Format: "italic", Icon: "format_italic", Label: "Italic", Toggle: true},
		&Button{Format: "underline", Icon: "format_underlined", Label: "Underline", Toggle: true},
		&Dropdown{
			Name: "text-format", Label: "Text format", DefaultIcon: "format_color_text", Multi: true,
			Entries: []MenuEntry{
				{Label: "Strikethrough", Icon: "strikethrough_s", Format: "strike"},
				{Label: "Blockquote", Icon: "format_quote", Format: "blockquote"},
				{Label: "Inline Code", Icon: "code", Format: "code"},
				{Label: "Code Block", Icon: "code_blocks", Format: "code-block"},
				{Label: "Clear Formatting", Icon: "format_clear", Format: "clean"},
			},
		},
		&Dropdown{Name: "color", Label: "Text color", Format: "color", DefaultIcon: "colors", Entries: colors},
		&Dropdown{
			Name: "list", Format: "list", DefaultIcon: "lists",
			Entries: []MenuEntry{
				{Label: "Bulleted", Icon: "format_list_bulleted", Format: "list", Value: "bullet"},
				{Label: "Numbered", Icon: "format_list_numbered", Format: "list", Value: "ordered"},
				{Label: "Checked", Icon: "checklist", Format: "list", Value: "checked"},
			},
		},
		&Button{Format: "divider", Icon: "horizontal_rule", Label: "Divider"},
		&Button{Format: "link", Value: true, Icon: "link", Label: "Link"},
		&Button{Format: "attachment", Icon: "attachment", Label: "Attachment"},
		&Button{Format: "date", Icon: "calendar_today", Label: "Date"},
		&Button{Format: "undo", Icon: "undo", Label: "Undo"},
		&Button{Format: "redo", Icon: "redo", Label: "Redo"},
	}
}

// cloneLayout deep-copies controls so callers never share state.
func cloneLayout(cs []Control) []Control {
	out := make([]Control, 0, len(cs))
	for _, c := range cs {
		switch c := c.(type) {
		case *Button:
			b := *c
			out = append(out, &b)
		case *Dropdown:
			d := *c
			d.Entries = append([]MenuEntry(nil), c.Entries...)
			out = append(out, &d)
		}
	}
	return out
}
