// Package grapheme measures text in terminal cells.
package grapheme

import (
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Split returns grapheme clusters for text in visual order.
func Split(text string) []string {
	if text == "" {
		return nil
	}
	g := uniseg.NewGraphemes(text)
	out := make([]string, 0, len(text))
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}

// Count returns the number of grapheme clusters in text.
func Count(text string) int {
	if text == "" {
		return 0
	}
	return uniseg.GraphemeClusterCount(text)
}

// ClusterWidth returns the cell width of one cluster.
func ClusterWidth(cluster string) int {
	w := runewidth.StringWidth(cluster)
	if w <= 0 {
		w = uniseg.StringWidth(cluster)
	}
	return max(w, 0)
}

// Width returns the cell width of text. Tabs count as one cell.
func Width(text string) int {
	w := 0
	for _, c := range Split(text) {
		w += ClusterWidth(c)
	}
	return w
}

// RuneWidth returns the cells r occupies when drawn at column col. Tabs
// advance to the next multiple of tabWidth.
func RuneWidth(r rune, col, tabWidth int) int {
	if r == '\t' {
		if tabWidth <= 0 {
			tabWidth = 4
		}
		return tabWidth - col%tabWidth
	}
	if r < 0x20 || r == 0x7f {
		return 0
	}
	return max(runewidth.RuneWidth(r), 0)
}

// Truncate cuts text to at most width cells without splitting a cluster.
// A wide cluster that does not fit is replaced by spaces.
func Truncate(text string, width int) string {
	if width <= 0 {
		return ""
	}
	var sb strings.Builder
	used := 0
	for _, c := range Split(text) {
		w := max(ClusterWidth(c), 1)
		if used+w > width {
			sb.WriteString(strings.Repeat(" ", width-used))
			break
		}
		sb.WriteString(c)
		used += w
	}
	return sb.String()
}

// IsSpace reports whether all runes in cluster are Unicode whitespace.
func IsSpace(cluster string) bool {
	if cluster == "" {
		return false
	}
	for _, r := range cluster {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// IsPunct reports whether all runes in cluster are Unicode punctuation.
func IsPunct(cluster string) bool {
	if cluster == "" {
		return false
	}
	for _, r := range cluster {
		if !unicode.IsPunct(r) {
			return false
		}
	}
	return true
}
