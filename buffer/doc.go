// Package buffer implements the rich-text document engine.
//
// Content is addressed by rune offsets: an index plus a length. The
// document always ends with a newline. Inline formats live on each rune,
// line formats (header, list, blockquote, code-block) live on the newline
// that terminates the line.
//
// All mutations are synchronous. Listeners registered with On run in
// registration order after the document and selection are consistent with
// the mutation being reported.
package buffer
