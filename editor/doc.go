// Package editor provides a Bubble Tea rich-text editor component backed by
// the buffer package.
//
// The model wires a toolbar, the "/" command palette, content insertion
// and attachment uploads around one document. Network work runs in
// commands and comes back as messages, so every mutation happens inside
// Update.
package editor
