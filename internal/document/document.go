// Package document handles reading and atomically committing the
// patched document.
//
// A document is read in full before a pass begins and written in full
// after it ends. The commit is write-to-temporary then rename-over-
// original, so a failed run never leaves a half-written file at the
// document's path.
package document

import (
	"strings"
)

// Document is an ordered sequence of lines plus enough shape metadata
// to reassemble the original bytes exactly.
//
// Lines are split on '\n' only; a '\r' before the newline stays part of
// the line content, so CRLF documents round-trip byte-for-byte.
type Document struct {
	// Lines in document order, without their trailing newlines.
	Lines []string

	// TrailingNewline records whether the source ended with '\n'.
	TrailingNewline bool
}

// FromBytes splits raw content into a Document.
func FromBytes(data []byte) *Document {
	if len(data) == 0 {
		return &Document{}
	}
	s := string(data)
	trailing := strings.HasSuffix(s, "\n")
	if trailing {
		s = s[:len(s)-1]
	}
	return &Document{
		Lines:           strings.Split(s, "\n"),
		TrailingNewline: trailing,
	}
}

// Content reassembles the document's bytes. For an untouched document
// this is byte-identical to the input.
func (d *Document) Content() []byte {
	if len(d.Lines) == 0 {
		return []byte{}
	}
	var b strings.Builder
	for i, line := range d.Lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
	}
	if d.TrailingNewline {
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

// WithLines returns a new Document carrying the given lines and the
// receiver's shape metadata. Used after a pass: the rewriter produces
// lines, the original decides the trailing newline.
func (d *Document) WithLines(lines []string) *Document {
	return &Document{
		Lines:           lines,
		TrailingNewline: d.TrailingNewline,
	}
}
