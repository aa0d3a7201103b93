// Package fastparser holds the byte-level scanning primitives shared by the
// chunk tokenizer and the quote-free fast path.
//
// Nothing in here knows about rows or headers. A Finder answers "where is the
// next X at or after this offset" for a fixed chunk, and the split helpers
// cut lines and fields without any escaping logic.
package fastparser

import "strings"

// Finder locates successive occurrences of a target string inside one chunk.
//
// Queries must use non-decreasing offsets. Under that contract the last hit is
// cached, so a scan that asks for the next delimiter once per field costs one
// pass over the chunk instead of one pass per field.
type Finder struct {
	s      string
	target string
	next   int
	done   bool
}

// NewFinder returns a Finder for target within s.
func NewFinder(s, target string) Finder {
	return Finder{s: s, target: target, next: -1}
}

// Next returns the index of the first occurrence of the target at or after
// from, or -1 when there is none.
func (f *Finder) Next(from int) int {
	if f.done {
		return -1
	}
	if f.next >= from {
		return f.next
	}
	if from > len(f.s) {
		f.done = true
		return -1
	}
	i := strings.Index(f.s[from:], f.target)
	if i < 0 {
		f.done = true
		return -1
	}
	f.next = from + i
	return f.next
}
