// Package source holds the raw bytes of a grammar file together with the
// byte-offset-to-line-and-column bookkeeping the rest of the pipeline needs
// to report useful diagnostics.
package source

import (
	"fmt"
	"sort"
)

// Source owns a grammar file's name and its raw contents, plus a table of
// line-start byte offsets computed once up front. It is interpreted as UTF-8
// when loaded from disk, but Source itself only deals in bytes; decoding is
// the tokenizer's job.
type Source struct {
	name  string
	data  []byte
	lines []int // lines[i] is the byte offset at which line i+1 begins; lines[0] == 0.
}

// New builds a Source for filename from contents, precomputing the line
// table. Line endings CR, LF, and CR+LF are all recognized as line breaks.
func New(filename string, contents []byte) *Source {
	s := &Source{name: filename, data: contents, lines: []int{0}}
	for i := 0; i < len(contents); i++ {
		switch contents[i] {
		case '\n':
			s.lines = append(s.lines, i+1)
		case '\r':
			if i+1 < len(contents) && contents[i+1] == '\n' {
				i++
			}
			s.lines = append(s.lines, i+1)
		}
	}
	return s
}

// Name returns the file name this Source was loaded from ("-" for stdin).
func (s *Source) Name() string {
	return s.name
}

// Data returns the raw, unmodified contents of the file.
func (s *Source) Data() []byte {
	return s.data
}

// Len returns the number of bytes in the source.
func (s *Source) Len() int {
	return len(s.data)
}

// At returns a Location within this source at the given byte offset.
// It does not validate that offset is in range; callers that want bounds
// checking should compare against Len.
func (s *Source) At(offset int) Location {
	return Location{source: s, offset: offset}
}

// Pos converts a byte offset into a (line, column) pair, both 1-based. It
// uses binary search over the precomputed line table, and expands tabs to
// the next multiple of 8 columns, matching common terminal behavior.
func (s *Source) Pos(offset int) Pos {
	line := sort.Search(len(s.lines), func(i int) bool {
		return s.lines[i] > offset
	})
	lineStart := s.lines[line-1]
	col := 0
	for i := lineStart; i < offset && i < len(s.data); i++ {
		if s.data[i] == '\t' {
			col += 8 - (col % 8)
		} else {
			col++
		}
	}
	return Pos{Filename: s.name, Line: line, Col: col + 1, Offset: offset}
}

// Pos identifies a human-readable location in a source file.
type Pos struct {
	Filename  string
	Line, Col int
	Offset    int
}

// String renders "<file>:<line>:<col>", or just the filename if the position
// is not known (e.g. a program-wide error with no specific location).
func (p Pos) String() string {
	if p.Line <= 0 || p.Col <= 0 {
		return p.Filename
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Col)
}

// Unknown returns a Pos that only carries a file name, used for diagnostics
// that are not tied to a specific offset.
func Unknown(filename string) Pos {
	return Pos{Filename: filename}
}

// Location is a (source, byte offset) pair. It carries no ownership of the
// source text; two Locations into the same Source are cheap to compare and
// to copy.
type Location struct {
	source *Source
	offset int
}

// Source returns the Source this Location refers into.
func (l Location) Source() *Source {
	return l.source
}

// Offset returns the zero-based byte offset within the source.
func (l Location) Offset() int {
	return l.offset
}

// Pos projects this Location to a human-readable (line, column).
func (l Location) Pos() Pos {
	if l.source == nil {
		return Pos{}
	}
	return l.source.Pos(l.offset)
}

// String renders the Location's projected position.
func (l Location) String() string {
	return l.Pos().String()
}

// Add returns the Location n bytes further into the same source, for
// pointing a diagnostic at a specific column within a multi-byte token whose
// start location is already known (e.g. an escape sequence partway through a
// string literal).
func (l Location) Add(n int) Location {
	return Location{source: l.source, offset: l.offset + n}
}

// Byte returns the byte at this location's offset, or 0 if out of range.
func (l Location) Byte() byte {
	if l.source == nil || l.offset < 0 || l.offset >= len(l.source.data) {
		return 0
	}
	return l.source.data[l.offset]
}
