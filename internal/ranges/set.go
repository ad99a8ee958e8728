// Package ranges provides an ordered set of inclusive rune ranges, used by
// the grammar parser to validate character classes (spec §4.2's
// non-overlapping ranges rule) and to produce their ranges in ascending
// order.
//
// It is grounded on the teacher's internal/interval.Map, backed by the same
// btree.Map, but narrowed to a plain set (no associated value) over runes,
// since a character class has nothing to store per-range beyond the range
// itself.
package ranges

import (
	"fmt"
	"iter"

	"github.com/tidwall/btree"
)

// Range is one inclusive [Min, Max] span of runes.
type Range struct {
	Min, Max rune
}

// Set is an ordered collection of disjoint inclusive rune ranges. Adjacent
// ranges are kept as separate entries, not merged. The zero Set is empty and
// ready to use.
type Set struct {
	// Keyed by each range's Max, so Seek(r) finds the first range whose Max
	// is >= r in O(log n).
	tree btree.Map[rune, rune] // Max -> Min
}

// Add inserts [min, max] into the set. It returns the first existing range
// that overlaps [min, max], if any, in which case the set is left
// unmodified — the caller (the grammar parser) is expected to report this as a diagnostic
// rather than silently merge it, since overlapping ranges in one character
// class are a grammar error, not a representation detail.
func (s *Set) Add(min, max rune) (overlap Range, overlaps bool) {
	if min > max {
		panic(fmt.Sprintf("ranges: min (%#v) > max (%#v)", min, max))
	}

	it := s.tree.Iter()
	if !it.Seek(min) {
		s.tree.Set(max, min)
		return Range{}, false
	}

	if max < it.Value() {
		// [min, max] sits strictly before the next range.
		s.tree.Set(max, min)
		return Range{}, false
	}

	return Range{Min: it.Value(), Max: it.Key()}, true
}

// Contains reports whether r falls within any range in the set.
func (s *Set) Contains(r rune) bool {
	it := s.tree.Iter()
	if !it.Seek(r) {
		return false
	}
	return it.Value() <= r
}

// Len returns the number of disjoint ranges stored.
func (s *Set) Len() int {
	return s.tree.Len()
}

// Ranges iterates the set's ranges in ascending order.
func (s *Set) Ranges() iter.Seq[Range] {
	return func(yield func(Range) bool) {
		it := s.tree.Iter()
		for more := it.First(); more; more = it.Next() {
			if !yield(Range{Min: it.Value(), Max: it.Key()}) {
				return
			}
		}
	}
}

// Sorted returns the set's ranges as a slice, ascending by Min.
func (s *Set) Sorted() []Range {
	out := make([]Range, 0, s.Len())
	for r := range s.Ranges() {
		out = append(out, r)
	}
	return out
}
