// Package rangeset implements a set of inclusive integer ranges kept in
// canonical form: sorted by start, with no two ranges overlapping or touching.
//
// A Set is a value. Open and Close return a new Set and never modify the
// receiver, so a Set can be shared freely between snapshots.
package rangeset

import (
	"fmt"
	"strings"
)

// Range is an inclusive interval [Start, End].
type Range struct {
	Start int
	End   int
}

func (r Range) String() string { return fmt.Sprintf("[%d,%d]", r.Start, r.End) }

// Len is the number of integers covered by r.
func (r Range) Len() int { return r.End - r.Start + 1 }

// Set is an ordered collection of disjoint, non-adjacent ranges.
// The zero value is the empty set.
type Set struct {
	ranges []Range
}

// Of builds a canonical set from arbitrary ranges.
func Of(ranges ...Range) Set {
	var s Set
	for _, r := range ranges {
		s = s.Open(r.Start, r.End)
	}
	return s
}

// Open returns s with [start, end] added. Ranges that overlap or are adjacent
// to the new one are merged into it. An inverted range leaves s unchanged.
func (s Set) Open(start, end int) Set {
	if start > end {
		return s
	}
	out := make([]Range, 0, len(s.ranges)+1)
	merged := Range{Start: start, End: end}
	inserted := false
	for _, r := range s.ranges {
		switch {
		case r.End+1 < merged.Start:
			out = append(out, r)
		case merged.End+1 < r.Start:
			if !inserted {
				out = append(out, merged)
				inserted = true
			}
			out = append(out, r)
		default:
			merged.Start = min(merged.Start, r.Start)
			merged.End = max(merged.End, r.End)
		}
	}
	if !inserted {
		out = append(out, merged)
	}
	return Set{ranges: out}
}

// Close returns s with [start, end] removed. A stored range that straddles
// the removed interval is split in two. An inverted range leaves s unchanged.
func (s Set) Close(start, end int) Set {
	if start > end || len(s.ranges) == 0 {
		return s
	}
	out := make([]Range, 0, len(s.ranges)+1)
	for _, r := range s.ranges {
		if r.End < start || end < r.Start {
			out = append(out, r)
			continue
		}
		if r.Start < start {
			out = append(out, Range{Start: r.Start, End: start - 1})
		}
		if end < r.End {
			out = append(out, Range{Start: end + 1, End: r.End})
		}
	}
	if len(out) == 0 {
		return Set{}
	}
	return Set{ranges: out}
}

// IsOpen reports whether [start, end] intersects any stored range.
func (s Set) IsOpen(start, end int) bool {
	if start > end {
		return false
	}
	for _, r := range s.ranges {
		if r.Start > end {
			return false
		}
		if r.End >= start {
			return true
		}
	}
	return false
}

// Contains reports whether i lies inside a stored range.
func (s Set) Contains(i int) bool { return s.IsOpen(i, i) }

// Ranges returns a copy of the stored ranges in ascending order.
func (s Set) Ranges() []Range {
	if len(s.ranges) == 0 {
		return nil
	}
	out := make([]Range, len(s.ranges))
	copy(out, s.ranges)
	return out
}

// Empty reports whether the set holds no ranges.
func (s Set) Empty() bool { return len(s.ranges) == 0 }

// Equal reports whether s and o hold the same ranges.
func (s Set) Equal(o Set) bool {
	if len(s.ranges) != len(o.ranges) {
		return false
	}
	for i := range s.ranges {
		if s.ranges[i] != o.ranges[i] {
			return false
		}
	}
	return true
}

func (s Set) String() string {
	parts := make([]string, len(s.ranges))
	for i, r := range s.ranges {
		parts[i] = r.String()
	}
	return "{" + strings.Join(parts, " ") + "}"
}
