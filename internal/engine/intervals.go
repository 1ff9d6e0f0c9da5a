// Package engine implements the availability computations behind slot
// generation and booking validation. Everything in here is a pure function
// over rules already loaded into memory; persistence and transport live in
// the repository and handler layers.
//
// All intervals are half-open [start, end) offsets from midnight.
// Consolidation merges touching intervals (the union of half-open ranges
// sharing a boundary is contiguous) and subtraction uses strict comparisons
// (a boundary-touching exclusion removes nothing); both are the exact union
// and difference under half-open semantics.
package engine

import (
	"sort"
	"time"
)

// Interval is a half-open [Start, End) time-of-day range.
type Interval struct {
	Start time.Duration
	End   time.Duration
}

// Empty reports whether the interval covers no time.
func (iv Interval) Empty() bool {
	return iv.Start >= iv.End
}

// Overlaps reports whether two half-open intervals share any point.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start < other.End && other.Start < iv.End
}

// Contains reports whether other lies entirely within iv.
func (iv Interval) Contains(other Interval) bool {
	return iv.Start <= other.Start && other.End <= iv.End
}

// Consolidate merges a set of same-day intervals into a minimal, sorted,
// pairwise disjoint list. Empty and inverted inputs are discarded.
// Consolidating an already consolidated list returns it unchanged.
func Consolidate(intervals []Interval) []Interval {
	valid := make([]Interval, 0, len(intervals))
	for _, iv := range intervals {
		if !iv.Empty() {
			valid = append(valid, iv)
		}
	}
	if len(valid) == 0 {
		return nil
	}

	sort.Slice(valid, func(i, j int) bool { return valid[i].Start < valid[j].Start })

	merged := make([]Interval, 0, len(valid))
	running := valid[0]
	for _, next := range valid[1:] {
		if next.Start <= running.End {
			if next.End > running.End {
				running.End = next.End
			}
			continue
		}
		merged = append(merged, running)
		running = next
	}
	return append(merged, running)
}

// Subtract removes the exclusion intervals from the availability intervals,
// yielding the net bookable time for a day. Both inputs must be Consolidate
// output: sorted ascending and pairwise disjoint.
func Subtract(avail, excl []Interval) []Interval {
	var net []Interval
	i := 0
	for _, a := range avail {
		for i < len(excl) && excl[i].End <= a.Start {
			i++
		}

		cur := a
		for j := i; j < len(excl) && excl[j].Start < cur.End; j++ {
			if excl[j].Start > cur.Start {
				net = append(net, Interval{Start: cur.Start, End: excl[j].Start})
			}
			if excl[j].End > cur.Start {
				cur.Start = excl[j].End
			}
			if cur.Empty() {
				break
			}
		}
		if !cur.Empty() {
			net = append(net, cur)
		}
	}
	return net
}
