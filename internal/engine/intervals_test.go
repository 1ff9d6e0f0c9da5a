package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func hm(h, m int) time.Duration {
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute
}

func TestConsolidateMergesOverlapping(t *testing.T) {
	out := Consolidate([]Interval{
		{Start: hm(9, 0), End: hm(11, 0)},
		{Start: hm(10, 30), End: hm(12, 0)},
		{Start: hm(14, 0), End: hm(15, 0)},
	})

	assert.Equal(t, []Interval{
		{Start: hm(9, 0), End: hm(12, 0)},
		{Start: hm(14, 0), End: hm(15, 0)},
	}, out)
}

func TestConsolidateMergesTouching(t *testing.T) {
	out := Consolidate([]Interval{
		{Start: hm(9, 0), End: hm(10, 0)},
		{Start: hm(10, 0), End: hm(11, 0)},
	})

	assert.Equal(t, []Interval{{Start: hm(9, 0), End: hm(11, 0)}}, out)
}

func TestConsolidateSortsUnorderedInput(t *testing.T) {
	out := Consolidate([]Interval{
		{Start: hm(15, 0), End: hm(16, 0)},
		{Start: hm(8, 0), End: hm(9, 0)},
		{Start: hm(12, 0), End: hm(13, 0)},
	})

	assert.Equal(t, []Interval{
		{Start: hm(8, 0), End: hm(9, 0)},
		{Start: hm(12, 0), End: hm(13, 0)},
		{Start: hm(15, 0), End: hm(16, 0)},
	}, out)
}

func TestConsolidateDropsEmptyAndInverted(t *testing.T) {
	out := Consolidate([]Interval{
		{Start: hm(9, 0), End: hm(9, 0)},
		{Start: hm(12, 0), End: hm(11, 0)},
		{Start: hm(10, 0), End: hm(10, 30)},
	})

	assert.Equal(t, []Interval{{Start: hm(10, 0), End: hm(10, 30)}}, out)
}

func TestConsolidateEmptyInput(t *testing.T) {
	assert.Nil(t, Consolidate(nil))
	assert.Nil(t, Consolidate([]Interval{}))
}

func TestConsolidateIdempotent(t *testing.T) {
	once := Consolidate([]Interval{
		{Start: hm(9, 0), End: hm(10, 0)},
		{Start: hm(9, 30), End: hm(11, 0)},
		{Start: hm(13, 0), End: hm(14, 0)},
	})
	twice := Consolidate(once)

	assert.Equal(t, once, twice)
}

func TestConsolidateOutputDisjointAndSorted(t *testing.T) {
	out := Consolidate([]Interval{
		{Start: hm(9, 0), End: hm(9, 45)},
		{Start: hm(9, 15), End: hm(10, 0)},
		{Start: hm(11, 0), End: hm(11, 30)},
		{Start: hm(11, 30), End: hm(12, 0)},
		{Start: hm(16, 0), End: hm(17, 0)},
	})

	for i := 1; i < len(out); i++ {
		assert.True(t, out[i-1].End < out[i].Start, "intervals must be disjoint and sorted")
	}
}

func TestSubtractCarvesMiddle(t *testing.T) {
	// Availability 09:00-17:00 minus lunch 12:00-13:00.
	net := Subtract(
		[]Interval{{Start: hm(9, 0), End: hm(17, 0)}},
		[]Interval{{Start: hm(12, 0), End: hm(13, 0)}},
	)

	assert.Equal(t, []Interval{
		{Start: hm(9, 0), End: hm(12, 0)},
		{Start: hm(13, 0), End: hm(17, 0)},
	}, net)
}

func TestSubtractTouchingBoundaryRemovesNothing(t *testing.T) {
	net := Subtract(
		[]Interval{{Start: hm(9, 0), End: hm(12, 0)}},
		[]Interval{{Start: hm(12, 0), End: hm(13, 0)}},
	)

	assert.Equal(t, []Interval{{Start: hm(9, 0), End: hm(12, 0)}}, net)
}

func TestSubtractExclusionCoversAvailability(t *testing.T) {
	net := Subtract(
		[]Interval{{Start: hm(10, 0), End: hm(11, 0)}},
		[]Interval{{Start: hm(9, 0), End: hm(12, 0)}},
	)

	assert.Empty(t, net)
}

func TestSubtractExclusionClipsEdges(t *testing.T) {
	net := Subtract(
		[]Interval{{Start: hm(9, 0), End: hm(17, 0)}},
		[]Interval{
			{Start: hm(8, 0), End: hm(10, 0)},
			{Start: hm(16, 30), End: hm(18, 0)},
		},
	)

	assert.Equal(t, []Interval{{Start: hm(10, 0), End: hm(16, 30)}}, net)
}

func TestSubtractLongExclusionSpansMultipleAvailabilities(t *testing.T) {
	net := Subtract(
		[]Interval{
			{Start: hm(9, 0), End: hm(10, 0)},
			{Start: hm(11, 0), End: hm(12, 0)},
			{Start: hm(14, 0), End: hm(15, 0)},
		},
		[]Interval{{Start: hm(9, 30), End: hm(11, 30)}},
	)

	assert.Equal(t, []Interval{
		{Start: hm(9, 0), End: hm(9, 30)},
		{Start: hm(11, 30), End: hm(12, 0)},
		{Start: hm(14, 0), End: hm(15, 0)},
	}, net)
}

func TestSubtractNoExclusions(t *testing.T) {
	avail := []Interval{{Start: hm(9, 0), End: hm(12, 0)}}
	assert.Equal(t, avail, Subtract(avail, nil))
}

func TestSubtractCompleteness(t *testing.T) {
	// Every minute inside availability and outside exclusions must survive.
	avail := []Interval{{Start: hm(9, 0), End: hm(18, 0)}}
	excl := []Interval{
		{Start: hm(10, 0), End: hm(10, 30)},
		{Start: hm(13, 0), End: hm(14, 0)},
	}
	net := Subtract(avail, excl)

	for minute := 9 * 60; minute < 18*60; minute++ {
		point := time.Duration(minute) * time.Minute
		excluded := false
		for _, e := range excl {
			if point >= e.Start && point < e.End {
				excluded = true
			}
		}
		inNet := false
		for _, n := range net {
			if point >= n.Start && point < n.End {
				inNet = true
			}
		}
		assert.Equal(t, !excluded, inNet, "minute %d", minute)
	}
}

func TestIntervalOverlaps(t *testing.T) {
	a := Interval{Start: hm(9, 0), End: hm(10, 0)}

	assert.True(t, a.Overlaps(Interval{Start: hm(9, 30), End: hm(10, 30)}))
	assert.True(t, a.Overlaps(Interval{Start: hm(8, 0), End: hm(9, 1)}))
	// Half-open: touching ranges do not overlap.
	assert.False(t, a.Overlaps(Interval{Start: hm(10, 0), End: hm(11, 0)}))
	assert.False(t, a.Overlaps(Interval{Start: hm(8, 0), End: hm(9, 0)}))
}
