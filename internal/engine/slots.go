package engine

import (
	"time"

	"github.com/tutorhq/onboarding-api/internal/models"
)

// NetIntervals computes the net bookable time-of-day intervals for a single
// calendar date: resolve active rules, short-circuit on full-day exclusions,
// consolidate availability and time-based exclusions separately, subtract.
func NetIntervals(rules []models.AvailabilityRule, date time.Time) []Interval {
	active := ActiveOn(rules, date)
	avail, excl, fullDay := Partition(active)
	if fullDay || len(avail) == 0 {
		return nil
	}
	return Subtract(Consolidate(ruleIntervals(avail)), Consolidate(ruleIntervals(excl)))
}

// GenerateSlots walks every calendar date in [from, to] and emits the
// fixed-duration slots that fit the net bookable intervals, clipped to the
// query window and to now. Partial slots are never emitted; the result is
// chronologically ordered and an empty result is a valid outcome.
func GenerateSlots(rules []models.AvailabilityRule, from, to time.Time, slotDuration time.Duration, now time.Time) []models.Slot {
	if slotDuration <= 0 || to.Before(from) {
		return nil
	}

	var slots []models.Slot
	lastDay := DateOf(to)
	for day := DateOf(from); !day.After(lastDay); day = day.AddDate(0, 0, 1) {
		for _, iv := range NetIntervals(rules, day) {
			start := day.Add(iv.Start)
			end := day.Add(iv.End)

			if start.Before(from) {
				start = from
			}
			if start.Before(now) {
				start = now
			}
			if end.After(to) {
				end = to
			}

			for s := start; !s.Add(slotDuration).After(end); s = s.Add(slotDuration) {
				slots = append(slots, models.Slot{Start: s, End: s.Add(slotDuration)})
			}
		}
	}
	return slots
}
