package engine

import (
	"time"

	"github.com/tutorhq/onboarding-api/internal/models"
)

// DateOf truncates a timestamp to its UTC calendar date.
func DateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ActiveOn returns the rules that apply on the given calendar date: the
// day-of-week matches and the date falls inside the rule's active window
// (inclusive on both ends, absent active-until means open-ended).
// Malformed records are dropped rather than reported so that slot generation
// stays total even when the store holds a bad row.
func ActiveOn(rules []models.AvailabilityRule, date time.Time) []models.AvailabilityRule {
	day := DateOf(date)

	var active []models.AvailabilityRule
	for _, rule := range rules {
		if !wellFormed(rule) {
			continue
		}
		if rule.DayOfWeek != day.Weekday() {
			continue
		}
		if day.Before(DateOf(rule.ActiveFrom)) {
			continue
		}
		if rule.ActiveUntil != nil && day.After(DateOf(*rule.ActiveUntil)) {
			continue
		}
		active = append(active, rule)
	}
	return active
}

// Partition splits active rules into availability and exclusion sets and
// reports whether any full-day exclusion is present. A full-day exclusion
// forces the whole day empty regardless of the other rules.
func Partition(rules []models.AvailabilityRule) (avail, excl []models.AvailabilityRule, fullDay bool) {
	for _, rule := range rules {
		switch rule.Kind {
		case models.RuleAvailabilityStandard, models.RuleAvailabilityOneOff:
			avail = append(avail, rule)
		case models.RuleExclusionFullDay:
			fullDay = true
		case models.RuleExclusionTimeBased:
			excl = append(excl, rule)
		}
	}
	return avail, excl, fullDay
}

func wellFormed(rule models.AvailabilityRule) bool {
	if !rule.Kind.Valid() {
		return false
	}
	if rule.StartMinute < 0 || rule.EndMinute > models.MinutesPerDay {
		return false
	}
	// The full-day sentinel [0, 1440) satisfies start < end like any other range.
	if rule.StartMinute >= rule.EndMinute {
		return false
	}
	if rule.ActiveUntil != nil && DateOf(*rule.ActiveUntil).Before(DateOf(rule.ActiveFrom)) {
		return false
	}
	return true
}

// ruleIntervals converts rules to their time-of-day intervals.
func ruleIntervals(rules []models.AvailabilityRule) []Interval {
	intervals := make([]Interval, 0, len(rules))
	for _, rule := range rules {
		intervals = append(intervals, Interval{Start: rule.Start(), End: rule.End()})
	}
	return intervals
}
