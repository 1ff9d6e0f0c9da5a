package engine

import (
	"time"

	"github.com/tutorhq/onboarding-api/internal/models"
)

// FindOverlap returns the first rule of any kind active on start's date whose
// time range overlaps the candidate [start, end), or nil when the candidate
// is clear. Used to reject one-off slots that collide with existing rules.
func FindOverlap(rules []models.AvailabilityRule, start, end time.Time) *models.AvailabilityRule {
	day := DateOf(start)
	candidate := Interval{Start: start.Sub(day), End: end.Sub(day)}
	if candidate.Empty() {
		return nil
	}

	for _, rule := range ActiveOn(rules, day) {
		if candidate.Overlaps(Interval{Start: rule.Start(), End: rule.End()}) {
			match := rule
			return &match
		}
	}
	return nil
}

// BookingVerdict is the outcome of validating a candidate booking slot
// against the rule set.
type BookingVerdict int

const (
	// BookingAllowed means some availability rule fully contains the
	// candidate and no exclusion overlaps it.
	BookingAllowed BookingVerdict = iota
	// BookingNotCovered means no availability rule fully contains the candidate.
	BookingNotCovered
	// BookingBlocked means an exclusion rule overlaps the candidate.
	BookingBlocked
)

// ValidateBooking checks a candidate [start, end) against the rules active on
// start's date. The candidate is bookable only when an availability rule
// fully contains it and no exclusion overlaps it; a full-day exclusion
// overlaps every candidate by construction of its sentinel range.
func ValidateBooking(rules []models.AvailabilityRule, start, end time.Time) BookingVerdict {
	day := DateOf(start)
	candidate := Interval{Start: start.Sub(day), End: end.Sub(day)}
	if candidate.Empty() {
		return BookingNotCovered
	}

	covered := false
	for _, rule := range ActiveOn(rules, day) {
		window := Interval{Start: rule.Start(), End: rule.End()}
		switch rule.Kind {
		case models.RuleAvailabilityStandard, models.RuleAvailabilityOneOff:
			if window.Contains(candidate) {
				covered = true
			}
		case models.RuleExclusionFullDay, models.RuleExclusionTimeBased:
			if window.Overlaps(candidate) {
				return BookingBlocked
			}
		}
	}

	if !covered {
		return BookingNotCovered
	}
	return BookingAllowed
}
