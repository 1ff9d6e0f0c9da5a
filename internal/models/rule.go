package models

import "time"

// OwnerKind identifies which side of the interview process owns a rule.
type OwnerKind string

const (
	OwnerKindTutor    OwnerKind = "TUTOR"
	OwnerKindReviewer OwnerKind = "REVIEWER"
)

// Valid reports whether the owner kind is one of the known values.
func (k OwnerKind) Valid() bool {
	switch k {
	case OwnerKindTutor, OwnerKindReviewer:
		return true
	default:
		return false
	}
}

// RuleKind is the closed set of availability rule variants. Consumers switch
// exhaustively over these four values; adding a kind is a compile-visible change.
type RuleKind string

const (
	RuleAvailabilityStandard RuleKind = "AVAILABILITY_STANDARD"
	RuleAvailabilityOneOff   RuleKind = "AVAILABILITY_ONE_OFF"
	RuleExclusionFullDay     RuleKind = "EXCLUSION_FULL_DAY"
	RuleExclusionTimeBased   RuleKind = "EXCLUSION_TIME_BASED"
)

// Valid reports whether the rule kind is one of the four known variants.
func (k RuleKind) Valid() bool {
	switch k {
	case RuleAvailabilityStandard, RuleAvailabilityOneOff, RuleExclusionFullDay, RuleExclusionTimeBased:
		return true
	default:
		return false
	}
}

// Time-of-day values are stored as minutes from midnight. A full-day
// exclusion uses the sentinel range [0, 1440).
const (
	MinutesPerDay      = 24 * 60
	FullDayStartMinute = 0
	FullDayEndMinute   = MinutesPerDay
)

// AvailabilityRule is the persisted availability/exclusion record for an owner.
type AvailabilityRule struct {
	ID          string       `db:"id" json:"id"`
	OwnerID     string       `db:"owner_id" json:"owner_id"`
	OwnerKind   OwnerKind    `db:"owner_kind" json:"owner_kind"`
	Kind        RuleKind     `db:"kind" json:"kind"`
	DayOfWeek   time.Weekday `db:"day_of_week" json:"day_of_week"`
	StartMinute int          `db:"start_minute" json:"start_minute"`
	EndMinute   int          `db:"end_minute" json:"end_minute"`
	ActiveFrom  time.Time    `db:"active_from" json:"active_from"`
	ActiveUntil *time.Time   `db:"active_until" json:"active_until,omitempty"`
	CreatedAt   time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time    `db:"updated_at" json:"updated_at"`
}

// IsAvailability reports whether the rule grants bookable time.
func (r AvailabilityRule) IsAvailability() bool {
	switch r.Kind {
	case RuleAvailabilityStandard, RuleAvailabilityOneOff:
		return true
	case RuleExclusionFullDay, RuleExclusionTimeBased:
		return false
	default:
		return false
	}
}

// IsExclusion reports whether the rule blocks time.
func (r AvailabilityRule) IsExclusion() bool {
	switch r.Kind {
	case RuleExclusionFullDay, RuleExclusionTimeBased:
		return true
	case RuleAvailabilityStandard, RuleAvailabilityOneOff:
		return false
	default:
		return false
	}
}

// Start returns the rule's start as an offset from midnight.
func (r AvailabilityRule) Start() time.Duration {
	return time.Duration(r.StartMinute) * time.Minute
}

// End returns the rule's end as an offset from midnight.
func (r AvailabilityRule) End() time.Duration {
	return time.Duration(r.EndMinute) * time.Minute
}

// RuleFilter captures criteria for listing an owner's rules.
type RuleFilter struct {
	OwnerID   string
	OwnerKind OwnerKind
	Kind      *RuleKind
	FromDate  *time.Time
	ToDate    *time.Time
	Page      int
	PageSize  int
}

// Slot is an ephemeral bookable time range; it is never persisted.
type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}
