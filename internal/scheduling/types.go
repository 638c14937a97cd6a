// Package scheduling builds a multi-week care-facility roster. It is a
// pure, I/O-free computational core (no database, no HTTP, no file
// formats): it consumes in-memory input tables and produces an assignment
// table, a solver status, and a validation report. All persistence,
// transport, and ingestion concerns live around this package, never in it.
package scheduling

import "time"

// Qualification is a competency code. Lower is more competent; a worker
// may perform a shift only if the worker's minimum code is <= the shift's
// minimum required code.
type Qualification = int

// QualificationSet is a small set of competency codes.
type QualificationSet map[Qualification]struct{}

// NewQualificationSet builds a set from the given codes.
func NewQualificationSet(codes ...Qualification) QualificationSet {
	s := make(QualificationSet, len(codes))
	for _, c := range codes {
		s[c] = struct{}{}
	}
	return s
}

// Min returns the lowest (most competent) code in the set, and false if
// the set is empty.
func (s QualificationSet) Min() (Qualification, bool) {
	first := true
	var min Qualification
	for c := range s {
		if first || c < min {
			min = c
			first = false
		}
	}
	return min, !first
}

// Max returns the highest (least competent) code in the set, and false if
// the set is empty.
func (s QualificationSet) Max() (Qualification, bool) {
	first := true
	var max Qualification
	for c := range s {
		if first || c > max {
			max = c
			first = false
		}
	}
	return max, !first
}

// Has reports whether code is a member.
func (s QualificationSet) Has(code Qualification) bool {
	_, ok := s[code]
	return ok
}

// ShiftType is the first of D/A/N found in a shift's name, else Other.
type ShiftType string

const (
	ShiftTypeDay     ShiftType = "D"
	ShiftTypeEvening ShiftType = "A"
	ShiftTypeNight   ShiftType = "N"
	ShiftTypeOther   ShiftType = "Other"
)

// shiftTypeOf classifies a shift name by its first D/A/N occurrence.
func shiftTypeOf(name string) ShiftType {
	for _, r := range name {
		switch r {
		case 'D':
			return ShiftTypeDay
		case 'A':
			return ShiftTypeEvening
		case 'N':
			return ShiftTypeNight
		}
	}
	return ShiftTypeOther
}

// RequiredLevel distinguishes mandatory from facultative shift rows.
type RequiredLevel float64

const (
	RequiredMandatory  RequiredLevel = 1.0
	RequiredFacultative RequiredLevel = 0.5
)

// ShiftInstance is a concrete dated occurrence of a weekly template row.
type ShiftInstance struct {
	ID             int
	Name           string
	Date           time.Time
	Week           int // 1-based index within the horizon
	GlobalWeek     int // stable across runs, counted from the epoch Monday
	DayOfWeek      int // 0 = Monday .. 6 = Sunday
	AbsoluteDay    int // 0-based day within the horizon
	StartTime      int // minutes from midnight
	EndTime        int // minutes from midnight
	DurationMin    int
	Qualification  QualificationSet
	IsNight        bool
	Required       RequiredLevel
}

// RequiredQualification returns the effective requirement: the minimum
// code in the shift's qualification set.
func (s ShiftInstance) RequiredQualification() Qualification {
	lvl, _ := s.Qualification.Min()
	return lvl
}

// Type classifies the shift by name (D/A/N/Other).
func (s ShiftInstance) Type() ShiftType { return shiftTypeOf(s.Name) }

// IsWeekend reports whether the shift falls on Saturday (5) or Sunday (6).
func (s ShiftInstance) IsWeekend() bool { return s.DayOfWeek == 5 || s.DayOfWeek == 6 }

// NightPolicy governs whether a worker may, must, or must not work nights.
type NightPolicy string

const (
	NightPolicyForbidden NightPolicy = "forbidden"
	NightPolicyOnly      NightPolicy = "only"
	NightPolicyOther     NightPolicy = "other"
	NightPolicyAllowed   NightPolicy = "allowed"
)

// WeekendPreference records whether a worker prefers to work weekends.
type WeekendPreference string

const (
	WeekendPreferencePrefers WeekendPreference = "prefers_weekends"
	WeekendPreferenceNone    WeekendPreference = "no_preference"
)

// DayPreference is a worker's day/evening/night shift-type preference triple.
type DayPreference struct {
	Day     bool
	Evening bool
	Night   bool
}

// PersonalRule is one parametric, data-driven per-worker rule (spec C10).
// The closed set of concrete implementations lives in rules.go. No worker
// id literal ever appears in this package; rules are attached to a Worker
// by whatever assembles the worker table from external input.
type PersonalRule interface {
	// Apply adds this rule's hard constraints to b for worker e.
	Apply(b *ModelBuilder, e *Worker)
	// ExcludesFromWeeklyBalance reports whether this worker should be
	// excluded from the P8 weekly-balance penalty (true for the
	// seven-on/seven-off night pattern, per spec §4.6.3 P8).
	ExcludesFromWeeklyBalance() bool
}

// Worker is an immutable, normalised staff record.
type Worker struct {
	ID                string
	ContractMinutes   int
	MaxDaysPerWeek     int
	Age                int
	Qualification      QualificationSet
	NightPolicy        NightPolicy
	WeekendPreference  WeekendPreference
	PatternLength      *int
	DayPreference      DayPreference
	MinConsecutive     *int
	MaxConsecutive     *int
	MinRestAfterBlock  *int
	NightOptIn         bool // explicit opt-in for C7.1's extended cap; C7.4 uses NightPolicy instead
	Rules              []PersonalRule
}

// HasRuleExcludingWeeklyBalance reports whether any attached rule opts the
// worker out of the P8 weekly-balance penalty.
func (w Worker) HasRuleExcludingWeeklyBalance() bool {
	for _, r := range w.Rules {
		if r.ExcludesFromWeeklyBalance() {
			return true
		}
	}
	return false
}

// UnavailabilityKind classifies an unavailability table row.
type UnavailabilityKind string

const (
	UnavailabilityAvailable        UnavailabilityKind = "available"
	UnavailabilityUnavailable      UnavailabilityKind = "unavailable"
	UnavailabilityConstantSchedule UnavailabilityKind = "constant_schedule"
)

// UnavailabilityEntry records one worker/date unavailability or preference signal.
type UnavailabilityEntry struct {
	WorkerID string
	Date     time.Time
	Kind     UnavailabilityKind
	FromTime *int // minutes from midnight; nil means whole day
	ToTime   *int
}

// PriorAssignment is a canonicalised previously worked shift, used
// read-only for historical continuity.
type PriorAssignment struct {
	WorkerID   string
	Date       time.Time
	ShiftID    *int
	IsNight    bool
	Week       int
	GlobalWeek int
}

// Assignment is one row of the core's output: a shift paired with the
// worker filling it, or no worker if the shift went uncovered.
type Assignment struct {
	Shift        ShiftInstance
	WorkerID     *string
	ShiftFilled  bool
}

// ConstantShiftRow is one row of the constant (fixed recurring) schedule.
type ConstantShiftRow struct {
	WorkerID    string
	WeekIndex   int
	WeekdayName string
	ShiftName   string
}

// WeekdayIndex maps a lowercase English weekday name to 0=Monday..6=Sunday.
var WeekdayIndex = map[string]int{
	"monday": 0, "tuesday": 1, "wednesday": 2, "thursday": 3,
	"friday": 4, "saturday": 5, "sunday": 6,
}
