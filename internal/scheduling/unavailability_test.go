package scheduling_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Jagovanlieshout/Hoevelaken-autorooster/internal/scheduling"
)

func minutes(h, m int) int { return h*60 + m }

func intp(v int) *int { return &v }

func nightShift(id int) scheduling.ShiftInstance {
	return scheduling.ShiftInstance{
		ID:          id,
		Name:        "N1",
		Date:        date(2026, 8, 3), // Monday
		Week:        1,
		GlobalWeek:  1,
		DayOfWeek:   0,
		StartTime:   minutes(22, 0),
		EndTime:     minutes(6, 0), // crosses midnight: EndTime <= StartTime
		DurationMin: 8 * 60,
		IsNight:     true,
	}
}

func dayShift(id int) scheduling.ShiftInstance {
	return scheduling.ShiftInstance{
		ID:          id,
		Name:        "D1",
		Date:        date(2026, 8, 3),
		Week:        1,
		GlobalWeek:  1,
		DayOfWeek:   0,
		StartTime:   minutes(8, 0),
		EndTime:     minutes(16, 0),
		DurationMin: 8 * 60,
	}
}

// A same-day unavailability window that ends before midnight must not
// conflict with a night shift that starts that same evening: comparing
// literal clock times, the shift's EndTime (6:00, stored unwrapped) never
// overlaps an unavailability window contained entirely within 20:00-23:59.
func TestResolveUnavailability_NightShiftDoesNotConflictWithSameDayEveningWindow(t *testing.T) {
	s := nightShift(0)
	entries := []scheduling.UnavailabilityEntry{
		{
			WorkerID: "w1",
			Date:     s.Date,
			Kind:     scheduling.UnavailabilityUnavailable,
			FromTime: intp(minutes(20, 0)),
			ToTime:   intp(minutes(23, 59)),
		},
	}

	excl := scheduling.ResolveUnavailability(entries, []scheduling.ShiftInstance{s})
	assert.False(t, excl.Excludes("w1", s.ID))
}

func TestResolveUnavailability_DayShiftConflictsWithOverlappingWindow(t *testing.T) {
	s := dayShift(0)
	entries := []scheduling.UnavailabilityEntry{
		{
			WorkerID: "w1",
			Date:     s.Date,
			Kind:     scheduling.UnavailabilityUnavailable,
			FromTime: intp(minutes(9, 0)),
			ToTime:   intp(minutes(10, 0)),
		},
	}

	excl := scheduling.ResolveUnavailability(entries, []scheduling.ShiftInstance{s})
	assert.True(t, excl.Excludes("w1", s.ID))
}

func TestResolveUnavailability_NilTimeRangeConflictsWithWholeDay(t *testing.T) {
	s := dayShift(0)
	entries := []scheduling.UnavailabilityEntry{
		{WorkerID: "w1", Date: s.Date, Kind: scheduling.UnavailabilityUnavailable},
	}

	excl := scheduling.ResolveUnavailability(entries, []scheduling.ShiftInstance{s})
	assert.True(t, excl.Excludes("w1", s.ID))
}

func TestResolveUnavailability_AvailableEntryIsIgnored(t *testing.T) {
	s := dayShift(0)
	entries := []scheduling.UnavailabilityEntry{
		{
			WorkerID: "w1",
			Date:     s.Date,
			Kind:     scheduling.UnavailabilityAvailable,
			FromTime: intp(minutes(9, 0)),
			ToTime:   intp(minutes(10, 0)),
		},
	}

	excl := scheduling.ResolveUnavailability(entries, []scheduling.ShiftInstance{s})
	assert.False(t, excl.Excludes("w1", s.ID))
}
