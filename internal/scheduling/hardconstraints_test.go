package scheduling_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jagovanlieshout/Hoevelaken-autorooster/internal/cpsolver"
	"github.com/Jagovanlieshout/Hoevelaken-autorooster/internal/scheduling"
)

func nightShiftOn(id int, d time.Time, week int) scheduling.ShiftInstance {
	return scheduling.ShiftInstance{
		ID:            id,
		Name:          "N1",
		Date:          d,
		Week:          week,
		GlobalWeek:    week,
		DayOfWeek:     int(d.Weekday()+6) % 7,
		StartTime:     22 * 60,
		EndTime:       6 * 60,
		DurationMin:   8 * 60,
		Qualification: scheduling.NewQualificationSet(2),
		IsNight:       true,
	}
}

// S3 — seven consecutive required nights against a default cap of 5: the
// validator, independently recomputing C7.1 from the assignment table,
// flags the first six-date (cap+1) window, which holds six worked nights.
func TestValidate_S3_NightChainExceedsDefaultCap(t *testing.T) {
	w := baseWorker("w1")
	start := date(2026, 8, 3) // Monday
	id := "w1"

	var assignments []scheduling.Assignment
	for i := 0; i < 7; i++ {
		d := start.AddDate(0, 0, i)
		assignments = append(assignments, scheduling.Assignment{
			Shift:       nightShiftOn(i, d, 1),
			WorkerID:    &id,
			ShiftFilled: true,
		})
	}

	violations := scheduling.Validate(assignments, []scheduling.Worker{w}, 1, start, start, scheduling.ExclusionSet{}, scheduling.HistoryIndex{})
	var codes []string
	for _, v := range violations {
		codes = append(codes, v.Code)
	}
	assert.Contains(t, codes, "C7.1")
}

// S3, builder side — the hard constraint itself must cap the solver's
// assignment at 5 nights for this worker, not merely get flagged after the
// fact by the validator.
func TestModelBuilder_S3_MaxConsecutiveNightsCapsAssignmentAtFive(t *testing.T) {
	w := baseWorker("w1")
	w.MaxDaysPerWeek = 7    // isolate C7.1 from C4's independent weekly cap
	w.ContractMinutes = 3360 // 7 * 8h, so C5 never binds either
	start := date(2026, 8, 3)

	var shifts []scheduling.ShiftInstance
	for i := 0; i < 7; i++ {
		shifts = append(shifts, nightShiftOn(i, start.AddDate(0, 0, i), 1))
	}

	b := scheduling.NewModelBuilder(shifts, []scheduling.Worker{w}, 1, start, start, scheduling.ExclusionSet{}, scheduling.HistoryIndex{}, nil, 10_000)
	model := b.Build()

	sol := model.Solve(context.Background(), cpsolver.SolveOptions{Deadline: 8 * time.Second, Workers: 4, Seed: 1})
	require.True(t, sol.Status.Success())

	assigned := 0
	for _, s := range shifts {
		assigned += sol.Value(b.X[s.ID][0])
	}
	assert.LessOrEqual(t, assigned, 5)
}

// S4 — a worker who worked three consecutive nights must not be assigned
// anything on either of the following two calendar dates.
func TestValidate_S4_PostNightRestFlagsWorkTheDayAfterABlock(t *testing.T) {
	w := baseWorker("w1")
	start := date(2026, 8, 3) // Monday
	id := "w1"

	assignments := []scheduling.Assignment{
		{Shift: nightShiftOn(0, start, 1), WorkerID: &id, ShiftFilled: true},
		{Shift: nightShiftOn(1, start.AddDate(0, 0, 1), 1), WorkerID: &id, ShiftFilled: true},
		{Shift: nightShiftOn(2, start.AddDate(0, 0, 2), 1), WorkerID: &id, ShiftFilled: true},
		{Shift: shift(3, 3), WorkerID: &id, ShiftFilled: true}, // Thursday, a day shift
	}

	violations := scheduling.Validate(assignments, []scheduling.Worker{w}, 1, start, start, scheduling.ExclusionSet{}, scheduling.HistoryIndex{})
	var codes []string
	for _, v := range violations {
		codes = append(codes, v.Code)
	}
	assert.Contains(t, codes, "C7.2")
}

// A three-night block with nothing scheduled afterwards is clean.
func TestValidate_PostNightRestAllowsRestDaysWithNoFollowUpWork(t *testing.T) {
	w := baseWorker("w1")
	start := date(2026, 8, 3)
	id := "w1"

	assignments := []scheduling.Assignment{
		{Shift: nightShiftOn(0, start, 1), WorkerID: &id, ShiftFilled: true},
		{Shift: nightShiftOn(1, start.AddDate(0, 0, 1), 1), WorkerID: &id, ShiftFilled: true},
		{Shift: nightShiftOn(2, start.AddDate(0, 0, 2), 1), WorkerID: &id, ShiftFilled: true},
	}

	violations := scheduling.Validate(assignments, []scheduling.Worker{w}, 1, start, start, scheduling.ExclusionSet{}, scheduling.HistoryIndex{})
	for _, v := range violations {
		assert.NotEqual(t, "C7.2", v.Code)
	}
}

// C7.3 — a worker already at 35 recorded nights within the rolling 13-week
// window tips over the cap with one more in-horizon night assignment.
func TestValidate_C73_RollingThirteenWeekCapExceeded(t *testing.T) {
	w := baseWorker("w1")
	start := date(2026, 8, 3)
	id := "w1"

	history := scheduling.HistoryIndex{ByDate: make(map[string][]scheduling.PriorAssignment)}
	for i := 1; i <= 35; i++ {
		d := start.AddDate(0, 0, -i)
		dk := d.Format("2006-01-02")
		history.ByDate[dk] = []scheduling.PriorAssignment{{WorkerID: "w1", Date: d, IsNight: true}}
	}

	assignments := []scheduling.Assignment{
		{Shift: nightShiftOn(0, start, 1), WorkerID: &id, ShiftFilled: true},
	}

	violations := scheduling.Validate(assignments, []scheduling.Worker{w}, 1, start, start, scheduling.ExclusionSet{}, history)
	var codes []string
	for _, v := range violations {
		codes = append(codes, v.Code)
	}
	assert.Contains(t, codes, "C7.3")
}

// S6 — a worker aged 60 with night_policy=forbidden may never work a night;
// the same age with night_policy=only is an explicit opt-in and the age
// rule no longer applies.
func TestValidate_S6_AgeSixtyForbiddenPolicyFlagsNightAssignment(t *testing.T) {
	w := baseWorker("w1")
	w.Age = 60
	w.NightPolicy = scheduling.NightPolicyForbidden
	start := date(2026, 8, 3)
	id := "w1"

	assignments := []scheduling.Assignment{{Shift: nightShiftOn(0, start, 1), WorkerID: &id, ShiftFilled: true}}

	violations := scheduling.Validate(assignments, []scheduling.Worker{w}, 1, start, start, scheduling.ExclusionSet{}, scheduling.HistoryIndex{})
	var codes []string
	for _, v := range violations {
		codes = append(codes, v.Code)
	}
	assert.Contains(t, codes, "C7.4")
}

func TestValidate_S6_AgeSixtyNightsOnlyPolicyIsAnExemption(t *testing.T) {
	w := baseWorker("w1")
	w.Age = 60
	w.NightPolicy = scheduling.NightPolicyOnly
	start := date(2026, 8, 3)
	id := "w1"

	assignments := []scheduling.Assignment{{Shift: nightShiftOn(0, start, 1), WorkerID: &id, ShiftFilled: true}}

	violations := scheduling.Validate(assignments, []scheduling.Worker{w}, 1, start, start, scheduling.ExclusionSet{}, scheduling.HistoryIndex{})
	for _, v := range violations {
		assert.NotEqual(t, "C7.4", v.Code)
	}
}

// S5 — a worker on the 7-on/7-off night pattern whose prior tail ends
// exactly at the phase boundary must be pinned to nights for the entire
// first horizon week and to no nights at all for the second.
func TestSevenOnSevenOffNightsRule_PriorTailPhaseForcesOnWeekThenOffWeek(t *testing.T) {
	w := baseWorker("w1")
	w.MaxDaysPerWeek = 7
	w.Rules = []scheduling.PersonalRule{scheduling.SevenOnSevenOffNightsRule{}}

	start := date(2026, 8, 3) // Monday
	anchorEnd := start.AddDate(0, 0, -1) // Sunday immediately before the horizon

	tail := make([]time.Time, 0, 14)
	for i := 13; i >= 0; i-- {
		tail = append(tail, anchorEnd.AddDate(0, 0, -i))
	}
	history := scheduling.HistoryIndex{TailNightBlock: map[string][]time.Time{"w1": tail}}

	var shifts []scheduling.ShiftInstance
	for i := 0; i < 14; i++ {
		d := start.AddDate(0, 0, i)
		week := 1
		if i >= 7 {
			week = 2
		}
		shifts = append(shifts, nightShiftOn(i, d, week))
	}

	b := scheduling.NewModelBuilder(shifts, []scheduling.Worker{w}, 2, start, start, scheduling.ExclusionSet{}, history, nil, 10_000)
	model := b.Build()

	sol := model.Solve(context.Background(), cpsolver.SolveOptions{Deadline: 8 * time.Second, Workers: 4, Seed: 1})
	require.True(t, sol.Status.Success())

	for i, s := range shifts {
		want := 0
		if i < 7 {
			want = 1
		}
		assert.Equal(t, want, sol.Value(b.X[s.ID][0]), "shift index %d", i)
	}
}

// MaxConsecutiveWithRestRule's 3-day sliding window: three consecutive work
// days is one too many, so at least one of the three must be left uncovered
// for this worker.
func TestMaxConsecutiveWithRestRule_ForbidsThreeConsecutiveWorkDays(t *testing.T) {
	w := baseWorker("w1")
	w.Rules = []scheduling.PersonalRule{scheduling.MaxConsecutiveWithRestRule{}}

	start := date(2026, 8, 3)
	shifts := []scheduling.ShiftInstance{shift(0, 0), shift(1, 1), shift(2, 2)}

	b := scheduling.NewModelBuilder(shifts, []scheduling.Worker{w}, 1, start, start, scheduling.ExclusionSet{}, scheduling.HistoryIndex{}, nil, 10_000)
	model := b.Build()

	sol := model.Solve(context.Background(), cpsolver.SolveOptions{Deadline: 8 * time.Second, Workers: 4, Seed: 1})
	require.True(t, sol.Status.Success())

	total := sol.Value(b.X[0][0]) + sol.Value(b.X[1][0]) + sol.Value(b.X[2][0])
	assert.LessOrEqual(t, total, 2)
}
