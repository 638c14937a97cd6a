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

func singleShift(qual int) scheduling.ShiftInstance {
	return scheduling.ShiftInstance{
		ID:            0,
		Name:          "D1",
		Date:          date(2026, 8, 3), // Monday
		Week:          1,
		GlobalWeek:    1,
		DayOfWeek:     0,
		DurationMin:   8 * 60,
		Qualification: scheduling.NewQualificationSet(qual),
	}
}

func TestModelBuilder_CoverageConstraintAllowsEitherAssignmentOrSlack(t *testing.T) {
	s := singleShift(2)
	w := baseWorker("w1")

	b := scheduling.NewModelBuilder([]scheduling.ShiftInstance{s}, []scheduling.Worker{w}, 1, s.Date, s.Date, scheduling.ExclusionSet{}, scheduling.HistoryIndex{}, nil, 10_000)
	model := b.Build()

	sol := model.Solve(context.Background(), cpsolver.SolveOptions{Deadline: shortOpts().Deadline, Workers: 2, Seed: 1})
	require.True(t, sol.Status.Success())
	// either the worker is assigned or the slack variable absorbs the shift, never both.
	assert.Equal(t, 1, sol.Value(b.X[s.ID][0])+sol.Value(b.U[s.ID]))
}

func TestModelBuilder_QualificationRuleForbidsUnderqualifiedWorker(t *testing.T) {
	// shift requires competency code 1 (more senior); worker only holds code 2.
	s := singleShift(1)
	w := baseWorker("w1")
	w.Qualification = scheduling.NewQualificationSet(2)

	b := scheduling.NewModelBuilder([]scheduling.ShiftInstance{s}, []scheduling.Worker{w}, 1, s.Date, s.Date, scheduling.ExclusionSet{}, scheduling.HistoryIndex{}, nil, 10_000)
	model := b.Build()

	sol := model.Solve(context.Background(), cpsolver.SolveOptions{Deadline: shortOpts().Deadline, Workers: 2, Seed: 1})
	require.True(t, sol.Status.Success())
	assert.Equal(t, 0, sol.Value(b.X[s.ID][0]))
	assert.Equal(t, 1, sol.Value(b.U[s.ID]))
}

func TestModelBuilder_ExclusionForbidsAssignment(t *testing.T) {
	s := singleShift(2)
	w := baseWorker("w1")

	exclusions := scheduling.ExclusionSet{"w1": {0: struct{}{}}}
	b := scheduling.NewModelBuilder([]scheduling.ShiftInstance{s}, []scheduling.Worker{w}, 1, s.Date, s.Date, exclusions, scheduling.HistoryIndex{}, nil, 10_000)
	model := b.Build()

	sol := model.Solve(context.Background(), cpsolver.SolveOptions{Deadline: shortOpts().Deadline, Workers: 2, Seed: 1})
	require.True(t, sol.Status.Success())
	assert.Equal(t, 0, sol.Value(b.X[s.ID][0]))
}

// shortOpts mirrors the cpsolver package's own test helper deadline; the
// scheduling package has no access to it, so a local equivalent lives here.
func shortOpts() cpsolver.SolveOptions {
	return cpsolver.SolveOptions{Deadline: 4 * time.Second, Workers: 2, Seed: 1}
}
