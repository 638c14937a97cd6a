package scheduling_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jagovanlieshout/Hoevelaken-autorooster/internal/scheduling"
)

func TestBuildAndSolve_SingleShiftQualifiedWorkerGetsAssigned(t *testing.T) {
	s := singleShift(2)
	w := baseWorker("w1")

	result := scheduling.BuildAndSolve(context.Background(), []scheduling.ShiftInstance{s}, []scheduling.Worker{w}, 1, s.Date, s.Date, scheduling.ExclusionSet{}, scheduling.HistoryIndex{}, nil, scheduling.SolveOptions{Deadline: 4 * time.Second, Workers: 2, Seed: 1})

	require.True(t, result.Succeeded())
	require.Len(t, result.Assignments, 1)
	assert.True(t, result.Assignments[0].ShiftFilled)
	require.NotNil(t, result.Assignments[0].WorkerID)
	assert.Equal(t, "w1", *result.Assignments[0].WorkerID)
}

func TestBuildAndSolve_NoWorkersLeavesShiftUncoveredButSucceeds(t *testing.T) {
	s := singleShift(2)

	result := scheduling.BuildAndSolve(context.Background(), []scheduling.ShiftInstance{s}, nil, 1, s.Date, s.Date, scheduling.ExclusionSet{}, scheduling.HistoryIndex{}, nil, scheduling.SolveOptions{Deadline: 4 * time.Second, Workers: 2, Seed: 1})

	require.True(t, result.Succeeded())
	require.Len(t, result.Assignments, 1)
	assert.False(t, result.Assignments[0].ShiftFilled)
}

// A full five-day week with two interchangeable workers and no competing
// constraints is the kind of small, unconstrained coverage problem the
// local-search driver is expected to clear comfortably within its deadline.
func TestBuildAndSolve_WorkWeekWithTwoWorkersSucceeds(t *testing.T) {
	rows := []scheduling.TemplateRow{
		{
			Name:          "D1",
			Action:        "plan",
			StartTime:     7 * 60,
			EndTime:       15 * 60,
			Qualification: scheduling.NewQualificationSet(2),
			Weekday:       [7]scheduling.TemplateCell{scheduling.CellYes, scheduling.CellYes, scheduling.CellYes, scheduling.CellYes, scheduling.CellYes, scheduling.CellNo, scheduling.CellNo},
		},
	}
	start := date(2026, 8, 3) // Monday
	shifts, _, err := scheduling.BuildCalendar(rows, 1, start, start)
	require.NoError(t, err)
	require.Len(t, shifts, 5)

	workers := []scheduling.Worker{baseWorker("w1"), baseWorker("w2")}

	result := scheduling.BuildAndSolve(context.Background(), shifts, workers, 1, start, start, scheduling.ExclusionSet{}, scheduling.HistoryIndex{}, nil, scheduling.SolveOptions{Deadline: 8 * time.Second, Workers: 4, Seed: 1})

	require.True(t, result.Succeeded())
	require.Len(t, result.Assignments, 5)
}
