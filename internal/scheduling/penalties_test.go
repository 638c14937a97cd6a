package scheduling_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jagovanlieshout/Hoevelaken-autorooster/internal/scheduling"
)

func TestBuildAndSolve_UncoveredShiftCostsTenPoints(t *testing.T) {
	s := singleShift(2)

	result := scheduling.BuildAndSolve(context.Background(), []scheduling.ShiftInstance{s}, nil, 1, s.Date, s.Date, scheduling.ExclusionSet{}, scheduling.HistoryIndex{}, nil, scheduling.SolveOptions{Deadline: 4 * time.Second, Workers: 2, Seed: 1})

	require.True(t, result.Succeeded())
	assert.InDelta(t, 10.0, result.Objective, 1e-6)
}

func TestBuildAndSolve_PrefersOverqualifiedAssignmentOverLeavingUncovered(t *testing.T) {
	// shift needs competency 4; the worker's highest held code is 2, two
	// steps below the requirement. The resulting over-match penalty (P10) is tiny
	// next to the uncovered-shift penalty (P1, weight 10), so the solver
	// should always prefer to staff it even though it costs something.
	s := singleShift(4)
	w := baseWorker("w1")
	w.Qualification = scheduling.NewQualificationSet(1, 2)
	w.ContractMinutes = 0 // keep the under-coverage penalty (P2/P3) out of the comparison

	result := scheduling.BuildAndSolve(context.Background(), []scheduling.ShiftInstance{s}, []scheduling.Worker{w}, 1, s.Date, s.Date, scheduling.ExclusionSet{}, scheduling.HistoryIndex{}, nil, scheduling.SolveOptions{Deadline: 4 * time.Second, Workers: 2, Seed: 1})

	require.True(t, result.Succeeded())
	require.True(t, result.Assignments[0].ShiftFilled)
	assert.Less(t, result.Objective, 10.0)
}
