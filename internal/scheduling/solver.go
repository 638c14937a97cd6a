package scheduling

import (
	"context"
	"time"

	"github.com/Jagovanlieshout/Hoevelaken-autorooster/internal/cpsolver"
)

// DefaultSolveDeadline and DefaultSolveWorkers are the Solver Driver's
// defaults (spec §4.7); internal/config overrides both.
const (
	DefaultSolveDeadline = 60 * time.Second
	DefaultSolveWorkers  = 8
)

// defaultBigM bounds the largest linear expression a build can construct:
// the horizon-averaged contract budget, in minutes.
const defaultBigM = 10_000_000

// SolveOptions configures the Solver Driver.
type SolveOptions struct {
	Deadline time.Duration
	Workers  int
	Seed     int64
}

// Result is the core's terminal output: the solver's status and, when
// successful, the extracted assignment table.
type Result struct {
	Status      cpsolver.Status
	Assignments []Assignment
	Objective   float64
}

// Succeeded reports whether the status carries a usable assignment table.
func (r Result) Succeeded() bool { return r.Status.Success() }

// BuildAndSolve runs the Model Builder then the solver, returning the
// extracted assignment table. Infeasibility is never masked: only C1 has
// slack (the uncovered-shift indicator u[s]); every other hard constraint
// either holds or the solve reports a non-success status with no
// assignments (spec §4.6.4).
func BuildAndSolve(ctx context.Context, shifts []ShiftInstance, workers []Worker, horizonWeeks int, startDate, overallEpoch time.Time, exclusions ExclusionSet, history HistoryIndex, preferences []UnavailabilityEntry, opts SolveOptions) Result {
	builder := NewModelBuilder(shifts, workers, horizonWeeks, startDate, overallEpoch, exclusions, history, preferences, defaultBigM)
	model := builder.Build()

	deadline := opts.Deadline
	if deadline <= 0 {
		deadline = DefaultSolveDeadline
	}
	workerCount := opts.Workers
	if workerCount <= 0 {
		workerCount = DefaultSolveWorkers
	}

	solution := model.Solve(ctx, cpsolver.SolveOptions{
		Deadline: deadline,
		Workers:  workerCount,
		Seed:     opts.Seed,
	})

	result := Result{Status: solution.Status, Objective: solution.Objective}
	if !solution.Status.Success() {
		return result
	}

	result.Assignments = extractAssignments(builder, solution)
	return result
}

// extractAssignments reads the solved x[s,e] values back into one
// Assignment per shift.
func extractAssignments(b *ModelBuilder, solution cpsolver.Solution) []Assignment {
	out := make([]Assignment, len(b.Shifts))
	for _, s := range b.Shifts {
		a := Assignment{Shift: s}
		for i, w := range b.Workers {
			if solution.Value(b.X[s.ID][i]) == 1 {
				id := w.ID
				a.WorkerID = &id
				a.ShiftFilled = true
				break
			}
		}
		out[s.ID] = a
	}
	return out
}
