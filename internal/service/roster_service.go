// Package service orchestrates the scheduling core's pipeline end to end:
// normalise inputs, build and solve the model, validate the result, and
// persist the outcome. None of the computation lives here; this package is
// the only place that talks to both internal/scheduling and internal/repository.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/Jagovanlieshout/Hoevelaken-autorooster/internal/repository"
	"github.com/Jagovanlieshout/Hoevelaken-autorooster/internal/scheduling"
)

// ErrNoPlanRows is returned when the supplied template has plan rows but
// produced no schedulable shifts: every plan row is a KOK/FM constant shift
// or has no "yes"/"facultative" weekday cell. A template with no plan rows
// at all fails earlier with scheduling.ErrEmptyTemplate.
var ErrNoPlanRows = errors.New("service: weekly template produced no shifts")

// RosterRequest is the caller-assembled input for one scheduling run. It
// mirrors spec §3's raw tables directly; everything beyond validation and
// normalisation is delegated to internal/scheduling.
type RosterRequest struct {
	TemplateRows          []scheduling.TemplateRow
	RawWorkers            []scheduling.RawWorker
	PriorAssignments      []scheduling.PriorAssignment
	UnavailabilityEntries []scheduling.UnavailabilityEntry
	ConstantScheduleRows  []scheduling.ConstantShiftRow
	HorizonWeeks          int
	ReferenceDate         time.Time

	SolveDeadline time.Duration // zero means the service default
	SolveWorkers  int           // zero means the service default
}

// RosterOutcome is what RosterService.Run returns: the persisted run row,
// the solved assignment table, and the independent validator's findings.
type RosterOutcome struct {
	Run        *repository.RosterRun
	Result     scheduling.Result
	Violations []scheduling.Violation
}

// RosterService wires the scheduling core to persistence.
type RosterService struct {
	runs            *repository.RosterRunRepository
	defaultDeadline time.Duration
	defaultWorkers  int
}

// NewRosterService builds a RosterService. defaultDeadline/defaultWorkers
// come from internal/config and are used whenever a request leaves its own
// SolveDeadline/SolveWorkers at the zero value.
func NewRosterService(runs *repository.RosterRunRepository, defaultDeadline time.Duration, defaultWorkers int) *RosterService {
	return &RosterService{runs: runs, defaultDeadline: defaultDeadline, defaultWorkers: defaultWorkers}
}

// Run executes the full pipeline described in spec §2 and persists the
// terminal outcome.
func (s *RosterService) Run(ctx context.Context, req RosterRequest) (*RosterOutcome, error) {
	lastPrior := scheduling.LatestPriorDate(req.PriorAssignments)
	startDate := scheduling.ComputeStartDate(lastPrior, req.ReferenceDate)
	horizonEpoch := scheduling.MondayOnOrBefore(startDate)
	overallEpoch := scheduling.OverallEpoch(req.PriorAssignments, horizonEpoch)
	history := scheduling.NormaliseHistory(req.PriorAssignments, horizonEpoch)

	workers, _, err := scheduling.NormaliseWorkers(req.RawWorkers, req.ReferenceDate)
	if err != nil {
		return nil, fmt.Errorf("service: normalising workers: %w", err)
	}

	shifts, catalogue, err := scheduling.BuildCalendar(req.TemplateRows, req.HorizonWeeks, startDate, overallEpoch)
	if err != nil {
		return nil, fmt.Errorf("service: building calendar: %w", err)
	}
	if len(shifts) == 0 {
		return nil, ErrNoPlanRows
	}

	workers, constantUnavailability, err := scheduling.IntegrateConstantSchedule(req.ConstantScheduleRows, catalogue, workers, horizonEpoch)
	if err != nil {
		return nil, fmt.Errorf("service: integrating constant schedule: %w", err)
	}

	unavailability := make([]scheduling.UnavailabilityEntry, 0, len(req.UnavailabilityEntries)+len(constantUnavailability))
	unavailability = append(unavailability, req.UnavailabilityEntries...)
	unavailability = append(unavailability, constantUnavailability...)
	exclusions := scheduling.ResolveUnavailability(unavailability, shifts)

	deadline := req.SolveDeadline
	if deadline <= 0 {
		deadline = s.defaultDeadline
	}
	workerCount := req.SolveWorkers
	if workerCount <= 0 {
		workerCount = s.defaultWorkers
	}

	log.Info().
		Int("shifts", len(shifts)).
		Int("workers", len(workers)).
		Int("horizon_weeks", req.HorizonWeeks).
		Time("start_date", startDate).
		Msg("solving roster")

	result := scheduling.BuildAndSolve(ctx, shifts, workers, req.HorizonWeeks, startDate, overallEpoch, exclusions, history, unavailability, scheduling.SolveOptions{
		Deadline: deadline,
		Workers:  workerCount,
	})

	var violations []scheduling.Violation
	if result.Succeeded() {
		violations = scheduling.Validate(result.Assignments, workers, req.HorizonWeeks, startDate, overallEpoch, exclusions, history)
		if len(violations) > 0 {
			log.Warn().Int("violations", len(violations)).Msg("validator flagged a solved roster; treating it as advisory")
		}
	} else {
		log.Warn().Str("status", result.Status.String()).Msg("roster solve did not produce an assignment table")
	}

	payload, err := json.Marshal(result.Assignments)
	if err != nil {
		return nil, fmt.Errorf("service: marshalling assignments: %w", err)
	}

	run := &repository.RosterRun{
		ID:              uuid.New(),
		HorizonWeeks:    req.HorizonWeeks,
		StartDate:       startDate,
		Status:          result.Status.String(),
		Objective:       decimal.NewFromFloat(result.Objective).Round(4),
		Violations:      len(violations),
		Failed:          !result.Succeeded() || len(violations) > 0,
		AssignmentsJSON: payload,
	}
	if err := s.runs.Create(ctx, run); err != nil {
		return nil, fmt.Errorf("service: persisting roster run: %w", err)
	}

	return &RosterOutcome{Run: run, Result: result, Violations: violations}, nil
}

// Get loads a previously persisted roster run.
func (s *RosterService) Get(ctx context.Context, id uuid.UUID) (*repository.RosterRun, error) {
	return s.runs.Get(ctx, id)
}
