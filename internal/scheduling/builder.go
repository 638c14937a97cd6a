package scheduling

import (
	"time"

	"github.com/Jagovanlieshout/Hoevelaken-autorooster/internal/cpsolver"
)

// rollingNightCapWindow and rollingNightCap implement C7.3.
const (
	rollingNightCapWindow = 13 // weeks
	rollingNightCap       = 35 // nights
)

// defaultConsecutiveNightCap and extendedConsecutiveNightCap implement C7.1.
const (
	defaultConsecutiveNightCap  = 5
	extendedConsecutiveNightCap = 7
)

const maxNightRestCap = 55 // age threshold for C7.4

// ModelBuilder declares the decision variables, reified indicators, hard
// constraints and soft penalty terms of one scheduling run against a
// cpsolver.Model (spec §4.6). It is built once per Build call and discarded;
// it keeps no state beyond what a single roster horizon needs.
type ModelBuilder struct {
	CP *cpsolver.Model

	Shifts      []ShiftInstance
	Workers     []Worker
	Horizon     int // N, in weeks
	StartDate   time.Time
	HorizonEpoch time.Time // Monday on/before StartDate
	OverallEpoch time.Time // global-week epoch

	Exclusions  ExclusionSet
	History     HistoryIndex
	Preferences []UnavailabilityEntry // positive availability signals only

	workerIndex map[string]int
	dates       []time.Time // every calendar date in the horizon, ascending

	shiftsByDate      map[string][]ShiftInstance
	nightShiftsByDate map[string][]ShiftInstance
	shiftsByWeek      map[int][]ShiftInstance
	weekendShiftsByWeek map[int][]ShiftInstance

	// X[shiftID][workerIdx] is the primary assignment boolean.
	X [][]cpsolver.VarID
	// U[shiftID] is the coverage slack boolean.
	U []cpsolver.VarID

	// nVar/wVar key: workerID + "|" + dateKey. wwVar key: workerID + "|" + week.
	nVar  map[string]cpsolver.VarID
	wVar  map[string]cpsolver.VarID
	wwVar map[string]cpsolver.VarID

	// countVar key: workerID + "|" + string(ShiftType). totalVar/maxcVar key: workerID.
	countVar map[string]cpsolver.VarID
	totalVar map[string]cpsolver.VarID
	maxcVar  map[string]cpsolver.VarID
}

// NewModelBuilder prepares the indices a build pass needs. bigM should be
// comfortably larger than any linear expression the model constructs (the
// largest is the horizon-averaged contract budget in minutes).
func NewModelBuilder(shifts []ShiftInstance, workers []Worker, horizonWeeks int, startDate time.Time, overallEpoch time.Time, exclusions ExclusionSet, history HistoryIndex, preferences []UnavailabilityEntry, bigM int) *ModelBuilder {
	b := &ModelBuilder{
		CP:           cpsolver.NewModel(bigM),
		Shifts:       shifts,
		Workers:      workers,
		Horizon:      horizonWeeks,
		StartDate:    truncateToDate(startDate),
		HorizonEpoch: MondayOnOrBefore(startDate),
		OverallEpoch: overallEpoch,
		Exclusions:   exclusions,
		History:      history,
		Preferences:  preferences,

		workerIndex: make(map[string]int, len(workers)),

		shiftsByDate:        make(map[string][]ShiftInstance),
		nightShiftsByDate:   make(map[string][]ShiftInstance),
		shiftsByWeek:        make(map[int][]ShiftInstance),
		weekendShiftsByWeek: make(map[int][]ShiftInstance),

		nVar:  make(map[string]cpsolver.VarID),
		wVar:  make(map[string]cpsolver.VarID),
		wwVar: make(map[string]cpsolver.VarID),

		countVar: make(map[string]cpsolver.VarID),
		totalVar: make(map[string]cpsolver.VarID),
		maxcVar:  make(map[string]cpsolver.VarID),
	}

	for i, w := range workers {
		b.workerIndex[w.ID] = i
	}
	for _, s := range shifts {
		key := dateKey(s.Date)
		b.shiftsByDate[key] = append(b.shiftsByDate[key], s)
		b.shiftsByWeek[s.Week] = append(b.shiftsByWeek[s.Week], s)
		if s.IsNight {
			b.nightShiftsByDate[key] = append(b.nightShiftsByDate[key], s)
		}
		if s.IsWeekend() {
			b.weekendShiftsByWeek[s.Week] = append(b.weekendShiftsByWeek[s.Week], s)
		}
	}
	b.dates = HorizonDates(b.StartDate, horizonWeeks)

	return b
}

func nightCapFor(w *Worker) int {
	if w.NightOptIn {
		return extendedConsecutiveNightCap
	}
	return defaultConsecutiveNightCap
}

// Build declares every variable, hard constraint and penalty term in
// dependency order and returns the populated cpsolver.Model ready to solve.
func (b *ModelBuilder) Build() *cpsolver.Model {
	b.declareAssignmentVars()
	b.addCoverage() // C1
	b.declareIndicatorVars()
	b.addOneShiftPerDay()      // C2
	b.addNoDayAfterNight()     // C3
	b.addWeeklyDayCap()        // C4
	b.addContractBudget()      // C5
	b.addUnavailabilityExclusions() // C6
	b.addNightRules()          // C7
	b.addQualificationRule()   // C8
	b.addNightPolicy()         // C9
	b.addPersonalRules()       // C10
	b.declareCounterVars()
	b.addUncoveredPenalty()        // P1
	b.addUnderCoveragePenalty()    // P2, P3
	b.addConsecutiveWeekendPenalty() // P4
	b.addIsolatedShiftPenalty()    // P5
	b.addPostNightRestPenalty()    // P6
	b.addShiftTypeDistributionPenalty() // P7
	b.addWeeklyBalancePenalty()    // P8
	b.addOtherNightPenalty()       // P9, P9'
	b.addQualificationOverMatchPenalty() // P10
	return b.CP
}

func (b *ModelBuilder) declareAssignmentVars() {
	b.X = make([][]cpsolver.VarID, len(b.Shifts))
	b.U = make([]cpsolver.VarID, len(b.Shifts))
	for _, s := range b.Shifts {
		b.X[s.ID] = make([]cpsolver.VarID, len(b.Workers))
		for i, w := range b.Workers {
			b.X[s.ID][i] = b.CP.NewBoolVar("x_" + s.Name + "_" + dateKey(s.Date) + "_" + w.ID)
		}
		b.U[s.ID] = b.CP.NewBoolVar("u_" + s.Name + "_" + dateKey(s.Date))
	}
}

// addCoverage is C1: sum_e x[s,e] + u[s] = 1 for every shift s.
func (b *ModelBuilder) addCoverage() {
	for _, s := range b.Shifts {
		terms := make([]cpsolver.Term, 0, len(b.Workers)+1)
		for i := range b.Workers {
			terms = append(terms, cpsolver.Lit(b.X[s.ID][i]))
		}
		terms = append(terms, cpsolver.Lit(b.U[s.ID]))
		b.CP.AddLinearEQ(terms, 1)
	}
}
