package scheduling

import (
	"time"

	"github.com/Jagovanlieshout/Hoevelaken-autorooster/internal/cpsolver"
)

// The concrete PersonalRule variants below are the closed set C10 dispatches
// over (spec §4.6.2). No worker id literal appears here; a rule is attached
// to a Worker by whatever builds the worker table from external input.

// NightsOnlyRule forbids every non-night shift, identical to night_policy=only.
type NightsOnlyRule struct{}

func (NightsOnlyRule) Apply(b *ModelBuilder, e *Worker) {
	i := b.workerIndex[e.ID]
	b.forbidShiftsWhere(i, func(s ShiftInstance) bool { return !s.IsNight })
}
func (NightsOnlyRule) ExcludesFromWeeklyBalance() bool { return false }

// WeekendOnlyRule forbids every shift outside Saturday/Sunday.
type WeekendOnlyRule struct{}

func (WeekendOnlyRule) Apply(b *ModelBuilder, e *Worker) {
	i := b.workerIndex[e.ID]
	b.forbidShiftsWhere(i, func(s ShiftInstance) bool { return !s.IsWeekend() })
}
func (WeekendOnlyRule) ExcludesFromWeeklyBalance() bool { return false }

// FridayEveningOrWeekendRule permits only Friday evening shifts or any
// weekend shift.
type FridayEveningOrWeekendRule struct{}

func (FridayEveningOrWeekendRule) Apply(b *ModelBuilder, e *Worker) {
	i := b.workerIndex[e.ID]
	b.forbidShiftsWhere(i, func(s ShiftInstance) bool {
		fridayEvening := s.DayOfWeek == 4 && s.Type() == ShiftTypeEvening
		return !fridayEvening && !s.IsWeekend()
	})
}
func (FridayEveningOrWeekendRule) ExcludesFromWeeklyBalance() bool { return false }

// ForbiddenWeekdaysRule forbids shifts on a fixed subset of weekdays
// (0 = Monday .. 6 = Sunday).
type ForbiddenWeekdaysRule struct {
	Weekdays []int
}

func (r ForbiddenWeekdaysRule) Apply(b *ModelBuilder, e *Worker) {
	i := b.workerIndex[e.ID]
	forbidden := make(map[int]bool, len(r.Weekdays))
	for _, d := range r.Weekdays {
		forbidden[d] = true
	}
	b.forbidShiftsWhere(i, func(s ShiftInstance) bool { return forbidden[s.DayOfWeek] })
}
func (ForbiddenWeekdaysRule) ExcludesFromWeeklyBalance() bool { return false }

// MaxConsecutiveWithRestRule caps work at two consecutive days followed by
// two days off, honouring any run already in progress from the prior roster.
type MaxConsecutiveWithRestRule struct{}

func (MaxConsecutiveWithRestRule) Apply(b *ModelBuilder, e *Worker) {
	i := b.workerIndex[e.ID]
	tailLen := TailBlockLength(b.History.TailWorkBlock[e.ID])

	if tailLen >= 2 && len(b.dates) > 0 {
		b.forbidShiftsOnDate(i, b.dates[0])
	}
	if tailLen >= 3 && len(b.dates) > 1 {
		b.forbidShiftsOnDate(i, b.dates[1])
	}

	offset := tailLen
	if offset > 2 {
		offset = 2
	}

	for idx := 0; idx+2 < len(b.dates); idx++ {
		d0, d1, d2 := b.dates[idx], b.dates[idx+1], b.dates[idx+2]
		w0, ok0 := b.wVarOrZero(e.ID, dateKey(d0))
		w1, ok1 := b.wVarOrZero(e.ID, dateKey(d1))
		w2, ok2 := b.wVarOrZero(e.ID, dateKey(d2))
		if !ok0 || !ok1 || !ok2 {
			continue
		}

		windowOffset := 0
		if idx == 0 {
			windowOffset = offset
		}
		b.CP.AddLinearLE([]cpsolver.Term{cpsolver.Lit(w0), cpsolver.Lit(w1), cpsolver.Lit(w2)}, 2-windowOffset)

		// w[d0] ∧ ¬w[d1] ⇒ ¬w[d2]: sum(w0, -w1) >= 1 only when w0=1, w1=0.
		b.CP.AddConditionalLinearLEExpr(
			[]cpsolver.Term{cpsolver.Lit(w0), cpsolver.Scaled(w1, -1)}, 1,
			[]cpsolver.Term{cpsolver.Lit(w2)}, 0,
		)
	}
}
func (MaxConsecutiveWithRestRule) ExcludesFromWeeklyBalance() bool { return false }

// sevenOnSevenOffPhaseLen and sevenOnSevenOffOnLen define the 14-day, 7-on/7-off
// night pattern of SevenOnSevenOffNightsRule.
const (
	sevenOnSevenOffPhaseLen = 14
	sevenOnSevenOffOnLen    = 7
)

// SevenOnSevenOffNightsRule fixes the worker to a recurring 14-day pattern:
// seven consecutive nights, then seven days off.
type SevenOnSevenOffNightsRule struct{}

func (SevenOnSevenOffNightsRule) Apply(b *ModelBuilder, e *Worker) {
	i := b.workerIndex[e.ID]
	b.forbidShiftsWhere(i, func(s ShiftInstance) bool { return !s.IsNight })

	tail := b.History.TailNightBlock[e.ID]
	if tailLen := TailBlockLength(tail); tailLen > 0 {
		anchorEnd, _ := TailBlockEnd(tail)
		anchorPosition := (tailLen - 1) % sevenOnSevenOffPhaseLen
		for _, d := range b.dates {
			daysSince := int(d.Sub(anchorEnd).Hours() / 24)
			position := ((anchorPosition + daysSince) % sevenOnSevenOffPhaseLen + sevenOnSevenOffPhaseLen) % sevenOnSevenOffPhaseLen
			b.fixNightPosition(i, e.ID, d, position < sevenOnSevenOffOnLen)
		}
		return
	}

	// No tail phase: introduce a one-hot phase selector and pin n[e,d]
	// under each candidate phase.
	phi := make([]cpsolver.VarID, sevenOnSevenOffPhaseLen)
	phiTerms := make([]cpsolver.Term, sevenOnSevenOffPhaseLen)
	for k := range phi {
		phi[k] = b.CP.NewBoolVar("phi_" + e.ID + "_" + itoa(k))
		phiTerms[k] = cpsolver.Lit(phi[k])
	}
	b.CP.AddLinearEQ(phiTerms, 1)

	for k := range phi {
		for dayIdx, d := range b.dates {
			position := (dayIdx + k) % sevenOnSevenOffPhaseLen
			on := position < sevenOnSevenOffOnLen
			b.fixNightPositionUnderPhase(i, e.ID, d, on, phi[k])
		}
	}
}
func (SevenOnSevenOffNightsRule) ExcludesFromWeeklyBalance() bool { return true }

// fixNightPosition unconditionally pins n[e,d] to on (relaxed to 0 when the
// worker is already excluded from every night shift that date).
func (b *ModelBuilder) fixNightPosition(workerIdx int, workerID string, d time.Time, on bool) {
	nv, ok := b.nVarOrZero(workerID, dateKey(d))
	if !ok {
		return
	}
	target := 0
	if on && !b.allNightShiftsExcluded(workerIdx, d) {
		target = 1
	}
	b.CP.AddLinearEQ([]cpsolver.Term{cpsolver.Lit(nv)}, target)
}

func (b *ModelBuilder) allNightShiftsExcluded(workerIdx int, d time.Time) bool {
	nights := b.nightShiftsByDate[dateKey(d)]
	if len(nights) == 0 {
		return true
	}
	workerID := b.Workers[workerIdx].ID
	for _, s := range nights {
		if !b.Exclusions.Excludes(workerID, s.ID) {
			return false
		}
	}
	return true
}

// fixNightPositionUnderPhase pins n[e,d] to on, conditional on phase φ[k]
// being selected.
func (b *ModelBuilder) fixNightPositionUnderPhase(workerIdx int, workerID string, d time.Time, on bool, phi cpsolver.VarID) {
	nv, ok := b.nVarOrZero(workerID, dateKey(d))
	if !ok {
		return
	}
	target := 0
	if on && !b.allNightShiftsExcluded(workerIdx, d) {
		target = 1
	}
	// phi == 1 ⇒ nv <= target and nv >= target, pinning nv == target.
	b.CP.AddConditionalLinearLEExpr([]cpsolver.Term{cpsolver.Lit(phi)}, 1,
		[]cpsolver.Term{cpsolver.Lit(nv)}, target)
	b.CP.AddConditionalLinearLEExpr([]cpsolver.Term{cpsolver.Lit(phi)}, 1,
		[]cpsolver.Term{cpsolver.Scaled(nv, -1)}, -target)
}

// MaxPerWeekTypesRule restricts the worker to evening/night shifts only,
// capped at three per week.
type MaxPerWeekTypesRule struct{}

func (MaxPerWeekTypesRule) Apply(b *ModelBuilder, e *Worker) {
	i := b.workerIndex[e.ID]
	b.forbidShiftsWhere(i, func(s ShiftInstance) bool {
		return s.Type() != ShiftTypeEvening && s.Type() != ShiftTypeNight
	})

	for week := 1; week <= b.Horizon; week++ {
		var terms []cpsolver.Term
		for _, s := range b.shiftsByWeek[week] {
			if s.Type() == ShiftTypeEvening || s.Type() == ShiftTypeNight {
				terms = append(terms, cpsolver.Lit(b.X[s.ID][i]))
			}
		}
		if terms == nil {
			continue
		}
		b.CP.AddLinearLE(terms, 3)
	}
}
func (MaxPerWeekTypesRule) ExcludesFromWeeklyBalance() bool { return false }
