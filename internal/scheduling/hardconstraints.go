package scheduling

import (
	"time"

	"github.com/Jagovanlieshout/Hoevelaken-autorooster/internal/cpsolver"
)

// addOneShiftPerDay is C2.
func (b *ModelBuilder) addOneShiftPerDay() {
	for i := range b.Workers {
		for _, shifts := range b.shiftsByDate {
			terms := make([]cpsolver.Term, len(shifts))
			for j, s := range shifts {
				terms[j] = cpsolver.Lit(b.X[s.ID][i])
			}
			b.CP.AddLinearLE(terms, 1)
		}
	}
}

// addNoDayAfterNight is C3.
func (b *ModelBuilder) addNoDayAfterNight() {
	for i := range b.Workers {
		for idx, d := range b.dates {
			if idx+1 >= len(b.dates) {
				break
			}
			dk := dateKey(d)
			nights := b.nightShiftsByDate[dk]
			if len(nights) == 0 {
				continue
			}
			next := b.dates[idx+1]
			nextKey := dateKey(next)

			terms := make([]cpsolver.Term, 0, len(nights)+len(b.shiftsByDate[nextKey]))
			for _, s := range nights {
				terms = append(terms, cpsolver.Lit(b.X[s.ID][i]))
			}
			for _, s := range b.shiftsByDate[nextKey] {
				if !s.IsNight {
					terms = append(terms, cpsolver.Lit(b.X[s.ID][i]))
				}
			}
			b.CP.AddLinearLE(terms, len(nights))
		}
	}
}

// addWeeklyDayCap is C4.
func (b *ModelBuilder) addWeeklyDayCap() {
	for i, w := range b.Workers {
		for week := 1; week <= b.Horizon; week++ {
			shifts := b.shiftsByWeek[week]
			if len(shifts) == 0 {
				continue
			}
			terms := make([]cpsolver.Term, len(shifts))
			for j, s := range shifts {
				terms[j] = cpsolver.Lit(b.X[s.ID][i])
			}
			b.CP.AddLinearLE(terms, w.MaxDaysPerWeek)
		}
	}
}

// addContractBudget is C5.
func (b *ModelBuilder) addContractBudget() {
	for i, w := range b.Workers {
		terms := make([]cpsolver.Term, len(b.Shifts))
		for j, s := range b.Shifts {
			terms[j] = cpsolver.Scaled(b.X[s.ID][i], s.DurationMin)
		}
		b.CP.AddLinearLE(terms, w.ContractMinutes*b.Horizon)
	}
}

// addUnavailabilityExclusions is C6.
func (b *ModelBuilder) addUnavailabilityExclusions() {
	for workerID, shiftIDs := range b.Exclusions {
		i, ok := b.workerIndex[workerID]
		if !ok {
			continue
		}
		for shiftID := range shiftIDs {
			b.forbidShift(i, shiftID)
		}
	}
}

func (b *ModelBuilder) forbidShift(workerIdx, shiftID int) {
	b.CP.AddLinearEQ([]cpsolver.Term{cpsolver.Lit(b.X[shiftID][workerIdx])}, 0)
}

func (b *ModelBuilder) forbidShiftsWhere(workerIdx int, predicate func(ShiftInstance) bool) {
	for _, s := range b.Shifts {
		if predicate(s) {
			b.forbidShift(workerIdx, s.ID)
		}
	}
}

// forbidShiftsOnDate forbids every shift for workerIdx on calendar date d.
func (b *ModelBuilder) forbidShiftsOnDate(workerIdx int, d time.Time) {
	for _, s := range b.shiftsByDate[dateKey(d)] {
		b.forbidShift(workerIdx, s.ID)
	}
}

// forbidShiftsOnDateConditional forbids every shift for workerID on date d
// whenever sum(condTerms) >= threshold (see cpsolver.AddConditionalLinearLEExpr).
func (b *ModelBuilder) forbidShiftsOnDateConditional(workerID string, condTerms []cpsolver.Term, threshold int, d time.Time) {
	i := b.workerIndex[workerID]
	shifts := b.shiftsByDate[dateKey(d)]
	if len(shifts) == 0 {
		return
	}
	terms := make([]cpsolver.Term, len(shifts))
	for j, s := range shifts {
		terms[j] = cpsolver.Lit(b.X[s.ID][i])
	}
	b.CP.AddConditionalLinearLEExpr(condTerms, threshold, terms, 0)
}

// addNightRules implements C7.1 through C7.4.
func (b *ModelBuilder) addNightRules() {
	for i := range b.Workers {
		w := &b.Workers[i]
		b.addMaxConsecutiveNights(i, w) // C7.1
		b.addPostNightBlockRest(i, w)   // C7.2
		b.addRollingNightCap(i, w)      // C7.3
		b.addAgeNightRestriction(i, w)  // C7.4
	}
}

// addMaxConsecutiveNights is C7.1: forbid any sliding window of cap+1
// consecutive calendar dates from containing more than cap worked nights,
// counting the prior tail's night dates into the first windows that overlap
// the pre-horizon period.
func (b *ModelBuilder) addMaxConsecutiveNights(i int, w *Worker) {
	nightCap := nightCapFor(w)
	tail := b.History.TailNightBlock[w.ID]

	for _, end := range b.dates {
		windowStart := end.AddDate(0, 0, -nightCap)

		priorCount := 0
		for _, d := range tail {
			if !d.Before(windowStart) && d.Before(b.StartDate) {
				priorCount++
			}
		}

		var terms []cpsolver.Term
		for d := windowStart; !d.After(end); d = d.AddDate(0, 0, 1) {
			if d.Before(b.StartDate) {
				continue
			}
			if nv, ok := b.nVarOrZero(w.ID, dateKey(d)); ok {
				terms = append(terms, cpsolver.Lit(nv))
			}
		}
		if terms == nil {
			continue
		}
		b.CP.AddLinearLE(terms, nightCap-priorCount)
	}
}

// addPostNightBlockRest is C7.2.
func (b *ModelBuilder) addPostNightBlockRest(i int, w *Worker) {
	for idx := 0; idx+2 < len(b.dates); idx++ {
		d0, d1, d2 := b.dates[idx], b.dates[idx+1], b.dates[idx+2]
		n0, ok0 := b.nVarOrZero(w.ID, dateKey(d0))
		n1, ok1 := b.nVarOrZero(w.ID, dateKey(d1))
		n2, ok2 := b.nVarOrZero(w.ID, dateKey(d2))
		if !ok0 || !ok1 || !ok2 {
			continue
		}

		after1 := d2.AddDate(0, 0, 1)
		after2 := d2.AddDate(0, 0, 2)

		condTerms := []cpsolver.Term{cpsolver.Lit(n0), cpsolver.Lit(n1), cpsolver.Lit(n2)}
		threshold := 3
		if n3, ok3 := b.nVarOrZero(w.ID, dateKey(after1)); ok3 {
			// ¬n[d2+1] contributes +1 to the condition only when n3 == 0:
			// encode via Scaled(n3,-1); the threshold stays at the count of
			// positive literals.
			condTerms = append(condTerms, cpsolver.Scaled(n3, -1))
			threshold = 3 // n0+n1+n2-n3 >= 3 only when n3==0 and the rest are 1
		}

		b.forbidShiftsOnDateConditional(w.ID, condTerms, threshold, after1)
		b.forbidShiftsOnDateConditional(w.ID, condTerms, threshold, after2)
	}

	// Prior-tail carryover: a block of >=3 nights ending just before the
	// horizon unconditionally forbids the first two horizon days that fall
	// within its 46h rest window.
	tail := b.History.TailNightBlock[w.ID]
	if TailBlockLength(tail) >= 3 {
		dprev, _ := TailBlockEnd(tail)
		for _, off := range []int{1, 2} {
			d := dprev.AddDate(0, 0, off)
			if d.Before(b.StartDate) {
				continue
			}
			b.forbidShiftsOnDate(i, d)
		}
	}
}

// addRollingNightCap is C7.3: a 13-week rolling cap of 35 worked nights,
// counting historical night assignments recorded in the canonical
// assignment table plus in-horizon night variables.
func (b *ModelBuilder) addRollingNightCap(i int, w *Worker) {
	gwStart := GlobalWeekOf(b.StartDate, b.OverallEpoch)
	gwEnd := GlobalWeekOf(b.HorizonEpoch.AddDate(0, 0, 7*b.Horizon-1), b.OverallEpoch)

	for win := gwStart - (rollingNightCapWindow - 1); win <= gwEnd; win++ {
		rangeStart, _ := GlobalWeekDateRange(win, b.OverallEpoch)
		_, rangeEnd := GlobalWeekDateRange(win+rollingNightCapWindow-1, b.OverallEpoch)

		priorNights := 0
		for dk, rows := range b.History.ByDate {
			d, err := time.Parse("2006-01-02", dk)
			if err != nil || d.Before(rangeStart) || d.After(rangeEnd) || !d.Before(b.StartDate) {
				continue
			}
			for _, p := range rows {
				if p.WorkerID == w.ID && p.IsNight {
					priorNights++
				}
			}
		}

		var terms []cpsolver.Term
		for _, s := range b.Shifts {
			if !s.IsNight {
				continue
			}
			if s.Date.Before(rangeStart) || s.Date.After(rangeEnd) {
				continue
			}
			terms = append(terms, cpsolver.Lit(b.X[s.ID][i]))
		}
		if terms == nil && priorNights == 0 {
			continue
		}
		b.CP.AddLinearLE(terms, rollingNightCap-priorNights)
	}
}

// addAgeNightRestriction is C7.4: workers aged 55 or over may not work
// nights, unless their night_policy is anything but forbidden (an explicit
// opt-in signal distinct from the NightOptIn field used by C7.1).
func (b *ModelBuilder) addAgeNightRestriction(i int, w *Worker) {
	if w.Age >= maxNightRestCap && w.NightPolicy == NightPolicyForbidden {
		b.forbidShiftsWhere(i, func(s ShiftInstance) bool { return s.IsNight })
	}
}

// addQualificationRule is C8.
func (b *ModelBuilder) addQualificationRule() {
	for i, w := range b.Workers {
		lvl, ok := w.Qualification.Min()
		if !ok {
			continue
		}
		for _, s := range b.Shifts {
			if lvl > s.RequiredQualification() {
				b.forbidShift(i, s.ID)
			}
		}
	}
}

// addNightPolicy is C9.
func (b *ModelBuilder) addNightPolicy() {
	for i, w := range b.Workers {
		switch w.NightPolicy {
		case NightPolicyForbidden:
			b.forbidShiftsWhere(i, func(s ShiftInstance) bool { return s.IsNight })
		case NightPolicyOnly:
			b.forbidShiftsWhere(i, func(s ShiftInstance) bool { return !s.IsNight })
		}
	}
}

// addPersonalRules is C10: dispatch to each worker's attached rules.
func (b *ModelBuilder) addPersonalRules() {
	for i := range b.Workers {
		w := &b.Workers[i]
		for _, rule := range w.Rules {
			rule.Apply(b, w)
		}
	}
}
