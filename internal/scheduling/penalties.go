package scheduling

import "github.com/Jagovanlieshout/Hoevelaken-autorooster/internal/cpsolver"

// Penalty weights, as specified verbatim in spec §4.6.3.
const (
	weightUncovered             = 10.0
	weightUncoveredHalfFactor   = 0.5
	weightUnderCoverageStandard = 0.005
	weightUnderCoverageWeekend  = 0.001
	weightConsecutiveWeekend    = 5.0
	weightIsolatedShift         = 1.0
	weightPostNightRest         = 0.5
	weightShiftTypeSkew         = 0.1
	weightWeeklyBalance         = 0.1
	weightOtherNightPolicy      = 1.0
	weightPreferredShiftBonus   = 0.1
	weightQualificationOverMatch = 0.1
)

// halfWeightShiftNames carries the 0.5 coverage-penalty factor for D4/A3.
var halfWeightShiftNames = map[string]bool{"D4": true, "A3": true}

// squareVar introduces a new variable equal to v*v, with an upper bound of
// ub*ub (v is assumed to range over [0, ub]).
func (b *ModelBuilder) squareVar(v cpsolver.VarID, ub int) cpsolver.VarID {
	sq := b.CP.NewIntVar(0, ub*ub, "sq")
	b.CP.AddMultiplicationEquality(sq, v, v)
	return sq
}

// addUncoveredPenalty is P1.
func (b *ModelBuilder) addUncoveredPenalty() {
	for _, s := range b.Shifts {
		factor := 1.0
		if halfWeightShiftNames[s.Name] {
			factor = weightUncoveredHalfFactor
		}
		b.CP.AddObjectiveTerm(weightUncovered*factor, b.U[s.ID])
	}
}

// addUnderCoveragePenalty is P2 and P3: under[e] absorbs the shortfall below
// the worker's horizon-averaged contract target, penalised quadratically.
func (b *ModelBuilder) addUnderCoveragePenalty() {
	for i, w := range b.Workers {
		bound := w.ContractMinutes * b.Horizon
		if bound <= 0 {
			continue
		}
		under := b.CP.NewIntVar(0, bound, "under_"+w.ID)

		terms := make([]cpsolver.Term, 0, len(b.Shifts)+1)
		for _, s := range b.Shifts {
			terms = append(terms, cpsolver.Scaled(b.X[s.ID][i], s.DurationMin))
		}
		terms = append(terms, cpsolver.Lit(under))
		b.CP.AddLinearGE(terms, bound)

		sq := b.squareVar(under, bound)
		weight := weightUnderCoverageStandard
		if w.WeekendPreference == WeekendPreferencePrefers {
			weight = weightUnderCoverageWeekend
		}
		b.CP.AddObjectiveTerm(weight, sq)
	}
}

// addConsecutiveWeekendPenalty is P4, skipping weekend-preference workers.
func (b *ModelBuilder) addConsecutiveWeekendPenalty() {
	for _, w := range b.Workers {
		if w.WeekendPreference == WeekendPreferencePrefers {
			continue
		}
		for week := 1; week < b.Horizon; week++ {
			wwThis, ok1 := b.wwVar[wwKey(w.ID, week)]
			wwNext, ok2 := b.wwVar[wwKey(w.ID, week+1)]
			if !ok1 || !ok2 {
				continue
			}
			both := b.andBool(wwThis, wwNext)
			b.CP.AddObjectiveTerm(weightConsecutiveWeekend, both)
		}
		if len(b.History.WeekendWorkedPrecedingWeek[w.ID]) > 0 {
			if wwFirst, ok := b.wwVar[wwKey(w.ID, 1)]; ok {
				b.CP.AddObjectiveTerm(weightConsecutiveWeekend, wwFirst)
			}
		}
	}
}

// addIsolatedShiftPenalty is P5.
func (b *ModelBuilder) addIsolatedShiftPenalty() {
	priorDayKey := dateKey(b.StartDate.AddDate(0, 0, -1))
	for _, w := range b.Workers {
		for idx, d := range b.dates {
			wv, ok := b.wVarOrZero(w.ID, dateKey(d))
			if !ok {
				continue
			}
			if idx == 0 {
				if last, ok := b.History.LastWorkedDate[w.ID]; ok && dateKey(last) == priorDayKey {
					continue // isolation cancelled: the worker carried a run into the horizon
				}
			}

			isolated := wv
			if idx > 0 {
				if wPrev, ok := b.wVarOrZero(w.ID, dateKey(b.dates[idx-1])); ok {
					isolated = b.andBool(isolated, b.notBool(wPrev))
				}
			}
			if idx+1 < len(b.dates) {
				if wNext, ok := b.wVarOrZero(w.ID, dateKey(b.dates[idx+1])); ok {
					isolated = b.andBool(isolated, b.notBool(wNext))
				}
			}
			b.CP.AddObjectiveTerm(weightIsolatedShift, isolated)
		}
	}
}

// addPostNightRestPenalty is P6: a heuristic nudge against working either of
// the two days following the end of a night block, distinct from C7.2's
// hard 46h-rest rule which only fires after a block of >=3 nights.
func (b *ModelBuilder) addPostNightRestPenalty() {
	for _, w := range b.Workers {
		for idx, d := range b.dates {
			nv, ok := b.nVarOrZero(w.ID, dateKey(d))
			if !ok {
				continue
			}
			blockEnd := nv
			if idx+1 < len(b.dates) {
				if nNext, ok := b.nVarOrZero(w.ID, dateKey(b.dates[idx+1])); ok {
					blockEnd = b.andBool(nv, b.notBool(nNext))
				}
			}
			for _, offset := range []int{1, 2} {
				if idx+offset >= len(b.dates) {
					continue
				}
				wv, ok := b.wVarOrZero(w.ID, dateKey(b.dates[idx+offset]))
				if !ok {
					continue
				}
				worksAfter := b.andBool(blockEnd, wv)
				b.CP.AddObjectiveTerm(weightPostNightRest, worksAfter)
			}
		}
	}
}

// addShiftTypeDistributionPenalty is P7.
func (b *ModelBuilder) addShiftTypeDistributionPenalty() {
	for _, w := range b.Workers {
		maxc := b.maxcVar[w.ID]
		total := b.totalVar[w.ID]
		skewed := b.gtZeroBool([]cpsolver.Term{cpsolver.Scaled(maxc, 2), cpsolver.Scaled(total, -1)})
		b.CP.AddObjectiveTerm(weightShiftTypeSkew, skewed)
	}
}

// addWeeklyBalancePenalty is P8, excluding the 7-on/7-off pattern worker.
func (b *ModelBuilder) addWeeklyBalancePenalty() {
	for i, w := range b.Workers {
		if w.HasRuleExcludingWeeklyBalance() {
			continue
		}
		total := b.totalVar[w.ID]
		devBound := 7 * b.Horizon

		for week := 1; week <= b.Horizon; week++ {
			shifts := b.shiftsByWeek[week]
			if len(shifts) == 0 {
				continue
			}
			countWeek := b.CP.NewIntVar(0, 7, "countweek_"+w.ID+"_"+itoa(week))
			terms := make([]cpsolver.Term, 0, len(shifts)+1)
			for _, s := range shifts {
				terms = append(terms, cpsolver.Lit(b.X[s.ID][i]))
			}
			terms = append(terms, cpsolver.Scaled(countWeek, -1))
			b.CP.AddLinearEQ(terms, 0)

			devPlus := b.CP.NewIntVar(0, devBound, "devplus_"+w.ID+"_"+itoa(week))
			devMinus := b.CP.NewIntVar(0, devBound, "devminus_"+w.ID+"_"+itoa(week))
			b.CP.AddLinearEQ([]cpsolver.Term{
				cpsolver.Scaled(countWeek, b.Horizon),
				cpsolver.Scaled(total, -1),
				cpsolver.Scaled(devPlus, -1),
				cpsolver.Scaled(devMinus, 1),
			}, 0)

			absDev := b.CP.NewIntVar(0, 2*devBound, "absdev_"+w.ID+"_"+itoa(week))
			b.CP.AddLinearEQ([]cpsolver.Term{cpsolver.Lit(absDev), cpsolver.Scaled(devPlus, -1), cpsolver.Scaled(devMinus, -1)}, 0)

			sq := b.squareVar(absDev, 2*devBound)
			b.CP.AddObjectiveTerm(weightWeeklyBalance, sq)
		}
	}
}

// addOtherNightPenalty is P9 (penalty) and P9' (preferred-shift bonus).
func (b *ModelBuilder) addOtherNightPenalty() {
	for i, w := range b.Workers {
		if w.NightPolicy == NightPolicyOther {
			for _, s := range b.Shifts {
				if s.IsNight {
					b.CP.AddObjectiveTerm(weightOtherNightPolicy, b.X[s.ID][i])
				}
			}
		}
	}

	for _, pref := range AvailablePreferences(b.Preferences) {
		i, ok := b.workerIndex[pref.WorkerID]
		if !ok {
			continue
		}
		for _, s := range b.shiftsByDate[dateKey(pref.Date)] {
			b.CP.AddObjectiveTerm(-weightPreferredShiftBonus, b.X[s.ID][i])
		}
	}
}

// addQualificationOverMatchPenalty is P10.
func (b *ModelBuilder) addQualificationOverMatchPenalty() {
	for i, w := range b.Workers {
		maxQual, ok := w.Qualification.Max()
		if !ok {
			continue
		}
		lvl, _ := w.Qualification.Min()
		for _, s := range b.Shifts {
			req := s.RequiredQualification()
			if lvl > req {
				continue // forbidden by C8, never contributes
			}
			d := req - maxQual
			if d <= 0 {
				continue
			}
			b.CP.AddObjectiveTerm(weightQualificationOverMatch*float64(d*d), b.X[s.ID][i])
		}
	}
}
