package scheduling

import "github.com/Jagovanlieshout/Hoevelaken-autorooster/internal/cpsolver"

func workerDateKey(workerID, dk string) string { return workerID + "|" + dk }
func wwKey(workerID string, week int) string {
	return workerID + "|" + itoa(week)
}
func countKey(workerID string, t ShiftType) string { return workerID + "|" + string(t) }

// itoa formats the small week and phase indices used in variable names and
// map keys without pulling in strconv.
func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// declareIndicatorVars reifies n[e,d], w[e,d] and ww[e,week] (spec §4.6.1).
// n[e,d] only exists for dates with at least one night shift; w[e,d] exists
// for every date that has any shift at all. Dates with neither are
// implicitly 0 and never referenced.
func (b *ModelBuilder) declareIndicatorVars() {
	for _, w := range b.Workers {
		for dk, shifts := range b.shiftsByDate {
			allVars := make([]cpsolver.VarID, 0, len(shifts))
			for _, s := range shifts {
				allVars = append(allVars, b.X[s.ID][b.workerIndex[w.ID]])
			}
			wv := b.CP.NewBoolVar("w_" + w.ID + "_" + dk)
			b.CP.AddReifiedOr(wv, allVars)
			b.wVar[workerDateKey(w.ID, dk)] = wv
		}
		for dk, nights := range b.nightShiftsByDate {
			nightVars := make([]cpsolver.VarID, 0, len(nights))
			for _, s := range nights {
				nightVars = append(nightVars, b.X[s.ID][b.workerIndex[w.ID]])
			}
			nv := b.CP.NewBoolVar("n_" + w.ID + "_" + dk)
			b.CP.AddReifiedOr(nv, nightVars)
			b.nVar[workerDateKey(w.ID, dk)] = nv
		}
		for week, shifts := range b.weekendShiftsByWeek {
			weekendVars := make([]cpsolver.VarID, 0, len(shifts))
			for _, s := range shifts {
				weekendVars = append(weekendVars, b.X[s.ID][b.workerIndex[w.ID]])
			}
			wwv := b.CP.NewBoolVar("ww_" + w.ID + "_" + itoa(week))
			b.CP.AddReifiedOr(wwv, weekendVars)
			b.wwVar[wwKey(w.ID, week)] = wwv
		}
	}
}

// nVarOrZero returns the reified night indicator for (worker,date), or the
// zero-VarID sentinel (ok=false) when no night shift exists that date.
func (b *ModelBuilder) nVarOrZero(workerID, dk string) (cpsolver.VarID, bool) {
	v, ok := b.nVar[workerDateKey(workerID, dk)]
	return v, ok
}

func (b *ModelBuilder) wVarOrZero(workerID, dk string) (cpsolver.VarID, bool) {
	v, ok := b.wVar[workerDateKey(workerID, dk)]
	return v, ok
}

// notBool returns a boolean variable forced to 1-v (v assumed boolean).
func (b *ModelBuilder) notBool(v cpsolver.VarID) cpsolver.VarID {
	nv := b.CP.NewBoolVar("not")
	b.CP.AddLinearEQ([]cpsolver.Term{cpsolver.Lit(nv), cpsolver.Lit(v)}, 1)
	return nv
}

// andBool returns a boolean variable forced to a*b (a,b assumed boolean).
func (b *ModelBuilder) andBool(a, c cpsolver.VarID) cpsolver.VarID {
	r := b.CP.NewBoolVar("and")
	b.CP.AddMultiplicationEquality(r, a, c)
	return r
}

// gtZeroBool returns a boolean variable forced to 1 whenever expr >= 1; it
// is a valid (cost-minimising) 0 whenever expr <= 0. expr must not exceed
// the model's Big-M in magnitude.
func (b *ModelBuilder) gtZeroBool(expr []cpsolver.Term) cpsolver.VarID {
	r := b.CP.NewBoolVar("gt0")
	terms := append(append([]cpsolver.Term(nil), expr...), cpsolver.Scaled(r, -b.CP.BigM()))
	b.CP.AddLinearLE(terms, 0)
	return r
}

// declareCounterVars builds count[e,t], total[e] and maxc[e] (spec §4.6.1).
func (b *ModelBuilder) declareCounterVars() {
	types := []ShiftType{ShiftTypeDay, ShiftTypeEvening, ShiftTypeNight, ShiftTypeOther}
	maxCount := len(b.Shifts)

	for _, w := range b.Workers {
		i := b.workerIndex[w.ID]
		typeVars := make([]cpsolver.VarID, 0, len(types))
		for _, t := range types {
			var terms []cpsolver.Term
			for _, s := range b.Shifts {
				if s.Type() == t {
					terms = append(terms, cpsolver.Lit(b.X[s.ID][i]))
				}
			}
			cv := b.CP.NewIntVar(0, maxCount, "count_"+w.ID+"_"+string(t))
			if terms == nil {
				b.CP.AddLinearEQ([]cpsolver.Term{cpsolver.Lit(cv)}, 0)
			} else {
				terms = append(terms, cpsolver.Scaled(cv, -1))
				b.CP.AddLinearEQ(terms, 0)
			}
			b.countVar[countKey(w.ID, t)] = cv
			typeVars = append(typeVars, cv)
		}

		total := b.CP.NewIntVar(0, maxCount, "total_"+w.ID)
		sumTerms := make([]cpsolver.Term, len(typeVars))
		for j, v := range typeVars {
			sumTerms[j] = cpsolver.Lit(v)
		}
		sumTerms = append(sumTerms, cpsolver.Scaled(total, -1))
		b.CP.AddLinearEQ(sumTerms, 0)
		b.totalVar[w.ID] = total

		maxc := b.CP.NewIntVar(0, maxCount, "maxc_"+w.ID)
		b.CP.AddMaxEquality(maxc, typeVars)
		b.maxcVar[w.ID] = maxc
	}
}
