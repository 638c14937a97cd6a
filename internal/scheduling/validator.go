package scheduling

import (
	"fmt"
	"sort"
	"time"
)

// Violation is one independently-detected hard-constraint breach.
type Violation struct {
	Code     string // "C1".."C7.4"
	WorkerID string // empty when the violation is shift-level, not worker-level
	ShiftID  int
	Detail   string
}

func (v Violation) String() string {
	if v.WorkerID == "" {
		return fmt.Sprintf("%s: shift %d: %s", v.Code, v.ShiftID, v.Detail)
	}
	return fmt.Sprintf("%s: worker %s: %s", v.Code, v.WorkerID, v.Detail)
}

// Validate re-derives assignment-by-date and assignment-by-week indices
// from scratch out of the flat assignment list and re-checks C1, C2, C3,
// C4, C5, C6, C7.1, C7.2, C7.3 and C7.4 (spec §4.8). It deliberately does
// not reuse the Model Builder's indices: it exists to catch a defect in
// the builder itself, not to restate its assumptions. An empty result
// means accept.
func Validate(assignments []Assignment, workers []Worker, horizonWeeks int, startDate, overallEpoch time.Time, exclusions ExclusionSet, history HistoryIndex) []Violation {
	var violations []Violation

	workerByID := make(map[string]Worker, len(workers))
	for _, w := range workers {
		workerByID[w.ID] = w
	}

	byWorkerDate := make(map[string]map[string]ShiftInstance)
	byWorkerWeek := make(map[string]map[int][]ShiftInstance)
	durationByWorker := make(map[string]int)

	for _, a := range assignments {
		// C1 consistency: the two coverage fields must agree.
		if a.ShiftFilled != (a.WorkerID != nil) {
			violations = append(violations, Violation{Code: "C1", ShiftID: a.Shift.ID, Detail: "shift_filled disagrees with worker_id presence"})
		}
		if a.WorkerID == nil {
			continue
		}
		id := *a.WorkerID
		if _, known := workerByID[id]; !known {
			violations = append(violations, Violation{Code: "C1", ShiftID: a.Shift.ID, WorkerID: id, Detail: "assigned to an unknown worker id"})
			continue
		}

		dk := dateKey(a.Shift.Date)
		if byWorkerDate[id] == nil {
			byWorkerDate[id] = make(map[string]ShiftInstance)
		}
		if existing, clash := byWorkerDate[id][dk]; clash && existing.ID != a.Shift.ID {
			violations = append(violations, Violation{Code: "C2", WorkerID: id, ShiftID: a.Shift.ID, Detail: "more than one shift assigned on " + dk})
		}
		byWorkerDate[id][dk] = a.Shift

		if byWorkerWeek[id] == nil {
			byWorkerWeek[id] = make(map[int][]ShiftInstance)
		}
		byWorkerWeek[id][a.Shift.Week] = append(byWorkerWeek[id][a.Shift.Week], a.Shift)

		durationByWorker[id] += a.Shift.DurationMin

		if exclusions.Excludes(id, a.Shift.ID) {
			violations = append(violations, Violation{Code: "C6", WorkerID: id, ShiftID: a.Shift.ID, Detail: "assigned despite a recorded unavailability"})
		}
	}

	// C3: no day/evening immediately after a worked night.
	for id, dates := range byWorkerDate {
		for dk, shift := range dates {
			if !shift.IsNight {
				continue
			}
			next := shift.Date.AddDate(0, 0, 1)
			if nextShift, ok := dates[dateKey(next)]; ok && !nextShift.IsNight {
				violations = append(violations, Violation{Code: "C3", WorkerID: id, ShiftID: nextShift.ID, Detail: "worked " + dk + "'s night then a non-night the next day"})
			}
		}
	}

	// C4: weekly day cap.
	for id, weeks := range byWorkerWeek {
		w := workerByID[id]
		for week, shifts := range weeks {
			if len(shifts) > w.MaxDaysPerWeek {
				violations = append(violations, Violation{Code: "C4", WorkerID: id, Detail: fmt.Sprintf("week %d: %d shifts exceeds cap %d", week, len(shifts), w.MaxDaysPerWeek)})
			}
		}
	}

	// C5: horizon-averaged contract budget.
	for id, minutes := range durationByWorker {
		w := workerByID[id]
		if budget := w.ContractMinutes * horizonWeeks; minutes > budget {
			violations = append(violations, Violation{Code: "C5", WorkerID: id, Detail: fmt.Sprintf("%d minutes exceeds horizon budget %d", minutes, budget)})
		}
	}

	// C7: night rules, derived from each worker's night dates (assigned +
	// prior tail) independently of the Model Builder's n[e,d] variables.
	for id, w := range workerByID {
		nightDates := make(map[string]bool)
		for dk, shift := range byWorkerDate[id] {
			if shift.IsNight {
				nightDates[dk] = true
			}
		}
		validateConsecutiveNights(&violations, id, &w, nightDates, history, startDate)
		validatePostNightRest(&violations, id, byWorkerDate[id], nightDates, history, startDate)
		validateRollingNightCap(&violations, id, nightDates, history, overallEpoch, startDate, horizonWeeks)
		if w.Age >= maxNightRestCap && w.NightPolicy == NightPolicyForbidden {
			for dk := range nightDates {
				if !dk2IsBeforeStart(dk, startDate) {
					violations = append(violations, Violation{Code: "C7.4", WorkerID: id, Detail: "worked a night at or past the age-55 restriction"})
				}
			}
		}
	}

	return violations
}

func dk2IsBeforeStart(dk string, start time.Time) bool {
	t, err := time.Parse("2006-01-02", dk)
	if err != nil {
		return false
	}
	return t.Before(truncateToDate(start))
}

func validateConsecutiveNights(violations *[]Violation, workerID string, w *Worker, nightDates map[string]bool, history HistoryIndex, startDate time.Time) {
	cap := nightCapFor(w)
	tail := history.TailNightBlock[workerID]

	all := make(map[string]bool, len(nightDates))
	for k := range nightDates {
		all[k] = true
	}
	for _, d := range tail {
		all[dateKey(d)] = true
	}

	dates := make([]time.Time, 0, len(all))
	for k := range all {
		t, err := time.Parse("2006-01-02", k)
		if err == nil {
			dates = append(dates, t)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	for _, end := range dates {
		windowStart := end.AddDate(0, 0, -cap)
		count := 0
		for _, d := range dates {
			if !d.Before(windowStart) && !d.After(end) {
				count++
			}
		}
		if count > cap {
			*violations = append(*violations, Violation{Code: "C7.1", WorkerID: workerID, Detail: fmt.Sprintf("%d worked nights in the window ending %s exceeds cap %d", count, dateKey(end), cap)})
			return
		}
	}
}

func validatePostNightRest(violations *[]Violation, workerID string, byDate map[string]ShiftInstance, nightDates map[string]bool, history HistoryIndex, startDate time.Time) {
	tail := history.TailNightBlock[workerID]
	if TailBlockLength(tail) >= 3 {
		dprev, _ := TailBlockEnd(tail)
		for _, off := range []int{1, 2} {
			if _, worked := byDate[dateKey(dprev.AddDate(0, 0, off))]; worked {
				*violations = append(*violations, Violation{Code: "C7.2", WorkerID: workerID, Detail: "worked within 46h of a prior-tail night block"})
			}
		}
	}

	for dk := range nightDates {
		d, err := time.Parse("2006-01-02", dk)
		if err != nil {
			continue
		}
		d1, d2 := d.AddDate(0, 0, 1), d.AddDate(0, 0, 2)
		if !nightDates[dateKey(d1)] {
			continue
		}
		if !nightDates[dateKey(d2)] {
			continue
		}
		after1, after2 := d2.AddDate(0, 0, 1), d2.AddDate(0, 0, 2)
		if _, worked := byDate[dateKey(after1)]; worked {
			*violations = append(*violations, Violation{Code: "C7.2", WorkerID: workerID, Detail: "worked the day after a 3-night block"})
		}
		if _, worked := byDate[dateKey(after2)]; worked {
			*violations = append(*violations, Violation{Code: "C7.2", WorkerID: workerID, Detail: "worked two days after a 3-night block"})
		}
	}
}

func validateRollingNightCap(violations *[]Violation, workerID string, nightDates map[string]bool, history HistoryIndex, overallEpoch, startDate time.Time, horizonWeeks int) {
	horizonEpoch := MondayOnOrBefore(startDate)
	gwStart := GlobalWeekOf(startDate, overallEpoch)
	gwEnd := GlobalWeekOf(horizonEpoch.AddDate(0, 0, 7*horizonWeeks-1), overallEpoch)

	for win := gwStart - (rollingNightCapWindow - 1); win <= gwEnd; win++ {
		rangeStart, _ := GlobalWeekDateRange(win, overallEpoch)
		_, rangeEnd := GlobalWeekDateRange(win+rollingNightCapWindow-1, overallEpoch)

		count := 0
		for dk := range nightDates {
			d, err := time.Parse("2006-01-02", dk)
			if err != nil || d.Before(rangeStart) || d.After(rangeEnd) {
				continue
			}
			count++
		}
		for dk, rows := range history.ByDate {
			d, err := time.Parse("2006-01-02", dk)
			if err != nil || d.Before(rangeStart) || d.After(rangeEnd) || !d.Before(startDate) {
				continue
			}
			for _, p := range rows {
				if p.WorkerID == workerID && p.IsNight && !nightDates[dk] {
					count++
				}
			}
		}
		if count > rollingNightCap {
			*violations = append(*violations, Violation{Code: "C7.3", WorkerID: workerID, Detail: fmt.Sprintf("%d nights in the 13-week window starting %s exceeds cap %d", count, dateKey(rangeStart), rollingNightCap)})
		}
	}
}
