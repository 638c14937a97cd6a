package scheduling

import (
	"sort"
	"time"
)

// fabricatedHistoryWeeks is the length of the blank pseudo-history
// synthesised when no real prior assignments are supplied, so the global
// week epoch is always anchored to "4 weeks before the first horizon",
// giving downstream code a uniform shape regardless of whether real
// history exists (spec §4.2).
const fabricatedHistoryWeeks = 4

// HistoryIndex is the canonicalised, per-worker view of prior assignments
// the Model Builder needs for continuity with the tail of a previous run.
type HistoryIndex struct {
	ByDate map[string][]PriorAssignment

	// TailWorkBlock is, per worker, the longest suffix of consecutive
	// calendar days (ascending) on which the worker was assigned any shift.
	TailWorkBlock map[string][]time.Time
	// TailNightBlock is the same, restricted to night shifts.
	TailNightBlock map[string][]time.Time
	// WeekendWorkedPrecedingWeek lists, per worker, the weekend dates
	// worked in the calendar week immediately preceding the horizon.
	WeekendWorkedPrecedingWeek map[string][]time.Time
	// LastWorkedDate is, per worker, their most recent prior assignment date.
	LastWorkedDate map[string]time.Time

	// LastPriorDate is the latest date across all workers' prior
	// assignments, or nil if there is no history.
	LastPriorDate *time.Time
	// Fabricated is true when no real history was supplied and an empty
	// pseudo-history was synthesised instead.
	Fabricated bool
}

func dateKey(t time.Time) string { return truncateToDate(t).Format("2006-01-02") }

// LatestPriorDate returns the most recent date across prior, or nil if empty.
func LatestPriorDate(prior []PriorAssignment) *time.Time {
	if len(prior) == 0 {
		return nil
	}
	latest := truncateToDate(prior[0].Date)
	for _, p := range prior[1:] {
		if d := truncateToDate(p.Date); d.After(latest) {
			latest = d
		}
	}
	return &latest
}

// OverallEpoch returns the global-week epoch: the Monday on or before the
// first prior date if history exists, else the Monday on or before a
// fabricated date fabricatedHistoryWeeks weeks before horizonEpoch.
func OverallEpoch(prior []PriorAssignment, horizonEpoch time.Time) time.Time {
	if len(prior) == 0 {
		return horizonEpoch.AddDate(0, 0, -7*fabricatedHistoryWeeks)
	}
	earliest := truncateToDate(prior[0].Date)
	for _, p := range prior[1:] {
		if d := truncateToDate(p.Date); d.Before(earliest) {
			earliest = d
		}
	}
	return MondayOnOrBefore(earliest)
}

// NormaliseHistory canonicalises prior assignments relative to the
// horizon's Monday epoch (the Monday on/before the computed start date).
func NormaliseHistory(prior []PriorAssignment, horizonEpoch time.Time) HistoryIndex {
	idx := HistoryIndex{
		ByDate:                     make(map[string][]PriorAssignment),
		TailWorkBlock:              make(map[string][]time.Time),
		TailNightBlock:             make(map[string][]time.Time),
		WeekendWorkedPrecedingWeek: make(map[string][]time.Time),
		LastWorkedDate:             make(map[string]time.Time),
	}
	if len(prior) == 0 {
		idx.Fabricated = true
		return idx
	}

	byWorkerDates := make(map[string]map[string]bool)
	byWorkerNightDates := make(map[string]map[string]bool)

	for _, p := range prior {
		d := truncateToDate(p.Date)
		key := dateKey(d)
		idx.ByDate[key] = append(idx.ByDate[key], p)

		if byWorkerDates[p.WorkerID] == nil {
			byWorkerDates[p.WorkerID] = make(map[string]bool)
		}
		byWorkerDates[p.WorkerID][key] = true
		if p.IsNight {
			if byWorkerNightDates[p.WorkerID] == nil {
				byWorkerNightDates[p.WorkerID] = make(map[string]bool)
			}
			byWorkerNightDates[p.WorkerID][key] = true
		}

		if last, ok := idx.LastWorkedDate[p.WorkerID]; !ok || d.After(last) {
			idx.LastWorkedDate[p.WorkerID] = d
		}
	}

	idx.LastPriorDate = LatestPriorDate(prior)

	precedingWeekStart := horizonEpoch.AddDate(0, 0, -7)
	precedingWeekEnd := horizonEpoch.AddDate(0, 0, -1)

	for worker, dates := range byWorkerDates {
		idx.TailWorkBlock[worker] = tailConsecutiveBlock(dates)
		for d := precedingWeekStart; !d.After(precedingWeekEnd); d = d.AddDate(0, 0, 1) {
			if dow := dayOfWeekOf(d); dow == 5 || dow == 6 {
				if dates[dateKey(d)] {
					idx.WeekendWorkedPrecedingWeek[worker] = append(idx.WeekendWorkedPrecedingWeek[worker], d)
				}
			}
		}
	}
	for worker, dates := range byWorkerNightDates {
		idx.TailNightBlock[worker] = tailConsecutiveBlock(dates)
	}

	return idx
}

// tailConsecutiveBlock returns the longest suffix of consecutive calendar
// days present in dates (a set of "YYYY-MM-DD" keys), as ascending dates.
func tailConsecutiveBlock(dates map[string]bool) []time.Time {
	parsed := make([]time.Time, 0, len(dates))
	for k := range dates {
		t, err := time.Parse("2006-01-02", k)
		if err == nil {
			parsed = append(parsed, t)
		}
	}
	sort.Slice(parsed, func(i, j int) bool { return parsed[i].Before(parsed[j]) })
	if len(parsed) == 0 {
		return nil
	}
	end := len(parsed) - 1
	start := end
	for start > 0 && parsed[start-1].Equal(parsed[start].AddDate(0, 0, -1)) {
		start--
	}
	return parsed[start:]
}

// TailBlockLength returns the length of a tail block (0 if nil).
func TailBlockLength(block []time.Time) int { return len(block) }

// TailBlockEnd returns the last date of a tail block, and false if empty.
func TailBlockEnd(block []time.Time) (time.Time, bool) {
	if len(block) == 0 {
		return time.Time{}, false
	}
	return block[len(block)-1], true
}
