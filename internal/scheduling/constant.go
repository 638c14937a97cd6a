package scheduling

import (
	"strings"
	"time"
)

// IntegrateConstantSchedule converts fixed recurring assignments into hard
// full-day unavailabilities on all other shifts and deducts their minute
// total from the worker's contract budget (spec §4.4). It returns a new
// worker slice (workers are otherwise immutable) and the synthesised
// unavailability entries.
func IntegrateConstantSchedule(rows []ConstantShiftRow, catalogue []TemplateRow, workers []Worker, horizonEpoch time.Time) ([]Worker, []UnavailabilityEntry, error) {
	catalogueByName := make(map[string]TemplateRow, len(catalogue))
	for _, c := range catalogue {
		catalogueByName[c.Name] = c
	}

	byID := make(map[string]int, len(workers))
	out := make([]Worker, len(workers))
	copy(out, workers)
	for i, w := range out {
		byID[w.ID] = i
	}

	var entries []UnavailabilityEntry
	for _, row := range rows {
		idx, ok := byID[row.WorkerID]
		if !ok {
			continue // constant-schedule row for a worker outside the pool
		}
		weekday, ok := WeekdayIndex[strings.ToLower(row.WeekdayName)]
		if !ok {
			return nil, nil, ErrUnknownWeekday
		}
		shift, ok := catalogueByName[row.ShiftName]
		if !ok {
			return nil, nil, ErrUnknownConstantShift
		}

		date := horizonEpoch.AddDate(0, 0, 7*(row.WeekIndex-1)+weekday)
		entries = append(entries, UnavailabilityEntry{
			WorkerID: row.WorkerID,
			Date:     date,
			Kind:     UnavailabilityConstantSchedule,
		})

		dur := durationMinutes(shift.StartTime, shift.EndTime)
		out[idx].ContractMinutes -= dur
	}

	return out, entries, nil
}
