package scheduling

import "time"

// minutesPerHour mirrors the hour-to-minute conversion the teacher's
// timeutil package performs for clock times, applied here to contract hours.
const minutesPerHour = 60

// imputedHoursPerDay is used to impute a missing weekly-hours figure as
// max_days_per_week * imputedHoursPerDay hours (spec §3).
const imputedHoursPerDay = 9

// excludedQualificationCodes marks workers unconditionally excluded from
// the pool regardless of any other field.
var excludedQualificationCodes = map[Qualification]bool{5: true, 6: true}

// RawWorker is the normaliser's input shape, one row per spec §6's
// Workers table.
type RawWorker struct {
	WorkerID          string
	Name              string
	Qualification     []Qualification
	HireDate          time.Time
	TerminationDate   *time.Time
	BirthDate         time.Time
	WeeklyContractHrs float64 // 0 means "impute", unless OnCall is true
	OnCall            bool
	MaxDaysPerWeek    int
	PreferencesRaw    string // comma-separated day/evening/night tokens
	PatternLength     *int
	MinConsecutive    *int
	MaxConsecutive    *int
	MinRestAfterBlock *int
	NightPolicy       NightPolicy
	WeekendPreference WeekendPreference
	NightOptIn        bool
	DoNotSchedule     bool
	Rules             []PersonalRule
}

func ageAt(birthDate, reference time.Time) int {
	years := reference.Year() - birthDate.Year()
	if reference.Month() < birthDate.Month() ||
		(reference.Month() == birthDate.Month() && reference.Day() < birthDate.Day()) {
		years--
	}
	return years
}

func parsePreferences(raw string) DayPreference {
	pref := DayPreference{}
	token := ""
	flush := func() {
		switch token {
		case "day":
			pref.Day = true
		case "evening":
			pref.Evening = true
		case "night":
			pref.Night = true
		}
		token = ""
	}
	for _, r := range raw {
		if r == ',' {
			flush()
			continue
		}
		if r == ' ' {
			continue
		}
		token += string(r)
	}
	flush()
	return pref
}

// NormaliseWorkers applies the derivations of spec §3 and returns the
// immutable worker table together with the pool id order (the order the
// surviving workers were supplied in).
func NormaliseWorkers(raw []RawWorker, referenceDate time.Time) ([]Worker, []string, error) {
	workers := make([]Worker, 0, len(raw))
	ids := make([]string, 0, len(raw))

	for _, r := range raw {
		if r.WorkerID == "" {
			return nil, nil, ErrMissingWorkerID
		}
		if r.DoNotSchedule {
			continue
		}
		if len(r.Qualification) == 0 {
			return nil, nil, ErrInvalidQualification
		}

		excluded := false
		for _, q := range r.Qualification {
			if excludedQualificationCodes[q] {
				excluded = true
				break
			}
		}
		if excluded {
			continue
		}

		qualSet := NewQualificationSet(r.Qualification...)
		if qualSet.Has(7) {
			qualSet[3] = struct{}{}
		}

		contractMinutes := 0
		if !r.OnCall {
			if r.WeeklyContractHrs == 0 {
				contractMinutes = r.MaxDaysPerWeek * imputedHoursPerDay * minutesPerHour
			} else {
				contractMinutes = int(r.WeeklyContractHrs*minutesPerHour + 0.5)
			}
		}

		w := Worker{
			ID:                r.WorkerID,
			ContractMinutes:   contractMinutes,
			MaxDaysPerWeek:    r.MaxDaysPerWeek,
			Age:               ageAt(r.BirthDate, referenceDate),
			Qualification:     qualSet,
			NightPolicy:       r.NightPolicy,
			WeekendPreference: r.WeekendPreference,
			PatternLength:     r.PatternLength,
			DayPreference:     parsePreferences(r.PreferencesRaw),
			MinConsecutive:    r.MinConsecutive,
			MaxConsecutive:    r.MaxConsecutive,
			MinRestAfterBlock: r.MinRestAfterBlock,
			NightOptIn:        r.NightOptIn,
			Rules:             r.Rules,
		}
		workers = append(workers, w)
		ids = append(ids, w.ID)
	}

	return workers, ids, nil
}
