package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Jagovanlieshout/Hoevelaken-autorooster/internal/scheduling"
	"github.com/Jagovanlieshout/Hoevelaken-autorooster/internal/service"
	"github.com/Jagovanlieshout/Hoevelaken-autorooster/internal/timeutil"
)

// RosterHandler exposes the scheduling core over HTTP.
type RosterHandler struct {
	rosterService *service.RosterService
}

// NewRosterHandler builds a RosterHandler.
func NewRosterHandler(rosterService *service.RosterService) *RosterHandler {
	return &RosterHandler{rosterService: rosterService}
}

// templateRowRequest mirrors scheduling.TemplateRow. Weekday cells are the
// literal "yes" / "facultative" / "no" tokens scheduling.TemplateCell uses.
type templateRowRequest struct {
	Name          string    `json:"name"`
	Action        string    `json:"action"`
	StartTime     string    `json:"start_time"` // "HH:MM"
	EndTime       string    `json:"end_time"`   // "HH:MM"; <= start_time means the shift crosses midnight
	Qualification []int     `json:"qualification"`
	Weekday       [7]string `json:"weekday"`
}

type rawWorkerRequest struct {
	WorkerID          string  `json:"worker_id"`
	Name              string  `json:"name"`
	Qualification     []int   `json:"qualification"`
	HireDate          string  `json:"hire_date"`
	TerminationDate   *string `json:"termination_date,omitempty"`
	BirthDate         string  `json:"birth_date"`
	WeeklyContractHrs float64 `json:"weekly_contract_hours"`
	OnCall            bool    `json:"on_call"`
	MaxDaysPerWeek    int     `json:"max_days_per_week"`
	PreferencesRaw    string  `json:"preferences"`
	PatternLength     *int    `json:"pattern_length,omitempty"`
	MinConsecutive    *int    `json:"min_consecutive,omitempty"`
	MaxConsecutive    *int    `json:"max_consecutive,omitempty"`
	MinRestAfterBlock *int    `json:"min_rest_after_block,omitempty"`
	NightPolicy       string  `json:"night_policy"`
	WeekendPreference string  `json:"weekend_preference"`
	NightOptIn        bool    `json:"night_opt_in"`
	DoNotSchedule     bool    `json:"do_not_schedule"`
	PersonalRules     []personalRuleRequest `json:"personal_rules,omitempty"`
}

type personalRuleRequest struct {
	Kind     string `json:"kind"`
	Weekdays []int  `json:"weekdays,omitempty"`
}

type priorAssignmentRequest struct {
	WorkerID string `json:"worker_id"`
	Date     string `json:"date"`
	IsNight  bool   `json:"is_night"`
}

type unavailabilityEntryRequest struct {
	WorkerID string `json:"worker_id"`
	Date     string `json:"date"`
	Kind     string `json:"kind"`
	FromTime *int   `json:"from_time,omitempty"`
	ToTime   *int   `json:"to_time,omitempty"`
}

type constantShiftRowRequest struct {
	WorkerID    string `json:"worker_id"`
	WeekIndex   int    `json:"week_index"`
	WeekdayName string `json:"weekday_name"`
	ShiftName   string `json:"shift_name"`
}

type createRosterRequest struct {
	TemplateRows          []templateRowRequest         `json:"template_rows"`
	Workers               []rawWorkerRequest            `json:"workers"`
	PriorAssignments      []priorAssignmentRequest      `json:"prior_assignments,omitempty"`
	UnavailabilityEntries []unavailabilityEntryRequest  `json:"unavailability_entries,omitempty"`
	ConstantScheduleRows  []constantShiftRowRequest     `json:"constant_schedule_rows,omitempty"`
	HorizonWeeks          int                            `json:"horizon_weeks"`
	ReferenceDate         string                         `json:"reference_date"`
}

const dateLayout = "2006-01-02"

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

func personalRuleFromRequest(r personalRuleRequest) (scheduling.PersonalRule, error) {
	switch r.Kind {
	case "nights_only":
		return scheduling.NightsOnlyRule{}, nil
	case "weekend_only":
		return scheduling.WeekendOnlyRule{}, nil
	case "friday_evening_or_weekend":
		return scheduling.FridayEveningOrWeekendRule{}, nil
	case "forbidden_weekdays":
		return scheduling.ForbiddenWeekdaysRule{Weekdays: r.Weekdays}, nil
	case "max_consecutive_with_rest":
		return scheduling.MaxConsecutiveWithRestRule{}, nil
	case "seven_on_seven_off_nights":
		return scheduling.SevenOnSevenOffNightsRule{}, nil
	case "max_per_week_types":
		return scheduling.MaxPerWeekTypesRule{}, nil
	default:
		return nil, fmt.Errorf("unknown personal rule kind %q", r.Kind)
	}
}

func (req createRosterRequest) toServiceRequest() (service.RosterRequest, error) {
	var out service.RosterRequest
	out.HorizonWeeks = req.HorizonWeeks

	ref, err := parseDate(req.ReferenceDate)
	if err != nil {
		return out, fmt.Errorf("reference_date: %w", err)
	}
	out.ReferenceDate = ref

	for _, row := range req.TemplateRows {
		start, err := timeutil.ParseTimeString(row.StartTime)
		if err != nil {
			return out, fmt.Errorf("template row %s: start_time: %w", row.Name, err)
		}
		end, err := timeutil.ParseTimeString(row.EndTime)
		if err != nil {
			return out, fmt.Errorf("template row %s: end_time: %w", row.Name, err)
		}
		tr := scheduling.TemplateRow{
			Name:          row.Name,
			Action:        row.Action,
			StartTime:     start,
			EndTime:       end,
			Qualification: scheduling.NewQualificationSet(row.Qualification...),
		}
		for i, c := range row.Weekday {
			tr.Weekday[i] = scheduling.TemplateCell(c)
		}
		out.TemplateRows = append(out.TemplateRows, tr)
	}

	for _, rw := range req.Workers {
		hire, err := parseDate(rw.HireDate)
		if err != nil {
			return out, fmt.Errorf("worker %s: hire_date: %w", rw.WorkerID, err)
		}
		birth, err := parseDate(rw.BirthDate)
		if err != nil {
			return out, fmt.Errorf("worker %s: birth_date: %w", rw.WorkerID, err)
		}
		var termination *time.Time
		if rw.TerminationDate != nil {
			t, err := parseDate(*rw.TerminationDate)
			if err != nil {
				return out, fmt.Errorf("worker %s: termination_date: %w", rw.WorkerID, err)
			}
			termination = &t
		}

		var rules []scheduling.PersonalRule
		for _, pr := range rw.PersonalRules {
			rule, err := personalRuleFromRequest(pr)
			if err != nil {
				return out, fmt.Errorf("worker %s: %w", rw.WorkerID, err)
			}
			rules = append(rules, rule)
		}

		out.RawWorkers = append(out.RawWorkers, scheduling.RawWorker{
			WorkerID:          rw.WorkerID,
			Name:              rw.Name,
			Qualification:     rw.Qualification,
			HireDate:          hire,
			TerminationDate:   termination,
			BirthDate:         birth,
			WeeklyContractHrs: rw.WeeklyContractHrs,
			OnCall:            rw.OnCall,
			MaxDaysPerWeek:    rw.MaxDaysPerWeek,
			PreferencesRaw:    rw.PreferencesRaw,
			PatternLength:     rw.PatternLength,
			MinConsecutive:    rw.MinConsecutive,
			MaxConsecutive:    rw.MaxConsecutive,
			MinRestAfterBlock: rw.MinRestAfterBlock,
			NightPolicy:       scheduling.NightPolicy(rw.NightPolicy),
			WeekendPreference: scheduling.WeekendPreference(rw.WeekendPreference),
			NightOptIn:        rw.NightOptIn,
			DoNotSchedule:     rw.DoNotSchedule,
			Rules:             rules,
		})
	}

	for _, pa := range req.PriorAssignments {
		d, err := parseDate(pa.Date)
		if err != nil {
			return out, fmt.Errorf("prior assignment %s: date: %w", pa.WorkerID, err)
		}
		out.PriorAssignments = append(out.PriorAssignments, scheduling.PriorAssignment{
			WorkerID: pa.WorkerID,
			Date:     d,
			IsNight:  pa.IsNight,
		})
	}

	for _, ue := range req.UnavailabilityEntries {
		d, err := parseDate(ue.Date)
		if err != nil {
			return out, fmt.Errorf("unavailability entry %s: date: %w", ue.WorkerID, err)
		}
		out.UnavailabilityEntries = append(out.UnavailabilityEntries, scheduling.UnavailabilityEntry{
			WorkerID: ue.WorkerID,
			Date:     d,
			Kind:     scheduling.UnavailabilityKind(ue.Kind),
			FromTime: ue.FromTime,
			ToTime:   ue.ToTime,
		})
	}

	for _, cs := range req.ConstantScheduleRows {
		out.ConstantScheduleRows = append(out.ConstantScheduleRows, scheduling.ConstantShiftRow{
			WorkerID:    cs.WorkerID,
			WeekIndex:   cs.WeekIndex,
			WeekdayName: cs.WeekdayName,
			ShiftName:   cs.ShiftName,
		})
	}

	return out, nil
}

// Create accepts the raw tables described by spec §3, runs the pipeline
// synchronously, and returns the persisted run.
func (h *RosterHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRosterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if req.HorizonWeeks <= 0 {
		respondError(w, http.StatusBadRequest, "horizon_weeks must be positive")
		return
	}

	svcReq, err := req.toServiceRequest()
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	outcome, err := h.rosterService.Run(r.Context(), svcReq)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"run_id":      outcome.Run.ID,
		"status":      outcome.Run.Status,
		"objective":   outcome.Run.Objective,
		"violations":  outcome.Violations,
		"assignments": outcome.Result.Assignments,
	})
}

// Get returns a previously persisted roster run.
func (h *RosterHandler) Get(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid run id")
		return
	}

	run, err := h.rosterService.Get(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusNotFound, "roster run not found")
		return
	}
	respondJSON(w, http.StatusOK, run)
}
