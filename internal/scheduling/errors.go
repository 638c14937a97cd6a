package scheduling

import "errors"

// Input-schema errors, returned by the Normalisers. These fail fast: the
// Model Builder is never invoked once normalisation has failed.
var (
	ErrEmptyTemplate           = errors.New("scheduling: weekly shift template has no plan rows")
	ErrInvalidHorizon          = errors.New("scheduling: horizon length must be positive")
	ErrInvalidShiftTimes       = errors.New("scheduling: shift duration must be positive")
	ErrMissingWorkerID         = errors.New("scheduling: worker row is missing an id")
	ErrInvalidQualification    = errors.New("scheduling: worker qualification set is empty")
	ErrWorkerExcludedByPolicy  = errors.New("scheduling: worker excluded by qualification or do-not-schedule flag")
	ErrUnknownConstantShift    = errors.New("scheduling: constant schedule references an unknown KOK/FM shift")
	ErrUnknownWeekday          = errors.New("scheduling: unrecognised weekday name")
)
