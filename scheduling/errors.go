package scheduling

import "errors"

var (
	ErrInvalidInterval   = errors.New("end time must be after start time")
	ErrOverlapConflict   = errors.New("interval overlaps an existing entry")
	ErrNotAvailable      = errors.New("no availability window covers the requested interval")
	ErrSelfMeeting       = errors.New("cannot request a meeting with yourself")
	ErrNotFound          = errors.New("not found")
	ErrIllegalTransition = errors.New("illegal meeting state transition")
	ErrStoreUnavailable  = errors.New("store unavailable")
)
