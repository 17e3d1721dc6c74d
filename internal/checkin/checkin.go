package checkin

import (
	"errors"
	"time"
)

// StipendAmount is the fixed per-day credit a partner earns for a recorded
// check-in day.
const StipendAmount = 2200

var (
	ErrFutureDate       = errors.New("cannot check in for future dates")
	ErrAlreadyCheckedIn = errors.New("already checked in for this date")
)

// CheckIn is one stipend-earning day for a partner. Dates carry no time
// component.
type CheckIn struct {
	UserID   int64
	Username string
	Date     time.Time
}
