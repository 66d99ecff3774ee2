package appointment

import (
	"errors"
	"fmt"
	"time"
)

// Business hours: an appointment may start from 08:00 up to, but not
// including, 18:00 salon time. Only the start is constrained.
const (
	OpenHour  = 8
	CloseHour = 18
)

var (
	ErrInvalidWindow        = errors.New("invalid appointment time")
	ErrInPast               = fmt.Errorf("%w: cannot book a time in the past", ErrInvalidWindow)
	ErrTooFarFuture         = fmt.Errorf("%w: cannot book more than 1 year ahead", ErrInvalidWindow)
	ErrOutsideBusinessHours = fmt.Errorf("%w: business hours are 8h to 18h", ErrInvalidWindow)
)

// ValidateWindow checks a candidate start against the booking horizon and
// business hours. loc is the salon's zone; nil uses start's own location.
func ValidateWindow(start, now time.Time, loc *time.Location) error {
	if start.Before(now) {
		return ErrInPast
	}
	if start.After(now.AddDate(1, 0, 0)) {
		return ErrTooFarFuture
	}

	if loc == nil {
		loc = start.Location()
	}
	hour := start.In(loc).Hour()
	if hour < OpenHour || hour >= CloseHour {
		return ErrOutsideBusinessHours
	}
	return nil
}
