package appointment

import (
	"time"

	"github.com/google/uuid"
)

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) share an instant. Empty intervals overlap nothing, which
// matches Postgres range semantics used by the exclusion constraint.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	if !aStart.Before(aEnd) || !bStart.Before(bEnd) {
		return false
	}
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// OverlapsClosed is the older BETWEEN-style test on closed intervals, kept so
// the behaviour difference stays visible: it treats back-to-back bookings
// (one ending exactly when the next starts) as a collision.
func OverlapsClosed(aStart, aEnd, bStart, bEnd time.Time) bool {
	between := func(t, lo, hi time.Time) bool {
		return !t.Before(lo) && !t.After(hi)
	}
	return between(bStart, aStart, aEnd) ||
		between(bEnd, aStart, aEnd) ||
		between(aStart, bStart, bEnd)
}

// ConflictsWith scans existing appointments for an active one overlapping
// [start, end), skipping excludeID.
func ConflictsWith(existing []Appointment, start, end time.Time, excludeID *uuid.UUID) bool {
	for i := range existing {
		a := &existing[i]
		if !a.Status.Active() {
			continue
		}
		if excludeID != nil && a.ID == *excludeID {
			continue
		}
		if Overlaps(start, end, a.StartTime, a.EndTime) {
			return true
		}
	}
	return false
}
