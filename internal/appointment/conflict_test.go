package appointment

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestOverlaps(t *testing.T) {
	base := time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC)
	at := func(min int) time.Time { return base.Add(time.Duration(min) * time.Minute) }

	cases := []struct {
		name   string
		aS, aE int
		bS, bE int
		want   bool
	}{
		{"identical", 0, 60, 0, 60, true},
		{"partial overlap", 0, 60, 30, 90, true},
		{"contained", 0, 120, 30, 60, true},
		{"back to back", 0, 60, 60, 120, false},
		{"back to back reversed", 60, 120, 0, 60, false},
		{"disjoint", 0, 30, 90, 120, false},
		{"empty inside other", 0, 60, 30, 30, false},
		{"both empty same instant", 30, 30, 30, 30, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Overlaps(at(tc.aS), at(tc.aE), at(tc.bS), at(tc.bE))
			if got != tc.want {
				t.Fatalf("Overlaps = %v, want %v", got, tc.want)
			}
			if rev := Overlaps(at(tc.bS), at(tc.bE), at(tc.aS), at(tc.aE)); rev != got {
				t.Fatalf("Overlaps is not symmetric: %v vs %v", got, rev)
			}
		})
	}
}

func TestOverlapsClosedFlagsBackToBack(t *testing.T) {
	aS := time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC)
	aE := aS.Add(time.Hour)
	bS, bE := aE, aE.Add(30*time.Minute)

	if !OverlapsClosed(aS, aE, bS, bE) {
		t.Fatal("closed-interval test should treat touching bookings as a collision")
	}
	if Overlaps(aS, aE, bS, bE) {
		t.Fatal("half-open test should allow touching bookings")
	}
}

func TestConflictsWith(t *testing.T) {
	start := time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	self := Appointment{ID: uuid.New(), StartTime: start, EndTime: end, Status: StatusScheduled}
	cancelled := Appointment{ID: uuid.New(), StartTime: start, EndTime: end, Status: StatusCancelled}
	noShow := Appointment{ID: uuid.New(), StartTime: start, EndTime: end, Status: StatusNoShow}
	completed := Appointment{ID: uuid.New(), StartTime: start, EndTime: end, Status: StatusCompleted}

	if ConflictsWith([]Appointment{cancelled, noShow}, start, end, nil) {
		t.Fatal("cancelled and no-show appointments must not block the slot")
	}
	if !ConflictsWith([]Appointment{completed}, start.Add(30*time.Minute), end.Add(30*time.Minute), nil) {
		t.Fatal("completed appointments still occupy their slot")
	}
	if ConflictsWith([]Appointment{self}, start, end, &self.ID) {
		t.Fatal("the excluded appointment must not conflict with itself")
	}
	if !ConflictsWith([]Appointment{self}, start, end, nil) {
		t.Fatal("expected a conflict without exclusion")
	}
	if ConflictsWith(nil, start, end, nil) {
		t.Fatal("empty timeline never conflicts")
	}
}
