package appointment

import (
	"errors"
	"testing"
	"time"
)

func TestValidateWindow(t *testing.T) {
	salon := time.FixedZone("BRT", -3*60*60)
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, salon)
	tomorrow := func(h, m int) time.Time {
		return time.Date(2026, 3, 3, h, m, 0, 0, salon)
	}

	cases := []struct {
		name  string
		start time.Time
		want  error
	}{
		{"tomorrow morning", tomorrow(10, 0), nil},
		{"opening time", tomorrow(8, 0), nil},
		{"last minute before close", tomorrow(17, 59), nil},
		{"right now", now, nil},
		{"one minute ago", now.Add(-time.Minute), ErrInPast},
		{"before opening", tomorrow(7, 59), ErrOutsideBusinessHours},
		{"closing time", tomorrow(18, 0), ErrOutsideBusinessHours},
		{"late evening", tomorrow(21, 30), ErrOutsideBusinessHours},
		{"exactly one year ahead", now.AddDate(1, 0, 0), nil},
		{"past the horizon", now.AddDate(1, 0, 1), ErrTooFarFuture},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateWindow(tc.start, now, salon)
			if tc.want == nil {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if !errors.Is(err, ErrInvalidWindow) {
				t.Fatalf("expected %v to wrap ErrInvalidWindow", err)
			}
		})
	}
}

func TestValidateWindowUsesSalonZone(t *testing.T) {
	salon := time.FixedZone("BRT", -3*60*60)
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, salon)

	// 12:00 UTC is 09:00 in the salon, 21:00 UTC is 18:00.
	open := time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC)
	closed := time.Date(2026, 3, 3, 21, 0, 0, 0, time.UTC)

	if err := ValidateWindow(open, now, salon); err != nil {
		t.Fatalf("expected 09:00 salon time to be accepted, got %v", err)
	}
	if err := ValidateWindow(closed, now, salon); !errors.Is(err, ErrOutsideBusinessHours) {
		t.Fatalf("expected 18:00 salon time to be rejected, got %v", err)
	}
}

func TestValidateWindowPastTakesPrecedence(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	if err := ValidateWindow(now.Add(-10*time.Hour), now, time.UTC); !errors.Is(err, ErrInPast) {
		t.Fatalf("expected ErrInPast for a past time outside hours, got %v", err)
	}
}
