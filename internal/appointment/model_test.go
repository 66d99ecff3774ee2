package appointment

import (
	"errors"
	"testing"
)

func TestParseStatus(t *testing.T) {
	cases := map[string]Status{
		"SCHEDULED":      StatusScheduled,
		"confirmed":      StatusConfirmed,
		" cancelled ":    StatusCancelled,
		"no-show":        StatusNoShow,
		"NO_SHOW":        StatusNoShow,
		"agendado":       StatusScheduled,
		"Confirmado":     StatusConfirmed,
		"CANCELADO":      StatusCancelled,
		"realizado":      StatusCompleted,
		"nao_compareceu": StatusNoShow,
	}
	for raw, want := range cases {
		got, err := ParseStatus(raw)
		if err != nil {
			t.Fatalf("ParseStatus(%q) failed: %v", raw, err)
		}
		if got != want {
			t.Fatalf("ParseStatus(%q) = %s, want %s", raw, got, want)
		}
	}

	if _, err := ParseStatus("PENDING"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestStatusActive(t *testing.T) {
	active := []Status{StatusScheduled, StatusConfirmed, StatusCompleted}
	for _, s := range active {
		if !s.Active() {
			t.Fatalf("%s should hold its slot", s)
		}
	}
	for _, s := range []Status{StatusCancelled, StatusNoShow} {
		if s.Active() {
			t.Fatalf("%s should release its slot", s)
		}
	}
	if StatusNoShow.Description() != "Não Compareceu" {
		t.Fatalf("unexpected description %q", StatusNoShow.Description())
	}
}
