package recurrence

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseAcceptsPrefix(t *testing.T) {
	for _, rule := range []string{"FREQ=MONTHLY", "RRULE:FREQ=MONTHLY"} {
		if _, err := Parse(rule, date(2026, time.January, 15)); err != nil {
			t.Errorf("Parse(%q) error = %v", rule, err)
		}
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := Parse("FREQ=SOMETIMES", date(2026, time.January, 15)); err == nil {
		t.Error("expected error for unknown frequency")
	}
}

func TestNextDueMonthly(t *testing.T) {
	start := date(2026, time.January, 15)

	next, err := NextDue("FREQ=MONTHLY", start, date(2026, time.March, 1))
	if err != nil {
		t.Fatalf("NextDue() error = %v", err)
	}
	if next == nil || !next.Equal(date(2026, time.March, 15)) {
		t.Errorf("next = %v, want 2026-03-15", next)
	}
}

func TestNextDueInclusive(t *testing.T) {
	start := date(2026, time.January, 15)
	due := date(2026, time.March, 15)

	next, err := NextDue("FREQ=MONTHLY", start, due)
	if err != nil {
		t.Fatalf("NextDue() error = %v", err)
	}
	if next == nil || !next.Equal(due) {
		t.Errorf("next = %v, want the due date itself", next)
	}
}

func TestNextDueExhaustedRule(t *testing.T) {
	next, err := NextDue("FREQ=DAILY;COUNT=1", date(2026, time.January, 15), date(2026, time.February, 1))
	if err != nil {
		t.Fatalf("NextDue() error = %v", err)
	}
	if next != nil {
		t.Errorf("next = %v, want nil for an exhausted rule", next)
	}
}
