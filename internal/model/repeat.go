package model

import (
	"fmt"
	"time"
)

// Advance returns the due date after from according to the rule's cadence.
// An interval below 1 counts as 1.
func (r RepeatRule) Advance(from string) (string, error) {
	t, err := time.Parse("2006-01-02", from)
	if err != nil {
		return "", fmt.Errorf("rule %s: bad date %q: %w", r.ID, from, err)
	}
	n := r.Interval
	if n < 1 {
		n = 1
	}
	switch r.Frequency {
	case RepeatDaily:
		t = t.AddDate(0, 0, n)
	case RepeatWeekly:
		t = t.AddDate(0, 0, 7*n)
	case RepeatMonthly:
		t = t.AddDate(0, n, 0)
	case RepeatYearly:
		t = t.AddDate(n, 0, 0)
	default:
		return "", fmt.Errorf("rule %s: unknown frequency %q", r.ID, r.Frequency)
	}
	return t.Format("2006-01-02"), nil
}
