package service

import (
	"strings"
	"time"
)

// MaxDaysAhead is the furthest an exam may be scheduled.
const MaxDaysAhead = 365

// ExamDate is a validated exam date.
type ExamDate struct {
	Raw       string    // as submitted, stored on the plan overview
	At        time.Time // UTC midnight of the exam day
	DaysUntil int
}

// ParseExamDate accepts YYYY-MM-DD or RFC 3339 and checks that the exam is
// between today and MaxDaysAhead days from now (UTC), both inclusive.
func ParseExamDate(raw string, now time.Time) (ExamDate, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ExamDate{}, invalid("examDate is required")
	}

	var t time.Time
	var err error
	if t, err = time.Parse("2006-01-02", raw); err != nil {
		if t, err = time.Parse(time.RFC3339, raw); err != nil {
			return ExamDate{}, invalid("examDate must be YYYY-MM-DD")
		}
	}

	at := utcDay(t)
	days := int(at.Sub(utcDay(now)).Hours() / 24)
	switch {
	case days < 0:
		return ExamDate{}, invalid("examDate must not be in the past")
	case days > MaxDaysAhead:
		return ExamDate{}, invalid("examDate must be within %d days", MaxDaysAhead)
	}
	return ExamDate{Raw: raw, At: at, DaysUntil: days}, nil
}

func utcDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
