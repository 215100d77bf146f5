package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"mindmentor/study-craft/internal/domain"
	"mindmentor/study-craft/internal/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func focusOn(day time.Time, minutes int) domain.StudySession {
	end := day.Add(10 * time.Hour)
	return domain.StudySession{
		Mode:            domain.SessionModeFocus,
		StartedAt:       end.Add(-time.Duration(minutes) * time.Minute),
		EndedAt:         end,
		DurationSeconds: minutes * 60,
	}
}

func TestComputeStats(t *testing.T) {
	now := time.Date(2030, 3, 10, 18, 0, 0, 0, time.UTC)
	d := func(offset int) time.Time { return utcDay(now).AddDate(0, 0, offset) }

	sessions := []domain.StudySession{
		focusOn(d(-9), 25), focusOn(d(-8), 25), focusOn(d(-7), 25), focusOn(d(-6), 25), // 4-day run
		focusOn(d(-2), 25), focusOn(d(-1), 25), focusOn(d(-1), 50), // 2-day run ending yesterday
		{Mode: domain.SessionModeBreak, EndedAt: d(0).Add(time.Hour), DurationSeconds: 300},
	}
	stats := ComputeStats(sessions, now)

	if stats.CurrentStreak != 2 {
		t.Errorf("CurrentStreak = %d, want 2", stats.CurrentStreak)
	}
	if stats.BestStreak != 4 {
		t.Errorf("BestStreak = %d, want 4", stats.BestStreak)
	}
	if stats.TotalDays != 6 {
		t.Errorf("TotalDays = %d, want 6", stats.TotalDays)
	}
	if stats.CompletedSessions != 7 {
		t.Errorf("CompletedSessions = %d, want 7", stats.CompletedSessions)
	}
	if stats.TotalFocusMinutes != 200 {
		t.Errorf("TotalFocusMinutes = %d, want 200", stats.TotalFocusMinutes)
	}
	if got := stats.StudySessions["2030-03-09"]; got.Count != 2 || got.Minutes != 75 {
		t.Errorf("yesterday = %+v", got)
	}
	if _, ok := stats.StudySessions["2030-03-10"]; ok {
		t.Error("break sessions must not create a study day")
	}
}

func TestComputeStatsBrokenStreak(t *testing.T) {
	now := time.Date(2030, 3, 10, 1, 0, 0, 0, time.UTC)
	stats := ComputeStats([]domain.StudySession{focusOn(utcDay(now).AddDate(0, 0, -2), 25)}, now)
	if stats.CurrentStreak != 0 || stats.BestStreak != 1 {
		t.Fatalf("unexpected streaks %+v", stats)
	}
}

func TestComputeStatsEmpty(t *testing.T) {
	stats := ComputeStats(nil, time.Now())
	if stats.StudySessions == nil || stats.CurrentStreak != 0 || stats.BestStreak != 0 {
		t.Fatalf("unexpected empty stats %+v", stats)
	}
}

func TestRecordSession(t *testing.T) {
	repo := &fakeSessionRepo{}
	svc := NewSessionService(repo, logger.Nop())
	user := primitive.NewObjectID()
	end := time.Now().Add(-time.Minute)

	session, stats, err := svc.RecordSession(context.Background(), user, domain.SessionModeFocus, end.Add(-domain.FocusDuration), end)
	if err != nil {
		t.Fatalf("RecordSession: %v", err)
	}
	if session.DurationSeconds != int(domain.FocusDuration/time.Second) {
		t.Fatalf("duration = %d", session.DurationSeconds)
	}
	if stats.CompletedSessions != 1 || stats.TotalFocusMinutes != 25 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestRecordSessionValidation(t *testing.T) {
	svc := NewSessionService(&fakeSessionRepo{}, logger.Nop())
	user := primitive.NewObjectID()
	now := time.Now()

	cases := map[string]struct {
		mode       domain.SessionMode
		start, end time.Time
	}{
		"unknown mode":  {"nap", now.Add(-time.Hour), now},
		"reversed":      {domain.SessionModeFocus, now, now.Add(-time.Minute)},
		"too long":      {domain.SessionModeFocus, now.Add(-5 * time.Hour), now},
		"future end":    {domain.SessionModeFocus, now, now.Add(time.Hour)},
		"missing times": {domain.SessionModeBreak, time.Time{}, now},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			if _, _, err := svc.RecordSession(context.Background(), user, c.mode, c.start, c.end); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}
