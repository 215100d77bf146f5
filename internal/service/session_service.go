package service

import (
	"context"
	"sort"
	"time"

	"mindmentor/study-craft/internal/domain"
	"mindmentor/study-craft/internal/logger"
	"mindmentor/study-craft/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	maxSessionLength = 4 * time.Hour
	clockSkew        = time.Minute
	dayLayout        = "2006-01-02"
)

type SessionService interface {
	RecordSession(ctx context.Context, userID primitive.ObjectID, mode domain.SessionMode, startedAt, endedAt time.Time) (*domain.StudySession, *domain.StudyStats, error)
	Stats(ctx context.Context, userID primitive.ObjectID) (*domain.StudyStats, error)
}

type sessionService struct {
	repo repository.StudySessionRepository
	log  *logger.Logger
	now  func() time.Time
}

func NewSessionService(repo repository.StudySessionRepository, log *logger.Logger) SessionService {
	return &sessionService{
		repo: repo,
		log:  log.With("service", "SessionService"),
		now:  time.Now,
	}
}

func (s *sessionService) RecordSession(ctx context.Context, userID primitive.ObjectID, mode domain.SessionMode, startedAt, endedAt time.Time) (*domain.StudySession, *domain.StudyStats, error) {
	if mode != domain.SessionModeFocus && mode != domain.SessionModeBreak {
		return nil, nil, invalid("mode must be %q or %q", domain.SessionModeFocus, domain.SessionModeBreak)
	}
	if startedAt.IsZero() || endedAt.IsZero() {
		return nil, nil, invalid("startedAt and endedAt are required")
	}
	if !endedAt.After(startedAt) {
		return nil, nil, invalid("endedAt must be after startedAt")
	}
	length := endedAt.Sub(startedAt)
	if length > maxSessionLength {
		return nil, nil, invalid("a session may last at most %s", maxSessionLength)
	}
	if endedAt.After(s.now().Add(clockSkew)) {
		return nil, nil, invalid("endedAt is in the future")
	}

	session := &domain.StudySession{
		UserID:          userID,
		Mode:            mode,
		StartedAt:       startedAt.UTC(),
		EndedAt:         endedAt.UTC(),
		DurationSeconds: int(length / time.Second),
	}
	id, err := s.repo.Create(ctx, session)
	if err != nil {
		return nil, nil, err
	}
	session.ID = id

	stats, err := s.Stats(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return session, stats, nil
}

func (s *sessionService) Stats(ctx context.Context, userID primitive.ObjectID) (*domain.StudyStats, error) {
	sessions, err := s.repo.ListByUser(ctx, userID, time.Time{})
	if err != nil {
		return nil, err
	}
	stats := ComputeStats(sessions, s.now())
	return &stats, nil
}

// ComputeStats aggregates focus sessions by the UTC day they ended on. Break
// sessions are ignored. The current streak counts only if it reaches today
// or yesterday.
func ComputeStats(sessions []domain.StudySession, now time.Time) domain.StudyStats {
	stats := domain.StudyStats{StudySessions: map[string]domain.DayStats{}}

	focusSeconds := 0
	for _, sess := range sessions {
		if sess.Mode != domain.SessionModeFocus {
			continue
		}
		day := sess.EndedAt.UTC().Format(dayLayout)
		ds := stats.StudySessions[day]
		ds.Count++
		ds.Minutes += sess.DurationSeconds / 60
		stats.StudySessions[day] = ds

		stats.CompletedSessions++
		focusSeconds += sess.DurationSeconds
	}
	stats.TotalFocusMinutes = focusSeconds / 60
	stats.TotalDays = len(stats.StudySessions)
	if stats.TotalDays == 0 {
		return stats
	}

	days := make([]time.Time, 0, len(stats.StudySessions))
	for key := range stats.StudySessions {
		d, _ := time.Parse(dayLayout, key)
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	run := 1
	stats.BestStreak = 1
	for i := 1; i < len(days); i++ {
		if days[i].Sub(days[i-1]) == 24*time.Hour {
			run++
		} else {
			run = 1
		}
		if run > stats.BestStreak {
			stats.BestStreak = run
		}
	}

	today := utcDay(now)
	last := days[len(days)-1]
	if gap := today.Sub(last); gap == 0 || gap == 24*time.Hour {
		stats.CurrentStreak = run
	}
	return stats
}
