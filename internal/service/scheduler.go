package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"mindmentor/study-craft/internal/logger"

	"github.com/robfig/cron/v3"
)

const expiryJobTimeout = 2 * time.Minute

// SchedulerService runs periodic maintenance jobs.
type SchedulerService struct {
	cron  *cron.Cron
	plans PlanService
	log   *logger.Logger
}

// NewSchedulerService builds a scheduler in the given IANA timezone.
func NewSchedulerService(plans PlanService, timezone string, log *logger.Logger) (*SchedulerService, error) {
	loc := time.UTC
	if tz := strings.TrimSpace(timezone); tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("load timezone %q: %w", tz, err)
		}
		loc = l
	}
	return &SchedulerService{
		cron:  cron.New(cron.WithLocation(loc)),
		plans: plans,
		log:   log.With("service", "SchedulerService"),
	}, nil
}

// ScheduleDeactivation registers the daily plan expiry job at HH:MM.
func (s *SchedulerService) ScheduleDeactivation(at string) error {
	spec, err := dailySpec(at)
	if err != nil {
		return err
	}
	_, err = s.cron.AddFunc(spec, s.runDeactivation)
	if err != nil {
		return fmt.Errorf("schedule plan expiry: %w", err)
	}
	s.log.Info("plan expiry job scheduled", "at", at)
	return nil
}

func (s *SchedulerService) runDeactivation() {
	ctx, cancel := context.WithTimeout(context.Background(), expiryJobTimeout)
	defer cancel()
	if _, err := s.plans.DeactivateExpiredPlans(ctx); err != nil {
		s.log.Error("plan expiry job failed", "error", err)
	}
}

func (s *SchedulerService) Start() {
	s.cron.Start()
}

// Stop waits for a running job to finish or ctx to expire.
func (s *SchedulerService) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

// dailySpec turns "HH:MM" into a five-field cron spec.
func dailySpec(at string) (string, error) {
	parts := strings.Split(strings.TrimSpace(at), ":")
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid time %q, want HH:MM", at)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("invalid hour in %q", at)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("invalid minute in %q", at)
	}
	return fmt.Sprintf("%d %d * * *", minute, hour), nil
}
