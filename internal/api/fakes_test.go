package api

import (
	"context"
	"time"

	"mindmentor/study-craft/internal/domain"
	"mindmentor/study-craft/internal/service"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const validToken = "valid-token"

type fakeAuthService struct {
	userID   primitive.ObjectID
	register func(name, email, password string) (*domain.User, error)
	login    func(email, password string) (string, *domain.User, error)
}

func (f *fakeAuthService) Register(_ context.Context, name, email, password string) (*domain.User, error) {
	return f.register(name, email, password)
}

func (f *fakeAuthService) Login(_ context.Context, email, password string) (string, *domain.User, error) {
	return f.login(email, password)
}

func (f *fakeAuthService) GetUser(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	if id != f.userID {
		return nil, service.ErrNotFound
	}
	return &domain.User{ID: id, Name: "Ada", Email: "ada@example.com"}, nil
}

func (f *fakeAuthService) ValidateToken(token string) (primitive.ObjectID, error) {
	if token != validToken {
		return primitive.NilObjectID, service.ErrAuthenticationFailed
	}
	return f.userID, nil
}

type fakePlanService struct {
	generate func(userID primitive.ObjectID, subject, examDate string) (*service.PlanResult, error)
	err      error // returned by every other method when set

	listedInactive bool
	progress       int
	deleted        primitive.ObjectID
}

func (f *fakePlanService) GeneratePlan(_ context.Context, userID primitive.ObjectID, subject, examDate string) (*service.PlanResult, error) {
	return f.generate(userID, subject, examDate)
}

func (f *fakePlanService) ListPlans(_ context.Context, userID primitive.ObjectID, includeInactive bool) ([]domain.StudyPlan, error) {
	f.listedInactive = includeInactive
	if f.err != nil {
		return nil, f.err
	}
	return []domain.StudyPlan{{ID: primitive.NewObjectID(), UserID: userID, IsActive: true}}, nil
}

func (f *fakePlanService) GetPlan(_ context.Context, userID, planID primitive.ObjectID) (*domain.StudyPlan, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.StudyPlan{ID: planID, UserID: userID}, nil
}

func (f *fakePlanService) DeletePlan(_ context.Context, _, planID primitive.ObjectID) error {
	f.deleted = planID
	return f.err
}

func (f *fakePlanService) UpdateProgress(_ context.Context, userID, planID primitive.ObjectID, progress int) (*domain.StudyPlan, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.progress = progress
	return &domain.StudyPlan{ID: planID, UserID: userID, Progress: progress}, nil
}

func (f *fakePlanService) ExportPlan(context.Context, primitive.ObjectID, primitive.ObjectID) (*service.PlanExport, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &service.PlanExport{URL: "https://files.example.com/plan.md", ExpiresAt: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)}, nil
}

func (f *fakePlanService) DeactivateExpiredPlans(context.Context) (int64, error) {
	return 0, nil
}

type fakeResourceService struct {
	curate func(userID primitive.ObjectID, subject string) (*service.CurationResult, error)
	err    error
}

func (f *fakeResourceService) CurateResources(_ context.Context, userID primitive.ObjectID, subject string) (*service.CurationResult, error) {
	return f.curate(userID, subject)
}

func (f *fakeResourceService) ListResources(_ context.Context, userID primitive.ObjectID) ([]domain.CuratedResourceSet, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []domain.CuratedResourceSet{}, nil
}

func (f *fakeResourceService) GetResourceSet(_ context.Context, userID, setID primitive.ObjectID) (*domain.CuratedResourceSet, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.CuratedResourceSet{ID: setID, UserID: userID}, nil
}

func (f *fakeResourceService) DeleteResourceSet(context.Context, primitive.ObjectID, primitive.ObjectID) error {
	return f.err
}

type fakeSessionService struct {
	mode domain.SessionMode
}

func (f *fakeSessionService) RecordSession(_ context.Context, userID primitive.ObjectID, mode domain.SessionMode, startedAt, endedAt time.Time) (*domain.StudySession, *domain.StudyStats, error) {
	f.mode = mode
	s := &domain.StudySession{
		ID:              primitive.NewObjectID(),
		UserID:          userID,
		Mode:            mode,
		StartedAt:       startedAt,
		EndedAt:         endedAt,
		DurationSeconds: int(endedAt.Sub(startedAt).Seconds()),
	}
	return s, &domain.StudyStats{CurrentStreak: 1, BestStreak: 1, TotalDays: 1, CompletedSessions: 1, StudySessions: map[string]domain.DayStats{}}, nil
}

func (f *fakeSessionService) Stats(context.Context, primitive.ObjectID) (*domain.StudyStats, error) {
	return &domain.StudyStats{CurrentStreak: 3, StudySessions: map[string]domain.DayStats{}}, nil
}
