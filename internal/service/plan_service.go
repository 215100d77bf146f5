package service

import (
	"context"
	"errors"
	"time"

	"mindmentor/study-craft/internal/domain"
	"mindmentor/study-craft/internal/logger"
	"mindmentor/study-craft/internal/repository"
	"mindmentor/study-craft/internal/search"
	"mindmentor/study-craft/internal/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanResult is returned by GeneratePlan. AlreadyExists means an active plan
// for the subject was found and returned instead of generating a new one.
type PlanResult struct {
	Plan          *domain.StudyPlan
	AlreadyExists bool
}

// PlanExport is a presigned link to a rendered plan.
type PlanExport struct {
	URL       string
	ExpiresAt time.Time
}

type PlanService interface {
	GeneratePlan(ctx context.Context, userID primitive.ObjectID, subject, examDate string) (*PlanResult, error)
	ListPlans(ctx context.Context, userID primitive.ObjectID, includeInactive bool) ([]domain.StudyPlan, error)
	GetPlan(ctx context.Context, userID, planID primitive.ObjectID) (*domain.StudyPlan, error)
	DeletePlan(ctx context.Context, userID, planID primitive.ObjectID) error
	UpdateProgress(ctx context.Context, userID, planID primitive.ObjectID, progress int) (*domain.StudyPlan, error)
	ExportPlan(ctx context.Context, userID, planID primitive.ObjectID) (*PlanExport, error)
	DeactivateExpiredPlans(ctx context.Context) (int64, error)
}

type planService struct {
	repo          repository.StudyPlanRepository
	searcher      search.Searcher
	generator     PlanGenerator
	files         storage.FileStorage // nil disables export
	timeout       time.Duration
	presignExpiry time.Duration
	log           *logger.Logger
	now           func() time.Time
}

// PlanServiceDeps groups planService collaborators.
type PlanServiceDeps struct {
	Repo          repository.StudyPlanRepository
	Searcher      search.Searcher
	Generator     PlanGenerator
	Files         storage.FileStorage
	Timeout       time.Duration
	PresignExpiry time.Duration
	Log           *logger.Logger
	Now           func() time.Time
}

func NewPlanService(deps PlanServiceDeps) PlanService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	expiry := deps.PresignExpiry
	if expiry <= 0 {
		expiry = storage.DefaultPresignedURLExpiry
	}
	return &planService{
		repo:          deps.Repo,
		searcher:      deps.Searcher,
		generator:     deps.Generator,
		files:         deps.Files,
		timeout:       deps.Timeout,
		presignExpiry: expiry,
		log:           deps.Log.With("service", "PlanService"),
		now:           now,
	}
}

// GeneratePlan validates the request, applies the duplicate guard and then
// runs search, generation and persistence.
func (s *planService) GeneratePlan(ctx context.Context, userID primitive.ObjectID, subject, examDate string) (*PlanResult, error) {
	// 1. Validate input
	subject, err := cleanSubject(subject)
	if err != nil {
		return nil, err
	}
	exam, err := ParseExamDate(examDate, s.now())
	if err != nil {
		return nil, err
	}
	normalized := domain.NormalizeSubject(subject)

	// 2. Duplicate guard
	existing, err := s.repo.FindActiveBySubject(ctx, userID, normalized)
	if err == nil {
		return &PlanResult{Plan: existing, AlreadyExists: true}, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	// 3. Search + generate under the generation deadline
	genCtx, cancel := withDeadline(ctx, s.timeout)
	defer cancel()

	sr := s.searcher.Search(genCtx, search.KindPlan, subject)
	draft, err := s.generator.GeneratePlan(genCtx, subject, exam.Raw, exam.DaysUntil, sr)
	if err != nil {
		return nil, generationError(genCtx, err)
	}

	// 4. Persist
	plan := &domain.StudyPlan{
		UserID:            userID,
		Overview:          draft.Overview,
		NormalizedSubject: normalized,
		ExamAt:            exam.At,
		WeeklyPlans:       draft.WeeklyPlans,
		Recommendations:   draft.Recommendations,
		IsActive:          true,
	}
	id, err := s.repo.Create(ctx, plan)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			winner, findErr := s.repo.FindActiveBySubject(ctx, userID, normalized)
			if findErr != nil {
				return nil, findErr
			}
			return &PlanResult{Plan: winner, AlreadyExists: true}, nil
		}
		return nil, err
	}
	plan.ID = id

	s.log.Info("generated study plan", "userId", userID.Hex(), "subject", normalized, "weeks", len(plan.WeeklyPlans))
	return &PlanResult{Plan: plan}, nil
}

func (s *planService) ListPlans(ctx context.Context, userID primitive.ObjectID, includeInactive bool) ([]domain.StudyPlan, error) {
	return s.repo.ListByUser(ctx, userID, !includeInactive)
}

func (s *planService) GetPlan(ctx context.Context, userID, planID primitive.ObjectID) (*domain.StudyPlan, error) {
	plan, err := s.repo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if plan.UserID != userID {
		return nil, ErrNotFound
	}
	return plan, nil
}

// DeletePlan deletes an owned plan and, best effort, its export object.
func (s *planService) DeletePlan(ctx context.Context, userID, planID primitive.ObjectID) error {
	if err := s.ownedWrite(userID, planID, s.repo.DeleteOwned(ctx, planID, userID)); err != nil {
		return err
	}
	if s.files != nil {
		key := storage.PlanExportKey(userID.Hex(), planID.Hex())
		if err := s.files.DeleteObject(ctx, key); err != nil {
			s.log.Warn("failed to delete plan export", "key", key, "error", err)
		}
	}
	return nil
}

func (s *planService) UpdateProgress(ctx context.Context, userID, planID primitive.ObjectID, progress int) (*domain.StudyPlan, error) {
	if progress < 0 || progress > 100 {
		return nil, invalid("progress must be between 0 and 100")
	}
	if err := s.ownedWrite(userID, planID, s.repo.UpdateProgress(ctx, planID, userID, progress)); err != nil {
		return nil, err
	}
	return s.GetPlan(ctx, userID, planID)
}

// ownedWrite maps the result of an owner-scoped write. Plans of other users
// are reported as missing.
func (s *planService) ownedWrite(userID, planID primitive.ObjectID, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrForbidden):
		s.log.Warn("write to foreign plan refused", "userId", userID.Hex(), "planId", planID.Hex())
		return ErrNotFound
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	default:
		return err
	}
}

func (s *planService) ExportPlan(ctx context.Context, userID, planID primitive.ObjectID) (*PlanExport, error) {
	if s.files == nil {
		return nil, ErrStorageUnavailable
	}
	plan, err := s.GetPlan(ctx, userID, planID)
	if err != nil {
		return nil, err
	}

	key := storage.PlanExportKey(userID.Hex(), planID.Hex())
	if err := s.files.PutObject(ctx, key, RenderPlanMarkdown(plan), "text/markdown; charset=utf-8"); err != nil {
		return nil, err
	}
	url, err := s.files.GeneratePresignedDownloadURL(ctx, key, s.presignExpiry)
	if err != nil {
		return nil, err
	}
	return &PlanExport{URL: url, ExpiresAt: s.now().Add(s.presignExpiry).UTC()}, nil
}

// DeactivateExpiredPlans retires active plans whose exam day has passed.
func (s *planService) DeactivateExpiredPlans(ctx context.Context) (int64, error) {
	n, err := s.repo.DeactivateExpired(ctx, utcDay(s.now()))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.log.Info("deactivated expired plans", "count", n)
	}
	return n, nil
}
