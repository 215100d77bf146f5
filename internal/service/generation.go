package service

import (
	"context"
	"errors"
	"fmt"

	"mindmentor/study-craft/internal/ai"
	"mindmentor/study-craft/internal/domain"
	"mindmentor/study-craft/internal/search"
)

// ResourceCurator produces exactly ai.ResourceCount resources for a subject.
type ResourceCurator interface {
	CurateResources(ctx context.Context, subject string, sr search.Response) ([]domain.Resource, bool, error)
}

// PlanGenerator drafts a study plan from search context.
type PlanGenerator interface {
	GeneratePlan(ctx context.Context, subject, examDate string, daysUntilExam int, sr search.Response) (ai.PlanDraft, error)
}

// generationError maps failures from the search/generate step to service errors.
func generationError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return ErrTimeout
	case errors.Is(err, context.Canceled):
		return err
	case errors.Is(err, ai.ErrInvalidPlanFormat):
		return err
	default:
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
}
