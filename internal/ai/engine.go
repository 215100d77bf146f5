package ai

import (
	"context"
	"fmt"

	"mindmentor/study-craft/internal/domain"
	"mindmentor/study-craft/internal/logger"
	"mindmentor/study-craft/internal/search"
)

// Engine runs prompt building, one generation call and normalization.
type Engine struct {
	gen TextGenerator
	log *logger.Logger
}

func NewEngine(gen TextGenerator, log *logger.Logger) *Engine {
	return &Engine{gen: gen, log: log.With("service", "AIEngine")}
}

// CurateResources always yields ResourceCount resources. usedFallback reports
// whether the defaults were substituted. The only error is the context's own,
// so callers can tell a missed deadline from a bad answer.
func (e *Engine) CurateResources(ctx context.Context, subject string, sr search.Response) (resources []domain.Resource, usedFallback bool, err error) {
	text, genErr := e.gen.Generate(ctx, ResourcesPrompt(subject, sr))
	if genErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, false, ctxErr
		}
		e.log.Warn("resource generation failed, using defaults", "subject", subject, "error", genErr)
		return TransformResources(DefaultResources(subject)), true, nil
	}

	parsed, parseErr := ParseResources(text)
	if parseErr != nil {
		e.log.Warn("resource output rejected, using defaults", "subject", subject, "error", parseErr)
		return TransformResources(DefaultResources(subject)), true, nil
	}
	return TransformResources(parsed), false, nil
}

// GeneratePlan returns ErrInvalidPlanFormat for unusable output; generation
// failures are returned wrapped.
func (e *Engine) GeneratePlan(ctx context.Context, subject, examDate string, daysUntilExam int, sr search.Response) (PlanDraft, error) {
	text, err := e.gen.Generate(ctx, PlanPrompt(subject, daysUntilExam, examDate, sr))
	if err != nil {
		return PlanDraft{}, fmt.Errorf("generate plan: %w", err)
	}
	raw, err := ParsePlan(text)
	if err != nil {
		e.log.Warn("plan output rejected", "subject", subject, "error", err)
		return PlanDraft{}, err
	}
	return TransformPlan(raw, subject, examDate, daysUntilExam), nil
}
