package ai

import (
	"fmt"
	"strings"

	"mindmentor/study-craft/internal/domain"
)

// ClassifyResourceType derives a resource type from its link. First match wins.
func ClassifyResourceType(link string) domain.ResourceType {
	l := strings.ToLower(link)
	switch {
	case strings.Contains(l, "youtube.com"):
		return domain.ResourceTypeVideo
	case strings.Contains(l, "github.com"):
		return domain.ResourceTypeRepository
	case strings.Contains(l, "coursera.org"), strings.Contains(l, "edx.org"):
		return domain.ResourceTypeCourse
	case strings.Contains(l, "medium.com"), strings.Contains(l, "dev.to"):
		return domain.ResourceTypeArticle
	default:
		return domain.ResourceTypeWebsite
	}
}

// TransformResources maps model resources onto the stored shape.
func TransformResources(in []RawResource) []domain.Resource {
	out := make([]domain.Resource, 0, len(in))
	for _, r := range in {
		out = append(out, domain.Resource{
			Title:       r.Title,
			Link:        r.URL,
			Type:        ClassifyResourceType(r.URL),
			Description: r.Description,
			Benefits:    r.Benefits,
		})
	}
	return out
}

// PlanDraft is the persistable content of a generated plan.
type PlanDraft struct {
	Overview        domain.PlanOverview
	WeeklyPlans     []domain.WeeklyPlan
	Recommendations []string
}

// TransformPlan copies the model plan, pinning subject and exam date to the
// validated request values.
func TransformPlan(raw *RawPlan, subject, examDate string, daysUntilExam int) PlanDraft {
	duration := raw.Overview.Duration
	if duration == "" {
		duration = fmt.Sprintf("%d days", daysUntilExam)
	}

	weeks := make([]domain.WeeklyPlan, 0, len(raw.WeeklyPlans))
	for _, w := range raw.WeeklyPlans {
		days := make([]domain.DailyTask, 0, len(w.DailyTasks))
		for _, d := range w.DailyTasks {
			days = append(days, domain.DailyTask{
				Day:      d.Day,
				Tasks:    nonNil(d.Tasks),
				Duration: d.Duration,
			})
		}
		weeks = append(weeks, domain.WeeklyPlan{
			Week:       w.Week,
			Goals:      nonNil(w.Goals),
			DailyTasks: days,
		})
	}

	return PlanDraft{
		Overview: domain.PlanOverview{
			Subject:  subject,
			Duration: duration,
			ExamDate: examDate,
		},
		WeeklyPlans:     weeks,
		Recommendations: nonNil(raw.Recommendations),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
