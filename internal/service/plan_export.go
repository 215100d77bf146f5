package service

import (
	"fmt"
	"strings"

	"mindmentor/study-craft/internal/domain"
)

// RenderPlanMarkdown renders a plan as a printable Markdown document.
func RenderPlanMarkdown(plan *domain.StudyPlan) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "# Study plan: %s\n\n", plan.Overview.Subject)
	fmt.Fprintf(&b, "- Exam date: %s\n", plan.Overview.ExamDate)
	fmt.Fprintf(&b, "- Duration: %s\n", plan.Overview.Duration)
	fmt.Fprintf(&b, "- Progress: %d%%\n", plan.Progress)

	for _, week := range plan.WeeklyPlans {
		fmt.Fprintf(&b, "\n## %s\n", week.Week)
		if len(week.Goals) > 0 {
			b.WriteString("\n### Goals\n\n")
			for _, g := range week.Goals {
				fmt.Fprintf(&b, "- %s\n", g)
			}
		}
		for _, day := range week.DailyTasks {
			fmt.Fprintf(&b, "\n### %s (%s)\n\n", day.Day, day.Duration)
			for _, task := range day.Tasks {
				fmt.Fprintf(&b, "- [ ] %s\n", task)
			}
		}
	}

	if len(plan.Recommendations) > 0 {
		b.WriteString("\n## Recommendations\n\n")
		for _, r := range plan.Recommendations {
			fmt.Fprintf(&b, "- %s\n", r)
		}
	}
	return []byte(b.String())
}
