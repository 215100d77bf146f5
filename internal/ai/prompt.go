package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"mindmentor/study-craft/internal/search"
)

const (
	relevantScore  = 0.7
	snippetLen     = 200
	planContextMax = 5
)

type promptResource struct {
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	Description string   `json:"description"`
	Benefits    []string `json:"benefits,omitempty"`
}

// relevantHits keeps hits scoring above the relevance threshold with their
// content shortened for the prompt.
func relevantHits(hits []search.Hit) []promptResource {
	out := make([]promptResource, 0, len(hits))
	for _, h := range hits {
		if h.Score <= relevantScore {
			continue
		}
		out = append(out, promptResource{
			Title:       h.Title,
			URL:         h.URL,
			Description: shorten(h.Content, snippetLen) + "...",
		})
	}
	return out
}

func shorten(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// ResourcesPrompt builds the curation prompt for subject.
func ResourcesPrompt(subject string, ctx search.Response) string {
	var b strings.Builder
	fmt.Fprintf(&b, "As an expert educator, curate exactly %d of the most relevant and high-quality free learning resources for %s.\n\n", ResourceCount, subject)

	if ctx.Answer != "" {
		fmt.Fprintf(&b, "Context from search:\n%s\n\n", ctx.Answer)
	}

	if found := relevantHits(ctx.Hits); len(found) > 0 {
		fmt.Fprintf(&b, "Found resources:\n%s\n\n", indentJSON(found))
	} else {
		defaults := DefaultResources(subject)
		list := make([]promptResource, 0, len(defaults))
		for _, d := range defaults {
			list = append(list, promptResource(d))
		}
		fmt.Fprintf(&b, "Using default resources:\n%s\n\n", indentJSON(list))
	}

	fmt.Fprintf(&b, `Create a curated list of exactly %d best resources. For each resource:
1. Verify it's freely accessible
2. Ensure it's suitable for learning %s
3. Include a brief but informative description
4. Add specific benefits for learners

Return only the list in this JSON format:
{
  "resources": [
    {
      "title": "Resource name",
      "url": "Resource URL",
      "description": "Brief description",
      "benefits": ["Benefit 1", "Benefit 2"]
    }
  ]
}`, ResourceCount, subject)
	return b.String()
}

// PlanPrompt builds the study plan prompt. examDate is echoed verbatim.
func PlanPrompt(subject string, daysUntilExam int, examDate string, ctx search.Response) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a detailed study plan for %s with %d days until the exam on %s.\n\n", subject, daysUntilExam, examDate)

	if ctx.Answer != "" {
		fmt.Fprintf(&b, "Context from research:\n%s\n\n", ctx.Answer)
	}
	if found := relevantHits(ctx.Hits); len(found) > 0 {
		if len(found) > planContextMax {
			found = found[:planContextMax]
		}
		b.WriteString("Relevant sources:\n")
		for _, r := range found {
			fmt.Fprintf(&b, "- %s (%s): %s\n", r.Title, r.URL, r.Description)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, `Create a comprehensive study plan that includes weekly segments and daily tasks.
Every week must have a label, goals and daily tasks; every day must have a label, tasks and a duration.

Return only the plan in this JSON format:
{
  "overview": {
    "subject": %q,
    "duration": "%d days",
    "examDate": %q
  },
  "weeklyPlans": [
    {
      "week": "Week X",
      "goals": ["Goal 1", "Goal 2"],
      "dailyTasks": [
        {
          "day": "Day Y",
          "tasks": ["Task 1", "Task 2"],
          "duration": "X hours"
        }
      ]
    }
  ],
  "recommendations": ["Tip 1", "Tip 2"]
}`, subject, daysUntilExam, examDate)
	return b.String()
}

func indentJSON(v any) string {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "[]"
	}
	return string(raw)
}
