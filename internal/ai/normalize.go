package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ResourceCount is the exact number of resources a curated set holds.
const ResourceCount = 5

var (
	// ErrInvalidPlanFormat means the model output could not be turned into a plan.
	ErrInvalidPlanFormat = errors.New("invalid plan format")
	// ErrInvalidResourceFormat means the model output failed resource validation.
	ErrInvalidResourceFormat = errors.New("invalid resources format")
)

var (
	leadingFence  = regexp.MustCompile("^```[a-zA-Z]*\\s*")
	trailingFence = regexp.MustCompile("\\s*```$")
)

// CleanResponse strips surrounding whitespace and markdown code fences.
func CleanResponse(raw string) string {
	s := strings.TrimSpace(raw)
	s = leadingFence.ReplaceAllString(s, "")
	s = trailingFence.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// RawResource is a resource as the model describes it.
type RawResource struct {
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	Description string   `json:"description"`
	Benefits    []string `json:"benefits,omitempty"`
}

type rawResourceList struct {
	Resources *[]json.RawMessage `json:"resources"`
}

type rawResourceFields struct {
	Title       *string          `json:"title"`
	URL         *string          `json:"url"`
	Description *string          `json:"description"`
	Benefits    *json.RawMessage `json:"benefits"`
}

// ParseResources decodes and validates model output. It requires exactly
// ResourceCount entries with non-empty title, url and description.
func ParseResources(raw string) ([]RawResource, error) {
	var list rawResourceList
	if err := json.Unmarshal([]byte(CleanResponse(raw)), &list); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResourceFormat, err)
	}
	if list.Resources == nil {
		return nil, fmt.Errorf("%w: missing resources array", ErrInvalidResourceFormat)
	}
	if n := len(*list.Resources); n != ResourceCount {
		return nil, fmt.Errorf("%w: got %d resources, want %d", ErrInvalidResourceFormat, n, ResourceCount)
	}

	out := make([]RawResource, 0, ResourceCount)
	for i, item := range *list.Resources {
		var f rawResourceFields
		if err := json.Unmarshal(item, &f); err != nil {
			return nil, fmt.Errorf("%w: resource %d: %v", ErrInvalidResourceFormat, i, err)
		}
		if blank(f.Title) || blank(f.URL) || blank(f.Description) {
			return nil, fmt.Errorf("%w: resource %d missing title, url or description", ErrInvalidResourceFormat, i)
		}
		r := RawResource{
			Title:       strings.TrimSpace(*f.Title),
			URL:         strings.TrimSpace(*f.URL),
			Description: strings.TrimSpace(*f.Description),
		}
		if f.Benefits != nil && string(*f.Benefits) != "null" {
			var benefits []*string
			if err := json.Unmarshal(*f.Benefits, &benefits); err != nil {
				return nil, fmt.Errorf("%w: resource %d benefits: %v", ErrInvalidResourceFormat, i, err)
			}
			list, ok := stringList(&benefits)
			if !ok {
				return nil, fmt.Errorf("%w: resource %d benefits must be strings", ErrInvalidResourceFormat, i)
			}
			r.Benefits = list
		}
		out = append(out, r)
	}
	return out, nil
}

// RawPlan is a plan as the model describes it.
type RawPlan struct {
	Overview        RawOverview `json:"overview"`
	WeeklyPlans     []RawWeek   `json:"weeklyPlans"`
	Recommendations []string    `json:"recommendations"`
}

type RawOverview struct {
	Subject  string `json:"subject"`
	Duration string `json:"duration"`
	ExamDate string `json:"examDate"`
}

type RawWeek struct {
	Week       string   `json:"week"`
	Goals      []string `json:"goals"`
	DailyTasks []RawDay `json:"dailyTasks"`
}

type RawDay struct {
	Day      string   `json:"day"`
	Tasks    []string `json:"tasks"`
	Duration string   `json:"duration"`
}

// strictPlan mirrors RawPlan with pointers so missing keys can be told apart
// from empty values.
type strictPlan struct {
	Overview *struct {
		Subject  *string `json:"subject"`
		Duration *string `json:"duration"`
		ExamDate *string `json:"examDate"`
	} `json:"overview"`
	WeeklyPlans *[]struct {
		Week       *string    `json:"week"`
		Goals      *[]*string `json:"goals"`
		DailyTasks *[]struct {
			Day      *string    `json:"day"`
			Tasks    *[]*string `json:"tasks"`
			Duration *string    `json:"duration"`
		} `json:"dailyTasks"`
	} `json:"weeklyPlans"`
	Recommendations *[]*string `json:"recommendations"`
}

// ParsePlan decodes and validates model output. Any shape problem is
// reported as ErrInvalidPlanFormat.
func ParsePlan(raw string) (*RawPlan, error) {
	var p strictPlan
	if err := json.Unmarshal([]byte(CleanResponse(raw)), &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPlanFormat, err)
	}
	if p.Overview == nil || p.Overview.Subject == nil || p.Overview.Duration == nil || p.Overview.ExamDate == nil {
		return nil, fmt.Errorf("%w: incomplete overview", ErrInvalidPlanFormat)
	}
	if p.WeeklyPlans == nil || len(*p.WeeklyPlans) == 0 {
		return nil, fmt.Errorf("%w: no weekly plans", ErrInvalidPlanFormat)
	}
	recommendations, ok := stringList(p.Recommendations)
	if !ok {
		return nil, fmt.Errorf("%w: recommendations must be an array of strings", ErrInvalidPlanFormat)
	}

	plan := &RawPlan{
		Overview: RawOverview{
			Subject:  strings.TrimSpace(*p.Overview.Subject),
			Duration: strings.TrimSpace(*p.Overview.Duration),
			ExamDate: strings.TrimSpace(*p.Overview.ExamDate),
		},
		WeeklyPlans:     make([]RawWeek, 0, len(*p.WeeklyPlans)),
		Recommendations: recommendations,
	}

	for wi, w := range *p.WeeklyPlans {
		goals, ok := stringList(w.Goals)
		if blank(w.Week) || !ok || w.DailyTasks == nil {
			return nil, fmt.Errorf("%w: week %d incomplete", ErrInvalidPlanFormat, wi)
		}
		week := RawWeek{
			Week:       strings.TrimSpace(*w.Week),
			Goals:      goals,
			DailyTasks: make([]RawDay, 0, len(*w.DailyTasks)),
		}
		for di, d := range *w.DailyTasks {
			tasks, ok := stringList(d.Tasks)
			if blank(d.Day) || blank(d.Duration) || !ok {
				return nil, fmt.Errorf("%w: week %d day %d incomplete", ErrInvalidPlanFormat, wi, di)
			}
			week.DailyTasks = append(week.DailyTasks, RawDay{
				Day:      strings.TrimSpace(*d.Day),
				Tasks:    tasks,
				Duration: strings.TrimSpace(*d.Duration),
			})
		}
		plan.WeeklyPlans = append(plan.WeeklyPlans, week)
	}
	return plan, nil
}

// stringList unwraps a decoded JSON array of strings. A missing array or a
// null element reports false.
func stringList(items *[]*string) ([]string, bool) {
	if items == nil {
		return nil, false
	}
	out := make([]string, 0, len(*items))
	for _, item := range *items {
		if item == nil {
			return nil, false
		}
		out = append(out, *item)
	}
	return out, true
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
