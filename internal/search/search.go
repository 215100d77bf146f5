// Package search queries the Tavily web search API for study context.
package search

import (
	"context"
	"strings"
)

// Kind selects the query template used for a search.
type Kind string

const (
	KindPlan      Kind = "plan"
	KindResources Kind = "resources"
)

// MaxHits bounds the number of hits a Response ever carries.
const MaxHits = 10

// Hit is a single search result. Score is clamped to [0,1].
type Hit struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// Response is what generation prompts are built from. It may be empty.
type Response struct {
	Answer string `json:"answer,omitempty"`
	Hits   []Hit  `json:"hits"`
}

// Searcher never fails: upstream problems degrade to an empty Response.
type Searcher interface {
	Search(ctx context.Context, kind Kind, subject string) Response
}

// resourceDomains restricts resource searches to known free-learning sites.
var resourceDomains = []string{
	"freecodecamp.org",
	"coursera.org",
	"edx.org",
	"khanacademy.org",
	"w3schools.com",
	"youtube.com",
	"github.com",
	"dev.to",
	"medium.com",
}

func buildQuery(kind Kind, subject string) (string, []string) {
	subject = strings.TrimSpace(subject)
	switch kind {
	case KindResources:
		return "best free learning resources tutorials courses for " + subject, resourceDomains
	default:
		return subject + " curriculum syllabus learning path study guide", nil
	}
}

func clampScore(s float64) float64 {
	switch {
	case s < 0:
		return 0
	case s > 1:
		return 1
	default:
		return s
	}
}
