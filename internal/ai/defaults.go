package ai

import "net/url"

// DefaultResources is the fixed fallback list for subject. It always holds
// exactly ResourceCount well-formed entries.
func DefaultResources(subject string) []RawResource {
	q := url.QueryEscape(subject)
	return []RawResource{
		{
			Title:       "freeCodeCamp",
			URL:         "https://www.freecodecamp.org/news/search/?query=" + q,
			Description: "Free coding tutorials and interactive lessons",
			Benefits:    []string{"Interactive learning", "Project-based practice"},
		},
		{
			Title:       "Khan Academy",
			URL:         "https://www.khanacademy.org/search?search_again=1&page_search_query=" + q,
			Description: "Free educational resources and video tutorials",
			Benefits:    []string{"Structured learning path", "Video explanations"},
		},
		{
			Title:       "MIT OpenCourseWare",
			URL:         "https://ocw.mit.edu/search/?q=" + q,
			Description: "Free access to MIT course materials",
			Benefits:    []string{"University-level content", "Comprehensive materials"},
		},
		{
			Title:       "Coursera",
			URL:         "https://www.coursera.org/search?query=" + q,
			Description: "Free-to-audit courses from universities and companies",
			Benefits:    []string{"Expert instructors", "Structured courses"},
		},
		{
			Title:       "YouTube",
			URL:         "https://www.youtube.com/results?search_query=" + q,
			Description: "Video lectures and tutorials from educators worldwide",
			Benefits:    []string{"Visual explanations", "Learn at your own pace"},
		},
	}
}
