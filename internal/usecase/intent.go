package usecase

import (
	"regexp"
	"strings"
)

type IntentKind int8

const (
	IntentQuestion = IntentKind(iota)
	IntentSearch
)

// Intent is the result of classifying a user message. Keyword is the
// search keyword that matched first, empty for questions.
type Intent struct {
	Kind    IntentKind
	Keyword string
}

var searchKeywords = []string{"search", "find", "look for", "course about", "courses for", "learn"}

var searchKeywordsPattern = regexp.MustCompile(`(?i)search|find|look for|courses? for|learn|about`)

func ClassifyIntent(text string) Intent {
	lower := strings.ToLower(text)
	for _, keyword := range searchKeywords {
		if strings.Contains(lower, keyword) {
			return Intent{Kind: IntentSearch, Keyword: keyword}
		}
	}
	return Intent{Kind: IntentQuestion}
}

// SearchQuery strips search keywords from text. When nothing is left the
// raw text is returned.
func SearchQuery(text string) string {
	query := strings.TrimSpace(searchKeywordsPattern.ReplaceAllString(text, ""))
	if query == "" {
		return text
	}
	return query
}
