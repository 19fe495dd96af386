package usecase

import (
	"fmt"
	"strings"

	"github.com/iamvkosarev/learning-assistant/internal/model"
)

// GenericGreetingPlaceholder is what the AI backend answers when it has
// nothing specific to say.
const GenericGreetingPlaceholder = "Hello! I'm ready to help you learn"

const (
	CannedResponseReact       = "React is a JavaScript library for building user interfaces, developed by Facebook. It uses a component-based architecture and virtual DOM for efficient updates. Would you like to know more about React hooks or components?"
	CannedResponsePython      = "Python is a versatile programming language used for web development, data science, AI, and automation. It's known for its simple syntax and large ecosystem. Are you interested in Python for web development or data science?"
	CannedResponseDataScience = "Data science involves analyzing data to extract insights. It combines statistics, programming, and domain knowledge. The typical path includes learning Python, statistics, machine learning, and data visualization. Would you like course recommendations?"
	CannedResponseDefault     = "I can help you with learning topics, course recommendations, and career guidance. What specific topic would you like to learn about?"
)

var genericFollowUps = []string{
	"What courses do you have for beginners?",
	"Can you recommend web development courses?",
	"How do I start learning data science?",
	"What programming language should I learn first?",
}

var courseFollowUpFormats = []string{
	"Tell me more about %s",
	"What are the prerequisites for %s?",
	"How do I enroll in %s?",
	"What skills will I learn from %s?",
}

func IsGenericGreeting(text string) bool {
	return strings.Contains(text, GenericGreetingPlaceholder)
}

// CannedResponse picks a fixed answer by the first matching keyword.
func CannedResponse(query string) string {
	lower := strings.ToLower(query)
	switch {
	case strings.Contains(lower, "react"):
		return CannedResponseReact
	case strings.Contains(lower, "python"):
		return CannedResponsePython
	case strings.Contains(lower, "data science"):
		return CannedResponseDataScience
	default:
		return CannedResponseDefault
	}
}

func FollowUpSuggestions(results []model.SearchResult, limit int) []string {
	var suggestions []string
	if len(results) > 0 {
		title := results[0].Title
		if title == "" {
			title = "this course"
		}
		suggestions = make([]string, 0, len(courseFollowUpFormats))
		for _, format := range courseFollowUpFormats {
			suggestions = append(suggestions, fmt.Sprintf(format, title))
		}
	} else {
		suggestions = append([]string(nil), genericFollowUps...)
	}
	if limit >= 0 && len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions
}

// FilterCourses does a case-insensitive substring match on title,
// description and category, keeping at most limit courses.
func FilterCourses(courses []model.Course, query string, limit int) []model.Course {
	lower := strings.ToLower(query)
	filtered := make([]model.Course, 0, limit)
	for _, course := range courses {
		if len(filtered) >= limit {
			break
		}
		if strings.Contains(strings.ToLower(course.Title), lower) ||
			strings.Contains(strings.ToLower(course.Description), lower) ||
			strings.Contains(strings.ToLower(course.Category), lower) {
			filtered = append(filtered, course)
		}
	}
	return filtered
}
