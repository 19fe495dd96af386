package view

import (
	"fmt"
	"strings"

	"github.com/iamvkosarev/learning-assistant/internal/model"
)

const timeLayout = "15:04"

func RenderMessage(msg model.Message) string {
	result := strings.Builder{}
	if msg.IsBot() {
		result.WriteString("AI Assistant")
		if msg.Provider != "" && msg.Provider != "ai" {
			result.WriteString(" • ")
			result.WriteString(strings.ToUpper(msg.Provider))
		}
	} else {
		result.WriteString("You")
	}
	result.WriteString(fmt.Sprintf(" [%s]\n", msg.Timestamp.Format(timeLayout)))
	result.WriteString(msg.Text)
	return result.String()
}

func RenderTranscript(messages []model.Message) string {
	parts := make([]string, 0, len(messages))
	for _, msg := range messages {
		parts = append(parts, RenderMessage(msg))
	}
	return strings.Join(parts, "\n\n")
}

func RenderSuggestions(suggestions []string) string {
	if len(suggestions) == 0 {
		return ""
	}
	result := strings.Builder{}
	result.WriteString("Quick follow-ups:")
	for _, suggestion := range suggestions {
		result.WriteString("\n• ")
		result.WriteString(suggestion)
	}
	return result.String()
}

// RenderSearchResults renders one card per result. Rating and enrollment
// are omitted when zero.
func RenderSearchResults(results []model.SearchResult) string {
	if len(results) == 0 {
		return ""
	}
	result := strings.Builder{}
	result.WriteString(fmt.Sprintf("Search Results (%d)", len(results)))
	for i, r := range results {
		result.WriteString(fmt.Sprintf("\n\n%d. %s", i+1, r.Title))
		if r.Category != "" {
			result.WriteString(fmt.Sprintf(" [%s]", r.Category))
		}
		if r.Description != "" {
			result.WriteString("\n")
			result.WriteString(r.Description)
		}
		meta := make([]string, 0, 4)
		if r.Instructor != "" {
			meta = append(meta, r.Instructor)
		}
		if r.Level != "" {
			meta = append(meta, r.Level)
		}
		if r.Rating > 0 {
			meta = append(meta, fmt.Sprintf("★ %.1f", r.Rating))
		}
		if r.EnrolledCount > 0 {
			meta = append(meta, fmt.Sprintf("%d students", r.EnrolledCount))
		}
		if len(meta) > 0 {
			result.WriteString("\n")
			result.WriteString(strings.Join(meta, " · "))
		}
	}
	return result.String()
}

func RenderHistory(entries []model.ChatHistoryEntry) string {
	if len(entries) == 0 {
		return "No chat history yet."
	}
	result := strings.Builder{}
	result.WriteString(fmt.Sprintf("Last %d exchanges:", len(entries)))
	for i, entry := range entries {
		result.WriteString(
			fmt.Sprintf(
				"\n\n%d) %s [%s]\nQ: %s\nA: %s",
				i+1, entry.Timestamp.Format("2006-01-02 15:04"), entry.Provider, entry.Message, entry.Response,
			),
		)
	}
	return result.String()
}

func RenderStarters(starters []string, hints []string) string {
	result := strings.Builder{}
	result.WriteString("Try asking:")
	for _, starter := range starters {
		result.WriteString("\n• ")
		result.WriteString(starter)
	}
	if len(hints) > 0 {
		result.WriteString("\n\nSearch for courses about:")
		for _, hint := range hints {
			result.WriteString("\n• ")
			result.WriteString(hint)
		}
	}
	return result.String()
}
