package view_test

import (
	"testing"
	"time"

	"github.com/iamvkosarev/learning-assistant/internal/model"
	"github.com/iamvkosarev/learning-assistant/internal/view"
	"github.com/stretchr/testify/assert"
)

var ts = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

func TestRenderMessage(t *testing.T) {
	assert.Equal(t, "You [09:30]\nhi", view.RenderMessage(model.Message{Sender: model.SenderUser, Text: "hi", Timestamp: ts}))
	assert.Equal(t, "AI Assistant [09:30]\nhello", view.RenderMessage(model.Message{
		Sender: model.SenderBot, Text: "hello", Timestamp: ts, Provider: "ai",
	}))
	assert.Equal(t, "AI Assistant • GEMINI [09:30]\nhello", view.RenderMessage(model.Message{
		Sender: model.SenderBot, Text: "hello", Timestamp: ts, Provider: "gemini",
	}))
}

func TestRenderSuggestions(t *testing.T) {
	assert.Empty(t, view.RenderSuggestions(nil))
	assert.Equal(t, "Quick follow-ups:\n• a\n• b", view.RenderSuggestions([]string{"a", "b"}))
}

func TestRenderSearchResults(t *testing.T) {
	assert.Empty(t, view.RenderSearchResults(nil))

	out := view.RenderSearchResults([]model.SearchResult{
		{Title: "Python 101", Category: "Programming", Description: "Basics", Instructor: "Ann", Level: "Beginner", Rating: 4.5, EnrolledCount: 10},
		{Title: "Go"},
	})
	assert.Equal(t,
		"Search Results (2)\n\n1. Python 101 [Programming]\nBasics\nAnn · Beginner · ★ 4.5 · 10 students\n\n2. Go",
		out,
	)
}

func TestRenderHistory(t *testing.T) {
	assert.Equal(t, "No chat history yet.", view.RenderHistory(nil))
	out := view.RenderHistory([]model.ChatHistoryEntry{{Message: "q", Response: "a", Provider: "openai", Timestamp: ts}})
	assert.Equal(t, "Last 1 exchanges:\n\n1) 2024-05-01 09:30 [openai]\nQ: q\nA: a", out)
}

func TestRenderStarters(t *testing.T) {
	assert.Equal(t, "Try asking:\n• a", view.RenderStarters([]string{"a"}, nil))
	assert.Equal(t, "Try asking:\n• a\n\nSearch for courses about:\n• Go", view.RenderStarters([]string{"a"}, []string{"Go"}))
}
