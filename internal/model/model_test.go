package model_test

import (
	"regexp"
	"testing"
	"time"

	"github.com/iamvkosarev/learning-assistant/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProvider(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want model.Provider
	}{
		{"auto", model.ProviderAuto},
		{"OpenAI", model.ProviderOpenAI},
		{" gemini ", model.ProviderGemini},
		{"deepseek", model.ProviderDeepSeek},
	} {
		got, err := model.ParseProvider(tc.in)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}

	_, err := model.ParseProvider("claude")
	assert.ErrorIs(t, err, model.ErrUnknownProvider)
}

func TestProviderTitle(t *testing.T) {
	assert.Equal(t, "DEEPSEEK", model.ProviderDeepSeek.Title())
}

func TestNewSessionID(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	id := model.NewSessionID(now)
	assert.Regexp(t, regexp.MustCompile(`^user_1700000000123_[0-9a-z]{9}$`), id)
	assert.NotEqual(t, id, model.NewSessionID(now))
}

func TestLastEntries(t *testing.T) {
	entries := make([]model.ChatHistoryEntry, 12)
	for i := range entries {
		entries[i].Message = string(rune('a' + i))
	}

	last := model.LastEntries(entries, 10)
	require.Len(t, last, 10)
	assert.Equal(t, "c", last[0].Message)
	assert.Equal(t, "l", last[9].Message)

	assert.Len(t, model.LastEntries(entries[:3], 10), 3)
	assert.Empty(t, model.LastEntries(entries, 0))
}

func TestNewSearchResults(t *testing.T) {
	results := model.NewSearchResults([]model.Course{{
		ID:               "c1",
		Title:            "Python Basics",
		Category:         "Programming",
		EnrolledStudents: 42,
		Rating:           4.5,
	}})
	require.Len(t, results, 1)
	assert.Equal(t, model.SearchResult{
		ID:            "c1",
		Title:         "Python Basics",
		Category:      "Programming",
		EnrolledCount: 42,
		Rating:        4.5,
	}, results[0])
}
