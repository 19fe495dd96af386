package model

import "time"

type ChatHistoryEntry struct {
	UserID    string    `json:"userId"`
	Message   string    `json:"message"`
	Response  string    `json:"response"`
	Provider  string    `json:"provider"`
	Timestamp time.Time `json:"timestamp"`
}

// LastEntries returns the trailing n entries, or all of them when there are fewer.
func LastEntries(entries []ChatHistoryEntry, n int) []ChatHistoryEntry {
	if n <= 0 {
		return []ChatHistoryEntry{}
	}
	if len(entries) <= n {
		return entries
	}
	return entries[len(entries)-n:]
}
