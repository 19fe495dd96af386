package model

import "encoding/json"

// AIRequest is what the orchestrator asks an AI responder.
type AIRequest struct {
	Message       string
	Provider      Provider
	SearchResults []SearchResult
	History       []ChatHistoryEntry
}

type AIReply struct {
	Text        string
	Provider    string
	Suggestions []string
	Data        json.RawMessage
}
