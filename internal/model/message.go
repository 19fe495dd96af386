package model

import "time"

type Sender string

const (
	SenderUser = Sender("user")
	SenderBot  = Sender("bot")
)

type MessageKind string

const (
	MessageKindUser       = MessageKind("")
	MessageKindGreeting   = MessageKind("greeting")
	MessageKindAIResponse = MessageKind("ai_response")
	MessageKindError      = MessageKind("error")
	MessageKindInfo       = MessageKind("info")
	MessageKindTest       = MessageKind("test")
	MessageKindSuccess    = MessageKind("success")
)

// Message is one transcript entry. It is never modified after it is appended.
type Message struct {
	ID               string      `json:"id"`
	Text             string      `json:"text"`
	Sender           Sender      `json:"sender"`
	Timestamp        time.Time   `json:"timestamp"`
	Kind             MessageKind `json:"type,omitempty"`
	Provider         string      `json:"provider,omitempty"`
	Suggestions      []string    `json:"suggestions,omitempty"`
	HasSearchResults bool        `json:"hasSearchResults,omitempty"`
}

func (m Message) IsBot() bool {
	return m.Sender == SenderBot
}
