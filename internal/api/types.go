package api

import (
	"github.com/iamvkosarev/learning-assistant/internal/model"
	"github.com/iamvkosarev/learning-assistant/internal/usecase"
)

type SendMessageRequest struct {
	Message string `json:"message"`
}

type SwitchProviderRequest struct {
	Provider string `json:"provider"`
}

type SessionView struct {
	SessionID     string                   `json:"sessionId"`
	Provider      model.Provider           `json:"provider"`
	IsLoading     bool                     `json:"isLoading"`
	Messages      []model.Message          `json:"messages"`
	SearchResults []model.SearchResult     `json:"searchResults"`
	History       []model.ChatHistoryEntry `json:"history"`
	Hints         []string                 `json:"hints"`
}

type StartersResponse struct {
	Starters []string `json:"starters"`
}

type HintsResponse struct {
	Hints []string `json:"hints"`
}

type HistoryResponse struct {
	History []model.ChatHistoryEntry `json:"history"`
}

type MessageResponse struct {
	Message model.Message `json:"message"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}

func NewSessionView(session *usecase.Session) SessionView {
	return SessionView{
		SessionID:     session.ID(),
		Provider:      session.Provider(),
		IsLoading:     session.IsLoading(),
		Messages:      session.Messages(),
		SearchResults: session.SearchResults(),
		History:       session.History(),
		Hints:         session.SearchHints(),
	}
}
