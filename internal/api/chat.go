package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/iamvkosarev/learning-assistant/internal/model"
	"github.com/iamvkosarev/learning-assistant/internal/usecase"
)

type ChatService struct {
	sessions *usecase.SessionPool
}

func NewChatService(sessions *usecase.SessionPool) *ChatService {
	return &ChatService{sessions: sessions}
}

func (s *ChatService) AddRoutes(r chi.Router) {
	r.Get("/health", Handler(s.Health))
	r.Route("/chat", func(r chi.Router) {
		r.Get("/starters", Handler(s.GetStarters))
		r.Post("/sessions", Handler(s.StartSession))
		r.Get("/sessions/{session_id}", Handler(s.GetSession))
		r.Delete("/sessions/{session_id}", Handler(s.DeleteSession))
		r.Post("/sessions/{session_id}/messages", Handler(s.SendMessage))
		r.Post("/sessions/{session_id}/provider", Handler(s.SwitchProvider))
		r.Post("/sessions/{session_id}/clear", Handler(s.ClearSession))
		r.Post("/sessions/{session_id}/test", Handler(s.TestConnection))
		r.Get("/sessions/{session_id}/history", Handler(s.GetHistory))
		r.Get("/sessions/{session_id}/hints", Handler(s.GetHints))
	})
}

func (s *ChatService) Health(r *http.Request) (any, error) {
	return HealthResponse{Status: "ok", Sessions: s.sessions.Len()}, nil
}

func (s *ChatService) GetStarters(r *http.Request) (any, error) {
	return StartersResponse{Starters: usecase.ConversationStarters()}, nil
}

func (s *ChatService) StartSession(r *http.Request) (any, error) {
	session := s.sessions.Create(r.Context())
	return NewSessionView(session), nil
}

func (s *ChatService) GetSession(r *http.Request) (any, error) {
	session, err := s.session(r)
	if err != nil {
		return nil, err
	}
	return NewSessionView(session), nil
}

func (s *ChatService) DeleteSession(r *http.Request) (any, error) {
	sessionID, err := PathParam(r, "session_id")
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Delete(sessionID); err != nil {
		return nil, mapSessionError(err)
	}
	return nil, nil
}

func (s *ChatService) SendMessage(r *http.Request) (any, error) {
	session, err := s.session(r)
	if err != nil {
		return nil, err
	}
	req, err := DecodeBody[SendMessageRequest](r)
	if err != nil {
		return nil, err
	}
	if _, err := session.SendMessage(r.Context(), req.Message); err != nil {
		return nil, mapSessionError(err)
	}
	return NewSessionView(session), nil
}

func (s *ChatService) SwitchProvider(r *http.Request) (any, error) {
	session, err := s.session(r)
	if err != nil {
		return nil, err
	}
	req, err := DecodeBody[SwitchProviderRequest](r)
	if err != nil {
		return nil, err
	}
	provider, err := model.ParseProvider(req.Provider)
	if err != nil {
		return nil, WithStatus(http.StatusBadRequest, err)
	}
	msg, err := session.SwitchProvider(provider)
	if err != nil {
		return nil, mapSessionError(err)
	}
	return MessageResponse{Message: msg}, nil
}

func (s *ChatService) ClearSession(r *http.Request) (any, error) {
	session, err := s.session(r)
	if err != nil {
		return nil, err
	}
	if err := session.Clear(); err != nil {
		return nil, mapSessionError(err)
	}
	return NewSessionView(session), nil
}

func (s *ChatService) TestConnection(r *http.Request) (any, error) {
	session, err := s.session(r)
	if err != nil {
		return nil, err
	}
	msg, err := session.TestConnection(r.Context())
	if err != nil {
		return nil, mapSessionError(err)
	}
	return MessageResponse{Message: msg}, nil
}

func (s *ChatService) GetHistory(r *http.Request) (any, error) {
	session, err := s.session(r)
	if err != nil {
		return nil, err
	}
	return HistoryResponse{History: session.History()}, nil
}

func (s *ChatService) GetHints(r *http.Request) (any, error) {
	session, err := s.session(r)
	if err != nil {
		return nil, err
	}
	return HintsResponse{Hints: session.SearchHints()}, nil
}

func (s *ChatService) session(r *http.Request) (*usecase.Session, error) {
	sessionID, err := PathParam(r, "session_id")
	if err != nil {
		return nil, err
	}
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, mapSessionError(err)
	}
	return session, nil
}

func mapSessionError(err error) error {
	switch {
	case errors.Is(err, usecase.ErrSessionNotFound):
		return WithStatus(http.StatusNotFound, err)
	case errors.Is(err, usecase.ErrRequestInFlight):
		return WithStatus(http.StatusConflict, err)
	case errors.Is(err, usecase.ErrEmptyMessage):
		return WithStatus(http.StatusBadRequest, err)
	default:
		return WithStatus(http.StatusInternalServerError, fmt.Errorf("chat session error: %w", err))
	}
}
