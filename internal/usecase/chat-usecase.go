package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/iamvkosarev/learning-assistant/config"
	"github.com/iamvkosarev/learning-assistant/internal/logging"
	"github.com/iamvkosarev/learning-assistant/internal/model"
	"github.com/iamvkosarev/learning-assistant/pkg/local"
	"github.com/sourcegraph/conc"
)

const (
	providerDefault = "ai"
	providerError   = "error"
	searchHintsSize = 5
)

var (
	ErrEmptyMessage    = errors.New("message is empty")
	ErrRequestInFlight = errors.New("request already in flight")
)

type HistoryStorage interface {
	LoadHistory(ctx context.Context, userID string) ([]model.ChatHistoryEntry, error)
	AppendHistory(ctx context.Context, entry model.ChatHistoryEntry) ([]model.ChatHistoryEntry, error)
}

type CourseCatalog interface {
	Search(ctx context.Context, query string) ([]model.Course, error)
	ListCourses(ctx context.Context) ([]model.Course, error)
}

type AIResponder interface {
	Ask(ctx context.Context, req model.AIRequest) (model.AIReply, error)
}

type ChatUsecaseDeps struct {
	HistoryStorage HistoryStorage
	Courses        CourseCatalog
	AI             AIResponder
}

type ChatUsecase struct {
	ChatUsecaseDeps
	cfg      config.Chat
	language local.Language
	now      func() time.Time
}

func NewChatUsecase(deps ChatUsecaseDeps, cfg config.Chat) *ChatUsecase {
	return &ChatUsecase{
		ChatUsecaseDeps: deps,
		cfg:             cfg,
		language:        local.ParseLanguage(cfg.Language),
		now:             time.Now,
	}
}

// StartSession builds a session with a fresh transcript. Persisted history
// and search hints are fetched concurrently; failures of either leave the
// corresponding field empty.
func (c *ChatUsecase) StartSession(ctx context.Context, sessionID string) *Session {
	session := &Session{
		id:       sessionID,
		chat:     c,
		provider: model.ProviderAuto,
		messages: []model.Message{c.greetingMessage()},
	}

	log := logging.From(ctx).With("session_id", sessionID)
	var history []model.ChatHistoryEntry
	var hints []string

	wg := conc.NewWaitGroup()
	wg.Go(
		func() {
			entries, err := c.HistoryStorage.LoadHistory(ctx, sessionID)
			if err != nil {
				log.Error("failed to load chat history", "error", err)
				return
			}
			history = model.LastEntries(entries, c.cfg.VisibleHistory)
		},
	)
	wg.Go(
		func() {
			hints = c.searchHints(ctx)
		},
	)
	wg.Wait()

	session.history = history
	session.hints = hints
	return session
}

func (c *ChatUsecase) searchHints(ctx context.Context) []string {
	courses, err := c.Courses.ListCourses(ctx)
	if err != nil {
		logging.From(ctx).Warn("failed to fetch search hints", "error", err)
		return []string{}
	}
	hints := make([]string, 0, searchHintsSize)
	for _, course := range courses {
		if len(hints) == searchHintsSize {
			break
		}
		hints = append(hints, course.Title)
	}
	return hints
}

// searchCourses asks the search endpoint first and falls back to filtering
// the full course listing. It never fails; the worst case is no results.
func (c *ChatUsecase) searchCourses(ctx context.Context, query string) []model.SearchResult {
	log := logging.From(ctx).With("query", query)

	courses, err := c.Courses.Search(ctx, query)
	if err != nil {
		log.Warn("course search failed, filtering course list instead", "error", err)
	}
	if err == nil && len(courses) > 0 {
		if len(courses) > c.cfg.MaxSearchResults {
			courses = courses[:c.cfg.MaxSearchResults]
		}
		return model.NewSearchResults(courses)
	}

	all, err := c.Courses.ListCourses(ctx)
	if err != nil {
		log.Warn("failed to list courses", "error", err)
		return []model.SearchResult{}
	}
	return model.NewSearchResults(FilterCourses(all, query, c.cfg.MaxSearchResults))
}

// askAI never fails for backend reasons: unusable answers are replaced with
// canned text. Only a dead request context is reported.
func (c *ChatUsecase) askAI(ctx context.Context, req model.AIRequest) (model.AIReply, error) {
	log := logging.From(ctx).With("provider", req.Provider)

	reply, err := c.AI.Ask(ctx, req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return model.AIReply{}, fmt.Errorf("failed to ask ai: %w", ctxErr)
		}
		log.Warn("ai call failed, using canned response", "error", err)
		return model.AIReply{
			Text:        CannedResponse(req.Message),
			Provider:    providerError,
			Suggestions: FollowUpSuggestions(req.SearchResults, c.cfg.MaxSuggestions),
		}, nil
	}

	if reply.Provider == "" {
		reply.Provider = providerDefault
	}
	if IsGenericGreeting(reply.Text) {
		log.Info("ai answered with generic greeting, using canned response")
		reply.Text = CannedResponse(req.Message)
	}
	if len(reply.Suggestions) == 0 {
		reply.Suggestions = FollowUpSuggestions(req.SearchResults, c.cfg.MaxSuggestions)
	}
	return reply, nil
}

func (c *ChatUsecase) newMessage(sender model.Sender, kind model.MessageKind, text string) model.Message {
	return model.Message{
		ID:        uuid.NewString(),
		Text:      text,
		Sender:    sender,
		Timestamp: c.now(),
		Kind:      kind,
	}
}

func (c *ChatUsecase) greetingMessage() model.Message {
	msg := c.newMessage(model.SenderBot, model.MessageKindGreeting, TextGreeting.Text(c.language))
	msg.Provider = providerDefault
	return msg
}

// Session is the state of one chat widget: transcript, provider selector,
// current search results and the visible slice of history.
type Session struct {
	id       string
	chat     *ChatUsecase
	inFlight atomic.Bool

	mu            sync.RWMutex
	provider      model.Provider
	messages      []model.Message
	searchResults []model.SearchResult
	history       []model.ChatHistoryEntry
	hints         []string
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) IsLoading() bool {
	return s.inFlight.Load()
}

func (s *Session) Provider() model.Provider {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.provider
}

func (s *Session) Messages() []model.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Message(nil), s.messages...)
}

func (s *Session) SearchResults() []model.SearchResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.SearchResult{}, s.searchResults...)
}

func (s *Session) History() []model.ChatHistoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.ChatHistoryEntry{}, s.history...)
}

func (s *Session) SearchHints() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string{}, s.hints...)
}

// SendMessage runs one user exchange. It returns ErrEmptyMessage or
// ErrRequestInFlight without touching the transcript; otherwise it returns
// the bot message that was appended.
func (s *Session) SendMessage(ctx context.Context, text string) (model.Message, error) {
	if strings.TrimSpace(text) == "" {
		return model.Message{}, ErrEmptyMessage
	}
	if !s.inFlight.CompareAndSwap(false, true) {
		return model.Message{}, ErrRequestInFlight
	}
	defer s.inFlight.Store(false)

	ctx = logging.With(ctx, logging.From(ctx).With("session_id", s.id))

	userMsg := s.chat.newMessage(model.SenderUser, model.MessageKindUser, text)
	userMsg.Provider = string(model.SenderUser)
	s.mu.Lock()
	s.messages = append(s.messages, userMsg)
	s.searchResults = nil
	provider := s.provider
	history := append([]model.ChatHistoryEntry(nil), s.history...)
	s.mu.Unlock()

	botMsg, err := s.respond(ctx, text, provider, history)
	if err != nil {
		logging.From(ctx).Error("chat request failed", "error", err)
		botMsg = s.chat.newMessage(model.SenderBot, model.MessageKindError, TextBackendUnavailable.Text(s.chat.language))
		botMsg.Provider = providerError
		s.appendMessage(botMsg)
		return botMsg, nil
	}

	s.appendMessage(botMsg)
	s.saveHistory(ctx, text, botMsg.Text, botMsg.Provider)
	return botMsg, nil
}

func (s *Session) respond(
	ctx context.Context,
	text string,
	provider model.Provider,
	history []model.ChatHistoryEntry,
) (model.Message, error) {
	var results []model.SearchResult
	if intent := ClassifyIntent(text); intent.Kind == IntentSearch {
		results = s.chat.searchCourses(ctx, SearchQuery(text))
		s.mu.Lock()
		s.searchResults = results
		s.mu.Unlock()
	}

	reply, err := s.chat.askAI(
		ctx, model.AIRequest{
			Message:       text,
			Provider:      provider,
			SearchResults: results,
			History:       history,
		},
	)
	if err != nil {
		return model.Message{}, err
	}

	botMsg := s.chat.newMessage(model.SenderBot, model.MessageKindAIResponse, reply.Text)
	botMsg.Provider = reply.Provider
	botMsg.Suggestions = reply.Suggestions
	botMsg.HasSearchResults = len(results) > 0
	return botMsg, nil
}

func (s *Session) saveHistory(ctx context.Context, message, response, provider string) {
	entries, err := s.chat.HistoryStorage.AppendHistory(
		ctx, model.ChatHistoryEntry{
			UserID:    s.id,
			Message:   message,
			Response:  response,
			Provider:  provider,
			Timestamp: s.chat.now(),
		},
	)
	if err != nil {
		logging.From(ctx).Error("failed to save chat history", "error", err)
		return
	}
	s.mu.Lock()
	s.history = model.LastEntries(entries, s.chat.cfg.VisibleHistory)
	s.mu.Unlock()
}

// SwitchProvider scopes subsequent AI calls to p. Earlier messages are not replayed.
func (s *Session) SwitchProvider(p model.Provider) (model.Message, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return model.Message{}, ErrRequestInFlight
	}
	defer s.inFlight.Store(false)

	msg := s.chat.newMessage(
		model.SenderBot, model.MessageKindInfo, TextProviderSwitched.Format(s.chat.language, p.Title()),
	)
	s.mu.Lock()
	s.provider = p
	s.messages = append(s.messages, msg)
	s.mu.Unlock()
	return msg, nil
}

// Clear resets the transcript to the greeting and drops search results.
// Persisted history is kept.
func (s *Session) Clear() error {
	if !s.inFlight.CompareAndSwap(false, true) {
		return ErrRequestInFlight
	}
	defer s.inFlight.Store(false)

	s.mu.Lock()
	s.messages = []model.Message{s.chat.greetingMessage()}
	s.searchResults = nil
	s.mu.Unlock()
	return nil
}

// TestConnection pings the AI responder with a fixed prompt and reports the
// outcome in the transcript. It shares the single-flight flag with SendMessage.
func (s *Session) TestConnection(ctx context.Context) (model.Message, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return model.Message{}, ErrRequestInFlight
	}
	defer s.inFlight.Store(false)

	s.appendMessage(
		s.chat.newMessage(model.SenderBot, model.MessageKindTest, TextConnectionTesting.Text(s.chat.language)),
	)

	reply, err := s.chat.AI.Ask(ctx, model.AIRequest{Message: connectionTestPrompt, Provider: s.Provider()})
	if err != nil {
		logging.From(ctx).Warn("ai connection test failed", "session_id", s.id, "error", err)
		msg := s.chat.newMessage(model.SenderBot, model.MessageKindError, TextConnectionFailed.Text(s.chat.language))
		s.appendMessage(msg)
		return msg, nil
	}

	provider := reply.Provider
	if provider == "" {
		provider = "unknown"
	}
	msg := s.chat.newMessage(
		model.SenderBot, model.MessageKindSuccess,
		TextConnectionSucceeded.Format(s.chat.language, provider, reply.Text),
	)
	msg.Provider = provider
	s.appendMessage(msg)
	return msg, nil
}

func (s *Session) appendMessage(msg model.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
}
