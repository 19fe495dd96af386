package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	api "github.com/OvyFlash/telegram-bot-api"
	"github.com/iamvkosarev/learning-assistant/config"
	"github.com/iamvkosarev/learning-assistant/internal/model"
	in_memory "github.com/iamvkosarev/learning-assistant/internal/storage/in-memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBot struct {
	mu       sync.Mutex
	sent     []api.MessageConfig
	sentIDs  []int
	requests []api.Chattable
}

func (b *stubBot) Send(c api.Chattable) (api.Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if msg, ok := c.(api.MessageConfig); ok {
		b.sent = append(b.sent, msg)
		b.sentIDs = append(b.sentIDs, len(b.sent))
	}
	return api.Message{MessageID: len(b.sent)}, nil
}

func (b *stubBot) Request(c api.Chattable) (*api.APIResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = append(b.requests, c)
	return &api.APIResponse{Ok: true}, nil
}

func (b *stubBot) GetUpdatesChan(api.UpdateConfig) api.UpdatesChannel {
	return make(chan api.Update)
}

func (b *stubBot) StopReceivingUpdates() {}

func (b *stubBot) texts() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	texts := make([]string, 0, len(b.sent))
	for _, msg := range b.sent {
		texts = append(texts, msg.Text)
	}
	return texts
}

type stubCatalog struct {
	courses []model.Course
}

func (s stubCatalog) Search(context.Context, string) ([]model.Course, error) {
	return s.courses, nil
}

func (s stubCatalog) ListCourses(context.Context) ([]model.Course, error) {
	return s.courses, nil
}

type stubResponder struct {
	reply model.AIReply
}

func (s stubResponder) Ask(context.Context, model.AIRequest) (model.AIReply, error) {
	return s.reply, nil
}

func newTelegramFixture(t *testing.T, cfg config.Telegram) (*TelegramUsecase, *stubBot) {
	chat := NewChatUsecase(
		ChatUsecaseDeps{
			HistoryStorage: in_memory.NewHistoryStorage(50),
			Courses: stubCatalog{
				courses: []model.Course{{ID: "1", Title: "Go Basics", Category: "Programming", Rating: 4.5}},
			},
			AI: stubResponder{reply: model.AIReply{Text: "Try Go Basics.", Provider: "openai"}},
		},
		config.Chat{HistoryCap: 50, VisibleHistory: 10, MaxSearchResults: 5, MaxSuggestions: 3, Language: "en"},
	)
	chat.now = func() time.Time { return time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC) }

	bot := &stubBot{}
	telegram, err := NewTelegramUsecase(cfg, TelegramUsecaseDeps{Sessions: NewSessionPool(chat, 10), Bot: bot})
	require.NoError(t, err)
	return telegram, bot
}

func TestNewTelegramUsecaseSetsCommands(t *testing.T) {
	_, bot := newTelegramFixture(t, config.Telegram{})

	require.Len(t, bot.requests, 1)
	commands, ok := bot.requests[0].(api.SetMyCommandsConfig)
	require.True(t, ok)
	assert.Len(t, commands.Commands, 5)
}

func TestSendChatReply(t *testing.T) {
	telegram, bot := newTelegramFixture(t, config.Telegram{})
	ctx := context.Background()
	session := telegram.Sessions.GetOrCreate(ctx, telegramSessionID(42))

	require.NoError(t, telegram.sendChatReply(ctx, 42, session, "find go courses"))

	texts := bot.texts()
	require.Len(t, texts, 2)
	assert.Contains(t, texts[0], "Search Results (1)")
	assert.Contains(t, texts[0], "Go Basics")
	assert.Equal(t, "AI Assistant • OPENAI [09:30]\nTry Go Basics.", texts[1])

	markup, ok := bot.sent[1].ReplyMarkup.(api.InlineKeyboardMarkup)
	require.True(t, ok)
	assert.Len(t, markup.InlineKeyboard, 3)
}

func TestSendChatReplyIgnoresEmptyText(t *testing.T) {
	telegram, bot := newTelegramFixture(t, config.Telegram{})
	ctx := context.Background()
	session := telegram.Sessions.GetOrCreate(ctx, telegramSessionID(42))

	require.NoError(t, telegram.sendChatReply(ctx, 42, session, "   "))
	assert.Empty(t, bot.texts())
}

func TestIsAllowed(t *testing.T) {
	open, _ := newTelegramFixture(t, config.Telegram{})
	assert.True(t, open.isAllowed(7))

	restricted, _ := newTelegramFixture(t, config.Telegram{AllowedTelegramID: []int64{1}})
	assert.True(t, restricted.isAllowed(1))
	assert.False(t, restricted.isAllowed(7))
}

func TestSuggestionResolvesAgainstItsOwnReply(t *testing.T) {
	telegram, bot := newTelegramFixture(t, config.Telegram{})
	ctx := context.Background()
	session := telegram.Sessions.GetOrCreate(ctx, telegramSessionID(42))

	require.NoError(t, telegram.sendChatReply(ctx, 42, session, "find go courses"))
	firstReplyID := bot.sentIDs[len(bot.sentIDs)-1]
	firstSuggestions := session.Messages()[2].Suggestions
	require.NotEmpty(t, firstSuggestions)

	require.NoError(t, telegram.sendChatReply(ctx, 42, session, "what is a goroutine?"))
	secondReplyID := bot.sentIDs[len(bot.sentIDs)-1]
	secondSuggestions := session.Messages()[4].Suggestions
	require.NotEmpty(t, secondSuggestions)
	require.NotEqual(t, firstSuggestions[0], secondSuggestions[0])

	suggestion, ok := telegram.suggestion(42, firstReplyID, 0)
	assert.True(t, ok)
	assert.Equal(t, firstSuggestions[0], suggestion)

	suggestion, ok = telegram.suggestion(42, secondReplyID, 0)
	assert.True(t, ok)
	assert.Equal(t, secondSuggestions[0], suggestion)

	_, ok = telegram.suggestion(42, firstReplyID, len(firstSuggestions))
	assert.False(t, ok)
	_, ok = telegram.suggestion(7, firstReplyID, 0)
	assert.False(t, ok)
}

func TestRememberSuggestionsIsBounded(t *testing.T) {
	telegram, _ := newTelegramFixture(t, config.Telegram{})
	for id := 1; id <= suggestionRepliesPerChat+5; id++ {
		telegram.rememberSuggestions(42, id, []string{"s"})
	}

	assert.Len(t, telegram.suggestions[42], suggestionRepliesPerChat)
	_, ok := telegram.suggestion(42, 1, 0)
	assert.False(t, ok)
	_, ok = telegram.suggestion(42, suggestionRepliesPerChat+5, 0)
	assert.True(t, ok)
}

func TestTelegramSessionID(t *testing.T) {
	assert.Equal(t, "telegram_-100123", telegramSessionID(-100123))
}
