package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	api "github.com/OvyFlash/telegram-bot-api"
	"github.com/iamvkosarev/learning-assistant/config"
	"github.com/iamvkosarev/learning-assistant/internal/logging"
	"github.com/iamvkosarev/learning-assistant/internal/model"
	"github.com/iamvkosarev/learning-assistant/internal/view"
	"github.com/sourcegraph/conc"
)

const (
	MessageUserNoAccess       = "You are not allowed to use this bot"
	MessageCommandHelp        = "Ask me anything or search for courses. Use /provider to pick an AI provider, /test to check the AI connection, /clear to reset the conversation and /history to see recent exchanges."
	MessageCommandUnknown     = "I don't know that command"
	MessageSelectProvider     = "Select AI provider"
	MessageBusy               = "I'm still working on your previous message"
	MessageConversationClear  = "Conversation cleared"
	MessageSuggestionNotFound = "This suggestion is no longer available"

	CommandStart    = "start"
	CommandHelp     = "help"
	CommandProvider = "provider"
	CommandClear    = "clear"
	CommandTest     = "test"
	CommandHistory  = "history"

	callbackProviderPrefix   = "provider:"
	callbackSuggestionPrefix = "suggest:"

	suggestionRepliesPerChat = 20
)

type TelegramBot interface {
	Send(c api.Chattable) (api.Message, error)
	Request(c api.Chattable) (*api.APIResponse, error)
	GetUpdatesChan(config api.UpdateConfig) api.UpdatesChannel
	StopReceivingUpdates()
}

type TelegramUsecaseDeps struct {
	Sessions *SessionPool
	Bot      TelegramBot
}

// TelegramUsecase renders chat sessions into a Telegram conversation. Every
// Telegram chat maps to one session, so its history survives restarts.
type TelegramUsecase struct {
	TelegramUsecaseDeps
	cfg          config.Telegram
	allowedUsers map[int64]struct{}

	suggestionsMu sync.Mutex
	suggestions   map[int64][]suggestionReply
}

// suggestionReply is a sent reply whose inline keyboard holds suggestions.
type suggestionReply struct {
	messageID   int
	suggestions []string
}

func NewTelegramUsecase(cfg config.Telegram, deps TelegramUsecaseDeps) (*TelegramUsecase, error) {
	allowedUsers := make(map[int64]struct{}, len(cfg.AllowedTelegramID))
	for _, userID := range cfg.AllowedTelegramID {
		allowedUsers[userID] = struct{}{}
	}

	_, err := deps.Bot.Request(
		api.NewSetMyCommands(
			[]api.BotCommand{
				{
					Command:     CommandHelp,
					Description: "Get help",
				},
				{
					Command:     CommandProvider,
					Description: "Select AI provider",
				},
				{
					Command:     CommandClear,
					Description: "Clear the conversation",
				},
				{
					Command:     CommandTest,
					Description: "Test AI connection",
				},
				{
					Command:     CommandHistory,
					Description: "Show recent exchanges",
				},
			}...,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to set bot commands: %w", err)
	}

	return &TelegramUsecase{
		TelegramUsecaseDeps: deps,
		cfg:                 cfg,
		allowedUsers:        allowedUsers,
		suggestions:         make(map[int64][]suggestionReply),
	}, nil
}

func (t *TelegramUsecase) Run(ctx context.Context) error {
	u := api.NewUpdate(0)
	u.Timeout = 60

	updates := t.Bot.GetUpdatesChan(u)
	go func() {
		<-ctx.Done()
		t.Bot.StopReceivingUpdates()
	}()

	log := logging.From(ctx)
	for update := range updates {
		if update.Message != nil {
			if err := t.handleMessage(ctx, update); err != nil {
				log.Error("failed to handle message", "error", err)
			}
		}
		if update.CallbackQuery != nil {
			if err := t.handleCallbackQuery(ctx, update); err != nil {
				log.Error("failed to handle callback query", "error", err)
			}
		}
	}
	return nil
}

func (t *TelegramUsecase) handleMessage(ctx context.Context, update api.Update) error {
	chatID := update.Message.Chat.ID

	if !t.isAllowed(chatID) {
		t.sendMessageAndHandleErr(ctx, chatID, MessageUserNoAccess)
		return nil
	}

	session := t.Sessions.GetOrCreate(ctx, telegramSessionID(chatID))

	if update.Message.IsCommand() {
		switch update.Message.Command() {
		case CommandStart:
			messages := session.Messages()
			t.sendMessageAndHandleErr(ctx, chatID, messages[0].Text)
			t.sendMessageAndHandleErr(ctx, chatID, view.RenderStarters(ConversationStarters(), session.SearchHints()))
		case CommandHelp:
			t.sendMessageAndHandleErr(ctx, chatID, MessageCommandHelp)
		case CommandProvider:
			if err := t.sendSelectProviderKeyboard(chatID, session.Provider()); err != nil {
				return fmt.Errorf("failed to send select provider keyboard: %w", err)
			}
		case CommandClear:
			if err := session.Clear(); err != nil {
				t.sendMessageAndHandleErr(ctx, chatID, MessageBusy)
				return nil
			}
			t.sendMessageAndHandleErr(ctx, chatID, MessageConversationClear)
		case CommandTest:
			msg, err := session.TestConnection(ctx)
			if err != nil {
				t.sendMessageAndHandleErr(ctx, chatID, MessageBusy)
				return nil
			}
			t.sendMessageAndHandleErr(ctx, chatID, msg.Text)
		case CommandHistory:
			t.sendMessageAndHandleErr(ctx, chatID, view.RenderHistory(session.History()))
		default:
			t.sendMessageAndHandleErr(ctx, chatID, MessageCommandUnknown)
		}
		return nil
	}

	return t.sendChatReply(ctx, chatID, session, update.Message.Text)
}

func (t *TelegramUsecase) handleCallbackQuery(ctx context.Context, update api.Update) error {
	chatID := update.CallbackQuery.Message.Chat.ID
	data := update.CallbackQuery.Data
	callback := api.NewCallback(update.CallbackQuery.ID, "")
	if _, err := t.Bot.Request(callback); err != nil {
		return fmt.Errorf("failed to request callback: %w", err)
	}

	if !t.isAllowed(chatID) {
		t.sendMessageAndHandleErr(ctx, chatID, MessageUserNoAccess)
		return nil
	}
	session := t.Sessions.GetOrCreate(ctx, telegramSessionID(chatID))

	switch {
	case strings.HasPrefix(data, callbackProviderPrefix):
		provider, err := model.ParseProvider(strings.TrimPrefix(data, callbackProviderPrefix))
		if err != nil {
			return fmt.Errorf("failed to parse provider: %w", err)
		}
		msg, err := session.SwitchProvider(provider)
		if err != nil {
			t.sendMessageAndHandleErr(ctx, chatID, MessageBusy)
			return nil
		}
		t.sendMessageAndHandleErr(ctx, chatID, msg.Text)
	case strings.HasPrefix(data, callbackSuggestionPrefix):
		index, err := strconv.Atoi(strings.TrimPrefix(data, callbackSuggestionPrefix))
		if err != nil {
			return fmt.Errorf("failed to parse suggestion index: %w", err)
		}
		suggestion, ok := t.suggestion(chatID, update.CallbackQuery.Message.MessageID, index)
		if !ok {
			t.sendMessageAndHandleErr(ctx, chatID, MessageSuggestionNotFound)
			return nil
		}
		return t.sendChatReply(ctx, chatID, session, suggestion)
	default:
		return fmt.Errorf("unknown callback data %q", data)
	}
	return nil
}

func (t *TelegramUsecase) sendChatReply(ctx context.Context, chatID int64, session *Session, text string) error {
	var reply model.Message
	var sendErr error

	wg := conc.NewWaitGroup()
	wg.Go(
		func() {
			if _, err := t.Bot.Request(api.NewChatAction(chatID, api.ChatTyping)); err != nil {
				logging.From(ctx).Warn("failed to send chat action", "error", err)
			}
		},
	)
	wg.Go(
		func() {
			reply, sendErr = session.SendMessage(ctx, text)
		},
	)
	wg.Wait()

	if sendErr != nil {
		if errors.Is(sendErr, ErrRequestInFlight) {
			t.sendMessageAndHandleErr(ctx, chatID, MessageBusy)
			return nil
		}
		if errors.Is(sendErr, ErrEmptyMessage) {
			return nil
		}
		return fmt.Errorf("failed to send message: %w", sendErr)
	}

	if results := view.RenderSearchResults(session.SearchResults()); results != "" {
		t.sendMessageAndHandleErr(ctx, chatID, results)
	}

	msg := api.NewMessage(chatID, view.RenderMessage(reply))
	if len(reply.Suggestions) > 0 {
		msg.ReplyMarkup = suggestionsKeyboard(reply.Suggestions)
	}
	sent, err := t.Bot.Send(msg)
	if err != nil {
		return fmt.Errorf("failed to send reply to bot: %w", err)
	}
	if len(reply.Suggestions) > 0 {
		t.rememberSuggestions(chatID, sent.MessageID, reply.Suggestions)
	}
	return nil
}

// rememberSuggestions keeps the suggestions of the last replies per chat so
// a button resolves against the message it is attached to.
func (t *TelegramUsecase) rememberSuggestions(chatID int64, messageID int, suggestions []string) {
	t.suggestionsMu.Lock()
	defer t.suggestionsMu.Unlock()
	replies := append(t.suggestions[chatID], suggestionReply{messageID: messageID, suggestions: suggestions})
	if len(replies) > suggestionRepliesPerChat {
		replies = replies[len(replies)-suggestionRepliesPerChat:]
	}
	t.suggestions[chatID] = replies
}

func (t *TelegramUsecase) suggestion(chatID int64, messageID, index int) (string, bool) {
	t.suggestionsMu.Lock()
	defer t.suggestionsMu.Unlock()
	for _, reply := range t.suggestions[chatID] {
		if reply.messageID != messageID {
			continue
		}
		if index < 0 || index >= len(reply.suggestions) {
			return "", false
		}
		return reply.suggestions[index], true
	}
	return "", false
}

func (t *TelegramUsecase) sendSelectProviderKeyboard(chatID int64, current model.Provider) error {
	const maxButtonsInRow = 2
	inlineRows := make([][]api.InlineKeyboardButton, 0)
	inlineButtons := make([]api.InlineKeyboardButton, 0)
	for _, provider := range model.Providers {
		if len(inlineButtons) == maxButtonsInRow {
			inlineRows = append(inlineRows, inlineButtons)
			inlineButtons = make([]api.InlineKeyboardButton, 0)
		}
		label := provider.Title()
		if provider == current {
			label = "• " + label
		}
		inlineButtons = append(
			inlineButtons, api.NewInlineKeyboardButtonData(label, callbackProviderPrefix+string(provider)),
		)
	}
	inlineRows = append(inlineRows, inlineButtons)

	msg := api.NewMessage(chatID, MessageSelectProvider)
	msg.ReplyMarkup = api.NewInlineKeyboardMarkup(inlineRows...)
	if _, err := t.Bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send message to bot: %w", err)
	}
	return nil
}

func (t *TelegramUsecase) isAllowed(chatID int64) bool {
	if len(t.allowedUsers) == 0 {
		return true
	}
	_, ok := t.allowedUsers[chatID]
	return ok
}

func (t *TelegramUsecase) sendMessageAndHandleErr(ctx context.Context, chatID int64, message string) {
	if _, err := t.Bot.Send(api.NewMessage(chatID, message)); err != nil {
		logging.From(ctx).Error("failed to send message to bot", "chat_id", chatID, "error", err)
	}
}

func suggestionsKeyboard(suggestions []string) api.InlineKeyboardMarkup {
	rows := make([][]api.InlineKeyboardButton, 0, len(suggestions))
	for i, suggestion := range suggestions {
		rows = append(
			rows, []api.InlineKeyboardButton{
				api.NewInlineKeyboardButtonData(suggestion, callbackSuggestionPrefix+strconv.Itoa(i)),
			},
		)
	}
	return api.NewInlineKeyboardMarkup(rows...)
}

func telegramSessionID(chatID int64) string {
	return fmt.Sprintf("telegram_%d", chatID)
}
