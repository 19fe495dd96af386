package key_value

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/iamvkosarev/learning-assistant/internal/logging"
	"github.com/iamvkosarev/learning-assistant/internal/model"
	"github.com/redis/go-redis/v9"
)

var (
	ErrHistoryDoesNotExist = errors.New("history does not exist")
	ErrHistoryCorrupted    = errors.New("history is corrupted")
)

type historyEntryInternal struct {
	UserID    string `json:"userId"`
	Message   string `json:"message"`
	Response  string `json:"response"`
	Provider  string `json:"provider"`
	Timestamp string `json:"timestamp"`
}

// HistoryStorage keeps one JSON array per user under chat_history_<userID>.
// Appends are read-modify-write and assume a single writer per key.
type HistoryStorage struct {
	rdb *redis.Client
	cap int
}

func NewHistoryStorage(rdb *redis.Client, historyCap int) *HistoryStorage {
	return &HistoryStorage{
		rdb: rdb,
		cap: historyCap,
	}
}

func (h *HistoryStorage) LoadHistory(ctx context.Context, userID string) ([]model.ChatHistoryEntry, error) {
	entriesInt, err := h.getHistoryInt(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrHistoryDoesNotExist) {
			return []model.ChatHistoryEntry{}, nil
		}
		if errors.Is(err, ErrHistoryCorrupted) {
			logging.From(ctx).Warn("ignoring corrupted chat history", "user_id", userID, "error", err)
			return []model.ChatHistoryEntry{}, nil
		}
		return nil, fmt.Errorf("failed to get history: %w", err)
	}

	entries := make([]model.ChatHistoryEntry, 0, len(entriesInt))
	for _, entryInt := range entriesInt {
		entries = append(entries, parseHistoryEntryInternal(entryInt))
	}
	return model.LastEntries(entries, h.cap), nil
}

func (h *HistoryStorage) AppendHistory(
	ctx context.Context,
	entry model.ChatHistoryEntry,
) ([]model.ChatHistoryEntry, error) {
	entries, err := h.LoadHistory(ctx, entry.UserID)
	if err != nil {
		return nil, err
	}
	entries = model.LastEntries(append(entries, entry), h.cap)

	entriesInt := make([]historyEntryInternal, 0, len(entries))
	for _, e := range entries {
		entriesInt = append(entriesInt, newHistoryEntryInternal(e))
	}
	if err = h.setHistoryInt(ctx, entry.UserID, entriesInt); err != nil {
		return nil, fmt.Errorf("failed to set history: %w", err)
	}
	return entries, nil
}

func (h *HistoryStorage) getHistoryInt(ctx context.Context, userID string) ([]historyEntryInternal, error) {
	historyKey := getHistoryKey(userID)
	historyRaw, err := h.rdb.Get(ctx, historyKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrHistoryDoesNotExist
		}
		return nil, fmt.Errorf("failed to get history %s: %w", historyKey, err)
	}
	var entriesInt []historyEntryInternal
	if err = json.Unmarshal([]byte(historyRaw), &entriesInt); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrHistoryCorrupted, historyKey, err)
	}
	return entriesInt, nil
}

func (h *HistoryStorage) setHistoryInt(ctx context.Context, userID string, entriesInt []historyEntryInternal) error {
	historyKey := getHistoryKey(userID)
	historyJSON, err := json.Marshal(entriesInt)
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}
	if err = h.rdb.Set(ctx, historyKey, string(historyJSON), 0).Err(); err != nil {
		return fmt.Errorf("failed to save history %s: %w", historyKey, err)
	}
	return nil
}

func newHistoryEntryInternal(entry model.ChatHistoryEntry) historyEntryInternal {
	return historyEntryInternal{
		UserID:    entry.UserID,
		Message:   entry.Message,
		Response:  entry.Response,
		Provider:  entry.Provider,
		Timestamp: entry.Timestamp.UTC().Format(time.RFC3339Nano),
	}
}

func parseHistoryEntryInternal(entryInt historyEntryInternal) model.ChatHistoryEntry {
	// An unparsable timestamp is kept as the zero time; the rest of the entry is still useful.
	timestamp, _ := time.Parse(time.RFC3339Nano, entryInt.Timestamp)
	return model.ChatHistoryEntry{
		UserID:    entryInt.UserID,
		Message:   entryInt.Message,
		Response:  entryInt.Response,
		Provider:  entryInt.Provider,
		Timestamp: timestamp,
	}
}

func getHistoryKey(userID string) string {
	return fmt.Sprintf("chat_history_%s", userID)
}
