package in_memory

import (
	"context"
	"sync"

	"github.com/iamvkosarev/learning-assistant/internal/model"
)

type HistoryStorage struct {
	mu        sync.Mutex
	histories map[string][]model.ChatHistoryEntry
	cap       int
}

func NewHistoryStorage(historyCap int) *HistoryStorage {
	return &HistoryStorage{
		histories: make(map[string][]model.ChatHistoryEntry),
		cap:       historyCap,
	}
}

func (h *HistoryStorage) LoadHistory(_ context.Context, userID string) ([]model.ChatHistoryEntry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	entries := h.histories[userID]
	result := make([]model.ChatHistoryEntry, len(entries))
	copy(result, entries)
	return result, nil
}

func (h *HistoryStorage) AppendHistory(
	_ context.Context,
	entry model.ChatHistoryEntry,
) ([]model.ChatHistoryEntry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	entries := append(h.histories[entry.UserID], entry)
	entries = model.LastEntries(entries, h.cap)

	stored := make([]model.ChatHistoryEntry, len(entries))
	copy(stored, entries)
	h.histories[entry.UserID] = stored

	result := make([]model.ChatHistoryEntry, len(entries))
	copy(result, entries)
	return result, nil
}
