package usecase_test

import (
	"context"
	"sync"

	"github.com/iamvkosarev/learning-assistant/config"
	"github.com/iamvkosarev/learning-assistant/internal/model"
	in_memory "github.com/iamvkosarev/learning-assistant/internal/storage/in-memory"
	"github.com/iamvkosarev/learning-assistant/internal/usecase"
)

var testChatConfig = config.Chat{
	HistoryCap:       50,
	VisibleHistory:   10,
	MaxSearchResults: 5,
	MaxSuggestions:   3,
	MaxSessions:      10,
	Language:         "en",
}

type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(call string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, call)
}

func (l *callLog) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

type fakeCourses struct {
	log       *callLog
	search    []model.Course
	searchErr error
	list      []model.Course
	listErr   error
}

func (f *fakeCourses) Search(_ context.Context, query string) ([]model.Course, error) {
	f.log.add("search:" + query)
	return f.search, f.searchErr
}

func (f *fakeCourses) ListCourses(_ context.Context) ([]model.Course, error) {
	f.log.add("list")
	return f.list, f.listErr
}

type fakeAI struct {
	log     *callLog
	reply   model.AIReply
	err     error
	started chan struct{}
	release chan struct{}

	mu       sync.Mutex
	requests []model.AIRequest
}

func (f *fakeAI) Ask(ctx context.Context, req model.AIRequest) (model.AIReply, error) {
	f.log.add("ai:" + req.Message)
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return model.AIReply{}, ctx.Err()
		}
	}
	return f.reply, f.err
}

func (f *fakeAI) lastRequest() model.AIRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

type fixture struct {
	log     *callLog
	courses *fakeCourses
	ai      *fakeAI
	history *in_memory.HistoryStorage
	chat    *usecase.ChatUsecase
}

func newFixture() *fixture {
	log := &callLog{}
	f := &fixture{
		log:     log,
		courses: &fakeCourses{log: log},
		ai:      &fakeAI{log: log, reply: model.AIReply{Text: "Sure!", Provider: "openai"}},
		history: in_memory.NewHistoryStorage(testChatConfig.HistoryCap),
	}
	f.chat = usecase.NewChatUsecase(
		usecase.ChatUsecaseDeps{
			HistoryStorage: f.history,
			Courses:        f.courses,
			AI:             f.ai,
		}, testChatConfig,
	)
	return f
}
