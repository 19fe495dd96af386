package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"time"

	api "github.com/OvyFlash/telegram-bot-api"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/iamvkosarev/learning-assistant/config"
	chat_api "github.com/iamvkosarev/learning-assistant/internal/api"
	ai_backend "github.com/iamvkosarev/learning-assistant/internal/client/ai-backend"
	course_api "github.com/iamvkosarev/learning-assistant/internal/client/course-api"
	"github.com/iamvkosarev/learning-assistant/internal/logging"
	in_memory "github.com/iamvkosarev/learning-assistant/internal/storage/in-memory"
	key_value "github.com/iamvkosarev/learning-assistant/internal/storage/key-value"
	"github.com/iamvkosarev/learning-assistant/internal/usecase"
	"github.com/redis/go-redis/v9"
	"github.com/sourcegraph/conc/pool"
)

const shutdownTimeout = 10 * time.Second

var ErrUnknownAIMode = errors.New("unknown ai mode")

// Run wires the assistant and serves the HTTP API, plus the Telegram bot
// when a token is configured, until ctx is done or one of them fails.
func Run(ctx context.Context, cfg *config.Config) error {
	logger := logging.New(cfg.Log.Level, os.Stdout)
	logging.SetDefault(logger)
	ctx = logging.With(ctx, logger)

	historyStorage, closeStorage, err := newHistoryStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStorage()

	responder, err := newAIResponder(cfg)
	if err != nil {
		return err
	}

	chatUsecase := usecase.NewChatUsecase(
		usecase.ChatUsecaseDeps{
			HistoryStorage: historyStorage,
			Courses:        course_api.NewClient(cfg.Courses),
			AI:             responder,
		}, cfg.Chat,
	)
	sessions := usecase.NewSessionPool(chatUsecase, cfg.Chat.MaxSessions)

	var telegramUsecase *usecase.TelegramUsecase
	if cfg.Telegram.TelegramAPIToken != "" {
		telegramUsecase, err = newTelegramUsecase(ctx, cfg.Telegram, sessions)
		if err != nil {
			return err
		}
	} else {
		logger.Info("telegram token is not set, bot disabled")
	}

	server := &http.Server{
		Addr:    ":" + cfg.HTTP.Port,
		Handler: NewRouter(cfg.HTTP, logger, sessions),
	}

	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(
		func(ctx context.Context) error {
			logger.Info("http server started", "addr", server.Addr, "ai_mode", cfg.AI.Mode)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("failed to serve http: %w", err)
			}
			return nil
		},
	)
	p.Go(
		func(ctx context.Context) error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("failed to shutdown http server: %w", err)
			}
			logger.Info("http server stopped")
			return nil
		},
	)
	if telegramUsecase != nil {
		p.Go(telegramUsecase.Run)
	}

	return p.Wait()
}

func NewRouter(cfg config.HTTP, logger *slog.Logger, sessions *usecase.SessionPool) http.Handler {
	r := chi.NewRouter()

	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.Middleware(logger))
	r.Use(middleware.Recoverer)
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}

	chat_api.NewChatService(sessions).AddRoutes(r)
	return r
}

func newHistoryStorage(ctx context.Context, cfg *config.Config) (usecase.HistoryStorage, func(), error) {
	if cfg.Redis.Endpoint == "" {
		logging.From(ctx).Warn("redis endpoint is not set, chat history is kept in memory")
		return in_memory.NewHistoryStorage(cfg.Chat.HistoryCap), func() {}, nil
	}

	rdb := redis.NewClient(
		&redis.Options{
			Addr:     cfg.Redis.Endpoint,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
	)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	closeStorage := func() {
		if err := rdb.Close(); err != nil {
			logging.From(ctx).Error("failed to close redis client", "error", err)
		}
	}
	return key_value.NewHistoryStorage(rdb, cfg.Chat.HistoryCap), closeStorage, nil
}

func newAIResponder(cfg *config.Config) (usecase.AIResponder, error) {
	switch cfg.AI.Mode {
	case config.AIModeBackend, "":
		return ai_backend.NewClient(cfg.AI), nil
	case config.AIModeOpenAI:
		openAICfg := cfg.OpenAI
		baseURL, err := url.JoinPath(openAICfg.OpenAIBaseURL, "/v1")
		if err != nil {
			return nil, fmt.Errorf("failed to build openai base url: %w", err)
		}
		openAICfg.OpenAIBaseURL = baseURL
		return usecase.NewOpenAIUsecase(openAICfg), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAIMode, cfg.AI.Mode)
	}
}

func newTelegramUsecase(
	ctx context.Context,
	cfg config.Telegram,
	sessions *usecase.SessionPool,
) (*usecase.TelegramUsecase, error) {
	bot, err := api.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create new bot: %w", err)
	}
	logging.From(ctx).Info("telegram bot authorized", "account", bot.Self.UserName)

	telegramUsecase, err := usecase.NewTelegramUsecase(
		cfg, usecase.TelegramUsecaseDeps{
			Sessions: sessions,
			Bot:      bot,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram usecase: %w", err)
	}
	return telegramUsecase, nil
}
