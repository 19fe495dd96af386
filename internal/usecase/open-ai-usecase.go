package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/iamvkosarev/learning-assistant/config"
	"github.com/iamvkosarev/learning-assistant/internal/logging"
	"github.com/iamvkosarev/learning-assistant/internal/model"
	openai_tools "github.com/iamvkosarev/learning-assistant/pkg/openai-tools"
	"github.com/sashabaranov/go-openai"
)

const (
	OpenAIRoleSystem    = "system"
	OpenAIRoleUser      = "user"
	OpenAIRoleAssistant = "assistant"

	openAISystemPrompt = "You are an AI learning assistant for an online learning platform. " +
		"Help users find courses, explain concepts and guide their learning journey. Keep answers short."
)

var ErrEmptyCompletion = errors.New("openai returned no choices")

type TokenCounter func(messages []openai.ChatCompletionMessage, model string) (int, error)

// OpenAIUsecase answers chat requests directly through an OpenAI-compatible
// API instead of the AI backend.
type OpenAIUsecase struct {
	cfg         config.OpenAI
	client      *openai.Client
	countTokens TokenCounter
}

func NewOpenAIUsecase(cfg config.OpenAI) *OpenAIUsecase {
	clientConfig := openai.DefaultConfig(cfg.OpenAIAPIKey)
	clientConfig.BaseURL = cfg.OpenAIBaseURL
	return &OpenAIUsecase{
		cfg:         cfg,
		client:      openai.NewClientWithConfig(clientConfig),
		countTokens: openai_tools.CountToken,
	}
}

func (o *OpenAIUsecase) WithTokenCounter(counter TokenCounter) *OpenAIUsecase {
	o.countTokens = counter
	return o
}

func (o *OpenAIUsecase) Ask(ctx context.Context, req model.AIRequest) (model.AIReply, error) {
	messageHistory := o.trimHistory(ctx, buildOpenAIMessages(req))

	resp, err := o.client.CreateChatCompletion(
		ctx, openai.ChatCompletionRequest{
			Model:       o.cfg.OpenAIModel,
			Temperature: o.cfg.ModelTemperature,
			TopP:        1,
			N:           1,
			Messages:    messageHistory,
		},
	)
	if err != nil {
		return model.AIReply{}, fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return model.AIReply{}, ErrEmptyCompletion
	}

	return model.AIReply{
		Text:     resp.Choices[0].Message.Content,
		Provider: string(model.ProviderOpenAI),
	}, nil
}

// trimHistory drops the oldest conversation turns until the prompt fits
// MaxPromptTokens. The system prompt and the current message are always kept.
func (o *OpenAIUsecase) trimHistory(
	ctx context.Context,
	messageHistory []openai.ChatCompletionMessage,
) []openai.ChatCompletionMessage {
	if o.cfg.MaxPromptTokens <= 0 {
		return messageHistory
	}
	for len(messageHistory) > 2 {
		tokenCount, err := o.countTokens(messageHistory, o.cfg.OpenAIModel)
		if err != nil {
			logging.From(ctx).Warn("failed to count tokens, sending prompt untrimmed", "error", err)
			break
		}
		if tokenCount < o.cfg.MaxPromptTokens {
			break
		}
		messageHistory = append(messageHistory[:1], messageHistory[2:]...)
		logging.From(ctx).Debug("history trimmed due to token limit", "tokens", tokenCount)
	}
	return messageHistory
}

func buildOpenAIMessages(req model.AIRequest) []openai.ChatCompletionMessage {
	messageHistory := make([]openai.ChatCompletionMessage, 0, 2*len(req.History)+2)
	messageHistory = append(
		messageHistory, openai.ChatCompletionMessage{
			Role:    OpenAIRoleSystem,
			Content: systemPrompt(req.SearchResults),
		},
	)
	for _, entry := range req.History {
		messageHistory = append(
			messageHistory,
			openai.ChatCompletionMessage{Role: OpenAIRoleUser, Content: entry.Message},
			openai.ChatCompletionMessage{Role: OpenAIRoleAssistant, Content: entry.Response},
		)
	}
	return append(
		messageHistory, openai.ChatCompletionMessage{
			Role:    OpenAIRoleUser,
			Content: req.Message,
		},
	)
}

func systemPrompt(results []model.SearchResult) string {
	if len(results) == 0 {
		return openAISystemPrompt
	}
	prompt := strings.Builder{}
	prompt.WriteString(openAISystemPrompt)
	prompt.WriteString("\n\nCourses matching the user's query:\n")
	for _, result := range results {
		prompt.WriteString(
			fmt.Sprintf(
				"- %s (%s, %s) by %s: %s\n",
				result.Title, result.Category, result.Level, result.Instructor, result.Description,
			),
		)
	}
	return prompt.String()
}
