package ai_backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/iamvkosarev/learning-assistant/config"
	"github.com/iamvkosarev/learning-assistant/internal/model"
)

const chatPath = "/api/ai/chat"

var (
	ErrRequestFailed   = errors.New("ai backend request failed")
	ErrUnsuccessful    = errors.New("ai backend returned unsuccessful response")
	ErrMalformedResult = errors.New("ai backend returned malformed response")
)

type chatContext struct {
	UserName      string               `json:"userName"`
	UserLevel     string               `json:"userLevel"`
	Interests     []string             `json:"interests"`
	SearchResults []model.SearchResult `json:"searchResults,omitempty"`
}

type chatRequest struct {
	Message  string         `json:"message"`
	Provider model.Provider `json:"provider"`
	Context  chatContext    `json:"context"`
}

type chatResponse struct {
	Success     bool            `json:"success"`
	Response    string          `json:"response"`
	Provider    string          `json:"provider"`
	Suggestions []string        `json:"suggestions"`
	Data        json.RawMessage `json:"data"`
	Error       string          `json:"error"`
}

type Client struct {
	client *resty.Client
}

func NewClient(cfg config.AI) *Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}
	return &Client{client: client}
}

func (c *Client) Ask(ctx context.Context, req model.AIRequest) (model.AIReply, error) {
	body := chatRequest{
		Message:  req.Message,
		Provider: req.Provider,
		Context: chatContext{
			UserName:      "User",
			UserLevel:     "beginner",
			Interests:     []string{},
			SearchResults: req.SearchResults,
		},
	}

	res, err := c.client.R().
		SetContext(ctx).
		SetBody(body).
		Post(chatPath)
	if err != nil {
		return model.AIReply{}, fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	if !res.IsSuccess() {
		return model.AIReply{}, fmt.Errorf("%w: status %d", ErrRequestFailed, res.StatusCode())
	}

	var chatRes chatResponse
	if err = json.Unmarshal(res.Body(), &chatRes); err != nil {
		return model.AIReply{}, fmt.Errorf("%w: %w", ErrMalformedResult, err)
	}
	if !chatRes.Success {
		if chatRes.Error == "" {
			return model.AIReply{}, ErrUnsuccessful
		}
		return model.AIReply{}, fmt.Errorf("%w: %s", ErrUnsuccessful, chatRes.Error)
	}
	if strings.TrimSpace(chatRes.Response) == "" {
		return model.AIReply{}, fmt.Errorf("%w: empty response", ErrMalformedResult)
	}

	return model.AIReply{
		Text:        chatRes.Response,
		Provider:    chatRes.Provider,
		Suggestions: chatRes.Suggestions,
		Data:        chatRes.Data,
	}, nil
}
