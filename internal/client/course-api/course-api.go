package course_api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/iamvkosarev/learning-assistant/config"
	"github.com/iamvkosarev/learning-assistant/internal/model"
)

var (
	ErrRequestFailed   = errors.New("course api request failed")
	ErrUnsuccessful    = errors.New("course api returned unsuccessful response")
	ErrMalformedResult = errors.New("course api returned malformed response")
)

type searchResponse struct {
	Success bool           `json:"success"`
	Results []model.Course `json:"results"`
}

type listResponse struct {
	Success bool           `json:"success"`
	Data    []model.Course `json:"data"`
}

type Client struct {
	client     *resty.Client
	searchPath string
	listPath   string
}

func NewClient(cfg config.Courses) *Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetHeader("Accept", "application/json")
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}
	return &Client{
		client:     client,
		searchPath: cfg.SearchPath,
		listPath:   cfg.ListPath,
	}
}

func (c *Client) Search(ctx context.Context, query string) ([]model.Course, error) {
	res, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("q", query).
		Get(c.searchPath)
	if err != nil {
		return nil, fmt.Errorf("%w: search %q: %w", ErrRequestFailed, query, err)
	}
	if !res.IsSuccess() {
		return nil, fmt.Errorf("%w: search %q: status %d", ErrRequestFailed, query, res.StatusCode())
	}

	var body searchResponse
	if err = json.Unmarshal(res.Body(), &body); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResult, err)
	}
	if !body.Success {
		return nil, ErrUnsuccessful
	}
	return body.Results, nil
}

func (c *Client) ListCourses(ctx context.Context) ([]model.Course, error) {
	res, err := c.client.R().
		SetContext(ctx).
		Get(c.listPath)
	if err != nil {
		return nil, fmt.Errorf("%w: list courses: %w", ErrRequestFailed, err)
	}
	if !res.IsSuccess() {
		return nil, fmt.Errorf("%w: list courses: status %d", ErrRequestFailed, res.StatusCode())
	}

	var body listResponse
	if err = json.Unmarshal(res.Body(), &body); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResult, err)
	}
	if !body.Success {
		return nil, ErrUnsuccessful
	}
	return body.Data, nil
}
