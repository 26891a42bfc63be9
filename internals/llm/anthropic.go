package llm

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const (
	DefaultModel     = anthropic.Model("claude-sonnet-4-20250514")
	DefaultMaxTokens = 4096
)

type Client struct {
	client    anthropic.Client
	model     anthropic.Model
	maxTokens int64
	reqOpts   []option.RequestOption
}

type Option func(*Client)

func WithModel(model anthropic.Model) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

func WithMaxTokens(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxTokens = n
		}
	}
}

// WithBaseURL points the client at a different API host, e.g. a proxy or a
// test server.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.reqOpts = append(c.reqOpts, option.WithBaseURL(url)) }
}

func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		model:     DefaultModel,
		maxTokens: DefaultMaxTokens,
	}
	for _, o := range opts {
		o(c)
	}
	c.client = anthropic.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, c.reqOpts...)...)
	return c
}

func (c *Client) Model() anthropic.Model { return c.model }

func (c *Client) CompleteWithTools(ctx context.Context, system string, messages []Message, tools []anthropic.ToolParam) (*anthropic.Message, error) {
	apiMessages, err := toAPIMessages(messages)
	if err != nil {
		return nil, err
	}

	params := anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: apiMessages,
	}
	for i := range tools {
		params.Tools = append(params.Tools, anthropic.ToolUnionParam{OfTool: &tools[i]})
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic api: %w", err)
	}
	return resp, nil
}

func toAPIMessages(messages []Message) ([]anthropic.MessageParam, error) {
	if len(messages) == 0 {
		return nil, fmt.Errorf("messages cannot be empty")
	}

	out := make([]anthropic.MessageParam, 0, len(messages))
	for i, m := range messages {
		switch m.Role {
		case "user":
			out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		case "assistant":
			out = append(out, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		default:
			return nil, fmt.Errorf("message[%d]: unknown role %q", i, m.Role)
		}
	}

	if last := out[len(out)-1]; last.Role != "user" {
		return nil, fmt.Errorf("last message must be from user, got %q", last.Role)
	}

	return out, nil
}
