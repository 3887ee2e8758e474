package openai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"

	"a11y-backend/internal/llm"
)

const maxTokens = 2048

// Options configures the OpenAI provider.
type Options struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Client implements llm.Client using OpenAI chat completions with image parts.
type Client struct {
	api   *goopenai.Client
	model string
}

// NewClient constructs a new OpenAI client.
func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.Model) == "" {
		return nil, fmt.Errorf("LLM_MODEL is required for OpenAI")
	}
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	cfg := goopenai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	return &Client{api: goopenai.NewClientWithConfig(cfg), model: opts.Model}, nil
}

// Generate sends the prompt and any images as one user message.
func (c *Client) Generate(ctx context.Context, req llm.Request) (string, error) {
	messages := make([]goopenai.ChatCompletionMessage, 0, 2)
	if strings.TrimSpace(req.System) != "" {
		messages = append(messages, goopenai.ChatCompletionMessage{
			Role:    goopenai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, userMessage(req))

	chat := goopenai.ChatCompletionRequest{
		Model:    c.model,
		Messages: messages,
	}
	if req.JSON {
		chat.ResponseFormat = &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}
	// Reasoning models reject MaxTokens and a fixed temperature.
	if isReasoningModel(c.model) {
		chat.MaxCompletionTokens = maxTokens
	} else {
		chat.MaxTokens = maxTokens
		chat.Temperature = 0.2
	}

	resp, err := c.api.CreateChatCompletion(ctx, chat)
	if err != nil {
		return "", classify(req.Operation, err)
	}
	if len(resp.Choices) == 0 {
		return "", llm.Empty(req.Operation)
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", llm.Empty(req.Operation)
	}
	return content, nil
}

func userMessage(req llm.Request) goopenai.ChatCompletionMessage {
	if len(req.Images) == 0 {
		return goopenai.ChatCompletionMessage{Role: goopenai.ChatMessageRoleUser, Content: req.Prompt}
	}
	parts := []goopenai.ChatMessagePart{{Type: goopenai.ChatMessagePartTypeText, Text: req.Prompt}}
	for _, img := range req.Images {
		parts = append(parts, goopenai.ChatMessagePart{
			Type: goopenai.ChatMessagePartTypeImageURL,
			ImageURL: &goopenai.ChatMessageImageURL{
				URL:    DataURI(img.MimeType, img.Data),
				Detail: goopenai.ImageURLDetailAuto,
			},
		})
	}
	return goopenai.ChatCompletionMessage{Role: goopenai.ChatMessageRoleUser, MultiContent: parts}
}

// DataURI encodes bytes as a base64 data URI.
func DataURI(mimeType string, data []byte) string {
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func classify(op llm.Operation, err error) error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusGatewayTimeout {
		return &llm.ExternalError{Kind: llm.KindTimeout, Op: string(op), Err: err}
	}
	return llm.Classify(op, err)
}

func isReasoningModel(model string) bool {
	m := strings.ToLower(strings.TrimSpace(model))
	for _, prefix := range []string{"o1", "o3", "o4", "gpt-5"} {
		if strings.HasPrefix(m, prefix) {
			return true
		}
	}
	return false
}

var _ llm.Client = (*Client)(nil)
