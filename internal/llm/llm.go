package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// Message is a single turn in a model conversation.
type Message struct {
	Role    string // "user" or "assistant"
	Content string
}

// Request describes one completion call to the model backend.
type Request struct {
	System      string
	Messages    []Message
	Temperature float64
	MaxTokens   int64
}

// Caller is the narrow model-backend contract the analysis pipeline depends
// on. Implementations return the completion's text content verbatim; callers
// are responsible for interpreting it.
type Caller interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Client wraps the Anthropic API.
type Client struct {
	api   *anthropic.Client
	model anthropic.Model
}

// NewClient creates an LLM client with the given API key and model.
func NewClient(apiKey, model string) *Client {
	opts := []option.RequestOption{}
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	client := anthropic.NewClient(opts...)
	return &Client{
		api:   &client,
		model: anthropic.Model(model),
	}
}

// Complete sends the request to the Anthropic API and returns the text
// content of the completion with any markdown fencing stripped.
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = 4096
	}

	params := anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: maxTokens,
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	if req.Temperature > 0 {
		params.Temperature = anthropic.Float(req.Temperature)
	}
	for _, m := range req.Messages {
		block := anthropic.NewTextBlock(m.Content)
		if m.Role == "assistant" {
			params.Messages = append(params.Messages, anthropic.NewAssistantMessage(block))
		} else {
			params.Messages = append(params.Messages, anthropic.NewUserMessage(block))
		}
	}

	msg, err := c.api.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic API call: %w", err)
	}

	// Extract text from response
	var text string
	for _, block := range msg.Content {
		if block.Type == "text" {
			text = block.Text
			break
		}
	}

	if text == "" {
		return "", fmt.Errorf("no text content in API response")
	}

	return StripFencing(text), nil
}

// StripFencing removes a surrounding markdown code fence if present. Models
// frequently wrap JSON replies in ```json fences despite instructions not to.
func StripFencing(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		lines := strings.SplitN(text, "\n", 2)
		if len(lines) > 1 {
			text = lines[1]
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}
	return text
}
