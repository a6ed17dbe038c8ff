package openai

import (
	"context"
	"fmt"

	"reagent/internal/llm"

	openai "github.com/sashabaranov/go-openai"
)

type Client struct {
	client *openai.Client
	model  string
}

// NewClient creates a client for the given API key and model.
// If baseURL is non-empty it is used instead of the default OpenAI endpoint,
// which allows any OpenAI-compatible API to serve as the completion source.
func NewClient(apiKey, model, baseURL string) *Client {
	var client *openai.Client

	if baseURL != "" {
		config := openai.DefaultConfig(apiKey)
		config.BaseURL = baseURL
		client = openai.NewClientWithConfig(config)
	} else {
		client = openai.NewClient(apiKey)
	}

	return &Client{
		client: client,
		model:  model,
	}
}

// Complete sends the full transcript and returns the assistant's reply text.
func (c *Client) Complete(ctx context.Context, req *llm.CompletionRequest) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    c.convertMessages(req.Messages),
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}

func (c *Client) Provider() string {
	return "openai"
}

func (c *Client) Model() string {
	return c.model
}

func (c *Client) convertMessages(msgs []llm.Message) []openai.ChatCompletionMessage {
	result := make([]openai.ChatCompletionMessage, len(msgs))
	for i, msg := range msgs {
		result[i] = openai.ChatCompletionMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		}
	}
	return result
}
