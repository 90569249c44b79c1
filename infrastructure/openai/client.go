package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// ErrEmptyPrompt is returned when there is nothing to send.
var ErrEmptyPrompt = errors.New("prompt is empty")

const (
	askSystemPrompt = "You are a friendly assistant in a Discord community server. " +
		"Answer concisely; replies must fit in a single chat message."
	translateSystemPrompt = "Translate the user's message into %s. Reply with the translation only."
	maxReplyLength        = 1900
)

// Client answers questions and translates text through the chat completion API.
type Client struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
}

// NewClient creates a client for the public API.
func NewClient(apiKey, model string) *Client {
	return NewClientWithConfig(openai.DefaultConfig(apiKey), model)
}

// NewClientWithConfig creates a client with a custom transport config, e.g. a test BaseURL.
func NewClientWithConfig(cfg openai.ClientConfig, model string) *Client {
	return &Client{
		client:      openai.NewClientWithConfig(cfg),
		model:       model,
		maxTokens:   600,
		temperature: 0.7,
	}
}

// Ask returns a short answer to question.
func (c *Client) Ask(ctx context.Context, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", ErrEmptyPrompt
	}
	return c.complete(ctx, askSystemPrompt, question, c.temperature)
}

// Translate renders text in the target language.
func (c *Client) Translate(ctx context.Context, text, language string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyPrompt
	}
	language = strings.TrimSpace(language)
	if language == "" {
		language = "English"
	}
	return c.complete(ctx, fmt.Sprintf(translateSystemPrompt, language), text, 0)
}

func (c *Client) complete(ctx context.Context, system, prompt string, temperature float32) (string, error) {
	resp, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: c.model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: system},
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
			MaxTokens:   c.maxTokens,
			Temperature: temperature,
		},
	)
	if err != nil {
		return "", fmt.Errorf("ChatCompletion error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}

	reply := strings.TrimSpace(resp.Choices[0].Message.Content)
	if r := []rune(reply); len(r) > maxReplyLength {
		reply = string(r[:maxReplyLength]) + "…"
	}
	return reply, nil
}
