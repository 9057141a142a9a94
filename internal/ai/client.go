// SPDX-License-Identifier: MIT

package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/rs/zerolog"

	"github.com/endulce/veci/internal/domain"
	"github.com/endulce/veci/internal/log"
	"github.com/endulce/veci/internal/metrics"
)

// Client implements Capability against any OpenAI-compatible chat endpoint.
// DeepSeek is the production target; the base URL selects the provider.
type Client struct {
	client openai.Client
	model  string
	menu   MenuSource
	logger zerolog.Logger
}

// NewClient builds a chat-completion backed Capability.
func NewClient(apiKey, baseURL, model string, menu MenuSource) *Client {
	return &Client{
		client: openai.NewClient(
			option.WithAPIKey(apiKey),
			option.WithBaseURL(baseURL),
		),
		model:  model,
		menu:   menu,
		logger: log.WithComponent("ai"),
	}
}

// ClassifyIntent labels the message with one of the fixed intent labels.
func (c *Client) ClassifyIntent(ctx context.Context, text string) (domain.Intent, error) {
	out, err := c.complete(ctx, []openai.ChatCompletionMessageParamUnion{
		openai.UserMessage(fmt.Sprintf(intentPrompt, text)),
	})
	if err != nil {
		metrics.AIErrorsTotal.WithLabelValues("classify").Inc()
		return domain.IntentOther, fmt.Errorf("ai: classify intent: %w", err)
	}
	return domain.ParseIntent(strings.ToLower(strings.TrimSpace(out))), nil
}

// GenerateReply answers in the shop persona with menu context and history.
func (c *Client) GenerateReply(ctx context.Context, text string, intent domain.Intent, history []domain.Turn) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+2)
	messages = append(messages, openai.SystemMessage(fmt.Sprintf(systemPrompt, c.menuContext())))
	for _, turn := range history {
		if turn.Speaker == domain.SpeakerAssistant {
			messages = append(messages, openai.AssistantMessage(turn.Text))
		} else {
			messages = append(messages, openai.UserMessage(turn.Text))
		}
	}
	messages = append(messages, openai.UserMessage(text))

	out, err := c.complete(ctx, messages)
	if err != nil {
		metrics.AIErrorsTotal.WithLabelValues("generate").Inc()
		return "", fmt.Errorf("ai: generate reply (intent=%s): %w", intent, err)
	}
	return strings.TrimSpace(out), nil
}

// ExtractDelta asks for JSON cart instructions and parses them leniently.
// A model that answers garbage produces an empty delta, not an error; only
// transport failures surface.
func (c *Client) ExtractDelta(ctx context.Context, text string, history []domain.Turn) (domain.Delta, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+1)
	for _, turn := range history {
		if turn.Speaker == domain.SpeakerAssistant {
			messages = append(messages, openai.AssistantMessage(turn.Text))
		} else {
			messages = append(messages, openai.UserMessage(turn.Text))
		}
	}
	messages = append(messages, openai.UserMessage(fmt.Sprintf(extractionPrompt, c.menuContext(), text)))

	out, err := c.complete(ctx, messages)
	if err != nil {
		metrics.AIErrorsTotal.WithLabelValues("extract").Inc()
		return domain.Delta{}, fmt.Errorf("ai: extract delta: %w", err)
	}

	delta := parseDelta(out)
	if delta.Empty() {
		c.logger.Debug().Str("raw", out).Msg("extraction produced no structured data")
	}
	return delta, nil
}

func (c *Client) complete(ctx context.Context, messages []openai.ChatCompletionMessageParamUnion) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.model),
		Messages:    messages,
		Temperature: openai.Float(0.1),
		MaxTokens:   openai.Int(1024),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion response")
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *Client) menuContext() string {
	if c.menu == nil {
		return ""
	}
	return c.menu.Content()
}
