// Package suggest asks a language model for instruction subtasks. It never fails: any
// problem with the remote call degrades to an empty list.
package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rs/zerolog/log"
)

// MaxSuggestions caps how many subtasks are returned
const MaxSuggestions = 5

const defaultModel = "claude-sonnet-4-5"

// Suggester proposes short imperative subtasks for a phase task
type Suggester interface {
	Suggest(ctx context.Context, title, description string) []string
}

// Noop never suggests anything. Used when no API key is configured.
type Noop struct{}

// Suggest returns an empty list
func (Noop) Suggest(context.Context, string, string) []string { return []string{} }

// completer sends a prompt and returns the raw text reply
type completer func(ctx context.Context, prompt string) (string, error)

// Client calls the Anthropic Messages API
type Client struct {
	complete completer
}

// NewClient creates a suggestion client. model defaults to Claude Sonnet.
func NewClient(apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY not set")
	}
	if model == "" {
		model = defaultModel
	}

	inner := anthropic.NewClient(option.WithAPIKey(apiKey))
	m := anthropic.Model(model)

	return &Client{
		complete: func(ctx context.Context, prompt string) (string, error) {
			resp, err := inner.Messages.New(ctx, anthropic.MessageNewParams{
				Model:     m,
				MaxTokens: int64(1024),
				Messages: []anthropic.MessageParam{
					anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
				},
			})
			if err != nil {
				return "", fmt.Errorf("claude API call: %w", err)
			}

			var text strings.Builder
			for _, block := range resp.Content {
				if block.Type == "text" {
					text.WriteString(block.Text)
				}
			}
			return text.String(), nil
		},
	}, nil
}

const suggestPrompt = `I am an interior architect. Suggest 3-5 short imperative subtasks for this drawing task.

Task: %q
Description: %s

Return ONLY a JSON array of strings. No markdown fences, no commentary.`

func buildPrompt(title, description string) string {
	if strings.TrimSpace(description) == "" {
		description = "(none)"
	}
	return fmt.Sprintf(suggestPrompt, title, description)
}

// Suggest returns up to MaxSuggestions subtasks, or an empty list on any failure
func (c *Client) Suggest(ctx context.Context, title, description string) []string {
	text, err := c.complete(ctx, buildPrompt(title, description))
	if err != nil {
		log.Warn().Err(err).Str("task", title).Msg("subtask suggestion failed")
		return []string{}
	}

	items, err := parseSuggestions(text)
	if err != nil {
		log.Warn().Err(err).Str("task", title).Msg("subtask suggestion unreadable")
		return []string{}
	}
	return items
}

// parseSuggestions decodes a JSON array of strings, dropping blanks
func parseSuggestions(text string) ([]string, error) {
	var raw []string
	if err := json.Unmarshal([]byte(stripJSONFences(text)), &raw); err != nil {
		return nil, fmt.Errorf("parse suggestions: %w", err)
	}

	items := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.Join(strings.Fields(s), " ")
		if s == "" {
			continue
		}
		items = append(items, s)
		if len(items) == MaxSuggestions {
			break
		}
	}
	return items, nil
}

// stripJSONFences removes markdown code fences that models sometimes add
func stripJSONFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx >= 0 {
			s = s[idx+1:]
		}
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}
	return s
}
