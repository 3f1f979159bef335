/*
Copyright © 2023 Zak Reynolds <zak.reynolds@zakjr.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

// Package llm wraps the chat completion API and the {reply, action} envelope
// the assistant answers with.
package llm

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

var ErrEmptyResponse = errors.New("model returned no choices")

type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float32
	// JSONMode asks the API for a json_object response format.
	JSONMode bool
}

type Client struct {
	api *openai.Client
	cfg Config
	log *zap.Logger
}

func New(cfg Config, log *zap.Logger) *Client {
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	return &Client{api: openai.NewClientWithConfig(oc), cfg: cfg, log: log.Named("llm")}
}

// WithModel returns a client sharing the connection but asking a different
// model, without JSON mode. Used for the transcript title call.
func (c *Client) WithModel(model string) *Client {
	cfg := c.cfg
	cfg.Model = model
	cfg.JSONMode = false
	return &Client{api: c.api, cfg: cfg, log: c.log}
}

// Complete sends system, then history, then prompt as the final user message,
// and returns the first choice's content.
func (c *Client) Complete(ctx context.Context, system string, history []openai.ChatCompletionMessage, prompt string) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: system})
	messages = append(messages, history...)
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: prompt})

	req := openai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		Messages:    messages,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	}
	if c.cfg.JSONMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject}
	}

	c.log.Debug("chat completion",
		zap.String("model", req.Model),
		zap.Int("messages", len(messages)),
		zap.Int("prompt_chars", len(prompt)),
	)
	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	c.log.Debug("chat completion done",
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
	)
	return resp.Choices[0].Message.Content, nil
}
