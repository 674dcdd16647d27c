// Copyright (c) 2023-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/shared"

	"ragserver/llm"
)

// OpenAI implements llm.LanguageModel using the OpenAI chat completions API.
type OpenAI struct {
	client       openai.Client
	defaultModel string
}

// New creates a new OpenAI client.
func New(config llm.ServiceConfig, httpClient *http.Client) *OpenAI {
	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
	}

	client := openai.NewClient(opts...)

	return &OpenAI{
		client:       client,
		defaultModel: config.DefaultModel,
	}
}

// NewCompatible creates a client for an OpenAI-compatible endpoint at a
// custom base URL.
func NewCompatible(config llm.ServiceConfig, httpClient *http.Client) *OpenAI {
	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
		option.WithHTTPClient(httpClient),
		option.WithBaseURL(strings.TrimSuffix(config.APIURL, "/")),
		option.WithMaxRetries(0),
	}

	client := openai.NewClient(opts...)

	return &OpenAI{
		client:       client,
		defaultModel: config.DefaultModel,
	}
}

// Complete sends prompt as a single user message and returns the first
// choice's message text with surrounding whitespace trimmed.
func (s *OpenAI) Complete(ctx context.Context, prompt string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: getModelConstant(s.defaultModel),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	}

	resp, err := s.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("chat completion request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// getModelConstant converts string model names to the SDK's model constants
func getModelConstant(model string) shared.ChatModel {
	switch model {
	case "gpt-4o":
		return shared.ChatModelGPT4o
	case "gpt-4o-mini":
		return shared.ChatModelGPT4oMini
	case "gpt-4-turbo":
		return shared.ChatModelGPT4Turbo
	case "gpt-4":
		return shared.ChatModelGPT4
	case "gpt-3.5-turbo":
		return shared.ChatModelGPT3_5Turbo
	default:
		// For custom models or newer versions, use the string as-is
		return model
	}
}
