// Copyright (c) 2023-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package anthropic

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	anthropicSDK "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"ragserver/llm"
)

const DefaultMaxTokens = 8192

// Anthropic implements llm.LanguageModel using the Anthropic messages API.
type Anthropic struct {
	client       anthropicSDK.Client
	defaultModel string
}

// New creates a new Anthropic client.
func New(config llm.ServiceConfig, httpClient *http.Client) *Anthropic {
	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
	}
	if config.APIURL != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimSuffix(config.APIURL, "/")))
	}

	client := anthropicSDK.NewClient(opts...)

	return &Anthropic{
		client:       client,
		defaultModel: config.DefaultModel,
	}
}

// Complete sends prompt as a single user message and returns the
// concatenated text blocks of the response, whitespace trimmed.
func (a *Anthropic) Complete(ctx context.Context, prompt string) (string, error) {
	params := anthropicSDK.MessageNewParams{
		Model:     anthropicSDK.Model(a.defaultModel),
		MaxTokens: DefaultMaxTokens,
		Messages: []anthropicSDK.MessageParam{
			anthropicSDK.NewUserMessage(anthropicSDK.NewTextBlock(prompt)),
		},
	}

	resp, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("message request failed: %w", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	if sb.Len() == 0 {
		return "", errors.New("message response contained no text")
	}

	return strings.TrimSpace(sb.String()), nil
}
