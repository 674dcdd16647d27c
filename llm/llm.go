// Copyright (c) 2023-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package llm

import (
	"context"
)

// ServiceConfig holds the configuration for an LLM completion backend.
type ServiceConfig struct {
	APIKey       string
	APIURL       string
	DefaultModel string
}

// LanguageModel is the interface completion backends implement. Complete
// sends a single-turn prompt and returns the generated text of the first
// completion choice.
type LanguageModel interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
