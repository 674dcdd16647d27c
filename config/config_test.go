// Copyright (c) 2023-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		HTTPPort:       8080,
		HTTPBindAddr:   "127.0.0.1",
		SearchProvider: SearchProviderSerper,
		SerperAPIKey:   "serper-key",
		LLMProvider:    LLMProviderOpenAI,
		OpenAIAPIKey:   "openai-key",
		DefaultModel:   "gpt-3.5-turbo",
		RequestTimeout: 30 * time.Second,
	}
}

func TestValidate(t *testing.T) {
	t.Run("valid configuration", func(t *testing.T) {
		cfg := validConfig()
		require.NoError(t, cfg.Validate())
	})

	t.Run("missing search credentials", func(t *testing.T) {
		cfg := validConfig()
		cfg.SerperAPIKey = ""
		require.Error(t, cfg.Validate())
	})

	t.Run("missing llm credentials", func(t *testing.T) {
		cfg := validConfig()
		cfg.OpenAIAPIKey = ""
		require.Error(t, cfg.Validate())
	})

	t.Run("alternate providers require their own keys", func(t *testing.T) {
		cfg := validConfig()
		cfg.SearchProvider = SearchProviderBrave
		require.Error(t, cfg.Validate())

		cfg.BraveAPIKey = "brave-key"
		require.NoError(t, cfg.Validate())

		cfg.LLMProvider = LLMProviderAnthropic
		require.Error(t, cfg.Validate())

		cfg.AnthropicAPIKey = "anthropic-key"
		cfg.DefaultModel = "claude-sonnet-4-0"
		require.NoError(t, cfg.Validate())
	})

	t.Run("unknown providers rejected", func(t *testing.T) {
		cfg := validConfig()
		cfg.SearchProvider = "duckduckgo"
		require.Error(t, cfg.Validate())

		cfg = validConfig()
		cfg.LLMProvider = "bedrock"
		require.Error(t, cfg.Validate())
	})

	t.Run("transport settings validated", func(t *testing.T) {
		cfg := validConfig()
		cfg.HTTPPort = 0
		require.Error(t, cfg.Validate())

		cfg = validConfig()
		cfg.HTTPBindAddr = ""
		require.Error(t, cfg.Validate())

		cfg = validConfig()
		cfg.RequestTimeout = 0
		require.Error(t, cfg.Validate())
	})
}
