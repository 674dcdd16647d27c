// Copyright (c) 2023-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package config

import (
	"fmt"
	"os"
	"time"
)

// Provider selector values.
const (
	SearchProviderSerper = "serper"
	SearchProviderBrave  = "brave"

	LLMProviderOpenAI    = "openai"
	LLMProviderAnthropic = "anthropic"
)

// DefaultRequestTimeout bounds every outbound call (search, page fetch, LLM).
const DefaultRequestTimeout = 30 * time.Second

// Config holds the process configuration. Credentials are loaded once at
// startup from the environment and treated as read-only; they must never be
// logged.
type Config struct {
	HTTPPort     int    `json:"http_port"`
	HTTPBindAddr string `json:"http_bind_addr"`

	SearchProvider string `json:"search_provider"`
	SerperAPIKey   string `json:"-"`
	SerperAPIURL   string `json:"serper_api_url"`
	BraveAPIKey    string `json:"-"`
	BraveAPIURL    string `json:"brave_api_url"`

	LLMProvider     string `json:"llm_provider"`
	OpenAIAPIKey    string `json:"-"`
	OpenAIAPIURL    string `json:"openai_api_url"`
	AnthropicAPIKey string `json:"-"`
	AnthropicAPIURL string `json:"anthropic_api_url"`
	DefaultModel    string `json:"default_model"`

	RequestTimeout time.Duration `json:"request_timeout"`
	Debug          bool          `json:"debug"`
}

// FromEnv loads the credential and endpoint configuration from environment
// variables on top of defaults. Transport settings come from flags in cmd.
func FromEnv() Config {
	return Config{
		HTTPPort:        8080,
		HTTPBindAddr:    "127.0.0.1",
		SearchProvider:  SearchProviderSerper,
		SerperAPIKey:    os.Getenv("SERPER_API_KEY"),
		SerperAPIURL:    os.Getenv("SERPER_API_URL"),
		BraveAPIKey:     os.Getenv("BRAVE_API_KEY"),
		BraveAPIURL:     os.Getenv("BRAVE_API_URL"),
		LLMProvider:     LLMProviderOpenAI,
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		OpenAIAPIURL:    os.Getenv("OPENAI_API_URL"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicAPIURL: os.Getenv("ANTHROPIC_API_URL"),
		DefaultModel:    "gpt-3.5-turbo",
		RequestTimeout:  DefaultRequestTimeout,
	}
}

// Validate checks that the selected providers have the configuration they
// need before any server starts.
func (c *Config) Validate() error {
	if c.HTTPPort <= 0 {
		return fmt.Errorf("http port must be greater than 0")
	}
	if c.HTTPBindAddr == "" {
		return fmt.Errorf("http bind address cannot be empty")
	}

	switch c.SearchProvider {
	case SearchProviderSerper:
		if c.SerperAPIKey == "" {
			return fmt.Errorf("serper API key is required (set SERPER_API_KEY)")
		}
	case SearchProviderBrave:
		if c.BraveAPIKey == "" {
			return fmt.Errorf("brave API key is required (set BRAVE_API_KEY)")
		}
	default:
		return fmt.Errorf("unknown search provider: %s", c.SearchProvider)
	}

	switch c.LLMProvider {
	case LLMProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("openai API key is required (set OPENAI_API_KEY)")
		}
	case LLMProviderAnthropic:
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("anthropic API key is required (set ANTHROPIC_API_KEY)")
		}
	default:
		return fmt.Errorf("unknown llm provider: %s", c.LLMProvider)
	}

	if c.DefaultModel == "" {
		return fmt.Errorf("default model cannot be empty")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be greater than 0")
	}

	return nil
}
