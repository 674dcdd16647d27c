// Copyright (c) 2023-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"ragserver/logger"
)

const defaultBraveSearchEndpoint = "https://api.search.brave.com"

// BraveProvider implements the Provider interface for the Brave Search API.
type BraveProvider struct {
	apiKey     string
	apiURL     string
	httpClient *http.Client
	logger     logger.Logger
}

// NewBraveProvider creates a new BraveProvider instance.
func NewBraveProvider(apiKey, apiURL string, httpClient *http.Client, log logger.Logger) *BraveProvider {
	if apiURL == "" {
		apiURL = defaultBraveSearchEndpoint
	}
	return &BraveProvider{
		apiKey:     apiKey,
		apiURL:     apiURL,
		httpClient: httpClient,
		logger:     log,
	}
}

// Search performs a Brave web search and returns at most MaxResults results.
func (b *BraveProvider) Search(ctx context.Context, query string) (ResultSet, error) {
	webSearchURL := fmt.Sprintf("%s/res/v1/web/search", strings.TrimSuffix(b.apiURL, "/"))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, webSearchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create web search request: %w", err)
	}

	values := url.Values{}
	values.Set("q", query)
	values.Set("count", strconv.Itoa(MaxResults))
	req.URL.RawQuery = values.Encode()
	req.Header.Set("X-Subscription-Token", b.apiKey)
	req.Header.Set("Accept", "application/json")

	client := b.httpClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		if b.logger != nil {
			b.logger.Error("brave web search request failed", "error", err)
		}
		return nil, fmt.Errorf("brave web search request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("brave web search request failed: status %s", resp.Status)
	}

	var webSearchResp braveWebSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&webSearchResp); err != nil {
		return nil, fmt.Errorf("failed to decode brave web search response: %w", err)
	}

	results := make(ResultSet, 0, MaxResults)
	for i, item := range webSearchResp.Web.Results {
		if i >= MaxResults {
			break
		}
		title := strings.TrimSpace(item.Title)
		if title == "" {
			title = missingTitlePlaceholder
		}
		results = append(results, SearchResult{
			Title:   title,
			Link:    strings.TrimSpace(item.URL),
			Snippet: strings.TrimSpace(item.Description),
		})
	}
	return results, nil
}

type braveWebSearchResponse struct {
	Web struct {
		Results []struct {
			Title       string `json:"title"`
			URL         string `json:"url"`
			Description string `json:"description"`
		} `json:"results"`
	} `json:"web"`
}
