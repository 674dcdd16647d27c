// Copyright (c) 2023-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"ragserver/logger"
)

const defaultSerperEndpoint = "https://google.serper.dev/search"

// Locale parameters are pinned to a single default market.
const (
	serperCountry  = "us"
	serperLanguage = "en"
)

const missingTitlePlaceholder = "No Title"

// SerperProvider implements the Provider interface for the Serper search API.
type SerperProvider struct {
	apiKey     string
	apiURL     string
	httpClient *http.Client
	logger     logger.Logger
}

// NewSerperProvider creates a new SerperProvider instance.
func NewSerperProvider(apiKey, apiURL string, httpClient *http.Client, log logger.Logger) *SerperProvider {
	if apiURL == "" {
		apiURL = defaultSerperEndpoint
	}
	return &SerperProvider{
		apiKey:     apiKey,
		apiURL:     apiURL,
		httpClient: httpClient,
		logger:     log,
	}
}

type serperRequest struct {
	Query    string `json:"q"`
	Country  string `json:"gl"`
	Language string `json:"hl"`
}

type serperItem struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

type serperResponse struct {
	Organic   []serperItem `json:"organic"`
	AnswerBox *serperItem  `json:"answerBox"`
}

// Search performs a Serper search and returns at most MaxResults results.
// When the organic list is empty but the provider produced an answer box, a
// single result is synthesized from the box.
func (s *SerperProvider) Search(ctx context.Context, query string) (ResultSet, error) {
	payload, err := json.Marshal(serperRequest{
		Query:    query,
		Country:  serperCountry,
		Language: serperLanguage,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}
	req.Header.Set("X-API-KEY", s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	client := s.httpClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("serper search request failed", "error", err)
		}
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search request failed: status %s", resp.Status)
	}

	var searchResp serperResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	if len(searchResp.Organic) > 0 {
		results := make(ResultSet, 0, MaxResults)
		for i, item := range searchResp.Organic {
			if i >= MaxResults {
				break
			}
			results = append(results, itemToResult(item))
		}
		return results, nil
	}

	if searchResp.AnswerBox != nil {
		return ResultSet{itemToResult(*searchResp.AnswerBox)}, nil
	}

	return ResultSet{}, nil
}

// itemToResult maps a provider item to a SearchResult, substituting a
// placeholder for a missing title. Link and snippet default to empty.
func itemToResult(item serperItem) SearchResult {
	title := item.Title
	if title == "" {
		title = missingTitlePlaceholder
	}
	return SearchResult{
		Title:   title,
		Link:    item.Link,
		Snippet: item.Snippet,
	}
}
