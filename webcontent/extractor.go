// Copyright (c) 2023-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package webcontent

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"ragserver/logger"
)

// Extractor fetches third-party pages and renders their headings and
// paragraphs as plain text. Pages carry no schema guarantee, so anything
// that fails to fetch or parse results in an error the caller can treat
// as "no content for this source".
type Extractor struct {
	httpClient *http.Client
	logger     logger.Logger
}

// NewExtractor creates a new Extractor instance.
func NewExtractor(httpClient *http.Client, log logger.Logger) *Extractor {
	return &Extractor{
		httpClient: httpClient,
		logger:     log,
	}
}

// Fetch performs an HTTP GET against pageURL and returns the text content of
// every h1, h2, h3 and p element in document order, each terminated by a
// newline, with leading and trailing whitespace trimmed from the whole.
func (e *Extractor) Fetch(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create page request: %w", err)
	}

	client := e.httpClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		if e.logger != nil {
			e.logger.Debug("page fetch failed", "url", pageURL, "error", err)
		}
		return "", fmt.Errorf("page fetch failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("page fetch failed: status %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse page: %w", err)
	}

	var sb strings.Builder
	doc.Find("h1, h2, h3, p").Each(func(_ int, s *goquery.Selection) {
		sb.WriteString(s.Text())
		sb.WriteString("\n")
	})

	return strings.TrimSpace(sb.String()), nil
}
