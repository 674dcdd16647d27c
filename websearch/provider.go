// Copyright (c) 2023-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package websearch

import (
	"context"
)

// MaxResults is the hard cap on the number of results a provider may return,
// regardless of how many the upstream API produced.
const MaxResults = 4

// SearchResult represents a single web search result.
type SearchResult struct {
	Title   string
	Link    string
	Snippet string
}

// ResultSet is an ordered list of search results, preserving the provider's
// relevance order.
type ResultSet []SearchResult

// Provider defines the interface for web search providers.
type Provider interface {
	Search(ctx context.Context, query string) (ResultSet, error)
}
