// Copyright (c) 2023-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package websearch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBraveProvider(t *testing.T) {
	t.Run("successful search returns results", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodGet, r.Method)
			require.Equal(t, "/res/v1/web/search", r.URL.Path)
			require.Equal(t, "test-key", r.Header.Get("X-Subscription-Token"))
			require.Equal(t, "golang programming", r.URL.Query().Get("q"))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"web": {
					"results": [
						{"title": "Go Programming Language", "url": "https://golang.org", "description": "Official Go website"},
						{"title": "  Go Tutorial  ", "url": " https://tour.golang.org ", "description": "Interactive Go tutorial"}
					]
				}
			}`))
		}))
		defer server.Close()

		provider := NewBraveProvider("test-key", server.URL, http.DefaultClient, nil)
		results, err := provider.Search(context.Background(), "golang programming")

		require.NoError(t, err)
		require.Len(t, results, 2)
		require.Equal(t, "Go Programming Language", results[0].Title)
		require.Equal(t, "https://golang.org", results[0].Link)
		require.Equal(t, "Official Go website", results[0].Snippet)
		require.Equal(t, "Go Tutorial", results[1].Title)
		require.Equal(t, "https://tour.golang.org", results[1].Link)
	})

	t.Run("caps results at MaxResults", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body := `{"web": {"results": [`
			for i := 0; i < 8; i++ {
				if i > 0 {
					body += ","
				}
				body += fmt.Sprintf(`{"title": "Result %d", "url": "https://example.com/%d"}`, i, i)
			}
			body += `]}}`
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(body))
		}))
		defer server.Close()

		provider := NewBraveProvider("test-key", server.URL, http.DefaultClient, nil)
		results, err := provider.Search(context.Background(), "anything")

		require.NoError(t, err)
		require.Len(t, results, MaxResults)
	})

	t.Run("handles empty results", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"web": {"results": []}}`))
		}))
		defer server.Close()

		provider := NewBraveProvider("test-key", server.URL, http.DefaultClient, nil)
		results, err := provider.Search(context.Background(), "nonexistent query")

		require.NoError(t, err)
		require.Empty(t, results)
	})

	t.Run("handles API error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		provider := NewBraveProvider("test-key", server.URL, http.DefaultClient, nil)
		results, err := provider.Search(context.Background(), "anything")

		require.Error(t, err)
		require.Nil(t, results)
	})
}
