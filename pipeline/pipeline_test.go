// Copyright (c) 2023-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"ragserver/websearch"
)

type fakeSearch struct {
	results websearch.ResultSet
	err     error
	calls   int
}

func (f *fakeSearch) Search(ctx context.Context, query string) (websearch.ResultSet, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

type fakeExtractor struct {
	content map[string]string
	err     error
	calls   []string
}

func (f *fakeExtractor) Fetch(ctx context.Context, url string) (string, error) {
	f.calls = append(f.calls, url)
	if f.err != nil {
		return "", f.err
	}
	return f.content[url], nil
}

type fakeModel struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeModel) Complete(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func TestAnswerQuery(t *testing.T) {
	t.Run("rejects empty query before any remote call", func(t *testing.T) {
		search := &fakeSearch{}
		extractor := &fakeExtractor{}
		model := &fakeModel{}
		p := New(search, extractor, model, nil, nil)

		for _, query := range []string{"", "   ", "\t\n"} {
			answer, err := p.AnswerQuery(context.Background(), query)
			require.ErrorIs(t, err, ErrInvalidQuery)
			require.Nil(t, answer)
		}

		require.Zero(t, search.calls)
		require.Empty(t, extractor.calls)
		require.Empty(t, model.prompts)
	})

	t.Run("grounds the prompt in extracted content", func(t *testing.T) {
		search := &fakeSearch{results: websearch.ResultSet{
			{Title: "France", Link: "https://example.com/france", Snippet: "..."},
		}}
		extractor := &fakeExtractor{content: map[string]string{
			"https://example.com/france": "France\nParis is the capital of France.\n",
		}}
		model := &fakeModel{response: "Paris"}
		p := New(search, extractor, model, nil, nil)

		answer, err := p.AnswerQuery(context.Background(), "capital of France")
		require.NoError(t, err)
		require.Equal(t, "Paris", answer.Text)
		require.Equal(t, 1, answer.Sources)

		require.Len(t, model.prompts, 1)
		prompt := model.prompts[0]
		require.Contains(t, prompt, "Title: France\nFrance\nParis is the capital of France.\n\n\n")
		require.Contains(t, prompt, "capital of France")
	})

	t.Run("skips results without a link", func(t *testing.T) {
		search := &fakeSearch{results: websearch.ResultSet{
			{Title: "No Link", Link: "", Snippet: "..."},
			{Title: "Linked", Link: "https://example.com/page", Snippet: "..."},
		}}
		extractor := &fakeExtractor{content: map[string]string{
			"https://example.com/page": "page text",
		}}
		model := &fakeModel{response: "answer"}
		p := New(search, extractor, model, nil, nil)

		answer, err := p.AnswerQuery(context.Background(), "anything")
		require.NoError(t, err)
		require.Equal(t, 1, answer.Sources)

		require.Equal(t, []string{"https://example.com/page"}, extractor.calls)
		require.NotContains(t, model.prompts[0], "Title: No Link")
	})

	t.Run("search failure degrades to empty context", func(t *testing.T) {
		search := &fakeSearch{err: errors.New("status 500")}
		extractor := &fakeExtractor{}
		model := &fakeModel{response: "best effort"}
		p := New(search, extractor, model, nil, nil)

		answer, err := p.AnswerQuery(context.Background(), "anything")
		require.NoError(t, err)
		require.True(t, answer.SearchDegraded)
		require.Equal(t, "best effort", answer.Text)
		require.Zero(t, answer.Sources)

		require.Empty(t, extractor.calls)
		require.Len(t, model.prompts, 1)
		require.Contains(t, model.prompts[0], "Context:\n\n")
	})

	t.Run("page fetch failure degrades to an empty block", func(t *testing.T) {
		search := &fakeSearch{results: websearch.ResultSet{
			{Title: "Unreachable", Link: "https://example.com/down", Snippet: "..."},
		}}
		extractor := &fakeExtractor{err: errors.New("connection refused")}
		model := &fakeModel{response: "answer"}
		p := New(search, extractor, model, nil, nil)

		answer, err := p.AnswerQuery(context.Background(), "anything")
		require.NoError(t, err)
		require.Equal(t, "answer", answer.Text)
		require.Contains(t, model.prompts[0], "Title: Unreachable\n\n\n")
	})

	t.Run("generation failure returns the fallback answer", func(t *testing.T) {
		search := &fakeSearch{results: websearch.ResultSet{
			{Title: "France", Link: "https://example.com/france", Snippet: "..."},
		}}
		extractor := &fakeExtractor{content: map[string]string{}}
		model := &fakeModel{err: errors.New("auth error")}
		p := New(search, extractor, model, nil, nil)

		answer, err := p.AnswerQuery(context.Background(), "capital of France")
		require.NoError(t, err)
		require.True(t, answer.GenerationDegraded)
		require.Equal(t, FallbackAnswer, answer.Text)
	})

	t.Run("trims generated answer", func(t *testing.T) {
		search := &fakeSearch{}
		extractor := &fakeExtractor{}
		model := &fakeModel{response: "  Paris.  \n"}
		p := New(search, extractor, model, nil, nil)

		answer, err := p.AnswerQuery(context.Background(), "capital of France")
		require.NoError(t, err)
		require.Equal(t, "Paris.", answer.Text)
	})

	t.Run("query is trimmed before use", func(t *testing.T) {
		search := &fakeSearch{}
		extractor := &fakeExtractor{}
		model := &fakeModel{response: "answer"}
		p := New(search, extractor, model, nil, nil)

		_, err := p.AnswerQuery(context.Background(), "  capital of France  ")
		require.NoError(t, err)
		require.True(t, strings.HasSuffix(model.prompts[0], "Question:\ncapital of France"))
	})
}
