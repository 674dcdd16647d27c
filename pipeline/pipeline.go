// Copyright (c) 2023-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ragserver/llm"
	"ragserver/logger"
	"ragserver/metrics"
	"ragserver/websearch"
)

// FallbackAnswer is returned when the completion backend fails. The caller
// still receives a success response, just with a degraded answer body.
const FallbackAnswer = "An error occurred while generating the answer."

// ErrInvalidQuery is returned for an empty or whitespace-only query before
// any remote call is made.
var ErrInvalidQuery = errors.New("query must not be empty")

const groundingPromptFormat = "Given the context below, answer the question:\n\nContext:\n%s\n\nQuestion:\n%s"

// ContentExtractor fetches a page and returns its plain-text rendering.
type ContentExtractor interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Answer is the outcome of a pipeline invocation. Degraded flags record
// which stages fell back to empty or default output; callers surface only
// the text.
type Answer struct {
	Text               string
	SearchDegraded     bool
	GenerationDegraded bool
	Sources            int
}

// Pipeline runs the search, extract, and generate stages in sequence for a
// single query. It holds no per-request state and is safe for concurrent use.
type Pipeline struct {
	search    websearch.Provider
	extractor ContentExtractor
	model     llm.LanguageModel
	logger    logger.Logger
	metrics   metrics.Metrics
}

// New creates a new Pipeline instance.
func New(search websearch.Provider, extractor ContentExtractor, model llm.LanguageModel, log logger.Logger, m metrics.Metrics) *Pipeline {
	return &Pipeline{
		search:    search,
		extractor: extractor,
		model:     model,
		logger:    log,
		metrics:   m,
	}
}

// AnswerQuery answers query by retrieving web results, extracting page
// content, and asking the completion backend to synthesize an answer
// grounded in it. A failing search or page fetch degrades to empty context
// and a failing completion degrades to FallbackAnswer; once the query
// validates, some Answer is always returned.
func (p *Pipeline) AnswerQuery(ctx context.Context, query string) (*Answer, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrInvalidQuery
	}

	answer := &Answer{}

	results := p.searchStage(ctx, query, answer)
	searchContext := p.buildContext(ctx, results, answer)
	p.generateStage(ctx, searchContext, query, answer)

	return answer, nil
}

// searchStage queries the search provider. Any provider failure degrades to
// an empty result set so the pipeline can still attempt generation.
func (p *Pipeline) searchStage(ctx context.Context, query string, answer *Answer) websearch.ResultSet {
	start := time.Now()
	results, err := p.search.Search(ctx, query)
	p.observeStage(metrics.StageSearch, time.Since(start))

	if err != nil {
		if p.logger != nil {
			p.logger.Warn("search failed, continuing with empty results", "error", err)
		}
		p.countDegraded(metrics.StageSearch)
		answer.SearchDegraded = true
		return websearch.ResultSet{}
	}

	return results
}

// buildContext fetches the content of each linked result and concatenates
// labeled text blocks. Results without a link are skipped entirely; a failed
// fetch contributes an empty block body.
func (p *Pipeline) buildContext(ctx context.Context, results websearch.ResultSet, answer *Answer) string {
	var sb strings.Builder
	for _, result := range results {
		if result.Link == "" {
			continue
		}

		if p.logger != nil {
			p.logger.Debug("fetching content", "title", result.Title, "link", result.Link)
		}

		start := time.Now()
		content, err := p.extractor.Fetch(ctx, result.Link)
		p.observeStage(metrics.StageExtract, time.Since(start))

		if err != nil {
			if p.logger != nil {
				p.logger.Warn("content fetch failed, continuing without it", "link", result.Link, "error", err)
			}
			p.countDegraded(metrics.StageExtract)
			content = ""
		}

		fmt.Fprintf(&sb, "Title: %s\n%s\n\n", result.Title, content)
		answer.Sources++
	}
	return sb.String()
}

// generateStage asks the completion backend for an answer grounded in
// searchContext. Any failure degrades to FallbackAnswer.
func (p *Pipeline) generateStage(ctx context.Context, searchContext, query string, answer *Answer) {
	prompt := fmt.Sprintf(groundingPromptFormat, searchContext, query)

	start := time.Now()
	text, err := p.model.Complete(ctx, prompt)
	p.observeStage(metrics.StageGenerate, time.Since(start))

	if err != nil {
		if p.logger != nil {
			p.logger.Error("answer generation failed, returning fallback", "error", err)
		}
		p.countDegraded(metrics.StageGenerate)
		answer.GenerationDegraded = true
		answer.Text = FallbackAnswer
		return
	}

	answer.Text = strings.TrimSpace(text)
}

func (p *Pipeline) observeStage(stage string, elapsed time.Duration) {
	if p.metrics != nil {
		p.metrics.ObserveStageDuration(stage, elapsed.Seconds())
	}
}

func (p *Pipeline) countDegraded(stage string) {
	if p.metrics != nil {
		p.metrics.IncrementStageDegraded(stage)
	}
}
