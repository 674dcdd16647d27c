// Copyright (c) 2023-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ragserver/logger"
	"ragserver/metrics"
	"ragserver/pipeline"
	"ragserver/public"
)

// QueryAnswerer is the pipeline surface the API depends on.
type QueryAnswerer interface {
	AnswerQuery(ctx context.Context, query string) (*pipeline.Answer, error)
}

// QueryRequest is the body of a query call.
type QueryRequest struct {
	Query string `json:"query"`
}

// QueryResponse carries the generated answer.
type QueryResponse struct {
	Answer string `json:"answer"`
}

// ErrorResponse carries an error message for client and server errors.
type ErrorResponse struct {
	Error string `json:"error"`
}

// API hosts the HTTP endpoints in front of the pipeline.
type API struct {
	engine   *gin.Engine
	pipeline QueryAnswerer
	logger   logger.Logger
	metrics  metrics.Metrics
}

// New creates a new API instance and registers all routes.
func New(p QueryAnswerer, log logger.Logger, m metrics.Metrics) *API {
	a := &API{
		engine:   gin.New(),
		pipeline: p,
		logger:   log,
		metrics:  m,
	}

	a.engine.Use(gin.Recovery())
	a.engine.Use(a.metricsMiddleware)

	a.engine.GET("/", a.handleIndex)
	a.engine.GET("/health", a.handleHealth)
	if m != nil {
		a.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(m.GetRegistry(), promhttp.HandlerOpts{})))
	}
	a.engine.POST("/api/v1/query", a.handleQuery)

	return a
}

// ServeHTTP implements http.Handler.
func (a *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.engine.ServeHTTP(w, r)
}

// handleQuery handles POST /api/v1/query. A missing or blank query is a
// client error and never reaches the pipeline; an unexpected pipeline error
// is a server error carrying the error's text.
func (a *API) handleQuery(c *gin.Context) {
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if strings.TrimSpace(req.Query) == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "query not provided"})
		return
	}

	answer, err := a.pipeline.AnswerQuery(c.Request.Context(), req.Query)
	if err != nil {
		if errors.Is(err, pipeline.ErrInvalidQuery) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		if a.logger != nil {
			a.logger.Error("query handling failed", "error", err)
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	if a.logger != nil {
		a.logger.Info("query answered",
			"sources", answer.Sources,
			"search_degraded", answer.SearchDegraded,
			"generation_degraded", answer.GenerationDegraded,
		)
	}

	c.JSON(http.StatusOK, QueryResponse{Answer: answer.Text})
}

func (a *API) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (a *API) handleIndex(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", public.IndexHTML)
}

// metricsMiddleware records request counts and handler latency.
func (a *API) metricsMiddleware(c *gin.Context) {
	if a.metrics == nil {
		c.Next()
		return
	}

	a.metrics.IncrementHTTPRequests()
	start := time.Now()

	c.Next()

	status := c.Writer.Status()
	if status >= http.StatusInternalServerError {
		a.metrics.IncrementHTTPErrors()
	}
	a.metrics.ObserveAPIEndpointDuration(c.FullPath(), c.Request.Method, strconv.Itoa(status), time.Since(start).Seconds())
}
