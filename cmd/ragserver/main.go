// Copyright (c) 2023-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"ragserver/anthropic"
	"ragserver/api"
	"ragserver/config"
	"ragserver/llm"
	"ragserver/logger"
	"ragserver/metrics"
	"ragserver/openai"
	"ragserver/pipeline"
	"ragserver/webcontent"
	"ragserver/websearch"
)

const version = "0.1.0"

var (
	httpPort       int
	httpBindAddr   string
	searchProvider string
	llmProvider    string
	model          string
	timeoutSeconds int
	debug          bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ragserver",
		Short: "Web-grounded question answering service",
		Long: `ragserver answers free-text questions by retrieving live web search
results, extracting readable text from the linked pages, and asking an LLM
completion service to synthesize an answer grounded in that text.

Credentials are supplied via environment variables: SERPER_API_KEY or
BRAVE_API_KEY for search, OPENAI_API_KEY or ANTHROPIC_API_KEY for generation.`,
		Version: version,
		RunE:    runServer,
	}

	rootCmd.Flags().IntVar(&httpPort, "http-port", 8080, "Port for the HTTP server")
	rootCmd.Flags().StringVar(&httpBindAddr, "http-bind-addr", "127.0.0.1", "Bind address for the HTTP server (use 0.0.0.0 for all interfaces)")
	rootCmd.Flags().StringVar(&searchProvider, "search-provider", config.SearchProviderSerper, "Web search provider (serper or brave)")
	rootCmd.Flags().StringVar(&llmProvider, "llm-provider", config.LLMProviderOpenAI, "LLM completion provider (openai or anthropic)")
	rootCmd.Flags().StringVar(&model, "model", "gpt-3.5-turbo", "Model identifier for answer generation")
	rootCmd.Flags().IntVar(&timeoutSeconds, "request-timeout", int(config.DefaultRequestTimeout/time.Second), "Timeout in seconds for each outbound call")
	rootCmd.Flags().BoolVarP(&debug, "debug", "d", false, "Enable debug logging")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, args []string) error {
	log := logger.New(debug)

	cfg := config.FromEnv()
	cfg.HTTPPort = httpPort
	cfg.HTTPBindAddr = httpBindAddr
	cfg.SearchProvider = searchProvider
	cfg.LLMProvider = llmProvider
	cfg.DefaultModel = model
	cfg.RequestTimeout = time.Duration(timeoutSeconds) * time.Second
	cfg.Debug = debug

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		return fmt.Errorf("invalid configuration: %w", err)
	}

	httpClient := &http.Client{Timeout: cfg.RequestTimeout}

	search, err := newSearchProvider(cfg, httpClient, log)
	if err != nil {
		return err
	}

	languageModel, err := newLanguageModel(cfg, httpClient)
	if err != nil {
		return err
	}

	extractor := webcontent.NewExtractor(httpClient, log)
	m := metrics.NewMetrics()
	p := pipeline.New(search, extractor, languageModel, log, m)

	gin.SetMode(gin.ReleaseMode)
	handler := api.New(p, log, m)

	addr := fmt.Sprintf("%s:%d", cfg.HTTPBindAddr, cfg.HTTPPort)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * cfg.RequestTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server",
			"addr", addr,
			"search_provider", cfg.SearchProvider,
			"llm_provider", cfg.LLMProvider,
			"model", cfg.DefaultModel,
		)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown failed", "error", err)
			return fmt.Errorf("shutdown failed: %w", err)
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}

func newSearchProvider(cfg config.Config, httpClient *http.Client, log logger.Logger) (websearch.Provider, error) {
	switch cfg.SearchProvider {
	case config.SearchProviderSerper:
		return websearch.NewSerperProvider(cfg.SerperAPIKey, cfg.SerperAPIURL, httpClient, log), nil
	case config.SearchProviderBrave:
		return websearch.NewBraveProvider(cfg.BraveAPIKey, cfg.BraveAPIURL, httpClient, log), nil
	default:
		return nil, fmt.Errorf("unsupported search provider: %s", cfg.SearchProvider)
	}
}

func newLanguageModel(cfg config.Config, httpClient *http.Client) (llm.LanguageModel, error) {
	switch cfg.LLMProvider {
	case config.LLMProviderOpenAI:
		serviceConfig := llm.ServiceConfig{
			APIKey:       cfg.OpenAIAPIKey,
			APIURL:       cfg.OpenAIAPIURL,
			DefaultModel: cfg.DefaultModel,
		}
		if serviceConfig.APIURL != "" {
			return openai.NewCompatible(serviceConfig, httpClient), nil
		}
		return openai.New(serviceConfig, httpClient), nil
	case config.LLMProviderAnthropic:
		return anthropic.New(llm.ServiceConfig{
			APIKey:       cfg.AnthropicAPIKey,
			APIURL:       cfg.AnthropicAPIURL,
			DefaultModel: cfg.DefaultModel,
		}, httpClient), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.LLMProvider)
	}
}
