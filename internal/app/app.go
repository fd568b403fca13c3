// Package app wires the collaborators of one gateway process from configuration.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"query-gateway/config"
	"query-gateway/internal/backend/llm"
	"query-gateway/internal/conversation"
	"query-gateway/internal/correction"
	"query-gateway/internal/gateway"
	"query-gateway/internal/querycache"
	"query-gateway/internal/querycache/repository"
	"query-gateway/internal/querycache/repository/sqlite"
	"query-gateway/internal/querycache/usecase"
	"query-gateway/internal/ratelimit"
	"query-gateway/internal/retrieval"
	"query-gateway/internal/retrieval/lexical"
	"query-gateway/internal/retrieval/vector"
	"query-gateway/internal/sqlstore"
	"query-gateway/internal/sqlstore/postgres"
	"query-gateway/pkg/llmprovider"
	"query-gateway/pkg/log"
	"query-gateway/pkg/qdrant"
	"query-gateway/pkg/voyage"
)

const (
	defaultRetryDelay   = time.Second
	defaultTotalTimeout = 2 * time.Minute
)

// App is a fully wired gateway.
type App struct {
	Gateway  gateway.Gateway
	Sessions *conversation.Registry
	Cache    querycache.Store
	DB       *sql.DB

	repo repository.Repository
}

// Close releases the database and the cache file.
func (a *App) Close() error {
	var errs []error
	if a.repo != nil {
		errs = append(errs, a.repo.Close())
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	return errors.Join(errs...)
}

// OpenCache opens only the cache and feedback store, for tools that inspect
// the ledger without talking to the backend.
func OpenCache(ctx context.Context, cfg *config.Config, l log.Logger) (querycache.Store, func() error, error) {
	repo, err := sqlite.New(ctx, cfg.Cache.Path, l)
	if err != nil {
		return nil, nil, fmt.Errorf("open cache: %w", err)
	}
	store, err := usecase.New(repo, usecase.Options{Enabled: cfg.Cache.Enabled, LRUSize: cfg.Cache.LRUSize}, l)
	if err != nil {
		_ = repo.Close()
		return nil, nil, err
	}
	return store, repo.Close, nil
}

// New builds every collaborator named by cfg.
func New(ctx context.Context, cfg *config.Config, l log.Logger) (*App, error) {
	a := &App{}
	ok := false
	defer func() {
		if !ok {
			_ = a.Close()
		}
	}()

	// 1. Relational store
	db, err := postgres.Open(ctx, cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	a.DB = db
	store := postgres.New(db, postgres.Options{
		StatementTimeout: cfg.Postgres.StatementTimeout,
		MaxRows:          cfg.Postgres.MaxRows,
	}, l)

	// 2. Cache and feedback ledger
	repo, err := sqlite.New(ctx, cfg.Cache.Path, l)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	a.repo = repo
	cache, err := usecase.New(repo, usecase.Options{Enabled: cfg.Cache.Enabled, LRUSize: cfg.Cache.LRUSize}, l)
	if err != nil {
		return nil, err
	}
	a.Cache = cache
	if !cfg.Cache.Enabled {
		l.Warn(ctx, "Query cache disabled, feedback is still recorded")
	}

	// 3. LLM providers
	providers, err := llmprovider.InitializeProviders(ctx, &cfg.LLM, l)
	if err != nil {
		return nil, fmt.Errorf("initialize llm providers: %w", err)
	}
	manager := llmprovider.NewManager(providers, &llmprovider.Config{
		FallbackEnabled: cfg.LLM.FallbackEnabled,
		RetryAttempts:   cfg.LLM.RetryAttempts,
		RetryDelay:      config.ParseDurationOr(cfg.LLM.RetryDelay, defaultRetryDelay),
		MaxTotalTimeout: config.ParseDurationOr(cfg.LLM.MaxTotalTimeout, defaultTotalTimeout),
	}, l)
	l.Infof(ctx, "LLM providers: %v", manager.Providers())
	b := llm.New(manager, llm.Options{Temperature: cfg.LLM.Temperature, MaxTokens: cfg.LLM.MaxTokens}, l)

	// 4. Example and value index
	index, err := buildIndex(ctx, cfg, store, l)
	if err != nil {
		return nil, err
	}

	// 5. Resolution
	machine := correction.New(b, cache, store, ratelimit.New(cfg.RateLimit.MinDelay), correction.Options{
		MaxCycles:    cfg.Correction.MaxCycles,
		MaxToolSteps: cfg.Correction.MaxToolSteps,
	}, l)
	a.Sessions = conversation.NewRegistry(cfg.Conversation.HistoryLimit, cfg.Conversation.SessionTTL, l)
	a.Gateway = gateway.New(machine, a.Sessions, index, store, gateway.Options{K: cfg.Retrieval.K}, l)

	ok = true
	return a, nil
}

// buildIndex seeds Qdrant when it and Voyage are configured and falls back to
// the in-memory index otherwise.
func buildIndex(ctx context.Context, cfg *config.Config, store sqlstore.Store, l log.Logger) (retrieval.Index, error) {
	exemplars, err := retrieval.LoadExemplars(cfg.Retrieval.ExamplesFile)
	if err != nil {
		return nil, err
	}
	seed, err := retrieval.BuildSeed(ctx, store, exemplars, cfg.Retrieval.CountryQuery)
	if err != nil {
		return nil, err
	}

	if cfg.Qdrant.URL == "" || cfg.Voyage.APIKey == "" {
		l.Info(ctx, "Qdrant or Voyage not configured, using the in-memory example index")
		return lexical.New(seed), nil
	}

	embedder, err := voyage.New(voyage.Config{APIKey: cfg.Voyage.APIKey})
	if err != nil {
		return nil, err
	}
	index := vector.New(qdrant.NewClient(cfg.Qdrant.URL), embedder, cfg.Qdrant.VectorSize, l)
	if err := index.Seed(ctx, seed); err != nil {
		l.Warnf(ctx, "Seeding Qdrant failed, using the in-memory example index: %v", err)
		return lexical.New(seed), nil
	}
	l.Infof(ctx, "Qdrant example index seeded with %d exemplars", len(seed.Exemplars))
	return index, nil
}
