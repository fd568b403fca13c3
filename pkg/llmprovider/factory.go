package llmprovider

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"query-gateway/config"
	"query-gateway/pkg/anthropic"
	"query-gateway/pkg/gemini"
	"query-gateway/pkg/log"
	"query-gateway/pkg/openaicompat"
)

const logPrefixInit = "pkg.llmprovider.InitializeProviders"

// InitializeProviders creates Provider instances from config.LLMConfig.
// Providers are sorted by ascending priority and disabled ones are skipped.
// A provider that fails to initialize is logged and skipped so the service
// can run on the remaining ones.
func InitializeProviders(ctx context.Context, cfg *config.LLMConfig, l log.Logger) ([]Provider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("LLM config is nil")
	}

	var enabled []config.ProviderConfig
	for _, p := range cfg.Providers {
		if p.Enabled {
			enabled = append(enabled, p)
		}
	}
	if len(enabled) == 0 {
		return nil, ErrNoProvidersConfigured
	}

	sort.SliceStable(enabled, func(i, j int) bool {
		return enabled[i].Priority < enabled[j].Priority
	})

	var (
		providers  []Provider
		initErrors []string
	)
	for _, p := range enabled {
		provider, err := createProvider(p)
		if err != nil {
			msg := fmt.Sprintf("provider %s (priority %d): %v", p.Name, p.Priority, err)
			initErrors = append(initErrors, msg)
			l.Warnf(ctx, "%s: skipping %s", logPrefixInit, msg)
			continue
		}
		providers = append(providers, provider)
	}

	if len(providers) == 0 {
		return nil, fmt.Errorf("no providers successfully initialized: %s", strings.Join(initErrors, "; "))
	}
	if len(initErrors) > 0 {
		l.Warnf(ctx, "%s: %d provider(s) failed to initialize, continuing with %d",
			logPrefixInit, len(initErrors), len(providers))
	}
	return providers, nil
}

// createProvider creates a concrete provider instance based on the provider config
func createProvider(cfg config.ProviderConfig) (Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	httpClient := &http.Client{}
	if cfg.Timeout != "" {
		d, err := time.ParseDuration(cfg.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout %q: %w", cfg.Timeout, err)
		}
		httpClient.Timeout = d
	}

	switch strings.ToLower(cfg.Name) {
	case "anthropic", "claude":
		client, err := anthropic.New(anthropic.Config{
			APIKey: cfg.APIKey, Model: cfg.Model, BaseURL: cfg.BaseURL, HTTPClient: httpClient,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create anthropic client: %w", err)
		}
		return NewAnthropicAdapter(client), nil

	case "gemini":
		client, err := gemini.New(gemini.Config{
			APIKey: cfg.APIKey, Model: cfg.Model, APIURL: cfg.BaseURL, HTTPClient: httpClient,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini client: %w", err)
		}
		return NewGeminiAdapter(client), nil

	case "qwen", "alibaba", "deepseek", "openai":
		vendor := strings.ToLower(cfg.Name)
		if vendor == "alibaba" {
			vendor = "qwen"
		}
		client, err := openaicompat.New(openaicompat.Config{
			Vendor: vendor, APIKey: cfg.APIKey, Model: cfg.Model, BaseURL: cfg.BaseURL, HTTPClient: httpClient,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create %s client: %w", vendor, err)
		}
		return NewOpenAICompatAdapter(client), nil

	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Name)
	}
}
