package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	// Environment
	Environment EnvironmentConfig

	// Server
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig

	// Collaborators
	LLM      LLMConfig
	Postgres PostgresConfig
	Qdrant   QdrantConfig
	Voyage   VoyageConfig

	// Resolution
	Cache        CacheConfig
	RateLimit    RateLimitConfig
	Correction   CorrectionConfig
	Conversation ConversationConfig
	Retrieval    RetrievalConfig
}

type EnvironmentConfig struct {
	Name string `validate:"required"`
}

type HTTPServerConfig struct {
	Port            int    `validate:"required,min=1,max=65535"`
	Mode            string `validate:"required,oneof=debug release test"`
	RateLimitPerMin int    `validate:"min=0"`
}

type LoggerConfig struct {
	Level        string `validate:"required,oneof=debug info warn error dpanic panic fatal"`
	Mode         string `validate:"required"`
	Encoding     string `validate:"required,oneof=json console"`
	ColorEnabled bool
	FilePath     string
}

// PostgresConfig is the relational store queried on behalf of users.
type PostgresConfig struct {
	Host             string `validate:"required"`
	Port             int    `validate:"required"`
	User             string
	Password         string
	DBName           string `validate:"required"`
	SSLMode          string
	StatementTimeout time.Duration `validate:"min=0"`
	MaxRows          int           `validate:"min=1"`
}

// DSN builds a pgx connection string.
func (c PostgresConfig) DSN() string {
	sslmode := c.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, sslmode)
}

type QdrantConfig struct {
	URL        string
	VectorSize int `validate:"min=0"`
}

type VoyageConfig struct {
	APIKey string
}

// CacheConfig controls the executed-query cache. Enabled mirrors the
// ENABLE_CACHE switch; the feedback ledger is written either way.
type CacheConfig struct {
	Enabled bool
	Path    string `validate:"required"`
	LRUSize int    `validate:"min=0"`
}

type RateLimitConfig struct {
	MinDelay time.Duration `validate:"min=0"`
}

type CorrectionConfig struct {
	MaxCycles    int `validate:"min=1"`
	MaxToolSteps int `validate:"min=1"`
}

type ConversationConfig struct {
	HistoryLimit int           `validate:"min=1"`
	SessionTTL   time.Duration `validate:"min=0"`
}

type RetrievalConfig struct {
	K            int `validate:"min=1"`
	ExamplesFile string
	// CountryQuery returns the distinct values indexed for search_country.
	CountryQuery string
}

// LLMConfig holds configuration for the LLM provider abstraction layer
type LLMConfig struct {
	Providers       []ProviderConfig `yaml:"providers" validate:"dive"`
	FallbackEnabled bool             `yaml:"fallback_enabled"`
	RetryAttempts   int              `yaml:"retry_attempts" validate:"min=0"`
	RetryDelay      string           `yaml:"retry_delay"`
	MaxTotalTimeout string           `yaml:"max_total_timeout"` // bounds the whole fallback chain
	Temperature     float64          `yaml:"temperature" validate:"min=0,max=2"`
	MaxTokens       int              `yaml:"max_tokens" validate:"min=1"`
}

// ProviderConfig holds configuration for a single LLM provider
type ProviderConfig struct {
	Name     string `yaml:"name" validate:"required"`
	Enabled  bool   `yaml:"enabled"`
	Priority int    `yaml:"priority"`
	APIKey   string `yaml:"api_key"`
	BaseURL  string `yaml:"base_url,omitempty"`
	Model    string `yaml:"model"`
	Timeout  string `yaml:"timeout"`
}

// Load loads configuration using Viper.
// A .env file in the working directory is applied first.
// Config file name: config.yaml, searched in ./config, ., /etc/app/
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/app/")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return load(v)
}

// LoadFile loads configuration from an explicit file path.
func LoadFile(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	cfg := &Config{}

	// Environment & Server
	cfg.Environment.Name = v.GetString("environment.name")
	cfg.HTTPServer.Port = v.GetInt("http_server.port")
	cfg.HTTPServer.Mode = v.GetString("http_server.mode")
	cfg.HTTPServer.RateLimitPerMin = v.GetInt("http_server.rate_limit_per_min")
	cfg.Logger.Level = v.GetString("logger.level")
	cfg.Logger.Mode = v.GetString("logger.mode")
	cfg.Logger.Encoding = v.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = v.GetBool("logger.color_enabled")
	cfg.Logger.FilePath = v.GetString("logger.file_path")

	// Postgres: DB_* variables from the deployment take precedence
	cfg.Postgres.Host = firstNonEmpty(os.Getenv("DB_HOST"), v.GetString("postgres.host"))
	cfg.Postgres.Port = v.GetInt("postgres.port")
	cfg.Postgres.User = firstNonEmpty(os.Getenv("DB_USER"), v.GetString("postgres.user"))
	cfg.Postgres.Password = firstNonEmpty(os.Getenv("DB_PASSWORD"), v.GetString("postgres.password"))
	cfg.Postgres.DBName = firstNonEmpty(os.Getenv("DB_NAME"), v.GetString("postgres.dbname"))
	cfg.Postgres.SSLMode = v.GetString("postgres.sslmode")
	cfg.Postgres.StatementTimeout = v.GetDuration("postgres.statement_timeout")
	cfg.Postgres.MaxRows = v.GetInt("postgres.max_rows")

	// Retrieval index
	cfg.Qdrant.URL = firstNonEmpty(v.GetString("qdrant_url"), v.GetString("qdrant.url"))
	cfg.Qdrant.VectorSize = v.GetInt("qdrant.vector_size")
	cfg.Voyage.APIKey = firstNonEmpty(v.GetString("voyage_api_key"), v.GetString("voyage.api_key"))

	// Resolution
	cfg.Cache.Enabled = v.GetBool("cache.enabled")
	if raw := os.Getenv("ENABLE_CACHE"); raw != "" {
		cfg.Cache.Enabled = strings.EqualFold(raw, "true")
	}
	cfg.Cache.Path = v.GetString("cache.path")
	cfg.Cache.LRUSize = v.GetInt("cache.lru_size")
	cfg.RateLimit.MinDelay = v.GetDuration("rate_limit.min_delay")
	cfg.Correction.MaxCycles = v.GetInt("correction.max_cycles")
	cfg.Correction.MaxToolSteps = v.GetInt("correction.max_tool_steps")
	cfg.Conversation.HistoryLimit = v.GetInt("conversation.history_limit")
	cfg.Conversation.SessionTTL = v.GetDuration("conversation.session_ttl")
	cfg.Retrieval.K = v.GetInt("retrieval.k")
	cfg.Retrieval.ExamplesFile = v.GetString("retrieval.examples_file")
	cfg.Retrieval.CountryQuery = v.GetString("retrieval.country_query")

	// LLM Provider Abstraction
	cfg.LLM.FallbackEnabled = v.GetBool("llm.fallback_enabled")
	cfg.LLM.RetryAttempts = v.GetInt("llm.retry_attempts")
	cfg.LLM.RetryDelay = v.GetString("llm.retry_delay")
	cfg.LLM.MaxTotalTimeout = v.GetString("llm.max_total_timeout")
	cfg.LLM.Temperature = v.GetFloat64("llm.temperature")
	cfg.LLM.MaxTokens = v.GetInt("llm.max_tokens")

	if v.IsSet("llm.providers") {
		if providersList, ok := v.Get("llm.providers").([]interface{}); ok {
			for _, p := range providersList {
				providerMap, ok := p.(map[string]interface{})
				if !ok {
					continue
				}
				cfg.LLM.Providers = append(cfg.LLM.Providers, ProviderConfig{
					Name:     getStringFromMap(providerMap, "name"),
					Enabled:  getBoolFromMap(providerMap, "enabled"),
					Priority: getIntFromMap(providerMap, "priority"),
					APIKey:   expandEnvVar(v, getStringFromMap(providerMap, "api_key")),
					BaseURL:  getStringFromMap(providerMap, "base_url"),
					Model:    getStringFromMap(providerMap, "model"),
					Timeout:  getStringFromMap(providerMap, "timeout"),
				})
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints and the LLM provider list.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return validateLLMConfig(&c.LLM)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment.name", "development")
	v.SetDefault("http_server.port", 8000)
	v.SetDefault("http_server.mode", "debug")
	v.SetDefault("http_server.rate_limit_per_min", 120)
	v.SetDefault("logger.level", "debug")
	v.SetDefault("logger.mode", "development")
	v.SetDefault("logger.encoding", "console")
	v.SetDefault("logger.color_enabled", true)

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.dbname", "postgres")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.statement_timeout", "30s")
	v.SetDefault("postgres.max_rows", 50)

	v.SetDefault("qdrant.vector_size", 1024)

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.path", "data/query_cache.db")
	v.SetDefault("cache.lru_size", 100)
	v.SetDefault("rate_limit.min_delay", "1s")
	v.SetDefault("correction.max_cycles", 100)
	v.SetDefault("correction.max_tool_steps", 8)
	v.SetDefault("conversation.history_limit", 10)
	v.SetDefault("conversation.session_ttl", "10m")
	v.SetDefault("retrieval.k", 2)
	v.SetDefault("retrieval.examples_file", "config/examples.yaml")

	// LLM defaults
	v.SetDefault("llm.fallback_enabled", true)
	v.SetDefault("llm.retry_attempts", 3)
	v.SetDefault("llm.retry_delay", "1s")
	v.SetDefault("llm.max_total_timeout", "60s")
	v.SetDefault("llm.temperature", 0)
	v.SetDefault("llm.max_tokens", 1000)
}

// expandEnvVar expands environment variables in the format ${VAR_NAME}
func expandEnvVar(v *viper.Viper, value string) string {
	if !strings.HasPrefix(value, "${") || !strings.HasSuffix(value, "}") {
		return value
	}
	envVar := value[2 : len(value)-1]
	if envValue := os.Getenv(envVar); envValue != "" {
		return envValue
	}
	return v.GetString(strings.ToLower(envVar))
}

// validateLLMConfig validates the LLM configuration
func validateLLMConfig(cfg *LLMConfig) error {
	if len(cfg.Providers) == 0 {
		return fmt.Errorf("no LLM providers configured - please add llm.providers section to config.yaml")
	}

	enabledCount := 0
	priorityMap := make(map[int]bool)
	for _, provider := range cfg.Providers {
		if !provider.Enabled {
			continue
		}
		enabledCount++
		if priorityMap[provider.Priority] {
			return fmt.Errorf("provider %s: duplicate priority %d", provider.Name, provider.Priority)
		}
		priorityMap[provider.Priority] = true

		if provider.Timeout != "" {
			if _, err := time.ParseDuration(provider.Timeout); err != nil {
				return fmt.Errorf("provider %s: invalid timeout %q", provider.Name, provider.Timeout)
			}
		}
	}
	if enabledCount == 0 {
		return fmt.Errorf("no enabled LLM providers")
	}
	return nil
}

// ParseDurationOr parses s, returning def when s is empty or invalid.
func ParseDurationOr(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}

func firstNonEmpty(values ...string) string {
	for _, s := range values {
		if s != "" {
			return s
		}
	}
	return ""
}

// Helper functions to safely extract values from map[string]interface{}
func getStringFromMap(m map[string]interface{}, key string) string {
	if val, ok := m[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

func getBoolFromMap(m map[string]interface{}, key string) bool {
	if val, ok := m[key]; ok {
		if b, ok := val.(bool); ok {
			return b
		}
	}
	return false
}

func getIntFromMap(m map[string]interface{}, key string) int {
	if val, ok := m[key]; ok {
		switch n := val.(type) {
		case int:
			return n
		case int64:
			return int(n)
		case float64:
			return int(n)
		}
	}
	return 0
}
