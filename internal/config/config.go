// Package config loads the service configuration from an optional YAML file
// with environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"slices"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"book-insight/internal/domain/entity"
	pkgconfig "book-insight/pkg/config"
)

// DefaultPath is used when CONFIG_PATH is not set.
const DefaultPath = "config.yaml"

// Provider names accepted for summarization.provider.
const (
	ProviderOpenAI = "openai"
	ProviderClaude = "claude"
	ProviderGemini = "gemini"
	ProviderNoop   = "noop"
)

// ProviderGRPC selects the entity recognition sidecar for ner.provider.
const ProviderGRPC = "grpc"

var (
	summarizerProviders = []string{ProviderOpenAI, ProviderClaude, ProviderGemini, ProviderNoop}
	nerProviders        = []string{ProviderGRPC, ProviderClaude, ProviderOpenAI, ProviderNoop}
)

// Config is the process-wide configuration. It is immutable after Load.
type Config struct {
	Summarization SummarizationConfig `yaml:"summarization"`
	NER           NERConfig           `yaml:"ner"`
	Server        ServerConfig        `yaml:"server"`
	APIKeys       APIKeys             `yaml:"-"`
}

// SummarizationConfig controls chunking and the summarizer backend.
type SummarizationConfig struct {
	// MaxLength and MinLength bound each chunk summary.
	MaxLength int `yaml:"max_length"`
	MinLength int `yaml:"min_length"`

	// ChunkSize is the chunk budget in characters.
	ChunkSize int `yaml:"chunk_size"`

	// Concurrency is the number of chunks summarized in parallel. 1 means sequential.
	Concurrency int `yaml:"concurrency"`

	// ChunkTimeout bounds a single chunk call. Zero disables the bound.
	ChunkTimeout time.Duration `yaml:"chunk_timeout"`

	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`

	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`

	// CacheSize is the number of chunk summaries kept in memory. 0 disables the cache.
	CacheSize int `yaml:"cache_size"`
}

// Length returns the summary bounds passed to the summarizer.
func (s SummarizationConfig) Length() entity.Length {
	return entity.Length{Max: s.MaxLength, Min: s.MinLength}
}

// NERConfig controls the entity recognizer backend.
type NERConfig struct {
	Provider    string `yaml:"provider"`
	GRPCAddress string `yaml:"grpc_address"`
	Model       string `yaml:"model"`

	// Timeout bounds one call to the gRPC sidecar.
	Timeout time.Duration `yaml:"timeout"`

	// LLMTimeout bounds a whole-book recognition with the claude or openai
	// providers, which list names window by window.
	LLMTimeout time.Duration `yaml:"llm_timeout"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Addr           string        `yaml:"addr"`
	MaxBodyBytes   int64         `yaml:"max_body_bytes"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// APIKeys are read from the environment only.
type APIKeys struct {
	OpenAI    string
	Anthropic string
	Gemini    string
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		Summarization: SummarizationConfig{
			MaxLength:         150,
			MinLength:         50,
			ChunkSize:         1000,
			Concurrency:       1,
			Provider:          ProviderOpenAI,
			RequestsPerSecond: 2,
			Burst:             5,
			CacheSize:         1024,
		},
		NER: NERConfig{
			Provider:    ProviderGRPC,
			GRPCAddress: "localhost:50052",
			Timeout:     30 * time.Second,
			LLMTimeout:  5 * time.Minute,
		},
		Server: ServerConfig{
			Addr:           ":8080",
			MaxBodyBytes:   10 << 20,
			RequestTimeout: 5 * time.Minute,
		},
	}
}

// Load builds the configuration from defaults, an optional .env file, the
// YAML file at path (skipped when missing) and environment overrides, then
// validates the result.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env file", slog.Any("error", err))
	}

	cfg := Default()
	if err := cfg.readFile(path); err != nil {
		return nil, err
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	if path == "" {
		return nil
	}

	// #nosec G304 -- path comes from CONFIG_PATH or a CLI flag, not user input
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("config file not found, using defaults", slog.String("path", path))
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	s := &c.Summarization
	s.MaxLength = pkgconfig.GetEnvInt("SUMMARIZATION_MAX_LENGTH", s.MaxLength)
	s.MinLength = pkgconfig.GetEnvInt("SUMMARIZATION_MIN_LENGTH", s.MinLength)
	s.ChunkSize = pkgconfig.GetEnvInt("SUMMARIZATION_CHUNK_SIZE", s.ChunkSize)
	s.Concurrency = pkgconfig.GetEnvInt("SUMMARIZATION_CONCURRENCY", s.Concurrency)
	s.ChunkTimeout = pkgconfig.GetEnvDuration("SUMMARIZATION_CHUNK_TIMEOUT", s.ChunkTimeout)
	s.Provider = pkgconfig.GetEnvString("SUMMARIZER_TYPE", s.Provider)
	s.Model = pkgconfig.GetEnvString("SUMMARIZER_MODEL", s.Model)
	s.RequestsPerSecond = pkgconfig.GetEnvFloat("SUMMARIZER_RPS", s.RequestsPerSecond)
	s.Burst = pkgconfig.GetEnvInt("SUMMARIZER_BURST", s.Burst)
	s.CacheSize = pkgconfig.GetEnvInt("SUMMARIZER_CACHE_SIZE", s.CacheSize)

	n := &c.NER
	n.Provider = pkgconfig.GetEnvString("NER_TYPE", n.Provider)
	n.GRPCAddress = pkgconfig.GetEnvString("NER_GRPC_ADDRESS", n.GRPCAddress)
	n.Model = pkgconfig.GetEnvString("NER_MODEL", n.Model)
	n.Timeout = pkgconfig.GetEnvDuration("NER_TIMEOUT", n.Timeout)
	n.LLMTimeout = pkgconfig.GetEnvDuration("NER_LLM_TIMEOUT", n.LLMTimeout)

	c.Server.Addr = pkgconfig.GetEnvString("SERVER_ADDR", c.Server.Addr)
	c.Server.MaxBodyBytes = pkgconfig.GetEnvInt64("SERVER_MAX_BODY_BYTES", c.Server.MaxBodyBytes)
	c.Server.RequestTimeout = pkgconfig.GetEnvDuration("SERVER_REQUEST_TIMEOUT", c.Server.RequestTimeout)

	c.APIKeys = APIKeys{
		OpenAI:    os.Getenv("OPENAI_API_KEY"),
		Anthropic: os.Getenv("ANTHROPIC_API_KEY"),
		Gemini:    os.Getenv("GEMINI_API_KEY"),
	}
}

// Validate checks configuration correctness.
func (c *Config) Validate() error {
	if err := entity.ValidateLength(c.Summarization.Length()); err != nil {
		return err
	}
	if c.Summarization.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be positive, got %d", c.Summarization.ChunkSize)
	}
	if c.Summarization.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", c.Summarization.Concurrency)
	}
	if err := pkgconfig.ValidateNonNegativeDuration(c.Summarization.ChunkTimeout); err != nil {
		return fmt.Errorf("invalid chunk_timeout: %w", err)
	}
	if !slices.Contains(summarizerProviders, c.Summarization.Provider) {
		return fmt.Errorf("unknown summarization provider %q", c.Summarization.Provider)
	}
	if c.Summarization.RequestsPerSecond <= 0 {
		return fmt.Errorf("requests_per_second must be positive")
	}
	if c.Summarization.Burst < 1 {
		return fmt.Errorf("burst must be at least 1")
	}
	if c.Summarization.CacheSize < 0 {
		return fmt.Errorf("cache_size cannot be negative, got %d", c.Summarization.CacheSize)
	}

	if !slices.Contains(nerProviders, c.NER.Provider) {
		return fmt.Errorf("unknown ner provider %q", c.NER.Provider)
	}
	if c.NER.Provider == ProviderGRPC && c.NER.GRPCAddress == "" {
		return fmt.Errorf("ner grpc_address cannot be empty")
	}
	if err := pkgconfig.ValidatePositiveDuration(c.NER.Timeout); err != nil {
		return fmt.Errorf("invalid ner timeout: %w", err)
	}
	if err := pkgconfig.ValidatePositiveDuration(c.NER.LLMTimeout); err != nil {
		return fmt.Errorf("invalid ner llm_timeout: %w", err)
	}

	if c.Server.Addr == "" {
		return fmt.Errorf("server addr cannot be empty")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("max_body_bytes must be positive")
	}
	if err := pkgconfig.ValidateDurationRange(c.Server.RequestTimeout, time.Second, time.Hour); err != nil {
		return fmt.Errorf("invalid request_timeout: %w", err)
	}

	return nil
}

// RequireAPIKeys reports a missing key for the configured providers.
func (c *Config) RequireAPIKeys() error {
	need := map[string]string{
		ProviderOpenAI: c.APIKeys.OpenAI,
		ProviderClaude: c.APIKeys.Anthropic,
		ProviderGemini: c.APIKeys.Gemini,
	}
	for _, p := range []string{c.Summarization.Provider, c.NER.Provider} {
		if key, ok := need[p]; ok && key == "" {
			return fmt.Errorf("api key for provider %q is not set", p)
		}
	}
	return nil
}
