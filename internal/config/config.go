package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full reviewer configuration, loaded from YAML with
// environment fallbacks for credentials.
type Config struct {
	// Provider selects the LLM backend: openai, gemini, or fake.
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	// BaseURL overrides the OpenAI-compatible endpoint (Groq etc.).
	BaseURL string `yaml:"base_url"`

	// Budget is the per-request size budget in bytes of file content.
	Budget int `yaml:"budget"`
	// Concurrency bounds in-flight model requests per stage.
	Concurrency int `yaml:"concurrency"`
	// CacheSize is the LRU completion cache capacity (0 disables it).
	CacheSize int `yaml:"cache_size"`
	// OutDir receives artifacts and markdown output, relative to the
	// reviewed directory.
	OutDir string `yaml:"out_dir"`

	Retry   Retry       `yaml:"retry"`
	Ignore  Ignore      `yaml:"ignore"`
	Prompts PromptFiles `yaml:"prompts"`
	Store   Store       `yaml:"store"`
}

type Retry struct {
	Attempts    int `yaml:"attempts"`
	BaseDelayMS int `yaml:"base_delay_ms"`
}

func (r Retry) BaseDelay() time.Duration {
	return time.Duration(r.BaseDelayMS) * time.Millisecond
}

// Ignore entries extend the built-in skip rules of the walker.
type Ignore struct {
	Prefixes []string `yaml:"prefixes"`
	Suffixes []string `yaml:"suffixes"`
	Names    []string `yaml:"names"`
}

// PromptFiles optionally override the builtin stage prompts with files.
type PromptFiles struct {
	Detail  string `yaml:"detail"`
	Short   string `yaml:"short"`
	Project string `yaml:"project"`
}

// Store selects where stage artifacts are persisted.
type Store struct {
	// Backend is fs, s3, or postgres.
	Backend string `yaml:"backend"`
	// Run scopes artifacts in shared backends (s3 prefix, postgres key).
	Run string `yaml:"run"`

	S3          S3     `yaml:"s3"`
	PostgresDSN string `yaml:"postgres_dsn"`
}

type S3 struct {
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// Default returns the configuration the original reviewer shipped with.
func Default() Config {
	return Config{
		Provider:    "openai",
		Model:       "gpt-4-0125-preview",
		Budget:      48000,
		Concurrency: 20,
		CacheSize:   256,
		OutDir:      ".reviewer",
		Retry:       Retry{Attempts: 4, BaseDelayMS: 500},
		Store:       Store{Backend: "fs", Run: "default"},
	}
}

// Load reads the YAML file at path over the defaults. An empty path tries
// reviewer.yaml in the working directory and falls back to pure defaults
// when it does not exist.
func Load(path string) (*Config, error) {
	cfg := Default()
	explicit := path != ""
	if path == "" {
		path = "reviewer.yaml"
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			cfg.applyEnv()
			return &cfg, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnv fills credentials that should not live in a config file.
func (c *Config) applyEnv() {
	if c.Store.PostgresDSN == "" {
		c.Store.PostgresDSN = os.Getenv("REVIEWER_PG_DSN")
	}
	if c.Store.S3.AccessKey == "" {
		c.Store.S3.AccessKey = os.Getenv("REVIEWER_S3_ACCESS_KEY")
	}
	if c.Store.S3.SecretKey == "" {
		c.Store.S3.SecretKey = os.Getenv("REVIEWER_S3_SECRET_KEY")
	}
}

// Validate checks enums and numeric bounds. Callers that override loaded
// values afterwards (flags) must validate again on the effective config.
func (c *Config) Validate() error {
	switch c.Provider {
	case "openai", "gemini", "fake":
	default:
		return fmt.Errorf("config: unknown provider %q", c.Provider)
	}
	switch c.Store.Backend {
	case "fs", "s3", "postgres":
	default:
		return fmt.Errorf("config: unknown store backend %q", c.Store.Backend)
	}
	if c.Budget <= 0 {
		return fmt.Errorf("config: budget must be positive")
	}
	if c.Concurrency <= 0 {
		return fmt.Errorf("config: concurrency must be positive")
	}
	return nil
}
