package model

import "time"

// Config is the full application configuration
type Config struct {
	LLM         LLMConfig         `yaml:"llm" json:"llm"`
	Summary     SummaryConfig     `yaml:"summary" json:"summary"`
	HTTP        HTTPConfig        `yaml:"http" json:"http"`
	Cache       CacheConfig       `yaml:"cache" json:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" json:"concurrency"`
	Output      OutputConfig      `yaml:"output" json:"output"`
}

// LLMConfig holds generation provider settings
type LLMConfig struct {
	Provider  string `yaml:"provider" json:"provider"` // "openai", "anthropic", "ollama", "" (disabled)
	Model     string `yaml:"model" json:"model"`
	APIKey    string `yaml:"api_key,omitempty" json:"api_key,omitempty"`
	BaseURL   string `yaml:"base_url,omitempty" json:"base_url,omitempty"`
	Timeout   int    `yaml:"timeout" json:"timeout"` // seconds per generation call
	MaxTokens int    `yaml:"max_tokens" json:"max_tokens"`
}

// SummaryConfig holds summarization defaults
type SummaryConfig struct {
	Lang        string `yaml:"lang" json:"lang"`                 // "ru" or "en"
	Format      string `yaml:"format" json:"format"`             // bullets, paragraph, structured
	TargetChars int    `yaml:"target_chars" json:"target_chars"` // desired summary length
	ChunkChars  int    `yaml:"chunk_chars" json:"chunk_chars"`   // max chars per Phase A chunk
}

// HTTPConfig holds settings for the web extraction collaborator
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" json:"timeout"`
	UserAgent    string        `yaml:"user_agent" json:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" json:"max_body_bytes"`
	HTTPProxy    string        `yaml:"http_proxy,omitempty" json:"http_proxy,omitempty"`
	HTTPSProxy   string        `yaml:"https_proxy,omitempty" json:"https_proxy,omitempty"`
	NoProxy      string        `yaml:"no_proxy,omitempty" json:"no_proxy,omitempty"`
}

// CacheConfig holds result cache settings
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" json:"enabled"`
	Dir     string        `yaml:"dir" json:"dir"`
	TTL     time.Duration `yaml:"ttl" json:"ttl"`
}

// ConcurrencyConfig bounds the parallel Phase A dispatch and batch workers
type ConcurrencyConfig struct {
	PhaseAWorkers int     `yaml:"phase_a_workers" json:"phase_a_workers"`
	BatchWorkers  int     `yaml:"batch_workers" json:"batch_workers"`
	RatePerSecond float64 `yaml:"rate_per_second" json:"rate_per_second"` // generation calls per second per provider
	Burst         int     `yaml:"burst" json:"burst"`
}

// OutputConfig holds output settings
type OutputConfig struct {
	Verbose bool `yaml:"verbose" json:"verbose"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:  "", // Disabled by default; fallback path still works
			Timeout:   30,
			MaxTokens: 2000,
		},
		Summary: SummaryConfig{
			Lang:        string(LangRussian),
			Format:      string(FormatBullets),
			TargetChars: 1000,
			ChunkChars:  2800,
		},
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "Konspekt/0.1 (+https://github.com/akulenkov/konspekt)",
			MaxBodyBytes: 2_000_000,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			PhaseAWorkers: 4,
			BatchWorkers:  4,
			RatePerSecond: 2,
			Burst:         4,
		},
		Output: OutputConfig{},
	}
}
