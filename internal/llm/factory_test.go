package llm

import (
	"strings"
	"testing"

	"github.com/akulenkov/konspekt/internal/model"
)

func TestNewProvider_EmptyDisablesGeneration(t *testing.T) {
	provider, err := NewProvider(Config{Provider: ""})
	if err != nil {
		t.Fatalf("empty provider must not error: %v", err)
	}
	if provider != nil {
		t.Error("empty provider must yield nil provider")
	}
}

func TestNewProvider_Unknown(t *testing.T) {
	_, err := NewProvider(Config{Provider: "grok"})
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
	if !strings.Contains(err.Error(), "grok") {
		t.Errorf("error must name the provider: %v", err)
	}
}

func TestNewProvider_OpenAI(t *testing.T) {
	provider, err := NewProvider(Config{Provider: "openai", APIKey: "sk-test"})
	if err != nil {
		t.Fatalf("NewProvider failed: %v", err)
	}
	if provider.Name() != "openai" {
		t.Errorf("expected name openai, got %s", provider.Name())
	}
}

func TestNewProvider_OpenAIRequiresKey(t *testing.T) {
	if _, err := NewProvider(Config{Provider: "openai"}); err == nil {
		t.Error("expected error without API key")
	}
}

func TestNewProvider_ClaudeAlias(t *testing.T) {
	provider, err := NewProvider(Config{Provider: "claude", APIKey: "sk-ant-test"})
	if err != nil {
		t.Fatalf("NewProvider failed: %v", err)
	}
	if provider.Name() != "anthropic" {
		t.Errorf("expected name anthropic, got %s", provider.Name())
	}
}

func TestNewProvider_Ollama(t *testing.T) {
	provider, err := NewProvider(Config{Provider: "ollama", BaseURL: "http://localhost:11434"})
	if err != nil {
		t.Fatalf("NewProvider failed: %v", err)
	}
	if provider.Name() != "ollama" {
		t.Errorf("expected name ollama, got %s", provider.Name())
	}
}

func TestConfigFromModel(t *testing.T) {
	cfg := ConfigFromModel(
		model.LLMConfig{
			Provider:  "openai",
			Model:     "gpt-4o-mini",
			APIKey:    "sk-test",
			BaseURL:   "https://api.example.com/v1",
			Timeout:   45,
			MaxTokens: 2048,
		},
		model.HTTPConfig{
			HTTPProxy:  "http://proxy:3128",
			HTTPSProxy: "http://proxy:3129",
			NoProxy:    "localhost",
		},
	)

	if cfg.Provider != "openai" || cfg.Model != "gpt-4o-mini" || cfg.APIKey != "sk-test" {
		t.Errorf("LLM fields not carried over: %+v", cfg)
	}
	if cfg.BaseURL != "https://api.example.com/v1" || cfg.Timeout != 45 || cfg.MaxTokens != 2048 {
		t.Errorf("connection fields not carried over: %+v", cfg)
	}
	if cfg.HTTPProxy != "http://proxy:3128" || cfg.HTTPSProxy != "http://proxy:3129" || cfg.NoProxy != "localhost" {
		t.Errorf("proxy fields not carried over: %+v", cfg)
	}
}
