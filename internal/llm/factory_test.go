package llm

import (
	"strings"
	"testing"

	"github.com/ppiankov/swimcal/internal/model"
)

func TestNewProvider_UnknownProvider(t *testing.T) {
	_, err := NewProvider(Config{Provider: "bard"})
	if err == nil {
		t.Fatal("Expected error for unknown provider, got nil")
	}
	if !strings.Contains(err.Error(), "unknown LLM provider") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestNewProvider_DefaultsToGemini(t *testing.T) {
	// With no API key the gemini constructor rejects the config, which
	// proves the empty provider name routed there.
	_, err := NewProvider(Config{Provider: ""})
	if err == nil {
		t.Fatal("Expected error for missing gemini API key, got nil")
	}
	if !strings.Contains(err.Error(), "gemini") {
		t.Errorf("Expected gemini error, got %v", err)
	}
}

func TestNewProvider_CaseInsensitive(t *testing.T) {
	provider, err := NewProvider(Config{Provider: "OLLAMA", Model: "qwen2.5:7b"})
	if err != nil {
		t.Fatalf("NewProvider failed: %v", err)
	}
	if provider.Name() != "ollama" {
		t.Errorf("Name() = %s, want ollama", provider.Name())
	}
}

func TestNewProvider_OpenAI(t *testing.T) {
	provider, err := NewProvider(Config{Provider: "openai", APIKey: "test-key"})
	if err != nil {
		t.Fatalf("NewProvider failed: %v", err)
	}
	if provider.Name() != "openai" {
		t.Errorf("Name() = %s, want openai", provider.Name())
	}
}

func TestConfigFromModel(t *testing.T) {
	modelConfig := model.LLMConfig{
		Provider:  "openai",
		Model:     "gpt-4o-mini",
		APIKey:    "key",
		BaseURL:   "http://localhost:8080",
		Timeout:   30,
		MaxTokens: 2000,
	}

	config := ConfigFromModel(modelConfig)

	if config.Provider != "openai" {
		t.Errorf("Provider = %s, want openai", config.Provider)
	}
	if config.Model != "gpt-4o-mini" {
		t.Errorf("Model = %s, want gpt-4o-mini", config.Model)
	}
	if config.APIKey != "key" {
		t.Errorf("APIKey = %s, want key", config.APIKey)
	}
	if config.BaseURL != "http://localhost:8080" {
		t.Errorf("BaseURL = %s, want http://localhost:8080", config.BaseURL)
	}
	if config.Timeout != 30 {
		t.Errorf("Timeout = %d, want 30", config.Timeout)
	}
	if config.MaxTokens != 2000 {
		t.Errorf("MaxTokens = %d, want 2000", config.MaxTokens)
	}
}

func TestNewGeminiProvider_RequiresAPIKey(t *testing.T) {
	_, err := NewGeminiProvider(Config{})
	if err == nil {
		t.Fatal("Expected error for missing API key, got nil")
	}
}
