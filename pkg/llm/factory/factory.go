package factory

import (
	"fmt"
	"time"

	"routine-advisor-be/pkg/llm"
	"routine-advisor-be/pkg/llm/ollama"
	"routine-advisor-be/pkg/llm/openai"
)

type ProviderConfig struct {
	Provider      string // "openai" | "ollama"
	Model         string
	CompletionURL string
	APIKey        string
	OllamaBaseURL string
	Timeout       time.Duration
}

func NewLLMProvider(cfg ProviderConfig) (llm.LLMProvider, error) {
	client := llm.NewHTTPClient(cfg.Timeout)

	switch cfg.Provider {
	case "openai", "":
		if cfg.CompletionURL == "" {
			return nil, fmt.Errorf("openai provider requires a completion URL")
		}
		return openai.NewOpenAIProvider(cfg.CompletionURL, cfg.APIKey, cfg.Model, client), nil
	case "ollama":
		baseURL := cfg.OllamaBaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, cfg.Model, client), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
