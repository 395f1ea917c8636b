package factory

import (
	"testing"

	"routine-advisor-be/pkg/llm/ollama"
	"routine-advisor-be/pkg/llm/openai"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLLMProvider(t *testing.T) {
	p, err := NewLLMProvider(ProviderConfig{Provider: "openai", Model: "gpt-4o", CompletionURL: "http://example.invalid"})
	require.NoError(t, err)
	assert.IsType(t, &openai.OpenAIProvider{}, p)

	p, err = NewLLMProvider(ProviderConfig{Provider: "ollama", Model: "llama3"})
	require.NoError(t, err)
	require.IsType(t, &ollama.OllamaProvider{}, p)
	assert.Equal(t, "http://localhost:11434", p.(*ollama.OllamaProvider).BaseURL)

	_, err = NewLLMProvider(ProviderConfig{Provider: "openai"})
	assert.Error(t, err)

	_, err = NewLLMProvider(ProviderConfig{Provider: "bard"})
	assert.Error(t, err)
}
