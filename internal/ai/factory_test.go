package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/jklb739/insight-stream/internal/config"
)

func testAIConfig() config.AIConfig {
	return config.AIConfig{
		DefaultProvider:   "gemini",
		GeminiAPIKey:      "gem-key",
		GeminiModel:       "gemini-2.0-flash-exp",
		GeminiTemperature: 0.7,
		OpenAIAPIKey:      "oa-key",
		OpenAIAPIURL:      "https://api.openai.com/v1",
		OpenAIModel:       "gpt-4o-mini",
		OpenAITemperature: 0.7,
		MaxTokensOverview: 500,
		MaxTokensDetail:   6000,
		Timeout:           60,
	}
}

func TestFactory_DefaultProvider(t *testing.T) {
	factory := NewFactory(testAIConfig(), language.Korean)

	svc, err := factory.Service("", "")
	require.NoError(t, err)

	gemini, ok := svc.(*geminiService)
	require.True(t, ok)
	assert.Equal(t, "gemini-2.0-flash-exp", gemini.model)
	assert.Equal(t, "Korean", gemini.targetLanguage)
	assert.True(t, gemini.IsConfigured())
}

func TestFactory_ExplicitProviderAndModelOverride(t *testing.T) {
	factory := NewFactory(testAIConfig(), language.English)

	svc, err := factory.Service("OpenAI", "gpt-4o")
	require.NoError(t, err)

	openai, ok := svc.(*openAIService)
	require.True(t, ok)
	assert.Equal(t, "gpt-4o", openai.model)
}

func TestFactory_EmptyModelUsesConfigured(t *testing.T) {
	factory := NewFactory(testAIConfig(), language.English)

	svc, err := factory.Service("openai", "")
	require.NoError(t, err)

	openai := svc.(*openAIService)
	assert.Equal(t, "gpt-4o-mini", openai.model)
}

func TestFactory_UnsupportedProvider(t *testing.T) {
	factory := NewFactory(testAIConfig(), language.English)

	_, err := factory.Service("claude", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported AI provider")
}
