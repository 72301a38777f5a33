package ai

import (
	"fmt"
	"strings"

	"github.com/jklb739/insight-stream/internal/config"
	"github.com/jklb739/insight-stream/pkg/log"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Factory creates provider services keyed on provider name. Both
// providers stay configured; the caller picks one per request.
type Factory struct {
	cfg            config.AIConfig
	targetLanguage string
}

// NewFactory builds a factory. target is the language translations are
// produced in, normally the first preferred caption language.
func NewFactory(cfg config.AIConfig, target language.Tag) *Factory {
	return &Factory{
		cfg:            cfg,
		targetLanguage: display.English.Languages().Name(target),
	}
}

// Service returns the provider implementation for the given name, with
// an optional per-request model override. An empty provider selects the
// configured default.
func (f *Factory) Service(provider, model string) (Service, error) {
	selected := strings.ToLower(provider)
	if selected == "" {
		selected = f.cfg.DefaultProvider
	}

	switch selected {
	case "gemini":
		if model == "" {
			model = f.cfg.GeminiModel
		}
		log.Debug("Using Gemini provider with model %s", model)
		return newGeminiService(
			f.cfg.GeminiAPIKey,
			model,
			f.cfg.GeminiTemperature,
			f.cfg.MaxTokensOverview,
			f.cfg.MaxTokensDetail,
			f.cfg.Timeout,
			f.targetLanguage,
		), nil
	case "openai":
		if model == "" {
			model = f.cfg.OpenAIModel
		}
		log.Debug("Using OpenAI provider with model %s", model)
		return newOpenAIService(
			f.cfg.OpenAIAPIKey,
			f.cfg.OpenAIAPIURL,
			model,
			f.cfg.OpenAITemperature,
			f.cfg.MaxTokensOverview,
			f.cfg.MaxTokensDetail,
			f.cfg.Timeout,
			f.targetLanguage,
		), nil
	default:
		return nil, fmt.Errorf("unsupported AI provider: %s (supported: gemini, openai)", selected)
	}
}
