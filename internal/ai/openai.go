package ai

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const translationTemperature = 0.3

// openAIService implements Service over an OpenAI-compatible chat
// completions API.
type openAIService struct {
	client            *chatClient
	model             string
	temperature       float64
	maxTokensOverview int
	maxTokensDetail   int
	targetLanguage    string
	configured        bool
}

func (s *openAIService) IsConfigured() bool {
	return s.configured
}

func (s *openAIService) Overview(ctx context.Context, prompt, systemPrompt string) (string, error) {
	return s.generate(ctx, prompt, systemPrompt, s.maxTokensOverview)
}

func (s *openAIService) Detail(ctx context.Context, prompt, systemPrompt string) (string, error) {
	return s.generate(ctx, prompt, systemPrompt, s.maxTokensDetail)
}

func (s *openAIService) generate(ctx context.Context, prompt, systemPrompt string, maxTokens int) (string, error) {
	messages := make([]Message, 0, 2)
	if systemPrompt != "" {
		messages = append(messages, Message{Role: "system", Content: systemPrompt})
	}
	messages = append(messages, Message{Role: "user", Content: prompt})

	content, err := s.client.complete(ctx, ChatRequest{
		Model:       s.model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: s.temperature,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(content), nil
}

func (s *openAIService) Chat(ctx context.Context, contextPrompt, message string, history []Message) (string, error) {
	messages := make([]Message, 0, len(history)+2)
	messages = append(messages, Message{Role: "system", Content: contextPrompt})
	messages = append(messages, history...)
	messages = append(messages, Message{Role: "user", Content: message})

	content, err := s.client.complete(ctx, ChatRequest{
		Model:       s.model,
		Messages:    messages,
		MaxTokens:   1000,
		Temperature: s.temperature,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(content), nil
}

func (s *openAIService) TranslateSegment(ctx context.Context, text string) (string, error) {
	content, err := s.client.complete(ctx, ChatRequest{
		Model: s.model,
		Messages: []Message{
			{Role: "system", Content: translatorSystemPrompt(s.targetLanguage)},
			{Role: "user", Content: segmentPrompt(s.targetLanguage, text)},
		},
		MaxTokens:   1000,
		Temperature: translationTemperature,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(content), nil
}

func (s *openAIService) TranslateBatch(ctx context.Context, segments []string) ([]string, error) {
	content, err := s.client.complete(ctx, ChatRequest{
		Model: s.model,
		Messages: []Message{
			{Role: "system", Content: translatorSystemPrompt(s.targetLanguage)},
			{Role: "user", Content: batchPrompt(s.targetLanguage, segments)},
		},
		MaxTokens:   8000,
		Temperature: translationTemperature,
	})
	if err != nil {
		return nil, err
	}
	return splitBatch(content, segments), nil
}

func translatorSystemPrompt(targetLanguage string) string {
	return fmt.Sprintf("You are a professional translator. Translate into natural %s.", targetLanguage)
}

func segmentPrompt(targetLanguage, text string) string {
	return fmt.Sprintf(`Translate the following text into %s.

[PRINCIPLES]
- Preserve the meaning and context of the original
- Use natural phrasing in the target language
- Keep technical terms in the original language in parentheses when helpful

[SOURCE]
%s

[TRANSLATION]`, targetLanguage, text)
}

func batchPrompt(targetLanguage string, segments []string) string {
	return fmt.Sprintf(`Translate the following YouTube transcript segments into %s.

[PRINCIPLES]
- Translate each segment in order
- Preserve the meaning and context of the original
- Separate the translated segments with a "---" line, matching the input

[SOURCE SEGMENTS]
%s

[TRANSLATED SEGMENTS]`, targetLanguage, strings.Join(segments, "\n---\n"))
}

// splitBatch splits a "---"-separated batch translation back into one
// entry per input segment, padding with originals on a count mismatch.
func splitBatch(content string, segments []string) []string {
	parts := strings.Split(strings.TrimSpace(content), "---")
	translations := make([]string, 0, len(segments))
	for _, part := range parts {
		translations = append(translations, strings.TrimSpace(part))
	}
	for len(translations) < len(segments) {
		translations = append(translations, segments[len(translations)])
	}
	return translations[:len(segments)]
}

// ensure the provider satisfies the capability interface
var _ Service = (*openAIService)(nil)

// newOpenAIService builds the OpenAI-backed provider.
func newOpenAIService(apiKey, apiURL, model string, temperature float64, maxOverview, maxDetail, timeoutSeconds int, targetLanguage string) *openAIService {
	return &openAIService{
		client:            newChatClient(apiKey, apiURL, time.Duration(timeoutSeconds)*time.Second),
		model:             model,
		temperature:       temperature,
		maxTokensOverview: maxOverview,
		maxTokensDetail:   maxDetail,
		targetLanguage:    targetLanguage,
		configured:        apiKey != "" && !strings.HasPrefix(apiKey, "your_"),
	}
}
