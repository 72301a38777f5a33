package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// geminiService implements Service over the Gemini generateContent API.
type geminiService struct {
	apiKey            string
	baseURL           string
	model             string
	temperature       float64
	maxTokensOverview int
	maxTokensDetail   int
	targetLanguage    string
	httpClient        *http.Client
	configured        bool
}

type geminiRequest struct {
	Contents          []geminiContent   `json:"contents"`
	SystemInstruction *geminiContent    `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (s *geminiService) IsConfigured() bool {
	return s.configured
}

func (s *geminiService) generate(ctx context.Context, contents []geminiContent, systemPrompt string, temperature float64, maxTokens int) (string, error) {
	request := geminiRequest{
		Contents: contents,
		GenerationConfig: &generationConfig{
			Temperature:     temperature,
			MaxOutputTokens: maxTokens,
		},
	}
	if systemPrompt != "" {
		request.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: systemPrompt}}}
	}

	body, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal gemini request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", s.baseURL, s.model, s.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create gemini request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read gemini response: %w", err)
	}

	var response geminiResponse
	if err := json.Unmarshal(payload, &response); err != nil {
		return "", fmt.Errorf("failed to decode gemini response: %w", err)
	}
	if response.Error != nil {
		return "", fmt.Errorf("API error: %s", response.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API returned status %d", resp.StatusCode)
	}
	if len(response.Candidates) == 0 || len(response.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	var text strings.Builder
	for _, part := range response.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}
	return strings.TrimSpace(text.String()), nil
}

func (s *geminiService) Overview(ctx context.Context, prompt, systemPrompt string) (string, error) {
	return s.generate(ctx, userContent(prompt), systemPrompt, s.temperature, s.maxTokensOverview)
}

func (s *geminiService) Detail(ctx context.Context, prompt, systemPrompt string) (string, error) {
	return s.generate(ctx, userContent(prompt), systemPrompt, s.temperature, s.maxTokensDetail)
}

func (s *geminiService) Chat(ctx context.Context, contextPrompt, message string, history []Message) (string, error) {
	contents := make([]geminiContent, 0, len(history)+1)
	for _, msg := range history {
		role := "user"
		if msg.Role == "assistant" {
			role = "model"
		}
		contents = append(contents, geminiContent{Role: role, Parts: []geminiPart{{Text: msg.Content}}})
	}
	contents = append(contents, geminiContent{Role: "user", Parts: []geminiPart{{Text: message}}})
	return s.generate(ctx, contents, contextPrompt, s.temperature, 1000)
}

func (s *geminiService) TranslateSegment(ctx context.Context, text string) (string, error) {
	return s.generate(ctx, userContent(segmentPrompt(s.targetLanguage, text)),
		translatorSystemPrompt(s.targetLanguage), translationTemperature, 1000)
}

func (s *geminiService) TranslateBatch(ctx context.Context, segments []string) ([]string, error) {
	content, err := s.generate(ctx, userContent(batchPrompt(s.targetLanguage, segments)),
		translatorSystemPrompt(s.targetLanguage), translationTemperature, 8000)
	if err != nil {
		return nil, err
	}
	return splitBatch(content, segments), nil
}

func userContent(prompt string) []geminiContent {
	return []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}}
}

var _ Service = (*geminiService)(nil)

func newGeminiService(apiKey, model string, temperature float64, maxOverview, maxDetail, timeoutSeconds int, targetLanguage string) *geminiService {
	return &geminiService{
		apiKey:            apiKey,
		baseURL:           defaultGeminiBaseURL,
		model:             model,
		temperature:       temperature,
		maxTokensOverview: maxOverview,
		maxTokensDetail:   maxDetail,
		targetLanguage:    targetLanguage,
		httpClient:        &http.Client{Timeout: time.Duration(timeoutSeconds) * time.Second},
		configured:        apiKey != "" && !strings.HasPrefix(apiKey, "your_"),
	}
}
