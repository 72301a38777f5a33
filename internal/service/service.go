// Package service orchestrates the acquisition pipeline: resolve the
// share link, fetch captions, segment them, cache the result, and hand
// the flat text to the AI boundary.
package service

import (
	"context"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/jklb739/insight-stream/internal/ai"
	"github.com/jklb739/insight-stream/internal/cache"
	"github.com/jklb739/insight-stream/internal/config"
	"github.com/jklb739/insight-stream/internal/prompts"
	"github.com/jklb739/insight-stream/internal/transcript"
	"github.com/jklb739/insight-stream/internal/youtube"
	"github.com/jklb739/insight-stream/pkg/log"
)

const (
	overviewErrorText = "An error occurred while generating the AI overview."
	detailErrorText   = "## Error\n\nSomething went wrong while generating the summary. Please try again later."
)

// Summarizer owns the transcript pipeline and its collaborators. The
// cache instance is constructed at process start and passed in; there
// is no global.
type Summarizer struct {
	cfg      config.Config
	fetcher  *youtube.Fetcher
	metadata *youtube.MetadataClient
	cache    *cache.SessionCache
	factory  *ai.Factory

	flight singleflight.Group
}

func NewSummarizer(
	cfg config.Config,
	fetcher *youtube.Fetcher,
	metadata *youtube.MetadataClient,
	sessionCache *cache.SessionCache,
	factory *ai.Factory,
) *Summarizer {
	return &Summarizer{
		cfg:      cfg,
		fetcher:  fetcher,
		metadata: metadata,
		cache:    sessionCache,
		factory:  factory,
	}
}

// Cache exposes the session cache for the observability endpoint.
func (s *Summarizer) Cache() *cache.SessionCache {
	return s.cache
}

type SummarizeRequest struct {
	URL        string
	Provider   string
	Model      string
	Category   string
	FormatType string
}

type SummarizeResult struct {
	VideoID         string            `json:"video_id"`
	Title           string            `json:"title"`
	FullTranscript  string            `json:"full_transcript"`
	SummaryOverview string            `json:"summary_overview"`
	SummaryDetail   string            `json:"summary_detail"`
	Category        string            `json:"category,omitempty"`
	FormatType      string            `json:"format_type,omitempty"`
	Language        string            `json:"language,omitempty"`
	PromptsUsed     map[string]string `json:"prompts_used,omitempty"`
	Provider        string            `json:"ai_provider,omitempty"`
	Model           string            `json:"model,omitempty"`
}

// acquisition is what one fetch of a video yields before any AI work.
type acquisition struct {
	title     string
	rawText   string
	formatted string
}

// Summarize runs the full pipeline for a share link.
func (s *Summarizer) Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResult, error) {
	videoID, ok := youtube.ExtractVideoID(req.URL)
	if !ok {
		log.Warn("Invalid URL: %s", req.URL)
		return nil, ErrInvalidURL
	}
	log.Info("Extracted video ID %s from %s", videoID, req.URL)

	acq, err := s.acquire(ctx, videoID)
	if err != nil {
		return nil, err
	}

	provider := s.providerName(req.Provider)
	aiService, err := s.factory.Service(req.Provider, req.Model)
	if err != nil {
		return nil, err
	}
	if !aiService.IsConfigured() {
		return nil, &ProviderNotConfiguredError{Provider: provider}
	}

	category := req.Category
	if category == "" {
		category = "general"
	}
	formatType := req.FormatType
	if formatType == "" {
		formatType = "dialogue"
	}

	overviewPrompt := prompts.Overview(category, formatType,
		limitRunes(acq.rawText, s.cfg.Transcript.LimitOverview))
	detailPrompt := prompts.Detail(category, formatType,
		limitRunes(acq.rawText, s.cfg.Transcript.LimitDetail))

	overview, err := aiService.Overview(ctx, overviewPrompt, "")
	if err != nil {
		log.Error("Overview generation failed for %s: %v", videoID, err)
		overview = overviewErrorText
	}
	detail, err := aiService.Detail(ctx, detailPrompt, "")
	if err != nil {
		log.Error("Detail generation failed for %s: %v", videoID, err)
		detail = detailErrorText
	}

	result := &SummarizeResult{
		VideoID:         videoID,
		Title:           acq.title,
		FullTranscript:  acq.formatted,
		SummaryOverview: overview,
		SummaryDetail:   detail,
		Category:        category,
		FormatType:      formatType,
		Language:        transcript.DetectLanguage(acq.rawText),
		PromptsUsed: map[string]string{
			"overview": prompts.StripScriptSection(overviewPrompt),
			"detail":   prompts.StripScriptSection(detailPrompt),
		},
		Provider: provider,
		Model:    s.modelName(req.Provider, req.Model),
	}
	log.Info("Successfully processed video %s", videoID)
	return result, nil
}

// acquire fetches, segments, and caches one video's transcript.
// Concurrent requests for the same video collapse into a single
// upstream fetch; the caption source is rate-limited enough without us
// multiplying load.
func (s *Summarizer) acquire(ctx context.Context, videoID string) (acquisition, error) {
	v, err, _ := s.flight.Do(videoID, func() (any, error) {
		title := s.metadata.Title(ctx, videoID)
		log.Info("Video title: %s", title)

		fragments, err := s.fetcher.Fetch(ctx, videoID)
		if err != nil {
			return acquisition{}, err
		}

		acq := acquisition{
			title:     title,
			rawText:   transcript.FlatText(fragments),
			formatted: transcript.Format(fragments),
		}
		s.cache.Set(videoID, acq.rawText, acq.title, acq.formatted)
		return acq, nil
	})
	if err != nil {
		return acquisition{}, err
	}
	return v.(acquisition), nil
}

type CustomSummarizeRequest struct {
	VideoID        string
	Transcript     string // optional override; cache is used when empty
	OverviewPrompt string
	DetailPrompt   string
	SystemPrompt   string
	Provider       string
	Model          string
}

// CustomSummarize re-summarizes the cached transcript with custom
// prompts. It never re-fetches; a cache miss is surfaced as ErrCacheMiss.
func (s *Summarizer) CustomSummarize(ctx context.Context, req CustomSummarizeRequest) (*SummarizeResult, error) {
	raw := req.Transcript
	if raw == "" {
		cached, ok := s.cache.Get(req.VideoID)
		if !ok {
			log.Warn("Transcript not found in cache for video %s", req.VideoID)
			return nil, ErrCacheMiss
		}
		raw = cached
		log.Info("Using cached transcript for video %s", req.VideoID)
	}

	title, ok := s.cache.GetTitle(req.VideoID)
	if !ok || title == "" {
		title = youtube.DefaultTitle(req.VideoID)
	}
	formatted, ok := s.cache.GetFormatted(req.VideoID)
	if !ok || formatted == "" {
		formatted = raw
	}

	provider := s.providerName(req.Provider)
	aiService, err := s.factory.Service(req.Provider, req.Model)
	if err != nil {
		return nil, err
	}
	if !aiService.IsConfigured() {
		return nil, &ProviderNotConfiguredError{Provider: provider}
	}

	overviewPrompt := s.customPrompt(req.OverviewPrompt, raw, s.cfg.Transcript.LimitOverview, true)
	detailPrompt := s.customPrompt(req.DetailPrompt, raw, s.cfg.Transcript.LimitDetail, false)

	overview, err := aiService.Overview(ctx, overviewPrompt, req.SystemPrompt)
	if err != nil {
		log.Error("Custom overview generation failed for %s: %v", req.VideoID, err)
		overview = overviewErrorText
	}
	detail, err := aiService.Detail(ctx, detailPrompt, req.SystemPrompt)
	if err != nil {
		log.Error("Custom detail generation failed for %s: %v", req.VideoID, err)
		detail = detailErrorText
	}

	promptsUsed := map[string]string{"overview": "default", "detail": "default"}
	if req.OverviewPrompt != "" {
		promptsUsed["overview"] = req.OverviewPrompt
	}
	if req.DetailPrompt != "" {
		promptsUsed["detail"] = req.DetailPrompt
	}

	return &SummarizeResult{
		VideoID:         req.VideoID,
		Title:           title,
		FullTranscript:  formatted,
		SummaryOverview: overview,
		SummaryDetail:   detail,
		Category:        "custom",
		PromptsUsed:     promptsUsed,
		Provider:        provider,
		Model:           s.modelName(req.Provider, req.Model),
	}, nil
}

func (s *Summarizer) customPrompt(custom, raw string, limit int, overview bool) string {
	limited := limitRunes(raw, limit)
	if custom != "" {
		return custom + "\n\n[TARGET SCRIPT]\n" + limited
	}
	if overview {
		return prompts.Overview("general", "dialogue", limited)
	}
	return prompts.Detail("general", "dialogue", limited)
}

// Chat answers a question grounded in the cached transcript.
func (s *Summarizer) Chat(ctx context.Context, videoID, message string, history []ai.Message, provider, model string) (string, error) {
	raw, ok := s.cache.Get(videoID)
	if !ok {
		return "", ErrCacheMiss
	}

	aiService, err := s.factory.Service(provider, model)
	if err != nil {
		return "", err
	}
	if !aiService.IsConfigured() {
		return "", &ProviderNotConfiguredError{Provider: s.providerName(provider)}
	}

	return aiService.Chat(ctx, prompts.ChatContext(raw), message, history)
}

// TranslateSegment translates one display segment.
func (s *Summarizer) TranslateSegment(ctx context.Context, text, provider string) (string, error) {
	aiService, err := s.factory.Service(provider, "")
	if err != nil {
		return "", err
	}
	if !aiService.IsConfigured() {
		return "", &ProviderNotConfiguredError{Provider: s.providerName(provider)}
	}
	return aiService.TranslateSegment(ctx, text)
}

// TranslateBatch translates multiple display segments in one call.
func (s *Summarizer) TranslateBatch(ctx context.Context, segments []string, provider string) ([]string, error) {
	aiService, err := s.factory.Service(provider, "")
	if err != nil {
		return nil, err
	}
	if !aiService.IsConfigured() {
		return nil, &ProviderNotConfiguredError{Provider: s.providerName(provider)}
	}
	return aiService.TranslateBatch(ctx, segments)
}

func (s *Summarizer) providerName(provider string) string {
	if provider == "" {
		return s.cfg.AI.DefaultProvider
	}
	return strings.ToLower(provider)
}

func (s *Summarizer) modelName(provider, model string) string {
	if model != "" {
		return model
	}
	return "default"
}

// limitRunes truncates on rune boundaries; transcripts are routinely
// multi-byte.
func limitRunes(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
