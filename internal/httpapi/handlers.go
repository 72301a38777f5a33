package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/jklb739/insight-stream/internal/ai"
	"github.com/jklb739/insight-stream/internal/prompts"
	"github.com/jklb739/insight-stream/internal/service"
	"github.com/jklb739/insight-stream/internal/youtube"
	"github.com/jklb739/insight-stream/pkg/icron"
	"github.com/jklb739/insight-stream/pkg/log"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, "not_found", "no such endpoint", "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"message": "Insight Stream API is running",
	})
}

type summarizeRequest struct {
	URL        string `json:"url"`
	AIProvider string `json:"ai_provider"`
	Model      string `json:"model"`
	Category   string `json:"category"`
	FormatType string `json:"format_type"`
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed", "")
		return
	}

	var req summarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "invalid json body", "")
		return
	}
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "invalid_url", "url is required",
			"Provide a YouTube video URL")
		return
	}

	log.Info("Received summarize request for URL: %s", req.URL)

	result, err := s.summarizer.Summarize(r.Context(), service.SummarizeRequest{
		URL:        req.URL,
		Provider:   req.AIProvider,
		Model:      req.Model,
		Category:   req.Category,
		FormatType: req.FormatType,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed", "")
		return
	}
	writeJSON(w, http.StatusOK, prompts.Categories())
}

type customSummarizeRequest struct {
	VideoID              string `json:"video_id"`
	Transcript           string `json:"transcript"`
	CustomOverviewPrompt string `json:"custom_overview_prompt"`
	CustomDetailPrompt   string `json:"custom_detail_prompt"`
	CustomSystemPrompt   string `json:"custom_system_prompt"`
	AIProvider           string `json:"ai_provider"`
	Model                string `json:"model"`
}

func (s *Server) handleCustomSummarize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed", "")
		return
	}

	var req customSummarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "invalid json body", "")
		return
	}
	if req.VideoID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "video_id is required", "")
		return
	}

	log.Info("Custom summarize request for video: %s", req.VideoID)

	result, err := s.summarizer.CustomSummarize(r.Context(), service.CustomSummarizeRequest{
		VideoID:        req.VideoID,
		Transcript:     req.Transcript,
		OverviewPrompt: req.CustomOverviewPrompt,
		DetailPrompt:   req.CustomDetailPrompt,
		SystemPrompt:   req.CustomSystemPrompt,
		Provider:       req.AIProvider,
		Model:          req.Model,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type chatRequest struct {
	VideoID             string       `json:"video_id"`
	Message             string       `json:"message"`
	ConversationHistory []ai.Message `json:"conversation_history"`
	AIProvider          string       `json:"ai_provider"`
	Model               string       `json:"model"`
}

type chatResponse struct {
	VideoID string `json:"video_id"`
	Reply   string `json:"reply"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed", "")
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "invalid json body", "")
		return
	}
	if req.VideoID == "" || req.Message == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "video_id and message are required", "")
		return
	}

	log.Info("Chat request for video: %s", req.VideoID)

	reply, err := s.summarizer.Chat(r.Context(), req.VideoID, req.Message,
		req.ConversationHistory, req.AIProvider, req.Model)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chatResponse{VideoID: req.VideoID, Reply: reply})
}

type translateSegmentRequest struct {
	VideoID    string `json:"video_id"`
	Text       string `json:"text"`
	AIProvider string `json:"ai_provider"`
}

func (s *Server) handleTranslateSegment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed", "")
		return
	}

	var req translateSegmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "invalid json body", "")
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "text is required", "")
		return
	}

	translation, err := s.summarizer.TranslateSegment(r.Context(), req.Text, req.AIProvider)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"translation": translation})
}

type translateBatchRequest struct {
	VideoID    string   `json:"video_id"`
	Segments   []string `json:"segments"`
	AIProvider string   `json:"ai_provider"`
}

func (s *Server) handleTranslateBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed", "")
		return
	}

	var req translateBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "invalid json body", "")
		return
	}
	if len(req.Segments) == 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "segments are required", "")
		return
	}

	translations, err := s.summarizer.TranslateBatch(r.Context(), req.Segments, req.AIProvider)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"translations": translations})
}

func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed", "")
		return
	}

	response := map[string]any{
		"cache": s.summarizer.Cache().Stats(),
	}
	if s.cleanupCron != "" {
		if info, err := icron.GetTriggerInfo(s.cleanupCron, time.Now()); err == nil {
			response["next_cleanup"] = info.Next.Format(time.RFC3339)
		}
	}
	writeJSON(w, http.StatusOK, response)
}

// writeServiceError maps pipeline failures to the API's error contract.
// Fetch error kinds keep their upstream identity; the suggestion field
// tells the user what to try next.
func writeServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, service.ErrInvalidURL) {
		writeError(w, http.StatusBadRequest, "invalid_url",
			"not a valid YouTube URL",
			"Provide a URL like https://www.youtube.com/watch?v=... or https://youtu.be/...")
		return
	}
	if errors.Is(err, service.ErrCacheMiss) {
		writeError(w, http.StatusNotFound, "transcript_not_found",
			"no stored transcript for this video",
			"Summarize the video again to refresh the cache")
		return
	}

	var notConfigured *service.ProviderNotConfiguredError
	if errors.As(err, &notConfigured) {
		writeError(w, http.StatusBadRequest, "api_key_required",
			notConfigured.Error(),
			"Set the provider's API key in the server environment")
		return
	}

	if kind, ok := youtube.KindOf(err); ok {
		switch kind {
		case youtube.KindRequestBlocked:
			writeError(w, http.StatusTooManyRequests, "request_blocked",
				"YouTube blocked the request",
				"Try again later or from a different network")
		case youtube.KindAgeRestricted:
			writeError(w, http.StatusForbidden, "age_restricted",
				"the video is age-restricted",
				"Try another video")
		case youtube.KindVideoUnplayable:
			writeError(w, http.StatusNotFound, "video_unplayable",
				"the video cannot be played",
				"The video may have been removed or made private")
		case youtube.KindTranscriptsDisabled:
			writeError(w, http.StatusNotFound, "transcripts_disabled",
				"captions are disabled for this video",
				"Try a video that provides captions")
		case youtube.KindNoTranscriptFound:
			writeError(w, http.StatusNotFound, "no_transcript",
				"no captions are available for this video",
				"Try a video that provides captions")
		case youtube.KindVideoUnavailable:
			writeError(w, http.StatusNotFound, "video_unavailable",
				"the video was not found or is private",
				"Provide a public video URL")
		default:
			writeError(w, http.StatusInternalServerError, "transcript_error",
				"failed to fetch the transcript",
				"Try again later")
		}
		return
	}

	log.Error("Unhandled service error: %v", err)
	writeError(w, http.StatusInternalServerError, "internal_error",
		"something went wrong", "Try again later")
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message, suggestion string) {
	writeJSON(w, status, map[string]string{
		"error":      code,
		"message":    message,
		"suggestion": suggestion,
	})
}
