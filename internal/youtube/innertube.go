package youtube

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

const defaultPlayerURL = "https://www.youtube.com/youtubei/v1/player?prettyPrint=false"

// playerRequest is the innertube player API request body.
type playerRequest struct {
	Context   playerContext `json:"context"`
	VideoID   string        `json:"videoId"`
	ContentOK bool          `json:"contentCheckOk"`
	RacyOK    bool          `json:"racyCheckOk"`
}

type playerContext struct {
	Client playerClient `json:"client"`
}

type playerClient struct {
	ClientName       string `json:"clientName"`
	ClientVersion    string `json:"clientVersion"`
	UserAgent        string `json:"userAgent"`
	HL               string `json:"hl"`
	TimeZone         string `json:"timeZone"`
	UTCOffsetMinutes int    `json:"utcOffsetMinutes"`
}

type playerResponse struct {
	PlayabilityStatus playabilityStatus `json:"playabilityStatus"`
	Captions          captionsRenderer  `json:"captions"`
}

type playabilityStatus struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

type captionsRenderer struct {
	PlayerCaptionsTracklistRenderer tracklistRenderer `json:"playerCaptionsTracklistRenderer"`
}

type tracklistRenderer struct {
	CaptionTracks []innertubeTrack `json:"captionTracks"`
}

type innertubeTrack struct {
	BaseURL      string    `json:"baseUrl"`
	LanguageCode string    `json:"languageCode"`
	Kind         string    `json:"kind"`
	Name         trackName `json:"name"`
}

type trackName struct {
	SimpleText string `json:"simpleText"`
	Runs       []struct {
		Text string `json:"text"`
	} `json:"runs"`
}

func (n trackName) String() string {
	if n.SimpleText != "" {
		return n.SimpleText
	}
	var parts []string
	for _, run := range n.Runs {
		parts = append(parts, run.Text)
	}
	return strings.Join(parts, "")
}

// timedTextResponse is the json3 caption payload.
type timedTextResponse struct {
	Events []timedTextEvent `json:"events"`
}

type timedTextEvent struct {
	TStartMs    int                `json:"tStartMs"`
	DDurationMs int                `json:"dDurationMs"`
	Segs        []timedTextSegment `json:"segs,omitempty"`
}

type timedTextSegment struct {
	UTF8 string `json:"utf8"`
}

// InnertubeClient talks to the default (unproxied) caption source: the
// innertube player API for track listing and the timedtext endpoint for
// caption payloads.
type InnertubeClient struct {
	httpClient *http.Client
	playerURL  string
}

type InnertubeOption func(*InnertubeClient)

func WithPlayerURL(url string) InnertubeOption {
	return func(c *InnertubeClient) {
		c.playerURL = url
	}
}

func WithHTTPClient(client *http.Client) InnertubeOption {
	return func(c *InnertubeClient) {
		c.httpClient = client
	}
}

func NewInnertubeClient(opts ...InnertubeOption) *InnertubeClient {
	c := &InnertubeClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		playerURL:  defaultPlayerURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListTracks fetches the player response for the video and returns the
// caption tracks it offers, classifying playability failures.
func (c *InnertubeClient) ListTracks(ctx context.Context, videoID string) ([]CaptionTrack, error) {
	body, err := json.Marshal(playerRequest{
		Context: playerContext{
			Client: playerClient{
				ClientName:       "WEB",
				ClientVersion:    "2.20250925.01.00",
				UserAgent:        defaultUserAgent,
				HL:               "en",
				TimeZone:         "UTC",
				UTCOffsetMinutes: 0,
			},
		},
		VideoID:   videoID,
		ContentOK: true,
		RacyOK:    true,
	})
	if err != nil {
		return nil, WrapFetchError(KindVideoUnavailable, "failed to marshal player request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.playerURL, bytes.NewReader(body))
	if err != nil {
		return nil, WrapFetchError(KindVideoUnavailable, "failed to create player request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := doWithRetry(c.httpClient, req)
	if err != nil {
		return nil, WrapFetchError(KindRequestBlocked, "player request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus(resp.StatusCode)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, WrapFetchError(KindRequestBlocked, "failed to read player response", err)
	}

	var player playerResponse
	if err := json.Unmarshal(payload, &player); err != nil {
		return nil, WrapFetchError(KindVideoUnavailable, "failed to decode player response", err)
	}

	if err := classifyPlayability(videoID, player.PlayabilityStatus); err != nil {
		return nil, err
	}

	rawTracks := player.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks
	if len(rawTracks) == 0 {
		return nil, NewFetchError(KindTranscriptsDisabled,
			fmt.Sprintf("video %s offers no caption tracks", videoID))
	}

	tracks := make([]CaptionTrack, 0, len(rawTracks))
	for _, t := range rawTracks {
		tracks = append(tracks, CaptionTrack{
			BaseURL:      t.BaseURL,
			LanguageCode: t.LanguageCode,
			Name:         t.Name.String(),
			Kind:         t.Kind,
		})
	}
	return tracks, nil
}

func classifyPlayability(videoID string, status playabilityStatus) error {
	switch status.Status {
	case "", "OK":
		return nil
	case "ERROR":
		return NewFetchError(KindVideoUnavailable,
			fmt.Sprintf("video %s is unavailable: %s", videoID, status.Reason))
	case "LOGIN_REQUIRED":
		return NewFetchError(KindAgeRestricted,
			fmt.Sprintf("video %s is age-restricted: %s", videoID, status.Reason))
	case "UNPLAYABLE":
		return NewFetchError(KindVideoUnplayable,
			fmt.Sprintf("video %s is unplayable: %s", videoID, status.Reason))
	default:
		return NewFetchError(KindVideoUnplayable,
			fmt.Sprintf("video %s has playability status %s: %s", videoID, status.Status, status.Reason))
	}
}

// FetchTrack downloads a track's json3 payload and converts it into
// ordered caption fragments.
func (c *InnertubeClient) FetchTrack(ctx context.Context, videoID string, track CaptionTrack) ([]CaptionFragment, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, track.BaseURL+"&fmt=json3", nil)
	if err != nil {
		return nil, WrapFetchError(KindNoTranscriptFound, "failed to create timedtext request", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Accept-Language", "en-US")

	resp, err := doWithRetry(c.httpClient, req)
	if err != nil {
		return nil, WrapFetchError(KindRequestBlocked, "timedtext request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus(resp.StatusCode)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, WrapFetchError(KindRequestBlocked, "failed to read timedtext response", err)
	}

	var timedText timedTextResponse
	if err := json.Unmarshal(payload, &timedText); err != nil {
		return nil, WrapFetchError(KindNoTranscriptFound, "failed to decode timedtext response", err)
	}

	fragments := make([]CaptionFragment, 0, len(timedText.Events))
	for _, event := range timedText.Events {
		if len(event.Segs) == 0 {
			continue
		}
		var text strings.Builder
		for _, seg := range event.Segs {
			if seg.UTF8 != "\n" {
				text.WriteString(seg.UTF8)
			}
		}
		fragments = append(fragments, CaptionFragment{
			Text:     text.String(),
			Start:    float64(event.TStartMs) / 1000.0,
			Duration: float64(event.DDurationMs) / 1000.0,
		})
	}

	if len(fragments) == 0 {
		return nil, NewFetchError(KindNoTranscriptFound,
			fmt.Sprintf("track %s for video %s has no caption entries", track.LanguageCode, videoID))
	}
	return fragments, nil
}
