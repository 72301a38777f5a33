package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultScrapeEndpoint = "https://api.scraperapi.com/"
	watchURLFormat        = "https://www.youtube.com/watch?v=%s"
)

// ScrapeProxy fetches arbitrary URLs through a paid proxying transport.
// The proxy only moves bytes; everything caption-specific (page parsing,
// track selection, markup parsing) happens on our side.
type ScrapeProxy struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

type ScrapeProxyOption func(*ScrapeProxy)

func WithScrapeEndpoint(endpoint string) ScrapeProxyOption {
	return func(p *ScrapeProxy) {
		p.endpoint = endpoint
	}
}

func WithScrapeHTTPClient(client *http.Client) ScrapeProxyOption {
	return func(p *ScrapeProxy) {
		p.httpClient = client
	}
}

func NewScrapeProxy(apiKey string, opts ...ScrapeProxyOption) *ScrapeProxy {
	p := &ScrapeProxy{
		apiKey:   apiKey,
		endpoint: defaultScrapeEndpoint,
		// Proxied requests are slow; the proxy itself retries upstream.
		httpClient: &http.Client{Timeout: 70 * time.Second},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// FetchURL retrieves the target URL through the proxy and returns the
// raw response body.
func (p *ScrapeProxy) FetchURL(ctx context.Context, target string) ([]byte, error) {
	query := url.Values{}
	query.Set("api_key", p.apiKey)
	query.Set("url", target)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, WrapFetchError(KindRequestBlocked, "failed to create proxy request", err)
	}

	resp, err := doWithRetry(p.httpClient, req)
	if err != nil {
		return nil, WrapFetchError(KindRequestBlocked, "proxy request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus(resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// pageCaptions is the tracklist embedded in the watch page.
type pageCaptions struct {
	PlayerCaptionsTracklistRenderer struct {
		CaptionTracks []innertubeTrack `json:"captionTracks"`
	} `json:"playerCaptionsTracklistRenderer"`
}

// extractCaptionTracks pulls the embedded caption tracklist out of the
// watch page HTML, classifying the page's failure markers when no
// tracklist is present.
func extractCaptionTracks(pageHTML, videoID string) ([]CaptionTrack, error) {
	parts := strings.SplitN(pageHTML, `"captions":`, 2)
	if len(parts) < 2 {
		if strings.Contains(pageHTML, `class="g-recaptcha`) {
			return nil, NewFetchError(KindRequestBlocked,
				fmt.Sprintf("watch page for %s served a captcha", videoID))
		}
		if !strings.Contains(pageHTML, `"playabilityStatus":`) {
			return nil, NewFetchError(KindVideoUnavailable,
				fmt.Sprintf("video %s is unavailable", videoID))
		}
		return nil, NewFetchError(KindTranscriptsDisabled,
			fmt.Sprintf("video %s has no captions section", videoID))
	}

	chunk := strings.SplitN(parts[1], `,"videoDetails`, 2)[0]
	chunk = strings.ReplaceAll(chunk, "\n", "")

	var captions pageCaptions
	if err := json.Unmarshal([]byte(chunk), &captions); err != nil {
		return nil, WrapFetchError(KindTranscriptsDisabled, "failed to decode embedded captions JSON", err)
	}

	raw := captions.PlayerCaptionsTracklistRenderer.CaptionTracks
	if len(raw) == 0 {
		return nil, NewFetchError(KindNoTranscriptFound,
			fmt.Sprintf("video %s offers no caption tracks", videoID))
	}

	tracks := make([]CaptionTrack, 0, len(raw))
	for _, t := range raw {
		tracks = append(tracks, CaptionTrack{
			BaseURL:      t.BaseURL,
			LanguageCode: t.LanguageCode,
			Name:         t.Name.String(),
			Kind:         t.Kind,
		})
	}
	return tracks, nil
}

// proxyStrategy is the first fetch tier: it bypasses the default
// transport entirely, scraping the watch page and the caption payload
// through the proxy. It exists to route around default-transport
// blocking, so every request it makes goes through the proxy.
type proxyStrategy struct {
	proxy     *ScrapeProxy
	languages []string
}

func (s *proxyStrategy) name() string { return "proxy-scrape" }

func (s *proxyStrategy) fetch(ctx context.Context, videoID string) ([]CaptionFragment, error) {
	page, err := s.proxy.FetchURL(ctx, fmt.Sprintf(watchURLFormat, videoID))
	if err != nil {
		return nil, err
	}

	tracks, err := extractCaptionTracks(string(page), videoID)
	if err != nil {
		return nil, err
	}

	track := selectTrack(tracks, s.languages)

	payload, err := s.proxy.FetchURL(ctx, track.BaseURL)
	if err != nil {
		return nil, err
	}
	return parseTimedTextXML(payload)
}

// selectTrack picks the first track matching the preferred language
// order, manual tracks winning over auto-generated ones, falling back
// to the first track the video offers.
func selectTrack(tracks []CaptionTrack, languages []string) CaptionTrack {
	for _, lang := range languages {
		for _, generated := range []bool{false, true} {
			for _, track := range tracks {
				if track.Generated() == generated && matchesLanguage(track.LanguageCode, lang) {
					return track
				}
			}
		}
	}
	return tracks[0]
}

// matchesLanguage compares BCP-47 codes, treating a bare base code as a
// match for any of its regional variants (en matches en-US).
func matchesLanguage(trackCode, preferred string) bool {
	trackCode = strings.ToLower(trackCode)
	preferred = strings.ToLower(preferred)
	return trackCode == preferred || strings.HasPrefix(trackCode, preferred+"-")
}
