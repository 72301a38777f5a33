package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/jklb739/insight-stream/pkg/log"
)

const defaultOEmbedURL = "https://www.youtube.com/oembed"

// DefaultTitle is the deterministic placeholder used when metadata
// lookup fails; metadata failures never abort the pipeline.
func DefaultTitle(videoID string) string {
	return fmt.Sprintf("YouTube Video (%s)", videoID)
}

// MetadataClient looks up best-effort video metadata via the oEmbed
// endpoint, which needs no API key.
type MetadataClient struct {
	httpClient *http.Client
	oembedURL  string
}

type MetadataOption func(*MetadataClient)

func WithOEmbedURL(url string) MetadataOption {
	return func(c *MetadataClient) {
		c.oembedURL = url
	}
}

func NewMetadataClient(opts ...MetadataOption) *MetadataClient {
	c := &MetadataClient{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		oembedURL:  defaultOEmbedURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Title returns the video title, or the deterministic placeholder when
// the lookup fails for any reason.
func (c *MetadataClient) Title(ctx context.Context, videoID string) string {
	query := url.Values{}
	query.Set("url", fmt.Sprintf(watchURLFormat, videoID))
	query.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.oembedURL+"?"+query.Encode(), nil)
	if err != nil {
		return DefaultTitle(videoID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("Failed to fetch title for %s: %v", videoID, err)
		return DefaultTitle(videoID)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warn("oEmbed returned status %d for %s", resp.StatusCode, videoID)
		return DefaultTitle(videoID)
	}

	var payload struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || payload.Title == "" {
		return DefaultTitle(videoID)
	}
	return payload.Title
}
