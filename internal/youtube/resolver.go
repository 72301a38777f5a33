package youtube

import (
	"net/url"
	"strings"
)

// Host allowlists keep lookalike domains from matching; anything not
// listed here resolves to "no identifier".
var (
	shortLinkHosts = map[string]bool{
		"youtu.be":     true,
		"www.youtu.be": true,
	}
	canonicalHosts = map[string]bool{
		"youtube.com":     true,
		"www.youtube.com": true,
		"m.youtube.com":   true,
	}
)

// ExtractVideoID resolves a share link into a video identifier.
//
// Supported shapes:
//   - https://youtu.be/VIDEO_ID
//   - https://www.youtube.com/watch?v=VIDEO_ID
//   - https://www.youtube.com/embed/VIDEO_ID
//   - https://www.youtube.com/v/VIDEO_ID
//   - https://m.youtube.com/watch?v=VIDEO_ID
//
// Malformed or unrecognized input returns ok=false, never an error.
func ExtractVideoID(rawURL string) (string, bool) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}

	host := strings.ToLower(parsed.Hostname())

	if shortLinkHosts[host] {
		id := strings.TrimPrefix(parsed.Path, "/")
		if id == "" {
			return "", false
		}
		return id, true
	}

	if !canonicalHosts[host] {
		return "", false
	}

	if parsed.Path == "/watch" {
		if id := parsed.Query().Get("v"); id != "" {
			return id, true
		}
		return "", false
	}

	for _, prefix := range []string{"/embed/", "/v/"} {
		if strings.HasPrefix(parsed.Path, prefix) {
			rest := strings.TrimPrefix(parsed.Path, prefix)
			if id := strings.SplitN(rest, "/", 2)[0]; id != "" {
				return id, true
			}
		}
	}

	return "", false
}
