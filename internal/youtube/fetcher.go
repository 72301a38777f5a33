// Package youtube implements the transcript acquisition engine: share
// link resolution, the multi-tier caption fetch strategy, and the
// upstream clients the tiers run on.
package youtube

import (
	"context"
	"fmt"

	"github.com/jklb739/insight-stream/pkg/log"
)

// CaptionSource abstracts the upstream caption operations a strategy
// needs: listing a video's tracks and fetching one track's payload.
type CaptionSource interface {
	ListTracks(ctx context.Context, videoID string) ([]CaptionTrack, error)
	FetchTrack(ctx context.Context, videoID string, track CaptionTrack) ([]CaptionFragment, error)
}

// strategy is one fetch tier. Tiers run strictly in order; they are
// fallbacks, not redundancy, so they never race.
type strategy interface {
	name() string
	fetch(ctx context.Context, videoID string) ([]CaptionFragment, error)
}

// Fetcher retrieves caption fragments through an ordered strategy list,
// absorbing soft failures and surfacing terminal ones immediately.
type Fetcher struct {
	strategies []strategy
}

type FetcherOption func(*Fetcher)

// WithProxy prepends the proxying scrape tier. It runs first because
// default-transport blocking is the failure mode it exists to route
// around.
func WithProxy(proxy *ScrapeProxy, languages []string) FetcherOption {
	return func(f *Fetcher) {
		f.strategies = append([]strategy{&proxyStrategy{proxy: proxy, languages: languages}}, f.strategies...)
	}
}

func NewFetcher(source CaptionSource, languages []string, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		strategies: []strategy{
			&preferredLanguageStrategy{source: source, languages: languages},
			&anyTrackStrategy{source: source},
		},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch tries each strategy tier in order. A terminal failure
// short-circuits; soft failures advance to the next tier. Exhausting
// every tier yields NoTranscriptFound.
func (f *Fetcher) Fetch(ctx context.Context, videoID string) ([]CaptionFragment, error) {
	for _, st := range f.strategies {
		fragments, err := st.fetch(ctx, videoID)
		if err == nil {
			if len(fragments) == 0 {
				// Empty success is not success.
				log.Warn("Strategy %s returned no fragments for %s", st.name(), videoID)
				continue
			}
			log.Info("Strategy %s fetched %d fragments for %s", st.name(), len(fragments), videoID)
			return fragments, nil
		}

		if kind, ok := KindOf(err); ok && kind.Terminal() {
			log.Error("Strategy %s hit terminal failure for %s: %v", st.name(), videoID, err)
			return nil, err
		}
		log.Warn("Strategy %s failed for %s, trying next tier: %v", st.name(), videoID, err)
	}

	return nil, NewFetchError(KindNoTranscriptFound,
		fmt.Sprintf("no transcript found for video %s after all strategies", videoID))
}

// preferredLanguageStrategy requests captions directly in preferred
// language order, then falls back to the first language the video
// actually offers.
type preferredLanguageStrategy struct {
	source    CaptionSource
	languages []string
}

func (s *preferredLanguageStrategy) name() string { return "preferred-language" }

func (s *preferredLanguageStrategy) fetch(ctx context.Context, videoID string) ([]CaptionFragment, error) {
	tracks, err := s.source.ListTracks(ctx, videoID)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for _, lang := range s.languages {
		track, ok := findTrack(tracks, lang)
		if !ok {
			continue
		}
		fragments, err := s.source.FetchTrack(ctx, videoID, track)
		if err != nil {
			if kind, ok := KindOf(err); ok && kind.Terminal() {
				return nil, err
			}
			lastErr = err
			continue
		}
		return fragments, nil
	}

	// None of the preferred languages matched or fetched; take the
	// first track the video offers.
	fragments, err := s.source.FetchTrack(ctx, videoID, tracks[0])
	if err != nil {
		if kind, ok := KindOf(err); ok && kind.Terminal() {
			return nil, err
		}
		if lastErr != nil {
			return nil, lastErr
		}
		return nil, err
	}
	return fragments, nil
}

func findTrack(tracks []CaptionTrack, lang string) (CaptionTrack, bool) {
	// Manual tracks win over auto-generated ones for the same language.
	for _, generated := range []bool{false, true} {
		for _, track := range tracks {
			if track.Generated() == generated && matchesLanguage(track.LanguageCode, lang) {
				return track, true
			}
		}
	}
	return CaptionTrack{}, false
}

// anyTrackStrategy is the last tier: the video confirmed at least one
// track exists, so iterate every offered track and return the first one
// that fetches. Blocked failures are per-track soft here; a transport
// block on one track URL says nothing about the next.
type anyTrackStrategy struct {
	source CaptionSource
}

func (s *anyTrackStrategy) name() string { return "any-track" }

func (s *anyTrackStrategy) fetch(ctx context.Context, videoID string) ([]CaptionFragment, error) {
	tracks, err := s.source.ListTracks(ctx, videoID)
	if err != nil {
		return nil, err
	}

	for _, track := range tracks {
		fragments, err := s.source.FetchTrack(ctx, videoID, track)
		if err != nil {
			if kind, ok := KindOf(err); ok && kind.Terminal() {
				return nil, err
			}
			log.Debug("Track %s failed for %s: %v", track.LanguageCode, videoID, err)
			continue
		}
		return fragments, nil
	}

	return nil, NewFetchError(KindNoTranscriptFound,
		fmt.Sprintf("no offered track fetched successfully for video %s", videoID))
}
