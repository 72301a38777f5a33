package youtube

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource scripts ListTracks and per-language FetchTrack outcomes and
// records every fetch attempt in order.
type fakeSource struct {
	tracks    []CaptionTrack
	listErr   error
	fetches   map[string]fetchOutcome
	attempted []string
}

type fetchOutcome struct {
	fragments []CaptionFragment
	err       error
}

func (s *fakeSource) ListTracks(_ context.Context, _ string) ([]CaptionTrack, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.tracks, nil
}

func (s *fakeSource) FetchTrack(_ context.Context, _ string, track CaptionTrack) ([]CaptionFragment, error) {
	key := track.LanguageCode
	if track.Generated() {
		key += ":asr"
	}
	s.attempted = append(s.attempted, key)
	outcome := s.fetches[key]
	return outcome.fragments, outcome.err
}

func fragments(texts ...string) []CaptionFragment {
	out := make([]CaptionFragment, len(texts))
	for i, text := range texts {
		out[i] = CaptionFragment{Text: text, Start: float64(i), Duration: 1}
	}
	return out
}

func TestFetch_PreferredLanguageOrder(t *testing.T) {
	source := &fakeSource{
		tracks: []CaptionTrack{
			{LanguageCode: "en"},
			{LanguageCode: "ko"},
		},
		fetches: map[string]fetchOutcome{
			"ko": {fragments: fragments("안녕")},
			"en": {fragments: fragments("hello")},
		},
	}

	fetcher := NewFetcher(source, []string{"ko", "en"})
	got, err := fetcher.Fetch(context.Background(), "vid")

	require.NoError(t, err)
	assert.Equal(t, "안녕", got[0].Text)
	assert.Equal(t, []string{"ko"}, source.attempted)
}

func TestFetch_ManualTrackBeatsGenerated(t *testing.T) {
	source := &fakeSource{
		tracks: []CaptionTrack{
			{LanguageCode: "en", Kind: "asr"},
			{LanguageCode: "en"},
		},
		fetches: map[string]fetchOutcome{
			"en": {fragments: fragments("manual")},
		},
	}

	fetcher := NewFetcher(source, []string{"en"})
	got, err := fetcher.Fetch(context.Background(), "vid")

	require.NoError(t, err)
	assert.Equal(t, "manual", got[0].Text)
	assert.Equal(t, []string{"en"}, source.attempted)
}

func TestFetch_RegionalVariantMatches(t *testing.T) {
	source := &fakeSource{
		tracks: []CaptionTrack{{LanguageCode: "en-GB"}},
		fetches: map[string]fetchOutcome{
			"en-GB": {fragments: fragments("colour")},
		},
	}

	fetcher := NewFetcher(source, []string{"en"})
	got, err := fetcher.Fetch(context.Background(), "vid")

	require.NoError(t, err)
	assert.Equal(t, "colour", got[0].Text)
}

func TestFetch_SoftFailureFallsToNextLanguage(t *testing.T) {
	source := &fakeSource{
		tracks: []CaptionTrack{
			{LanguageCode: "ko"},
			{LanguageCode: "en"},
		},
		fetches: map[string]fetchOutcome{
			"ko": {err: NewFetchError(KindNoTranscriptFound, "ko track is empty")},
			"en": {fragments: fragments("hello")},
		},
	}

	fetcher := NewFetcher(source, []string{"ko", "en"})
	got, err := fetcher.Fetch(context.Background(), "vid")

	require.NoError(t, err)
	assert.Equal(t, "hello", got[0].Text)
	assert.Equal(t, []string{"ko", "en"}, source.attempted)
}

func TestFetch_NoPreferredMatchFallsToFirstOffered(t *testing.T) {
	source := &fakeSource{
		tracks: []CaptionTrack{{LanguageCode: "ja"}},
		fetches: map[string]fetchOutcome{
			"ja": {fragments: fragments("こんにちは")},
		},
	}

	fetcher := NewFetcher(source, []string{"ko", "en"})
	got, err := fetcher.Fetch(context.Background(), "vid")

	require.NoError(t, err)
	assert.Equal(t, "こんにちは", got[0].Text)
}

func TestFetch_TerminalFailureShortCircuits(t *testing.T) {
	source := &fakeSource{
		listErr: NewFetchError(KindTranscriptsDisabled, "captions disabled"),
	}

	fetcher := NewFetcher(source, []string{"en"})
	_, err := fetcher.Fetch(context.Background(), "vid")

	require.Error(t, err)
	assert.True(t, IsKind(err, KindTranscriptsDisabled))
	// The second tier never ran; no track was ever fetched.
	assert.Empty(t, source.attempted)
}

func TestFetch_BlockedTierFallsThrough(t *testing.T) {
	// The first tier is blocked; the enumeration tier retries the same
	// track and succeeds, simulating a block that clears between tiers.
	seq := &sequencedSource{
		tracks: []CaptionTrack{{LanguageCode: "en"}},
		outcomes: []fetchOutcome{
			{err: NewFetchError(KindRequestBlocked, "429 from upstream")},
			{fragments: fragments("recovered")},
		},
	}

	fetcher := NewFetcher(seq, []string{"en"})
	got, err := fetcher.Fetch(context.Background(), "vid")

	require.NoError(t, err)
	assert.Equal(t, "recovered", got[0].Text)
	assert.Equal(t, 2, seq.calls)
}

func TestFetch_ExhaustionYieldsNoTranscriptFound(t *testing.T) {
	source := &fakeSource{
		tracks: []CaptionTrack{{LanguageCode: "en"}},
		fetches: map[string]fetchOutcome{
			"en": {err: NewFetchError(KindRequestBlocked, "blocked")},
		},
	}

	fetcher := NewFetcher(source, []string{"en"})
	_, err := fetcher.Fetch(context.Background(), "vid")

	require.Error(t, err)
	assert.True(t, IsKind(err, KindNoTranscriptFound))
}

func TestFetch_EmptySuccessTreatedAsMiss(t *testing.T) {
	seq := &sequencedSource{
		tracks: []CaptionTrack{{LanguageCode: "en"}},
		outcomes: []fetchOutcome{
			{fragments: nil},
			{fragments: fragments("second tier")},
		},
	}

	fetcher := NewFetcher(seq, []string{"en"})
	got, err := fetcher.Fetch(context.Background(), "vid")

	require.NoError(t, err)
	assert.Equal(t, "second tier", got[0].Text)
}

func TestFetch_EnumerationTierSkipsBadTracks(t *testing.T) {
	source := &fakeSource{
		tracks: []CaptionTrack{
			{LanguageCode: "fr"},
			{LanguageCode: "de"},
		},
		fetches: map[string]fetchOutcome{
			"fr": {err: NewFetchError(KindNoTranscriptFound, "fr track empty")},
			"de": {fragments: fragments("hallo")},
		},
	}

	// No preferred language matches, so tier one falls back to fr,
	// fails soft, and tier two enumerates until de succeeds.
	fetcher := NewFetcher(source, []string{"ko"})
	got, err := fetcher.Fetch(context.Background(), "vid")

	require.NoError(t, err)
	assert.Equal(t, "hallo", got[0].Text)
}

// sequencedSource returns scripted outcomes in call order regardless of
// which track is requested.
type sequencedSource struct {
	tracks   []CaptionTrack
	outcomes []fetchOutcome
	calls    int
}

func (s *sequencedSource) ListTracks(_ context.Context, _ string) ([]CaptionTrack, error) {
	return s.tracks, nil
}

func (s *sequencedSource) FetchTrack(_ context.Context, _ string, _ CaptionTrack) ([]CaptionFragment, error) {
	outcome := s.outcomes[len(s.outcomes)-1]
	if s.calls < len(s.outcomes) {
		outcome = s.outcomes[s.calls]
	}
	s.calls++
	return outcome.fragments, outcome.err
}
