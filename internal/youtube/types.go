package youtube

// CaptionFragment is one atomic caption entry as delivered by the
// upstream source, ordered by start offset.
type CaptionFragment struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`    // seconds
	Duration float64 `json:"duration"` // seconds
}

// CaptionTrack describes one caption track a video offers.
type CaptionTrack struct {
	BaseURL      string `json:"base_url"`
	LanguageCode string `json:"language_code"`
	Name         string `json:"name"`
	Kind         string `json:"kind"` // "asr" for auto-generated tracks
}

// Generated reports whether the track is auto-generated speech
// recognition rather than a manually created transcript.
func (t CaptionTrack) Generated() bool {
	return t.Kind == "asr"
}
