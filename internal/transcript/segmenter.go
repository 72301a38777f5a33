// Package transcript turns raw caption fragments into readable,
// timestamped paragraphs and into the flat text fed to the AI boundary.
package transcript

import (
	"fmt"
	"strings"

	"github.com/jklb739/insight-stream/internal/youtube"
)

const (
	// softBoundarySeconds is the elapsed time after which a paragraph
	// closes at the next sentence-final fragment.
	softBoundarySeconds = 30.0
	// hardCapSeconds closes a paragraph regardless of sentence state.
	hardCapSeconds = 45.0
)

// sentenceEndings covers ASCII and full-width sentence-final
// punctuation; "..." ends with "." and needs no special case.
var sentenceEndings = []string{".", "!", "?", "…", "。", "！", "？"}

// Paragraph is a contiguous run of fragments merged into one displayed,
// timestamped block.
type Paragraph struct {
	Timestamp string `json:"timestamp"`
	Text      string `json:"text"`
}

// Render returns the paragraph as displayed: timestamp, a space, then
// the merged text.
func (p Paragraph) Render() string {
	return p.Timestamp + " " + p.Text
}

// Paragraphs regroups fragments into sentence-respecting paragraphs.
// Deterministic single pass: whitespace-only fragments are discarded,
// every other fragment lands in exactly one paragraph, and original
// order is preserved.
func Paragraphs(fragments []youtube.CaptionFragment) []Paragraph {
	kept := make([]youtube.CaptionFragment, 0, len(fragments))
	for _, fragment := range fragments {
		if strings.TrimSpace(fragment.Text) != "" {
			kept = append(kept, fragment)
		}
	}
	if len(kept) == 0 {
		return nil
	}

	paragraphs := make([]Paragraph, 0)
	start := kept[0].Start
	texts := make([]string, 0)

	for i, fragment := range kept {
		text := strings.TrimSpace(fragment.Text)
		texts = append(texts, text)

		elapsed := fragment.Start - start
		last := i == len(kept)-1

		switch {
		case elapsed >= hardCapSeconds:
			// Hard cap wins over sentence state.
		case last:
			// End of input closes the open paragraph.
		case elapsed >= softBoundarySeconds && endsSentence(text):
			// Soft boundary only closes on a complete sentence.
		default:
			continue
		}

		paragraphs = append(paragraphs, Paragraph{
			Timestamp: formatTimestamp(start),
			Text:      strings.Join(texts, " "),
		})
		if !last {
			start = kept[i+1].Start
			texts = texts[:0:0]
		}
	}

	return paragraphs
}

// Format renders the paragraph stream as a double-newline-joined
// string. Empty input yields an empty string.
func Format(fragments []youtube.CaptionFragment) string {
	paragraphs := Paragraphs(fragments)
	rendered := make([]string, 0, len(paragraphs))
	for _, paragraph := range paragraphs {
		rendered = append(rendered, paragraph.Render())
	}
	return strings.Join(rendered, "\n\n")
}

// FlatText joins the non-empty fragment texts with single spaces, for
// length-limited downstream analysis.
func FlatText(fragments []youtube.CaptionFragment) string {
	texts := make([]string, 0, len(fragments))
	for _, fragment := range fragments {
		if text := strings.TrimSpace(fragment.Text); text != "" {
			texts = append(texts, text)
		}
	}
	return strings.Join(texts, " ")
}

func endsSentence(text string) bool {
	for _, ending := range sentenceEndings {
		if strings.HasSuffix(text, ending) {
			return true
		}
	}
	return false
}

// formatTimestamp renders a start offset as m:ss, truncated not
// rounded: 125.7 renders as 2:05.
func formatTimestamp(seconds float64) string {
	whole := int(seconds)
	return fmt.Sprintf("%d:%02d", whole/60, whole%60)
}
