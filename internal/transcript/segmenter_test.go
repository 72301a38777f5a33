package transcript

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jklb739/insight-stream/internal/youtube"
)

func frag(text string, start float64) youtube.CaptionFragment {
	return youtube.CaptionFragment{Text: text, Start: start, Duration: 2}
}

func TestFormat_EmptyInput(t *testing.T) {
	assert.Equal(t, "", Format(nil))
	assert.Equal(t, "", Format([]youtube.CaptionFragment{}))
}

func TestFormat_WhitespaceOnlyFragmentsDiscarded(t *testing.T) {
	got := Format([]youtube.CaptionFragment{
		frag("  ", 0),
		frag("Hello.", 1),
		frag("\n\t", 2),
	})
	assert.Equal(t, "0:01 Hello.", got)
}

func TestFormat_SoftBoundaryWaitsForSentenceEnd(t *testing.T) {
	// 30s elapsed but "World" has no terminal punctuation, so the
	// paragraph stays open until "Bye." at 32s.
	got := Format([]youtube.CaptionFragment{
		frag("Hello.", 0),
		frag("World", 30),
		frag("Bye.", 32),
		frag("Next paragraph", 40),
	})

	paragraphs := strings.Split(got, "\n\n")
	require.Len(t, paragraphs, 2)
	assert.Equal(t, "0:00 Hello. World Bye.", paragraphs[0])
	assert.Equal(t, "0:40 Next paragraph", paragraphs[1])
}

func TestFormat_SoftBoundaryClosesOnSentence(t *testing.T) {
	got := Format([]youtube.CaptionFragment{
		frag("Hello.", 0),
		frag("World.", 31),
		frag("Second", 35),
	})

	paragraphs := strings.Split(got, "\n\n")
	require.Len(t, paragraphs, 2)
	assert.Equal(t, "0:00 Hello. World.", paragraphs[0])
	assert.Equal(t, "0:35 Second", paragraphs[1])
}

func TestFormat_HardCapIgnoresSentenceState(t *testing.T) {
	got := Format([]youtube.CaptionFragment{
		frag("Start", 0),
		frag("still going", 20),
		frag("no punctuation here", 46),
		frag("tail", 50),
	})

	paragraphs := strings.Split(got, "\n\n")
	require.Len(t, paragraphs, 2)
	assert.Equal(t, "0:00 Start still going no punctuation here", paragraphs[0])
	assert.Equal(t, "0:50 tail", paragraphs[1])
}

func TestFormat_FullWidthPunctuationClosesParagraph(t *testing.T) {
	got := Format([]youtube.CaptionFragment{
		frag("안녕하세요", 0),
		frag("반갑습니다。", 31),
		frag("다음 문단", 35),
	})

	paragraphs := strings.Split(got, "\n\n")
	require.Len(t, paragraphs, 2)
	assert.Equal(t, "0:35 다음 문단", paragraphs[1])
}

func TestFormat_TimestampTruncatesNotRounds(t *testing.T) {
	got := Format([]youtube.CaptionFragment{frag("late start", 125.7)})
	assert.Equal(t, "2:05 late start", got)
}

func TestFormat_ConcatenationLaw(t *testing.T) {
	fragments := []youtube.CaptionFragment{
		frag("one two three.", 0),
		frag("   ", 10),
		frag("four five", 31),
		frag("six.", 50),
		frag("seven", 80),
	}

	wordsOf := func(s string) map[string]bool {
		words := map[string]bool{}
		for _, w := range strings.Fields(s) {
			words[w] = true
		}
		return words
	}

	inputWords := map[string]bool{}
	for _, f := range fragments {
		for w := range wordsOf(f.Text) {
			inputWords[w] = true
		}
	}

	outputWords := map[string]bool{}
	for _, paragraph := range Paragraphs(fragments) {
		for w := range wordsOf(paragraph.Text) {
			outputWords[w] = true
		}
	}

	assert.Equal(t, inputWords, outputWords)
}

func TestFormat_EveryFragmentInExactlyOneParagraph(t *testing.T) {
	fragments := []youtube.CaptionFragment{
		frag("a.", 0),
		frag("b.", 31),
		frag("c.", 62),
		frag("d", 70),
	}

	paragraphs := Paragraphs(fragments)
	var merged []string
	for _, p := range paragraphs {
		merged = append(merged, p.Text)
	}
	assert.Equal(t, "a. b. c. d", strings.Join(merged, " "))
}

func TestFormat_Idempotent(t *testing.T) {
	fragments := []youtube.CaptionFragment{
		frag("Hello.", 0),
		frag("World", 5),
		frag("Bye.", 32),
		frag("More text here", 40),
		frag("The end.", 90),
	}
	assert.Equal(t, Format(fragments), Format(fragments))
}

func TestFlatText(t *testing.T) {
	fragments := []youtube.CaptionFragment{
		frag("one", 0),
		frag("  ", 1),
		frag("two", 2),
	}
	assert.Equal(t, "one two", FlatText(fragments))
	assert.Equal(t, "", FlatText(nil))
}

func TestDetectLanguage(t *testing.T) {
	code := DetectLanguage("This is a reasonably long English sentence that the detector should recognize without trouble.")
	assert.Equal(t, "en", code)
}
