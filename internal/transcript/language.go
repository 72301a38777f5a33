package transcript

import "github.com/abadojack/whatlanggo"

// DetectLanguage returns the ISO 639-1 code of the transcript's
// language, or empty when detection is not reliable. Used for
// reporting only; it never affects fetching.
func DetectLanguage(text string) string {
	info := whatlanggo.Detect(text)
	if !info.IsReliable() {
		return ""
	}
	return info.Lang.Iso6391()
}
