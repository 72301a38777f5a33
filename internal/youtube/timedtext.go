package youtube

import (
	"html"
	"regexp"
	"strconv"

	"aqwari.net/xml/xmltree"
)

var markupTagRegex = regexp.MustCompile(`<[^>]+>`)

// parseTimedTextXML parses the legacy timedtext XML markup into caption
// fragments. Entries are <text start="..." dur="...">...</text>
// elements; entities are unescaped and any embedded markup stripped.
func parseTimedTextXML(payload []byte) ([]CaptionFragment, error) {
	root, err := xmltree.Parse(payload)
	if err != nil {
		return nil, WrapFetchError(KindNoTranscriptFound, "failed to parse timedtext XML", err)
	}

	fragments := make([]CaptionFragment, 0, len(root.Children))
	for _, element := range root.Children {
		if element.Name.Local != "text" {
			continue
		}

		var start, duration float64
		for _, attr := range element.StartElement.Attr {
			switch attr.Name.Local {
			case "start":
				if v, err := strconv.ParseFloat(attr.Value, 64); err == nil {
					start = v
				}
			case "dur":
				if v, err := strconv.ParseFloat(attr.Value, 64); err == nil {
					duration = v
				}
			}
		}

		text := html.UnescapeString(string(element.Content))
		text = markupTagRegex.ReplaceAllString(text, "")

		fragments = append(fragments, CaptionFragment{
			Text:     text,
			Start:    start,
			Duration: duration,
		})
	}

	if len(fragments) == 0 {
		return nil, NewFetchError(KindNoTranscriptFound, "timedtext XML contains no caption entries")
	}
	return fragments, nil
}
