package youtube

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractVideoID_RecognizedShapes(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"short link", "https://youtu.be/abc123", "abc123"},
		{"short link with www", "https://www.youtu.be/abc123", "abc123"},
		{"watch", "https://www.youtube.com/watch?v=xyz789", "xyz789"},
		{"watch with extra params", "https://www.youtube.com/watch?v=xyz789&t=5", "xyz789"},
		{"watch bare host", "https://youtube.com/watch?v=xyz789", "xyz789"},
		{"mobile watch", "https://m.youtube.com/watch?v=def456", "def456"},
		{"embed", "https://www.youtube.com/embed/qqq111", "qqq111"},
		{"mobile embed", "https://m.youtube.com/embed/qqq111", "qqq111"},
		{"legacy v path", "https://www.youtube.com/v/vvv222", "vvv222"},
		{"embed with trailing path", "https://www.youtube.com/embed/qqq111/extra", "qqq111"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractVideoID(tt.url)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractVideoID_NoMatch(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"unrelated domain", "https://vimeo.com/123"},
		{"lookalike domain", "https://youtube.com.evil.example/watch?v=abc"},
		{"suffix lookalike", "https://notyoutube.com/watch?v=abc"},
		{"watch without v", "https://www.youtube.com/watch?t=5"},
		{"empty short link path", "https://youtu.be/"},
		{"empty embed id", "https://www.youtube.com/embed/"},
		{"not a url", "not a url at all"},
		{"malformed", "http://[::1]:namedport"},
		{"empty string", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractVideoID(tt.url)
			assert.False(t, ok)
			assert.Empty(t, got)
		})
	}
}
