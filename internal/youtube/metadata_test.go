package youtube

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetadataTitle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Query().Get("url"), "watch?v=abc123")
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		_, _ = w.Write([]byte(`{"title": "Real Title", "author_name": "Someone"}`))
	}))
	defer server.Close()

	client := NewMetadataClient(WithOEmbedURL(server.URL))
	assert.Equal(t, "Real Title", client.Title(context.Background(), "abc123"))
}

func TestMetadataTitle_FallsBackToPlaceholder(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"not found", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}},
		{"empty title", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"title": ""}`))
		}},
		{"garbage body", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`<html>not json</html>`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := NewMetadataClient(WithOEmbedURL(server.URL))
			assert.Equal(t, "YouTube Video (abc123)", client.Title(context.Background(), "abc123"))
		})
	}
}

func TestDefaultTitle(t *testing.T) {
	assert.Equal(t, "YouTube Video (xyz)", DefaultTitle("xyz"))
}
