package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/jklb739/insight-stream/internal/service"
)

type Server struct {
	summarizer  *service.Summarizer
	cleanupCron string

	mux    *http.ServeMux
	server *http.Server
}

type Option func(*Server)

// WithCleanupCron lets the cache stats endpoint report when the next
// scheduled cleanup fires.
func WithCleanupCron(expr string) Option {
	return func(s *Server) {
		s.cleanupCron = expr
	}
}

func NewServer(summarizer *service.Summarizer, opts ...Option) *Server {
	s := &Server{
		summarizer: summarizer,
		mux:        http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) ListenAndServe(addr string) error {
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) routes() {
	s.mux.HandleFunc("/", s.handleHealth)
	s.mux.HandleFunc("/summarize", s.handleSummarize)
	s.mux.HandleFunc("/api/prompts/categories", s.handleCategories)
	s.mux.HandleFunc("/api/prompts/custom", s.handleCustomSummarize)
	s.mux.HandleFunc("/api/chat", s.handleChat)
	s.mux.HandleFunc("/api/translate/segment", s.handleTranslateSegment)
	s.mux.HandleFunc("/api/translate/batch", s.handleTranslateBatch)
	s.mux.HandleFunc("/api/cache/stats", s.handleCacheStats)
}
