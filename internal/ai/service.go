// Package ai is the provider boundary for summarization. The transcript
// core never interprets caption content; everything content-aware sits
// behind the Service interface.
package ai

import "context"

// Service is the capability interface every AI provider implements.
// Implementations are selected by the Factory keyed on provider name.
type Service interface {
	// Overview produces the concise 2-3 sentence summary. An optional
	// custom prompt replaces the default prompt entirely.
	Overview(ctx context.Context, prompt, systemPrompt string) (string, error)

	// Detail produces the detailed markdown summary.
	Detail(ctx context.Context, prompt, systemPrompt string) (string, error)

	// Chat answers a question grounded in the transcript context,
	// continuing the given conversation history.
	Chat(ctx context.Context, contextPrompt, message string, history []Message) (string, error)

	// TranslateSegment translates one text segment to the target
	// language.
	TranslateSegment(ctx context.Context, text string) (string, error)

	// TranslateBatch translates multiple segments, preserving order.
	TranslateBatch(ctx context.Context, segments []string) ([]string, error)

	// IsConfigured reports whether the provider has credentials.
	IsConfigured() bool
}
