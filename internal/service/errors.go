package service

import (
	"errors"
	"fmt"
)

// ErrInvalidURL signals that the resolver found no video identifier in
// the submitted link.
var ErrInvalidURL = errors.New("not a recognized YouTube URL")

// ErrCacheMiss is the normal negative result of the cache-backed flows:
// the slot is empty, holds a different video, or expired. The caller
// decides whether that means "re-fetch" or "nothing to show".
var ErrCacheMiss = errors.New("transcript not found in cache")

// ProviderNotConfiguredError reports a provider selected without
// credentials.
type ProviderNotConfiguredError struct {
	Provider string
}

func (e *ProviderNotConfiguredError) Error() string {
	return fmt.Sprintf("%s API key is not configured", e.Provider)
}
