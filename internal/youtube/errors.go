package youtube

import (
	"errors"
	"fmt"
)

// ErrorKind classifies upstream caption failures. Terminal kinds rule
// out the whole fetch; the rest only rule out one strategy tier.
type ErrorKind int

const (
	KindInvalidIdentifier ErrorKind = iota
	KindTranscriptsDisabled
	KindNoTranscriptFound
	KindVideoUnavailable
	KindRequestBlocked
	KindAgeRestricted
	KindVideoUnplayable
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidIdentifier:
		return "InvalidIdentifier"
	case KindTranscriptsDisabled:
		return "TranscriptsDisabled"
	case KindNoTranscriptFound:
		return "NoTranscriptFound"
	case KindVideoUnavailable:
		return "VideoUnavailable"
	case KindRequestBlocked:
		return "RequestBlocked"
	case KindAgeRestricted:
		return "AgeRestricted"
	case KindVideoUnplayable:
		return "VideoUnplayable"
	default:
		return "Unknown"
	}
}

// Terminal reports whether the kind rules out every remaining strategy.
// Blocked requests are transport-specific and a later tier may route
// around them; a missing transcript only becomes final once all tiers
// have been exhausted.
func (k ErrorKind) Terminal() bool {
	switch k {
	case KindTranscriptsDisabled, KindVideoUnavailable, KindAgeRestricted, KindVideoUnplayable:
		return true
	default:
		return false
	}
}

// FetchError is a typed caption-source failure carrying its kind and
// the underlying cause, if any.
type FetchError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func NewFetchError(kind ErrorKind, message string) *FetchError {
	return &FetchError{Kind: kind, Message: message}
}

func WrapFetchError(kind ErrorKind, message string, cause error) *FetchError {
	return &FetchError{Kind: kind, Message: message, Cause: cause}
}

func (e *FetchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s | cause: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

// KindOf extracts the error kind from err, if it is a FetchError.
func KindOf(err error) (ErrorKind, bool) {
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr.Kind, true
	}
	return 0, false
}

// IsKind reports whether err is a FetchError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	got, ok := KindOf(err)
	return ok && got == kind
}
