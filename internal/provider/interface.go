package provider

import (
	"context"
	"errors"
	"iter"

	"github.com/Digital-Shane/media-mover/internal/core"
)

// Query carries the partial facts a catalog lookup starts from. Fields the
// caller cannot supply stay zero and providers work with what they get.
type Query struct {
	Name    string
	Year    int
	Season  int
	Episode int
	ID      string // provider-specific id, overrides name search when set
}

// Provider searches a remote catalog for candidate matches. Results come
// back as a lazy sequence so callers decide how many hits to actually pull;
// breaking out of the range stops the underlying pagination.
type Provider interface {
	Name() string
	Search(ctx context.Context, query Query) iter.Seq2[*core.Metadata, error]
}

// Provider error codes.
const (
	CodeNotFound       = "NOT_FOUND"
	CodeAuthFailed     = "AUTH_FAILED"
	CodeRateLimited    = "RATE_LIMITED"
	CodeUnavailable    = "UNAVAILABLE"
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeUnknown        = "UNKNOWN"
)

// ProviderError represents an error from a provider.
type ProviderError struct {
	Provider   string
	Code       string
	Message    string
	Retry      bool
	RetryAfter int // seconds to wait before retry
}

func (e *ProviderError) Error() string {
	return e.Message
}

// IsNotFound reports whether err is a provider NOT_FOUND signal. The search
// layer turns that into an empty result set rather than a failure.
func IsNotFound(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.Code == CodeNotFound
}
