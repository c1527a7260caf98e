package platform

import (
	"errors"
	"fmt"
)

// UpstreamError is any non-success HTTP response from a third-party
// API. The raw body is kept for diagnostics.
type UpstreamError struct {
	Platform   string
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Platform, e.StatusCode, e.Body)
}

func NewUpstreamError(platform string, statusCode int, body []byte) error {
	return &UpstreamError{Platform: platform, StatusCode: statusCode, Body: string(body)}
}

// ErrPostingUnsupported is returned by adapters for platforms with no
// content-posting capability. It must surface explicitly, never no-op.
var ErrPostingUnsupported = errors.New("posting is not supported for this platform")
