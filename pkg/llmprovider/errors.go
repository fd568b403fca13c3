package llmprovider

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

var (
	// ErrAllProvidersFailed is returned when every provider in the chain failed.
	ErrAllProvidersFailed = errors.New("all providers failed")

	// ErrNoProvidersConfigured is returned when no provider is enabled.
	ErrNoProvidersConfigured = errors.New("no providers configured")

	// ErrInvalidRequest is returned for a nil request.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrProviderTimeout marks a provider call that ran out of time, either
	// locally or as a 408/504 from the API.
	ErrProviderTimeout = errors.New("provider timeout")

	// ErrProviderRateLimited marks a 429 reply. The provider is not retried;
	// the chain moves on to the next one.
	ErrProviderRateLimited = errors.New("provider rate limited")
)

// statusCoder is implemented by the API errors of the provider clients.
type statusCoder interface {
	HTTPStatus() int
}

// ProviderError is the failure of one provider. Kind is ErrProviderTimeout,
// ErrProviderRateLimited or nil, and both Kind and Err match errors.Is.
type ProviderError struct {
	Provider string
	Kind     error
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Kind != nil {
		return fmt.Sprintf("provider %s: %v: %v", e.Provider, e.Kind, e.Err)
	}
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() []error {
	if e.Kind != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Err}
}

// newProviderError classifies err by HTTP status or timeout.
func newProviderError(provider string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Kind: classify(err), Err: err}
}

func classify(err error) error {
	var sc statusCoder
	if errors.As(err, &sc) {
		switch sc.HTTPStatus() {
		case http.StatusTooManyRequests:
			return ErrProviderRateLimited
		case http.StatusRequestTimeout, http.StatusGatewayTimeout:
			return ErrProviderTimeout
		}
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrProviderTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return ErrProviderTimeout
	}
	return nil
}
