// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrorKind classifies why an external provider call failed.
type ErrorKind string

const (
	// KindUnavailable means the provider was not called: its credential is
	// missing or still a placeholder.
	KindUnavailable ErrorKind = "unavailable"
	// KindStatus means the provider answered with a non-success status or a
	// response that could not be used.
	KindStatus ErrorKind = "status"
	// KindTimeout means the call exceeded its deadline.
	KindTimeout ErrorKind = "timeout"
	// KindException covers transport and decoding failures.
	KindException ErrorKind = "exception"
)

// ProviderError reports a failed call to an external provider. Stages
// recover from it with their own fallback; it never reaches the caller.
type ProviderError struct {
	Provider string
	Kind     ErrorKind
	Status   int
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s (HTTP %d): %v", e.Provider, e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Unavailable reports a provider skipped for lack of configuration.
func Unavailable(provider, reason string) error {
	return &ProviderError{Provider: provider, Kind: KindUnavailable, Err: errors.New(reason)}
}

// StatusError reports an unusable response.
func StatusError(provider string, status int, detail string) error {
	return &ProviderError{Provider: provider, Kind: KindStatus, Status: status, Err: errors.New(detail)}
}

// TransportError wraps a failure to complete the request, distinguishing
// timeouts from other exceptions.
func TransportError(provider string, err error) error {
	kind := KindException
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		kind = KindTimeout
	}
	return &ProviderError{Provider: provider, Kind: kind, Err: err}
}

// KindOf returns the ErrorKind of err, or KindException for errors that are
// not ProviderErrors.
func KindOf(err error) ErrorKind {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindException
}
