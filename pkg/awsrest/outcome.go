// Package awsrest performs the HTTP exchange for signed requests and turns
// raw responses into classified outcomes. Provider-reported failures are
// returned as data, not raised as errors, so callers driving batch or
// listing operations can report partial failure per item.
package awsrest

import (
	"net/http"

	"github.com/pkg/errors"
)

// Classification says what a response body turned out to be.
type Classification int

const (
	// Success covers 2xx responses.
	Success Classification = iota

	// ProviderError covers responses carrying a structured error envelope.
	ProviderError

	// MalformedBody covers non-2xx responses whose body could not be
	// parsed. The call itself still completed; diagnostics are simply
	// absent.
	MalformedBody
)

// ErrorDetail is the provider's own account of what went wrong, extracted
// from the error envelope for correlation with provider-side logs.
type ErrorDetail struct {
	Code      string
	Message   string
	RequestID string
}

// ResponseOutcome is the immutable record of one dispatched exchange.
type ResponseOutcome struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	Class      Classification

	// Error is populated when Class is ProviderError.
	Error ErrorDetail

	// RequestID is the request-tracing identifier, populated on success
	// too when the service embeds one in normal responses.
	RequestID string
}

func (o *ResponseOutcome) OK() bool {
	return o.StatusCode >= 200 && o.StatusCode < 300
}

// Err converts a failed outcome into a Go error, for callers that do not
// need per-item reporting. A successful outcome yields nil.
func (o *ResponseOutcome) Err() error {
	if o.OK() {
		return nil
	}
	if o.Class == ProviderError {
		return errors.Errorf("provider error %s: %s (request id %s)",
			o.Error.Code, o.Error.Message, o.Error.RequestID)
	}
	return errors.Errorf("request failed with status %d", o.StatusCode)
}
