// Package faults is the single error taxonomy for the acquisition layer.
// Every component classifies failures through it; none recomputes
// retryability on its own.
package faults

import (
	"context"
	"errors"
	"fmt"
)

// Kind enumerates the failure categories.
type Kind int

const (
	InvalidRequest Kind = iota
	Network
	HTTPStatus
	DecodeFailure
	NoData
	Timeout
	ProviderUnavailable
	StreamDisconnected
	Cancelled
)

var kindNames = map[Kind]string{
	InvalidRequest:      "invalid request",
	Network:             "network failure",
	HTTPStatus:          "http status",
	DecodeFailure:       "decode failure",
	NoData:              "no data",
	Timeout:             "timeout",
	ProviderUnavailable: "provider unavailable",
	StreamDisconnected:  "stream disconnected",
	Cancelled:           "cancelled",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is a classified failure. Status and Body are set for HTTPStatus only.
type Error struct {
	Kind   Kind
	Status int
	Body   string
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == HTTPStatus && e.Body != "":
		return fmt.Sprintf("%s %d: %s", e.Kind, e.Status, e.Body)
	case e.Kind == HTTPStatus:
		return fmt.Sprintf("%s %d", e.Kind, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error { return e.Err }

// New creates a classified error with a message.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Err: errors.New(msg)}
}

// Wrap classifies an underlying error. Context cancellation and deadline
// expiry take precedence over the suggested kind.
func Wrap(kind Kind, err error) *Error {
	if errors.Is(err, context.Canceled) {
		kind = Cancelled
	} else if errors.Is(err, context.DeadlineExceeded) {
		kind = Timeout
	}
	return &Error{Kind: kind, Err: err}
}

// FromStatus classifies a non-2xx HTTP response. The body is truncated to
// keep error strings bounded.
func FromStatus(status int, body string) *Error {
	const maxBody = 256
	if len(body) > maxBody {
		body = body[:maxBody]
	}
	return &Error{Kind: HTTPStatus, Status: status, Body: body}
}

// KindOf returns the classified kind of err, or Network for unclassified
// errors (the conservative retryable default for transport failures).
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	if errors.Is(err, context.Canceled) {
		return Cancelled
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Timeout
	}
	return Network
}

// Retryable reports whether retrying err can possibly succeed. This table
// is authoritative for the whole layer.
func Retryable(err error) bool {
	var fe *Error
	if !errors.As(err, &fe) {
		return KindOf(err) != Cancelled
	}
	switch fe.Kind {
	case Network, Timeout, ProviderUnavailable, StreamDisconnected:
		return true
	case HTTPStatus:
		return fe.Status >= 500 || fe.Status == 429
	default:
		return false
	}
}
