package faults

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestRetryable(t *testing.T) {
	tests := []struct {
		err    error
		expect bool
	}{
		{New(Network, "connection reset by peer"), true},
		{New(Timeout, "attempt deadline exceeded"), true},
		{New(ProviderUnavailable, "open-meteo unreachable"), true},
		{New(StreamDisconnected, "EOF"), true},
		{FromStatus(500, "internal server error"), true},
		{FromStatus(503, ""), true},
		{FromStatus(429, "slow down"), true},
		{FromStatus(400, "bad request"), false},
		{FromStatus(404, ""), false},
		{FromStatus(401, ""), false},
		{New(InvalidRequest, "empty path"), false},
		{New(DecodeFailure, "unexpected token"), false},
		{New(NoData, "empty body"), false},
		{New(Cancelled, "caller gave up"), false},
	}

	for _, tt := range tests {
		if got := Retryable(tt.err); got != tt.expect {
			t.Errorf("Retryable(%v) = %v, want %v", tt.err, got, tt.expect)
		}
	}
}

func TestWrapContextErrors(t *testing.T) {
	if got := Wrap(Network, context.Canceled).Kind; got != Cancelled {
		t.Errorf("Wrap(Network, context.Canceled).Kind = %v, want Cancelled", got)
	}
	if got := Wrap(Network, context.DeadlineExceeded).Kind; got != Timeout {
		t.Errorf("Wrap(Network, context.DeadlineExceeded).Kind = %v, want Timeout", got)
	}
	wrapped := fmt.Errorf("request failed: %w", context.Canceled)
	if got := Wrap(Network, wrapped).Kind; got != Cancelled {
		t.Errorf("Wrap with nested context.Canceled = %v, want Cancelled", got)
	}
}

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("call failed: %w", FromStatus(502, "bad gateway"))
	if got := KindOf(wrapped); got != HTTPStatus {
		t.Errorf("KindOf(wrapped http error) = %v, want HTTPStatus", got)
	}
	if got := KindOf(errors.New("dial tcp: i/o timeout")); got != Network {
		t.Errorf("KindOf(plain error) = %v, want Network", got)
	}
	if got := KindOf(context.Canceled); got != Cancelled {
		t.Errorf("KindOf(context.Canceled) = %v, want Cancelled", got)
	}
}

func TestErrorString(t *testing.T) {
	e := FromStatus(503, "service unavailable")
	if e.Error() != "http status 503: service unavailable" {
		t.Errorf("unexpected error string: %s", e.Error())
	}
	var fe *Error
	if !errors.As(fmt.Errorf("outer: %w", e), &fe) || fe.Status != 503 {
		t.Error("errors.As failed to recover *Error through wrapping")
	}
}
