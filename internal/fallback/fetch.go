// Package fallback resolves an identifier by joining a bounded remote lookup
// with a minimum-delay timer, then falling back to a static table.
//
// The timer is a latency floor: a lookup never resolves before minDelay has
// elapsed, however fast the remote call settles. The remote call is bounded by
// remoteTimeout, so a lookup never takes much longer than
// max(minDelay, remoteTimeout). Every remote failure (timeout, transport
// error, bad payload, panic) collapses into absence; the only error a caller
// sees is ErrNotFound.
package fallback

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dataloaders/pkg/platform/sentinel"
)

// Source records which side produced a value.
type Source string

const (
	SourceRemote Source = "remote"
	SourceStatic Source = "static"
)

// ErrNotFound is returned when neither the remote call nor the static table
// knows the identifier. It matches sentinel.ErrNotFound with errors.Is.
var ErrNotFound = fmt.Errorf("fallback: identifier unknown to remote and static sources: %w", sentinel.ErrNotFound)

// errAbsent marks a remote leg that produced no usable value.
var errAbsent = errors.New("remote absent")

// Remote looks up id on a live source. The context carries the remote
// timeout as its deadline. Implementations return an error for transport
// failures and for empty or malformed payloads; a nil error means the value
// is authoritative.
type Remote[V any] func(ctx context.Context, id string) (V, error)

// Outcome is a resolved lookup.
type Outcome[V any] struct {
	Value   V
	Source  Source
	Elapsed time.Duration
}

type remoteResult[V any] struct {
	value V
	err   error
}

// Fetch resolves id. The remote call and a minDelay timer run concurrently
// and are both awaited; the remote value wins when present, otherwise the
// static table is consulted. Negative durations are treated as zero.
func Fetch[V any](ctx context.Context, id string, remote Remote[V], table StaticTable[V], minDelay, remoteTimeout time.Duration) (Outcome[V], error) {
	r, err := fetch(ctx, id, remote, table, minDelay, remoteTimeout)
	return r.outcome, err
}

// resolution pairs an outcome with the reason the remote leg was absent.
// cause is nil when the remote value was used.
type resolution[V any] struct {
	outcome Outcome[V]
	cause   error
}

// fetch is Fetch that keeps the absence cause for callers that log or count
// remote failures.
func fetch[V any](ctx context.Context, id string, remote Remote[V], table StaticTable[V], minDelay, remoteTimeout time.Duration) (resolution[V], error) {
	start := time.Now()

	timer := time.NewTimer(max(minDelay, 0))
	defer timer.Stop()

	settled := make(chan remoteResult[V], 1)
	go func() {
		settled <- callRemote(ctx, id, remote, max(remoteTimeout, 0))
	}()

	// Join: the timer always runs to completion, the remote leg is bounded by
	// its own deadline.
	<-timer.C
	res := <-settled

	if res.err == nil {
		return resolution[V]{outcome: Outcome[V]{Value: res.value, Source: SourceRemote, Elapsed: time.Since(start)}}, nil
	}
	if v, ok := table.Lookup(id); ok {
		return resolution[V]{outcome: Outcome[V]{Value: v, Source: SourceStatic, Elapsed: time.Since(start)}, cause: res.err}, nil
	}
	return resolution[V]{outcome: Outcome[V]{Elapsed: time.Since(start)}, cause: res.err}, ErrNotFound
}

// callRemote runs the remote call under a deadline and normalizes every
// failure into errAbsent. It returns by the deadline even when the remote
// implementation ignores its context; a late result is dropped.
func callRemote[V any](ctx context.Context, id string, remote Remote[V], timeout time.Duration) remoteResult[V] {
	if remote == nil {
		return remoteResult[V]{err: fmt.Errorf("%w: no remote configured", errAbsent)}
	}

	rctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan remoteResult[V], 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- remoteResult[V]{err: &panicError{value: r}}
			}
		}()
		v, err := remote(rctx, id)
		done <- remoteResult[V]{value: v, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return remoteResult[V]{err: fmt.Errorf("%w: %w", errAbsent, r.err)}
		}
		return r
	case <-rctx.Done():
		return remoteResult[V]{err: fmt.Errorf("%w: %w", errAbsent, rctx.Err())}
	}
}

type panicError struct {
	value any
}

func (e *panicError) Error() string {
	return fmt.Sprintf("remote panicked: %v", e.value)
}

// Reason classifies a remote absence cause for logs and metrics. Causes that
// expose a FailureCategory() string (such as upstream client errors) report it.
func Reason(cause error) string {
	var categorized interface{ FailureCategory() string }
	var pe *panicError
	switch {
	case cause == nil:
		return ""
	case errors.Is(cause, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(cause, context.Canceled):
		return "canceled"
	case errors.As(cause, &pe):
		return "panic"
	case errors.As(cause, &categorized):
		return categorized.FailureCategory()
	default:
		return "error"
	}
}
