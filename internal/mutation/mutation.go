// Package mutation wraps write operations in a uniform
// pending/success/error/settled lifecycle so callers manage loading and
// error state one way instead of hand-rolling it per call site.
package mutation

import (
	"context"
)

type Status string

const (
	StatusIdle    Status = "idle"
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
	StatusSettled Status = "settled"
)

// Options carries the per-call hooks. ThrowError opts into receiving the
// error from Mutate; without it the error is recorded in state only.
type Options[Res any] struct {
	OnSuccess  func(Res)
	OnError    func(error)
	OnSettled  func()
	ThrowError bool
}

// Mutation is the generic state machine around one write operation.
// It is cooperative, not concurrent: a second Mutate while the first is
// pending races on the shared state, so callers must not overlap calls.
type Mutation[Req, Res any] struct {
	fn     func(context.Context, Req) (Res, error)
	status Status
	data   Res
	err    error
}

func New[Req, Res any](fn func(context.Context, Req) (Res, error)) *Mutation[Req, Res] {
	return &Mutation[Req, Res]{fn: fn, status: StatusIdle}
}

// Mutate runs the wrapped operation through the full lifecycle. The
// settled transition and callback always run, whatever the outcome.
func (m *Mutation[Req, Res]) Mutate(ctx context.Context, req Req, opts *Options[Res]) (Res, error) {
	var zero Res
	m.data = zero
	m.err = nil
	m.status = StatusPending

	defer func() {
		m.status = StatusSettled
		if opts != nil && opts.OnSettled != nil {
			opts.OnSettled()
		}
	}()

	res, err := m.fn(ctx, req)
	if err != nil {
		m.err = err
		m.status = StatusError
		if opts != nil && opts.OnError != nil {
			opts.OnError(err)
		}
		if opts != nil && opts.ThrowError {
			return zero, err
		}
		return zero, nil
	}

	m.data = res
	m.status = StatusSuccess
	if opts != nil && opts.OnSuccess != nil {
		opts.OnSuccess(res)
	}
	return res, nil
}

func (m *Mutation[Req, Res]) Data() Res      { return m.data }
func (m *Mutation[Req, Res]) Err() error     { return m.err }
func (m *Mutation[Req, Res]) Status() Status { return m.status }

// Derived booleans are computed from the current status, never stored.

func (m *Mutation[Req, Res]) IsPending() bool { return m.status == StatusPending }
func (m *Mutation[Req, Res]) IsSuccess() bool { return m.status == StatusSuccess }
func (m *Mutation[Req, Res]) IsError() bool   { return m.status == StatusError }
func (m *Mutation[Req, Res]) IsSettled() bool { return m.status == StatusSettled }
