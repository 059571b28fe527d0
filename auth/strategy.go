package auth

import (
	"context"

	"github.com/jrsteele09/go-auth-client/dispatch"
	"github.com/jrsteele09/go-auth-client/sessions"
)

// Strategy runs the shared operation set under one scheduling policy.
// Every operation returns a Future so the two strategies share one
// interface; the blocking strategy's futures are already resolved when
// they are returned. Given identical session state and identical
// exchanger responses, both strategies produce identical results.
type Strategy interface {
	Login(ctx context.Context, opts LoginOptions) *dispatch.Future[*sessions.Session]
	Register(ctx context.Context) *dispatch.Future[string]
	Logout(ctx context.Context) *dispatch.Future[string]
	GetUserInfo(ctx context.Context) *dispatch.Future[UserProfile]
}

var (
	_ Strategy = BlockingStrategy{}
	_ Strategy = SuspendingStrategy{}
)

// BlockingStrategy executes every operation to completion on the
// calling goroutine, network round trips included, before returning.
type BlockingStrategy struct {
	flows *flows
}

func (s BlockingStrategy) Login(ctx context.Context, opts LoginOptions) *dispatch.Future[*sessions.Session] {
	return dispatch.Resolved(s.flows.login(ctx, opts))
}

func (s BlockingStrategy) Register(ctx context.Context) *dispatch.Future[string] {
	return dispatch.Resolved(s.flows.register(ctx))
}

func (s BlockingStrategy) Logout(ctx context.Context) *dispatch.Future[string] {
	return dispatch.Resolved(s.flows.logout(ctx))
}

func (s BlockingStrategy) GetUserInfo(ctx context.Context) *dispatch.Future[UserProfile] {
	return dispatch.Resolved(s.flows.getUserInfo(ctx))
}

// SuspendingStrategy runs the same flows off the calling goroutine and
// delivers through the Future. Abandoning the Future never cancels the
// flow; a single-flight refresh keeps serving its remaining waiters.
type SuspendingStrategy struct {
	flows *flows
}

func (s SuspendingStrategy) Login(ctx context.Context, opts LoginOptions) *dispatch.Future[*sessions.Session] {
	return dispatch.Async(func() (*sessions.Session, error) { return s.flows.login(ctx, opts) })
}

func (s SuspendingStrategy) Register(ctx context.Context) *dispatch.Future[string] {
	return dispatch.Async(func() (string, error) { return s.flows.register(ctx) })
}

func (s SuspendingStrategy) Logout(ctx context.Context) *dispatch.Future[string] {
	return dispatch.Async(func() (string, error) { return s.flows.logout(ctx) })
}

func (s SuspendingStrategy) GetUserInfo(ctx context.Context) *dispatch.Future[UserProfile] {
	return dispatch.Async(func() (UserProfile, error) { return s.flows.getUserInfo(ctx) })
}
