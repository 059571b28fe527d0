// Package claims exposes read-only views over the current session's
// claim set: claims, permissions, roles and feature flags. Every
// accessor operation is suspending-only and returns a Future, because
// its canonical source of truth may be a remote account-API call with
// no synchronous form. On an unauthenticated session accessors fail
// with sessions.NotAuthenticatedErr, never with an empty view, so
// "empty" and "not logged in" stay distinguishable.
package claims

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/jrsteele09/go-auth-client/sessions"
)

const (
	permissionsClaim = "permissions"
	rolesClaim       = "roles"
	featureFlagClaim = "feature_flags"
	orgCodeClaim     = "org_code"
)

// Source is the remote account-API collaborator: consulted when a query
// forces API resolution instead of the token claim set, and for the
// entitlement endpoints, which have no claim-set form at all.
type Source interface {
	// FetchClaims returns the subject's claim set from the account API.
	FetchClaims(ctx context.Context, accessToken string) (map[string]any, error)

	// EvaluateFlags returns the subject's feature flag map from the
	// flag-evaluation endpoint, in the same shape as the token claim.
	EvaluateFlags(ctx context.Context, accessToken string) (map[string]any, error)

	// FetchEntitlements returns one page of the subject's entitlements.
	FetchEntitlements(ctx context.Context, accessToken string, query EntitlementQuery) (EntitlementPage, error)

	// FetchEntitlement returns a single entitlement by feature key.
	FetchEntitlement(ctx context.Context, accessToken, key string) (Entitlement, error)
}

// accessor is the plumbing every view shares: a snapshot read of the
// session claim set, recomputed on each call.
type accessor struct {
	store     sessions.Store
	sessionID string
	source    Source
	nowTime   func() time.Time
}

// currentSession returns the authenticated session snapshot, or
// sessions.NotAuthenticatedErr. Accessors never trigger a refresh; they
// observe whatever state exists when the read begins.
func (a accessor) currentSession() (*sessions.Session, error) {
	session, err := a.store.Get(a.sessionID)
	if errors.Is(err, sessions.NotFoundErr) {
		return nil, sessions.NotAuthenticatedErr
	}
	if err != nil {
		return nil, errors.Wrap(err, "[accessor.currentSession] store.Get")
	}
	if !session.Authenticated(a.nowTime()) {
		return nil, sessions.NotAuthenticatedErr
	}
	return session, nil
}

// remoteSession returns the authenticated session for an operation that
// can only be answered by the account API.
func (a accessor) remoteSession() (*sessions.Session, error) {
	session, err := a.currentSession()
	if err != nil {
		return nil, err
	}
	if a.source == nil {
		return nil, errors.New("[accessor.remoteSession] no source configured")
	}
	return session, nil
}

// resolveClaims returns the claim set for one query: the session claims
// by default, the remote source when the query forces the API.
func (a accessor) resolveClaims(ctx context.Context, q query) (map[string]any, error) {
	session, err := a.currentSession()
	if err != nil {
		return nil, err
	}
	if q.forceAPI {
		if a.source == nil {
			return nil, errors.New("[accessor.resolveClaims] force api requested but no source configured")
		}
		remote, err := a.source.FetchClaims(ctx, session.AccessToken)
		if err != nil {
			return nil, errors.Wrap(err, "[accessor.resolveClaims] source.FetchClaims")
		}
		return remote, nil
	}
	return session.Claims, nil
}

// QueryOption tunes a single accessor call.
type QueryOption func(*query)

type query struct {
	forceAPI      bool
	defaultValue  any
	hasDefault    bool
	pageSize      int
	startingAfter string
}

// ForceAPI routes the call to the remote source instead of the token
// claim set.
func ForceAPI() QueryOption {
	return func(q *query) {
		q.forceAPI = true
	}
}

// WithDefaultValue makes a missing feature flag resolve to value with
// IsDefault set, instead of failing with FlagNotFoundErr. It has no
// effect on an unauthenticated session.
func WithDefaultValue(value any) QueryOption {
	return func(q *query) {
		q.defaultValue = value
		q.hasDefault = true
	}
}

// WithPageSize caps one page of an entitlement listing. Zero leaves the
// provider's default page size in effect.
func WithPageSize(size int) QueryOption {
	return func(q *query) {
		q.pageSize = size
	}
}

// WithStartingAfter resumes an entitlement listing after the given
// cursor, as reported by the previous page.
func WithStartingAfter(cursor string) QueryOption {
	return func(q *query) {
		q.startingAfter = cursor
	}
}

func buildQuery(options []QueryOption) query {
	var q query
	for _, opt := range options {
		opt(&q)
	}
	return q
}
