package claims

import (
	"context"
	"time"

	"github.com/jrsteele09/go-auth-client/dispatch"
	"github.com/jrsteele09/go-auth-client/sessions"
)

// Claim is a single key/value fact about the authenticated subject.
type Claim struct {
	Name  string
	Value any
}

// Claims reads individual claims and the full claim set.
type Claims struct {
	accessor
}

// GetClaim returns one claim by name. A claim absent from the set comes
// back with a nil Value.
func (c *Claims) GetClaim(ctx context.Context, name string, options ...QueryOption) *dispatch.Future[Claim] {
	q := buildQuery(options)
	return dispatch.Async(func() (Claim, error) {
		claimSet, err := c.resolveClaims(ctx, q)
		if err != nil {
			return Claim{}, err
		}
		return Claim{Name: name, Value: claimSet[name]}, nil
	})
}

// GetAllClaims returns the full decoded claim set.
func (c *Claims) GetAllClaims(ctx context.Context, options ...QueryOption) *dispatch.Future[map[string]any] {
	q := buildQuery(options)
	return dispatch.Async(func() (map[string]any, error) {
		return c.resolveClaims(ctx, q)
	})
}

// Set bundles the accessors for one session. All members share the
// same store, session key and remote source.
type Set struct {
	Claims       *Claims
	Permissions  *Permissions
	Roles        *Roles
	FeatureFlags *FeatureFlags
	Entitlements *Entitlements
}

// SetOption configures a Set at construction.
type SetOption func(*accessor)

// WithSource supplies the remote claims / flag-evaluation collaborator.
func WithSource(source Source) SetOption {
	return func(a *accessor) {
		a.source = source
	}
}

// WithNowTime sets the now time function (primarily for testing).
func WithNowTime(nowFunc func() time.Time) SetOption {
	return func(a *accessor) {
		a.nowTime = nowFunc
	}
}

// NewSet builds the accessor bundle over a shared session store.
func NewSet(store sessions.Store, sessionID string, options ...SetOption) *Set {
	base := accessor{
		store:     store,
		sessionID: sessionID,
		nowTime:   time.Now,
	}
	for _, opt := range options {
		opt(&base)
	}
	return &Set{
		Claims:       &Claims{accessor: base},
		Permissions:  &Permissions{accessor: base},
		Roles:        &Roles{accessor: base},
		FeatureFlags: &FeatureFlags{accessor: base},
		Entitlements: &Entitlements{accessor: base},
	}
}
