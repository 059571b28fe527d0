package sessions

import (
	"context"

	"github.com/pkg/errors"
)

var (
	// NotFoundErr reports that no session exists for the requested id.
	NotFoundErr = errors.New("session not found")

	// NotAuthenticatedErr reports that an operation needed an
	// authenticated session and none (or only an expired one) exists.
	// Recoverable: the caller decides whether to prompt for login.
	NotAuthenticatedErr = errors.New("not authenticated")
)

// Refresher performs the external token refresh for one session. It
// receives a snapshot of the current session (nil when none exists) and
// returns the replacement state. It runs at most once per in-flight
// refresh regardless of how many callers wait on the result.
type Refresher func(ctx context.Context, current *Session) (*Session, error)

// Store is the only shared mutable resource in the library. Gets are
// snapshot reads; all mutation funnels through Put, Delete and the
// single-flight Refresh. Implementations must be safe for concurrent use
// by blocking and suspending callers simultaneously.
type Store interface {
	// Get returns a copy of the session, or NotFoundErr.
	Get(id string) (*Session, error)

	// Put stores a copy of the session under id.
	Put(id string, session *Session) error

	// Delete removes the session. Deleting an absent id is not an error.
	Delete(id string) error

	// Refresh runs refresher for id under single-flight semantics: while
	// a refresh is in flight, concurrent calls for the same id wait on it
	// and share its session or its error. On failure the stored session
	// is left unchanged. A caller whose ctx is cancelled detaches from
	// the flight; the flight itself continues for remaining waiters.
	Refresh(ctx context.Context, id string, refresher Refresher) (*Session, error)
}
