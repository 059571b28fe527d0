package sessions

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore is the in-process Store. Refreshes are collapsed per
// session id through a singleflight group; sessions for different ids
// refresh independently.
type MemoryStore struct {
	lock     sync.RWMutex
	sessions map[string]*Session
	flights  singleflight.Group
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*Session),
	}
}

func (ms *MemoryStore) Get(id string) (*Session, error) {
	ms.lock.RLock()
	defer ms.lock.RUnlock()

	session, ok := ms.sessions[id]
	if !ok {
		return nil, NotFoundErr
	}
	return session.Clone(), nil
}

func (ms *MemoryStore) Put(id string, session *Session) error {
	if session == nil {
		return errors.New("[MemoryStore.Put] nil session")
	}
	ms.lock.Lock()
	defer ms.lock.Unlock()

	clone := session.Clone()
	clone.ID = id
	ms.sessions[id] = clone
	return nil
}

func (ms *MemoryStore) Delete(id string) error {
	ms.lock.Lock()
	defer ms.lock.Unlock()

	delete(ms.sessions, id)
	return nil
}

// Refresh collapses concurrent refreshes for id into one refresher
// invocation via singleflight.DoChan. The refresher runs detached from
// any single caller's cancellation so one cancelled waiter cannot abort
// the flight for the rest; the cancelled waiter just stops waiting.
func (ms *MemoryStore) Refresh(ctx context.Context, id string, refresher Refresher) (*Session, error) {
	if refresher == nil {
		return nil, errors.New("[MemoryStore.Refresh] nil refresher")
	}

	flight := ms.flights.DoChan(id, func() (any, error) {
		current, err := ms.Get(id)
		if err != nil && !errors.Is(err, NotFoundErr) {
			return nil, errors.Wrap(err, "[MemoryStore.Refresh] snapshot")
		}

		refreshed, err := refresher(context.WithoutCancel(ctx), current)
		if err != nil {
			// Stored session stays as it was; every waiter sees this error.
			return nil, err
		}
		if refreshed == nil {
			return nil, errors.New("[MemoryStore.Refresh] refresher returned nil session")
		}
		if err := ms.Put(id, refreshed); err != nil {
			return nil, errors.Wrap(err, "[MemoryStore.Refresh] store refreshed session")
		}
		return refreshed.Clone(), nil
	})

	select {
	case result := <-flight:
		if result.Err != nil {
			return nil, result.Err
		}
		return result.Val.(*Session).Clone(), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
