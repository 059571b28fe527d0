package sessions_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-auth-client/sessions"
)

const testSessionID = "session-1"

func seedSession(t *testing.T, store sessions.Store, id string) *sessions.Session {
	t.Helper()
	session := &sessions.Session{
		ID:           id,
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		ExpiresAt:    time.Now().Add(time.Hour),
		Claims:       map[string]any{"email": "john.doe@example.com"},
	}
	require.NoError(t, store.Put(id, session))
	return session
}

func TestGetReturnsSnapshot(t *testing.T) {
	store := sessions.NewMemoryStore()
	seedSession(t, store, testSessionID)

	first, err := store.Get(testSessionID)
	require.NoError(t, err)

	// Mutating the snapshot must not leak into shared state.
	first.Claims["email"] = "tampered@example.com"
	first.AccessToken = "tampered"

	second, err := store.Get(testSessionID)
	require.NoError(t, err)
	require.Equal(t, "john.doe@example.com", second.Claims["email"])
	require.Equal(t, "access-token", second.AccessToken)
}

func TestGetMissingSession(t *testing.T) {
	store := sessions.NewMemoryStore()

	_, err := store.Get("missing")
	require.ErrorIs(t, err, sessions.NotFoundErr)
}

func TestDeleteIsIdempotent(t *testing.T) {
	store := sessions.NewMemoryStore()
	seedSession(t, store, testSessionID)

	require.NoError(t, store.Delete(testSessionID))
	require.NoError(t, store.Delete(testSessionID))

	_, err := store.Get(testSessionID)
	require.ErrorIs(t, err, sessions.NotFoundErr)
}

func TestRefreshSingleFlight(t *testing.T) {
	store := sessions.NewMemoryStore()
	seedSession(t, store, testSessionID)

	const waiters = 10
	var invocations atomic.Int32
	entered := make(chan struct{})
	release := make(chan struct{})

	refresher := func(ctx context.Context, current *sessions.Session) (*sessions.Session, error) {
		invocations.Add(1)
		close(entered)
		<-release
		next := current.Clone()
		next.AccessToken = "refreshed-token"
		next.ExpiresAt = time.Now().Add(time.Hour)
		return next, nil
	}

	results := make(chan *sessions.Session, waiters)
	failures := make(chan error, waiters)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		session, err := store.Refresh(context.Background(), testSessionID, refresher)
		if err != nil {
			failures <- err
			return
		}
		results <- session
	}()

	// The remaining waiters join only once the flight is in progress.
	<-entered
	for i := 1; i < waiters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			session, err := store.Refresh(context.Background(), testSessionID, refresher)
			if err != nil {
				failures <- err
				return
			}
			results <- session
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()
	close(results)
	close(failures)

	require.Empty(t, failures)
	require.Equal(t, int32(1), invocations.Load())

	count := 0
	for session := range results {
		require.Equal(t, "refreshed-token", session.AccessToken)
		count++
	}
	require.Equal(t, waiters, count)
}

func TestRefreshErrorLeavesStoreUnchangedAndReachesAllWaiters(t *testing.T) {
	store := sessions.NewMemoryStore()
	seedSession(t, store, testSessionID)

	refreshErr := errors.New("exchange unavailable")
	entered := make(chan struct{})
	release := make(chan struct{})

	refresher := func(ctx context.Context, current *sessions.Session) (*sessions.Session, error) {
		close(entered)
		<-release
		return nil, refreshErr
	}

	errs := make(chan error, 2)
	go func() {
		_, err := store.Refresh(context.Background(), testSessionID, refresher)
		errs <- err
	}()
	<-entered
	go func() {
		_, err := store.Refresh(context.Background(), testSessionID, refresher)
		errs <- err
	}()

	time.Sleep(20 * time.Millisecond)
	close(release)

	for i := 0; i < 2; i++ {
		require.ErrorIs(t, <-errs, refreshErr)
	}

	session, err := store.Get(testSessionID)
	require.NoError(t, err)
	require.Equal(t, "access-token", session.AccessToken)
}

func TestRefreshCancelledWaiterDetaches(t *testing.T) {
	store := sessions.NewMemoryStore()
	seedSession(t, store, testSessionID)

	entered := make(chan struct{})
	release := make(chan struct{})
	var invocations atomic.Int32

	refresher := func(ctx context.Context, current *sessions.Session) (*sessions.Session, error) {
		invocations.Add(1)
		close(entered)
		<-release
		next := current.Clone()
		next.AccessToken = "refreshed-token"
		return next, nil
	}

	cancelCtx, cancel := context.WithCancel(context.Background())
	cancelled := make(chan error, 1)
	go func() {
		_, err := store.Refresh(cancelCtx, testSessionID, refresher)
		cancelled <- err
	}()
	<-entered

	second := make(chan *sessions.Session, 1)
	go func() {
		session, err := store.Refresh(context.Background(), testSessionID, refresher)
		require.NoError(t, err)
		second <- session
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()
	require.ErrorIs(t, <-cancelled, context.Canceled)

	// The flight keeps going for the uncancelled waiter.
	close(release)
	session := <-second
	require.Equal(t, "refreshed-token", session.AccessToken)
	require.Equal(t, int32(1), invocations.Load())
}

func TestRefreshSessionsAreIndependent(t *testing.T) {
	store := sessions.NewMemoryStore()
	seedSession(t, store, "session-a")
	seedSession(t, store, "session-b")

	var invocations atomic.Int32
	refresher := func(ctx context.Context, current *sessions.Session) (*sessions.Session, error) {
		invocations.Add(1)
		next := current.Clone()
		next.AccessToken = "refreshed-" + current.ID
		return next, nil
	}

	sessionA, err := store.Refresh(context.Background(), "session-a", refresher)
	require.NoError(t, err)
	sessionB, err := store.Refresh(context.Background(), "session-b", refresher)
	require.NoError(t, err)

	require.Equal(t, "refreshed-session-a", sessionA.AccessToken)
	require.Equal(t, "refreshed-session-b", sessionB.AccessToken)
	require.Equal(t, int32(2), invocations.Load())
}

func TestAuthenticated(t *testing.T) {
	now := time.Now()

	var nilSession *sessions.Session
	require.False(t, nilSession.Authenticated(now))

	session := &sessions.Session{AccessToken: "token", ExpiresAt: now.Add(time.Minute)}
	require.True(t, session.Authenticated(now))

	// Exactly at expiry counts as expired.
	require.False(t, session.Authenticated(session.ExpiresAt))

	require.False(t, (&sessions.Session{ExpiresAt: now.Add(time.Minute)}).Authenticated(now))
}
