// Package auth provides the client facades: SyncClient, AsyncClient and
// SmartClient. All three run the same flows against a shared session
// store; they differ only in how each call is scheduled.
package auth

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"github.com/jrsteele09/go-auth-client/config"
	"github.com/jrsteele09/go-auth-client/sessions"
	"github.com/jrsteele09/go-auth-client/token"
)

// loginAttemptTimeout bounds how long a generated authorize URL stays
// redeemable against its state value.
const loginAttemptTimeout = 15 * time.Minute

var (
	LoginStateMismatchErr  = errors.New("login state mismatch")
	LoginAttemptExpiredErr = errors.New("login attempt expired")
)

// AuthURL is a generated authorization URL plus the values a caller
// needs to complete the flow on redirect.
type AuthURL struct {
	URL      string
	State    string // Echoed back by the provider, matched in HandleRedirect
	Nonce    string
	Verifier string // PKCE verifier matching the challenge inside URL
}

// LoginOptions selects the login grant. A Code/State pair completes a
// redirect flow; an empty pair runs a client-credentials login.
type LoginOptions struct {
	Code  string
	State string
}

// flows is the single implementation of every facade operation. Both
// execution strategies call into it, which is what guarantees that mode
// never changes outcome, only scheduling.
type flows struct {
	cfg       config.ClientConfig
	store     sessions.Store
	exchanger token.Exchanger
	sessionID string
	nowTime   func() time.Time
	logger    zerolog.Logger

	lock    sync.Mutex
	pending map[string]loginAttempt // state -> attempt awaiting its redirect
}

type loginAttempt struct {
	nonce    string
	verifier string
	register bool
	created  time.Time
}

func newFlows(cfg config.ClientConfig, store sessions.Store, exchanger token.Exchanger, sessionID string, nowTime func() time.Time, logger zerolog.Logger) *flows {
	return &flows{
		cfg:       cfg,
		store:     store,
		exchanger: exchanger,
		sessionID: sessionID,
		nowTime:   nowTime,
		logger:    logger,
		pending:   make(map[string]loginAttempt),
	}
}

// isAuthenticated is a pure local check against cached expiry. It never
// suspends and never performs network I/O, in both strategies.
func (f *flows) isAuthenticated() bool {
	session, err := f.store.Get(f.sessionID)
	if err != nil {
		return false
	}
	return session.Authenticated(f.nowTime())
}

// generateAuthURL builds the authorize URL and records the attempt so
// the redirect can be validated later.
func (f *flows) generateAuthURL(register bool) (AuthURL, error) {
	state := uuid.New().String()
	nonce := uuid.New().String()
	verifier := oauth2.GenerateVerifier()

	f.lock.Lock()
	f.prunePendingLocked()
	f.pending[state] = loginAttempt{
		nonce:    nonce,
		verifier: verifier,
		register: register,
		created:  f.nowTime(),
	}
	f.lock.Unlock()

	return AuthURL{
		URL:      f.exchanger.AuthCodeURL(state, nonce, verifier, register),
		State:    state,
		Nonce:    nonce,
		Verifier: verifier,
	}, nil
}

func (f *flows) login(ctx context.Context, opts LoginOptions) (*sessions.Session, error) {
	if opts.Code != "" {
		return f.completeCodeExchange(ctx, opts.Code, opts.State)
	}

	if f.cfg.ClientSecret == "" {
		return nil, &config.ConfigurationError{Missing: []string{"client secret"}}
	}
	set, err := f.exchanger.Exchange(ctx, token.ExchangeRequest{Grant: token.GrantClientCredentials})
	if err != nil {
		return nil, errors.Wrap(err, "[flows.login] client credentials exchange")
	}
	f.logger.Info().Str("session", f.sessionID).Msg("client credentials login")
	return f.storeTokenSet(set)
}

// register generates the sign-up variant of the authorize URL.
func (f *flows) register(_ context.Context) (string, error) {
	authURL, err := f.generateAuthURL(true)
	if err != nil {
		return "", errors.Wrap(err, "[flows.register] generateAuthURL")
	}
	return authURL.URL, nil
}

// logout drops the session and returns the provider's logout URL.
func (f *flows) logout(_ context.Context) (string, error) {
	if err := f.store.Delete(f.sessionID); err != nil {
		return "", errors.Wrap(err, "[flows.logout] store.Delete")
	}
	f.logger.Info().Str("session", f.sessionID).Msg("logged out")
	return f.cfg.Issuer + "/logout", nil
}

func (f *flows) getUserInfo(ctx context.Context) (UserProfile, error) {
	session, err := f.currentSession(ctx)
	if err != nil {
		return UserProfile{}, err
	}
	return profileFromClaims(session.Claims), nil
}

// handleRedirect validates the state echoed by the provider and
// completes the code exchange recorded by generateAuthURL.
func (f *flows) handleRedirect(ctx context.Context, code, state string) (*sessions.Session, error) {
	return f.completeCodeExchange(ctx, code, state)
}

func (f *flows) completeCodeExchange(ctx context.Context, code, state string) (*sessions.Session, error) {
	f.lock.Lock()
	attempt, ok := f.pending[state]
	if ok {
		delete(f.pending, state)
	}
	f.lock.Unlock()

	if !ok {
		return nil, LoginStateMismatchErr
	}
	if f.nowTime().Sub(attempt.created) > loginAttemptTimeout {
		return nil, LoginAttemptExpiredErr
	}

	set, err := f.exchanger.Exchange(ctx, token.ExchangeRequest{
		Grant:        token.GrantAuthorizationCode,
		Code:         code,
		CodeVerifier: attempt.verifier,
	})
	if err != nil {
		return nil, errors.Wrap(err, "[flows.completeCodeExchange] exchange")
	}
	f.logger.Info().Str("session", f.sessionID).Bool("register", attempt.register).Msg("authorization code exchanged")
	return f.storeTokenSet(set)
}

// currentSession returns an authenticated session snapshot, refreshing
// through the store's single-flight when the access token has expired
// and a refresh token exists.
func (f *flows) currentSession(ctx context.Context) (*sessions.Session, error) {
	session, err := f.store.Get(f.sessionID)
	if errors.Is(err, sessions.NotFoundErr) {
		return nil, sessions.NotAuthenticatedErr
	}
	if err != nil {
		return nil, errors.Wrap(err, "[flows.currentSession] store.Get")
	}
	if session.Authenticated(f.nowTime()) {
		return session, nil
	}
	if session.RefreshToken == "" {
		return nil, sessions.NotAuthenticatedErr
	}
	refreshed, err := f.store.Refresh(ctx, f.sessionID, f.refresher())
	if err != nil {
		return nil, err
	}
	return refreshed, nil
}

// refresher adapts the exchanger to the store's single-flight contract.
func (f *flows) refresher() sessions.Refresher {
	return func(ctx context.Context, current *sessions.Session) (*sessions.Session, error) {
		if current == nil || current.RefreshToken == "" {
			return nil, sessions.NotAuthenticatedErr
		}
		// A competing flight may have renewed the token already.
		if current.Authenticated(f.nowTime()) {
			return current, nil
		}
		set, err := f.exchanger.Refresh(ctx, current.RefreshToken)
		if err != nil {
			return nil, err
		}
		next := sessionFromTokenSet(f.sessionID, set, f.nowTime())
		if next.RefreshToken == "" {
			// Provider did not rotate the refresh token; keep the old one.
			next.RefreshToken = current.RefreshToken
		}
		f.logger.Debug().Str("session", f.sessionID).Msg("session refreshed")
		return next, nil
	}
}

func (f *flows) storeTokenSet(set *token.TokenSet) (*sessions.Session, error) {
	session := sessionFromTokenSet(f.sessionID, set, f.nowTime())
	if err := f.store.Put(f.sessionID, session); err != nil {
		return nil, errors.Wrap(err, "[flows.storeTokenSet] store.Put")
	}
	return session, nil
}

func (f *flows) prunePendingLocked() {
	cutoff := f.nowTime().Add(-loginAttemptTimeout)
	for state, attempt := range f.pending {
		if attempt.created.Before(cutoff) {
			delete(f.pending, state)
		}
	}
}

// sessionFromTokenSet decodes the claim sets of both tokens and builds
// the session state. Opaque access tokens simply yield no claims.
func sessionFromTokenSet(id string, set *token.TokenSet, now time.Time) *sessions.Session {
	accessClaims, err := token.DecodeClaims(set.AccessToken)
	if err != nil {
		accessClaims = map[string]any{}
	}
	idClaims := map[string]any{}
	if set.IDToken != "" {
		if decoded, err := token.DecodeClaims(set.IDToken); err == nil {
			idClaims = decoded
		}
	}
	return &sessions.Session{
		ID:           id,
		AccessToken:  set.AccessToken,
		RefreshToken: set.RefreshToken,
		IDToken:      set.IDToken,
		TokenType:    set.TokenType,
		IssuedAt:     now,
		ExpiresAt:    set.Expiry,
		Claims:       token.MergeClaims(accessClaims, idClaims),
	}
}
