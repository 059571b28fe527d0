package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/jrsteele09/go-auth-client/claims"
	"github.com/jrsteele09/go-auth-client/config"
	"github.com/jrsteele09/go-auth-client/dispatch"
	"github.com/jrsteele09/go-auth-client/sessions"
	"github.com/jrsteele09/go-auth-client/token"
)

// Option configures a facade at construction.
type Option func(*settings)

type settings struct {
	store        sessions.Store
	exchanger    token.Exchanger
	claimsSource claims.Source
	logger       zerolog.Logger
	diags        *dispatch.Diagnostics
	sessionID    string
	nowTime      func() time.Time
}

// WithStore shares a session store across facades. Facades built
// against the same store and session id operate on the same session.
func WithStore(store sessions.Store) Option {
	return func(s *settings) {
		s.store = store
	}
}

// WithExchanger injects the token-exchange collaborator. Without it the
// factory builds an OIDCExchanger against the configured issuer, which
// performs a discovery round trip at construction.
func WithExchanger(exchanger token.Exchanger) Option {
	return func(s *settings) {
		s.exchanger = exchanger
	}
}

// WithClaimsSource supplies the remote claims / flag-evaluation source
// used by ForceAPI accessor queries.
func WithClaimsSource(source claims.Source) Option {
	return func(s *settings) {
		s.claimsSource = source
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// WithDiagnostics shares a diagnostics channel across facades.
func WithDiagnostics(diags *dispatch.Diagnostics) Option {
	return func(s *settings) {
		s.diags = diags
	}
}

// WithSessionID pins the logical session key. Facades sharing a store
// and a session id host blocking and suspending callers against the
// same session state.
func WithSessionID(id string) Option {
	return func(s *settings) {
		s.sessionID = id
	}
}

// WithNowTime sets the now time function (primarily for testing).
func WithNowTime(nowFunc func() time.Time) Option {
	return func(s *settings) {
		s.nowTime = nowFunc
	}
}

// NewClient is the mode-selecting factory: ModeBlocking yields a
// SyncClient, ModeSuspending an AsyncClient and ModeAuto a SmartClient.
func NewClient(mode dispatch.ExecutionMode, cfg config.ClientConfig, options ...Option) (Client, error) {
	switch mode {
	case dispatch.ModeBlocking:
		return NewSyncClient(cfg, options...)
	case dispatch.ModeSuspending:
		return NewAsyncClient(cfg, options...)
	case dispatch.ModeAuto:
		return NewSmartClient(cfg, options...)
	}
	return nil, errors.Errorf("[NewClient] unsupported mode %q", mode)
}

func newClient(cfg config.ClientConfig, options ...Option) (*client, error) {
	resolved, err := cfg.Resolve()
	if err != nil {
		return nil, err
	}
	if err := resolved.Validate(); err != nil {
		return nil, err
	}

	s := &settings{
		logger:    zerolog.Nop(),
		sessionID: uuid.New().String(),
		nowTime:   time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	if s.store == nil {
		s.store = sessions.NewMemoryStore()
	}
	if s.diags == nil {
		s.diags = dispatch.NewDiagnostics(s.logger)
	}
	if s.exchanger == nil {
		exchanger, err := token.NewOIDCExchanger(context.Background(), resolved, token.WithLogger(s.logger))
		if err != nil {
			return nil, errors.Wrap(err, "[newClient] NewOIDCExchanger")
		}
		s.exchanger = exchanger
	}

	f := newFlows(resolved, s.store, s.exchanger, s.sessionID, s.nowTime, s.logger)

	accessorOpts := []claims.SetOption{claims.WithNowTime(s.nowTime)}
	if s.claimsSource != nil {
		accessorOpts = append(accessorOpts, claims.WithSource(s.claimsSource))
	}

	return &client{
		flows:      f,
		blocking:   BlockingStrategy{flows: f},
		suspending: SuspendingStrategy{flows: f},
		detector:   dispatch.NewDetector(s.diags),
		diags:      s.diags,
		accessors:  claims.NewSet(s.store, s.sessionID, accessorOpts...),
	}, nil
}
