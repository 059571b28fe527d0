package auth

import (
	"context"

	"github.com/jrsteele09/go-auth-client/claims"
	"github.com/jrsteele09/go-auth-client/dispatch"
	"github.com/jrsteele09/go-auth-client/sessions"
)

// Client is the operation surface every facade presents. The concrete
// facades add their own async forms on top; this interface carries the
// blocking forms so callers can hold any facade behind one type.
type Client interface {
	// IsAuthenticated is a pure local check against cached expiry. It
	// never suspends and never performs network I/O.
	IsAuthenticated() bool

	// GetUserInfo returns the identity projection of the session claims,
	// refreshing the session first when the access token has expired.
	GetUserInfo(ctx context.Context) (UserProfile, error)

	// Login establishes a session: redirect completion when opts carries
	// a code, client-credentials otherwise.
	Login(ctx context.Context, opts LoginOptions) (*sessions.Session, error)

	// Register returns the sign-up variant of the authorize URL.
	Register(ctx context.Context) (string, error)

	// Logout drops the session and returns the provider logout URL.
	Logout(ctx context.Context) (string, error)

	// GenerateAuthURL builds an authorize URL and records the attempt
	// for HandleRedirect. Local computation only.
	GenerateAuthURL(register bool) (AuthURL, error)

	// HandleRedirect validates the echoed state and completes the code
	// exchange started by GenerateAuthURL.
	HandleRedirect(ctx context.Context, code, state string) (*sessions.Session, error)

	// Auth exposes the claims, permissions, roles and feature flag
	// accessors. These are suspending-only on every facade: their
	// methods return Futures which blocking callers bridge with Await.
	Auth() *claims.Set

	// Warnings drains non-fatal diagnostics (ambiguous context
	// detection, blocking calls from suspending contexts).
	Warnings() <-chan dispatch.Warning

	// SessionID is the logical session key this facade operates on.
	SessionID() string
}

// client carries the internals every facade shares. Facades differ only
// in which strategy their operations run through.
type client struct {
	flows      *flows
	blocking   BlockingStrategy
	suspending SuspendingStrategy
	detector   *dispatch.Detector
	diags      *dispatch.Diagnostics
	accessors  *claims.Set
}

func (c *client) IsAuthenticated() bool {
	return c.flows.isAuthenticated()
}

func (c *client) GenerateAuthURL(register bool) (AuthURL, error) {
	return c.flows.generateAuthURL(register)
}

func (c *client) HandleRedirect(ctx context.Context, code, state string) (*sessions.Session, error) {
	return c.flows.handleRedirect(ctx, code, state)
}

func (c *client) Auth() *claims.Set {
	return c.accessors
}

func (c *client) Warnings() <-chan dispatch.Warning {
	return c.diags.Warnings()
}

func (c *client) SessionID() string {
	return c.flows.sessionID
}
