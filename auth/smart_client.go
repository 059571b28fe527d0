package auth

import (
	"context"

	"github.com/jrsteele09/go-auth-client/config"
	"github.com/jrsteele09/go-auth-client/dispatch"
	"github.com/jrsteele09/go-auth-client/sessions"
)

var _ Client = (*SmartClient)(nil)

// SmartClient resolves the execution strategy per call: contexts marked
// by dispatch.WithScheduler run suspending, everything else blocking.
// Blocking forms called from a suspending context still work but emit a
// SyncCallWarning on the diagnostics channel.
type SmartClient struct {
	*client
}

// NewSmartClient builds the context-aware facade.
func NewSmartClient(cfg config.ClientConfig, options ...Option) (*SmartClient, error) {
	base, err := newClient(cfg, options...)
	if err != nil {
		return nil, err
	}
	return &SmartClient{client: base}, nil
}

// strategyFor resolves the strategy for one call. When the blocking
// form of op was used from a suspending context it publishes the
// diagnostic; detection ambiguity is handled inside the detector and
// never fails the call.
func (c *SmartClient) strategyFor(ctx context.Context, op string) Strategy {
	if c.detector.Detect(ctx) == dispatch.ModeSuspending {
		if op != "" {
			c.diags.Publish(dispatch.SyncCallWarning{Operation: op})
		}
		return c.suspending
	}
	return c.blocking
}

func (c *SmartClient) GetUserInfo(ctx context.Context) (UserProfile, error) {
	return c.strategyFor(ctx, "GetUserInfo").GetUserInfo(ctx).Await(ctx)
}

func (c *SmartClient) Login(ctx context.Context, opts LoginOptions) (*sessions.Session, error) {
	return c.strategyFor(ctx, "Login").Login(ctx, opts).Await(ctx)
}

func (c *SmartClient) Register(ctx context.Context) (string, error) {
	return c.strategyFor(ctx, "Register").Register(ctx).Await(ctx)
}

func (c *SmartClient) Logout(ctx context.Context) (string, error) {
	return c.strategyFor(ctx, "Logout").Logout(ctx).Await(ctx)
}

func (c *SmartClient) GetUserInfoAsync(ctx context.Context) *dispatch.Future[UserProfile] {
	return c.strategyFor(ctx, "").GetUserInfo(ctx)
}

func (c *SmartClient) LoginAsync(ctx context.Context, opts LoginOptions) *dispatch.Future[*sessions.Session] {
	return c.strategyFor(ctx, "").Login(ctx, opts)
}

func (c *SmartClient) RegisterAsync(ctx context.Context) *dispatch.Future[string] {
	return c.strategyFor(ctx, "").Register(ctx)
}

func (c *SmartClient) LogoutAsync(ctx context.Context) *dispatch.Future[string] {
	return c.strategyFor(ctx, "").Logout(ctx)
}
