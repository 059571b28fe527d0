package auth

import (
	"context"

	"github.com/jrsteele09/go-auth-client/config"
	"github.com/jrsteele09/go-auth-client/sessions"
)

var _ Client = (*SyncClient)(nil)

// SyncClient executes every operation to completion on the calling
// goroutine. The claims accessors reached through Auth() stay
// suspending-only even here; bridging them with Await is the deliberate
// asymmetry, not an oversight.
type SyncClient struct {
	*client
}

// NewSyncClient builds the strictly blocking facade.
func NewSyncClient(cfg config.ClientConfig, options ...Option) (*SyncClient, error) {
	base, err := newClient(cfg, options...)
	if err != nil {
		return nil, err
	}
	return &SyncClient{client: base}, nil
}

func (c *SyncClient) GetUserInfo(ctx context.Context) (UserProfile, error) {
	return c.blocking.GetUserInfo(ctx).Await(ctx)
}

func (c *SyncClient) Login(ctx context.Context, opts LoginOptions) (*sessions.Session, error) {
	return c.blocking.Login(ctx, opts).Await(ctx)
}

func (c *SyncClient) Register(ctx context.Context) (string, error) {
	return c.blocking.Register(ctx).Await(ctx)
}

func (c *SyncClient) Logout(ctx context.Context) (string, error) {
	return c.blocking.Logout(ctx).Await(ctx)
}
