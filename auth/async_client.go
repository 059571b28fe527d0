package auth

import (
	"context"

	"github.com/jrsteele09/go-auth-client/config"
	"github.com/jrsteele09/go-auth-client/dispatch"
	"github.com/jrsteele09/go-auth-client/sessions"
)

var _ Client = (*AsyncClient)(nil)

// AsyncClient's primary forms are the *Async methods returning Futures.
// IsAuthenticated stays synchronous (cheap local check, no reason to
// suspend); the blocking Client forms bridge through an internal Await
// so the facade still satisfies Client.
type AsyncClient struct {
	*client
}

// NewAsyncClient builds the strictly suspending facade.
func NewAsyncClient(cfg config.ClientConfig, options ...Option) (*AsyncClient, error) {
	base, err := newClient(cfg, options...)
	if err != nil {
		return nil, err
	}
	return &AsyncClient{client: base}, nil
}

func (c *AsyncClient) GetUserInfoAsync(ctx context.Context) *dispatch.Future[UserProfile] {
	return c.suspending.GetUserInfo(ctx)
}

func (c *AsyncClient) LoginAsync(ctx context.Context, opts LoginOptions) *dispatch.Future[*sessions.Session] {
	return c.suspending.Login(ctx, opts)
}

func (c *AsyncClient) RegisterAsync(ctx context.Context) *dispatch.Future[string] {
	return c.suspending.Register(ctx)
}

func (c *AsyncClient) LogoutAsync(ctx context.Context) *dispatch.Future[string] {
	return c.suspending.Logout(ctx)
}

func (c *AsyncClient) HandleRedirectAsync(ctx context.Context, code, state string) *dispatch.Future[*sessions.Session] {
	return dispatch.Async(func() (*sessions.Session, error) {
		return c.flows.handleRedirect(ctx, code, state)
	})
}

func (c *AsyncClient) GetUserInfo(ctx context.Context) (UserProfile, error) {
	return c.GetUserInfoAsync(ctx).Await(ctx)
}

func (c *AsyncClient) Login(ctx context.Context, opts LoginOptions) (*sessions.Session, error) {
	return c.LoginAsync(ctx, opts).Await(ctx)
}

func (c *AsyncClient) Register(ctx context.Context) (string, error) {
	return c.RegisterAsync(ctx).Await(ctx)
}

func (c *AsyncClient) Logout(ctx context.Context) (string, error) {
	return c.LogoutAsync(ctx).Await(ctx)
}
