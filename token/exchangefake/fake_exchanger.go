package exchangefake

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/jrsteele09/go-auth-client/token"
)

var _ token.Exchanger = (*FakeExchanger)(nil)

// FakeExchanger is an in-memory token.Exchanger for tests and the demo
// binary. It hands out scripted token sets, counts calls, and can hold
// calls on a gate to simulate a slow network.
type FakeExchanger struct {
	lock sync.Mutex

	issuer   string
	tokenSet *token.TokenSet
	err      error
	gate     chan struct{}

	exchangeCalls int
	refreshCalls  int
	lastRequest   token.ExchangeRequest
}

func NewFakeExchanger(issuer string) *FakeExchanger {
	return &FakeExchanger{
		issuer: issuer,
		tokenSet: &token.TokenSet{
			AccessToken: "fake-access-token",
			TokenType:   "Bearer",
			Expiry:      time.Now().Add(time.Hour),
		},
	}
}

// StubTokenSet scripts the token set every subsequent call returns.
func (fe *FakeExchanger) StubTokenSet(set *token.TokenSet) {
	fe.lock.Lock()
	defer fe.lock.Unlock()
	fe.tokenSet = set
	fe.err = nil
}

// StubError makes every subsequent call fail with err.
func (fe *FakeExchanger) StubError(err error) {
	fe.lock.Lock()
	defer fe.lock.Unlock()
	fe.err = err
}

// Block holds every subsequent Exchange and Refresh until the returned
// release function is called.
func (fe *FakeExchanger) Block() (release func()) {
	fe.lock.Lock()
	defer fe.lock.Unlock()
	gate := make(chan struct{})
	fe.gate = gate
	return func() { close(gate) }
}

func (fe *FakeExchanger) ExchangeCalls() int {
	fe.lock.Lock()
	defer fe.lock.Unlock()
	return fe.exchangeCalls
}

func (fe *FakeExchanger) RefreshCalls() int {
	fe.lock.Lock()
	defer fe.lock.Unlock()
	return fe.refreshCalls
}

func (fe *FakeExchanger) LastRequest() token.ExchangeRequest {
	fe.lock.Lock()
	defer fe.lock.Unlock()
	return fe.lastRequest
}

func (fe *FakeExchanger) AuthCodeURL(state, nonce, verifier string, register bool) string {
	query := url.Values{}
	query.Set("state", state)
	query.Set("nonce", nonce)
	query.Set("response_type", "code")
	if register {
		query.Set("prompt", "create")
	}
	return fmt.Sprintf("%s/oauth2/auth?%s", fe.issuer, query.Encode())
}

func (fe *FakeExchanger) Exchange(ctx context.Context, req token.ExchangeRequest) (*token.TokenSet, error) {
	fe.lock.Lock()
	fe.exchangeCalls++
	fe.lastRequest = req
	set, err, gate := fe.tokenSet, fe.err, fe.gate
	fe.lock.Unlock()

	return fe.respond(ctx, set, err, gate)
}

func (fe *FakeExchanger) Refresh(ctx context.Context, refreshToken string) (*token.TokenSet, error) {
	if refreshToken == "" {
		return nil, errors.New("[FakeExchanger.Refresh] empty refresh token")
	}
	fe.lock.Lock()
	fe.refreshCalls++
	set, err, gate := fe.tokenSet, fe.err, fe.gate
	fe.lock.Unlock()

	return fe.respond(ctx, set, err, gate)
}

func (fe *FakeExchanger) respond(ctx context.Context, set *token.TokenSet, err error, gate chan struct{}) (*token.TokenSet, error) {
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, &token.TransportError{Op: "fake exchange", Cause: ctx.Err()}
		}
	}
	if err != nil {
		return nil, &token.TransportError{Op: "fake exchange", Cause: err}
	}
	result := *set
	return &result, nil
}
