package token

import (
	"context"
	"fmt"
)

// GrantType names the OAuth2 grant an ExchangeRequest runs.
type GrantType string

const (
	GrantAuthorizationCode GrantType = "authorization_code"
	GrantClientCredentials GrantType = "client_credentials"
)

// ExchangeRequest carries the parameters of a token-endpoint exchange.
type ExchangeRequest struct {
	Grant        GrantType
	Code         string   // Authorization code (GrantAuthorizationCode)
	CodeVerifier string   // PKCE verifier matching the challenge sent on the authorize URL
	Scopes       []string // Scope override, defaults to the configured scopes
}

// Exchanger is the external token-exchange collaborator. Implementations
// are network-bound and may be slow; they must be safe for concurrent
// use. The session store serializes per-session refreshes itself, so an
// Exchanger never needs to deduplicate calls.
type Exchanger interface {
	// AuthCodeURL builds the authorization URL a user agent is redirected
	// to. register switches the provider to its sign-up page.
	AuthCodeURL(state, nonce, verifier string, register bool) string

	// Exchange runs the requested grant against the token endpoint.
	Exchange(ctx context.Context, req ExchangeRequest) (*TokenSet, error)

	// Refresh trades a refresh token for a new TokenSet.
	Refresh(ctx context.Context, refreshToken string) (*TokenSet, error)
}

// TransportError wraps a failure of the external exchange. It is never
// retried internally; retry policy belongs to the caller.
type TransportError struct {
	Op    string // The operation that failed: discovery, exchange, refresh
	Cause error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure during %s: %s", e.Op, e.Cause.Error())
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}
