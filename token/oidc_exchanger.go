package token

import (
	"context"
	"net/url"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/jrsteele09/go-auth-client/config"
)

var _ Exchanger = (*OIDCExchanger)(nil)

// OIDCExchanger talks to a real authorization server: issuer discovery
// through its well-known endpoint, code and client-credentials exchange
// through the token endpoint, and ID token verification against the
// issuer's signing keys.
type OIDCExchanger struct {
	cfg      config.ClientConfig
	oauthCfg oauth2.Config
	verifier *oidc.IDTokenVerifier
	logger   zerolog.Logger
}

type OIDCExchangerOption func(*OIDCExchanger)

func WithLogger(logger zerolog.Logger) OIDCExchangerOption {
	return func(e *OIDCExchanger) {
		e.logger = logger
	}
}

// NewOIDCExchanger discovers the issuer's endpoints and prepares the
// exchanger. The discovery round trip is the only network call made at
// construction; failures surface as *TransportError.
func NewOIDCExchanger(ctx context.Context, cfg config.ClientConfig, options ...OIDCExchangerOption) (*OIDCExchanger, error) {
	provider, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, &TransportError{Op: "discovery", Cause: err}
	}

	exchanger := &OIDCExchanger{
		cfg: cfg,
		oauthCfg: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     provider.Endpoint(),
			RedirectURL:  cfg.RedirectURI,
			Scopes:       cfg.Scopes,
		},
		verifier: provider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
		logger:   zerolog.Nop(),
	}

	for _, opt := range options {
		opt(exchanger)
	}

	return exchanger, nil
}

func (e *OIDCExchanger) AuthCodeURL(state, nonce, verifier string, register bool) string {
	opts := []oauth2.AuthCodeOption{
		oidc.Nonce(nonce),
		oauth2.S256ChallengeOption(verifier),
	}
	if register {
		opts = append(opts, oauth2.SetAuthURLParam("prompt", "create"))
	}
	if e.cfg.Audience != "" {
		opts = append(opts, oauth2.SetAuthURLParam("audience", e.cfg.Audience))
	}
	return e.oauthCfg.AuthCodeURL(state, opts...)
}

func (e *OIDCExchanger) Exchange(ctx context.Context, req ExchangeRequest) (*TokenSet, error) {
	switch req.Grant {
	case GrantAuthorizationCode:
		var opts []oauth2.AuthCodeOption
		if req.CodeVerifier != "" {
			opts = append(opts, oauth2.VerifierOption(req.CodeVerifier))
		}
		tok, err := e.oauthCfg.Exchange(ctx, req.Code, opts...)
		if err != nil {
			return nil, &TransportError{Op: "code exchange", Cause: err}
		}
		return e.fromOAuthToken(ctx, tok)

	case GrantClientCredentials:
		scopes := req.Scopes
		if len(scopes) == 0 {
			scopes = e.cfg.Scopes
		}
		ccCfg := clientcredentials.Config{
			ClientID:     e.cfg.ClientID,
			ClientSecret: e.cfg.ClientSecret,
			TokenURL:     e.oauthCfg.Endpoint.TokenURL,
			Scopes:       scopes,
		}
		if e.cfg.Audience != "" {
			ccCfg.EndpointParams = url.Values{"audience": {e.cfg.Audience}}
		}
		tok, err := ccCfg.Token(ctx)
		if err != nil {
			return nil, &TransportError{Op: "client credentials exchange", Cause: err}
		}
		return e.fromOAuthToken(ctx, tok)
	}

	return nil, errors.Errorf("[OIDCExchanger.Exchange] unsupported grant %q", req.Grant)
}

func (e *OIDCExchanger) Refresh(ctx context.Context, refreshToken string) (*TokenSet, error) {
	source := e.oauthCfg.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	tok, err := source.Token()
	if err != nil {
		return nil, &TransportError{Op: "refresh", Cause: err}
	}
	return e.fromOAuthToken(ctx, tok)
}

func (e *OIDCExchanger) fromOAuthToken(ctx context.Context, tok *oauth2.Token) (*TokenSet, error) {
	set := &TokenSet{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
		Expiry:       tok.Expiry,
	}

	if rawIDToken, ok := tok.Extra("id_token").(string); ok && rawIDToken != "" {
		if _, err := e.verifier.Verify(ctx, rawIDToken); err != nil {
			return nil, errors.Wrap(err, "[OIDCExchanger] id token verification")
		}
		set.IDToken = rawIDToken
	}

	e.logger.Debug().Time("expiry", set.Expiry).Msg("token set obtained")
	return set, nil
}
