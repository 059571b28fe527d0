package token_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-auth-client/config"
	"github.com/jrsteele09/go-auth-client/token"
)

type providerFixture struct {
	server    *httptest.Server
	tokenForm url.Values
}

// newProviderFixture runs a minimal authorization server: discovery
// document plus a token endpoint that records the submitted form.
func newProviderFixture(t *testing.T) *providerFixture {
	t.Helper()
	fixture := &providerFixture{}

	mux := http.NewServeMux()
	mux.HandleFunc("/.well-known/openid-configuration", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{
			"issuer": %[1]q,
			"authorization_endpoint": "%[1]s/oauth2/auth",
			"token_endpoint": "%[1]s/oauth2/token",
			"jwks_uri": "%[1]s/.well-known/jwks.json"
		}`, fixture.server.URL)
	})
	mux.HandleFunc("/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		fixture.tokenForm = r.Form
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"access_token": "new-access-token",
			"refresh_token": "rotated-refresh-token",
			"token_type": "Bearer",
			"expires_in": 3600
		}`)
	})

	fixture.server = httptest.NewServer(mux)
	t.Cleanup(fixture.server.Close)
	return fixture
}

func (pf *providerFixture) config() config.ClientConfig {
	return config.ClientConfig{
		ClientID:     "test-client",
		ClientSecret: "test-secret",
		Issuer:       pf.server.URL,
		RedirectURI:  "https://app.test.local/callback",
		Scopes:       []string{"openid", "profile"},
	}
}

func TestNewOIDCExchangerDiscoveryFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	cfg := config.ClientConfig{ClientID: "test-client", Issuer: server.URL}
	_, err := token.NewOIDCExchanger(context.Background(), cfg)

	var transportErr *token.TransportError
	require.ErrorAs(t, err, &transportErr)
	require.Equal(t, "discovery", transportErr.Op)
}

func TestAuthCodeURLParameters(t *testing.T) {
	fixture := newProviderFixture(t)
	cfg := fixture.config()
	cfg.Audience = "https://api.test.local"

	exchanger, err := token.NewOIDCExchanger(context.Background(), cfg)
	require.NoError(t, err)

	rawURL := exchanger.AuthCodeURL("state-1", "nonce-1", "verifier-1", true)
	parsed, err := url.Parse(rawURL)
	require.NoError(t, err)

	query := parsed.Query()
	require.Equal(t, "state-1", query.Get("state"))
	require.Equal(t, "nonce-1", query.Get("nonce"))
	require.Equal(t, "S256", query.Get("code_challenge_method"))
	require.NotEmpty(t, query.Get("code_challenge"))
	require.Equal(t, "create", query.Get("prompt"))
	require.Equal(t, "https://api.test.local", query.Get("audience"))
	require.Equal(t, "test-client", query.Get("client_id"))
}

func TestAuthCodeURLLoginOmitsPrompt(t *testing.T) {
	fixture := newProviderFixture(t)

	exchanger, err := token.NewOIDCExchanger(context.Background(), fixture.config())
	require.NoError(t, err)

	parsed, err := url.Parse(exchanger.AuthCodeURL("state-1", "nonce-1", "verifier-1", false))
	require.NoError(t, err)
	require.Empty(t, parsed.Query().Get("prompt"))
}

func TestRefreshRoundTrip(t *testing.T) {
	fixture := newProviderFixture(t)

	exchanger, err := token.NewOIDCExchanger(context.Background(), fixture.config())
	require.NoError(t, err)

	set, err := exchanger.Refresh(context.Background(), "refresh-1")
	require.NoError(t, err)
	require.Equal(t, "new-access-token", set.AccessToken)
	require.Equal(t, "rotated-refresh-token", set.RefreshToken)
	require.Equal(t, "Bearer", set.TokenType)

	require.Equal(t, "refresh_token", fixture.tokenForm.Get("grant_type"))
	require.Equal(t, "refresh-1", fixture.tokenForm.Get("refresh_token"))
}

func TestClientCredentialsExchange(t *testing.T) {
	fixture := newProviderFixture(t)
	cfg := fixture.config()
	cfg.Audience = "https://api.test.local"

	exchanger, err := token.NewOIDCExchanger(context.Background(), cfg)
	require.NoError(t, err)

	set, err := exchanger.Exchange(context.Background(), token.ExchangeRequest{
		Grant: token.GrantClientCredentials,
	})
	require.NoError(t, err)
	require.Equal(t, "new-access-token", set.AccessToken)

	require.Equal(t, "client_credentials", fixture.tokenForm.Get("grant_type"))
	require.Equal(t, "https://api.test.local", fixture.tokenForm.Get("audience"))
}

func TestExchangeUnsupportedGrant(t *testing.T) {
	fixture := newProviderFixture(t)

	exchanger, err := token.NewOIDCExchanger(context.Background(), fixture.config())
	require.NoError(t, err)

	_, err = exchanger.Exchange(context.Background(), token.ExchangeRequest{Grant: "password"})
	require.ErrorContains(t, err, `unsupported grant "password"`)
}
