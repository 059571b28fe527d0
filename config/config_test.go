package config_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-auth-client/config"
)

type fakeAdapter struct {
	creds config.Credentials
	err   error
}

func (fa fakeAdapter) RequestCredentials() (config.Credentials, error) {
	return fa.creds, fa.err
}

func (fa fakeAdapter) IsRequestScoped() bool { return true }

func TestValidateReportsEveryMissingField(t *testing.T) {
	err := config.ClientConfig{}.Validate()
	require.Error(t, err)

	var cfgErr *config.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	require.Equal(t, []string{"client id", "issuer", "redirect uri"}, cfgErr.Missing)
}

func TestValidatePassesWithRequiredFields(t *testing.T) {
	cfg := config.ClientConfig{
		ClientID:    "client-1",
		Issuer:      "https://auth.example.com",
		RedirectURI: "http://localhost:3000/callback",
	}
	require.NoError(t, cfg.Validate())
}

func TestResolveFillsCredentialsFromAdapter(t *testing.T) {
	cfg := config.ClientConfig{
		Issuer: "https://auth.example.com",
		Adapter: fakeAdapter{creds: config.Credentials{
			ClientID:     "adapter-client",
			ClientSecret: "adapter-secret",
			RedirectURI:  "http://localhost:3000/callback",
		}},
	}

	resolved, err := cfg.Resolve()
	require.NoError(t, err)
	require.Equal(t, "adapter-client", resolved.ClientID)
	require.Equal(t, "adapter-secret", resolved.ClientSecret)
	require.Equal(t, "http://localhost:3000/callback", resolved.RedirectURI)
	require.NoError(t, resolved.Validate())
}

func TestResolveKeepsExplicitCredentials(t *testing.T) {
	cfg := config.ClientConfig{
		ClientID:     "explicit-client",
		ClientSecret: "",
		Issuer:       "https://auth.example.com",
		Adapter:      fakeAdapter{creds: config.Credentials{ClientID: "adapter-client", ClientSecret: "adapter-secret"}},
	}

	resolved, err := cfg.Resolve()
	require.NoError(t, err)
	require.Equal(t, "explicit-client", resolved.ClientID)
	require.Equal(t, "adapter-secret", resolved.ClientSecret)
}

func TestResolveSurfacesAdapterFailure(t *testing.T) {
	cfg := config.ClientConfig{
		Issuer:  "https://auth.example.com",
		Adapter: fakeAdapter{err: errors.New("no request in scope")},
	}

	_, err := cfg.Resolve()
	require.Error(t, err)

	var cfgErr *config.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	require.ErrorContains(t, err, "no request in scope")
}

func TestResolveAppliesDefaultScopes(t *testing.T) {
	resolved, err := config.ClientConfig{ClientID: "c"}.Resolve()
	require.NoError(t, err)
	require.Equal(t, config.DefaultScopes, resolved.Scopes)
	require.Equal(t, "openid profile email", resolved.ScopeString())
}

func TestFromEnv(t *testing.T) {
	t.Setenv("AUTH_CLIENT_ID", "env-client")
	t.Setenv("AUTH_CLIENT_SECRET", "env-secret")
	t.Setenv("AUTH_ISSUER", "https://auth.example.com")
	t.Setenv("AUTH_REDIRECT_URI", "http://localhost:3000/callback")
	t.Setenv("AUTH_SCOPES", "openid offline")

	cfg := config.FromEnv()
	require.Equal(t, "env-client", cfg.ClientID)
	require.Equal(t, "env-secret", cfg.ClientSecret)
	require.Equal(t, "https://auth.example.com", cfg.Issuer)
	require.Equal(t, []string{"openid", "offline"}, cfg.Scopes)
	require.NoError(t, cfg.Validate())
}
