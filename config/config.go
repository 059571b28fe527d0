package config

import (
	"strings"
)

// ClientConfig holds everything a client facade needs to talk to the
// authorization server. It is captured once at facade construction and
// never mutated afterwards; facades hold it for their full lifetime.
type ClientConfig struct {
	ClientID     string           // OAuth2 client identifier
	ClientSecret string           // OAuth2 client secret (confidential clients)
	Issuer       string           // Authorization server base URL
	RedirectURI  string           // Registered redirect target
	Scopes       []string         // Requested scopes, defaults to openid profile email
	Audience     string           // Optional audience parameter
	Adapter      FrameworkAdapter // Optional source of request-scoped credentials
}

// DefaultScopes are requested when the config carries none.
var DefaultScopes = []string{"openid", "profile", "email"}

// Credentials is the fragment a FrameworkAdapter can supply when the
// static config carries no client credentials of its own.
type Credentials struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

// FrameworkAdapter sources credentials from a host web framework's
// request lifecycle. Absence means pure standalone operation.
type FrameworkAdapter interface {
	// RequestCredentials returns the credentials of the current request scope.
	RequestCredentials() (Credentials, error)

	// IsRequestScoped reports whether the adapter is bound to a live request.
	IsRequestScoped() bool
}

// Resolve returns a copy of the config with any missing credentials
// filled in from the framework adapter, and default scopes applied.
func (c ClientConfig) Resolve() (ClientConfig, error) {
	resolved := c
	if resolved.Adapter != nil && (resolved.ClientID == "" || resolved.ClientSecret == "") {
		creds, err := resolved.Adapter.RequestCredentials()
		if err != nil {
			return resolved, &ConfigurationError{Missing: []string{"adapter credentials"}, Cause: err}
		}
		if resolved.ClientID == "" {
			resolved.ClientID = creds.ClientID
		}
		if resolved.ClientSecret == "" {
			resolved.ClientSecret = creds.ClientSecret
		}
		if resolved.RedirectURI == "" {
			resolved.RedirectURI = creds.RedirectURI
		}
	}
	if len(resolved.Scopes) == 0 {
		resolved.Scopes = DefaultScopes
	}
	return resolved, nil
}

// Validate checks that the required fields are present. It returns a
// *ConfigurationError naming every absent field, or nil.
func (c ClientConfig) Validate() error {
	var missing []string
	if c.ClientID == "" {
		missing = append(missing, "client id")
	}
	if c.Issuer == "" {
		missing = append(missing, "issuer")
	}
	if c.RedirectURI == "" {
		missing = append(missing, "redirect uri")
	}
	if len(missing) > 0 {
		return &ConfigurationError{Missing: missing}
	}
	return nil
}

// ScopeString returns the scopes as a single space-separated value.
func (c ClientConfig) ScopeString() string {
	if len(c.Scopes) == 0 {
		return strings.Join(DefaultScopes, " ")
	}
	return strings.Join(c.Scopes, " ")
}
