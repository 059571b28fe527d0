package config

import (
	"os"
	"strings"
)

const (
	clientIDVar     = "AUTH_CLIENT_ID"
	clientSecretVar = "AUTH_CLIENT_SECRET"
	issuerVar       = "AUTH_ISSUER"
	redirectURIVar  = "AUTH_REDIRECT_URI"
	scopesVar       = "AUTH_SCOPES"
	audienceVar     = "AUTH_AUDIENCE"
)

// FromEnv builds a ClientConfig from the AUTH_CLIENT_* environment
// variables. Missing variables stay empty and are caught by Validate.
func FromEnv() ClientConfig {
	return ClientConfig{
		ClientID:     GetEnv(clientIDVar, ""),
		ClientSecret: GetEnv(clientSecretVar, ""),
		Issuer:       GetEnv(issuerVar, ""),
		RedirectURI:  GetEnv(redirectURIVar, ""),
		Scopes:       splitScopes(GetEnv(scopesVar, "")),
		Audience:     GetEnv(audienceVar, ""),
	}
}

func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func splitScopes(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return strings.Fields(raw)
}
