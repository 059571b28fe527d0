// Package token defines the token-exchange collaborator boundary: the
// TokenSet a grant produces, the Exchanger interface the session store
// serializes its refreshes through, and claim decoding.
package token

import "time"

// TokenSet is the result of a token-endpoint exchange or refresh.
type TokenSet struct {
	AccessToken  string    // Bearer access token
	RefreshToken string    // Refresh token, empty when the grant issued none
	IDToken      string    // OIDC ID token, empty without the openid scope
	TokenType    string    // Usually "Bearer"
	Expiry       time.Time // Access token expiry
}
