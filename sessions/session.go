// Package sessions holds the shared authentication state: one
// authoritative Session per logical session key, mutated only through
// the store's single-flight refresh.
package sessions

import "time"

// Session is the authentication state for one logical session key.
// All fields are written through the Store; facades only ever see copies.
type Session struct {
	ID           string         // Opaque session key (per request or per process)
	AccessToken  string         // Current access token
	RefreshToken string         // Refresh token, empty when the grant issued none
	IDToken      string         // OIDC ID token, when the scope included openid
	TokenType    string         // Usually "Bearer"
	IssuedAt     time.Time      // When the token set was obtained
	ExpiresAt    time.Time      // Access token expiry
	Claims       map[string]any // Claim set decoded from the tokens
}

// Authenticated reports whether the session holds an unexpired access
// token. Pure local check against cached expiry, no I/O.
func (s *Session) Authenticated(now time.Time) bool {
	if s == nil || s.AccessToken == "" {
		return false
	}
	return now.Before(s.ExpiresAt)
}

// Clone returns an independent copy so callers cannot mutate shared
// state through a returned snapshot.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	clone := *s
	if s.Claims != nil {
		clone.Claims = make(map[string]any, len(s.Claims))
		for name, value := range s.Claims {
			clone.Claims[name] = value
		}
	}
	return &clone
}
