package token

import (
	"strings"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// DecodeClaims extracts the claim set from a raw JWT without verifying
// the signature. Signature verification happens where the token is
// obtained (the exchanger verifies ID tokens against the issuer keys);
// here the token is already trusted session state being projected.
func DecodeClaims(rawToken string) (map[string]any, error) {
	if strings.TrimSpace(rawToken) == "" {
		return nil, errors.New("[DecodeClaims] empty token")
	}

	parsed, _, err := jwtlib.NewParser().ParseUnverified(rawToken, jwtlib.MapClaims{})
	if err != nil {
		return nil, errors.Wrap(err, "[DecodeClaims] ParseUnverified")
	}

	claims, ok := parsed.Claims.(jwtlib.MapClaims)
	if !ok {
		return nil, errors.New("[DecodeClaims] error extracting claims")
	}
	return map[string]any(claims), nil
}

// MergeClaims overlays the ID token claims on top of the access token
// claims. ID token values win for profile fields; access token values
// carry the authorization claims (permissions, roles, feature flags).
func MergeClaims(accessClaims, idClaims map[string]any) map[string]any {
	merged := make(map[string]any, len(accessClaims)+len(idClaims))
	for name, value := range accessClaims {
		merged[name] = value
	}
	for name, value := range idClaims {
		merged[name] = value
	}
	return merged
}
