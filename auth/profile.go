package auth

import "github.com/jrsteele09/go-auth-client/internal/utils"

// UserProfile is the standard OIDC identity projection of the session
// claim set.
type UserProfile struct {
	Subject    string
	Email      string
	Name       string
	GivenName  string
	FamilyName string
	Picture    string
}

func profileFromClaims(claimSet map[string]any) UserProfile {
	return UserProfile{
		Subject:    utils.String(claimSet, "sub"),
		Email:      utils.String(claimSet, "email"),
		Name:       utils.String(claimSet, "name"),
		GivenName:  utils.String(claimSet, "given_name"),
		FamilyName: utils.String(claimSet, "family_name"),
		Picture:    utils.String(claimSet, "picture"),
	}
}
