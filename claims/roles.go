package claims

import (
	"context"

	"github.com/jrsteele09/go-auth-client/dispatch"
	"github.com/jrsteele09/go-auth-client/internal/utils"
)

// Role is one role assignment, or the negative result of a lookup for a
// key the subject does not hold (IsGranted false, identity fields empty).
type Role struct {
	ID          string
	Key         string
	Name        string
	Description string
	IsDefault   bool
	IsGranted   bool
}

// RoleList is every role the subject holds in its org.
type RoleList struct {
	OrgCode string
	Roles   []Role
}

// Roles reads the subject's role assignments.
type Roles struct {
	accessor
}

// GetRole looks up a single role by key.
func (r *Roles) GetRole(ctx context.Context, key string, options ...QueryOption) *dispatch.Future[Role] {
	q := buildQuery(options)
	return dispatch.Async(func() (Role, error) {
		claimSet, err := r.resolveClaims(ctx, q)
		if err != nil {
			return Role{}, err
		}
		for _, role := range decodeRoles(claimSet) {
			if role.Key == key {
				role.IsGranted = true
				return role, nil
			}
		}
		return Role{Key: key}, nil
	})
}

// GetRoles returns every role the subject holds.
func (r *Roles) GetRoles(ctx context.Context, options ...QueryOption) *dispatch.Future[RoleList] {
	q := buildQuery(options)
	return dispatch.Async(func() (RoleList, error) {
		claimSet, err := r.resolveClaims(ctx, q)
		if err != nil {
			return RoleList{}, err
		}
		roles := decodeRoles(claimSet)
		for i := range roles {
			roles[i].IsGranted = true
		}
		return RoleList{
			OrgCode: utils.String(claimSet, orgCodeClaim),
			Roles:   roles,
		}, nil
	})
}

func decodeRoles(claimSet map[string]any) []Role {
	raw, _ := claimSet[rolesClaim].([]any)
	roles := make([]Role, 0, len(raw))
	for _, entry := range utils.ToMapSlice(raw) {
		roles = append(roles, Role{
			ID:          utils.String(entry, "id"),
			Key:         utils.String(entry, "key"),
			Name:        utils.String(entry, "name"),
			Description: utils.String(entry, "description"),
			IsDefault:   utils.Bool(entry, "is_default_role"),
		})
	}
	return roles
}
