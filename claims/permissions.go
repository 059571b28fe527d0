package claims

import (
	"context"
	"slices"

	"github.com/jrsteele09/go-auth-client/dispatch"
	"github.com/jrsteele09/go-auth-client/internal/utils"
)

// Permission is the grant status of one permission key.
type Permission struct {
	Key       string
	OrgCode   string
	IsGranted bool
}

// PermissionList is every permission the subject holds in its org.
type PermissionList struct {
	OrgCode     string
	Permissions []string
}

// Permissions reads the subject's permission grants.
type Permissions struct {
	accessor
}

// GetPermission checks a single permission key. A key the subject does
// not hold comes back with IsGranted false, not an error.
func (p *Permissions) GetPermission(ctx context.Context, key string, options ...QueryOption) *dispatch.Future[Permission] {
	q := buildQuery(options)
	return dispatch.Async(func() (Permission, error) {
		claimSet, err := p.resolveClaims(ctx, q)
		if err != nil {
			return Permission{}, err
		}
		granted, _ := claimSet[permissionsClaim].([]any)
		return Permission{
			Key:       key,
			OrgCode:   utils.String(claimSet, orgCodeClaim),
			IsGranted: slices.Contains(utils.ToStringSlice(granted), key),
		}, nil
	})
}

// GetPermissions returns every permission the subject holds.
func (p *Permissions) GetPermissions(ctx context.Context, options ...QueryOption) *dispatch.Future[PermissionList] {
	q := buildQuery(options)
	return dispatch.Async(func() (PermissionList, error) {
		claimSet, err := p.resolveClaims(ctx, q)
		if err != nil {
			return PermissionList{}, err
		}
		granted, _ := claimSet[permissionsClaim].([]any)
		return PermissionList{
			OrgCode:     utils.String(claimSet, orgCodeClaim),
			Permissions: utils.ToStringSlice(granted),
		}, nil
	})
}
