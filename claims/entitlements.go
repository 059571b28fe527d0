package claims

import (
	"context"

	"github.com/pkg/errors"

	"github.com/jrsteele09/go-auth-client/dispatch"
	"github.com/jrsteele09/go-auth-client/internal/utils"
)

// Entitlement is one billing entitlement of the authenticated subject.
type Entitlement struct {
	ID          string
	FeatureKey  string
	FeatureName string
	PriceName   string
	UnitAmount  int
	FixedCharge int
	LimitMax    int
	LimitMin    int
}

// EntitlementQuery selects one page of an entitlement listing.
type EntitlementQuery struct {
	PageSize      int    // 0 means the provider default
	StartingAfter string // Cursor from the previous page, empty for the first
}

// EntitlementPage is one page of entitlements plus its paging cursor.
type EntitlementPage struct {
	OrgCode               string
	Entitlements          []Entitlement
	HasMore               bool
	NextPageStartingAfter string
}

// Entitlements reads the subject's billing entitlements. Unlike the
// sibling accessors these have no claim-set form; every read goes to
// the account API through the Source.
type Entitlements struct {
	accessor
}

// GetEntitlement looks up a single entitlement by feature key.
func (e *Entitlements) GetEntitlement(ctx context.Context, key string) *dispatch.Future[Entitlement] {
	return dispatch.Async(func() (Entitlement, error) {
		session, err := e.remoteSession()
		if err != nil {
			return Entitlement{}, err
		}
		entitlement, err := e.source.FetchEntitlement(ctx, session.AccessToken, key)
		if err != nil {
			return Entitlement{}, errors.Wrapf(err, "[Entitlements.GetEntitlement] %q", key)
		}
		return entitlement, nil
	})
}

// GetEntitlements returns a single page. WithPageSize and
// WithStartingAfter control the window.
func (e *Entitlements) GetEntitlements(ctx context.Context, options ...QueryOption) *dispatch.Future[EntitlementPage] {
	q := buildQuery(options)
	return dispatch.Async(func() (EntitlementPage, error) {
		session, err := e.remoteSession()
		if err != nil {
			return EntitlementPage{}, err
		}
		page, err := e.source.FetchEntitlements(ctx, session.AccessToken, EntitlementQuery{
			PageSize:      q.pageSize,
			StartingAfter: q.startingAfter,
		})
		if err != nil {
			return EntitlementPage{}, errors.Wrap(err, "[Entitlements.GetEntitlements] source.FetchEntitlements")
		}
		return page, nil
	})
}

// GetAllEntitlements follows the paging cursor until the provider
// reports no further pages and returns the combined listing.
func (e *Entitlements) GetAllEntitlements(ctx context.Context, options ...QueryOption) *dispatch.Future[[]Entitlement] {
	q := buildQuery(options)
	return dispatch.Async(func() ([]Entitlement, error) {
		session, err := e.remoteSession()
		if err != nil {
			return nil, err
		}
		query := EntitlementQuery{PageSize: q.pageSize}
		var all []Entitlement
		for {
			page, err := e.source.FetchEntitlements(ctx, session.AccessToken, query)
			if err != nil {
				return nil, errors.Wrap(err, "[Entitlements.GetAllEntitlements] source.FetchEntitlements")
			}
			all = append(all, page.Entitlements...)
			if !page.HasMore || page.NextPageStartingAfter == "" {
				return all, nil
			}
			query.StartingAfter = page.NextPageStartingAfter
		}
	})
}

func decodeEntitlement(entry map[string]any) Entitlement {
	return Entitlement{
		ID:          utils.String(entry, "id"),
		FeatureKey:  utils.String(entry, "feature_key"),
		FeatureName: utils.String(entry, "feature_name"),
		PriceName:   utils.String(entry, "price_name"),
		UnitAmount:  utils.Int(entry, "unit_amount"),
		FixedCharge: utils.Int(entry, "fixed_charge"),
		LimitMax:    utils.Int(entry, "entitlement_limit_max"),
		LimitMin:    utils.Int(entry, "entitlement_limit_min"),
	}
}
