package claims_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-auth-client/claims"
	"github.com/jrsteele09/go-auth-client/token"
)

func TestHTTPSourceFetchClaims(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/account_api/v1/claims", r.URL.Path)
		require.Equal(t, "Bearer access-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"org_code":"org_123","permissions":["create:todos"]}`)
	}))
	defer server.Close()

	source := claims.NewHTTPSource(server.URL)
	claimSet, err := source.FetchClaims(context.Background(), "access-token")
	require.NoError(t, err)
	require.Equal(t, "org_123", claimSet["org_code"])
	require.Equal(t, []any{"create:todos"}, claimSet["permissions"])
}

func TestHTTPSourceEvaluateFlagsUnwrapsFlagMember(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/account_api/v1/feature_flags", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"feature_flags":{"theme":{"t":"s","v":"pink"}}}`)
	}))
	defer server.Close()

	source := claims.NewHTTPSource(server.URL)
	flags, err := source.EvaluateFlags(context.Background(), "access-token")
	require.NoError(t, err)

	entry, ok := flags["theme"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "pink", entry["v"])
}

func TestHTTPSourceStatusFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	source := claims.NewHTTPSource(server.URL)
	_, err := source.FetchClaims(context.Background(), "access-token")

	var transportErr *token.TransportError
	require.ErrorAs(t, err, &transportErr)
	require.Contains(t, err.Error(), "status 503")
}

func TestHTTPSourceFetchEntitlements(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/account_api/v1/entitlements", r.URL.Path)
		require.Equal(t, "25", r.URL.Query().Get("page_size"))
		require.Equal(t, "entitlement_123", r.URL.Query().Get("starting_after"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"data": {
				"org_code": "org_123",
				"entitlements": [{
					"id": "entitlement_123",
					"feature_key": "pro_feature",
					"feature_name": "Pro Feature",
					"price_name": "Pro Plan",
					"unit_amount": 1000,
					"fixed_charge": 10,
					"entitlement_limit_max": 100,
					"entitlement_limit_min": 1
				}]
			},
			"metadata": {"has_more": true, "next_page_starting_after": "entitlement_123"}
		}`)
	}))
	defer server.Close()

	source := claims.NewHTTPSource(server.URL)
	page, err := source.FetchEntitlements(context.Background(), "access-token", claims.EntitlementQuery{
		PageSize:      25,
		StartingAfter: "entitlement_123",
	})
	require.NoError(t, err)
	require.Equal(t, "org_123", page.OrgCode)
	require.True(t, page.HasMore)
	require.Equal(t, "entitlement_123", page.NextPageStartingAfter)
	require.Len(t, page.Entitlements, 1)
	require.Equal(t, claims.Entitlement{
		ID:          "entitlement_123",
		FeatureKey:  "pro_feature",
		FeatureName: "Pro Feature",
		PriceName:   "Pro Plan",
		UnitAmount:  1000,
		FixedCharge: 10,
		LimitMax:    100,
		LimitMin:    1,
	}, page.Entitlements[0])
}

func TestHTTPSourceFetchEntitlement(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/account_api/v1/entitlement/premium_feature", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data":{"org_code":"org_123","entitlement":{"id":"entitlement_456","feature_key":"premium_feature"}}}`)
	}))
	defer server.Close()

	source := claims.NewHTTPSource(server.URL)
	entitlement, err := source.FetchEntitlement(context.Background(), "access-token", "premium_feature")
	require.NoError(t, err)
	require.Equal(t, "entitlement_456", entitlement.ID)
	require.Equal(t, "premium_feature", entitlement.FeatureKey)
}
