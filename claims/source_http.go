package claims

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/jrsteele09/go-auth-client/internal/utils"
	"github.com/jrsteele09/go-auth-client/token"
)

const defaultHTTPTimeout = 30 * time.Second

var _ Source = (*HTTPSource)(nil)

// HTTPSource resolves claims, feature flags and entitlements from the
// account API with a bearer token. Timeout policy lives in the injected
// HTTP client; failures surface as *token.TransportError.
type HTTPSource struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

type HTTPSourceOption func(*HTTPSource)

func WithHTTPClient(httpClient *http.Client) HTTPSourceOption {
	return func(s *HTTPSource) {
		s.httpClient = httpClient
	}
}

func WithHTTPLogger(logger zerolog.Logger) HTTPSourceOption {
	return func(s *HTTPSource) {
		s.logger = logger
	}
}

func NewHTTPSource(baseURL string, options ...HTTPSourceOption) *HTTPSource {
	source := &HTTPSource{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		logger:     zerolog.Nop(),
	}
	for _, opt := range options {
		opt(source)
	}
	return source
}

func (s *HTTPSource) FetchClaims(ctx context.Context, accessToken string) (map[string]any, error) {
	return s.fetch(ctx, "/account_api/v1/claims", accessToken)
}

func (s *HTTPSource) EvaluateFlags(ctx context.Context, accessToken string) (map[string]any, error) {
	body, err := s.fetch(ctx, "/account_api/v1/feature_flags", accessToken)
	if err != nil {
		return nil, err
	}
	if flags, ok := body[featureFlagClaim].(map[string]any); ok {
		return flags, nil
	}
	return body, nil
}

func (s *HTTPSource) FetchEntitlements(ctx context.Context, accessToken string, query EntitlementQuery) (EntitlementPage, error) {
	params := url.Values{}
	if query.PageSize > 0 {
		params.Set("page_size", strconv.Itoa(query.PageSize))
	}
	if query.StartingAfter != "" {
		params.Set("starting_after", query.StartingAfter)
	}
	path := "/account_api/v1/entitlements"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	body, err := s.fetch(ctx, path, accessToken)
	if err != nil {
		return EntitlementPage{}, err
	}

	data, _ := body["data"].(map[string]any)
	metadata, _ := body["metadata"].(map[string]any)
	page := EntitlementPage{
		OrgCode:               utils.String(data, "org_code"),
		HasMore:               utils.Bool(metadata, "has_more"),
		NextPageStartingAfter: utils.String(metadata, "next_page_starting_after"),
	}
	raw, _ := data["entitlements"].([]any)
	for _, entry := range utils.ToMapSlice(raw) {
		page.Entitlements = append(page.Entitlements, decodeEntitlement(entry))
	}
	return page, nil
}

func (s *HTTPSource) FetchEntitlement(ctx context.Context, accessToken, key string) (Entitlement, error) {
	body, err := s.fetch(ctx, "/account_api/v1/entitlement/"+url.PathEscape(key), accessToken)
	if err != nil {
		return Entitlement{}, err
	}
	data, _ := body["data"].(map[string]any)
	entry, _ := data["entitlement"].(map[string]any)
	return decodeEntitlement(entry), nil
}

func (s *HTTPSource) fetch(ctx context.Context, path, accessToken string) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return nil, &token.TransportError{Op: "account api request", Cause: err}
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, &token.TransportError{Op: "account api request", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &token.TransportError{Op: "account api request", Cause: fmt.Errorf("status %d from %s", resp.StatusCode, path)}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &token.TransportError{Op: "account api response", Cause: err}
	}

	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, &token.TransportError{Op: "account api response", Cause: err}
	}

	s.logger.Debug().Str("path", path).Msg("account api fetch")
	return body, nil
}
