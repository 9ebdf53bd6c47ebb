package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/panos-tools/dpmigrate/models"
)

// Client talks to the remote configuration store. It implements the store
// interface the migration engine consumes. A Client is safe for use from a
// single invocation; the session token cache is the only shared state.
type Client struct {
	baseURL  string
	login    string
	password string
	certAuth bool

	httpClient    *http.Client
	retryAttempts int
	retryWaitMin  time.Duration
	retryWaitMax  time.Duration

	// token is the cached session token (protected by mu).
	token string
	mu    sync.RWMutex
}

// NewClient creates a new SDK client with the given configuration.
func NewClient(config ClientConfig) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Client{
		baseURL:       config.BaseURL,
		login:         config.Login,
		password:      config.Password,
		certAuth:      config.HasCertAuth(),
		httpClient:    config.HTTPClient,
		retryAttempts: config.RetryAttempts,
		retryWaitMin:  config.RetryWaitMin,
		retryWaitMax:  config.RetryWaitMax,
	}, nil
}

// doJSONRequest performs a request with an optional JSON body and parses the
// JSON response. When authed is set, the session is established lazily and
// the token attached; a 401 clears the cached session so a rerun can log in
// again.
func (c *Client) doJSONRequest(ctx context.Context, method, path string, reqBody, respBody interface{}, authed bool) error {
	if authed {
		if err := c.ensureSession(ctx); err != nil {
			return err
		}
	}

	var body io.Reader
	if reqBody != nil {
		jsonData, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		body = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if authed {
		if err := c.addAuthHeaders(req); err != nil {
			return err
		}
	}

	resp, err := c.doRequestWithRetry(ctx, req)
	if err != nil {
		return err
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		drainAndCloseBody(resp)
		c.clearSession()
		if !authed {
			return ErrLoginFailed
		}
		return ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		drainAndCloseBody(resp)
		return models.ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return c.parseErrorResponse(resp)
	}

	if respBody != nil {
		return c.parseJSONResponse(resp, respBody)
	}
	drainAndCloseBody(resp)
	return nil
}

// parseJSONResponse parses a JSON response body into the provided destination.
func (c *Client) parseJSONResponse(resp *http.Response, dest interface{}) error {
	defer drainAndCloseBody(resp)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("parse JSON response: %w", err)
	}
	return nil
}

// parseErrorResponse attempts to parse an error envelope from the store.
func (c *Client) parseErrorResponse(resp *http.Response) error {
	var apiErr APIResponse
	if err := c.parseJSONResponse(resp, &apiErr); err != nil {
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}
	if apiErr.Error != "" {
		return fmt.Errorf("%w: %s", ErrBadRequest, apiErr.Error)
	}
	return fmt.Errorf("request failed with status %d", resp.StatusCode)
}

// ListTenants returns the names of all tenants on the store.
func (c *Client) ListTenants(ctx context.Context) ([]string, error) {
	var resp nameListResponse
	if err := c.doJSONRequest(ctx, http.MethodGet, "/api/v1/tenants", nil, &resp, true); err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	return resp.Names, nil
}

// ListAppProfiles returns the names of the tenant's application profiles.
func (c *Client) ListAppProfiles(ctx context.Context, tenant string) ([]string, error) {
	path := fmt.Sprintf("/api/v1/tenants/%s/apps", url.PathEscape(tenant))

	var resp nameListResponse
	if err := c.doJSONRequest(ctx, http.MethodGet, path, nil, &resp, true); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, &models.NotFoundError{Kind: "tenant", Name: tenant}
		}
		return nil, fmt.Errorf("list app profiles for %s: %w", tenant, err)
	}
	return resp.Names, nil
}

// LoadTenant fetches the tenant's full folder/parameter hierarchy.
func (c *Client) LoadTenant(ctx context.Context, tenant string) (*models.Tenant, error) {
	path := fmt.Sprintf("/api/v1/tenants/%s/tree", url.PathEscape(tenant))

	var t models.Tenant
	if err := c.doJSONRequest(ctx, http.MethodGet, path, nil, &t, true); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, &models.NotFoundError{Kind: "tenant", Name: tenant}
		}
		return nil, fmt.Errorf("load tenant %s: %w", tenant, err)
	}
	return &t, nil
}

// ListClusters returns the L4-7 clusters visible from the tenant, including
// infra-level device-manager and chassis attachments.
func (c *Client) ListClusters(ctx context.Context, tenant string) ([]models.Cluster, error) {
	path := fmt.Sprintf("/api/v1/tenants/%s/clusters", url.PathEscape(tenant))

	var resp struct {
		Clusters []models.Cluster `json:"clusters"`
	}
	if err := c.doJSONRequest(ctx, http.MethodGet, path, nil, &resp, true); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, &models.NotFoundError{Kind: "tenant", Name: tenant}
		}
		return nil, fmt.Errorf("list clusters for %s: %w", tenant, err)
	}
	return resp.Clusters, nil
}

// Apply executes a single mutation against the store. Each operation is one
// atomic write; a failure leaves everything before it applied, which the
// executor reports for idempotent rerun.
func (c *Client) Apply(ctx context.Context, op models.Op) error {
	if err := c.doJSONRequest(ctx, http.MethodPost, "/api/v1/ops", op, nil, true); err != nil {
		return fmt.Errorf("apply %s: %w", op.Describe(), err)
	}
	return nil
}
