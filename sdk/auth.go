package sdk

import (
	"context"
	"net/http"
)

// HeaderSessionToken is the header carrying the session token on
// authenticated requests.
const HeaderSessionToken = "X-Auth-Token"

// Login establishes a session with the store using the configured login and
// password and caches the returned token. Certificate-authenticated clients
// do not need a session; Login is a no-op for them.
func (c *Client) Login(ctx context.Context) error {
	if c.certAuth {
		return nil
	}
	if c.login == "" {
		return ErrMissingAuth
	}

	var resp loginResponse
	err := c.doJSONRequest(ctx, http.MethodPost, "/api/v1/login",
		loginRequest{Login: c.login, Password: c.password}, &resp, false)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.token = resp.Token
	c.mu.Unlock()
	return nil
}

// ensureSession logs in lazily before the first authenticated request.
func (c *Client) ensureSession(ctx context.Context) error {
	if c.certAuth {
		return nil
	}
	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()
	if token != "" {
		return nil
	}
	return c.Login(ctx)
}

// addAuthHeaders attaches the session token. Certificate authentication is
// carried by the TLS layer and needs no header.
func (c *Client) addAuthHeaders(req *http.Request) error {
	if c.certAuth {
		return nil
	}
	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()
	if token == "" {
		return ErrMissingAuth
	}
	req.Header.Set(HeaderSessionToken, token)
	return nil
}

// clearSession drops the cached token, forcing a fresh login on the next
// request. Called when the store reports the session expired.
func (c *Client) clearSession() {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
}
