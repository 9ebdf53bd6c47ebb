package sdk

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ClientConfig contains the configuration for creating a new SDK client.
// Authentication is either login/password (session token) or a client
// certificate and key; at least one must be provided.
type ClientConfig struct {
	// BaseURL is the configuration store URL (e.g. "https://apic.example.com").
	BaseURL string

	// Login is the store username for session authentication.
	Login string

	// Password is the store password for session authentication.
	Password string

	// CertFile is the path to a PEM client certificate for certificate
	// authentication. Requires KeyFile.
	CertFile string

	// KeyFile is the path to the PEM private key for CertFile.
	KeyFile string

	// InsecureSkipVerify disables TLS verification of the store certificate.
	// Stores in lab environments commonly run with self-signed certificates.
	InsecureSkipVerify bool

	// HTTPClient is the HTTP client to use for requests.
	// Optional: if nil, a default client with reasonable timeouts is built.
	HTTPClient *http.Client

	// RetryAttempts is the number of times to retry failed requests.
	// Default: 3
	RetryAttempts int

	// RetryWaitMin is the minimum wait time between retries.
	// Default: 1 second
	RetryWaitMin time.Duration

	// RetryWaitMax is the maximum wait time between retries.
	// Default: 30 seconds
	RetryWaitMax time.Duration

	// Timeout is the HTTP request timeout.
	// Default: 30 seconds
	Timeout time.Duration
}

// Validate checks if the client configuration is valid and sets defaults.
func (c *ClientConfig) Validate() error {
	url := strings.TrimSpace(c.BaseURL)
	if url == "" {
		return fmt.Errorf("%w: base URL is required", ErrInvalidConfig)
	}
	url = strings.TrimSuffix(url, "/")
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return fmt.Errorf("%w: base URL must start with http:// or https://", ErrInvalidConfig)
	}
	c.BaseURL = url

	hasLogin := strings.TrimSpace(c.Login) != ""
	hasCert := strings.TrimSpace(c.CertFile) != ""
	if !hasLogin && !hasCert {
		return fmt.Errorf("%w: provide login/password or certificate/key", ErrMissingAuth)
	}
	if hasCert && strings.TrimSpace(c.KeyFile) == "" {
		return fmt.Errorf("%w: certificate authentication requires a key file", ErrInvalidConfig)
	}

	if c.RetryAttempts == 0 {
		c.RetryAttempts = 3
	}
	if c.RetryWaitMin == 0 {
		c.RetryWaitMin = 1 * time.Second
	}
	if c.RetryWaitMax == 0 {
		c.RetryWaitMax = 30 * time.Second
	}
	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}

	if c.HTTPClient == nil {
		transport := &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		}
		tlsConfig, err := c.buildTLSConfig()
		if err != nil {
			return err
		}
		transport.TLSClientConfig = tlsConfig
		c.HTTPClient = &http.Client{
			Timeout:   c.Timeout,
			Transport: transport,
		}
	}

	return nil
}

// buildTLSConfig loads the client certificate when certificate
// authentication is configured.
func (c *ClientConfig) buildTLSConfig() (*tls.Config, error) {
	tlsConfig := &tls.Config{
		InsecureSkipVerify: c.InsecureSkipVerify,
	}
	if c.CertFile == "" {
		return tlsConfig, nil
	}
	cert, err := tls.LoadX509KeyPair(c.CertFile, c.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("%w: load client certificate: %v", ErrInvalidConfig, err)
	}
	tlsConfig.Certificates = []tls.Certificate{cert}
	return tlsConfig, nil
}

// HasSessionAuth returns true if login/password authentication is configured.
func (c *ClientConfig) HasSessionAuth() bool {
	return strings.TrimSpace(c.Login) != ""
}

// HasCertAuth returns true if certificate authentication is configured.
func (c *ClientConfig) HasCertAuth() bool {
	return strings.TrimSpace(c.CertFile) != ""
}
