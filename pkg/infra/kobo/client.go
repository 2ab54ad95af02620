package kobo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/EngrShabir135/koboimg/pkg/domain/interfaces"
	"github.com/EngrShabir135/koboimg/pkg/domain/model"
	"github.com/EngrShabir135/koboimg/pkg/domain/types"
)

// DefaultTimeout bounds each request so one unreachable host cannot stall
// the whole run.
const DefaultTimeout = 20 * time.Second

// config holds internal client configuration
type config struct {
	timeout    time.Duration
	httpClient *http.Client
}

// Option is a functional option for Client configuration
type Option func(*config)

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *config) {
		c.httpClient = hc
	}
}

type client struct {
	httpClient *http.Client
}

// NewClient creates a fetcher for Kobo-hosted media endpoints
func NewClient(opts ...Option) interfaces.ImageFetcher {
	cfg := &config{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(cfg)
	}

	httpClient := cfg.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.timeout}
	}

	return &client{httpClient: httpClient}
}

// FetchImage performs a single GET with Basic Authentication. Errors are
// classified so the pipeline can report them: ErrAuthentication on
// 401/403, ErrNotFound on 404, ErrNetwork on transport failure or
// timeout, ErrUnexpectedStatus otherwise.
func (c *client) FetchImage(ctx context.Context, url string, creds model.Credentials) (*model.FetchedImage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, goerr.Wrap(types.ErrNetwork, "invalid request URL", goerr.V("url", url))
	}
	req.SetBasicAuth(creds.Username, creds.Password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(types.ErrNetwork, "request failed",
			goerr.V("url", url), goerr.V("cause", err.Error()))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, goerr.Wrap(types.ErrAuthentication, httpStatus(resp.StatusCode), goerr.V("url", url))
	case resp.StatusCode == http.StatusNotFound:
		return nil, goerr.Wrap(types.ErrNotFound, httpStatus(resp.StatusCode), goerr.V("url", url))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, goerr.Wrap(types.ErrUnexpectedStatus, httpStatus(resp.StatusCode),
			goerr.V("url", url), goerr.V("status", resp.StatusCode))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, goerr.Wrap(types.ErrNetwork, "failed to read response body", goerr.V("url", url))
	}

	return &model.FetchedImage{
		Data:        data,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}

func httpStatus(code int) string {
	return fmt.Sprintf("HTTP %d", code)
}
