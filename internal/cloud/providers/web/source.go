// Package web implements the http and https locator source.
package web

import (
	"context"
	"fmt"
	nethttp "net/http"

	"github.com/rescale/dataset-fetch/internal/cloud"
	"github.com/rescale/dataset-fetch/internal/http"
)

// Source streams objects with a plain GET.
type Source struct {
	client *nethttp.Client
}

// NewSource creates a web source on client. Redirects are followed by the
// client; every non-2xx final status is a failure.
func NewSource(client *nethttp.Client) *Source {
	if client == nil {
		client = nethttp.DefaultClient
	}
	return &Source{client: client}
}

// Scheme implements cloud.Source.
func (s *Source) Scheme() string {
	return cloud.SchemeHTTPS
}

// Open implements cloud.Source.
func (s *Source) Open(ctx context.Context, locator string) (*cloud.Object, error) {
	u, err := cloud.ParseLocator(locator)
	if err != nil {
		return nil, err
	}
	if u.Scheme != cloud.SchemeHTTP && u.Scheme != cloud.SchemeHTTPS {
		return nil, fmt.Errorf("web source cannot open %s locators", u.Scheme)
	}

	req, err := nethttp.NewRequestWithContext(ctx, nethttp.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", u.Redacted(), err)
	}
	if err := http.CheckStatus(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}

	size := resp.ContentLength
	if size < 0 {
		size = -1
	}
	return &cloud.Object{Body: resp.Body, Size: size}, nil
}

var _ cloud.Source = (*Source)(nil)
