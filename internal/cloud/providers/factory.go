// Package providers contains the source implementations and the factory
// that picks one by locator scheme.
package providers

import (
	"context"
	"fmt"
	nethttp "net/http"
	"sync"

	"github.com/rescale/dataset-fetch/internal/cloud"
	"github.com/rescale/dataset-fetch/internal/cloud/providers/azure"
	"github.com/rescale/dataset-fetch/internal/cloud/providers/s3"
	"github.com/rescale/dataset-fetch/internal/cloud/providers/web"
	"github.com/rescale/dataset-fetch/internal/config"
	"github.com/rescale/dataset-fetch/internal/http"
	"github.com/rescale/dataset-fetch/internal/logging"
)

// Factory implements cloud.SourceFactory. Sources are created on first use
// and shared by every job with the same scheme.
type Factory struct {
	cfg        *config.Config
	httpClient *nethttp.Client
	logger     *logging.Logger

	mu      sync.Mutex
	sources map[string]cloud.Source
}

// NewFactory creates a factory. httpClient is the shared proxy-aware client;
// the web source wraps it with NewFetchClient, the SDK sources use it as-is.
func NewFactory(cfg *config.Config, httpClient *nethttp.Client, logger *logging.Logger) *Factory {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Factory{
		cfg:        cfg,
		httpClient: httpClient,
		logger:     logger,
		sources:    make(map[string]cloud.Source),
	}
}

// SourceFor returns the source responsible for locator.
func (f *Factory) SourceFor(ctx context.Context, locator string) (cloud.Source, error) {
	u, err := cloud.ParseLocator(locator)
	if err != nil {
		return nil, err
	}

	key := u.Scheme
	if key == cloud.SchemeHTTP {
		key = cloud.SchemeHTTPS
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if src, ok := f.sources[key]; ok {
		return src, nil
	}

	src, err := f.newSource(ctx, key)
	if err != nil {
		return nil, err
	}
	f.sources[key] = src
	return src, nil
}

func (f *Factory) newSource(ctx context.Context, scheme string) (cloud.Source, error) {
	switch scheme {
	case cloud.SchemeHTTPS:
		return web.NewSource(http.NewFetchClient(f.httpClient, f.logger)), nil
	case cloud.SchemeS3:
		return s3.NewSource(ctx, s3.OptionsFromConfig(f.cfg, f.httpClient))
	case cloud.SchemeAzure:
		return azure.NewSource(azure.OptionsFromConfig(f.cfg, f.httpClient)), nil
	default:
		return nil, fmt.Errorf("unsupported locator scheme: %s", scheme)
	}
}

// Compile-time interface verification
var _ cloud.SourceFactory = (*Factory)(nil)
