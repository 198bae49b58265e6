// Package azure implements the az:// locator source on the Azure Blob SDK.
//
// Locators take the form az://<account>/<container>/<blob path>. Access is
// anonymous for public containers, or through a SAS token passed in from
// configuration.
package azure

import (
	"context"
	"fmt"
	nethttp "net/http"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"

	"github.com/rescale/dataset-fetch/internal/cloud"
	"github.com/rescale/dataset-fetch/internal/config"
)

// Options configures the Azure source.
type Options struct {
	SASToken   string
	Endpoint   string // Replaces https://<account>.blob.core.windows.net
	HTTPClient *nethttp.Client
}

// OptionsFromConfig extracts the Azure settings from cfg.
func OptionsFromConfig(cfg *config.Config, httpClient *nethttp.Client) Options {
	return Options{
		SASToken:   cfg.AzureSASToken,
		Endpoint:   cfg.AzureEndpoint,
		HTTPClient: httpClient,
	}
}

// Source streams blobs with DownloadStream. One azblob client is built per
// account on first use.
type Source struct {
	opts Options
}

// NewSource creates an Azure source.
func NewSource(opts Options) *Source {
	return &Source{opts: opts}
}

// Scheme implements cloud.Source.
func (s *Source) Scheme() string {
	return cloud.SchemeAzure
}

// Open implements cloud.Source.
func (s *Source) Open(ctx context.Context, locator string) (*cloud.Object, error) {
	account, container, blobName, err := ParseLocator(locator)
	if err != nil {
		return nil, err
	}

	client, err := s.clientFor(account)
	if err != nil {
		return nil, err
	}

	resp, err := client.DownloadStream(ctx, container, blobName, nil)
	if err != nil {
		return nil, fmt.Errorf("azure download %s/%s/%s: %w", account, container, blobName, err)
	}

	size := int64(-1)
	if resp.ContentLength != nil && *resp.ContentLength >= 0 {
		size = *resp.ContentLength
	}
	return &cloud.Object{Body: resp.Body, Size: size}, nil
}

func (s *Source) clientFor(account string) (*azblob.Client, error) {
	serviceURL := buildServiceURL(account, s.opts.Endpoint, s.opts.SASToken)

	clientOpts := &azblob.ClientOptions{
		ClientOptions: azcore.ClientOptions{
			// Failed transfers are reported, not retried
			Retry: policy.RetryOptions{MaxRetries: -1},
		},
	}
	if s.opts.HTTPClient != nil {
		clientOpts.Transport = s.opts.HTTPClient
	}

	client, err := azblob.NewClientWithNoCredential(serviceURL, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure client: %w", err)
	}
	return client, nil
}

// buildServiceURL returns the blob service URL for account, with the SAS
// token appended as the query string when one is set.
func buildServiceURL(account, endpoint, sasToken string) string {
	serviceURL := fmt.Sprintf("https://%s.blob.core.windows.net/", account)
	if endpoint != "" {
		serviceURL = strings.TrimSuffix(endpoint, "/") + "/"
	}
	if sasToken = strings.TrimPrefix(sasToken, "?"); sasToken != "" {
		serviceURL += "?" + sasToken
	}
	return serviceURL
}

// ParseLocator splits az://account/container/blob into its parts.
func ParseLocator(locator string) (account, container, blobName string, err error) {
	u, err := cloud.ParseLocator(locator)
	if err != nil {
		return "", "", "", err
	}
	if u.Scheme != cloud.SchemeAzure {
		return "", "", "", fmt.Errorf("not an az locator: %s", locator)
	}
	account, parts := cloud.SplitBucketPath(u)
	if len(parts) < 2 || parts[0] == "" {
		return "", "", "", fmt.Errorf("az locator %s must name a container and a blob", locator)
	}
	blobName = strings.Join(parts[1:], "/")
	if blobName == "" {
		return "", "", "", fmt.Errorf("az locator %s has no blob name", locator)
	}
	return account, parts[0], blobName, nil
}

var _ cloud.Source = (*Source)(nil)
