// Package cloud defines the source abstraction shared by the direct-transfer
// backends. A Source turns a URL-shaped locator into an open byte stream;
// the concrete backends live under providers/.
package cloud

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
)

// Locator schemes understood by the provider factory.
const (
	SchemeHTTP  = "http"
	SchemeHTTPS = "https"
	SchemeS3    = "s3"
	SchemeAzure = "az"
)

// Object is an open remote object. The caller owns Body and must close it.
type Object struct {
	Body io.ReadCloser

	// Size is the advertised length in bytes, or -1 when the source does not
	// report one.
	Size int64
}

// Source opens remote objects for streaming.
type Source interface {
	// Open starts the transfer of the object named by locator. A non-nil
	// error means no body was returned.
	Open(ctx context.Context, locator string) (*Object, error)

	// Scheme returns the locator scheme this source serves.
	Scheme() string
}

// SourceFactory resolves the Source responsible for a locator.
type SourceFactory interface {
	SourceFor(ctx context.Context, locator string) (Source, error)
}

// ParseLocator parses a locator and lowercases its scheme.
// A locator without a scheme is treated as https.
func ParseLocator(locator string) (*url.URL, error) {
	if strings.TrimSpace(locator) == "" {
		return nil, fmt.Errorf("empty locator")
	}
	if !strings.Contains(locator, "://") {
		locator = SchemeHTTPS + "://" + locator
	}
	u, err := url.Parse(locator)
	if err != nil {
		return nil, fmt.Errorf("invalid locator %q: %w", locator, err)
	}
	u.Scheme = strings.ToLower(u.Scheme)
	if u.Host == "" {
		return nil, fmt.Errorf("invalid locator %q: missing host", locator)
	}
	return u, nil
}

// SplitBucketPath splits a parsed s3:// or az:// locator into its host part
// and the slash-separated path segments after it.
func SplitBucketPath(u *url.URL) (string, []string) {
	path := strings.TrimPrefix(u.Path, "/")
	if path == "" {
		return u.Host, nil
	}
	return u.Host, strings.Split(path, "/")
}
