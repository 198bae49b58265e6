// Package s3 implements the s3:// locator source on aws-sdk-go-v2.
//
// Credentials are passed through, never managed: static keys from
// configuration, anonymous access for public buckets, or the SDK's default
// chain (environment, shared profile, instance role).
package s3

import (
	"context"
	"fmt"
	nethttp "net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscreds "github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/rescale/dataset-fetch/internal/cloud"
	"github.com/rescale/dataset-fetch/internal/config"
)

// defaultRegion is used when neither configuration nor the environment names one.
const defaultRegion = "us-east-1"

// Options configures the S3 client.
type Options struct {
	Region          string
	Profile         string
	Endpoint        string // Custom endpoint, addressed path-style
	Anonymous       bool
	AccessKeyID     string
	SecretAccessKey string
	HTTPClient      *nethttp.Client
}

// OptionsFromConfig extracts the S3 settings from cfg.
func OptionsFromConfig(cfg *config.Config, httpClient *nethttp.Client) Options {
	return Options{
		Region:          cfg.AWSRegion,
		Profile:         cfg.AWSProfile,
		Endpoint:        cfg.AWSEndpoint,
		Anonymous:       cfg.AWSAnonymous,
		AccessKeyID:     cfg.AWSAccessKeyID,
		SecretAccessKey: cfg.AWSSecretAccessKey,
		HTTPClient:      httpClient,
	}
}

// Source streams S3 objects with GetObject.
// Safe for concurrent use: the underlying SDK client is.
type Source struct {
	client *s3.Client
}

// NewSource loads the AWS configuration and creates an S3 source.
// The SDK's own retryer is limited to a single attempt.
func NewSource(ctx context.Context, opts Options) (*Source, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRetryMaxAttempts(1),
	}
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}
	if opts.Profile != "" {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(opts.Profile))
	}
	if opts.HTTPClient != nil {
		// Reuse the shared client so proxy settings and the connection pool apply
		loadOpts = append(loadOpts, awsconfig.WithHTTPClient(opts.HTTPClient))
	}

	switch {
	case opts.Anonymous:
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(aws.AnonymousCredentials{}))
	case opts.AccessKeyID != "":
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			awscreds.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	if awsCfg.Region == "" {
		awsCfg.Region = defaultRegion
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
		o.DisableLogOutputChecksumValidationSkipped = true
	})

	return &Source{client: client}, nil
}

// Scheme implements cloud.Source.
func (s *Source) Scheme() string {
	return cloud.SchemeS3
}

// Open implements cloud.Source.
func (s *Source) Open(ctx context.Context, locator string) (*cloud.Object, error) {
	bucket, key, err := ParseLocator(locator)
	if err != nil {
		return nil, err
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 GetObject s3://%s/%s: %w", bucket, key, err)
	}

	size := int64(-1)
	if out.ContentLength != nil && *out.ContentLength >= 0 {
		size = *out.ContentLength
	}
	return &cloud.Object{Body: out.Body, Size: size}, nil
}

// ParseLocator splits s3://bucket/key into bucket and key.
func ParseLocator(locator string) (bucket, key string, err error) {
	u, err := cloud.ParseLocator(locator)
	if err != nil {
		return "", "", err
	}
	if u.Scheme != cloud.SchemeS3 {
		return "", "", fmt.Errorf("not an s3 locator: %s", locator)
	}
	bucket, parts := cloud.SplitBucketPath(u)
	key = strings.Join(parts, "/")
	if key == "" {
		return "", "", fmt.Errorf("s3 locator %s has no object key", locator)
	}
	return bucket, key, nil
}

var _ cloud.Source = (*Source)(nil)
