package constants

import (
	"time"
)

// Application identity
const (
	// AppName is the binary and root command name.
	AppName = "dataset-fetch"

	// EnvPrefix is the prefix for environment variables bound through viper
	// (e.g. DATASET_FETCH_OUTPUT_ROOT).
	EnvPrefix = "DATASET_FETCH"

	// CompletionMessage is printed once after every worker has finished.
	CompletionMessage = "All datasets saved to your existing directories!"
)

// Progress rendering
const (
	// ProgressPollInterval - how often an observer samples its transfer (100ms)
	ProgressPollInterval = 100 * time.Millisecond

	// ProgressBarWidth - width of the bar portion in characters
	ProgressBarWidth = 50
)

// Transfer settings
const (
	// CopyBufferSize - buffer size for streaming a body to disk (256 KB)
	CopyBufferSize = 256 * 1024

	// DiskSpaceSafetyMargin - multiplier applied to the expected size before
	// checking free space (5% buffer)
	DiskSpaceSafetyMargin = 1.05

	// DirPermissions - permissions for created destination directories
	DirPermissions = 0755
)

// Kaggle CLI
const (
	// KaggleBinary - default name of the external dataset tool
	KaggleBinary = "kaggle"

	// KaggleCredentialFile - file name the kaggle tool reads credentials from
	KaggleCredentialFile = "kaggle.json"

	// KaggleConfigDirEnv - environment variable that overrides ~/.kaggle
	KaggleConfigDirEnv = "KAGGLE_CONFIG_DIR"
)

// HTTP Client Timeouts
const (
	// HTTPIdleConnTimeout - how long to keep idle connections open (90 seconds)
	HTTPIdleConnTimeout = 90 * time.Second

	// HTTPTLSHandshakeTimeout - timeout for TLS handshake (60 seconds)
	HTTPTLSHandshakeTimeout = 60 * time.Second

	// HTTPExpectContinueTimeout - timeout for 100-continue response (1 second)
	HTTPExpectContinueTimeout = 1 * time.Second

	// HTTPDialTimeout - timeout for establishing connection (30 seconds)
	HTTPDialTimeout = 30 * time.Second

	// HTTPDialKeepAlive - keep-alive period for dialer (30 seconds)
	HTTPDialKeepAlive = 30 * time.Second

	// HTTPResponseHeaderTimeout - time to wait for response headers once the
	// request is written (2 minutes). Body streaming has no deadline.
	HTTPResponseHeaderTimeout = 2 * time.Minute
)
