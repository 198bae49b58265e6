package http

import (
	"fmt"
	nethttp "net/http"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/rescale/dataset-fetch/internal/logging"
)

// StatusError is returned when a source answers with a non-2xx status.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %s", e.URL, e.Status)
}

// CheckStatus returns a *StatusError for any non-2xx response.
func CheckStatus(resp *nethttp.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	return &StatusError{
		URL:        resp.Request.URL.Redacted(),
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
	}
}

// retryLogger implements the retryablehttp.LeveledLogger interface on top of
// the console logger. Everything below error is debug-only.
type retryLogger struct {
	logger *logging.Logger
}

func (l *retryLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error().Fields(keysAndValues).Msg(msg)
}

func (l *retryLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l *retryLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l *retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn().Fields(keysAndValues).Msg(msg)
}

// NewFetchClient wraps base in a retryablehttp client configured for a
// single attempt per request. Failed fetches are reported, never retried.
// Redirects are followed by the returned standard client. Non-2xx
// responses are passed through so callers can classify them with CheckStatus.
func NewFetchClient(base *nethttp.Client, logger *logging.Logger) *nethttp.Client {
	if base == nil {
		base = &nethttp.Client{}
	}

	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient = base
	retryClient.RetryMax = 0
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	if logger != nil {
		retryClient.Logger = &retryLogger{logger: logger}
	} else {
		retryClient.Logger = nil
	}

	client := retryClient.StandardClient()
	client.CheckRedirect = base.CheckRedirect
	return client
}
