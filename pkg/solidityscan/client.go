package solidityscan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"contractscanner/pkg/logger"
	"contractscanner/pkg/serrors"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

const (
	// DefaultBaseURL is the public SolidityScan API.
	DefaultBaseURL = "https://api.solidityscan.com"
	// DefaultTimeout bounds a single attempt.
	DefaultTimeout = 60 * time.Second
	// DefaultMaxAttempts is the total number of attempts, the first included.
	DefaultMaxAttempts = 3
	// DefaultInitialBackoff is the delay before the second attempt; it doubles afterwards.
	DefaultInitialBackoff = 5 * time.Second

	// maxDiagnosticChars caps how much of a failed response body is kept.
	maxDiagnosticChars = 1000
)

// Options configure the Client. Zero values fall back to the defaults above.
type Options struct {
	// BaseURL is the scheme and host of the API, without a trailing slash.
	BaseURL string
	// Token is the API key presented as "Authorization: Token <key>".
	Token string
	// Timeout bounds each attempt. It is applied to the http.Client when the
	// client passed to New has no timeout of its own.
	Timeout time.Duration
	// MaxAttempts is the total number of attempts for timed out requests.
	MaxAttempts int
	// InitialBackoff is the delay before the first retry.
	InitialBackoff time.Duration
}

func (o Options) withDefaults() Options {
	if o.BaseURL == "" {
		o.BaseURL = DefaultBaseURL
	}
	o.BaseURL = strings.TrimRight(o.BaseURL, "/")
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = DefaultMaxAttempts
	}
	if o.InitialBackoff <= 0 {
		o.InitialBackoff = DefaultInitialBackoff
	}

	return o
}

// Client talks to the SolidityScan REST API and fulfills the Caller
// interface. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	opts       Options
}

// Ensure Client conforms to the Caller interface at compile time.
var _ Caller = (*Client)(nil)

// New constructs a Client. A nil httpClient is replaced by one using
// opts.Timeout; a client without a timeout gets a shallow copy carrying it.
func New(httpClient *http.Client, opts Options) *Client {
	opts = opts.withDefaults()

	switch {
	case httpClient == nil:
		httpClient = &http.Client{Timeout: opts.Timeout}
	case httpClient.Timeout == 0:
		cp := *httpClient
		cp.Timeout = opts.Timeout
		httpClient = &cp
	}

	return &Client{httpClient: httpClient, opts: opts}
}

// HasToken reports whether an API key is configured.
func (c *Client) HasToken() bool { return c.opts.Token != "" }

// NewBackoff returns the retry policy: exponential from initial, doubling
// after every retry, allowing maxAttempts attempts in total.
func NewBackoff(initial time.Duration, maxAttempts int) retry.Backoff {
	retries := 0
	if maxAttempts > 1 {
		retries = maxAttempts - 1
	}

	return retry.WithMaxRetries(uint64(retries), retry.NewExponential(initial)) //nolint: gosec
}

// IsTimeout reports whether err is a transport level timeout.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error

	return errors.As(err, &ne) && ne.Timeout()
}

// Get sends a GET request for path. Only transport timeouts are retried; a
// received status other than 200 or any other transport error ends the call
// immediately.
func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	target := c.opts.BaseURL + path
	ctx = logger.WithFields(ctx, zap.String("url", target))

	attempts := 0
	var resp *http.Response

	err := retry.Do(ctx, c.loggedBackoff(ctx), func(ctx context.Context) error {
		attempts++

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return fmt.Errorf("could not create request: %w", err)
		}
		req.Header.Set("Authorization", "Token "+c.opts.Token)
		req.Header.Set("Content-Type", "application/json")

		logger.Debug(ctx, "sending request", zap.Int("attempt", attempts))
		r, err := c.httpClient.Do(req)
		if err != nil {
			if IsTimeout(err) && ctx.Err() == nil {
				return retry.RetryableError(err)
			}

			return err
		}
		resp = r

		return nil
	})
	if err != nil {
		if IsTimeout(err) && ctx.Err() == nil {
			logger.Error(ctx, "request timed out on every attempt", zap.Int("attempts", attempts))

			return nil, serrors.Wrap(serrors.ErrTransport, err, "API request timed out after multiple attempts").
				WithDiagnostic("Request timeout")
		}

		logger.Error(ctx, "request failed", zap.Error(err))

		return nil, serrors.With(serrors.ErrTransport, "API request error: %s", err.Error()).
			WithDiagnostic(err.Error())
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	b, readErr := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		diagnostic := "Unknown error"
		if readErr == nil && len(b) > 0 {
			diagnostic = truncate(string(b), maxDiagnosticChars)
		}
		logger.Warn(ctx, "unexpected status code", zap.Int("statusCode", resp.StatusCode))

		return nil, serrors.With(serrors.ErrUpstream, "API request failed with status code %d", resp.StatusCode).
			WithDiagnostic(diagnostic)
	}
	if readErr != nil {
		return nil, serrors.With(serrors.ErrTransport, "API request error: could not read response body: %s",
			readErr.Error()).WithDiagnostic(readErr.Error())
	}

	return &Response{StatusCode: resp.StatusCode, Body: b, Attempts: attempts}, nil
}

// loggedBackoff wraps a fresh retry policy so every scheduled retry is logged.
func (c *Client) loggedBackoff(ctx context.Context) retry.Backoff {
	b := NewBackoff(c.opts.InitialBackoff, c.opts.MaxAttempts)

	return retry.BackoffFunc(func() (time.Duration, bool) {
		delay, stop := b.Next()
		if !stop {
			logger.Warn(ctx, "request timed out, retrying", zap.Duration("delay", delay))
		}

		return delay, stop
	})
}

// truncate returns the first n characters of s.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}

	return s
}
