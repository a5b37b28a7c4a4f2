package gtrans

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultReferer is sent with every request, as the web frontend does.
const DefaultReferer = "https://translate.google.com"

// Transport posts an encoded request to a service host.
type Transport interface {
	// Post sends form to rawURL with the given query parameters. Any HTTP
	// reply, whatever its status, is returned as a Response.
	Post(ctx context.Context, rawURL string, params, form url.Values) (*Response, error)

	// Close releases pooled connections.
	Close() error
}

// TransportConfig holds configuration for the default transport.
type TransportConfig struct {
	UserAgent  string        // User-Agent header (default: DefaultUserAgent)
	Referer    string        // Referer header (default: DefaultReferer)
	Timeout    time.Duration // Whole-request timeout (default: DefaultTimeout)
	HTTPClient *http.Client  // Underlying client (optional)
}

// RestyTransport is the default Transport, a resty client configured once
// and reused across calls.
type RestyTransport struct {
	client *resty.Client
}

// NewRestyTransport creates a transport with the given configuration.
func NewRestyTransport(cfg TransportConfig) *RestyTransport {
	var client *resty.Client
	if cfg.HTTPClient != nil {
		client = resty.NewWithClient(cfg.HTTPClient)
	} else {
		client = resty.New()
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	referer := cfg.Referer
	if referer == "" {
		referer = DefaultReferer
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	client.
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgent).
		SetHeader("Referer", referer)

	return &RestyTransport{client: client}
}

// Post implements Transport.
func (t *RestyTransport) Post(ctx context.Context, rawURL string, params, form url.Values) (*Response, error) {
	resp, err := t.client.R().
		SetContext(ctx).
		SetQueryParamsFromValues(params).
		SetFormDataFromValues(form).
		Post(rawURL)
	if err != nil {
		return nil, &TransportError{
			Message:   "post " + rawURL,
			Cause:     err,
			Retryable: isRetryableTransportError(err),
		}
	}

	return &Response{
		StatusCode: resp.StatusCode(),
		URL:        resp.Request.URL,
		Header:     resp.Header(),
		Body:       resp.String(),
	}, nil
}

// Close implements Transport.
func (t *RestyTransport) Close() error {
	t.client.GetClient().CloseIdleConnections()
	return nil
}

func isRetryableTransportError(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

// Verify RestyTransport implements Transport
var _ Transport = (*RestyTransport)(nil)
