package gtrans

import (
	"context"
	"math/rand/v2"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultTimeout bounds a whole request, reply body included.
	DefaultTimeout = 60 * time.Second

	// DefaultDestLang is used when no destination language is given.
	DefaultDestLang = "en"

	// DefaultUserAgent mimics a desktop browser.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// ClientTypeWeb and ClientTypeFallback label the default and the fallback host sets.
	ClientTypeWeb      = "tw-ob"
	ClientTypeFallback = "gtx"
)

var (
	// DefaultServiceURLs are the hosts requests go to by default.
	DefaultServiceURLs = []string{"translate.google.com"}

	// DefaultFallbackServiceURLs are used instead when WithFallback is set.
	DefaultFallbackServiceURLs = []string{"translate.googleapis.com"}
)

// Translator is anything that translates text between two languages.
// Client implements it; the retry and rate-limit wrappers decorate it.
type Translator interface {
	Translate(ctx context.Context, text, src, dest string) (*Translated, error)
}

// ResponseCache stores framed replies keyed by CacheKey.
type ResponseCache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key string, value string) error
}

// Client talks to the batchexecute endpoint. It is safe for concurrent use;
// every call keeps its payload, frame and parsed tree to itself.
type Client struct {
	serviceURLs    []string
	clientType     string
	userAgent      string
	raiseException bool
	timeout        time.Duration
	httpClient     *http.Client
	transport      Transport
	cache          ResponseCache
	logger         *logrus.Logger
}

// ClientOption is a functional option for configuring the Client.
type ClientOption func(*Client)

// WithServiceURLs sets the hosts to pick from. Each call picks one at random.
func WithServiceURLs(urls ...string) ClientOption {
	return func(c *Client) {
		if len(urls) > 0 {
			c.serviceURLs = append([]string(nil), urls...)
		}
	}
}

// WithFallback switches to the fallback host set and client type.
func WithFallback() ClientOption {
	return func(c *Client) {
		c.serviceURLs = append([]string(nil), DefaultFallbackServiceURLs...)
		c.clientType = ClientTypeFallback
	}
}

// WithUserAgent sets the User-Agent of the default transport.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithRaiseException controls whether a non-200 reply fails the call right
// away (the default). When disabled the body is framed anyway, which fails
// unless the host still sent a reply.
func WithRaiseException(raise bool) ClientOption {
	return func(c *Client) {
		c.raiseException = raise
	}
}

// WithTimeout sets the request timeout of the default transport.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithHTTPClient sets the http.Client the default transport is built on.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTransport replaces the default transport.
func WithTransport(t Transport) ClientOption {
	return func(c *Client) {
		c.transport = t
	}
}

// WithCache sets the response cache.
func WithCache(cache ResponseCache) ClientOption {
	return func(c *Client) {
		c.cache = cache
	}
}

// WithLogger sets the logger.
func WithLogger(logger *logrus.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a Client. Without options it sends requests to
// DefaultServiceURLs through a RestyTransport and fails on non-200 replies.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		serviceURLs:    append([]string(nil), DefaultServiceURLs...),
		clientType:     ClientTypeWeb,
		userAgent:      DefaultUserAgent,
		raiseException: true,
		timeout:        DefaultTimeout,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = logrus.New()
		c.logger.SetLevel(logrus.WarnLevel)
	}

	if c.transport == nil {
		c.transport = NewRestyTransport(TransportConfig{
			UserAgent:  c.userAgent,
			Timeout:    c.timeout,
			HTTPClient: c.httpClient,
		})
	}

	return c
}

// Translate translates text from src to dest. An empty src means AutoLang and
// an empty dest means DefaultDestLang. Language tags are resolved before any
// network I/O, so an unknown tag fails with *InvalidLanguageError without a
// request being sent.
func (c *Client) Translate(ctx context.Context, text, src, dest string) (*Translated, error) {
	if src == "" {
		src = AutoLang
	}
	if dest == "" {
		dest = DefaultDestLang
	}

	src, err := ResolveLanguage(src, RoleSource, true)
	if err != nil {
		return nil, err
	}
	dest, err = ResolveLanguage(dest, RoleDestination, false)
	if err != nil {
		return nil, err
	}

	log := c.logger.WithFields(logrus.Fields{
		"request_id":  uuid.NewString(),
		"src":         src,
		"dest":        dest,
		"text_length": len(text),
	})

	key := CacheKey(text, src, dest)
	if c.cache != nil {
		if framed, ok := c.cache.Get(ctx, key); ok {
			result, err := DecodeResponse(framed, text, src, dest)
			if err == nil {
				cacheLookupsTotal.WithLabelValues("hit").Inc()
				log.Debug("Serving translation from cache")
				return result, nil
			}
			log.WithError(err).Warn("Discarding undecodable cache entry")
		}
		cacheLookupsTotal.WithLabelValues("miss").Inc()
	}

	resp, err := c.post(ctx, text, src, dest, log)
	if err != nil {
		return nil, err
	}

	framed, err := FrameResponse(resp.Body)
	if err != nil {
		decodeErrorsTotal.WithLabelValues(decodeErrorKind(err)).Inc()
		log.WithError(err).WithField("status_code", resp.StatusCode).Warn("Reply could not be framed")
		return nil, err
	}

	result, err := DecodeResponse(framed, text, src, dest)
	if err != nil {
		decodeErrorsTotal.WithLabelValues(decodeErrorKind(err)).Inc()
		log.WithError(err).Warn("Reply could not be decoded")
		return nil, err
	}
	result.Response = resp

	if c.cache != nil && resp.StatusCode == http.StatusOK {
		if err := c.cache.Set(ctx, key, framed); err != nil {
			log.WithError(err).Warn("Caching reply failed")
		}
	}

	log.WithFields(logrus.Fields{
		"detected_src":  result.Src,
		"result_length": len(result.Text),
		"parts":         len(result.Parts),
	}).Debug("Translation decoded")

	return result, nil
}

// post sends one encoded request to a picked host.
func (c *Client) post(ctx context.Context, text, src, dest string, log *logrus.Entry) (*Response, error) {
	host := c.pickServiceURL()

	form, err := RequestForm(text, src, dest)
	if err != nil {
		return nil, err
	}

	log = log.WithFields(logrus.Fields{
		"host":        host,
		"client_type": c.clientType,
	})
	log.Debug("Posting translation request")

	start := time.Now()
	resp, err := c.transport.Post(ctx, RPCURL(host), RequestParams(), form)
	duration := time.Since(start)
	requestDuration.WithLabelValues(host).Observe(duration.Seconds())

	if err != nil {
		requestsTotal.WithLabelValues(host, "error").Inc()
		log.WithError(err).Warn("Translation request failed")
		return nil, err
	}
	requestsTotal.WithLabelValues(host, strconv.Itoa(resp.StatusCode)).Inc()

	log = log.WithFields(logrus.Fields{
		"status_code": resp.StatusCode,
		"duration_ms": duration.Milliseconds(),
		"body_length": len(resp.Body),
	})

	if resp.StatusCode != http.StatusOK {
		if c.raiseException {
			log.Warn("Unexpected status code")
			return nil, &UnexpectedStatusError{StatusCode: resp.StatusCode, Host: host}
		}
		log.Warn("Unexpected status code, framing reply anyway")
		return resp, nil
	}

	log.Debug("Translation request completed")
	return resp, nil
}

// pickServiceURL returns the only host, or a uniformly random one.
func (c *Client) pickServiceURL() string {
	if len(c.serviceURLs) == 1 {
		return c.serviceURLs[0]
	}
	return c.serviceURLs[rand.IntN(len(c.serviceURLs))]
}

// Detect detects the language of text. See the package-level Detect.
func (c *Client) Detect(ctx context.Context, text string) (*Detected, error) {
	return Detect(ctx, c, text)
}

// ServiceURLs returns the configured hosts.
func (c *Client) ServiceURLs() []string {
	return append([]string(nil), c.serviceURLs...)
}

// ClientType returns the client type label of the configured host set.
func (c *Client) ClientType() string {
	return c.clientType
}

// RaiseException reports whether non-200 replies fail immediately.
func (c *Client) RaiseException() bool {
	return c.raiseException
}

// Close releases the transport's connections. The Client must not be used
// afterwards.
func (c *Client) Close() error {
	return c.transport.Close()
}

// Verify Client implements Translator
var _ Translator = (*Client)(nil)
