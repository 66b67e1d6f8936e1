package talent

import (
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const (
	DefaultAPIURL  = "https://hackethon-0bcf0c236f6f.herokuapp.com"
	defaultTimeout = 30 * time.Second
	userAgent      = "spigell/talent-matcher"

	defaultMaxLogLength = 200
)

// TokenSource supplies the bearer token attached to every request.
// An empty token means the request is sent unauthenticated.
type TokenSource interface {
	Token() string
}

// StaticToken is a TokenSource that always returns the same value.
type StaticToken string

func (t StaticToken) Token() string { return string(t) }

type Client struct {
	tokens TokenSource
	logger *zap.Logger

	HTTPClient   *http.Client
	UserAgent    string
	APIURL       string
	MaxLogLength int
}

// New returns a client for the resume matching service.
// A non-positive timeout falls back to 30 seconds.
func New(logger *zap.Logger, tokens TokenSource, timeout time.Duration) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if tokens == nil {
		tokens = StaticToken("")
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		tokens: tokens,
		logger: logger,
		HTTPClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		UserAgent:    userAgent,
		APIURL:       DefaultAPIURL,
		MaxLogLength: defaultMaxLogLength,
	}
}

func (c *Client) baseURL() string {
	return strings.TrimRight(c.APIURL, "/")
}
