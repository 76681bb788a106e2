package siumai

import (
	"net/http"
	"time"

	"github.com/siumai-go/siumai/internal/executor"
	"github.com/siumai-go/siumai/internal/middleware"
	"github.com/siumai-go/siumai/internal/types"
)

// Option configures a Client at construction time: a functional-options
// builder suited to a library entry point rather than a CLI flag set.
type Option func(*buildConfig)

type buildConfig struct {
	apiKey           string
	baseURL          string
	httpClient       *http.Client
	retry            *executor.RetryOptions
	interceptors     []executor.Interceptors
	middlewares      []middleware.Middleware
	streamMiddlewares []middleware.StreamMiddleware
	extraHeaders     map[string]string
	commonDefaults   types.CommonParams
	sep              string
}

// WithAPIKey overrides the registry's environment-variable credential
// lookup for this client.
func WithAPIKey(key string) Option {
	return func(c *buildConfig) { c.apiKey = key }
}

// WithBaseURL overrides the provider spec's default API origin.
func WithBaseURL(url string) Option {
	return func(c *buildConfig) { c.baseURL = url }
}

// WithHTTPClient installs a caller-supplied *http.Client (custom
// transport, proxy, connection pool tuning) in place of the default.
func WithHTTPClient(client *http.Client) Option {
	return func(c *buildConfig) { c.httpClient = client }
}

// WithRetry overrides the default RetryOptions the executor uses for
// non-streaming calls and pre-first-byte stream connections.
func WithRetry(opts executor.RetryOptions) Option {
	return func(c *buildConfig) { c.retry = &opts }
}

// WithHTTPInterceptor appends an Interceptors set to the executor's
// before_send/on_response/on_error chain.
func WithHTTPInterceptor(i executor.Interceptors) Option {
	return func(c *buildConfig) { c.interceptors = append(c.interceptors, i) }
}

// WithMiddleware appends a model-boundary middleware, outermost-first in
// the order the options were applied.
func WithMiddleware(m middleware.Middleware, sm middleware.StreamMiddleware) Option {
	return func(c *buildConfig) {
		c.middlewares = append(c.middlewares, m)
		c.streamMiddlewares = append(c.streamMiddlewares, sm)
	}
}

// WithDefaultParams installs default-value-injection middleware for any
// CommonParams field the caller leaves unset on a per-call basis.
func WithDefaultParams(p types.CommonParams) Option {
	return func(c *buildConfig) { c.commonDefaults = p }
}

// WithExtraHeader adds a header sent on every request unless the call
// itself overrides it via ChatRequest.HTTP.ExtraHeaders.
func WithExtraHeader(key, value string) Option {
	return func(c *buildConfig) {
		if c.extraHeaders == nil {
			c.extraHeaders = map[string]string{}
		}
		c.extraHeaders[key] = value
	}
}

// WithSeparator overrides the "provider:model" separator (default ":")
// New uses to split the identifier.
func WithSeparator(sep string) Option {
	return func(c *buildConfig) { c.sep = sep }
}

// WithTimeout sets the *http.Client's overall request timeout when no
// caller-supplied client was installed via WithHTTPClient.
func WithTimeout(d time.Duration) Option {
	return func(c *buildConfig) {
		if c.httpClient == nil {
			c.httpClient = &http.Client{}
		}
		c.httpClient.Timeout = d
	}
}
