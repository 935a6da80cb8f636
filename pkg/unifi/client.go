package unifi

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/TeknoVenus/unifi-go/internal/common/apperrors"
)

const loginPath = "/api/login"

// Client is a session-authenticated client for a UniFi Network controller.
// It owns the session cookie jar, attaches the CSRF token when one is
// available, and transparently reauthenticates when the controller reports
// an expired session.
//
// One Client may serve independent concurrent calls, but session updates are
// last-writer-wins with no internal locking; see the package documentation.
type Client struct {
	baseURL      *url.URL
	username     string
	password     string
	session      *sessionState
	httpClient   *http.Client // follows redirects; envelope endpoints
	uploadClient *http.Client // redirects disabled so login redirects stay observable
	logger       zerolog.Logger
}

type clientOptions struct {
	insecureTLS bool
	timeout     time.Duration
	logger      *zerolog.Logger
}

// Option configures a Client.
type Option func(*clientOptions)

// WithInsecureTLS skips TLS certificate validation. Most controllers ship
// with a self-signed certificate, so this is commonly needed.
func WithInsecureTLS() Option {
	return func(o *clientOptions) {
		o.insecureTLS = true
	}
}

// WithTimeout sets the per-request timeout on the underlying HTTP clients.
// Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *clientOptions) {
		o.timeout = d
	}
}

// WithLogger sets the logger used for request tracing. The default discards
// all output.
func WithLogger(l zerolog.Logger) Option {
	return func(o *clientOptions) {
		o.logger = &l
	}
}

// New creates a client for the controller at baseURL. The credentials are
// held for the lifetime of the client and used whenever a login is needed;
// no login is performed up front.
func New(baseURL, username, password string, opts ...Option) (*Client, error) {
	var options clientOptions
	for _, opt := range opts {
		opt(&options)
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid controller URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("controller URL must include scheme and host: %q", baseURL)
	}

	session, err := newSessionState()
	if err != nil {
		return nil, fmt.Errorf("unable to create cookie jar: %w", err)
	}

	transport := http.DefaultTransport
	if options.insecureTLS {
		transport = &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: true,
			},
		}
	}

	logger := zerolog.Nop()
	if options.logger != nil {
		logger = *options.logger
	}

	return &Client{
		baseURL:  u,
		username: username,
		password: password,
		session:  session,
		httpClient: &http.Client{
			Transport: transport,
			Jar:       session.jar,
			Timeout:   options.timeout,
		},
		uploadClient: &http.Client{
			Transport: transport,
			Jar:       session.jar,
			Timeout:   options.timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		logger: logger,
	}, nil
}

// BaseURL returns the controller base URL the client was created with.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// HasSession reports whether any session cookies are held for the
// controller host. It does not validate them against the controller.
func (c *Client) HasSession() bool {
	return c.session.hasCookies(c.baseURL)
}

// request describes one API call.
type request struct {
	method string
	path   string
	body   any // JSON body, only for POST/PUT
}

func (c *Client) newRequest(ctx context.Context, r request) (*http.Request, error) {
	u := *c.baseURL
	u.Path = path.Join(u.Path, r.path)

	var bodyReader io.Reader
	if r.body != nil {
		b, err := encodeBody(r.body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u.String(), bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Referer", c.baseURL.String())
	// Best effort: when the cookie is absent the header is simply omitted.
	if token := c.session.csrfToken(c.baseURL); token != "" {
		req.Header.Set(csrfHeaderName, token)
	}
	return req, nil
}

// execute sends one request and decodes the envelope. Cookie updates happen
// through the shared jar on every response.
func execute[T any](ctx context.Context, c *Client, r request) (Envelope[T], error) {
	req, err := c.newRequest(ctx, r)
	if err != nil {
		return Envelope[T]{}, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Envelope[T]{}, ErrTransport.MsgErr("request failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Envelope[T]{}, ErrTransport.MsgErr("unable to read response body", err)
	}

	env, err := decodeEnvelope[T](raw)
	if err != nil {
		if ae, ok := err.(apperrors.Error); ok {
			return Envelope[T]{}, ae.SetStatusCode(resp.StatusCode)
		}
		return Envelope[T]{}, err
	}
	return env, nil
}

// do issues the request, reauthenticating and retrying exactly once when the
// controller reports an expired session. Bounding the retry keeps a
// controller that always reports expiry from causing unbounded logins; in
// that case the second envelope goes back to the caller untouched.
func do[T any](ctx context.Context, c *Client, r request) (Envelope[T], error) {
	oplog := c.logger.With().
		Str("op_id", uuid.NewString()).
		Str("method", r.method).
		Str("path", r.path).
		Logger()

	oplog.Debug().Msg("issuing request")
	env, err := execute[T](ctx, c, r)
	if err != nil {
		return env, err
	}
	if !env.Meta.LoginRequired() {
		return env, nil
	}

	oplog.Info().Msg("session expired, reauthenticating")
	if err := c.Authenticate(ctx); err != nil {
		return Envelope[T]{}, err
	}

	oplog.Debug().Msg("retrying request")
	return execute[T](ctx, c, r)
}

// Do issues an API call and returns the decoded envelope. Most callers want
// GetOne or GetMany instead; Do is for callers that need the envelope
// metadata itself.
func Do[T any](ctx context.Context, c *Client, method, apiPath string, body any) (Envelope[T], error) {
	return do[T](ctx, c, request{method: method, path: apiPath, body: body})
}

// GetOne issues an API call expected to yield a single object. When the
// envelope carries data the first item is returned; when it reports an error
// the call fails with ErrAPI carrying the controller's message; otherwise
// the zero value is returned without error — some write endpoints
// legitimately return no data on success.
func GetOne[T any](ctx context.Context, c *Client, method, apiPath string, body any) (T, error) {
	env, err := do[T](ctx, c, request{method: method, path: apiPath, body: body})
	if err != nil {
		var zero T
		return zero, err
	}
	if item, ok := env.First(); ok {
		return item, nil
	}
	var zero T
	if !env.Meta.OK() {
		return zero, ErrAPI.Msg(env.Meta.Message)
	}
	return zero, nil
}

// GetMany issues an API call expected to yield a collection. The data
// sequence is returned verbatim: an absent data field yields an empty slice
// and error metadata is ignored, so list callers see an empty result rather
// than a failure.
func GetMany[T any](ctx context.Context, c *Client, method, apiPath string, body any) ([]T, error) {
	env, err := do[T](ctx, c, request{method: method, path: apiPath, body: body})
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

// Exec issues an API call whose response data is discarded. The envelope
// metadata is still honored: an error result fails with ErrAPI.
func (c *Client) Exec(ctx context.Context, method, apiPath string, body any) error {
	_, err := GetOne[json.RawMessage](ctx, c, method, apiPath, body)
	return err
}

// loginRequest is the body for POST /api/login. Remember and strict always
// carry the values the controller UI sends.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`
	Strict   bool   `json:"strict"`
}

// Authenticate logs in to the controller, establishing the session cookie
// and CSRF token for subsequent calls. It runs automatically when a request
// reports an expired session, but may be called directly to validate
// credentials up front. A failed login is never retried.
func (c *Client) Authenticate(ctx context.Context) error {
	body := loginRequest{
		Username: c.username,
		Password: c.password,
		Remember: false,
		Strict:   true,
	}
	env, err := execute[json.RawMessage](ctx, c, request{method: http.MethodPost, path: loginPath, body: body})
	if err != nil {
		return ErrAuthentication.Err(err)
	}
	if !env.Meta.OK() {
		return ErrAuthentication.Msg("login rejected by controller: " + env.Meta.Message)
	}
	c.logger.Debug().Str("user", c.username).Msg("authenticated with controller")
	return nil
}
