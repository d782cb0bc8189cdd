// Package client implements the single-entry request executor every
// generated (or hand-written) service call goes through: credential
// resolution, request construction, signing, dispatch, decoding, and
// retry, plus the process-wide shutdown and debug-dump behavior layered
// on top of it.
package client

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httputil"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"github.com/teco-project/teco-core-sub000/credential"
	"github.com/teco-project/teco-core-sub000/future"
	"github.com/teco-project/teco-core-sub000/internal/idgen"
	"github.com/teco-project/teco-core-sub000/provider"
	"github.com/teco-project/teco-core-sub000/region"
	"github.com/teco-project/teco-core-sub000/request"
	"github.com/teco-project/teco-core-sub000/response"
	"github.com/teco-project/teco-core-sub000/retry"
	"github.com/teco-project/teco-core-sub000/serviceconfig"
	"github.com/teco-project/teco-core-sub000/signer"
	"github.com/teco-project/teco-core-sub000/tcerr"
)

// Logger is the cross-cutting structured logging contract the executor,
// the retry loop, and the credential providers it owns all log through.
type Logger = provider.Logger

// NopLogger discards every call, the default when a Client is
// constructed with no Logger option.
type NopLogger = provider.NopLogger

// Client is the executor every typed, generated service call (and the
// CommonRequest escape hatch) is built on top of.
type Client struct {
	config             *serviceconfig.Config
	credentialProvider provider.Provider
	httpClient         *http.Client
	ownsTransport      bool
	logger             Logger
	metrics            Metrics
	retryPolicy        retry.Policy
	mode               signer.Mode
	instanceID         string
	canBeShutdown      bool
	shutDown           int32
	debug              bool
}

// Option configures a Client at construction time.
type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc; c.ownsTransport = false }
}

func WithLogger(l Logger) Option {
	return func(c *Client) { c.logger = l }
}

func WithMetrics(m Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

func WithRetryPolicy(p retry.Policy) Option {
	return func(c *Client) { c.retryPolicy = p }
}

// WithSigningMode overrides the default (ModeDefault) signing mode
// applied whenever a call does not set SkipAuth.
func WithSigningMode(m signer.Mode) Option {
	return func(c *Client) { c.mode = m }
}

// WithCanBeShutdown controls whether Shutdown is permitted on this
// instance. It defaults to true; pass false for a process-wide shared
// client that must outlive any single caller's Shutdown call.
func WithCanBeShutdown(v bool) Option {
	return func(c *Client) { c.canBeShutdown = v }
}

// WithDebug toggles logging the outbound request and inbound response
// (headers and body) through the Logger's Trace level.
func WithDebug(v bool) Option {
	return func(c *Client) { c.debug = v }
}

// WithEnvOverrides folds process-wide environment configuration (debug,
// language, timeout) into the Client's config, leaving any
// already-applied option untouched so explicit options still win. A
// config language counts as explicit when non-empty, a config timeout
// when it differs from serviceconfig.DefaultTimeout.
func WithEnvOverrides(o *serviceconfig.EnvOverrides) Option {
	return func(c *Client) {
		if o.Debug {
			c.debug = true
		}
		var explicit serviceconfig.Patch
		if c.config.Language != "" {
			language := c.config.Language
			explicit.Language = &language
		}
		if c.config.Timeout != serviceconfig.DefaultTimeout {
			timeout := c.config.Timeout
			explicit.Timeout = &timeout
		}
		c.config = c.config.With(o.ApplyEnvOverrides(explicit))
	}
}

// New builds a Client bound to cfg and credProvider. The Client owns the
// default *http.Client it constructs (and will close its idle
// connections on Shutdown) unless WithHTTPClient supplies one.
func New(cfg *serviceconfig.Config, credProvider provider.Provider, opts ...Option) *Client {
	c := &Client{
		config:             cfg,
		credentialProvider: credProvider,
		httpClient:         &http.Client{Timeout: cfg.Timeout},
		ownsTransport:      true,
		logger:             NopLogger{},
		metrics:            NopMetrics{},
		retryPolicy:        retry.NewDefault(),
		mode:               signer.ModeDefault,
		instanceID:         idgen.NewClientID(),
		canBeShutdown:      true,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.ownsTransport {
		c.httpClient.Timeout = c.config.Timeout
	}
	return c
}

// Input is the per-call parameterization Execute and InvokeSTS share.
type Input struct {
	Action   string
	Path     string
	Region   region.Region
	Method   string
	Body     any
	SkipAuth bool
}

// Execute realizes §4.J's single-entry pipeline: allocate a request id,
// resolve a credential, build and sign the envelope, dispatch with
// retry, and decode the typed Output.
func Execute[Output any](ctx context.Context, c *Client, in Input) (Output, error) {
	var zero Output

	if atomic.LoadInt32(&c.shutDown) != 0 {
		return zero, tcerr.NewAlreadyShutDown()
	}

	method := in.Method
	if method == "" {
		method = "POST"
	}

	reqID := idgen.NextRequestID()
	start := time.Now()

	c.logger.Debug(ctx, "executing call", "tc-request-id", reqID, "tc-client-id", c.instanceID,
		"tc-service", c.config.Service, "tc-action", in.Action)

	cred, err := c.credentialProvider.GetCredential(ctx).Wait(ctx)
	if err != nil {
		c.metrics.IncErrors(c.config.Service, in.Action)
		return zero, errors.Wrap(err, "failed to resolve credential")
	}

	for attempt := 0; ; attempt++ {
		c.metrics.IncRequests(c.config.Service, in.Action)

		out, classified, done := attemptOnce[Output](ctx, c, cred, in, method)
		if done {
			c.metrics.ObserveDuration(c.config.Service, in.Action, time.Since(start))
			if classified.Err != nil {
				c.metrics.IncErrors(c.config.Service, in.Action)
				return zero, classified.Err
			}
			return out, nil
		}

		decision := c.retryPolicy.Decide(classified, attempt)
		if !decision.Retry {
			c.metrics.IncErrors(c.config.Service, in.Action)
			c.metrics.ObserveDuration(c.config.Service, in.Action, time.Since(start))
			return zero, classified.Err
		}

		c.logger.Debug(ctx, "retrying call", "tc-request-id", reqID, "attempt", attempt, "wait", decision.Wait)
		select {
		case <-time.After(decision.Wait):
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}
}

// attemptOnce runs exactly one HTTP round trip, returning the decoded
// payload and whether the pipeline is finished: done=true on success or
// on a failure the retry policy is never consulted for (request
// construction, signing), done=false for a classified, potentially
// retry-worthy transport or service failure.
func attemptOnce[Output any](ctx context.Context, c *Client, cred credential.Credential, in Input, method string) (Output, retry.Classified, bool) {
	var zero Output

	env, err := request.Build(request.Input{
		Action: in.Action,
		Path:   in.Path,
		Region: in.Region,
		Method: method,
		Body:   in.Body,
		Config: c.config,
	})
	if err != nil {
		return zero, retry.Classified{Err: err}, true
	}

	mode := c.mode
	if in.SkipAuth {
		mode = signer.ModeSkip
	}

	body := signer.EmptyBody()
	if len(env.Body) > 0 {
		body = signer.BytesBody(env.Body)
	}

	signed, err := signer.SignV3(signer.V3Input{
		URL:        env.URL,
		Method:     method,
		Headers:    env.Headers,
		Body:       body,
		Service:    c.config.Service,
		Mode:       mode,
		Date:       time.Now(),
		Credential: cred,
	})
	if err != nil {
		return zero, retry.Classified{Err: err}, true
	}
	env.Headers = signed

	httpReq, err := c.buildHTTPRequest(ctx, env)
	if err != nil {
		return zero, retry.Classified{Err: err}, true
	}

	attemptCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()
	httpReq = httpReq.WithContext(attemptCtx)

	c.dumpRequest(ctx, httpReq)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return zero, retry.Classified{Err: err, IsTransportErr: true, DebugBuild: c.debug}, false
	}
	c.dumpResponse(ctx, httpResp)

	val, err := response.Decode[Output](httpResp, c.config.ErrorTaxonomy)
	if err == nil {
		return val, retry.Classified{}, true
	}

	classified := retry.Classified{
		Err:        err,
		HTTPStatus: httpResp.StatusCode,
		Headers:    httpResp.Header,
	}
	return zero, classified, false
}

func (c *Client) buildHTTPRequest(ctx context.Context, env *request.Envelope) (*http.Request, error) {
	var body *bytes.Reader
	if len(env.Body) > 0 {
		body = bytes.NewReader(env.Body)
	} else {
		body = bytes.NewReader(nil)
	}
	httpReq, err := http.NewRequestWithContext(ctx, env.Method, env.URL, body)
	if err != nil {
		return nil, tcerr.NewInvalidURL(err.Error())
	}
	for k, v := range env.Headers {
		httpReq.Header.Set(k, v)
	}
	return httpReq, nil
}

func (c *Client) dumpRequest(ctx context.Context, req *http.Request) {
	if !c.debug {
		return
	}
	dump, err := httputil.DumpRequestOut(req, true)
	if err != nil {
		c.logger.Trace(ctx, "failed to dump request", "error", err.Error())
		return
	}
	c.logger.Trace(ctx, "outbound request", "dump", string(dump))
}

func (c *Client) dumpResponse(ctx context.Context, resp *http.Response) {
	if !c.debug {
		return
	}
	dump, err := httputil.DumpResponse(resp, true)
	if err != nil {
		c.logger.Trace(ctx, "failed to dump response", "error", err.Error())
		return
	}
	c.logger.Trace(ctx, "inbound response", "dump", string(dump))
}

// InvokeSTS implements provider.STSInvoker, letting an STS/OIDC
// credential provider drive this Client as its nested client without
// provider importing client. It calls the named action as a
// CommonRequest-shaped GET and flattens the typed JSON fields back into
// strings for the provider's own parsing.
func (c *Client) InvokeSTS(ctx context.Context, action string, params url.Values) (map[string]string, error) {
	body := make(map[string]string, len(params))
	for k := range params {
		body[k] = params.Get(k)
	}
	out, err := Execute[map[string]any](ctx, c, Input{
		Action: action,
		Method: "GET",
		Body:   body,
	})
	if err != nil {
		return nil, err
	}
	flat := make(map[string]string, len(out))
	for k, v := range out {
		if s, ok := v.(string); ok {
			flat[k] = s
		}
	}
	return flat, nil
}

// Shutdown realizes §4.J's idempotent shutdown sequence: tear down the
// credential provider, then (if this Client owns its HTTP transport)
// close idle connections, then report the credential provider's
// shutdown error, if any.
func (c *Client) Shutdown(ctx context.Context) *future.Future[struct{}] {
	if !c.canBeShutdown {
		return future.Resolved(struct{}{}, tcerr.NewShutdownUnsupported())
	}
	if !atomic.CompareAndSwapInt32(&c.shutDown, 0, 1) {
		return future.Resolved(struct{}{}, tcerr.NewAlreadyShutDown())
	}

	return future.Go(func() (struct{}, error) {
		_, err := c.credentialProvider.Shutdown(ctx).Wait(ctx)
		if c.ownsTransport {
			c.httpClient.CloseIdleConnections()
		}
		return struct{}{}, err
	})
}
