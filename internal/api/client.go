// Package api is the typed wrapper around the remote Holidaze REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/robertarktes/holidaze-gateway/internal/observability"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

const (
	APIKeyHeader = "X-Noroff-API-Key"
	holidazePath = "/holidaze"
	maxBodyBytes = 4 << 20

	// DefaultBurst lets a handler fan out a few calls at once before the
	// sustained rate applies.
	DefaultBurst = 10
)

type Config struct {
	BaseURL    string
	Timeout    time.Duration // zero leaves the transport defaults in place
	RatePerSec float64       // zero disables throttling
	Burst      int           // zero means DefaultBurst
	HTTPClient *http.Client
}

// Credentials authenticate a call. Exempt endpoints ignore them.
type Credentials struct {
	AccessToken string
	APIKey      string
}

type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	creds   Credentials
	logger  observability.Logger
}

func New(cfg Config, logger observability.Logger) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	c := &Client{baseURL: cfg.BaseURL, http: hc, logger: logger}
	if cfg.RatePerSec > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = DefaultBurst
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSec), burst)
	}
	return c
}

// With returns a copy of the client that sends creds on authenticated calls.
func (c *Client) With(creds Credentials) *Client {
	cp := *c
	cp.creds = creds
	return &cp
}

type Meta struct {
	IsFirstPage  bool `json:"isFirstPage"`
	IsLastPage   bool `json:"isLastPage"`
	CurrentPage  int  `json:"currentPage"`
	PreviousPage *int `json:"previousPage"`
	NextPage     *int `json:"nextPage"`
	PageCount    int  `json:"pageCount"`
	TotalCount   int  `json:"totalCount"`
}

type envelope struct {
	Data json.RawMessage `json:"data"`
	Meta *Meta           `json:"meta"`
}

type call struct {
	method string
	path   string
	query  url.Values
	body   any
	auth   bool
}

// do performs one request/response round trip. It reports whether the
// response carried a payload; empty and unparseable bodies count as no data.
func (c *Client) do(ctx context.Context, cl call, out any) (bool, *Meta, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return false, nil, transportError(err)
		}
	}

	ctx, span := otel.Tracer("holidaze/api").Start(ctx, cl.method+" "+cl.path, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("http.method", cl.method),
		attribute.String("http.route", cl.path),
	)

	req, err := c.newRequest(ctx, cl)
	if err != nil {
		return false, nil, errors.Wrapf(err, "build %s %s", cl.method, cl.path)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	start := time.Now()
	resp, err := c.http.Do(req)
	observability.APICallDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		observability.APICallsTotal.WithLabelValues(cl.method, "error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport")
		c.logger.WithError(err).WithField("path", cl.path).Warn("holidaze api unreachable")
		return false, nil, transportError(err)
	}
	defer resp.Body.Close()

	observability.APICallsTotal.WithLabelValues(cl.method, strconv.Itoa(resp.StatusCode)).Inc()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	var body []byte
	if resp.StatusCode != http.StatusNoContent && resp.ContentLength != 0 {
		body, err = io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return false, nil, transportError(err)
		}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := decodeError(resp.StatusCode, body)
		span.SetStatus(codes.Error, apiErr.Message)
		return false, nil, apiErr
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return false, nil, nil
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		c.logger.WithField("path", cl.path).Debug("ignoring non-json response body")
		return false, nil, nil
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return false, env.Meta, nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		c.logger.WithError(err).WithField("path", cl.path).Debug("ignoring malformed response data")
		return false, env.Meta, nil
	}
	return true, env.Meta, nil
}

func (c *Client) newRequest(ctx context.Context, cl call) (*http.Request, error) {
	u := c.baseURL + cl.path
	if len(cl.query) > 0 {
		u += "?" + cl.query.Encode()
	}

	var body io.Reader
	if cl.body != nil {
		payload, err := json.Marshal(cl.body)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, u, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if cl.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cl.auth {
		if c.creds.AccessToken != "" {
			req.Header.Set("Authorization", "Bearer "+c.creds.AccessToken)
		}
		if c.creds.APIKey != "" {
			req.Header.Set(APIKeyHeader, c.creds.APIKey)
		}
	}
	return req, nil
}
