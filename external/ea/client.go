// Package ea is the EA Sports NHL Pro Clubs gateway.
package ea

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/Ardidini12/XBHL/internal/platform/logging"
	"github.com/Ardidini12/XBHL/internal/platform/resilience"
	"github.com/Ardidini12/XBHL/internal/usecase"
)

const (
	DefaultBaseURL           = "https://proclubs.ea.com/api/nhl"
	DefaultPlatform          = "common-gen5"
	DefaultMatchType         = "club_private"
	DefaultTimeout           = 15 * time.Second
	DefaultRequestsPerMinute = 120
	DefaultRetryBackoff      = time.Second
	maxResponseBytes         = 8 << 20
)

var (
	errTransient = crerr.New("ea transient failure")
	errRejected  = crerr.New("ea rejected request")
)

// browserHeaders are sent on every request; the provider refuses clients
// that do not look like its own web frontend.
var browserHeaders = [][2]string{
	{"sec-ch-ua-platform", `"Windows"`},
	{"User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/139.0.0.0 Safari/537.36"},
	{"Accept", "application/json"},
	{"sec-ch-ua", `"Not;A=Brand";v="99", "Google Chrome";v="139", "Chromium";v="139"`},
	{"Content-Type", "application/json"},
	{"sec-ch-ua-mobile", "?0"},
	{"Origin", "https://www.ea.com"},
	{"sec-fetch-site", "same-site"},
	{"sec-fetch-mode", "cors"},
	{"sec-fetch-dest", "empty"},
	{"Referer", "https://www.ea.com/"},
	{"Accept-Language", "en-US,en;q=0.9"},
	{"priority", "u=1, i"},
}

type ClientConfig struct {
	HTTPClient        *fasthttp.Client
	BaseURL           string
	Platform          string
	MatchType         string
	Timeout           time.Duration
	RequestsPerMinute int
	MaxRetries        int
	RetryBackoff      time.Duration
	Logger            *logging.Logger
	CircuitBreaker    resilience.CircuitBreakerConfig
}

// Client implements usecase.MatchGateway against the public Pro Clubs API.
// Provider faults are logged and reported as empty results; only an open
// circuit or a cancelled context is returned as an error.
type Client struct {
	http      *fasthttp.Client
	baseURL   string
	host      string
	platform  string
	matchType string
	timeout   time.Duration
	retries   int
	backoff   time.Duration
	limiter   *rate.Limiter
	breaker   *resilience.CircuitBreaker
	flight    singleflight.Group
	logger    *logging.Logger
}

var _ usecase.MatchGateway = (*Client)(nil)

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.With("component", "ea_gateway")

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	host := ""
	if parsed, err := url.Parse(baseURL); err == nil {
		host = parsed.Host
	}
	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = DefaultRetryBackoff
	}
	perMinute := cfg.RequestsPerMinute
	if perMinute <= 0 {
		perMinute = DefaultRequestsPerMinute
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &fasthttp.Client{
			Name:                          "xbhl",
			ReadTimeout:                   timeout,
			WriteTimeout:                  timeout,
			MaxResponseBodySize:           maxResponseBytes,
			NoDefaultUserAgentHeader:      true,
			DisableHeaderNamesNormalizing: true,
		}
	}

	breaker := resilience.NewCircuitBreaker(resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker))
	breaker.OnStateChange(func(from, to resilience.CircuitState) {
		logger.Warn("ea circuit breaker changed state", "from", string(from), "to", string(to))
	})

	return &Client{
		http:      httpClient,
		baseURL:   baseURL,
		host:      host,
		platform:  firstNonEmpty(cfg.Platform, DefaultPlatform),
		matchType: firstNonEmpty(cfg.MatchType, DefaultMatchType),
		timeout:   timeout,
		retries:   max(cfg.MaxRetries, 0),
		backoff:   backoff,
		limiter:   rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), 1),
		breaker:   breaker,
		logger:    logger,
	}
}

// ResolveClubID searches clubs by name and returns the first hit in
// response order.
func (c *Client) ResolveClubID(ctx context.Context, clubName string) (string, bool, error) {
	clubName = strings.TrimSpace(clubName)
	if clubName == "" {
		return "", false, nil
	}

	raw, err := c.get(ctx, "/clubs/search", [][2]string{
		{"platform", c.platform},
		{"clubName", clubName},
	})
	if err != nil {
		if hard := c.hardError(ctx, err); hard != nil {
			return "", false, hard
		}
		c.logger.WarnContext(ctx, "ea club search failed", "club_name", clubName, "error", err)
		return "", false, nil
	}

	id, ok, err := firstClubID(raw)
	if err != nil {
		c.logger.WarnContext(ctx, "ea club search returned unexpected payload", "club_name", clubName, "error", err)
		return "", false, nil
	}
	return id, ok, nil
}

// FetchMatches returns the recent matches of a club. Matches whose payload
// is not an object are dropped and logged.
func (c *Client) FetchMatches(ctx context.Context, clubEAID string) ([]usecase.ExternalMatch, error) {
	clubEAID = strings.TrimSpace(clubEAID)
	if clubEAID == "" {
		return []usecase.ExternalMatch{}, nil
	}

	raw, err := c.get(ctx, "/clubs/matches", [][2]string{
		{"matchType", c.matchType},
		{"platform", c.platform},
		{"clubIds", clubEAID},
	})
	if err != nil {
		if hard := c.hardError(ctx, err); hard != nil {
			return nil, hard
		}
		c.logger.WarnContext(ctx, "ea match fetch failed", "club_ea_id", clubEAID, "error", err)
		return []usecase.ExternalMatch{}, nil
	}

	var items []json.RawMessage
	if err := sonic.Unmarshal(raw, &items); err != nil {
		c.logger.WarnContext(ctx, "ea match list is not an array", "club_ea_id", clubEAID, "error", err)
		return []usecase.ExternalMatch{}, nil
	}

	out := make([]usecase.ExternalMatch, 0, len(items))
	for i, item := range items {
		parsed, err := ParseMatch(item)
		if err != nil {
			c.logger.WarnContext(ctx, "ea match skipped", "club_ea_id", clubEAID, "index", i, "error", err)
			continue
		}
		out = append(out, parsed)
	}
	return out, nil
}

// hardError returns the error the caller must see, or nil when err is a
// provider fault to swallow.
func (c *Client) hardError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if errors.Is(err, resilience.ErrCircuitOpen) {
		return fmt.Errorf("%w: ea provider circuit is open", usecase.ErrDependencyUnavailable)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, params [][2]string) ([]byte, error) {
	uri := c.buildURI(path, params)
	out, err, _ := c.flight.Do(uri, func() (any, error) {
		var body []byte
		err := c.breaker.Do(ctx, func(ctx context.Context) error {
			var reqErr error
			body, reqErr = c.executeWithRetry(ctx, uri)
			return reqErr
		}, isCircuitFailure)
		return body, err
	})
	if err != nil {
		return nil, err
	}
	body, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}
	return body, nil
}

// executeWithRetry repeats transient failures up to c.retries times with a
// linear backoff. Rejected requests return immediately.
func (c *Client) executeWithRetry(ctx context.Context, uri string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
		body, err := c.execute(ctx, uri)
		if err == nil {
			return body, nil
		}
		if !errors.Is(err, errTransient) {
			return nil, err
		}
		lastErr = err

		if attempt == c.retries {
			break
		}
		c.logger.DebugContext(ctx, "ea request retrying", "attempt", attempt+1, "error", err)
		timer := time.NewTimer(time.Duration(attempt+1) * c.backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	return nil, lastErr
}

func (c *Client) execute(ctx context.Context, uri string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(uri)
	req.Header.SetMethod(fasthttp.MethodGet)
	if c.host != "" {
		req.Header.Set("Host", c.host)
	}
	for _, h := range browserHeaders {
		req.Header.Set(h[0], h[1])
	}

	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, crerr.Wrapf(errTransient, "send request: %v", err)
	}

	status := resp.StatusCode()
	body := append([]byte(nil), resp.Body()...)
	switch {
	case status >= 200 && status < 300:
		return body, nil
	case status == fasthttp.StatusTooManyRequests || status >= 500:
		return nil, crerr.Wrapf(errTransient, "provider status=%d body=%s", status, abbreviate(body))
	default:
		return nil, crerr.Wrapf(errRejected, "provider status=%d body=%s", status, abbreviate(body))
	}
}

func (c *Client) buildURI(path string, params [][2]string) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString(c.baseURL)
	_, _ = buf.WriteString(path)
	for i, p := range params {
		if i == 0 {
			_ = buf.WriteByte('?')
		} else {
			_ = buf.WriteByte('&')
		}
		_, _ = buf.WriteString(url.QueryEscape(p[0]))
		_ = buf.WriteByte('=')
		_, _ = buf.WriteString(url.QueryEscape(p[1]))
	}
	return buf.String()
}

// firstClubID reads the search response, an object keyed by club id, and
// returns the first entry in document order. A clubId field inside the
// entry wins over its key.
func firstClubID(raw []byte) (string, bool, error) {
	iter := jsoniter.ConfigFastest.BorrowIterator(raw)
	defer jsoniter.ConfigFastest.ReturnIterator(iter)

	switch iter.WhatIsNext() {
	case jsoniter.ObjectValue:
	case jsoniter.NilValue, jsoniter.ArrayValue:
		// The provider answers [] or null when nothing matches.
		return "", false, nil
	default:
		return "", false, fmt.Errorf("club search payload is not an object")
	}

	key := iter.ReadObject()
	if key == "" {
		return "", false, iter.Error
	}
	var entry map[string]any
	iter.ReadVal(&entry)
	if iter.Error != nil {
		return "", false, fmt.Errorf("decode club search entry: %w", iter.Error)
	}
	if id := stringOf(entry["clubId"]); id != "" {
		return id, true, nil
	}
	return key, true, nil
}

func isCircuitFailure(err error) bool {
	return errors.Is(err, errTransient)
}

func abbreviate(body []byte) string {
	const limit = 256
	s := strings.TrimSpace(string(body))
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
