package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/amaumene/kioskarr/internal/config"
	"github.com/amaumene/kioskarr/internal/metrics"
	"github.com/amaumene/kioskarr/internal/session"
)

const tracerName = "github.com/amaumene/kioskarr/internal/client"

// Client handles communication with the kiosk REST API
type Client struct {
	baseURL       string
	session       *session.Session
	httpClient    *http.Client
	limiter       *rate.Limiter
	timeout       time.Duration
	maxRetries    int
	retryInterval time.Duration
	metrics       *metrics.Metrics
	tracer        trace.Tracer
	logger        zerolog.Logger
}

// New creates a new kiosk API client bound to one session
func New(cfg *config.Config, sess *session.Session, m *metrics.Metrics, tp trace.TracerProvider, logger zerolog.Logger) *Client {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	if m == nil {
		m = metrics.New(nil)
	}
	burst := cfg.APIRateBurst
	if burst < 1 {
		burst = 1
	}

	return &Client{
		baseURL:       strings.TrimRight(cfg.APIURL, "/"),
		session:       sess,
		httpClient:    &http.Client{Timeout: cfg.APITimeout},
		limiter:       rate.NewLimiter(rate.Limit(cfg.APIRateLimit), burst),
		timeout:       cfg.APITimeout,
		maxRetries:    cfg.APIMaxRetries,
		retryInterval: 500 * time.Millisecond,
		metrics:       m,
		tracer:        tp.Tracer(tracerName),
		logger:        logger,
	}
}

// call describes one API round trip
type call struct {
	method    string
	route     string // Path template used for spans and metric labels
	path      string
	query     url.Values
	body      any        // JSON body
	form      url.Values // Form body, takes precedence over body
	anonymous bool       // Never attach the bearer token
}

// doRequest performs an HTTP request to the kiosk API and decodes the answer into result.
// The API timeout bounds the whole call, retries included.
func (c *Client) doRequest(ctx context.Context, r call, result any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	ctx, span := c.tracer.Start(ctx, r.method+" "+r.route, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("http.method", r.method),
		attribute.String("http.route", r.route),
	)

	var payload []byte
	contentType := ""
	switch {
	case r.form != nil:
		payload = []byte(r.form.Encode())
		contentType = "application/x-www-form-urlencoded"
	case r.body != nil:
		data, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		payload = data
		contentType = "application/json"
	}

	fullURL := c.baseURL + r.path
	if len(r.query) > 0 {
		fullURL += "?" + r.query.Encode()
	}

	token := ""
	if !r.anonymous {
		token = c.session.Token()
	}

	c.logger.Debug().
		Str("method", r.method).
		Str("url", fullURL).
		Msg("Making kiosk API request")

	statusCode := 0
	var respBody []byte

	attempt := func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(fmt.Errorf("rate limiter: %w", err))
		}

		var reqBody io.Reader
		if payload != nil {
			reqBody = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, r.method, fullURL, reqBody)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		req.Header.Set("Accept", "application/json")
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			statusCode = 0
			err = fmt.Errorf("request failed: %w", err)
			if isTimeout(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		defer resp.Body.Close()

		statusCode = resp.StatusCode
		respBody, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read response: %w", err)
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			apiErr := &APIError{StatusCode: resp.StatusCode, Detail: parseDetail(respBody)}
			if retryableStatus(resp.StatusCode) {
				return apiErr
			}
			return backoff.Permanent(apiErr)
		}
		return nil
	}

	retries := 0
	if r.method == http.MethodGet {
		retries = c.maxRetries
	}
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.retryInterval
	b := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(retries)), ctx)

	start := time.Now()
	err := backoff.RetryNotify(attempt, b, func(err error, wait time.Duration) {
		c.logger.Debug().Err(err).
			Str("route", r.route).
			Dur("retry_in", wait).
			Msg("Retrying kiosk API request")
	})
	c.observe(r, statusCode, time.Since(start))
	if statusCode != 0 {
		span.SetAttributes(attribute.Int("http.status_code", statusCode))
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized && token != "" {
			if c.session.ExpireToken(token) {
				c.logger.Warn().Str("route", r.route).Msg("Session rejected by the API, logging out")
			}
		}
		return err
	}

	if result != nil && len(bytes.TrimSpace(respBody)) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "decode")
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

func (c *Client) observe(r call, statusCode int, elapsed time.Duration) {
	code := "error"
	if statusCode != 0 {
		code = strconv.Itoa(statusCode)
	}
	c.metrics.APIRequests.WithLabelValues(r.route, r.method, code).Inc()
	c.metrics.APIDuration.WithLabelValues(r.route, r.method).Observe(elapsed.Seconds())
}

func retryableStatus(code int) bool {
	switch code {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

func idPath(prefix string, id int64) string {
	return prefix + "/" + strconv.FormatInt(id, 10)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
