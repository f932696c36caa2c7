package autobizz

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/TemirB/sales-dashboard/internal/config"
	"github.com/TemirB/sales-dashboard/internal/domain"
	"github.com/TemirB/sales-dashboard/internal/pkg/retry"
)

// TokenHeader carries the bearer token on sales requests.
const TokenHeader = "X-AUTOBIZZ-TOKEN"

const maxBodyBytes = 4 << 20

type brk interface {
	Allow() error
	Success()
	Failure()
	Release()
}

// Client talks to the remote sales API. Transport errors and 5xx answers are
// retried; 4xx answers are returned at once.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	tokenType   string
	retryPolicy config.Retry
	breaker     brk
	logger      *zap.Logger
	tracer      trace.Tracer
}

func NewClient(cfg config.API, retryPolicy config.Retry, breaker brk, logger *zap.Logger) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		tokenType:   cfg.TokenType,
		retryPolicy: retryPolicy,
		breaker:     breaker,
		logger:      logger,
		tracer:      otel.Tracer("github.com/TemirB/sales-dashboard/internal/autobizz"),
	}
}

// statusError is a non-2xx answer before it is mapped to the domain taxonomy.
type statusError struct {
	status int
	body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.status, e.body)
}

// Authorize calls POST /getAuthorize. Every failure is a *domain.AuthError.
func (c *Client) Authorize(ctx context.Context) (domain.Token, error) {
	ctx, span := c.tracer.Start(ctx, "autobizz.Authorize")
	defer span.End()

	payload, err := json.Marshal(authorizeRequest{TokenType: c.tokenType})
	if err != nil {
		return domain.Token{}, &domain.AuthError{Err: err}
	}

	body, err := c.roundTrip(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/getAuthorize", bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		recordError(span, err)
		var se *statusError
		if errors.As(err, &se) {
			return domain.Token{}, &domain.AuthError{Status: se.status, Body: se.body}
		}
		return domain.Token{}, &domain.AuthError{Err: err}
	}

	var out authorizeResponse
	if err := json.Unmarshal(body, &out); err != nil {
		recordError(span, err)
		return domain.Token{}, &domain.AuthError{Err: fmt.Errorf("decode authorize response: %w", err)}
	}
	if out.Token == "" {
		err := errors.New("authorize response has no token")
		recordError(span, err)
		return domain.Token{}, &domain.AuthError{Err: err}
	}

	c.logger.Info("Authorized against sales API", zap.Int64("expire", out.Expire))
	return domain.Token{Value: out.Token, Expire: out.Expire}, nil
}

// Sales calls GET /sales with the full parameter set. Failures are
// *domain.FetchError or domain.ErrMalformedResponse.
func (c *Client) Sales(ctx context.Context, token string, params domain.QueryParams) (*domain.SalesResponse, error) {
	ctx, span := c.tracer.Start(ctx, "autobizz.Sales", trace.WithAttributes(
		attribute.String("sales.sort_by", string(params.Sort.Field)),
		attribute.String("sales.sort_order", string(params.Sort.Order)),
		attribute.Bool("sales.has_after", params.Cursor.After != ""),
		attribute.Bool("sales.has_before", params.Cursor.Before != ""),
	))
	defer span.End()

	target := c.baseURL + "/sales?" + params.Values().Encode()
	body, err := c.roundTrip(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set(TokenHeader, token)
		req.Header.Set("Accept", "application/json")
		return req, nil
	})
	if err != nil {
		recordError(span, err)
		var se *statusError
		if errors.As(err, &se) {
			return nil, &domain.FetchError{Status: se.status, Body: se.body}
		}
		return nil, &domain.FetchError{Err: err}
	}

	var env salesEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		recordError(span, err)
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	if env.Results == nil {
		recordError(span, domain.ErrMalformedResponse)
		return nil, domain.ErrMalformedResponse
	}

	resp := env.toDomain()
	span.SetAttributes(attribute.Int("sales.rows", len(resp.Rows)))
	return resp, nil
}

// roundTrip runs one logical request through the breaker and the retry policy
// and returns the body of a 2xx answer.
func (c *Client) roundTrip(ctx context.Context, newRequest func(context.Context) (*http.Request, error)) ([]byte, error) {
	if err := c.breaker.Allow(); err != nil {
		c.logger.Warn("Sales API call short-circuited", zap.Error(err))
		return nil, err
	}

	var body []byte
	attempt := 0
	err := retry.Do(ctx, c.retryPolicy, func() error {
		attempt++
		req, err := newRequest(ctx)
		if err != nil {
			return retry.Permanent(err)
		}
		otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Warn("Sales API request failed",
				zap.String("path", req.URL.Path),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			return err
		}
		defer resp.Body.Close()

		b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return err
		}

		c.logger.Debug("Sales API response",
			zap.String("path", req.URL.Path),
			zap.Int("status", resp.StatusCode),
			zap.Int("attempt", attempt),
			zap.Duration("elapsed", time.Since(start)),
		)

		switch {
		case resp.StatusCode >= 500:
			return &statusError{status: resp.StatusCode, body: strings.TrimSpace(string(b))}
		case resp.StatusCode < 200 || resp.StatusCode >= 300:
			return retry.Permanent(&statusError{status: resp.StatusCode, body: strings.TrimSpace(string(b))})
		}
		body = b
		return nil
	})
	if err != nil {
		// A 4xx proves the server is up; only transport errors and 5xx count against it.
		var se *statusError
		switch {
		case errors.As(err, &se) && se.status < 500:
			c.breaker.Success()
		case errors.Is(err, context.Canceled):
			// The caller went away; the call says nothing about the server.
			c.breaker.Release()
		default:
			c.breaker.Failure()
		}
		return nil, err
	}

	c.breaker.Success()
	return body, nil
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
