package autobizz

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap/zaptest"

	"github.com/TemirB/sales-dashboard/internal/config"
	"github.com/TemirB/sales-dashboard/internal/domain"
	"github.com/TemirB/sales-dashboard/internal/pkg/breaker"
)

const salesBody = `{
	"results": {
		"TotalSales": [{"day": "2025-01-01", "totalSale": 500}],
		"Sales": [{"_id": "1", "date": "2025-01-01T10:00:00Z", "price": 500, "customerEmail": "a@b.com", "customerPhone": "+1"}]
	},
	"pagination": {"before": "", "after": "tok2"}
}`

func newTestClient(t *testing.T, url string, attempts int) (*Client, *breaker.Breaker) {
	t.Helper()
	return newTestClientWithBreaker(t, url, attempts, config.Breaker{Threshold: 2, OpenTimeout: time.Minute, MaxHalfOpen: 1})
}

func newTestClientWithBreaker(t *testing.T, url string, attempts int, cfg config.Breaker) (*Client, *breaker.Breaker) {
	t.Helper()
	brk := breaker.New(cfg)
	c := NewClient(
		config.API{BaseURL: url + "/", TokenType: "frontEndTest", Timeout: time.Second},
		config.Retry{Attempts: attempts, Base: time.Millisecond, Max: time.Millisecond},
		brk,
		zaptest.NewLogger(t),
	)
	return c, brk
}

func TestAuthorize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/getAuthorize", r.URL.Path)

		var req authorizeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "frontEndTest", req.TokenType)

		_, _ = io.WriteString(w, `{"token": "abc", "expire": 3600}`)
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv.URL, 1)
	tok, err := c.Authorize(context.Background())

	require.NoError(t, err)
	require.Equal(t, domain.Token{Value: "abc", Expire: 3600}, tok)
}

func TestAuthorizeErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
	}{
		{name: "forbidden", status: http.StatusForbidden, body: "nope", wantStatus: http.StatusForbidden},
		{name: "empty token", status: http.StatusOK, body: `{"token": ""}`},
		{name: "bad json", status: http.StatusOK, body: `{"token":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			c, _ := newTestClient(t, srv.URL, 1)
			_, err := c.Authorize(context.Background())

			var aerr *domain.AuthError
			require.ErrorAs(t, err, &aerr)
			require.Equal(t, tt.wantStatus, aerr.Status)
		})
	}
}

func TestAuthorizeNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, _ := newTestClient(t, url, 1)
	_, err := c.Authorize(context.Background())

	var aerr *domain.AuthError
	require.ErrorAs(t, err, &aerr)
	require.Zero(t, aerr.Status)
	require.Error(t, aerr.Err)
}

func TestSales(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/sales", r.URL.Path)
		require.Equal(t, "tok", r.Header.Get(TokenHeader))

		q := r.URL.Query()
		require.Equal(t, "2025-01-01", q.Get("startDate"))
		require.Equal(t, "2025-01-31", q.Get("endDate"))
		require.Equal(t, "date", q.Get("sortBy"))
		require.Equal(t, "asc", q.Get("sortOrder"))
		for _, k := range []string{"priceMin", "email", "phone", "after", "before"} {
			require.Contains(t, q, k, "every parameter must be sent")
		}

		_, _ = io.WriteString(w, salesBody)
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv.URL, 1)
	params := domain.NewQueryParams(domain.Filter{StartDate: "2025-01-01", EndDate: "2025-01-31"}, domain.DefaultSort(), domain.Cursor{})

	resp, err := c.Sales(context.Background(), "tok", params)
	require.NoError(t, err)

	require.Len(t, resp.Totals, 1)
	require.Equal(t, "2025-01-01", resp.Totals[0].Day)
	require.Equal(t, "500", resp.Totals[0].TotalSale.String())
	require.Len(t, resp.Rows, 1)
	require.Equal(t, "1", resp.Rows[0].ID)
	require.Equal(t, "a@b.com", resp.Rows[0].CustomerEmail)
	require.Equal(t, "tok2", resp.NextCursor)
	require.Empty(t, resp.PrevCursor)
}

func TestSalesMissingPaginationMeansNoPages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"results": {"TotalSales": [], "Sales": []}}`)
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv.URL, 1)
	resp, err := c.Sales(context.Background(), "tok", domain.QueryParams{})

	require.NoError(t, err)
	require.Empty(t, resp.NextCursor)
	require.Empty(t, resp.PrevCursor)
	require.Empty(t, resp.Rows)
}

func TestSalesErrors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantCalls int32
		check     func(t *testing.T, err error)
	}{
		{
			name:      "client error is not retried",
			status:    http.StatusBadRequest,
			body:      "bad priceMin",
			wantCalls: 1,
			check: func(t *testing.T, err error) {
				var ferr *domain.FetchError
				require.ErrorAs(t, err, &ferr)
				require.Equal(t, http.StatusBadRequest, ferr.Status)
				require.Equal(t, "bad priceMin", ferr.Body)
			},
		},
		{
			name:      "server error is retried",
			status:    http.StatusBadGateway,
			body:      "upstream",
			wantCalls: 2,
			check: func(t *testing.T, err error) {
				var ferr *domain.FetchError
				require.ErrorAs(t, err, &ferr)
				require.Equal(t, http.StatusBadGateway, ferr.Status)
			},
		},
		{
			name:      "missing results",
			status:    http.StatusOK,
			body:      `{"pagination": {"after": "x"}}`,
			wantCalls: 1,
			check: func(t *testing.T, err error) {
				require.ErrorIs(t, err, domain.ErrMalformedResponse)
			},
		},
		{
			name:      "not json",
			status:    http.StatusOK,
			body:      `<html>`,
			wantCalls: 1,
			check: func(t *testing.T, err error) {
				require.ErrorIs(t, err, domain.ErrMalformedResponse)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			c, _ := newTestClient(t, srv.URL, 2)
			_, err := c.Sales(context.Background(), "tok", domain.QueryParams{})

			tt.check(t, err)
			require.Equal(t, tt.wantCalls, calls.Load())
		})
	}
}

func TestSalesBreakerOpensOnServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c, brk := newTestClient(t, srv.URL, 1)
	for i := 0; i < 2; i++ {
		_, err := c.Sales(context.Background(), "tok", domain.QueryParams{})
		require.Error(t, err)
	}
	require.Equal(t, breaker.Open, brk.State())

	_, err := c.Sales(context.Background(), "tok", domain.QueryParams{})
	require.True(t, errors.Is(err, breaker.ErrOpenState))
	require.Equal(t, int32(2), calls.Load(), "open breaker must not reach the server")
}

func TestSalesCancelledHalfOpenTrialDoesNotWedgeBreaker(t *testing.T) {
	var healthy, hold atomic.Bool
	started := make(chan struct{}, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !healthy.Load() {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		if hold.Load() {
			started <- struct{}{}
			<-r.Context().Done()
			return
		}
		_, _ = io.WriteString(w, salesBody)
	}))
	defer srv.Close()

	const openTimeout = 20 * time.Millisecond
	c, brk := newTestClientWithBreaker(t, srv.URL, 1, config.Breaker{Threshold: 2, OpenTimeout: openTimeout, MaxHalfOpen: 1})
	for i := 0; i < 2; i++ {
		_, err := c.Sales(context.Background(), "tok", domain.QueryParams{})
		require.Error(t, err)
	}
	require.Equal(t, breaker.Open, brk.State())

	healthy.Store(true)
	time.Sleep(2 * openTimeout)

	ctx, cancel := context.WithCancel(context.Background())
	hold.Store(true)
	done := make(chan error, 1)
	go func() {
		_, err := c.Sales(ctx, "tok", domain.QueryParams{})
		done <- err
	}()
	<-started
	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
	require.Equal(t, breaker.HalfOpen, brk.State())

	hold.Store(false)
	resp, err := c.Sales(context.Background(), "tok", domain.QueryParams{})
	require.NoError(t, err)
	require.Len(t, resp.Rows, 1)
	require.Equal(t, breaker.Closed, brk.State())
}

func TestSalesClientErrorsKeepBreakerClosed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c, brk := newTestClient(t, srv.URL, 1)
	for i := 0; i < 3; i++ {
		_, _ = c.Sales(context.Background(), "tok", domain.QueryParams{})
	}
	require.Equal(t, breaker.Closed, brk.State())
}

func TestSalesTracing(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	prevTP, prevProp := otel.GetTracerProvider(), otel.GetTextMapPropagator()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr)))
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() {
		otel.SetTracerProvider(prevTP)
		otel.SetTextMapPropagator(prevProp)
	})

	var traceparent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceparent = r.Header.Get("traceparent")
		_, _ = io.WriteString(w, salesBody)
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv.URL, 1)
	_, err := c.Sales(context.Background(), "tok", domain.QueryParams{})
	require.NoError(t, err)

	require.NotEmpty(t, traceparent)
	spans := sr.Ended()
	require.Len(t, spans, 1)
	require.Equal(t, "autobizz.Sales", spans[0].Name())
}
