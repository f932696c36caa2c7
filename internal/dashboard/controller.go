package dashboard

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/TemirB/sales-dashboard/internal/domain"
	"github.com/TemirB/sales-dashboard/internal/observability"
)

//go:generate mockgen -source internal/dashboard/controller.go -destination=internal/dashboard/controller_mock_test.go -package=dashboard

type Fetcher interface {
	Sales(ctx context.Context, token string, params domain.QueryParams) (*domain.SalesResponse, error)
}

type TokenSource interface {
	Token(ctx context.Context) (string, error)
	Invalidate()
}

type ResponseCache interface {
	Get(key string) (*domain.SalesResponse, bool)
	Set(key string, resp *domain.SalesResponse)
}

type pagination struct {
	before string
	after  string
	number int
}

// Controller owns the filter, sort and paging state of one dashboard and
// decides, per fetch, between the response cache and the remote API.
//
// The lock is never held across a network call. Every fetch takes a sequence
// number; a completion is shown only if no newer fetch was issued meanwhile.
type Controller struct {
	fetcher Fetcher
	tokens  TokenSource
	cache   ResponseCache
	logger  *zap.Logger
	metrics observability.Metrics

	mu         sync.Mutex
	filter     domain.Filter
	sort       domain.Sort
	page       pagination
	current    domain.Cursor // cursor that produced the displayed page
	resp       *domain.SalesResponse
	loading    bool
	errMsg     string
	authFailed bool
	last       FetchStats
	seq        uint64
}

type Option func(*Controller)

func WithFilter(f domain.Filter) Option {
	return func(c *Controller) { c.filter = f }
}

func WithSort(s domain.Sort) Option {
	return func(c *Controller) { c.sort = s }
}

func New(fetcher Fetcher, tokens TokenSource, cache ResponseCache, logger *zap.Logger, metrics observability.Metrics, opts ...Option) *Controller {
	if metrics == nil {
		metrics = observability.NewNoop()
	}
	c := &Controller{
		fetcher: fetcher,
		tokens:  tokens,
		cache:   cache,
		logger:  logger,
		metrics: metrics,
		sort:    domain.DefaultSort(),
		page:    pagination{number: 1},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// UpdateFilter applies patch, returns to the first page and fetches.
func (c *Controller) UpdateFilter(ctx context.Context, patch domain.FilterPatch) error {
	c.mu.Lock()
	c.filter = c.filter.Apply(patch)
	c.resetPaging()
	c.mu.Unlock()
	return c.fetch(ctx, domain.DirectionNone)
}

// ToggleSort flips the order of the active field or switches to field in
// ascending order, returns to the first page and fetches.
func (c *Controller) ToggleSort(ctx context.Context, field domain.SortField) error {
	c.mu.Lock()
	c.sort = c.sort.Toggle(field)
	c.resetPaging()
	c.mu.Unlock()
	return c.fetch(ctx, domain.DirectionNone)
}

// Refresh fetches the displayed page again. The cache is still consulted first.
func (c *Controller) Refresh(ctx context.Context) error {
	return c.fetch(ctx, domain.DirectionNone)
}

// GoNext is a no-op when there is no next page.
func (c *Controller) GoNext(ctx context.Context) error {
	return c.fetch(ctx, domain.DirectionNext)
}

// GoPrevious is a no-op on the first page or when there is no previous page.
func (c *Controller) GoPrevious(ctx context.Context) error {
	return c.fetch(ctx, domain.DirectionPrevious)
}

// DismissError clears the error message, keeping the displayed data.
func (c *Controller) DismissError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errMsg = ""
}

func (c *Controller) resetPaging() {
	c.page = pagination{number: 1}
	c.current = domain.Cursor{}
}

func (c *Controller) fetch(ctx context.Context, dir domain.Direction) error {
	c.mu.Lock()

	var cursor domain.Cursor
	switch dir {
	case domain.DirectionNext:
		if c.page.after == "" {
			c.mu.Unlock()
			return nil
		}
		cursor = domain.AfterCursor(c.page.after)
	case domain.DirectionPrevious:
		if c.page.before == "" || c.page.number <= 1 {
			c.mu.Unlock()
			return nil
		}
		cursor = domain.BeforeCursor(c.page.before)
	default:
		cursor = c.current
	}

	if err := c.filter.Validate(); err != nil {
		c.seq++
		c.loading = false
		c.errMsg = userMessage(err)
		c.mu.Unlock()
		c.logger.Info("Refused to fetch invalid filter", zap.Error(err))
		return err
	}

	params := domain.NewQueryParams(c.filter, c.sort, cursor)
	key := params.CacheKey()
	c.seq++
	seq := c.seq

	tCacheStart := time.Now()
	if resp, ok := c.cache.Get(key); ok {
		st := FetchStats{Source: observability.SourceCache, DurMs: convertToMs(tCacheStart)}
		c.adopt(resp, dir, cursor, st)
		c.mu.Unlock()

		c.metrics.IncCacheHit()
		c.metrics.ObserveFetch(st.Source, st.DurMs)
		c.logger.Debug("Sales page fetched from cache",
			zap.String("cache_key", key),
			zap.Float64("cache_ms", st.DurMs),
		)
		return nil
	}

	c.loading = true
	c.errMsg = ""
	c.mu.Unlock()
	c.metrics.IncCacheMiss()

	tRemoteStart := time.Now()
	resp, err := c.load(ctx, params)
	st := FetchStats{Source: observability.SourceRemote, DurMs: convertToMs(tRemoteStart)}

	if err == nil {
		// Valid for its key even if a newer fetch supersedes it.
		c.cache.Set(key, resp)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.seq {
		c.logger.Debug("Discarded superseded sales response",
			zap.Uint64("seq", seq),
			zap.Uint64("latest_seq", c.seq),
		)
		return nil
	}
	c.loading = false

	if err != nil {
		c.errMsg = userMessage(err)
		var aerr *domain.AuthError
		c.authFailed = errors.As(err, &aerr)
		c.logger.Error("Can't fetch sales",
			zap.String("cache_key", key),
			zap.Error(err),
			zap.Float64("fetch_ms", st.DurMs),
		)
		return err
	}

	c.adopt(resp, dir, cursor, st)
	c.metrics.ObserveFetch(st.Source, st.DurMs)
	c.logger.Info("Sales page fetched from API",
		zap.String("cache_key", key),
		zap.Int("rows", len(resp.Rows)),
		zap.Float64("fetch_ms", st.DurMs),
	)
	return nil
}

// load asks for a token and the page; a 401 drops the token and tries once more.
func (c *Controller) load(ctx context.Context, params domain.QueryParams) (*domain.SalesResponse, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := c.fetcher.Sales(ctx, token, params)
	var ferr *domain.FetchError
	if errors.As(err, &ferr) && ferr.Status == http.StatusUnauthorized {
		c.logger.Warn("Token rejected, authorizing again")
		c.tokens.Invalidate()
		if token, err = c.tokens.Token(ctx); err != nil {
			return nil, err
		}
		resp, err = c.fetcher.Sales(ctx, token, params)
	}
	return resp, err
}

// adopt replaces the displayed page wholesale. Callers hold c.mu.
func (c *Controller) adopt(resp *domain.SalesResponse, dir domain.Direction, cursor domain.Cursor, st FetchStats) {
	switch dir {
	case domain.DirectionNext:
		c.page.number++
	case domain.DirectionPrevious:
		if c.page.number > 1 {
			c.page.number--
		}
	}
	c.current = cursor
	c.page.after = resp.NextCursor
	c.page.before = resp.PrevCursor
	c.resp = resp
	c.loading = false
	c.errMsg = ""
	c.authFailed = false
	c.last = st
}

func convertToMs(t time.Time) float64 {
	return float64(time.Since(t).Microseconds()) / 1000.0
}
