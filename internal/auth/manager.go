package auth

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/TemirB/sales-dashboard/internal/cache"
	"github.com/TemirB/sales-dashboard/internal/domain"
	"github.com/TemirB/sales-dashboard/internal/observability"
)

//go:generate mockgen -source internal/auth/manager.go -destination=internal/auth/manager_mock_test.go -package=auth

// TokenKey is the single slot the token occupies in its cache and in the file store.
const TokenKey = "authToken"

type Authorizer interface {
	Authorize(ctx context.Context) (domain.Token, error)
}

// TokenStore persists the token across restarts.
type TokenStore interface {
	Load() (Record, bool, error)
	Save(Record) error
}

// Manager hands out the API token. A cached token is reused until its TTL
// runs out; then the next caller authorizes again. Concurrent callers share
// one authorization call.
type Manager struct {
	tokens     *cache.TimedCache[string, string]
	authorizer Authorizer
	store      TokenStore
	logger     *zap.Logger
	metrics    observability.Metrics
	group      singleflight.Group
}

// NewManager accepts a nil store when persistence is off.
func NewManager(tokens *cache.TimedCache[string, string], authorizer Authorizer, store TokenStore, logger *zap.Logger, metrics observability.Metrics) *Manager {
	if metrics == nil {
		metrics = observability.NewNoop()
	}
	return &Manager{
		tokens:     tokens,
		authorizer: authorizer,
		store:      store,
		logger:     logger,
		metrics:    metrics,
	}
}

// Restore seeds the token cache from the store, keeping the token's original
// issue time so a restored token expires when it would have anyway.
func (m *Manager) Restore() {
	if m.store == nil {
		return
	}
	rec, ok, err := m.store.Load()
	if err != nil {
		m.logger.Warn("Can't load persisted token", zap.Error(err))
		return
	}
	if !ok || rec.Token == "" {
		return
	}
	m.tokens.SetAt(TokenKey, rec.Token, rec.IssuedAt())
	if m.tokens.Has(TokenKey) {
		m.logger.Info("Restored persisted token", zap.Time("issued_at", rec.IssuedAt()))
	}
}

// Token returns a valid token, authorizing when none is cached. Failures are
// *domain.AuthError; a caller whose ctx ends first gets ctx.Err() while the
// shared authorization keeps running for the others.
func (m *Manager) Token(ctx context.Context) (string, error) {
	if tok, ok := m.tokens.Get(TokenKey); ok {
		return tok, nil
	}

	ch := m.group.DoChan(TokenKey, func() (any, error) {
		return m.authorize(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		if res.Shared {
			m.logger.Debug("Shared in-flight authorization")
		}
		return res.Val.(string), nil
	}
}

// Invalidate drops the cached token, e.g. after the API rejected it.
func (m *Manager) Invalidate() {
	m.tokens.Delete(TokenKey)
}

func (m *Manager) authorize(ctx context.Context) (string, error) {
	start := time.Now()
	tok, err := m.authorizer.Authorize(ctx)
	durMs := float64(time.Since(start).Microseconds()) / 1000.0
	if err != nil {
		m.metrics.ObserveAuth(false, durMs)
		m.logger.Error("Authorization failed", zap.Error(err), zap.Float64("auth_ms", durMs))

		var aerr *domain.AuthError
		if errors.As(err, &aerr) {
			return "", err
		}
		return "", &domain.AuthError{Err: err}
	}

	m.metrics.ObserveAuth(true, durMs)
	m.tokens.Set(TokenKey, tok.Value)
	if m.store != nil {
		if err := m.store.Save(NewRecord(tok.Value, time.Now())); err != nil {
			m.logger.Warn("Can't persist token", zap.Error(err))
		}
	}
	m.logger.Info("Token refreshed", zap.Float64("auth_ms", durMs))
	return tok.Value, nil
}
