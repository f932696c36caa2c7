// Package application assembles the dashboard out of its parts so that the
// web server and the CLI share one wiring.
package application

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/TemirB/sales-dashboard/internal/auth"
	"github.com/TemirB/sales-dashboard/internal/autobizz"
	"github.com/TemirB/sales-dashboard/internal/cache"
	"github.com/TemirB/sales-dashboard/internal/config"
	"github.com/TemirB/sales-dashboard/internal/dashboard"
	"github.com/TemirB/sales-dashboard/internal/domain"
	"github.com/TemirB/sales-dashboard/internal/observability"
	"github.com/TemirB/sales-dashboard/internal/pkg/breaker"
)

type App struct {
	Client    *autobizz.Client
	Auth      *auth.Manager
	Dashboard *dashboard.Controller
	Responses *cache.TimedCache[string, *domain.SalesResponse]
	Metrics   observability.Metrics
}

// New wires config into a ready controller. A persisted token, if any, is
// restored before New returns. opts are applied after the configured defaults.
func New(cfg config.Config, logger *zap.Logger, metrics observability.Metrics, opts ...dashboard.Option) (*App, error) {
	if metrics == nil {
		metrics = observability.NewNoop()
	}

	client := autobizz.NewClient(cfg.API, cfg.Retry, breaker.New(cfg.Breaker), logger.Named("autobizz"))

	tokens, err := cache.New[string, string](cfg.Cache.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("token cache: %w", err)
	}

	var store auth.TokenStore
	if cfg.Auth.TokenFile != "" {
		store = auth.NewFileStore(cfg.Auth.TokenFile)
	}
	manager := auth.NewManager(tokens, client, store, logger.Named("auth"), metrics)
	manager.Restore()

	responses, err := cache.New[string, *domain.SalesResponse](cfg.Cache.TTL, cache.WithCapacity(cfg.Cache.Capacity))
	if err != nil {
		return nil, fmt.Errorf("response cache: %w", err)
	}

	opts = append([]dashboard.Option{
		dashboard.WithFilter(domain.Filter{
			StartDate: cfg.Defaults.StartDate,
			EndDate:   cfg.Defaults.EndDate,
		}),
	}, opts...)
	ctrl := dashboard.New(client, manager, responses, logger.Named("dashboard"), metrics, opts...)

	return &App{
		Client:    client,
		Auth:      manager,
		Dashboard: ctrl,
		Responses: responses,
		Metrics:   metrics,
	}, nil
}
