package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/TemirB/sales-dashboard/internal/application"
	"github.com/TemirB/sales-dashboard/internal/config"
	"github.com/TemirB/sales-dashboard/internal/dashboard"
	"github.com/TemirB/sales-dashboard/internal/observability"
)

// NewRootCmd builds the salesq command tree. Config comes from the same
// environment as the web dashboard.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "salesq",
		Short:         "Query the sales API from the terminal",
		Long:          `Fetches filtered, sorted sales pages through the same cache, auth and pagination logic as the web dashboard.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolP("verbose", "v", false, "Log debug output to stderr")

	query := newQueryCmd()
	root.RunE = query.RunE
	root.Flags().AddFlagSet(query.Flags())

	root.AddCommand(query)
	root.AddCommand(newTokenCmd())
	return root
}

func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

func setup(cmd *cobra.Command, opts ...dashboard.Option) (*application.App, *zap.Logger, error) {
	cfg := config.Load()

	level := "error"
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = "debug"
	}
	logger, err := observability.NewLogger(level)
	if err != nil {
		return nil, nil, err
	}

	app, err := application.New(cfg, logger, nil, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build application: %w", err)
	}
	return app, logger, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
