package main

import (
	"context"

	"github.com/dmitrijs2005/parking/internal/logging"
	"github.com/dmitrijs2005/parking/internal/server"
	"github.com/dmitrijs2005/parking/internal/server/config"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command. Without a subcommand it serves the API.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "parking",
		Short:        "Parking space management service",
		Long:         `Parking serves the REST API used by users, guards and administrators to manage parking spaces.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         runServe,
	}

	config.RegisterFlags(cmd.PersistentFlags())

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewAdminCmd())

	return cmd
}

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, app *server.App) error {
				return app.Migrate(ctx)
			})
		},
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	return withApp(cmd, func(ctx context.Context, app *server.App) error {
		return app.Run(ctx)
	})
}

// withApp loads the configuration, connects the application and hands it to
// fn. The database pool is closed when fn returns.
func withApp(cmd *cobra.Command, fn func(context.Context, *server.App) error) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}

	logger := logging.New("parking", version, cfg.LogFormat, cmd.ErrOrStderr())

	ctx := cmd.Context()
	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn(ctx, "closing database", "error", err)
		}
	}()

	return fn(ctx, app)
}
