package main

import (
	"log/slog"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/folio-reader/folio/internal/profile"
	"github.com/folio-reader/folio/server"
	"github.com/folio-reader/folio/store"
	"github.com/folio-reader/folio/store/db"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Folio server",
	Long: `Start the Folio HTTP server.

Configuration comes from the config file plus FOLIO_* environment
variables; environment wins.

Examples:
  folio serve                          # SQLite in the data directory
  FOLIO_PORT=3000 folio serve          # Custom port
  FOLIO_DRIVER=postgres \
    FOLIO_DSN=postgres://... folio serve`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		logLevel := slog.LevelInfo
		if os.Getenv("FOLIO_LOG_LEVEL") == "debug" {
			logLevel = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: logLevel,
		})))

		p, err := profile.Load(cfgFile)
		if err != nil {
			return errors.Wrap(err, "failed to load profile")
		}

		driver, err := db.NewDBDriver(p)
		if err != nil {
			return errors.Wrap(err, "failed to create db driver")
		}

		st := store.New(driver, p)
		defer st.Close()
		if err := st.Migrate(ctx); err != nil {
			return errors.Wrap(err, "failed to migrate database")
		}

		srv, err := server.NewServer(ctx, p, st)
		if err != nil {
			return errors.Wrap(err, "failed to create server")
		}
		return srv.Start(ctx)
	},
}
