// Command compassctl runs maintenance tasks against the Career Compass
// database: schema migrations, catalog seeding and skill state reconciliation.
package main

import (
	"context"
	"fmt"
	"os"

	"career-compass/internal/config"
	"career-compass/internal/database"
	"career-compass/internal/logger"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
)

// app holds what every subcommand needs once the root command has run.
type app struct {
	cfg *config.Config
	db  *sqlx.DB
}

func (a *app) close() {
	if a.db != nil {
		_ = a.db.Close()
	}
	_ = logger.Sync()
}

// connect loads the configuration, starts the logger and opens the database.
func (a *app) connect(ctx context.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	db, err := database.Connect(ctx, cfg)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.db = db
	return nil
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "compassctl",
		Short:         "Career Compass maintenance commands",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.connect(cmd.Context())
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			a.close()
		},
	}
	root.AddCommand(newMigrateCmd(a), newSeedCmd(a), newReconcileCmd(a))
	return root
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
