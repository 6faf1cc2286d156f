package main

import (
	"fmt"
	"strconv"

	"career-compass/internal/database"
	"career-compass/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newMigrateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back schema migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := database.MigrateUp(cmd.Context(), a.db, a.cfg.DB.Driver); err != nil {
				return err
			}
			logger.Get().Info("Migrations applied", zap.String("driver", a.cfg.DB.Driver))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down [steps]",
		Short: "Roll back the given number of migrations (default 1)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, err := parseSteps(args)
			if err != nil {
				return err
			}
			if err := database.MigrateDown(cmd.Context(), a.db, a.cfg.DB.Driver, steps); err != nil {
				return err
			}
			logger.Get().Info("Migrations rolled back", zap.String("driver", a.cfg.DB.Driver), zap.Int("steps", steps))
			return nil
		},
	})

	return cmd
}

func parseSteps(args []string) (int, error) {
	if len(args) == 0 {
		return 1, nil
	}
	steps, err := strconv.Atoi(args[0])
	if err != nil || steps < 1 {
		return 0, fmt.Errorf("steps must be a positive integer, got %q", args[0])
	}
	return steps, nil
}
