package main

import (
	"career-compass/internal/domain"
	"career-compass/internal/logger"
	"career-compass/internal/repository"
	"career-compass/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newReconcileCmd(a *app) *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Rebuild skill states from the assessment history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reconciler := service.NewReconciler(
				repository.NewTransactionManagerAdapter(a.db),
				repository.NewAssessmentRepository(a.db),
				repository.NewSkillStateRepository(a.db),
				domain.SystemClock{},
			)
			log := logger.Get()

			if userID != "" {
				n, err := reconciler.ReconcileUser(cmd.Context(), userID)
				if err != nil {
					return err
				}
				log.Info("Reconciled user", zap.String("user_id", userID), zap.Int("states_updated", n))
				return nil
			}

			res, err := reconciler.ReconcileAll(cmd.Context())
			if err != nil {
				return err
			}
			log.Info("Reconciled all users",
				zap.Int("users_reconciled", res.UsersReconciled),
				zap.Int("states_updated", res.StatesUpdated),
				zap.Strings("failed_users", res.FailedUsers))
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "reconcile a single user")
	return cmd
}
