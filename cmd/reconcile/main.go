package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"walletwise/internal/dto"
	"walletwise/internal/ledger"
	"walletwise/internal/repository"
	"walletwise/internal/service"
	"walletwise/pkg/config"
	"walletwise/pkg/logger"
	"walletwise/pkg/postgres"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		userFlag string
		dryRun   bool
	)

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Recompute wallet balances from transaction history",
		Long: "Replays every transaction of a user (or of all users) and overwrites the stored\n" +
			"wallet balance when it has drifted. Run while the API is idle.",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var userID uuid.UUID
			if userFlag != "" {
				id, err := uuid.Parse(userFlag)
				if err != nil {
					return fmt.Errorf("invalid --user: %w", err)
				}
				userID = id
			}
			return run(cmd.Context(), userID, dryRun)
		},
	}

	cmd.Flags().StringVar(&userFlag, "user", "", "reconcile only this user id")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report drift without correcting it")

	return cmd
}

func run(ctx context.Context, userID uuid.UUID, dryRun bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(cfg.Logger.Level, cfg.Logger.Format); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		return err
	}
	defer db.Close()

	wallet := service.NewWalletService(
		repository.NewUserRepository(db, appLogger),
		repository.NewTransactionRepository(db, appLogger),
		ledger.New(cfg.Wallet.StrictBalance),
		appLogger,
	)

	var results []*dto.ReconcileResponse
	if userID != uuid.Nil {
		res, err := wallet.Reconcile(ctx, userID, dryRun)
		if err != nil {
			return err
		}
		results = append(results, res)
	} else {
		results, err = wallet.ReconcileAll(ctx, dryRun)
	}

	drifted := 0
	for _, res := range results {
		if res.Drift.IsZero() {
			continue
		}
		drifted++
		fmt.Printf("%s stored=%s replayed=%s drift=%s corrected=%t\n",
			res.UserID, res.StoredBalance, res.ReplayedBalance, res.Drift, res.Corrected)
	}

	appLogger.Info("Reconciliation finished",
		zap.Int("users", len(results)),
		zap.Int("drifted", drifted),
		zap.Bool("dry_run", dryRun),
	)

	return err
}
