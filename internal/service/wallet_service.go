package service

import (
	"context"
	"errors"
	"fmt"

	"walletwise/internal/dto"
	"walletwise/internal/ledger"
	"walletwise/internal/repository"
	"walletwise/pkg/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type WalletService struct {
	userRepo UserStore
	txRepo   TransactionStore
	ledger   *ledger.Ledger
	logger   *zap.Logger
}

func NewWalletService(userRepo UserStore, txRepo TransactionStore, ledger *ledger.Ledger, logger *zap.Logger) *WalletService {
	return &WalletService{
		userRepo: userRepo,
		txRepo:   txRepo,
		ledger:   ledger,
		logger:   logger,
	}
}

func (s *WalletService) GetWallet(ctx context.Context, userID uuid.UUID) (*dto.WalletResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	return &dto.WalletResponse{
		WalletBalance: user.WalletBalance,
		StrictMode:    s.ledger.Strict(),
	}, nil
}

// Reconcile recomputes the wallet balance from the full transaction history
// and, unless dryRun is set, overwrites the stored balance when they differ.
// Mutations racing with a reconcile can be lost from the stored balance, so
// run it when the user is idle.
func (s *WalletService) Reconcile(ctx context.Context, userID uuid.UUID, dryRun bool) (*dto.ReconcileResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	transactions, err := s.txRepo.ListAllByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	replayed := ledger.Replay(transactions)
	drift := user.WalletBalance.Sub(replayed)

	resp := &dto.ReconcileResponse{
		UserID:          userID.String(),
		StoredBalance:   user.WalletBalance,
		ReplayedBalance: replayed,
		Drift:           drift,
		Transactions:    len(transactions),
	}

	if drift.IsZero() {
		return resp, nil
	}

	metrics.ReconcileDrift.Inc()
	s.logger.Warn("Wallet balance drift detected",
		zap.String("user_id", userID.String()),
		zap.String("stored", user.WalletBalance.String()),
		zap.String("replayed", replayed.String()),
		zap.Bool("dry_run", dryRun),
	)

	if dryRun {
		return resp, nil
	}

	if err := s.userRepo.SetBalance(ctx, userID, replayed); err != nil {
		return nil, fmt.Errorf("failed to correct wallet balance: %w", err)
	}
	resp.Corrected = true

	return resp, nil
}

// ReconcileAll reconciles every user. A failure for one user is logged and
// does not stop the others; the first such error is returned at the end.
func (s *WalletService) ReconcileAll(ctx context.Context, dryRun bool) ([]*dto.ReconcileResponse, error) {
	ids, err := s.userRepo.ListIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	var (
		results  []*dto.ReconcileResponse
		firstErr error
	)
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		res, err := s.Reconcile(ctx, id, dryRun)
		if err != nil {
			s.logger.Error("Reconcile failed", zap.String("user_id", id.String()), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		results = append(results, res)
	}

	return results, firstErr
}
