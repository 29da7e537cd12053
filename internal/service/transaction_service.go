package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"walletwise/internal/dto"
	"walletwise/internal/ledger"
	"walletwise/internal/models"
	"walletwise/internal/repository"
	"walletwise/pkg/metrics"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
	maxSearchLength  = 100
)

// TransactionService owns every mutation of a user's transactions and keeps
// the denormalized wallet balance in step with them.
//
// Each mutation reads the current balance, asks the ledger, then writes the
// transaction and issues a single atomic increment. There is no lock between
// the read and the increment: two concurrent writers for the same user can
// both pass the strict check against the same stale balance. Increments
// commute, so the stored total stays arithmetically correct; only the
// rejection decision can be stale. An update is written only if the row still
// holds the type and amount it was read with, so two updates of one
// transaction cannot both reverse the same old contribution.
type TransactionService struct {
	userRepo UserStore
	txRepo   TransactionStore
	activity ActivityLog
	ledger   *ledger.Ledger
	logger   *zap.Logger
	now      func() time.Time
}

func NewTransactionService(
	userRepo UserStore,
	txRepo TransactionStore,
	activity ActivityLog,
	ledger *ledger.Ledger,
	logger *zap.Logger,
) *TransactionService {
	return &TransactionService{
		userRepo: userRepo,
		txRepo:   txRepo,
		activity: activity,
		ledger:   ledger,
		logger:   logger,
		now:      time.Now,
	}
}

// AddTransaction creates a transaction and applies its contribution to the
// wallet. Creation is not written to the activity trail.
func (s *TransactionService) AddTransaction(ctx context.Context, userID uuid.UUID, input *dto.TransactionInput) (*dto.TransactionResult, error) {
	patch, err := parseTransactionInput(input, false)
	if err != nil {
		return nil, err
	}

	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	tx := mergeTransaction(newTransactionDefaults(now), patch)
	tx.ID = uuid.New()
	tx.UserID = userID

	delta := ledger.AddDelta(tx.Type, tx.Amount)
	decision := s.record("add", s.ledger.ApplyContribution(user.WalletBalance, tx.Type, tx.Amount))
	if !decision.Accepted {
		return nil, ErrInsufficientBalance
	}

	if err := s.txRepo.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	balance, err := s.applyBalance(ctx, "add", userID, tx.ID, delta)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Transaction added",
		zap.String("user_id", userID.String()),
		zap.String("transaction_id", tx.ID.String()),
		zap.String("type", string(tx.Type)),
		zap.String("amount", tx.Amount.String()),
	)

	return &dto.TransactionResult{
		Transaction:   toTransactionResponse(tx),
		WalletBalance: balance,
		Warning:       decision.Warning,
	}, nil
}

// UpdateTransaction applies a partial update. The old contribution is fully
// reversed and the new one applied, whatever fields changed.
func (s *TransactionService) UpdateTransaction(ctx context.Context, userID, transactionID uuid.UUID, input *dto.TransactionInput) (*dto.TransactionResult, error) {
	patch, err := parseTransactionInput(input, true)
	if err != nil {
		return nil, err
	}

	existing, err := s.txRepo.GetByIDForUser(ctx, transactionID, userID)
	if err != nil {
		return nil, transactionLookupError(err)
	}

	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	updated := mergeTransaction(*existing, patch)
	updated.UpdatedAt = s.now()

	delta := ledger.UpdateDelta(existing.Type, existing.Amount, updated.Type, updated.Amount)
	decision := s.record("update", s.ledger.ApplyDelta(user.WalletBalance, delta))
	if !decision.Accepted {
		return nil, ErrInsufficientBalance
	}

	if err := s.txRepo.Update(ctx, existing, updated); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrTransactionConflict
		}
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	balance := decision.NewBalance
	if !delta.IsZero() {
		balance, err = s.applyBalance(ctx, "update", userID, updated.ID, delta)
		if err != nil {
			return nil, err
		}
	}

	s.activity.Record(userID, updated.ID, models.ActionUpdated, input)

	return &dto.TransactionResult{
		Transaction:   toTransactionResponse(updated),
		WalletBalance: balance,
		Warning:       decision.Warning,
	}, nil
}

// DeleteTransaction removes a transaction and reverses its contribution. It is
// never blocked by the overdraft policy. The returned snapshot is what
// UndoTransaction expects back.
func (s *TransactionService) DeleteTransaction(ctx context.Context, userID, transactionID uuid.UUID) (*dto.TransactionResult, error) {
	deleted, err := s.txRepo.DeleteForUser(ctx, transactionID, userID)
	if err != nil {
		return nil, transactionLookupError(err)
	}

	delta := ledger.DeleteDelta(deleted.Type, deleted.Amount)
	metrics.LedgerDecisions.WithLabelValues("delete", metrics.OutcomeAccepted).Inc()

	balance, err := s.applyBalance(ctx, "delete", userID, deleted.ID, delta)
	if err != nil {
		return nil, err
	}

	s.activity.Record(userID, deleted.ID, models.ActionDeleted, map[string]any{
		"type":     deleted.Type,
		"amount":   deleted.Amount,
		"category": deleted.Category,
		"delta":    delta,
	})

	return &dto.TransactionResult{
		Transaction:   toTransactionResponse(deleted),
		WalletBalance: balance,
		Warning:       balance.IsNegative(),
	}, nil
}

// UndoTransaction re-creates a deleted transaction from the snapshot the
// caller got back from DeleteTransaction. The restored transaction gets a new
// id and always belongs to userID, whatever the snapshot says.
func (s *TransactionService) UndoTransaction(ctx context.Context, userID uuid.UUID, snapshot *dto.TransactionResponse) (*dto.TransactionResult, error) {
	if snapshot == nil {
		return nil, invalid("Deleted transaction is required")
	}

	patch, err := parseTransactionInput(snapshotInput(snapshot), false)
	if err != nil {
		return nil, err
	}

	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	base := newTransactionDefaults(now)
	if snapshot.NextExecutionDate != nil {
		if next, _, ok := parseDate(*snapshot.NextExecutionDate); ok {
			base.NextExecutionDate = &next
		}
	}

	restored := mergeTransaction(base, patch)
	restored.ID = uuid.New()
	restored.UserID = userID

	delta := ledger.UndoDelta(restored.Type, restored.Amount)
	decision := s.record("undo", s.ledger.ApplyContribution(user.WalletBalance, restored.Type, restored.Amount))
	if !decision.Accepted {
		return nil, ErrInsufficientBalance
	}

	if err := s.txRepo.Create(ctx, restored); err != nil {
		return nil, fmt.Errorf("failed to restore transaction: %w", err)
	}

	balance, err := s.applyBalance(ctx, "undo", userID, restored.ID, delta)
	if err != nil {
		return nil, err
	}

	s.activity.Record(userID, restored.ID, models.ActionRestored, map[string]any{
		"restored_from": snapshot.ID,
		"delta":         delta,
	})

	return &dto.TransactionResult{
		Transaction:   toTransactionResponse(restored),
		WalletBalance: balance,
		Warning:       decision.Warning,
	}, nil
}

// SkipNextOccurrence pushes a recurring transaction's next date forward by one
// interval. Balance and activity trail are untouched.
func (s *TransactionService) SkipNextOccurrence(ctx context.Context, userID, transactionID uuid.UUID) (time.Time, error) {
	tx, err := s.txRepo.GetByIDForUser(ctx, transactionID, userID)
	if err != nil {
		return time.Time{}, transactionLookupError(err)
	}

	if !tx.IsRecurring || tx.NextExecutionDate == nil || tx.RecurringInterval == nil {
		return time.Time{}, ErrNotRecurring
	}

	next, ok := tx.RecurringInterval.Next(*tx.NextExecutionDate)
	if !ok {
		return time.Time{}, ErrNotRecurring
	}

	if err := s.txRepo.UpdateNextExecutionDate(ctx, tx.ID, userID, next); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return time.Time{}, ErrTransactionNotFound
		}
		return time.Time{}, fmt.Errorf("failed to skip occurrence: %w", err)
	}

	return next, nil
}

// ListTransactions never rejects a query: unknown filter values fall back to
// "all" and out-of-range paging falls back to defaults.
func (s *TransactionService) ListTransactions(ctx context.Context, userID uuid.UUID, q dto.ListTransactionsQuery) (*dto.ListTransactionsResponse, error) {
	filter, page := normalizeListQuery(q)

	transactions, total, err := s.txRepo.List(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	resp := &dto.ListTransactionsResponse{
		Transactions: make([]dto.TransactionResponse, 0, len(transactions)),
		Pagination: dto.Pagination{
			Total: total,
			Page:  page,
			Pages: (total + filter.Limit - 1) / filter.Limit,
			Limit: filter.Limit,
		},
	}
	for _, tx := range transactions {
		resp.Transactions = append(resp.Transactions, toTransactionResponse(tx))
	}

	return resp, nil
}

// GetTransactionActivity returns the audit trail, newest first. The
// transaction itself may already be deleted.
func (s *TransactionService) GetTransactionActivity(ctx context.Context, userID, transactionID uuid.UUID) ([]dto.ActivityResponse, error) {
	activities, err := s.activity.List(ctx, userID, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}

	resp := make([]dto.ActivityResponse, 0, len(activities))
	for _, a := range activities {
		resp = append(resp, toActivityResponse(a))
	}
	return resp, nil
}

func (s *TransactionService) loadUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

func (s *TransactionService) record(op string, decision ledger.Decision) ledger.Decision {
	outcome := metrics.OutcomeAccepted
	switch {
	case !decision.Accepted:
		outcome = metrics.OutcomeRejected
	case decision.Warning:
		outcome = metrics.OutcomeWarning
	}
	metrics.LedgerDecisions.WithLabelValues(op, outcome).Inc()

	return decision
}

// applyBalance runs after the transaction record is written. A failure here
// is not rolled back: the record stays and the wallet has drifted until the
// next reconciliation.
func (s *TransactionService) applyBalance(ctx context.Context, op string, userID, transactionID uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error) {
	balance, err := s.userRepo.IncrementBalance(ctx, userID, delta)
	if err != nil {
		metrics.BalanceWriteFailures.WithLabelValues(op).Inc()
		s.logger.Error("Wallet balance update failed after transaction write, reconciliation required",
			zap.Error(err),
			zap.String("operation", op),
			zap.String("user_id", userID.String()),
			zap.String("transaction_id", transactionID.String()),
			zap.String("delta", delta.String()),
		)
		return decimal.Zero, fmt.Errorf("%w: %v", ErrBalanceNotApplied, err)
	}
	return balance, nil
}

func transactionLookupError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrTransactionNotFound
	}
	return fmt.Errorf("failed to load transaction: %w", err)
}

func snapshotInput(snap *dto.TransactionResponse) *dto.TransactionInput {
	amount := snap.Amount
	isRecurring := snap.IsRecurring
	in := &dto.TransactionInput{
		Type:              &snap.Type,
		Amount:            &amount,
		Category:          &snap.Category,
		Description:       &snap.Description,
		PaymentMethod:     &snap.PaymentMethod,
		Mood:              &snap.Mood,
		IsRecurring:       &isRecurring,
		RecurringInterval: snap.RecurringInterval,
	}
	if snap.Date != "" {
		in.Date = &snap.Date
	}
	if snap.PaymentMethod == "" {
		in.PaymentMethod = nil
	}
	if snap.Mood == "" {
		in.Mood = nil
	}
	return in
}

func normalizeListQuery(q dto.ListTransactionsQuery) (models.TransactionFilter, int) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	filter := models.TransactionFilter{
		Sort:   models.SortNewest,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}

	if t := models.TransactionType(strings.ToLower(q.Type)); t.Valid() {
		filter.Type = &t
	}

	if from, _, ok := parseDate(q.StartDate); ok {
		filter.From = &from
	}
	if to, dateOnly, ok := parseDate(q.EndDate); ok {
		if dateOnly {
			// Inclusive through the end of that day.
			to = to.Add(24*time.Hour - time.Nanosecond)
		}
		filter.To = &to
	}

	search := strings.TrimSpace(sanitizeUTF8(q.Search))
	if runes := []rune(search); len(runes) > maxSearchLength {
		search = string(runes[:maxSearchLength])
	}
	filter.Search = search

	switch sort := models.TransactionSort(q.Sort); sort {
	case models.SortOldest, models.SortAmountHigh, models.SortAmountLow:
		filter.Sort = sort
	}

	return filter, page
}
