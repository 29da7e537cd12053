package service

import (
	"context"
	"time"

	"walletwise/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UserStore is satisfied by repository.UserRepository and memory.UserRepository.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	IncrementBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error)
	SetBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
}

type TransactionStore interface {
	Create(ctx context.Context, tx *models.Transaction) error
	GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.Transaction, error)
	// Update fails with repository.ErrConflict unless the stored row still
	// has prev's type and amount.
	Update(ctx context.Context, prev, tx *models.Transaction) error
	DeleteForUser(ctx context.Context, id, userID uuid.UUID) (*models.Transaction, error)
	UpdateNextExecutionDate(ctx context.Context, id, userID uuid.UUID, next time.Time) error
	List(ctx context.Context, userID uuid.UUID, filter models.TransactionFilter) ([]*models.Transaction, int, error)
	ListAllByUser(ctx context.Context, userID uuid.UUID) ([]*models.Transaction, error)
}

// ActivityLog is satisfied by activity.Recorder.
type ActivityLog interface {
	Record(userID, transactionID uuid.UUID, action models.ActivityAction, changes any)
	List(ctx context.Context, userID, transactionID uuid.UUID) ([]*models.TransactionActivity, error)
}
