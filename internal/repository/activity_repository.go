package repository

import (
	"context"

	"walletwise/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type ActivityRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewActivityRepository(db *pgxpool.Pool, logger *zap.Logger) *ActivityRepository {
	return &ActivityRepository{
		db:     db,
		logger: logger,
	}
}

func (r *ActivityRepository) Create(ctx context.Context, a *models.TransactionActivity) error {
	changes := a.Changes
	if len(changes) == 0 {
		changes = []byte("{}")
	}

	query := squirrel.Insert("transaction_activities").
		Columns("id", "user_id", "transaction_id", "action", "changes", "timestamp").
		Values(a.ID, a.UserID, a.TransactionID, a.Action, changes, a.Timestamp).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

// ListByTransaction returns the trail for one transaction, newest first.
func (r *ActivityRepository) ListByTransaction(ctx context.Context, userID, transactionID uuid.UUID) ([]*models.TransactionActivity, error) {
	query := squirrel.Select("id", "user_id", "transaction_id", "action", "changes", "timestamp").
		From("transaction_activities").
		Where(squirrel.Eq{"user_id": userID, "transaction_id": transactionID}).
		OrderBy("timestamp DESC").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []*models.TransactionActivity
	for rows.Next() {
		var a models.TransactionActivity
		if err := rows.Scan(&a.ID, &a.UserID, &a.TransactionID, &a.Action, &a.Changes, &a.Timestamp); err != nil {
			return nil, err
		}
		activities = append(activities, &a)
	}

	return activities, rows.Err()
}
