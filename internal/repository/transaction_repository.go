package repository

import (
	"context"
	"strings"
	"time"

	"walletwise/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var transactionColumns = []string{
	"id", "user_id", "type", "amount", "category", "description", "payment_method", "mood",
	"date", "is_recurring", "recurring_interval", "next_execution_date", "created_at", "updated_at",
}

type TransactionRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTransactionRepository(db *pgxpool.Pool, logger *zap.Logger) *TransactionRepository {
	return &TransactionRepository{
		db:     db,
		logger: logger,
	}
}

func scanTransaction(row pgx.Row) (*models.Transaction, error) {
	var tx models.Transaction
	err := row.Scan(
		&tx.ID, &tx.UserID, &tx.Type, &tx.Amount, &tx.Category, &tx.Description, &tx.PaymentMethod, &tx.Mood,
		&tx.Date, &tx.IsRecurring, &tx.RecurringInterval, &tx.NextExecutionDate, &tx.CreatedAt, &tx.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *TransactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	query := squirrel.Insert("transactions").
		Columns(transactionColumns...).
		Values(
			tx.ID, tx.UserID, tx.Type, tx.Amount, tx.Category, tx.Description, tx.PaymentMethod, tx.Mood,
			tx.Date, tx.IsRecurring, tx.RecurringInterval, tx.NextExecutionDate, tx.CreatedAt, tx.UpdatedAt,
		).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

// GetByIDForUser only returns the transaction when userID owns it.
func (r *TransactionRepository) GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.Transaction, error) {
	query := squirrel.Select(transactionColumns...).
		From("transactions").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	tx, err := scanTransaction(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, notFound(err)
	}
	return tx, nil
}

// Update writes every mutable column of tx, but only while the stored row
// still has prev's type and amount. id and user_id never change. A miss
// returns ErrConflict: the row was changed or deleted after prev was read.
func (r *TransactionRepository) Update(ctx context.Context, prev, tx *models.Transaction) error {
	sql, args, err := updateQuery(prev, tx).ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrConflict
	}
	return nil
}

func updateQuery(prev, tx *models.Transaction) squirrel.UpdateBuilder {
	return squirrel.Update("transactions").
		SetMap(map[string]interface{}{
			"type":                tx.Type,
			"amount":              tx.Amount,
			"category":            tx.Category,
			"description":         tx.Description,
			"payment_method":      tx.PaymentMethod,
			"mood":                tx.Mood,
			"date":                tx.Date,
			"is_recurring":        tx.IsRecurring,
			"recurring_interval":  tx.RecurringInterval,
			"next_execution_date": tx.NextExecutionDate,
			"updated_at":          tx.UpdatedAt,
		}).
		Where(squirrel.Eq{
			"id":      tx.ID,
			"user_id": tx.UserID,
			"type":    prev.Type,
			"amount":  prev.Amount,
		}).
		PlaceholderFormat(squirrel.Dollar)
}

// DeleteForUser deletes and returns the row in one statement, so two
// concurrent deletes of the same id cannot both observe it.
func (r *TransactionRepository) DeleteForUser(ctx context.Context, id, userID uuid.UUID) (*models.Transaction, error) {
	query := squirrel.Delete("transactions").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		Suffix("RETURNING " + strings.Join(transactionColumns, ", ")).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	tx, err := scanTransaction(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, notFound(err)
	}
	return tx, nil
}

func (r *TransactionRepository) UpdateNextExecutionDate(ctx context.Context, id, userID uuid.UUID, next time.Time) error {
	query := squirrel.Update("transactions").
		Set("next_execution_date", next).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns one page of the user's transactions and the total number of
// rows matching the filter.
func (r *TransactionRepository) List(ctx context.Context, userID uuid.UUID, filter models.TransactionFilter) ([]*models.Transaction, int, error) {
	where := transactionFilterWhere(userID, filter)

	countSQL, countArgs, err := squirrel.Select("COUNT(*)").
		From("transactions").
		Where(where).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := squirrel.Select(transactionColumns...).
		From("transactions").
		Where(where).
		OrderBy(transactionOrderBy(filter.Sort)...).
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset)).
		PlaceholderFormat(squirrel.Dollar)

	transactions, err := r.query(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	return transactions, total, nil
}

// ListAllByUser returns the full history, oldest first. Used for replay.
func (r *TransactionRepository) ListAllByUser(ctx context.Context, userID uuid.UUID) ([]*models.Transaction, error) {
	query := squirrel.Select(transactionColumns...).
		From("transactions").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at ASC").
		PlaceholderFormat(squirrel.Dollar)

	return r.query(ctx, query)
}

func (r *TransactionRepository) query(ctx context.Context, query squirrel.SelectBuilder) ([]*models.Transaction, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []*models.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}

	return transactions, rows.Err()
}

func transactionFilterWhere(userID uuid.UUID, filter models.TransactionFilter) squirrel.And {
	where := squirrel.And{squirrel.Eq{"user_id": userID}}

	if filter.Type != nil {
		where = append(where, squirrel.Eq{"type": *filter.Type})
	}
	if filter.From != nil {
		where = append(where, squirrel.GtOrEq{"date": *filter.From})
	}
	if filter.To != nil {
		where = append(where, squirrel.LtOrEq{"date": *filter.To})
	}
	if filter.Search != "" {
		pattern := "%" + escapeLike(filter.Search) + "%"
		where = append(where, squirrel.Or{
			squirrel.ILike{"description": pattern},
			squirrel.ILike{"category": pattern},
		})
	}

	return where
}

func transactionOrderBy(sort models.TransactionSort) []string {
	switch sort {
	case models.SortOldest:
		return []string{"date ASC", "created_at ASC"}
	case models.SortAmountHigh:
		return []string{"amount DESC", "date DESC"}
	case models.SortAmountLow:
		return []string{"amount ASC", "date DESC"}
	default:
		return []string{"date DESC", "created_at DESC"}
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
