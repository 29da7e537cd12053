package memory

import (
	"context"
	"testing"
	"time"

	"walletwise/internal/models"
	"walletwise/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTx(userID uuid.UUID, typ models.TransactionType, amount, category, description string, date time.Time) *models.Transaction {
	return &models.Transaction{
		ID:          uuid.New(),
		UserID:      userID,
		Type:        typ,
		Amount:      decimal.RequireFromString(amount),
		Category:    category,
		Description: description,
		Date:        date,
	}
}

func TestTransactionRepository_OwnershipAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewTransactionRepository()
	owner, stranger := uuid.New(), uuid.New()

	tx := newTx(owner, models.TransactionTypeExpense, "10", "food", "", time.Now())
	require.NoError(t, repo.Create(ctx, tx))

	_, err := repo.GetByIDForUser(ctx, tx.ID, stranger)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = repo.DeleteForUser(ctx, tx.ID, stranger)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	deleted, err := repo.DeleteForUser(ctx, tx.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, tx.ID, deleted.ID)

	_, err = repo.DeleteForUser(ctx, tx.ID, owner)
	assert.ErrorIs(t, err, repository.ErrNotFound, "second delete must not find the row")
}

func TestTransactionRepository_UpdateIsConditional(t *testing.T) {
	ctx := context.Background()
	repo := NewTransactionRepository()
	owner := uuid.New()

	prev := newTx(owner, models.TransactionTypeExpense, "100", "food", "", time.Now())
	require.NoError(t, repo.Create(ctx, prev))

	first := prev.Clone()
	first.Amount = decimal.NewFromInt(200)
	require.NoError(t, repo.Update(ctx, prev, first))

	second := prev.Clone()
	second.Amount = decimal.NewFromInt(300)
	assert.ErrorIs(t, repo.Update(ctx, prev, second), repository.ErrConflict, "row no longer holds the amount that was read")

	stranger := first.Clone()
	stranger.UserID = uuid.New()
	assert.ErrorIs(t, repo.Update(ctx, first, stranger), repository.ErrConflict)

	stored, err := repo.GetByIDForUser(ctx, prev.ID, owner)
	require.NoError(t, err)
	assert.True(t, stored.Amount.Equal(decimal.NewFromInt(200)))
}

func TestTransactionRepository_List(t *testing.T) {
	ctx := context.Background()
	repo := NewTransactionRepository()
	userID := uuid.New()
	day := func(d int) time.Time { return time.Date(2025, 3, d, 12, 0, 0, 0, time.UTC) }

	require.NoError(t, repo.Create(ctx, newTx(userID, models.TransactionTypeIncome, "500", "salary", "March pay", day(1))))
	require.NoError(t, repo.Create(ctx, newTx(userID, models.TransactionTypeExpense, "12.5", "food", "Pizza night", day(5))))
	require.NoError(t, repo.Create(ctx, newTx(userID, models.TransactionTypeExpense, "40", "transport", "Metro card", day(10))))
	require.NoError(t, repo.Create(ctx, newTx(uuid.New(), models.TransactionTypeExpense, "99", "food", "someone else", day(6))))

	all, total, err := repo.List(ctx, userID, models.TransactionFilter{Sort: models.SortNewest, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, all, 3)
	assert.Equal(t, "transport", all[0].Category)
	assert.Equal(t, "salary", all[2].Category)

	expense := models.TransactionTypeExpense
	page, total, err := repo.List(ctx, userID, models.TransactionFilter{Type: &expense, Sort: models.SortAmountLow, Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, page, 1)
	assert.True(t, page[0].Amount.Equal(decimal.RequireFromString("40")))

	found, total, err := repo.List(ctx, userID, models.TransactionFilter{Search: "PIZZA", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "food", found[0].Category)

	from, to := day(2), day(9)
	ranged, _, err := repo.List(ctx, userID, models.TransactionFilter{From: &from, To: &to, Limit: 10})
	require.NoError(t, err)
	require.Len(t, ranged, 1)
	assert.Equal(t, "food", ranged[0].Category)
}

func TestUserRepository_IncrementBalance(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()
	user := &models.User{ID: uuid.New(), Email: "a@example.com"}
	require.NoError(t, repo.Create(ctx, user))

	balance, err := repo.IncrementBalance(ctx, user.ID, decimal.NewFromInt(25))
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(25)))

	balance, err = repo.IncrementBalance(ctx, user.ID, decimal.NewFromInt(-40))
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(-15)))

	_, err = repo.IncrementBalance(ctx, uuid.New(), decimal.NewFromInt(1))
	assert.ErrorIs(t, err, repository.ErrNotFound)

	byEmail, err := repo.GetByEmail(ctx, "A@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)
}

func TestActivityRepository_NewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewActivityRepository()
	userID, txID := uuid.New(), uuid.New()
	base := time.Now()

	require.NoError(t, repo.Create(ctx, &models.TransactionActivity{ID: uuid.New(), UserID: userID, TransactionID: txID, Action: models.ActionUpdated, Timestamp: base}))
	require.NoError(t, repo.Create(ctx, &models.TransactionActivity{ID: uuid.New(), UserID: userID, TransactionID: txID, Action: models.ActionDeleted, Timestamp: base.Add(time.Second)}))
	require.NoError(t, repo.Create(ctx, &models.TransactionActivity{ID: uuid.New(), UserID: uuid.New(), TransactionID: txID, Action: models.ActionDeleted, Timestamp: base}))

	list, err := repo.ListByTransaction(ctx, userID, txID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, models.ActionDeleted, list[0].Action)
	assert.Equal(t, models.ActionUpdated, list[1].Action)
}
