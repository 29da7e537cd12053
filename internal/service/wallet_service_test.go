package service

import (
	"context"
	"testing"

	"walletwise/internal/ledger"
	"walletwise/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWalletService_GetWallet(t *testing.T) {
	f := newFixture(t, true, "0")
	f.add(t, "income", "120.50")

	wallet := NewWalletService(f.users, f.txs, ledger.New(true), zap.NewNop())

	resp, err := wallet.GetWallet(context.Background(), f.userID)
	require.NoError(t, err)
	assertBalance(t, "120.5", resp.WalletBalance)
	assert.True(t, resp.StrictMode)

	_, err = wallet.GetWallet(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestWalletService_Reconcile(t *testing.T) {
	f := newFixture(t, false, "0")
	ctx := context.Background()

	f.add(t, "income", "1000")
	f.add(t, "expense", "250")

	wallet := NewWalletService(f.users, f.txs, ledger.New(false), zap.NewNop())

	resp, err := wallet.Reconcile(ctx, f.userID, false)
	require.NoError(t, err)
	assert.True(t, resp.Drift.IsZero())
	assert.False(t, resp.Corrected)
	assert.Equal(t, 2, resp.Transactions)

	require.NoError(t, f.users.SetBalance(ctx, f.userID, decimal.NewFromInt(900)))

	resp, err = wallet.Reconcile(ctx, f.userID, true)
	require.NoError(t, err)
	assertBalance(t, "150", resp.Drift)
	assertBalance(t, "750", resp.ReplayedBalance)
	assert.False(t, resp.Corrected)
	assertBalance(t, "900", f.balance(t))

	resp, err = wallet.Reconcile(ctx, f.userID, false)
	require.NoError(t, err)
	assert.True(t, resp.Corrected)
	assertBalance(t, "750", f.balance(t))
}

func TestWalletService_ReconcileAfterBalanceWriteFailure(t *testing.T) {
	f := newFixtureWithUsers(t, false, "0", func(r *memory.UserRepository) UserStore {
		return failingBalanceStore{r}
	}, zap.NewNop())
	ctx := context.Background()

	_, err := f.svc.AddTransaction(ctx, f.userID, newInput("income", "40", "salary"))
	require.ErrorIs(t, err, ErrBalanceNotApplied)
	assertBalance(t, "0", f.balance(t))

	wallet := NewWalletService(f.users, f.txs, ledger.New(false), zap.NewNop())
	results, err := wallet.ReconcileAll(ctx, false)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Corrected)
	assertBalance(t, "40", f.balance(t))
}
