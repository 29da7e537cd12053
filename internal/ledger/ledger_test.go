package ledger

import (
	"math/rand"
	"testing"

	"walletwise/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

const (
	income  = models.TransactionTypeIncome
	expense = models.TransactionTypeExpense
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestDeltas(t *testing.T) {
	tests := []struct {
		name string
		got  decimal.Decimal
		want string
	}{
		{"add income", AddDelta(income, dec("200")), "200"},
		{"add expense", AddDelta(expense, dec("100")), "-100"},
		{"delete income", DeleteDelta(income, dec("200")), "-200"},
		{"delete expense", DeleteDelta(expense, dec("100")), "100"},
		{"undo expense", UndoDelta(expense, dec("12.50")), "-12.5"},
		{"update amount only", UpdateDelta(expense, dec("100"), expense, dec("250")), "-150"},
		{"update type only", UpdateDelta(expense, dec("40"), income, dec("40")), "80"},
		{"update both", UpdateDelta(income, dec("10"), expense, dec("5.25")), "-15.25"},
		{"update no-op", UpdateDelta(income, dec("10"), income, dec("10")), "0"},
	}
	for _, tt := range tests {
		assert.True(t, tt.got.Equal(dec(tt.want)), "%s: got %s, want %s", tt.name, tt.got, tt.want)
	}
}

func TestApplyDelta_Strict(t *testing.T) {
	l := New(true)

	d := l.ApplyDelta(dec("0"), dec("-100"))
	assert.False(t, d.Accepted)
	assert.True(t, d.NewBalance.Equal(dec("0")), "rejected decision keeps the balance")

	d = l.ApplyDelta(dec("100"), dec("-100"))
	assert.True(t, d.Accepted, "landing exactly on zero is allowed")
	assert.False(t, d.Warning)
	assert.True(t, d.NewBalance.IsZero())

	d = l.ApplyDelta(dec("-50"), dec("20"))
	assert.False(t, d.Accepted, "an update that stays negative is rejected even when it raises the balance")
	assert.True(t, d.NewBalance.Equal(dec("-50")))

	d = l.ApplyDelta(dec("-50"), decimal.Zero)
	assert.False(t, d.Accepted)
}

func TestApplyContribution(t *testing.T) {
	strict := New(true)

	d := strict.ApplyContribution(dec("-50"), income, dec("20"))
	assert.True(t, d.Accepted, "income is accepted onto a negative balance")
	assert.True(t, d.Warning)
	assert.True(t, d.NewBalance.Equal(dec("-30")))

	d = strict.ApplyContribution(dec("10"), expense, dec("20"))
	assert.False(t, d.Accepted)
	assert.True(t, d.NewBalance.Equal(dec("10")))

	d = strict.ApplyContribution(dec("20"), expense, dec("20"))
	assert.True(t, d.Accepted)
	assert.True(t, d.NewBalance.IsZero())

	d = New(false).ApplyContribution(dec("10"), expense, dec("20"))
	assert.True(t, d.Accepted)
	assert.True(t, d.Warning)
	assert.True(t, d.NewBalance.Equal(dec("-10")))
}

func TestApplyDelta_NonStrict(t *testing.T) {
	l := New(false)

	d := l.ApplyDelta(dec("10"), dec("-100"))
	assert.True(t, d.Accepted)
	assert.True(t, d.Warning)
	assert.True(t, d.NewBalance.Equal(dec("-90")), "no clamping to zero")

	d = l.ApplyDelta(dec("10"), dec("5"))
	assert.True(t, d.Accepted)
	assert.False(t, d.Warning)
}

func TestForceDelta(t *testing.T) {
	d := New(true).ForceDelta(dec("50"), dec("-200"))
	assert.True(t, d.Accepted)
	assert.True(t, d.Warning)
	assert.True(t, d.NewBalance.Equal(dec("-150")))
}

func TestReplay(t *testing.T) {
	txs := []*models.Transaction{
		{Type: income, Amount: dec("200")},
		{Type: expense, Amount: dec("100")},
		{Type: expense, Amount: dec("0.10")},
		{Type: income, Amount: dec("0.20")},
	}
	assert.True(t, Replay(txs).Equal(dec("100.1")))
	assert.True(t, Replay(nil).IsZero())
}

// Applying add deltas and then update/delete deltas must always match a
// replay over the surviving set.
func TestDeltasAgreeWithReplay(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	types := []models.TransactionType{income, expense}

	for round := 0; round < 200; round++ {
		var live []*models.Transaction
		balance := decimal.Zero

		for step := 0; step < 30; step++ {
			switch op := rng.Intn(3); {
			case op == 0 || len(live) == 0:
				tx := &models.Transaction{Type: types[rng.Intn(2)], Amount: decimal.New(int64(rng.Intn(10000)+1), -2)}
				balance = balance.Add(AddDelta(tx.Type, tx.Amount))
				live = append(live, tx)
			case op == 1:
				i := rng.Intn(len(live))
				newType, newAmount := types[rng.Intn(2)], decimal.New(int64(rng.Intn(10000)+1), -2)
				balance = balance.Add(UpdateDelta(live[i].Type, live[i].Amount, newType, newAmount))
				live[i] = &models.Transaction{Type: newType, Amount: newAmount}
			default:
				i := rng.Intn(len(live))
				balance = balance.Add(DeleteDelta(live[i].Type, live[i].Amount))
				live = append(live[:i], live[i+1:]...)
			}
		}

		assert.True(t, balance.Equal(Replay(live)), "round %d: incremental %s, replay %s", round, balance, Replay(live))
	}
}
