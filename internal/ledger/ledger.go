// Package ledger computes wallet balance deltas and decides whether a delta
// may be applied under the configured overdraft policy.
//
// Income contributes +amount to the balance and expense contributes -amount.
// The ledger is pure: it never touches a store, so the same rules drive the
// transaction service, reconciliation and tests.
package ledger

import (
	"walletwise/internal/models"

	"github.com/shopspring/decimal"
)

// Contribution is the signed effect of one transaction on the balance.
func Contribution(t models.TransactionType, amount decimal.Decimal) decimal.Decimal {
	if t == models.TransactionTypeIncome {
		return amount
	}
	return amount.Neg()
}

func AddDelta(t models.TransactionType, amount decimal.Decimal) decimal.Decimal {
	return Contribution(t, amount)
}

// DeleteDelta reverses the original contribution.
func DeleteDelta(t models.TransactionType, amount decimal.Decimal) decimal.Decimal {
	return Contribution(t, amount).Neg()
}

// UpdateDelta fully reverses the old effect and applies the new one, even when
// only one of type or amount changed.
func UpdateDelta(oldType models.TransactionType, oldAmount decimal.Decimal, newType models.TransactionType, newAmount decimal.Decimal) decimal.Decimal {
	return DeleteDelta(oldType, oldAmount).Add(Contribution(newType, newAmount))
}

// UndoDelta re-applies a deleted transaction, identical to AddDelta.
func UndoDelta(t models.TransactionType, amount decimal.Decimal) decimal.Decimal {
	return AddDelta(t, amount)
}

// Replay recomputes a balance from scratch.
func Replay(transactions []*models.Transaction) decimal.Decimal {
	balance := decimal.Zero
	for _, tx := range transactions {
		balance = balance.Add(Contribution(tx.Type, tx.Amount))
	}
	return balance
}

// Decision is the outcome of applying a delta to a balance.
type Decision struct {
	Accepted   bool
	NewBalance decimal.Decimal
	// Warning is set when an accepted delta leaves the balance negative.
	Warning bool
}

type Ledger struct {
	strict bool
}

func New(strict bool) *Ledger {
	return &Ledger{strict: strict}
}

func (l *Ledger) Strict() bool {
	return l.strict
}

// ApplyDelta projects current+delta. In strict mode any delta whose
// projection is below zero is rejected, whatever its sign. Outside strict
// mode everything is accepted and a negative projection only sets Warning.
func (l *Ledger) ApplyDelta(current, delta decimal.Decimal) Decision {
	projected := current.Add(delta)
	negative := projected.IsNegative()

	if l.strict && negative {
		return Decision{Accepted: false, NewBalance: current}
	}

	return Decision{
		Accepted:   true,
		NewBalance: projected,
		Warning:    negative,
	}
}

// ApplyContribution decides adding (or restoring) a transaction of type t.
// Income is always accepted, even onto a negative balance; expense goes
// through ApplyDelta.
func (l *Ledger) ApplyContribution(current decimal.Decimal, t models.TransactionType, amount decimal.Decimal) Decision {
	delta := AddDelta(t, amount)
	if t == models.TransactionTypeIncome {
		return l.ForceDelta(current, delta)
	}
	return l.ApplyDelta(current, delta)
}

// ForceDelta applies a delta without any policy check. Deletes use it.
func (l *Ledger) ForceDelta(current, delta decimal.Decimal) Decision {
	projected := current.Add(delta)
	return Decision{
		Accepted:   true,
		NewBalance: projected,
		Warning:    projected.IsNegative(),
	}
}
