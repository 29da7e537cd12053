package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

type RecurringInterval string

const (
	IntervalDaily   RecurringInterval = "daily"
	IntervalWeekly  RecurringInterval = "weekly"
	IntervalMonthly RecurringInterval = "monthly"
)

func (i RecurringInterval) Valid() bool {
	switch i {
	case IntervalDaily, IntervalWeekly, IntervalMonthly:
		return true
	}
	return false
}

// Next returns t advanced by one interval. ok is false for an unknown interval.
func (i RecurringInterval) Next(t time.Time) (next time.Time, ok bool) {
	switch i {
	case IntervalDaily:
		return t.AddDate(0, 0, 1), true
	case IntervalWeekly:
		return t.AddDate(0, 0, 7), true
	case IntervalMonthly:
		return t.AddDate(0, 1, 0), true
	}
	return t, false
}

const (
	DefaultPaymentMethod = "cash"
	DefaultMood          = "neutral"
)

type Transaction struct {
	ID                uuid.UUID          `db:"id"`
	UserID            uuid.UUID          `db:"user_id"`
	Type              TransactionType    `db:"type"`
	Amount            decimal.Decimal    `db:"amount"`
	Category          string             `db:"category"`
	Description       string             `db:"description"`
	PaymentMethod     string             `db:"payment_method"`
	Mood              string             `db:"mood"`
	Date              time.Time          `db:"date"`
	IsRecurring       bool               `db:"is_recurring"`
	RecurringInterval *RecurringInterval `db:"recurring_interval"`
	NextExecutionDate *time.Time         `db:"next_execution_date"`
	CreatedAt         time.Time          `db:"created_at"`
	UpdatedAt         time.Time          `db:"updated_at"`
}

// Clone returns a deep copy, so stored records are never aliased by callers.
func (t *Transaction) Clone() *Transaction {
	c := *t
	if t.RecurringInterval != nil {
		iv := *t.RecurringInterval
		c.RecurringInterval = &iv
	}
	if t.NextExecutionDate != nil {
		next := *t.NextExecutionDate
		c.NextExecutionDate = &next
	}
	return &c
}

type TransactionSort string

const (
	SortNewest     TransactionSort = "newest"
	SortOldest     TransactionSort = "oldest"
	SortAmountHigh TransactionSort = "amount-high"
	SortAmountLow  TransactionSort = "amount-low"
)

// TransactionFilter is an already-normalized list query.
type TransactionFilter struct {
	Type   *TransactionType
	From   *time.Time
	To     *time.Time
	Search string
	Sort   TransactionSort
	Limit  int
	Offset int
}
