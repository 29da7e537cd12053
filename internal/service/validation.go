package service

import (
	"strings"
	"time"

	"walletwise/internal/dto"
	"walletwise/internal/models"

	"github.com/shopspring/decimal"
)

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

func parseDate(s string) (t time.Time, dateOnly bool, ok bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed, layout == "2006-01-02", true
		}
	}
	return time.Time{}, false, false
}

// transactionPatch is a validated, normalized TransactionInput.
type transactionPatch struct {
	Type              *models.TransactionType
	Amount            *decimal.Decimal
	Category          *string
	Description       *string
	PaymentMethod     *string
	Mood              *string
	Date              *time.Time
	IsRecurring       *bool
	RecurringInterval *models.RecurringInterval
	clearInterval     bool
}

// parseTransactionInput validates input. When partial is false, type, amount
// and category are required. The first problem found is reported.
func parseTransactionInput(in *dto.TransactionInput, partial bool) (*transactionPatch, error) {
	if in == nil {
		return nil, invalid("Invalid input")
	}

	p := &transactionPatch{}

	switch {
	case in.Type != nil:
		t := models.TransactionType(strings.ToLower(strings.TrimSpace(*in.Type)))
		if !t.Valid() {
			return nil, invalid("Type must be income or expense")
		}
		p.Type = &t
	case !partial:
		return nil, invalid("Type is required")
	}

	switch {
	case in.Amount != nil:
		if !in.Amount.IsPositive() {
			return nil, invalid("Amount must be greater than 0")
		}
		a := *in.Amount
		p.Amount = &a
	case !partial:
		return nil, invalid("Amount is required")
	}

	switch {
	case in.Category != nil:
		c := strings.ToLower(strings.TrimSpace(sanitizeUTF8(*in.Category)))
		if c == "" {
			return nil, invalid("Category is required")
		}
		p.Category = &c
	case !partial:
		return nil, invalid("Category is required")
	}

	p.Description = trimmed(in.Description)
	p.PaymentMethod = trimmed(in.PaymentMethod)
	p.Mood = trimmed(in.Mood)

	if in.Date != nil && strings.TrimSpace(*in.Date) != "" {
		d, _, ok := parseDate(*in.Date)
		if !ok {
			return nil, invalid("Invalid date")
		}
		p.Date = &d
	}

	p.IsRecurring = in.IsRecurring

	if in.RecurringInterval != nil {
		iv := models.RecurringInterval(strings.ToLower(strings.TrimSpace(*in.RecurringInterval)))
		switch {
		case iv == "":
			p.clearInterval = true
		case iv.Valid():
			p.RecurringInterval = &iv
		default:
			return nil, invalid("Recurring interval must be daily, weekly or monthly")
		}
	}

	return p, nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(sanitizeUTF8(*s))
	return &v
}

// newTransactionDefaults is the base a new transaction is merged onto.
func newTransactionDefaults(now time.Time) models.Transaction {
	return models.Transaction{
		PaymentMethod: models.DefaultPaymentMethod,
		Mood:          models.DefaultMood,
		Date:          now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// mergeTransaction produces the complete new state of a transaction: supplied
// fields win, everything else keeps the base value. Ledger deltas are always
// computed from base and the merged result, never from the patch itself.
func mergeTransaction(base models.Transaction, p *transactionPatch) *models.Transaction {
	tx := base.Clone()

	if p.Type != nil {
		tx.Type = *p.Type
	}
	if p.Amount != nil {
		tx.Amount = *p.Amount
	}
	if p.Category != nil {
		tx.Category = *p.Category
	}
	if p.Description != nil {
		tx.Description = *p.Description
	}
	if p.PaymentMethod != nil {
		tx.PaymentMethod = *p.PaymentMethod
	}
	if p.Mood != nil {
		tx.Mood = *p.Mood
	}
	if p.Date != nil {
		tx.Date = *p.Date
	}
	if p.IsRecurring != nil {
		tx.IsRecurring = *p.IsRecurring
	}
	if p.clearInterval {
		tx.RecurringInterval = nil
		tx.NextExecutionDate = nil
	}
	if p.RecurringInterval != nil {
		iv := *p.RecurringInterval
		tx.RecurringInterval = &iv
	}

	normalizeRecurrence(tx)
	return tx
}

// normalizeRecurrence keeps the schedule consistent with the flags: a
// non-recurring transaction has no interval or next date, and a recurring one
// with an interval gets its first occurrence scheduled one interval after its
// date.
func normalizeRecurrence(tx *models.Transaction) {
	if !tx.IsRecurring {
		tx.RecurringInterval = nil
		tx.NextExecutionDate = nil
		return
	}
	if tx.RecurringInterval != nil && tx.NextExecutionDate == nil {
		if next, ok := tx.RecurringInterval.Next(tx.Date); ok {
			tx.NextExecutionDate = &next
		}
	}
}
