package service

import (
	"strings"
	"time"
	"unicode/utf8"

	"walletwise/internal/dto"
	"walletwise/internal/models"
)

// sanitizeUTF8 removes invalid UTF-8 sequences from string
// This prevents PostgreSQL encoding errors when saving text
func sanitizeUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}

	var result strings.Builder
	result.Grow(len(s))

	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		if r == utf8.RuneError && size == 1 {
			s = s[1:]
			continue
		}
		result.WriteRune(r)
		s = s[size:]
	}

	return result.String()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func toTransactionResponse(tx *models.Transaction) dto.TransactionResponse {
	resp := dto.TransactionResponse{
		ID:            tx.ID.String(),
		UserID:        tx.UserID.String(),
		Type:          string(tx.Type),
		Amount:        tx.Amount,
		Category:      tx.Category,
		Description:   tx.Description,
		PaymentMethod: tx.PaymentMethod,
		Mood:          tx.Mood,
		Date:          formatTime(tx.Date),
		IsRecurring:   tx.IsRecurring,
		CreatedAt:     formatTime(tx.CreatedAt),
		UpdatedAt:     formatTime(tx.UpdatedAt),
	}
	if tx.RecurringInterval != nil {
		iv := string(*tx.RecurringInterval)
		resp.RecurringInterval = &iv
	}
	if tx.NextExecutionDate != nil {
		next := formatTime(*tx.NextExecutionDate)
		resp.NextExecutionDate = &next
	}
	return resp
}

func toActivityResponse(a *models.TransactionActivity) dto.ActivityResponse {
	return dto.ActivityResponse{
		ID:            a.ID.String(),
		TransactionID: a.TransactionID.String(),
		Action:        string(a.Action),
		Changes:       a.Changes,
		Timestamp:     formatTime(a.Timestamp),
	}
}
